// Package interfaces defines service contracts for Vista
package interfaces

import (
	"context"

	"github.com/norteacoes/vista/internal/models"
)

// StockQuery is the filter surface of GET /stocks. Zero-valued fields
// are omitted from the request. Pointer fields distinguish "not set"
// from a real zero bound.
type StockQuery struct {
	Limit    int
	Offset   int
	MinScore *float64
	MaxScore *float64
	SortBy   string
	Order    string // "asc" or "desc"

	// Premium-only filters; must be cleared for free-tier users
	// before the request is issued.
	Sector        string
	Subsector     string
	MinPE         *float64
	MaxPE         *float64
	MinPB         *float64
	MaxPB         *float64
	MinDY         *float64
	MinROE        *float64
	MinROIC       *float64
	MinGraham     *float64
	MinGreenblatt *float64
	MinBazin      *float64
	MinQuality    *float64
	MinLiquidity  *float64
	CompanyType   string // blue_chips, mid_caps, small_caps
	MinMargin     *float64
	MinGrowth     *float64
}

// StripPremium returns a copy with every premium-only filter cleared.
func (q StockQuery) StripPremium() StockQuery {
	return StockQuery{
		Limit:    q.Limit,
		Offset:   q.Offset,
		MinScore: q.MinScore,
		MaxScore: q.MaxScore,
		SortBy:   q.SortBy,
		Order:    q.Order,
	}
}

// StockAPIClient provides access to the remote stock-analysis REST API.
// Endpoints that require authentication take the bearer token explicitly;
// callers are responsible for gating before the call is made.
type StockAPIClient interface {
	// Stocks retrieves the ranked stock list for the given query.
	Stocks(ctx context.Context, query StockQuery) ([]*models.StockRecord, error)

	// Stats retrieves the aggregate dashboard statistics.
	Stats(ctx context.Context) (*models.DashboardStats, error)

	// Sectors retrieves the distinct sector names.
	Sectors(ctx context.Context) ([]string, error)

	// Alerts retrieves the market alerts feed.
	Alerts(ctx context.Context) ([]models.Alert, error)

	// SuggestedPortfolio retrieves profile-based portfolio picks.
	SuggestedPortfolio(ctx context.Context, profile models.InvestorProfile) (*models.SuggestedPortfolio, error)

	// Chat sends a message plus trimmed history to the AI assistant.
	Chat(ctx context.Context, token string, req models.ChatRequest) (*models.ChatResponse, error)

	// WeeklyReport downloads the premium weekly PDF report.
	WeeklyReport(ctx context.Context, token string) ([]byte, error)

	// CheckoutURL creates a payment checkout session and returns the
	// external redirect target.
	CheckoutURL(ctx context.Context, token, returnURL string) (string, error)

	// Login exchanges credentials for a bearer token.
	Login(ctx context.Context, creds models.Credentials) (*models.TokenGrant, error)

	// Register creates an account and returns a bearer token.
	Register(ctx context.Context, reg models.Registration) (*models.TokenGrant, error)

	// OAuthLogin exchanges a provider identity for a bearer token.
	OAuthLogin(ctx context.Context, email, name, provider string) (*models.TokenGrant, error)

	// Me retrieves the profile for the given bearer token.
	Me(ctx context.Context, token string) (*models.User, error)

	// ResendConfirmation triggers a new confirmation email.
	ResendConfirmation(ctx context.Context, email string) error
}
