package interfaces

import (
	"context"

	"github.com/norteacoes/vista/internal/models"
)

// SessionService owns the current user session and the freemium gate.
type SessionService interface {
	// Login authenticates against the remote API and stores the session.
	Login(ctx context.Context, creds models.Credentials) (*models.Session, error)

	// Register creates an account and stores the resulting session.
	Register(ctx context.Context, reg models.Registration) (*models.Session, error)

	// OAuthLogin stores a session from an OAuth identity exchange.
	OAuthLogin(ctx context.Context, email, name, provider string) (*models.Session, error)

	// Current returns the active session, or nil when logged out.
	Current() *models.Session

	// Token returns the bearer token if a live session exists.
	Token() (string, bool)

	// IsPremium reports the premium flag of the active session.
	IsPremium() bool

	// RequirePremium returns ErrPremiumRequired (or ErrNoSession) when
	// the active session may not use premium endpoints.
	RequirePremium() error

	// Refresh re-reads the profile from the remote API.
	Refresh(ctx context.Context) (*models.User, error)

	// Logout drops the active session.
	Logout()
}
