package models

// InvestorProfile selects the suggested-portfolio strategy.
type InvestorProfile string

const (
	ProfileConservative InvestorProfile = "conservador"
	ProfileModerate     InvestorProfile = "moderado"
	ProfileAggressive   InvestorProfile = "agressivo"
)

// Valid reports whether the profile is one the backend understands.
func (p InvestorProfile) Valid() bool {
	switch p {
	case ProfileConservative, ProfileModerate, ProfileAggressive:
		return true
	}
	return false
}

// PortfolioPick is one suggested holding.
type PortfolioPick struct {
	Ticker        string  `json:"ticker"`
	Sector        string  `json:"sector"`
	Price         float64 `json:"price"`
	SuperScore    float64 `json:"super_score"`
	PriceEarnings float64 `json:"p_l"`
	DividendYield float64 `json:"dividend_yield"`
	ReturnOnEq    float64 `json:"roe"`
	Liquidity     int64   `json:"liquidity"`
	Reason        string  `json:"reason"`
}

// PortfolioCriteria describes how the picks were selected.
type PortfolioCriteria struct {
	Description string `json:"description"`
	Objective   string `json:"objective"`
	Filters     string `json:"filters"`
}

// SuggestedPortfolio is the POST /portfolio/suggested response.
type SuggestedPortfolio struct {
	Profile    string            `json:"profile"`
	Criteria   PortfolioCriteria `json:"criteria"`
	Stocks     []PortfolioPick   `json:"stocks"`
	Disclaimer string            `json:"disclaimer"`
}

// Alert is one entry from GET /alerts.
type Alert struct {
	Type    string `json:"type"`
	Icon    string `json:"icon"`
	Title   string `json:"title"`
	Message string `json:"message"`
}
