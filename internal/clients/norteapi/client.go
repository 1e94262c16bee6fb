// Package norteapi provides a client for the stock-analysis REST API
package norteapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/norteacoes/vista/internal/common"
	"github.com/norteacoes/vista/internal/interfaces"
	"github.com/norteacoes/vista/internal/models"
)

const (
	DefaultBaseURL   = "http://localhost:8000/api"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 10 // requests per second
)

// Client implements the StockAPIClient interface
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new stock API client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents an error response from the remote API
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("stock API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// do performs a rate-limited request and decodes the JSON response into
// result. A non-nil body is JSON-encoded; a non-empty token is sent as a
// bearer credential.
func (c *Client) do(ctx context.Context, method, path, token string, params url.Values, body, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.logger.Debug().Str("method", method).Str("url", c.baseURL+path).Msg("stock API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(resp.Body)
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(msg),
			Endpoint:   path,
		}
	}

	if result == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	return c.do(ctx, http.MethodGet, path, "", params, nil, result)
}

// stockResponse mirrors the wire shape of one ranked entry. The upstream
// serialiser writes 0 for absent metrics, so every numeric comes back as
// a plain float and is normalised to a pointer afterwards.
type stockResponse struct {
	Ticker           string  `json:"papel"`
	Sector           string  `json:"setor"`
	Subsector        string  `json:"subsetor"`
	Price            float64 `json:"cotacao"`
	PriceToEarnings  float64 `json:"p_l"`
	PriceToBook      float64 `json:"p_vp"`
	DividendYield    float64 `json:"dividend_yield"`
	ReturnOnEquity   float64 `json:"roe"`
	ReturnOnCapital  float64 `json:"roic"`
	NetMargin        float64 `json:"margem_liquida"`
	CurrentLiquidity float64 `json:"liquidez_corrente"`
	DebtToEquity     float64 `json:"div_bruta_patrimonio"`
	ScoreGraham      float64 `json:"score_graham"`
	ScoreGreenblatt  float64 `json:"score_greenblatt"`
	ScoreBazin       float64 `json:"score_bazin"`
	ScoreQuality     float64 `json:"score_qualidade"`
	SuperScore       float64 `json:"super_score"`
}

// optional converts the upstream zero-means-absent convention into an
// explicit missing value.
func optional(v float64) *float64 {
	if v == 0 {
		return nil
	}
	return &v
}

func (r *stockResponse) toRecord() *models.StockRecord {
	sector := r.Sector
	if sector == "N/A" {
		sector = ""
	}
	return &models.StockRecord{
		Ticker:           r.Ticker,
		Sector:           sector,
		Subsector:        r.Subsector,
		Price:            optional(r.Price),
		PriceToEarnings:  optional(r.PriceToEarnings),
		PriceToBook:      optional(r.PriceToBook),
		DividendYield:    optional(r.DividendYield),
		ReturnOnEquity:   optional(r.ReturnOnEquity),
		ReturnOnCapital:  optional(r.ReturnOnCapital),
		NetMargin:        optional(r.NetMargin),
		CurrentLiquidity: optional(r.CurrentLiquidity),
		DebtToEquity:     optional(r.DebtToEquity),
		ScoreGraham:      optional(r.ScoreGraham),
		ScoreGreenblatt:  optional(r.ScoreGreenblatt),
		ScoreBazin:       optional(r.ScoreBazin),
		ScoreQuality:     optional(r.ScoreQuality),
		SuperScore:       optional(r.SuperScore),
	}
}

func setFloat(params url.Values, key string, v *float64) {
	if v != nil {
		params.Set(key, strconv.FormatFloat(*v, 'f', -1, 64))
	}
}

// Stocks retrieves the ranked stock list for the given query.
func (c *Client) Stocks(ctx context.Context, query interfaces.StockQuery) ([]*models.StockRecord, error) {
	params := url.Values{}

	limit := query.Limit
	if limit <= 0 {
		limit = 50
	}
	params.Set("limit", strconv.Itoa(limit))
	if query.Offset > 0 {
		params.Set("offset", strconv.Itoa(query.Offset))
	}
	setFloat(params, "min_score", query.MinScore)
	setFloat(params, "max_score", query.MaxScore)
	if query.SortBy != "" {
		params.Set("sort_by", query.SortBy)
	}
	if query.Order != "" {
		params.Set("order", query.Order)
	}

	if query.Sector != "" {
		params.Set("setor", query.Sector)
	}
	if query.Subsector != "" {
		params.Set("subsetor", query.Subsector)
	}
	setFloat(params, "min_pl", query.MinPE)
	setFloat(params, "max_pl", query.MaxPE)
	setFloat(params, "min_pvp", query.MinPB)
	setFloat(params, "max_pvp", query.MaxPB)
	setFloat(params, "min_dy", query.MinDY)
	setFloat(params, "min_roe", query.MinROE)
	setFloat(params, "min_roic", query.MinROIC)
	setFloat(params, "min_graham", query.MinGraham)
	setFloat(params, "min_greenblatt", query.MinGreenblatt)
	setFloat(params, "min_bazin", query.MinBazin)
	setFloat(params, "min_qualidade", query.MinQuality)
	setFloat(params, "min_liquidity", query.MinLiquidity)
	if query.CompanyType != "" {
		params.Set("company_type", query.CompanyType)
	}
	setFloat(params, "min_margin", query.MinMargin)
	setFloat(params, "min_growth", query.MinGrowth)

	var rows []stockResponse
	if err := c.get(ctx, "/stocks", params, &rows); err != nil {
		return nil, err
	}

	stocks := make([]*models.StockRecord, len(rows))
	for i := range rows {
		stocks[i] = rows[i].toRecord()
	}

	c.logger.Debug().Int("results", len(stocks)).Msg("stock API returned ranked list")

	return stocks, nil
}

// Stats retrieves the aggregate dashboard statistics.
func (c *Client) Stats(ctx context.Context) (*models.DashboardStats, error) {
	var stats models.DashboardStats
	if err := c.get(ctx, "/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Sectors retrieves the distinct sector names.
func (c *Client) Sectors(ctx context.Context) ([]string, error) {
	var sectors []string
	if err := c.get(ctx, "/sectors", nil, &sectors); err != nil {
		return nil, err
	}
	return sectors, nil
}

// Alerts retrieves the market alerts feed.
func (c *Client) Alerts(ctx context.Context) ([]models.Alert, error) {
	var resp struct {
		Alerts []models.Alert `json:"alerts"`
	}
	if err := c.get(ctx, "/alerts", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Alerts, nil
}

// SuggestedPortfolio retrieves profile-based portfolio picks.
func (c *Client) SuggestedPortfolio(ctx context.Context, profile models.InvestorProfile) (*models.SuggestedPortfolio, error) {
	if !profile.Valid() {
		return nil, fmt.Errorf("unknown investor profile %q", profile)
	}

	body := struct {
		Profile string `json:"profile"`
	}{Profile: string(profile)}

	var portfolio models.SuggestedPortfolio
	if err := c.do(ctx, http.MethodPost, "/portfolio/suggested", "", nil, body, &portfolio); err != nil {
		return nil, err
	}
	return &portfolio, nil
}

// Ensure Client implements StockAPIClient
var _ interfaces.StockAPIClient = (*Client)(nil)
