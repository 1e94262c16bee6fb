package norteapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/norteacoes/vista/internal/models"
)

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, creds models.Credentials) (*models.TokenGrant, error) {
	var grant models.TokenGrant
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", nil, creds, &grant); err != nil {
		return nil, err
	}
	return &grant, nil
}

// Register creates an account and returns a bearer token.
func (c *Client) Register(ctx context.Context, reg models.Registration) (*models.TokenGrant, error) {
	var grant models.TokenGrant
	if err := c.do(ctx, http.MethodPost, "/auth/register", "", nil, reg, &grant); err != nil {
		return nil, err
	}
	return &grant, nil
}

// OAuthLogin exchanges a provider identity for a bearer token.
func (c *Client) OAuthLogin(ctx context.Context, email, name, provider string) (*models.TokenGrant, error) {
	params := url.Values{}
	params.Set("email", email)
	params.Set("name", name)
	params.Set("provider", provider)

	var grant models.TokenGrant
	if err := c.do(ctx, http.MethodPost, "/auth/oauth-login", "", params, nil, &grant); err != nil {
		return nil, err
	}
	return &grant, nil
}

// Me retrieves the profile for the given bearer token.
func (c *Client) Me(ctx context.Context, token string) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/auth/me", token, nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ResendConfirmation triggers a new confirmation email.
func (c *Client) ResendConfirmation(ctx context.Context, email string) error {
	body := struct {
		Email string `json:"email"`
	}{Email: email}
	return c.do(ctx, http.MethodPost, "/auth/resend-confirmation", "", nil, body, nil)
}

// Chat sends a message plus trimmed history to the AI assistant.
// History is trimmed to the last six turns before the request goes out.
func (c *Client) Chat(ctx context.Context, token string, req models.ChatRequest) (*models.ChatResponse, error) {
	req.History = models.TrimHistory(req.History)

	var resp models.ChatResponse
	if err := c.do(ctx, http.MethodPost, "/chat", token, nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

var pdfMagic = []byte("%PDF")

// WeeklyReport downloads the premium weekly PDF report. Callers must
// gate on premium status before calling; the backend enforces it too.
func (c *Client) WeeklyReport(ctx context.Context, token string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/reports/weekly", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(msg),
			Endpoint:   "/reports/weekly",
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read report body: %w", err)
	}
	if !bytes.HasPrefix(data, pdfMagic) {
		return nil, fmt.Errorf("weekly report is not a PDF document")
	}

	c.logger.Debug().Int("bytes", len(data)).Msg("weekly report downloaded")

	return data, nil
}

// CheckoutURL creates a payment checkout session and returns the
// external redirect target.
func (c *Client) CheckoutURL(ctx context.Context, token, returnURL string) (string, error) {
	body := struct {
		ReturnURL string `json:"return_url"`
	}{ReturnURL: returnURL}

	var resp struct {
		URL string `json:"url"`
	}
	if err := c.do(ctx, http.MethodPost, "/payments/checkout", token, nil, body, &resp); err != nil {
		return "", err
	}
	if resp.URL == "" {
		return "", fmt.Errorf("checkout response missing redirect url")
	}
	return resp.URL, nil
}
