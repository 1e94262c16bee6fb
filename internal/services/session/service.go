// Package session owns the bearer-token session and the freemium gate.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/norteacoes/vista/internal/common"
	"github.com/norteacoes/vista/internal/interfaces"
	"github.com/norteacoes/vista/internal/models"
)

var (
	// ErrNoSession means no user is logged in.
	ErrNoSession = errors.New("no active session")

	// ErrSessionExpired means the stored token is past its exp claim.
	ErrSessionExpired = errors.New("session expired")

	// ErrPremiumRequired means the action needs a premium subscription.
	// It is a precondition failure: the gated request must never reach
	// the network.
	ErrPremiumRequired = errors.New("premium subscription required")
)

// Service holds the single active session for this gateway instance.
type Service struct {
	mu     sync.RWMutex
	client interfaces.StockAPIClient
	logger *common.Logger
	now    func() time.Time

	current *models.Session
}

// NewService creates a session service backed by the remote auth endpoints.
func NewService(client interfaces.StockAPIClient, logger *common.Logger) *Service {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Service{
		client: client,
		logger: logger,
		now:    time.Now,
	}
}

// tokenExpiry reads the exp claim without verifying the signature. The
// remote API owns the signing key; the claim is only used to drop dead
// sessions before a request is wasted on them.
func tokenExpiry(token string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}

func (s *Service) adopt(grant *models.TokenGrant) *models.Session {
	sess := &models.Session{
		Token:     grant.AccessToken,
		User:      grant.User,
		ExpiresAt: tokenExpiry(grant.AccessToken),
	}

	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()

	s.logger.Info().
		Str("email", sess.User.Email).
		Bool("premium", sess.User.IsPremium).
		Time("expires_at", sess.ExpiresAt).
		Msg("Session established")

	snapshot := *sess
	return &snapshot
}

// Login authenticates against the remote API and stores the session.
func (s *Service) Login(ctx context.Context, creds models.Credentials) (*models.Session, error) {
	grant, err := s.client.Login(ctx, creds)
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	return s.adopt(grant), nil
}

// Register creates an account and stores the resulting session.
func (s *Service) Register(ctx context.Context, reg models.Registration) (*models.Session, error) {
	grant, err := s.client.Register(ctx, reg)
	if err != nil {
		return nil, fmt.Errorf("registration failed: %w", err)
	}
	return s.adopt(grant), nil
}

// OAuthLogin stores a session from an OAuth identity exchange.
func (s *Service) OAuthLogin(ctx context.Context, email, name, provider string) (*models.Session, error) {
	grant, err := s.client.OAuthLogin(ctx, email, name, provider)
	if err != nil {
		return nil, fmt.Errorf("oauth login failed: %w", err)
	}
	return s.adopt(grant), nil
}

// Current returns a copy of the active session, or nil when logged out.
func (s *Service) Current() *models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	snapshot := *s.current
	return &snapshot
}

// Token returns the bearer token if a live session exists.
func (s *Service) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil || s.current.Expired(s.now()) {
		return "", false
	}
	return s.current.Token, true
}

// IsPremium reports the premium flag of the active session.
func (s *Service) IsPremium() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil && !s.current.Expired(s.now()) && s.current.User.IsPremium
}

// RequirePremium checks the premium precondition for gated actions.
func (s *Service) RequirePremium() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch {
	case s.current == nil:
		return ErrNoSession
	case s.current.Expired(s.now()):
		return ErrSessionExpired
	case !s.current.User.IsPremium:
		return ErrPremiumRequired
	}
	return nil
}

// Refresh re-reads the profile from the remote API, picking up premium
// upgrades made out of band (e.g. a completed checkout).
func (s *Service) Refresh(ctx context.Context) (*models.User, error) {
	token, ok := s.Token()
	if !ok {
		return nil, ErrNoSession
	}

	user, err := s.client.Me(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("profile refresh failed: %w", err)
	}

	s.mu.Lock()
	if s.current != nil && s.current.Token == token {
		s.current.User = *user
	}
	s.mu.Unlock()

	return user, nil
}

// Logout drops the active session.
func (s *Service) Logout() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
	s.logger.Info().Msg("Session cleared")
}

// Ensure Service implements SessionService
var _ interfaces.SessionService = (*Service)(nil)
