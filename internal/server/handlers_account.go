package server

import (
	"net/http"

	"github.com/norteacoes/vista/internal/models"
	"github.com/norteacoes/vista/internal/services/dashboard"
)

// sessionResponse is the account payload returned after login and on
// GET /api/auth/me.
type sessionResponse struct {
	User    models.User `json:"user"`
	Premium bool        `json:"premium"`
}

// handleLogin handles POST /api/auth/login.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var creds models.Credentials
	if !DecodeJSON(w, r, &creds) {
		return
	}
	if creds.Email == "" || creds.Password == "" {
		WriteError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	sess, err := s.app.Session.Login(r.Context(), creds)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, sessionResponse{User: sess.User, Premium: sess.User.IsPremium})
}

// handleRegister handles POST /api/auth/register.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var reg models.Registration
	if !DecodeJSON(w, r, &reg) {
		return
	}
	if reg.Email == "" || reg.Password == "" {
		WriteError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	sess, err := s.app.Session.Register(r.Context(), reg)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, sessionResponse{User: sess.User, Premium: sess.User.IsPremium})
}

// handleOAuthLogin handles POST /api/auth/oauth: exchange of an
// already-verified external identity for an API session.
func (s *Server) handleOAuthLogin(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Email    string `json:"email"`
		Name     string `json:"name"`
		Provider string `json:"provider"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.Email == "" {
		WriteError(w, http.StatusBadRequest, "Email is required")
		return
	}
	if req.Provider == "" {
		req.Provider = "google"
	}

	sess, err := s.app.Session.OAuthLogin(r.Context(), req.Email, req.Name, req.Provider)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, sessionResponse{User: sess.User, Premium: sess.User.IsPremium})
}

// handleMe handles GET /api/auth/me. Re-validates the session against
// the upstream API so a subscription change is picked up.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	user, err := s.app.Session.Refresh(r.Context())
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, sessionResponse{User: *user, Premium: user.IsPremium})
}

// handleLogout handles POST /api/auth/logout.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	s.app.Session.Logout()
	WriteJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

// handleResendConfirmation handles POST /api/auth/resend-confirmation.
func (s *Server) handleResendConfirmation(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Email string `json:"email"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.Email == "" {
		WriteError(w, http.StatusBadRequest, "Email is required")
		return
	}

	if err := s.app.Client.ResendConfirmation(r.Context(), req.Email); err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "sent"})
}

// handleChat handles POST /api/chat: proxies the message plus a bounded
// history window to the upstream assistant.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	token, ok := s.app.Session.Token()
	if !ok {
		WriteErrorWithCode(w, http.StatusUnauthorized, "Login required", "login_required")
		return
	}

	var req models.ChatRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.Message == "" {
		WriteError(w, http.StatusBadRequest, "Message is required")
		return
	}

	resp, err := s.app.Client.Chat(r.Context(), token, req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, resp)
}

// handleWeeklyReport handles GET /api/reports/weekly. The premium gate
// runs before any network call is made.
func (s *Server) handleWeeklyReport(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	if err := s.app.Session.RequirePremium(); err != nil {
		WriteServiceError(w, err)
		return
	}
	token, _ := s.app.Session.Token()

	pdf, err := s.app.Client.WeeklyReport(r.Context(), token)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="relatorio-semanal.pdf"`)
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}

// handleCheckout handles POST /api/payments/checkout: creates an
// upstream checkout session and returns the redirect URL. Requires a
// logged-in session; a session that already holds premium is refused
// before any upstream call.
func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	token, ok := s.app.Session.Token()
	if !ok {
		WriteErrorWithCode(w, http.StatusUnauthorized, "Login required", "login_required")
		return
	}
	if s.app.Session.IsPremium() {
		WriteErrorWithCode(w, http.StatusConflict, "Already premium", "already_premium")
		return
	}

	var req struct {
		ReturnURL string `json:"return_url"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.ReturnURL == "" {
		req.ReturnURL = s.app.Config.Dashboard.ReturnURL
	}

	url, err := s.app.Client.CheckoutURL(r.Context(), token, req.ReturnURL)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	s.app.Dashboard.Notify(dashboard.NoticeSuccess, "redirecting to checkout")
	WriteJSON(w, http.StatusOK, map[string]string{"url": url})
}
