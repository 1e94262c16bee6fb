package server

import (
	"net/http"
	"runtime"
	"time"

	"github.com/norteacoes/vista/internal/common"
	"github.com/norteacoes/vista/internal/interfaces"
	"github.com/norteacoes/vista/internal/models"
	"github.com/norteacoes/vista/internal/services/dashboard"
	"github.com/norteacoes/vista/internal/services/toxicity"
)

// handleHealth handles GET /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"service": "vista-server",
		"uptime":  time.Since(s.app.StartupTime).Round(time.Second).String(),
	})
}

// handleVersion handles GET /api/version.
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"go":      runtime.Version(),
	})
}

// handleShutdown handles POST /api/shutdown (dev mode only).
func (s *Server) handleShutdown(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if s.app.Config.IsProduction() {
		WriteError(w, http.StatusForbidden, "Shutdown endpoint disabled in production")
		return
	}

	s.logger.Info().Msg("Shutdown requested via HTTP endpoint")

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Shutting down gracefully...\n"))

	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}

	if s.shutdownChan != nil {
		go func() {
			time.Sleep(100 * time.Millisecond)
			s.shutdownChan <- struct{}{}
		}()
	}
}

// dashboardResponse is the dashboard payload: fetch state plus the
// derived view the client asked for.
type dashboardResponse struct {
	State      dashboard.State         `json:"state"`
	Generation uint64                  `json:"generation"`
	FetchedAt  time.Time               `json:"fetched_at"`
	Notice     *dashboard.Notice       `json:"notice,omitempty"`
	Overview   *dashboard.OverviewView `json:"overview,omitempty"`
	Podium     []dashboard.CardView    `json:"podium,omitempty"`
	Toxic      *dashboard.ToxicView    `json:"toxic,omitempty"`
	FreePicks  []dashboard.CardView    `json:"free_picks,omitempty"`
}

// handleDashboard handles GET /api/dashboard. Query params select the
// view: tab (overview|ranking|anti-ranking), search, blue_chips,
// small_caps, category.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	q := r.URL.Query()
	premium := s.app.Session.IsPremium()
	snap := s.app.Dashboard.Current()

	resp := dashboardResponse{
		State:      snap.State,
		Generation: snap.Generation,
		FetchedAt:  snap.FetchedAt,
		Notice:     snap.Notice,
	}

	tab := dashboard.Tab(q.Get("tab"))
	switch tab {
	case dashboard.TabPodium:
		resp.Podium = s.app.Dashboard.Podium()
	case dashboard.TabToxic:
		category := toxicity.Category(q.Get("category"))
		if category == "" {
			category = toxicity.CategoryAll
		}
		view := s.app.Dashboard.Toxic(category, premium)
		resp.Toxic = &view
	default:
		filter := dashboard.ListFilter{
			Search:    q.Get("search"),
			BlueChips: q.Get("blue_chips") == "true",
			SmallCaps: q.Get("small_caps") == "true",
		}
		view := s.app.Dashboard.Overview(premium, filter)
		resp.Overview = &view
		resp.FreePicks = s.app.Dashboard.FreePicks(premium, time.Now())
	}

	WriteJSON(w, http.StatusOK, resp)
}

// refreshRequest carries the fetch dependencies for a dashboard reload.
// Premium-only filters are accepted but stripped server-side for
// free-tier sessions.
type refreshRequest struct {
	Tab      string  `json:"tab"`
	MinScore float64 `json:"min_score"`
	Filters  struct {
		Sector        string   `json:"sector"`
		Subsector     string   `json:"subsector"`
		MinPE         *float64 `json:"min_pe"`
		MaxPE         *float64 `json:"max_pe"`
		MinPB         *float64 `json:"min_pb"`
		MaxPB         *float64 `json:"max_pb"`
		MinDY         *float64 `json:"min_dy"`
		MinROE        *float64 `json:"min_roe"`
		MinROIC       *float64 `json:"min_roic"`
		MinGraham     *float64 `json:"min_graham"`
		MinGreenblatt *float64 `json:"min_greenblatt"`
		MinBazin      *float64 `json:"min_bazin"`
		MinQuality    *float64 `json:"min_quality"`
		MinLiquidity  *float64 `json:"min_liquidity"`
		CompanyType   string   `json:"company_type"`
		MinMargin     *float64 `json:"min_margin"`
		MinGrowth     *float64 `json:"min_growth"`
	} `json:"filters"`
}

// handleDashboardRefresh handles POST /api/dashboard/refresh. Returns
// immediately with the dispatched generation; clients follow progress
// over the stream or by polling GET /api/dashboard.
func (s *Server) handleDashboardRefresh(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req refreshRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	tab := dashboard.Tab(req.Tab)
	if tab == "" {
		tab = dashboard.TabOverview
	}

	query := dashboard.Query{
		Tab:      tab,
		MinScore: req.MinScore,
		Premium:  s.app.Session.IsPremium(),
		Filters: interfaces.StockQuery{
			Sector:        req.Filters.Sector,
			Subsector:     req.Filters.Subsector,
			MinPE:         req.Filters.MinPE,
			MaxPE:         req.Filters.MaxPE,
			MinPB:         req.Filters.MinPB,
			MaxPB:         req.Filters.MaxPB,
			MinDY:         req.Filters.MinDY,
			MinROE:        req.Filters.MinROE,
			MinROIC:       req.Filters.MinROIC,
			MinGraham:     req.Filters.MinGraham,
			MinGreenblatt: req.Filters.MinGreenblatt,
			MinBazin:      req.Filters.MinBazin,
			MinQuality:    req.Filters.MinQuality,
			MinLiquidity:  req.Filters.MinLiquidity,
			CompanyType:   req.Filters.CompanyType,
			MinMargin:     req.Filters.MinMargin,
			MinGrowth:     req.Filters.MinGrowth,
		},
	}

	gen := s.app.Dashboard.Refresh(query)
	WriteJSON(w, http.StatusAccepted, map[string]interface{}{
		"generation": gen,
		"state":      dashboard.StateLoading,
	})
}

// handleCompare handles GET /api/dashboard/compare?a=TICKER&b=TICKER.
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	tickerA := r.URL.Query().Get("a")
	tickerB := r.URL.Query().Get("b")
	if tickerA == "" || tickerB == "" {
		WriteError(w, http.StatusBadRequest, "Both 'a' and 'b' ticker parameters are required")
		return
	}

	result, err := s.app.Dashboard.Compare(tickerA, tickerB)
	if err != nil {
		WriteError(w, http.StatusNotFound, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, result)
}

// handleFreePicks handles GET /api/dashboard/picks: this week's
// rotating free-tier sample.
func (s *Server) handleFreePicks(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	picks := s.app.Dashboard.FreePicks(s.app.Session.IsPremium(), time.Now())
	WriteJSON(w, http.StatusOK, map[string]interface{}{"picks": picks})
}

// handleSectors handles GET /api/sectors.
func (s *Server) handleSectors(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	sectors, err := s.app.Client.Sectors(r.Context())
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"sectors": sectors})
}

// handleAlerts handles GET /api/alerts.
func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	alerts, err := s.app.Client.Alerts(r.Context())
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"alerts": alerts})
}

// handleSuggestedPortfolio handles POST /api/portfolio/suggested.
func (s *Server) handleSuggestedPortfolio(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Profile models.InvestorProfile `json:"profile"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}
	if !req.Profile.Valid() {
		WriteError(w, http.StatusBadRequest, "Unknown investor profile")
		return
	}

	portfolio, err := s.app.Client.SuggestedPortfolio(r.Context(), req.Profile)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, portfolio)
}
