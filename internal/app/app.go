// Package app wires configuration, the upstream API client, and the
// dashboard services into one shared core.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/norteacoes/vista/internal/clients/norteapi"
	"github.com/norteacoes/vista/internal/common"
	"github.com/norteacoes/vista/internal/interfaces"
	"github.com/norteacoes/vista/internal/services/dashboard"
	"github.com/norteacoes/vista/internal/services/session"
)

// App holds all initialized services and clients.
type App struct {
	Config      *common.Config
	Logger      *common.Logger
	Client      interfaces.StockAPIClient
	Session     interfaces.SessionService
	Dashboard   *dashboard.Service
	StartupTime time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes config, logging, the upstream client, and the
// dashboard services. configPath may be empty, in which case the
// default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	binDir := getBinaryDir()

	// Config resolution: explicit path, VISTA_CONFIG, binary dir, then
	// development fallback.
	if configPath == "" {
		configPath = os.Getenv("VISTA_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "vista.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/vista.toml"
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	client := norteapi.NewClient(
		norteapi.WithBaseURL(config.API.BaseURL),
		norteapi.WithLogger(logger),
		norteapi.WithRateLimit(config.API.RateLimit),
		norteapi.WithTimeout(config.API.GetTimeout()),
	)

	sessionSvc := session.NewService(client, logger)

	dashboardSvc := dashboard.NewService(client, logger,
		dashboard.WithListLimit(config.Dashboard.ListLimit),
		dashboard.WithNoticeTTL(config.Dashboard.GetNoticeTTL()),
	)

	a := &App{
		Config:      config,
		Logger:      logger,
		Client:      client,
		Session:     sessionSvc,
		Dashboard:   dashboardSvc,
		StartupTime: startupStart,
	}

	logger.Info().
		Str("api", config.API.BaseURL).
		Str("environment", config.Environment).
		Dur("startup", time.Since(startupStart)).
		Msg("Application initialized")

	return a, nil
}

// Prime dispatches the initial overview fetch so the dashboard has data
// before the first client connects.
func (a *App) Prime(minScore float64) {
	a.Dashboard.Refresh(dashboard.Query{
		Tab:      dashboard.TabOverview,
		MinScore: minScore,
		Premium:  a.Session.IsPremium(),
	})
}

// Close releases resources and cancels any in-flight fetch.
func (a *App) Close() {
	if a.Dashboard != nil {
		a.Dashboard.Close()
	}
	a.Logger.Info().Msg("Application closed")
}
