package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/montanha-viva/mv-cli/internal/adapter/outbound/cache"
	"github.com/montanha-viva/mv-cli/internal/adapter/outbound/state"
	"github.com/montanha-viva/mv-cli/internal/apiclient"
	"github.com/montanha-viva/mv-cli/internal/config"
	"github.com/montanha-viva/mv-cli/internal/domain/session"
	"github.com/montanha-viva/mv-cli/internal/service"
)

// app bundles everything a command needs: configuration, the session,
// the API client, and one service per feature area.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *session.Store
	cache  *cache.Store

	auth     *service.AuthService
	flora    *service.FloraService
	routes   *service.RouteService
	stations *service.StationService
	weather  *service.WeatherService
	users    *service.UserService
	feedback *service.FeedbackService
	qr       *service.QRService
	rewards  *service.RewardService
}

// newApp loads config and wires the full dependency graph. Every command
// calls this in its RunE; construction failures surface as command errors.
func newApp() (*app, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	logger := newLogger(cfg.Log.Level)

	statePath := cfg.State.Path
	if stateFilePath != "" {
		statePath = stateFilePath
	}
	if err := os.MkdirAll(filepath.Dir(statePath), 0700); err != nil {
		return nil, err
	}
	stateStore := state.NewFileStateStore(statePath, logger)

	// The invalidator closes over the auth service, which does not exist
	// until the client does; the pointer is bound before any command runs.
	var auth *service.AuthService
	store, err := session.NewStore(stateStore, logger, session.WithInvalidator(
		func(ctx context.Context, refreshToken string) error {
			return auth.InvalidateRefreshToken(ctx, refreshToken)
		},
	))
	if err != nil {
		return nil, err
	}

	var cacheStore *cache.Store
	if cfg.Cache.Enabled {
		if err := os.MkdirAll(filepath.Dir(cfg.Cache.Path), 0700); err == nil {
			cacheStore, err = cache.Open(cfg.Cache.Path, cfg.Cache.TTL, logger)
			if err != nil {
				logger.Warn("opening offline cache failed, continuing without it", "error", err)
				cacheStore = nil
			}
		}
	}

	client := apiclient.New(cfg.API.BaseURL, store,
		apiclient.WithLogger(logger),
		apiclient.WithUserAgent("montanha-cli/"+Version),
		apiclient.WithHTTPClient(&http.Client{Timeout: cfg.API.Timeout}),
	)

	auth = service.NewAuthService(client, store, logger)

	return &app{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		cache:    cacheStore,
		auth:     auth,
		flora:    service.NewFloraService(client, cacheStore, logger),
		routes:   service.NewRouteService(client, cacheStore, logger),
		stations: service.NewStationService(client),
		weather:  service.NewWeatherService(client),
		users:    service.NewUserService(client),
		feedback: service.NewFeedbackService(client),
		qr:       service.NewQRService(client),
		rewards:  service.NewRewardService(client),
	}, nil
}

// requireAuth fails fast for commands that need a signed-in session. A
// session with only a refresh token still passes: the first request will
// obtain a fresh access token through the refresh flow.
func (a *app) requireAuth() error {
	if !a.store.IsAuthenticated() && a.store.RefreshToken() == "" {
		return fmt.Errorf("%w; run: montanha login <email>", session.ErrNotAuthenticated)
	}
	return nil
}

// close releases resources held open for the lifetime of a command.
func (a *app) close() {
	if a.cache != nil {
		_ = a.cache.Close()
	}
}

func newLogger(level string) *slog.Logger {
	lvl := slog.LevelWarn
	if verbose {
		lvl = slog.LevelDebug
	} else {
		switch level {
		case "debug":
			lvl = slog.LevelDebug
		case "info":
			lvl = slog.LevelInfo
		case "error":
			lvl = slog.LevelError
		}
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
