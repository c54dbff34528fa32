package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/wirechat-relay/internal/auth"
	"github.com/vovakirdan/wirechat-relay/internal/config"
	"github.com/vovakirdan/wirechat-relay/internal/core"
	"github.com/vovakirdan/wirechat-relay/internal/session"
	"github.com/vovakirdan/wirechat-relay/internal/store"
	"github.com/vovakirdan/wirechat-relay/internal/store/sqlite"
	transporthttp "github.com/vovakirdan/wirechat-relay/internal/transport/http"
	"github.com/vovakirdan/wirechat-relay/internal/transport/tcp"
)

// AdminTokenTTL is the lifetime of tokens minted for the admin API.
const AdminTokenTTL = 24 * time.Hour

// App wires together core and transport layers.
type App struct {
	cfg      config.Config
	registry *core.Registry
	listener *tcp.Listener
	server   *stdhttp.Server
	store    store.Store
	log      *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg config.Config, logger *zerolog.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	var st store.Store = store.Nop{}
	if cfg.AuditDBPath != "" {
		sq, err := sqlite.New(cfg.AuditDBPath)
		if err != nil {
			return nil, fmt.Errorf("init audit store: %w", err)
		}
		st = sq
		logger.Info().Str("db_path", cfg.AuditDBPath).Msg("audit log enabled")
	}

	registry := core.NewRegistry(core.Limits{
		MaxRooms:     cfg.MaxRooms,
		RoomCapacity: cfg.RoomCapacity,
	})
	broadcaster := core.NewBroadcaster(registry, logger)
	handler := session.NewHandler(registry, broadcaster, st, logger)

	listener := tcp.NewListener(handler, tcp.Options{
		MaxUnit:      cfg.MaxLineBytes,
		WriteTimeout: cfg.WriteTimeout,
	}, logger)

	var server *stdhttp.Server
	if cfg.HTTPAddr != "" {
		server = transporthttp.NewServer(registry, handler, st, JWTConfig(cfg), &cfg, logger)
	}

	return &App{
		cfg:      cfg,
		registry: registry,
		listener: listener,
		server:   server,
		store:    st,
		log:      logger,
	}, nil
}

// JWTConfig derives the admin token settings from cfg.
func JWTConfig(cfg config.Config) *auth.JWTConfig {
	return &auth.JWTConfig{
		Secret:   []byte(cfg.AdminJWTSecret),
		Issuer:   cfg.AdminJWTIssuer,
		Audience: cfg.AdminJWTAudience,
		TTL:      AdminTokenTTL,
	}
}

// Registry exposes the shared registry.
func (a *App) Registry() *core.Registry {
	return a.registry
}

// Run serves TCP and HTTP until ctx is cancelled or one of them fails.
func (a *App) Run(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", a.cfg.TCPAddr)
	if err != nil {
		a.cleanup()
		return fmt.Errorf("listen tcp %s: %w", a.cfg.TCPAddr, err)
	}
	return a.Serve(ctx, ln)
}

// Serve is Run with an already bound TCP listener.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	defer a.cleanup()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.listener.Serve(ctx, ln)
	})

	if a.server != nil {
		a.server.BaseContext = func(net.Listener) context.Context { return ctx }

		g.Go(func() error {
			a.log.Info().Str("addr", a.server.Addr).Msg("http server started")
			if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
				return fmt.Errorf("http server: %w", err)
			}
			return nil
		})

		g.Go(func() error {
			<-ctx.Done()

			shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
			defer cancel()

			a.log.Info().Msg("shutting down http server")
			return a.server.Shutdown(shutdownCtx)
		})
	}

	return g.Wait()
}

// cleanup closes the audit store.
func (a *App) cleanup() {
	if err := a.store.Close(); err != nil {
		a.log.Warn().Err(err).Msg("failed to close store")
	}
}
