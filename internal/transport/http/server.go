package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/wirechat-relay/internal/auth"
	"github.com/vovakirdan/wirechat-relay/internal/config"
	"github.com/vovakirdan/wirechat-relay/internal/core"
	"github.com/vovakirdan/wirechat-relay/internal/session"
	"github.com/vovakirdan/wirechat-relay/internal/store"
)

// NewServer builds the HTTP server: health check, WebSocket transport and
// the read-only admin API. The admin API requires a bearer token when
// jwtCfg carries a secret.
func NewServer(reg *core.Registry, handler *session.Handler, st store.Store, jwtCfg *auth.JWTConfig, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery(), LoggerMiddleware(logger))

	router.GET("/health", healthHandler)

	admin := NewAdminHandlers(reg, st, logger)
	api := router.Group("/api")
	if jwtCfg.Enabled() {
		api.Use(AuthMiddleware(jwtCfg, logger))
	}
	api.GET("/rooms", admin.ListRooms)
	api.GET("/stats", admin.Stats)
	api.GET("/audit", admin.ListEvents)

	// The WebSocket upgrade hijacks the raw ResponseWriter, which gin's
	// writer refuses once the status is set, so /ws sits beside the router.
	mux := stdhttp.NewServeMux()
	mux.Handle("/ws", RateLimit(cfg.WSConnectsPerMinute, logger, NewWSHandler(handler, WSOptions{
		MaxMessageBytes: cfg.MaxLineBytes,
		WriteTimeout:    cfg.WriteTimeout,
	}, logger)))
	mux.Handle("/", router)

	return &stdhttp.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
