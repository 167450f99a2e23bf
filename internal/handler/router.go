package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/prn-tf/litup/internal/metrics"
)

// DatabaseChecker reports backend health for the health endpoint.
type DatabaseChecker interface {
	Ping(ctx context.Context) error
}

// Router assembles the API's HTTP handler.
type Router struct {
	songHandler   *SongHandler
	configHandler *ConfigHandler
	db            DatabaseChecker
	metrics       *metrics.Metrics
	origins       []string
	logger        zerolog.Logger
}

// RouterConfig contains configuration for the router.
type RouterConfig struct {
	SongHandler    *SongHandler
	ConfigHandler  *ConfigHandler
	Database       DatabaseChecker
	Metrics        *metrics.Metrics
	AllowedOrigins []string
	Logger         zerolog.Logger
}

// NewRouter creates a new Router.
func NewRouter(cfg RouterConfig) *Router {
	return &Router{
		songHandler:   cfg.SongHandler,
		configHandler: cfg.ConfigHandler,
		db:            cfg.Database,
		metrics:       cfg.Metrics,
		origins:       cfg.AllowedOrigins,
		logger:        cfg.Logger.With().Str("component", "router").Logger(),
	}
}

// Handler returns the main HTTP handler.
func (rt *Router) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(RequestLogger(rt.logger))
	r.Use(middleware.Recoverer)
	r.Use(CORS(rt.origins))
	if rt.metrics != nil {
		r.Use(Instrument(rt.metrics))
	}

	r.Get("/health", rt.handleHealth)

	rt.songHandler.RegisterRoutes(r)
	rt.configHandler.RegisterRoutes(r)

	return r
}

// handleHealth reports service and database health.
func (rt *Router) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	code := http.StatusOK

	if rt.db != nil {
		if err := rt.db.Ping(r.Context()); err != nil {
			rt.logger.Error().Err(err).Msg("database health check failed")
			status = "unhealthy"
			code = http.StatusServiceUnavailable
		}
	}

	writeJSON(w, code, map[string]string{"status": status})
}
