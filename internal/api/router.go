package api

import (
	"encoding/json"
	"net/http"
	"runtime"
	"time"

	"github.com/NathanAmoussou/kanellakis-smolka-bisim/internal/api/handlers"
	mw "github.com/NathanAmoussou/kanellakis-smolka-bisim/internal/api/middleware"
	"github.com/NathanAmoussou/kanellakis-smolka-bisim/internal/config"
	"github.com/NathanAmoussou/kanellakis-smolka-bisim/internal/domain"
	"github.com/NathanAmoussou/kanellakis-smolka-bisim/internal/service"
	"github.com/NathanAmoussou/kanellakis-smolka-bisim/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// App holds the router and background services for lifecycle management.
type App struct {
	Router    *chi.Mux
	Reaper    *service.ReaperService
	Limiter   *mw.RateLimiter
	startTime time.Time
	counters  mw.Counters
}

func NewApp(db *pgxpool.Pool, logger *zap.Logger) *App {
	// Stores
	systemStore := store.NewSystemStore(db)
	checkStore := store.NewCheckStore(db)

	// Services
	checkSvc := service.NewCheckService(systemStore, checkStore, logger)
	reaperSvc := service.NewReaperService(checkStore, config.CheckRetention(), logger)

	// Handlers
	systemHandler := handlers.NewSystemHandler(checkSvc)
	checkHandler := handlers.NewCheckHandler(checkSvc)

	r := chi.NewRouter()

	app := &App{
		Router:    r,
		Reaper:    reaperSvc,
		Limiter:   mw.NewRateLimiter(config.RateLimitRPS(), config.RateLimitBurst()),
		startTime: time.Now(),
	}

	// Global middleware (order matters)
	r.Use(mw.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.Count(&app.counters))
	r.Use(mw.Logging(logger))
	r.Use(middleware.Recoverer)
	r.Use(app.Limiter.Middleware)

	// Health (no auth)
	r.Get("/health", healthHandler(db))

	// Metrics (no auth)
	r.Get("/metrics", app.metricsHandler())

	// Authenticated routes
	r.Route("/v1", func(r chi.Router) {
		r.Use(mw.APIKeyAuth(config.APIKey()))

		// Systems
		r.Route("/systems", func(r chi.Router) {
			r.Post("/", systemHandler.Create)
			r.Get("/", systemHandler.List)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", systemHandler.GetByID)
				r.Delete("/", systemHandler.Delete)
				r.Get("/quotient", systemHandler.Quotient)
			})
		})

		// Checks
		r.Route("/checks", func(r chi.Router) {
			r.Post("/", checkHandler.Create)
			r.Get("/", checkHandler.List)
			r.Get("/{id}", checkHandler.GetByID)
		})
	})

	return app
}

func healthHandler(db *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context()); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error": err.Error()})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}

func (app *App) metricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		uptime := time.Since(app.startTime)

		response := map[string]any{
			"uptime_seconds": uptime.Seconds(),
			"uptime_human":   uptime.Round(time.Second).String(),
			"request_count":  app.counters.Requests.Load(),
			"client_error_count": app.counters.ClientErrors.Load(),
			"server_error_count": app.counters.ServerErrors.Load(),
			"goroutines":     runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb":       float64(memStats.Alloc) / 1024 / 1024,
				"total_alloc_mb": float64(memStats.TotalAlloc) / 1024 / 1024,
				"sys_mb":         float64(memStats.Sys) / 1024 / 1024,
				"num_gc":         memStats.NumGC,
			},
			"go_version": runtime.Version(),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

// Ensure stores satisfy interfaces at compile time.
var (
	_ domain.SystemStore = (*store.SystemStore)(nil)
	_ domain.CheckStore  = (*store.CheckStore)(nil)
)
