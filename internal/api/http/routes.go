package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/veranemoloko/video-downloader/internal/storage"
)

// RouterConfig carries the router's collaborators.
type RouterConfig struct {
	Tasks       TaskService
	Files       *storage.FileStorage
	ServiceName string
	CORSOrigins []string
	Logger      *slog.Logger
}

// NewRouter creates a new HTTP router with configured routes, middleware, and handlers.
// It sets up the download API, health check, and Prometheus metrics endpoint.
func NewRouter(cfg RouterConfig) *chi.Mux {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "Range"},
		ExposedHeaders: []string{"Content-Disposition", "Content-Range", "Accept-Ranges", "Content-Length"},
		MaxAge:         300,
	}))

	taskHandler := NewTaskHandler(cfg.Tasks, logger)
	artifactHandler := NewArtifactHandler(taskHandler, cfg.Files)
	health := &healthHandler{
		service: cfg.ServiceName,
		files:   cfg.Files,
		logger:  logger,
		now:     time.Now,
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/download", taskHandler.CreateDownload)
		r.Get("/download/{taskID}", artifactHandler.Download)
		r.Get("/stream/{taskID}", artifactHandler.Stream)
		r.Get("/status/{taskID}", taskHandler.GetStatus)
		r.Get("/tasks", taskHandler.ListTasks)
		r.Method(http.MethodGet, "/health", health)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
