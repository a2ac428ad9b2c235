package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"diagen/internal/handler"
	"diagen/internal/metrics"
)

// NewMux wires the HTTP routes.
func NewMux(h *handler.Handler, met *metrics.Metrics, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Post("/generate-diagram", h.GenerateDiagram)
	r.Post("/assistant", h.Assistant)
	r.Get("/assistant/watch", h.Watch)
	r.Get("/images/{filename}", h.Image)
	r.Delete("/conversations/{conversationID}", h.DeleteConversation)
	r.Post("/cleanup", h.Cleanup)
	r.Get("/health", h.Health)

	if met != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(met.Registry, promhttp.HandlerOpts{}))
	}

	return r
}

func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}
