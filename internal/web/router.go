package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrijs2005/lanshare/internal/logging"
	"github.com/dmitrijs2005/lanshare/internal/metrics"
)

// NewRouter mounts every route. gatherer backs /metrics and is normally
// prometheus.DefaultGatherer.
func NewRouter(h *Handler, logger logging.Logger, m *metrics.Metrics, gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()

	// Recoverer must stay inside RequestLogger and Metrics: a recovered
	// panic is then logged and counted as a 500.
	r.Use(chimw.RequestID)
	r.Use(RequestLogger(logger.With("module", "http")))
	r.Use(Metrics(m))
	r.Use(chimw.Recoverer)

	r.Get("/", h.Index)

	r.Post("/texts", h.ShareText)
	r.Post("/texts/{id}/delete", h.DeleteText)

	r.Post("/files", h.ShareFiles)
	r.Post("/files/{id}/delete", h.DeleteFile)
	r.Get("/files/{id}/download", h.Download)

	r.Route("/api", func(r chi.Router) {
		r.Get("/texts", h.APIListTexts)
		r.Get("/files", h.APIListFiles)
		r.Get("/stats", h.APIStats)
	})

	r.Get("/health/live", h.Live)
	r.Get("/health/ready", h.Ready)

	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	return r
}
