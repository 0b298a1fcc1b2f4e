package handler

import (
	"net/http"

	"domainverse/internal/auth"
	"domainverse/internal/metrics"
	"domainverse/internal/service"
)

// RouterConfig collects what NewRouter wires together
type RouterConfig struct {
	Domains *service.DomainService
	Scenes  *service.SceneService
	// Events serves GET /events. Optional.
	Events http.Handler
	// Metrics is served at MetricsPath and records request counts. Optional.
	Metrics     *metrics.Registry
	MetricsPath string
	// Tokens guards the edit routes. Nil leaves them open.
	Tokens *auth.TokenManager
}

// NewRouter registers every route and applies the middleware chain
func NewRouter(cfg RouterConfig) http.Handler {
	h := NewDomainHandler(cfg.Domains, cfg.Scenes)
	editor := RequireEditor(cfg.Tokens)

	mux := http.NewServeMux()

	// Domain queries
	mux.HandleFunc("GET /api/domains", h.ListDomains)
	mux.HandleFunc("GET /api/domains/{id}", h.GetDomain)
	mux.HandleFunc("GET /api/domains/{id}/linked", h.GetLinked)
	mux.HandleFunc("GET /api/domains/{id}/children", h.GetChildren)
	mux.HandleFunc("GET /api/domains/{id}/related", h.GetRelated)
	mux.HandleFunc("GET /api/domains/{id}/incoming", h.GetIncoming)

	// Edits
	mux.Handle("PUT /api/domains/{id}/name", editor(http.HandlerFunc(h.RenameDomain)))
	mux.Handle("PUT /api/domains/{id}/links/{target}/verb", editor(http.HandlerFunc(h.UpdateVerb)))
	mux.HandleFunc("GET /api/edits", h.ListEdits)

	// Views and export
	mux.HandleFunc("GET /api/scene", h.GetScene)
	mux.HandleFunc("GET /api/export/{format}", h.Export)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
	})

	if cfg.Events != nil {
		mux.Handle("GET /events", cfg.Events)
	}
	if cfg.Metrics != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		mux.Handle("GET "+path, cfg.Metrics.Handler())
	}

	return Chain(mux,
		Recover,
		CORS,
		Logger(cfg.Metrics),
	)
}
