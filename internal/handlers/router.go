package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"validator-monitor/internal/config"
	"validator-monitor/internal/logger"
	"validator-monitor/internal/repository"
)

// Router builds the HTTP routes of the API server.
func Router(cfg *config.Config, repo repository.Repository, gatherer prometheus.Gatherer, log logger.Logger) (http.Handler, error) {
	lg := log.ModuleLogger("http")

	api, err := Api(cfg, repo, lg)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Handle("/graphql", api)
	r.Get("/health", Health(repo, lg))
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	return r, nil
}
