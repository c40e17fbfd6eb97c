package server

import (
	"net/http"

	"github.com/renovaplan/renova/pkg/application"
	"github.com/renovaplan/renova/pkg/configuration"
	"github.com/renovaplan/renova/pkg/httpapi"
	"github.com/renovaplan/renova/pkg/metrics"
	"github.com/renovaplan/renova/pkg/middleware"
	"github.com/renovaplan/renova/pkg/server"
)

// Default assembles the HTTP server with the standard middleware chain:
// pool injection, request logging and metrics, in that order, so every
// handler sees a database and a request-scoped logger.
func Default(conf *configuration.Configuration, app application.Application) (*server.HTTPServer, error) {
	app.RegisterMiddleware(
		middleware.WithPool(app.DB()),
		middleware.RequestLogger(conf.Logger()),
		metrics.Observe(),
	)

	if conf.Prometheus.Enabled {
		app.RegisterControllers(metrics.NewPrometheusController(conf.Prometheus.Path))
	}

	notFound := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = httpapi.WriteError(w, http.StatusNotFound, "NOT_FOUND", "route not found", nil)
	})
	notAllowed := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = httpapi.WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed", nil)
	})

	return server.NewHTTPServer(app, notFound, notAllowed), nil
}
