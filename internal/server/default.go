package server

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vestaclub/vesta/pkg/application"
	"github.com/vestaclub/vesta/pkg/configuration"
	"github.com/vestaclub/vesta/pkg/constants"
	"github.com/vestaclub/vesta/pkg/httpapi"
	"github.com/vestaclub/vesta/pkg/middleware"
	"github.com/vestaclub/vesta/pkg/server"
)

type DefaultOptions struct {
	Configuration *configuration.Configuration
	Application   application.Application
}

// Default assembles the HTTP server with the standard middleware chain:
// logging first so everything downstream has a request logger, then
// identity, CORS and rate limiting, with the pool provided for read
// paths that run outside an explicit transaction.
func Default(options *DefaultOptions) (*server.HTTPServer, error) {
	app := options.Application
	conf := options.Configuration

	middlewares := []mux.MiddlewareFunc{
		middleware.WithLogger(conf.Logger()),
		middleware.Provide(constants.PoolKey, app.DB()),
		middleware.ProvideActorID(),
		middleware.Cors(conf.Origin),
	}
	if conf.RateLimit.Enabled {
		middlewares = append(middlewares, middleware.RateLimit(conf.RateLimit.GlobalRPS))
	}
	app.RegisterMiddleware(middlewares...)

	notFound := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = httpapi.WriteErrorEnvelope(w, http.StatusNotFound, "NOT_FOUND", "route not found", nil)
	})
	methodNotAllowed := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = httpapi.WriteErrorEnvelope(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed", nil)
	})

	return server.NewHTTPServer(app, notFound, methodNotAllowed), nil
}
