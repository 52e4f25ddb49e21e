// Package routes assembles the chi router and huma API for each service.
package routes

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/janisto/swarm-balance/internal/http/backend"
	"github.com/janisto/swarm-balance/internal/http/frontend"
	"github.com/janisto/swarm-balance/internal/http/health"
	applog "github.com/janisto/swarm-balance/internal/platform/logging"
	appmiddleware "github.com/janisto/swarm-balance/internal/platform/middleware"
	"github.com/janisto/swarm-balance/internal/platform/respond"
	"github.com/janisto/swarm-balance/internal/platform/tracing"
	"github.com/janisto/swarm-balance/internal/service/upstream"
)

// BackendOptions configures the backend router.
type BackendOptions struct {
	Version  string
	Message  string
	Hostname string
}

// FrontendOptions configures the frontend router.
type FrontendOptions struct {
	Version  string
	Message  string
	Hostname string
	Peers    upstream.Service
}

// Backend returns the handler serving /health and /api/info.
func Backend(opts BackendOptions) http.Handler {
	router := newRouter(opts.Hostname)
	router.Get("/health", health.Handler)

	api := newAPI(router, "Swarm Balance Backend", opts.Version)
	backend.Register(api, opts.Message, opts.Hostname)
	return router
}

// Frontend returns the handler serving /health, /id, /, /fanout and /ui.
// Every response carries Connection: close.
func Frontend(opts FrontendOptions) http.Handler {
	router := newRouter(opts.Hostname, appmiddleware.ConnectionClose())
	router.Get("/health", health.Handler)
	router.Get("/ui", frontend.UIHandler)

	api := newAPI(router, "Swarm Balance Frontend", opts.Version)
	frontend.Register(api, frontend.Deps{
		Message:  opts.Message,
		Hostname: opts.Hostname,
		Peers:    opts.Peers,
	})
	return router
}

func newRouter(hostname string, extra ...func(http.Handler) http.Handler) chi.Router {
	router := chi.NewRouter()
	router.NotFound(respond.NotFoundHandler())
	router.MethodNotAllowed(respond.MethodNotAllowedHandler())

	// Outermost first, so headers set here survive 404, 405 and panics.
	router.Use(extra...)
	router.Use(
		appmiddleware.Security("/docs", "/openapi", "/schemas"),
		appmiddleware.CORS(),
		appmiddleware.RequestID(),
		// RealIP trusts X-Forwarded-For; the services sit behind the swarm ingress.
		chimiddleware.RealIP,
		tracing.Middleware(),
		applog.RequestLogger(),
		applog.AccessLogger(hostname),
		respond.Recoverer(),
	)
	return router
}

func newAPI(router chi.Router, title, version string) huma.API {
	cfg := huma.DefaultConfig(title, version)
	// The default hooks add a $schema field and Link header to every body;
	// the payloads here are fixed bare objects.
	cfg.CreateHooks = nil
	api := humachi.New(router, cfg)

	// Advertise CBOR alongside JSON for every response in the OpenAPI document.
	api.OpenAPI().OnAddOperation = append(api.OpenAPI().OnAddOperation,
		func(_ *huma.OpenAPI, op *huma.Operation) {
			for _, resp := range op.Responses {
				if resp.Content == nil {
					continue
				}
				if jsonContent, ok := resp.Content["application/json"]; ok {
					resp.Content["application/cbor"] = jsonContent
				}
			}
		},
	)
	return api
}
