package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"mantra/backend/internal/handlers"
	"mantra/backend/internal/logger"
	"mantra/backend/internal/middleware"
)

type Options struct {
	Origin string
	// Limiter guards the generation route; nil disables rate limiting.
	Limiter *middleware.RateLimiter
	Logger  *logger.LogMiddleware
}

func New(api *handlers.API, opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(log))
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS(opts.Origin))
	r.Use(middleware.SecurityHeaders)

	r.NotFound(api.NotFound)
	r.MethodNotAllowed(api.MethodNotAllowed)

	r.Get("/health", api.Health)
	r.Group(func(r chi.Router) {
		if opts.Limiter != nil {
			r.Use(middleware.RateLimit(opts.Limiter))
		}
		r.Post("/api/generate-mantra", api.GenerateMantra)
	})

	return otelhttp.NewHandler(r, "mantra-http",
		otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
}
