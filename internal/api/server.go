// Package api exposes the capital calculator over HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"golang.org/x/time/rate"

	"github.com/sells-group/capital-cli/internal/capital"
)

// Options configures the HTTP surface.
type Options struct {
	RateLimitRPS   float64
	RateLimitBurst int
	CORSOrigins    []string
	Concurrency    int
	RequestTimeout time.Duration
}

// Server holds the handlers' shared dependencies.
type Server struct {
	calc     *capital.Calculator
	opts     Options
	validate *validator.Validate
	limiter  *rate.Limiter
}

// NewServer creates a Server backed by calc.
func NewServer(calc *capital.Calculator, opts Options) *Server {
	if opts.RateLimitRPS <= 0 {
		opts.RateLimitRPS = 50
	}
	if opts.RateLimitBurst < 1 {
		opts.RateLimitBurst = 100
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 8
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 60 * time.Second
	}
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"*"}
	}

	return &Server{
		calc:     calc,
		opts:     opts,
		validate: newValidator(),
		limiter:  rate.NewLimiter(rate.Limit(opts.RateLimitRPS), opts.RateLimitBurst),
	}
}

// Router builds the chi router with middleware and routes mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.opts.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         300,
	}))
	r.Use(rateLimit(s.limiter))
	r.Use(middleware.Timeout(s.opts.RequestTimeout))

	r.Get("/health", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/loans/capital", s.handleLoan)
		r.Post("/loans/capital/batch", s.handleBatch)
		r.Post("/securitizations/capital", s.handleSecuritization)

		r.Route("/reference", func(r chi.Router) {
			r.Get("/approaches", s.handleApproaches)
			r.Get("/exposure-types", s.handleExposureTypes)
			r.Get("/rating-buckets", s.handleRatingBuckets)
			r.Get("/collateral-types", s.handleCollateralTypes)
			r.Get("/risk-weights", s.handleRiskWeights)
		})
	})

	return r
}
