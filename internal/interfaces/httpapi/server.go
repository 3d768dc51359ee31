package httpapi

import (
	"net/http"

	"github.com/riskibarqy/pool-league/internal/platform/logging"
	"github.com/riskibarqy/pool-league/internal/platform/metrics"
)

// RouterConfig carries the optional pieces of the router.
type RouterConfig struct {
	// Verifier guards admin routes; nil makes them answer 503.
	Verifier         TokenVerifier
	Logger           *logging.Logger
	Metrics          *metrics.Manager
	SwaggerEnabled   bool
	CORSOrigins      []string
	InternalJobToken string
}

// NewRouter wires every route. Middleware runs outermost first: tracing,
// access log and metrics, CORS, then panic recovery.
func NewRouter(handler *Handler, cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler, cfg.Metrics, cfg.SwaggerEnabled)
	registerPublicDomainRoutes(mux, handler)
	registerAuthorizedRoutes(mux, handler, cfg.Verifier)
	registerInternalJobRoutes(mux, handler, cfg.InternalJobToken)

	var h http.Handler = recoverPanic(logger, mux)
	h = CORS(cfg.CORSOrigins, h)
	h = RequestLogging(logger, cfg.Metrics, mux, h)
	return RequestTracing(h)
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(r.Context(), "panic recovered", "panic", rec, "method", r.Method, "path", r.URL.Path)
				writeInternalError(r.Context(), w)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
