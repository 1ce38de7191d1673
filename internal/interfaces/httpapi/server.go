package httpapi

import (
	"errors"
	"net/http"

	"github.com/riskibarqy/matchday-engine/internal/platform/logging"
	"github.com/sourcegraph/conc/panics"
)

// NewRouter serves the public match API and the token-guarded internal
// job API. Middleware runs outermost first: tracing, logging, CORS, then
// panic recovery.
func NewRouter(
	handler *Handler,
	logger *logging.Logger,
	corsAllowedOrigins []string,
	internalJobToken string,
) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler)
	registerPublicMatchRoutes(mux, handler)
	registerInternalRoutes(mux, handler, internalJobToken)

	return RequestTracing(RequestLogging(logger, CORS(corsAllowedOrigins, recoverPanic(logger, mux))))
}

// recoverPanic turns a handler panic into a 500 with the stack logged.
// http.ErrAbortHandler is re-raised so net/http can drop the connection.
func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var catcher panics.Catcher
		catcher.Try(func() { next.ServeHTTP(w, r) })

		rec := catcher.Recovered()
		if rec == nil {
			return
		}
		if err, ok := rec.Value.(error); ok && errors.Is(err, http.ErrAbortHandler) {
			panic(rec.Value)
		}
		logger.ErrorContext(r.Context(), "panic recovered",
			"panic", rec.Value,
			"method", r.Method,
			"path", r.URL.Path,
			"stack", string(rec.Stack),
		)
		writeInternalError(r.Context(), w)
	})
}
