package middleware

import (
	"net/http"

	"github.com/davidbz/emberpost/internal/config"
)

// Middleware wraps an http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// Chain composes middlewares so the first one listed runs outermost.
func Chain(middlewares ...Middleware) Middleware {
	return func(next http.Handler) http.Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			next = middlewares[i](next)
		}
		return next
	}
}

// New builds the standard middleware stack (DI constructor).
func New(corsCfg *config.CORSConfig) Middleware {
	return Chain(
		CORS(corsCfg),
		Trace(),
	)
}
