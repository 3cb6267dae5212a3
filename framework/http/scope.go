package http

import (
	"context"
	"net/http"

	"github.com/km-arc/go-registry/framework/container"
)

type scopeKey struct{}

// WithScope is middleware that opens one container scope per request and
// disposes it once the handler returns. Scoped services resolved through
// ScopeFrom(r) are shared for the duration of the request.
//
//	r.Middleware(gohttp.WithScope(app.Container))
func WithScope(c *container.Container) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scope := c.CreateScope()
			defer scope.Dispose()
			ctx := context.WithValue(r.Context(), scopeKey{}, scope)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ScopeFrom returns the scope opened by WithScope, or nil.
func ScopeFrom(r *http.Request) *container.Scope {
	scope, _ := r.Context().Value(scopeKey{}).(*container.Scope)
	return scope
}

// Scope returns the request scope, or nil outside WithScope.
func (req *Request) Scope() *container.Scope { return ScopeFrom(req.raw) }
