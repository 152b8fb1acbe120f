// Package requestscope copies request-scoped values into the context through
// requestcontext, so the screening pipeline can log them without net/http.
package requestscope

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"sanctionscan/pkg/requestcontext"
)

// Middleware captures the request start time and the chi request ID. It must
// run after middleware.RequestID.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now())
		if id := middleware.GetReqID(ctx); id != "" {
			ctx = requestcontext.WithRequestID(ctx, id)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
