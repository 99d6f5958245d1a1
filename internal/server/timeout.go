package server

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// TimeoutMiddleware puts a deadline on the request context so a slow upstream
// call is abandoned. Handlers still write their own response once the call
// returns. Requests that outlive the deadline get timed_out=true in the
// request log. timeout <= 0 leaves requests unbounded.
func TimeoutMiddleware(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if timeout <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			next.ServeHTTP(w, r.WithContext(ctx))

			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				AddLogField(r.Context(), "timed_out", "true")
			}
		})
	}
}
