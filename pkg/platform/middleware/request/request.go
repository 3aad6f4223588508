// Package request propagates a correlation id through the request context.
package request

import (
	"net/http"

	"github.com/google/uuid"

	"condovote/pkg/requestcontext"
)

const HeaderRequestID = "X-Request-ID"

// Middleware reuses an inbound X-Request-ID or generates one, stores it in the
// context and echoes it on the response.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(HeaderRequestID)
		if reqID == "" || len(reqID) > 128 {
			reqID = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, reqID)
		ctx := requestcontext.WithRequestID(r.Context(), reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
