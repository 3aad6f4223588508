// Package admin guards operator endpoints with a shared static token.
package admin

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	dErrors "condovote/pkg/domain-errors"
	"condovote/pkg/platform/httputil"
	"condovote/pkg/requestcontext"
)

// HeaderName carries the operator token.
const HeaderName = "X-Admin-Token"

// RequireAdminToken rejects requests whose X-Admin-Token does not match
// expected. An empty expected token closes the endpoints entirely.
func RequireAdminToken(expected string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(HeaderName)
			if expected != "" && subtle.ConstantTimeCompare([]byte(got), []byte(expected)) == 1 {
				next.ServeHTTP(w, r)
				return
			}
			ctx := r.Context()
			logger.WarnContext(ctx, "operator token rejected",
				"request_id", requestcontext.RequestID(ctx),
				"path", r.URL.Path,
				"token_present", got != "",
			)
			httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "admin token required"))
		})
	}
}
