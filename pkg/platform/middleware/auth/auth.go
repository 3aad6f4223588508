package auth

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	id "condovote/pkg/domain"
	"condovote/pkg/requestcontext"
)

// TokenVerifier validates a bearer credential and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*Claims, error)
}

// Claims are the authenticated facts the governance API relies on.
type Claims struct {
	TaxCode string
	Name    string
}

// writeJSONError writes a JSON error response with the given status code and error details.
func writeJSONError(w http.ResponseWriter, status int, errCode, errDesc string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(fmt.Appendf(nil, `{"error":"%s","error_description":"%s"}`, errCode, errDesc))
}

// RequireAuth verifies the bearer credential and stores the resident's tax
// code in the request context.
func RequireAuth(verifier TokenVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := requestcontext.RequestID(ctx)

			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestID,
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Missing or invalid Authorization header")
				return
			}

			claims, err := verifier.Verify(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestID,
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
				return
			}

			taxCode, err := id.ParseTaxCode(claims.TaxCode)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - token without tax code",
					"request_id", requestID,
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
				return
			}

			ctx = requestcontext.WithResident(ctx, taxCode)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
