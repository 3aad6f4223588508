package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	id "condovote/pkg/domain"
	dErrors "condovote/pkg/domain-errors"
	"condovote/pkg/platform/httputil"
	"condovote/pkg/requestcontext"
)

// MembershipChecker answers roster questions for the guard.
type MembershipChecker interface {
	IsMember(ctx context.Context, cid id.CondominiumID, taxCode id.TaxCode) (bool, error)
	IsAdmin(ctx context.Context, cid id.CondominiumID, taxCode id.TaxCode) (bool, error)
}

// Guard restricts condominium routes to its members or its administrator.
// Routes must carry a {condominiumID} parameter and run after RequireAuth.
type Guard struct {
	checker MembershipChecker
	logger  *slog.Logger
}

func NewGuard(checker MembershipChecker, logger *slog.Logger) *Guard {
	return &Guard{checker: checker, logger: logger}
}

// RequireMember admits the administrator and residents on the roster.
func (g *Guard) RequireMember(next http.Handler) http.Handler {
	return g.require(next, "member", g.checker.IsMember)
}

// RequireAdmin admits only the administrator.
func (g *Guard) RequireAdmin(next http.Handler) http.Handler {
	return g.require(next, "admin", g.checker.IsAdmin)
}

func (g *Guard) require(next http.Handler, role string, check func(context.Context, id.CondominiumID, id.TaxCode) (bool, error)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		resident := requestcontext.Resident(ctx)
		if resident == "" {
			httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
			return
		}
		cid, err := id.ParseCondominiumID(chi.URLParam(r, "condominiumID"))
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		ok, err := check(ctx, cid, resident)
		if err != nil {
			if !dErrors.HasCode(err, dErrors.CodeNotFound) {
				g.logger.ErrorContext(ctx, "membership check failed",
					"request_id", requestcontext.RequestID(ctx),
					"condominium_id", cid.String(),
					"error", err,
				)
			}
			httputil.WriteError(w, err)
			return
		}
		if !ok {
			g.logger.WarnContext(ctx, "condominium access denied",
				"request_id", requestcontext.RequestID(ctx),
				"condominium_id", cid.String(),
				"role", role,
			)
			httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "not a "+role+" of this condominium"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
