package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"condovote/internal/condominium/handler"
	condometrics "condovote/internal/condominium/metrics"
	"condovote/internal/condominium/service"
	"condovote/internal/identity"
	jwttoken "condovote/internal/jwt_token"
	"condovote/internal/platform/config"
	"condovote/internal/platform/httpserver"
	"condovote/internal/platform/logger"
	"condovote/internal/platform/metrics"
	"condovote/pkg/platform/httputil"
	"condovote/pkg/platform/middleware/admin"
	"condovote/pkg/platform/middleware/auth"
	"condovote/pkg/platform/middleware/request"
	"condovote/pkg/platform/middleware/requesttime"
)

// main wires configuration, stores, the ledger and the services, exposes the
// HTTP router and runs the reconciler until shutdown. Business logic lives in
// internal packages.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Server.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Error("condovote stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := wire(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer deps.close()

	reg := prometheus.DefaultRegisterer
	svc := service.New(deps.condos, deps.users, deps.registry, deps.pending, deps.ledger,
		service.WithLogger(log),
		service.WithAuditPublisher(deps.publisher),
		service.WithMetrics(condometrics.New(reg)),
		service.WithLocker(deps.locker),
		service.WithBackoff(cfg.Reconcile.BaseBackoff, cfg.Reconcile.MaxBackoff),
	)
	reconciler := service.NewReconciler(svc, cfg.Reconcile.Interval, cfg.Reconcile.BatchSize)
	enroller := identity.NewEnroller(deps.users,
		identity.WithLogger(log),
		identity.WithAuditPublisher(deps.publisher),
	)
	h := handler.New(svc, deps.registry, enroller, reconciler, handler.NewGuard(svc, log), log)

	tokens := jwttoken.NewJWTServiceAdapter(jwttoken.NewJWTService(cfg.Server.JWTSigningKey, cfg.Server.JWTIssuer))
	httpMetrics := metrics.New(reg)

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(request.Middleware)
	r.Use(requesttime.Middleware)
	r.Use(httpMetrics.Middleware)
	r.Get("/health", health(deps.checks, log))
	r.Handle("/metrics", promhttp.Handler())
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(tokens, log))
		h.Register(r)
	})
	r.Group(func(r chi.Router) {
		r.Use(admin.RequireAdminToken(cfg.Server.AdminToken, log))
		h.RegisterAdmin(r)
	})

	srv := httpserver.New(cfg.Server.Addr, r, cfg.Ledger.ConfirmTimeout+30*time.Second)

	reconcileDone := make(chan struct{})
	go func() {
		defer close(reconcileDone)
		reconciler.Run(ctx)
	}()

	serveErr := make(chan error, 1)
	go func() {
		log.Info("starting condovote",
			"addr", cfg.Server.Addr,
			"ledger_mode", cfg.Ledger.Mode,
			"store_backend", cfg.Store.Backend,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			stop()
			<-reconcileDone
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
	<-reconcileDone
	return nil
}

// health reports 503 when any backing store stops answering.
func health(checks map[string]func(context.Context) error, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		status := map[string]string{}
		code := http.StatusOK
		for name, check := range checks {
			if err := check(ctx); err != nil {
				log.WarnContext(ctx, "health check failed", "dependency", name, "error", err)
				status[name] = "down"
				code = http.StatusServiceUnavailable
				continue
			}
			status[name] = "up"
		}
		httputil.WriteJSON(w, code, status)
	}
}
