// Package service coordinates the record store and the ledger.
//
// Every flow is a saga over two systems with no shared transaction. Primary
// ledger steps fail the request; secondary steps (contract provisioning,
// membership population) are recorded as pending actions and retried by the
// Reconciler. Off-chain state referring to the ledger is written only after
// ledger confirmation.
package service

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"condovote/internal/condominium/metrics"
	"condovote/internal/condominium/models"
	"condovote/internal/platform/lock"
	"condovote/pkg/attrs"
	id "condovote/pkg/domain"
	"condovote/pkg/platform/audit"
	"condovote/pkg/requestcontext"
)

const (
	defaultLockWait    = 10 * time.Second
	defaultBaseBackoff = 30 * time.Second
	defaultMaxBackoff  = 30 * time.Minute
)

type Service struct {
	condos   CondominiumStore
	users    UserStore
	registry CommitmentResolver
	pending  PendingStore
	ledger   Ledger
	locker   Locker

	provisioning singleflight.Group
	baseBackoff  time.Duration
	maxBackoff   time.Duration

	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithLocker replaces the in-process provisioning lock, e.g. with a Redis
// lock when several replicas share a ledger factory.
func WithLocker(l Locker) Option {
	return func(s *Service) {
		if l != nil {
			s.locker = l
		}
	}
}

// WithBackoff sets the retry schedule of pending actions: base doubles per
// failed attempt up to max.
func WithBackoff(base, max time.Duration) Option {
	return func(s *Service) {
		if base > 0 {
			s.baseBackoff = base
		}
		if max >= base && max > 0 {
			s.maxBackoff = max
		}
	}
}

func New(condos CondominiumStore, users UserStore, registry CommitmentResolver, pending PendingStore, ledger Ledger, opts ...Option) *Service {
	s := &Service{
		condos:      condos,
		users:       users,
		registry:    registry,
		pending:     pending,
		ledger:      ledger,
		locker:      lock.NewLocal(defaultLockWait),
		baseBackoff: defaultBaseBackoff,
		maxBackoff:  defaultMaxBackoff,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// backoff returns the delay before the next attempt after attempts failures.
func (s *Service) backoff(attempts int) time.Duration {
	if attempts < 1 {
		attempts = 1
	}
	d := s.baseBackoff
	for i := 1; i < attempts; i++ {
		d *= 2
		if d >= s.maxBackoff {
			return s.maxBackoff
		}
	}
	return d
}

// logAudit logs event and forwards it to the audit publisher. Recognized
// attributes: condominium_id, election_id, actor_id, reason.
func (s *Service) logAudit(ctx context.Context, event audit.AuditEvent, attributes ...any) {
	requestID := requestcontext.RequestID(ctx)
	if requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes, "event", string(event), "log_type", "audit")
	s.logger.InfoContext(ctx, string(event), args...)
	if s.auditPublisher == nil {
		return
	}
	if err := s.auditPublisher.Emit(ctx, audit.Event{
		Timestamp:  requestcontext.Now(ctx),
		Subject:    attrs.ExtractString(attributes, "condominium_id"),
		ElectionID: attrs.ExtractString(attributes, "election_id"),
		Action:     string(event),
		Reason:     attrs.ExtractString(attributes, "reason"),
		RequestID:  requestID,
		ActorID:    attrs.ExtractString(attributes, "actor_id"),
	}); err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event", "event", string(event), "error", err)
	}
}

// recordWarning makes a failed secondary step observable and returns it for
// the caller's result.
func (s *Service) recordWarning(ctx context.Context, kind models.ActionKind, cid id.CondominiumID, electionID *uint64, cause error) models.ConsistencyWarning {
	w := models.ConsistencyWarning{
		Kind:          kind,
		CondominiumID: cid,
		ElectionID:    electionID,
		Reason:        cause.Error(),
	}
	args := []any{
		"log_type", "consistency",
		"kind", string(kind),
		"condominium_id", cid.String(),
		"error", cause,
	}
	if electionID != nil {
		args = append(args, "election_id", *electionID)
	}
	s.logger.WarnContext(ctx, "ledger step deferred", args...)
	s.metrics.IncrementConsistencyWarning(string(kind))

	auditArgs := []any{"condominium_id", cid.String(), "reason", string(kind) + ": " + cause.Error()}
	if electionID != nil {
		auditArgs = append(auditArgs, "election_id", formatElectionID(*electionID))
	}
	s.logAudit(ctx, audit.EventConsistencyWarning, auditArgs...)
	return w
}

// deferAction persists a failed secondary step for the reconciler and
// schedules its next attempt.
func (s *Service) deferAction(ctx context.Context, a *models.PendingAction, cause error) {
	stored, err := s.pending.Enqueue(ctx, a)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to persist pending ledger action",
			"kind", string(a.Kind),
			"condominium_id", a.CondominiumID.String(),
			"error", err,
		)
		return
	}
	s.markFailed(ctx, stored, cause)
}

func (s *Service) markFailed(ctx context.Context, a *models.PendingAction, cause error) {
	now := requestcontext.Now(ctx)
	next := now.Add(s.backoff(a.Attempts + 1))
	if err := s.pending.MarkFailed(ctx, a.ID, cause.Error(), next, now); err != nil {
		s.logger.ErrorContext(ctx, "failed to reschedule pending ledger action",
			"action_id", a.ID.String(),
			"error", err,
		)
	}
}
