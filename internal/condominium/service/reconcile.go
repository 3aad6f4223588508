package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"condovote/internal/condominium/models"
	dErrors "condovote/pkg/domain-errors"
	"condovote/pkg/platform/audit"
	"condovote/pkg/requestcontext"
)

var actionKinds = []string{
	string(models.ActionProvisionContract),
	string(models.ActionPopulateMembers),
	string(models.ActionPersistElection),
}

// Reconciler retries pending ledger actions in the background.
type Reconciler struct {
	svc       *Service
	interval  time.Duration
	batchSize int
	logger    *slog.Logger
}

func NewReconciler(svc *Service, interval time.Duration, batchSize int) *Reconciler {
	if interval <= 0 {
		interval = time.Minute
	}
	if batchSize <= 0 {
		batchSize = 50
	}
	return &Reconciler{svc: svc, interval: interval, batchSize: batchSize, logger: svc.logger}
}

// Run sweeps on every tick until ctx is done.
func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		if _, err := r.Sweep(ctx); err != nil && ctx.Err() == nil {
			r.logger.ErrorContext(ctx, "reconciliation sweep failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Sweep attempts each due action once and returns how many were resolved.
func (r *Reconciler) Sweep(ctx context.Context) (int, error) {
	ctx = requestcontext.WithTime(ctx, time.Now())
	due, err := r.svc.pending.ListDue(ctx, requestcontext.Now(ctx), r.batchSize)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list pending actions")
	}
	resolved := 0
	for _, a := range due {
		if ctx.Err() != nil {
			break
		}
		if r.svc.retry(ctx, a) {
			resolved++
		}
	}
	if _, err := r.Report(ctx); err != nil {
		r.logger.WarnContext(ctx, "failed to refresh pending action gauge", "error", err)
	}
	return resolved, nil
}

// Report lists the partial states awaiting repair.
func (r *Reconciler) Report(ctx context.Context) (*models.ReconciliationReport, error) {
	open, err := r.svc.pending.ListOpen(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list pending actions")
	}
	report := &models.ReconciliationReport{
		GeneratedAt:         requestcontext.Now(ctx),
		PendingProvisioning: []models.PendingAction{},
		UnregisteredMembers: []models.PendingAction{},
		AwaitingPersistence: []models.PendingAction{},
	}
	counts := make(map[string]int, len(actionKinds))
	for _, a := range open {
		counts[string(a.Kind)]++
		switch a.Kind {
		case models.ActionProvisionContract:
			report.PendingProvisioning = append(report.PendingProvisioning, *a)
		case models.ActionPopulateMembers:
			report.UnregisteredMembers = append(report.UnregisteredMembers, *a)
		case models.ActionPersistElection:
			report.AwaitingPersistence = append(report.AwaitingPersistence, *a)
		}
	}
	r.svc.metrics.SetPendingActions(counts, actionKinds)
	return report, nil
}

// retry attempts one action and records the outcome. It reports whether the
// action was resolved.
func (s *Service) retry(ctx context.Context, a *models.PendingAction) bool {
	err := s.attempt(ctx, a)
	if err != nil {
		s.metrics.IncrementReconcileAttempt(string(a.Kind), "failure")
		s.logger.WarnContext(ctx, "pending ledger action still failing",
			"log_type", "consistency",
			"kind", string(a.Kind),
			"condominium_id", a.CondominiumID.String(),
			"attempts", a.Attempts+1,
			"error", err,
		)
		s.markFailed(ctx, a, err)
		return false
	}
	s.metrics.IncrementReconcileAttempt(string(a.Kind), "success")
	s.markDone(ctx, a)
	args := []any{"condominium_id", a.CondominiumID.String(), "reason", string(a.Kind)}
	if a.ElectionID != nil {
		args = append(args, "election_id", formatElectionID(*a.ElectionID))
	}
	s.logAudit(ctx, audit.EventPendingResolved, args...)
	return true
}

var errMalformedAction = errors.New("pending action is missing its election")

func (s *Service) attempt(ctx context.Context, a *models.PendingAction) error {
	switch a.Kind {
	case models.ActionProvisionContract:
		_, err := s.ProvisionCondominium(ctx, a.CondominiumID)
		return err
	case models.ActionPopulateMembers:
		if a.ElectionID == nil {
			return errMalformedAction
		}
		c, err := s.condos.FindByID(ctx, a.CondominiumID)
		if err != nil {
			return err
		}
		return s.populateMembers(ctx, c.ContractAddress, a.CondominiumID, *a.ElectionID)
	case models.ActionPersistElection:
		if a.Election == nil || !a.Election.Confirmed() {
			return errMalformedAction
		}
		return s.persistElection(ctx, a.CondominiumID, *a.Election)
	}
	return dErrors.New(dErrors.CodeInternal, "unknown pending action kind "+string(a.Kind))
}
