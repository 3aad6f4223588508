// Package pending persists ledger steps that failed after their primary
// effect succeeded, so the reconciler can retry them.
//
// At most one open action exists per key. Enqueue of a key that already has
// an open action returns the stored action unchanged.
package pending

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"condovote/internal/condominium/models"
	id "condovote/pkg/domain"
	"condovote/pkg/platform/sentinel"
)

// InMemory keeps open actions only; MarkDone drops the record.
type InMemory struct {
	mu      sync.Mutex
	actions map[id.ActionID]*models.PendingAction
	open    map[string]id.ActionID
}

func NewInMemory() *InMemory {
	return &InMemory{
		actions: make(map[id.ActionID]*models.PendingAction),
		open:    make(map[string]id.ActionID),
	}
}

func (s *InMemory) Enqueue(_ context.Context, a *models.PendingAction) (*models.PendingAction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.open[a.Key()]; ok {
		return s.actions[existing].Clone(), nil
	}
	stored := a.Clone()
	stored.Status = models.ActionOpen
	s.actions[stored.ID] = stored
	s.open[stored.Key()] = stored.ID
	return stored.Clone(), nil
}

// ListDue returns open actions whose next attempt is not after now, oldest
// schedule first. A non-positive limit means no limit.
func (s *InMemory) ListDue(_ context.Context, now time.Time, limit int) ([]*models.PendingAction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.PendingAction
	for _, aid := range s.open {
		if a := s.actions[aid]; a.Due(now) {
			out = append(out, a.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NextAttemptAt.Before(out[j].NextAttemptAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *InMemory) ListOpen(_ context.Context) ([]*models.PendingAction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.PendingAction, 0, len(s.open))
	for _, aid := range s.open {
		out = append(out, s.actions[aid].Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *InMemory) MarkDone(_ context.Context, aid id.ActionID, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, err := s.openAction(aid)
	if err != nil {
		return err
	}
	delete(s.open, a.Key())
	delete(s.actions, aid)
	return nil
}

func (s *InMemory) MarkFailed(_ context.Context, aid id.ActionID, reason string, nextAttempt, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, err := s.openAction(aid)
	if err != nil {
		return err
	}
	a.Attempts++
	a.LastError = reason
	a.NextAttemptAt = nextAttempt
	a.UpdatedAt = now
	return nil
}

func (s *InMemory) openAction(aid id.ActionID) (*models.PendingAction, error) {
	a, ok := s.actions[aid]
	if !ok || a.Status != models.ActionOpen {
		return nil, fmt.Errorf("pending action %s: %w", aid, sentinel.ErrNotFound)
	}
	return a, nil
}
