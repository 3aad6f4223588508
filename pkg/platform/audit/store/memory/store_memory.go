// Package memory is the process-local audit store.
package memory

import (
	"context"
	"sync"

	audit "condovote/pkg/platform/audit"
)

// InMemoryStore keeps events per condominium for single-instance runs and
// tests. Events are listed in append order.
type InMemoryStore struct {
	mu     sync.RWMutex
	events map[string][]audit.Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{events: make(map[string][]audit.Event)}
}

func (s *InMemoryStore) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.Subject] = append(s.events[event.Subject], event)
	return nil
}

func (s *InMemoryStore) ListBySubject(_ context.Context, subject string) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]audit.Event{}, s.events[subject]...), nil
}

// ListByAction returns events with the given action across all subjects.
func (s *InMemoryStore) ListByAction(_ context.Context, action audit.AuditEvent) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []audit.Event
	for _, events := range s.events {
		for _, e := range events {
			if e.Action == string(action) {
				out = append(out, e)
			}
		}
	}
	return out, nil
}
