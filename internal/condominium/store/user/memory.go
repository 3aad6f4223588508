// Package user persists resident accounts and their identity commitments.
//
// Commitments are write-once at the storage boundary: SetCommitment succeeds
// when none is stored or the same value is stored, and fails with
// sentinel.ErrAlreadySet otherwise.
package user

import (
	"context"
	"fmt"
	"sync"

	"condovote/internal/condominium/models"
	id "condovote/pkg/domain"
	"condovote/pkg/platform/sentinel"
)

type InMemory struct {
	mu    sync.RWMutex
	users map[id.TaxCode]*models.User
}

func NewInMemory() *InMemory {
	return &InMemory{users: make(map[id.TaxCode]*models.User)}
}

func (s *InMemory) Create(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.TaxCode]; ok {
		return fmt.Errorf("user %s: %w", u.TaxCode, sentinel.ErrAlreadyUsed)
	}
	s.users[u.TaxCode] = u.Clone()
	return nil
}

func (s *InMemory) FindByTaxCode(_ context.Context, taxCode id.TaxCode) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[taxCode]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", taxCode, sentinel.ErrNotFound)
	}
	return u.Clone(), nil
}

// FindCommitments returns the registered commitments among taxCodes. Unknown
// users and users without a commitment are absent from the result.
func (s *InMemory) FindCommitments(_ context.Context, taxCodes []id.TaxCode) (map[id.TaxCode]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[id.TaxCode]string, len(taxCodes))
	for _, tc := range taxCodes {
		if u, ok := s.users[tc]; ok && u.Commitment != "" {
			out[tc] = u.Commitment
		}
	}
	return out, nil
}

func (s *InMemory) SetCommitment(_ context.Context, taxCode id.TaxCode, commitment string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[taxCode]
	if !ok {
		return fmt.Errorf("user %s: %w", taxCode, sentinel.ErrNotFound)
	}
	if err := u.SetCommitment(commitment); err != nil {
		return fmt.Errorf("user %s commitment: %w", taxCode, err)
	}
	return nil
}

func (s *InMemory) AddCondominium(_ context.Context, taxCode id.TaxCode, cid id.CondominiumID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[taxCode]
	if !ok {
		return fmt.Errorf("user %s: %w", taxCode, sentinel.ErrNotFound)
	}
	u.AddCondominium(cid)
	return nil
}
