// Package condominium persists condominium documents.
//
// Error contract for every backend:
//   - sentinel.ErrNotFound when the condominium does not exist
//   - sentinel.ErrAlreadyUsed for a duplicate tax code, resident or on-chain election id
//   - sentinel.ErrAlreadySet when a different contract address is already stored
//
// Every write touches a single document.
package condominium

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"condovote/internal/condominium/models"
	id "condovote/pkg/domain"
	"condovote/pkg/platform/sentinel"
)

// InMemory stores condominiums in memory for tests and single-node dev.
type InMemory struct {
	mu    sync.RWMutex
	byID  map[id.CondominiumID]*models.Condominium
	byTax map[id.TaxCode]id.CondominiumID
}

func NewInMemory() *InMemory {
	return &InMemory{
		byID:  make(map[id.CondominiumID]*models.Condominium),
		byTax: make(map[id.TaxCode]id.CondominiumID),
	}
}

func (s *InMemory) Create(_ context.Context, c *models.Condominium) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byTax[c.TaxCode]; ok {
		return fmt.Errorf("condominium tax code %s: %w", c.TaxCode, sentinel.ErrAlreadyUsed)
	}
	if _, ok := s.byID[c.ID]; ok {
		return fmt.Errorf("condominium %s: %w", c.ID, sentinel.ErrAlreadyUsed)
	}
	s.byID[c.ID] = c.Clone()
	s.byTax[c.TaxCode] = c.ID
	return nil
}

func (s *InMemory) FindByID(_ context.Context, cid id.CondominiumID) (*models.Condominium, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.byID[cid]
	if !ok {
		return nil, fmt.Errorf("condominium %s: %w", cid, sentinel.ErrNotFound)
	}
	return c.Clone(), nil
}

func (s *InMemory) FindByTaxCode(_ context.Context, taxCode id.TaxCode) (*models.Condominium, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cid, ok := s.byTax[taxCode]
	if !ok {
		return nil, fmt.Errorf("condominium tax code %s: %w", taxCode, sentinel.ErrNotFound)
	}
	return s.byID[cid].Clone(), nil
}

func (s *InMemory) AssignContract(_ context.Context, cid id.CondominiumID, address string) error {
	return s.update(cid, func(c *models.Condominium) error { return c.AssignContract(address) })
}

func (s *InMemory) AppendElection(_ context.Context, cid id.CondominiumID, e models.Election) error {
	return s.update(cid, func(c *models.Condominium) error { return c.AppendElection(e.Clone()) })
}

func (s *InMemory) AddResident(_ context.Context, cid id.CondominiumID, r models.Resident) error {
	return s.update(cid, func(c *models.Condominium) error { return c.AddResident(r) })
}

// ListForResident returns condominiums administered by taxCode or listing it
// on the roster.
func (s *InMemory) ListForResident(_ context.Context, taxCode id.TaxCode) ([]*models.Condominium, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Condominium
	for _, c := range s.byID {
		if c.IsMember(taxCode) {
			out = append(out, c.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *InMemory) ResidentsOf(_ context.Context, cid id.CondominiumID) ([]models.Resident, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.byID[cid]
	if !ok {
		return nil, fmt.Errorf("condominium %s: %w", cid, sentinel.ErrNotFound)
	}
	return append([]models.Resident(nil), c.Residents...), nil
}

// update applies fn to a copy and stores it only when fn succeeds.
func (s *InMemory) update(cid id.CondominiumID, fn func(*models.Condominium) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.byID[cid]
	if !ok {
		return fmt.Errorf("condominium %s: %w", cid, sentinel.ErrNotFound)
	}
	next := c.Clone()
	if err := fn(next); err != nil {
		return err
	}
	s.byID[cid] = next
	return nil
}
