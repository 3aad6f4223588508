package service

import (
	"context"

	"condovote/internal/condominium/models"
	id "condovote/pkg/domain"
	dErrors "condovote/pkg/domain-errors"
)

// IsMember reports whether taxCode is on the roster or administers the
// condominium.
func (s *Service) IsMember(ctx context.Context, cid id.CondominiumID, taxCode id.TaxCode) (bool, error) {
	residents, err := s.condos.ResidentsOf(ctx, cid)
	if err != nil {
		return false, notFoundOr(err, "condominium not found", "failed to load residents")
	}
	for _, r := range residents {
		if r.TaxCode == taxCode {
			return true, nil
		}
	}
	return s.IsAdmin(ctx, cid, taxCode)
}

func (s *Service) IsAdmin(ctx context.Context, cid id.CondominiumID, taxCode id.TaxCode) (bool, error) {
	c, err := s.condos.FindByID(ctx, cid)
	if err != nil {
		return false, notFoundOr(err, "condominium not found", "failed to load condominium")
	}
	return c.IsAdmin(taxCode), nil
}

func (s *Service) GetCondominium(ctx context.Context, cid id.CondominiumID) (*models.Condominium, error) {
	c, err := s.condos.FindByID(ctx, cid)
	if err != nil {
		return nil, notFoundOr(err, "condominium not found", "failed to load condominium")
	}
	return c, nil
}

// CondominiumsForResident lists the condominiums taxCode administers or
// lives in.
func (s *Service) CondominiumsForResident(ctx context.Context, taxCode id.TaxCode) ([]*models.Condominium, error) {
	list, err := s.condos.ListForResident(ctx, taxCode)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list condominiums")
	}
	return list, nil
}
