package service

import (
	"context"
	"errors"
	"strings"

	"condovote/internal/condominium/models"
	"condovote/internal/platform/lock"
	id "condovote/pkg/domain"
	dErrors "condovote/pkg/domain-errors"
	"condovote/pkg/platform/audit"
	"condovote/pkg/platform/sentinel"
	"condovote/pkg/requestcontext"
)

// RegistrationResult is a successful off-chain registration. An empty
// ContractAddress with a warning means provisioning is pending.
type RegistrationResult struct {
	Condominium *models.Condominium         `json:"condominium"`
	Warnings    []models.ConsistencyWarning `json:"warnings,omitempty"`
}

// RegisterCondominium stores the condominium and then attempts contract
// provisioning. A ledger failure leaves the record in the pending state and
// does not fail the registration.
func (s *Service) RegisterCondominium(ctx context.Context, req models.RegisterCondominiumRequest) (*RegistrationResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	residents := make([]models.Resident, len(req.Residents))
	for i, r := range req.Residents {
		residents[i] = models.Resident{
			Name:     r.Name,
			Email:    r.Email,
			TaxCode:  id.TaxCode(r.TaxCode),
			Unit:     r.Unit,
			Role:     r.Role,
			JoinDate: now,
		}
	}
	admin := models.Admin{Name: req.Admin.Name, Email: req.Admin.Email, TaxCode: id.TaxCode(req.Admin.TaxCode)}
	c, err := models.NewCondominium(id.NewCondominiumID(), req.Name, id.TaxCode(req.TaxCode), admin, residents, now)
	if err != nil {
		return nil, validationError(err)
	}
	c.Address = req.Address
	c.City = req.City
	c.PostalCode = req.PostalCode
	c.Province = req.Province
	c.TotalUnits = req.TotalUnits
	c.Description = req.Description

	if err := s.condos.Create(ctx, c); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeConflict, "a condominium with this tax code already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store condominium")
	}
	s.logAudit(ctx, audit.EventCondominiumRegistered,
		"condominium_id", c.ID.String(),
		"actor_id", c.Admin.TaxCode.String(),
	)
	s.metrics.IncrementCondominiumsRegistered()

	if err := s.users.AddCondominium(ctx, c.Admin.TaxCode, c.ID); err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		s.logger.WarnContext(ctx, "failed to link condominium to administrator",
			"condominium_id", c.ID.String(),
			"error", err,
		)
	}

	result := &RegistrationResult{Condominium: c}
	action, enqueueErr := s.pending.Enqueue(ctx, models.NewPendingAction(models.ActionProvisionContract, c.ID, nil, now))
	if enqueueErr != nil {
		s.logger.ErrorContext(ctx, "failed to persist pending provisioning",
			"condominium_id", c.ID.String(),
			"error", enqueueErr,
		)
	}
	provisioned, err := s.ProvisionCondominium(ctx, c.ID)
	if err != nil {
		result.Warnings = append(result.Warnings, s.recordWarning(ctx, models.ActionProvisionContract, c.ID, nil, err))
		if action != nil {
			s.markFailed(ctx, action, err)
		}
		return result, nil
	}
	if action != nil {
		s.markDone(ctx, action)
	}
	result.Condominium = provisioned
	return result, nil
}

// ProvisionCondominium deploys the condominium's ledger contract unless one
// is already assigned. It is idempotent per condominium id: concurrent calls
// in this process share one attempt, calls across processes are serialized
// by the Locker, and a deployment already recorded by the ledger factory is
// recovered instead of repeated.
func (s *Service) ProvisionCondominium(ctx context.Context, cid id.CondominiumID) (*models.Condominium, error) {
	// The shared run outlives any single caller; ConfirmTimeout and the lock
	// wait still bound it.
	ch := s.provisioning.DoChan(cid.String(), func() (any, error) {
		return s.provision(context.WithoutCancel(ctx), cid)
	})
	select {
	case <-ctx.Done():
		return nil, dErrors.Wrap(ctx.Err(), dErrors.CodeTimeout, "stopped waiting for provisioning")
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*models.Condominium).Clone(), nil
	}
}

func (s *Service) provision(ctx context.Context, cid id.CondominiumID) (*models.Condominium, error) {
	c, err := s.condos.FindByID(ctx, cid)
	if err != nil {
		return nil, notFoundOr(err, "condominium not found", "failed to load condominium")
	}
	if c.Provisioned() {
		s.metrics.IncrementProvisionOutcome("already")
		return c, nil
	}

	release, err := s.locker.Acquire(ctx, "provision:"+cid.String())
	if err != nil {
		if errors.Is(err, lock.ErrNotAcquired) {
			return nil, dErrors.New(dErrors.CodeConflict, "provisioning already in progress")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to acquire provisioning lock")
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			s.logger.WarnContext(ctx, "failed to release provisioning lock", "condominium_id", cid.String(), "error", err)
		}
	}()

	// Another process may have finished while we waited for the lock.
	c, err = s.condos.FindByID(ctx, cid)
	if err != nil {
		return nil, notFoundOr(err, "condominium not found", "failed to load condominium")
	}
	if c.Provisioned() {
		s.metrics.IncrementProvisionOutcome("already")
		return c, nil
	}

	outcome := "recovered"
	address, err := s.ledger.LookupCondominiumContract(ctx, cid.String())
	if errors.Is(err, sentinel.ErrNotFound) {
		outcome = "deployed"
		address, err = s.ledger.DeployCondominiumContract(ctx, cid.String())
	}
	if err != nil {
		s.metrics.IncrementProvisionOutcome("failed")
		return nil, ledgerError(err, "contract provisioning failed")
	}

	if err := s.condos.AssignContract(ctx, cid, address); err != nil {
		if errors.Is(err, sentinel.ErrAlreadySet) {
			return nil, dErrors.New(dErrors.CodeConflict, "condominium already has a different contract")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store contract address")
	}
	if err := c.AssignContract(address); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to assign contract address")
	}
	s.metrics.IncrementProvisionOutcome(outcome)
	s.logAudit(ctx, audit.EventContractProvisioned,
		"condominium_id", cid.String(),
		"contract_address", strings.ToLower(address),
		"outcome", outcome,
	)
	return c, nil
}

func (s *Service) markDone(ctx context.Context, a *models.PendingAction) {
	if err := s.pending.MarkDone(ctx, a.ID, requestcontext.Now(ctx)); err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		s.logger.ErrorContext(ctx, "failed to close pending ledger action",
			"action_id", a.ID.String(),
			"error", err,
		)
	}
}
