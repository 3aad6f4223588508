package service

import (
	"context"
	"errors"

	"condovote/internal/condominium/models"
	"condovote/internal/identity"
	id "condovote/pkg/domain"
	dErrors "condovote/pkg/domain-errors"
	"condovote/pkg/platform/audit"
	"condovote/pkg/platform/sentinel"
	"condovote/pkg/requestcontext"
)

// ElectionCreated is a ledger-confirmed election. Warnings list the
// membership gaps left for the reconciler.
type ElectionCreated struct {
	CondominiumID id.CondominiumID            `json:"condominiumId"`
	Election      models.Election             `json:"election"`
	Warnings      []models.ConsistencyWarning `json:"warnings,omitempty"`
}

// CreateElection runs the election saga: the ledger creates the election,
// the membership group is populated best-effort, and only then is the
// election stored with its confirmed on-chain id.
func (s *Service) CreateElection(ctx context.Context, cid id.CondominiumID, req models.CreateElectionRequest) (*ElectionCreated, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	e, err := models.NewElection(req.Name, req.Description, req.Options, req.DurationSeconds, requestcontext.Now(ctx))
	if err != nil {
		return nil, validationError(err)
	}
	c, err := s.condos.FindByID(ctx, cid)
	if err != nil {
		return nil, notFoundOr(err, "condominium not found", "failed to load condominium")
	}
	if !c.Provisioned() {
		return nil, dErrors.New(dErrors.CodeLedgerNotProvisioned, "condominium contract is not provisioned yet")
	}

	onChainID, err := s.ledger.CreateElection(ctx, c.ContractAddress, e.Name, e.Options, e.DurationSeconds)
	if err != nil {
		return nil, ledgerError(err, "election creation failed")
	}
	if err := e.Confirm(onChainID); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to confirm election")
	}
	s.metrics.IncrementElectionsCreated()

	result := &ElectionCreated{CondominiumID: cid}
	if err := s.populateMembers(ctx, c.ContractAddress, cid, onChainID); err != nil {
		result.Warnings = append(result.Warnings, s.recordWarning(ctx, models.ActionPopulateMembers, cid, &onChainID, err))
		s.deferAction(ctx, models.NewPendingAction(models.ActionPopulateMembers, cid, &onChainID, requestcontext.Now(ctx)), err)
	}

	if err := s.persistElection(ctx, cid, *e); err != nil {
		pending := models.NewPendingAction(models.ActionPersistElection, cid, &onChainID, requestcontext.Now(ctx))
		stored := e.Clone()
		pending.Election = &stored
		s.recordWarning(ctx, models.ActionPersistElection, cid, &onChainID, err)
		s.deferAction(ctx, pending, err)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "election confirmed on the ledger but not stored; it will be retried")
	}
	s.logAudit(ctx, audit.EventElectionCreated,
		"condominium_id", cid.String(),
		"election_id", formatElectionID(onChainID),
		"actor_id", requestcontext.Resident(ctx).String(),
	)
	result.Election = *e
	return result, nil
}

// populateMembers registers the current roster's commitments in the
// election group. Residents without a commitment are skipped; that is not a
// failure.
func (s *Service) populateMembers(ctx context.Context, contract string, cid id.CondominiumID, electionID uint64) error {
	residents, err := s.condos.ResidentsOf(ctx, cid)
	if err != nil {
		return err
	}
	taxCodes := make([]id.TaxCode, len(residents))
	for i, r := range residents {
		taxCodes[i] = r.TaxCode
	}
	found, err := s.registry.GetCommitments(ctx, taxCodes)
	if err != nil {
		return err
	}
	commitments := identity.OrderedCommitments(taxCodes, found)
	if len(commitments) == 0 {
		s.logger.InfoContext(ctx, "no registered commitments to add",
			"condominium_id", cid.String(),
			"election_id", electionID,
		)
		return nil
	}
	if err := s.ledger.AddMembers(ctx, contract, electionID, commitments); err != nil {
		return err
	}
	s.logAudit(ctx, audit.EventMembersPopulated,
		"condominium_id", cid.String(),
		"election_id", formatElectionID(electionID),
		"members", len(commitments),
	)
	return nil
}

// persistElection stores a confirmed election. An election already stored
// under the same on-chain id counts as stored.
func (s *Service) persistElection(ctx context.Context, cid id.CondominiumID, e models.Election) error {
	err := s.condos.AppendElection(ctx, cid, e)
	if err == nil || errors.Is(err, sentinel.ErrAlreadyUsed) {
		return nil
	}
	return err
}

// AddResident appends a resident to the roster and links the resident's
// account when one exists.
func (s *Service) AddResident(ctx context.Context, cid id.CondominiumID, req models.ResidentRequest) (*models.Resident, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	r := models.Resident{
		Name:     req.Name,
		Email:    req.Email,
		TaxCode:  id.TaxCode(req.TaxCode),
		Unit:     req.Unit,
		Role:     req.Role,
		JoinDate: requestcontext.Now(ctx),
	}
	if err := s.condos.AddResident(ctx, cid, r); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeConflict, "resident already on the roster")
		}
		return nil, notFoundOr(err, "condominium not found", "failed to add resident")
	}
	if err := s.users.AddCondominium(ctx, r.TaxCode, cid); err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		s.logger.WarnContext(ctx, "failed to link condominium to resident",
			"condominium_id", cid.String(),
			"error", err,
		)
	}
	s.logAudit(ctx, audit.EventResidentAdded,
		"condominium_id", cid.String(),
		"actor_id", requestcontext.Resident(ctx).String(),
	)
	return &r, nil
}
