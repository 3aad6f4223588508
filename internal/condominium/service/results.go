package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"condovote/internal/condominium/models"
	id "condovote/pkg/domain"
	dErrors "condovote/pkg/domain-errors"
	"condovote/pkg/platform/audit"
	"condovote/pkg/requestcontext"
)

type CloseReceipt struct {
	CondominiumID id.CondominiumID `json:"condominiumId"`
	ElectionID    uint64           `json:"electionId"`
	TxRef         string           `json:"txHash"`
}

// GetResults merges ledger tallies with stored option names by position.
// Tallies are read from the ledger only.
func (s *Service) GetResults(ctx context.Context, cid id.CondominiumID, electionID uint64) (*models.ElectionResults, error) {
	c, e, err := s.confirmedElection(ctx, cid, electionID)
	if err != nil {
		return nil, err
	}

	var status *models.ElectionStatus
	counts := make([]uint64, len(e.Options))
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		st, err := s.ledger.GetElectionStatus(gctx, c.ContractAddress, electionID)
		status = st
		return err
	})
	for i := range e.Options {
		g.Go(func() error {
			n, err := s.ledger.GetVoteCount(gctx, c.ContractAddress, electionID, uint64(i))
			counts[i] = n
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, ledgerError(err, "failed to read election results")
	}

	results := &models.ElectionResults{
		ElectionID:  electionID,
		Name:        e.Name,
		Description: e.Description,
		Active:      status.Active,
		HasExpired:  status.HasExpired,
		EndTime:     status.EndTime,
		Results:     make([]models.OptionResult, len(counts)),
	}
	for i, n := range counts {
		results.Results[i] = models.OptionResult{OptionIndex: i, OptionName: e.OptionName(i), VoteCount: n}
		results.TotalVotes += n
	}
	return results, nil
}

// CloseElection closes an election the ledger reports as expired and still
// active. Otherwise nothing is written.
func (s *Service) CloseElection(ctx context.Context, cid id.CondominiumID, electionID uint64) (*CloseReceipt, error) {
	c, _, err := s.confirmedElection(ctx, cid, electionID)
	if err != nil {
		return nil, err
	}
	status, err := s.ledger.GetElectionStatus(ctx, c.ContractAddress, electionID)
	if err != nil {
		return nil, ledgerError(err, "failed to read election status")
	}
	if !status.Active {
		return nil, dErrors.New(dErrors.CodeBadElectionState, "election is already closed")
	}
	if !status.HasExpired {
		return nil, dErrors.New(dErrors.CodeBadElectionState, "election has not expired yet")
	}
	txRef, err := s.ledger.CloseElection(ctx, c.ContractAddress, electionID)
	if err != nil {
		return nil, ledgerError(err, "election close failed")
	}
	s.metrics.IncrementElectionsClosed()
	s.logAudit(ctx, audit.EventElectionClosed,
		"condominium_id", cid.String(),
		"election_id", formatElectionID(electionID),
		"actor_id", requestcontext.Resident(ctx).String(),
	)
	return &CloseReceipt{CondominiumID: cid, ElectionID: electionID, TxRef: txRef}, nil
}

func (s *Service) confirmedElection(ctx context.Context, cid id.CondominiumID, electionID uint64) (*models.Condominium, *models.Election, error) {
	c, err := s.condos.FindByID(ctx, cid)
	if err != nil {
		return nil, nil, notFoundOr(err, "condominium not found", "failed to load condominium")
	}
	if !c.Provisioned() {
		return nil, nil, dErrors.New(dErrors.CodeLedgerNotProvisioned, "condominium contract is not provisioned yet")
	}
	e, ok := c.ElectionByOnChainID(electionID)
	if !ok {
		return nil, nil, dErrors.New(dErrors.CodeNotFound, "election not found")
	}
	return c, e, nil
}
