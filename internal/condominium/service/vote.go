package service

import (
	"context"

	"condovote/internal/condominium/models"
	id "condovote/pkg/domain"
	dErrors "condovote/pkg/domain-errors"
	"condovote/pkg/platform/audit"
)

type VoteReceipt struct {
	CondominiumID id.CondominiumID `json:"condominiumId"`
	ElectionID    uint64           `json:"electionId"`
	TxRef         string           `json:"txHash"`
}

// SubmitVote checks a vote against the stored election and forwards the
// proof. Double voting is rejected by the ledger through the proof
// nullifier; nothing is deduplicated or stored here.
func (s *Service) SubmitVote(ctx context.Context, req models.VoteRequest) (*VoteReceipt, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	c, err := s.condos.FindByID(ctx, req.CondominiumID)
	if err != nil {
		return nil, notFoundOr(err, "condominium not found", "failed to load condominium")
	}
	if !c.Provisioned() {
		return nil, dErrors.New(dErrors.CodeNotFound, "condominium has no ledger contract")
	}
	e, ok := c.ElectionByOnChainID(req.ElectionID)
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "election not found")
	}
	option := *req.OptionIndex
	if option < 0 || !e.HasOption(uint64(option)) {
		return nil, dErrors.New(dErrors.CodeInvalidOption, "option index out of range")
	}

	txRef, err := s.ledger.SubmitVote(ctx, c.ContractAddress, req.ElectionID, uint64(option), *req.Proof)
	if err != nil {
		return nil, ledgerError(err, "vote submission failed")
	}
	s.metrics.IncrementVotesForwarded()
	s.logAudit(ctx, audit.EventVoteForwarded,
		"condominium_id", c.ID.String(),
		"election_id", formatElectionID(req.ElectionID),
	)
	return &VoteReceipt{CondominiumID: c.ID, ElectionID: req.ElectionID, TxRef: txRef}, nil
}
