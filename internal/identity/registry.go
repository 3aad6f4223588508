// Package identity resolves residents to their anonymous identity
// commitments and records new commitments.
//
// Commitments are read from the user store and never invented. A resident
// without a commitment is absent from results; callers decide whether a
// partial set is enough.
package identity

import (
	"context"
	"errors"

	"condovote/internal/condominium/models"
	id "condovote/pkg/domain"
	dErrors "condovote/pkg/domain-errors"
	"condovote/pkg/platform/sentinel"
	"condovote/pkg/platform/strings"
)

type CommitmentStore interface {
	FindCommitments(ctx context.Context, taxCodes []id.TaxCode) (map[id.TaxCode]string, error)
}

type RosterStore interface {
	ResidentsOf(ctx context.Context, cid id.CondominiumID) ([]models.Resident, error)
}

// Registry is read-only.
type Registry struct {
	commitments CommitmentStore
	roster      RosterStore
}

func NewRegistry(commitments CommitmentStore, roster RosterStore) *Registry {
	return &Registry{commitments: commitments, roster: roster}
}

// GetCommitments returns the commitment of each resident that has one.
func (r *Registry) GetCommitments(ctx context.Context, residentIDs []id.TaxCode) (map[id.TaxCode]string, error) {
	if len(residentIDs) == 0 {
		return map[id.TaxCode]string{}, nil
	}
	found, err := r.commitments.FindCommitments(ctx, strings.Dedupe(residentIDs))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve commitments")
	}
	return found, nil
}

// GroupCommitments returns the commitments of a condominium's roster in
// roster order, without duplicates. This is the membership group clients
// rebuild to generate proofs.
func (r *Registry) GroupCommitments(ctx context.Context, cid id.CondominiumID) ([]string, error) {
	residents, err := r.roster.ResidentsOf(ctx, cid)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "condominium not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load residents")
	}
	taxCodes := make([]id.TaxCode, len(residents))
	for i, res := range residents {
		taxCodes[i] = res.TaxCode
	}
	found, err := r.GetCommitments(ctx, taxCodes)
	if err != nil {
		return nil, err
	}
	return OrderedCommitments(taxCodes, found), nil
}

// OrderedCommitments lists the commitments of taxCodes in order, skipping
// absent ones and repeats.
func OrderedCommitments(taxCodes []id.TaxCode, found map[id.TaxCode]string) []string {
	ordered := make([]string, 0, len(found))
	for _, tc := range taxCodes {
		if c, ok := found[tc]; ok {
			ordered = append(ordered, c)
		}
	}
	return strings.DedupeAndTrim(ordered)
}
