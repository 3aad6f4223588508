package models

import (
	"fmt"
	"strings"
	"time"

	dErrors "condovote/pkg/domain-errors"
)

// Election is the off-chain description of a ledger election.
//
// Invariants:
//   - Name is non-empty
//   - At least two options; option ids are 0..n-1 in order
//   - DurationSeconds is positive
//   - OnChainID is nil until the ledger confirmed creation; it is set once
type Election struct {
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	DurationSeconds uint64    `json:"duration"`
	Options         []Option  `json:"options"`
	OnChainID       *uint64   `json:"onChainId,omitempty"`
}

// Option is a ballot choice. ID equals its position in the option list.
type Option struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

const (
	minOptions = 2
	maxOptions = 64
)

// NewElection validates the definition of an election that has not yet been
// created on the ledger.
func NewElection(name, description string, options []Option, durationSeconds uint64, now time.Time) (*Election, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "election name is required")
	}
	if len(name) > maxNameLen {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "election name is too long")
	}
	if len(options) < minOptions {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "an election needs at least two options")
	}
	if len(options) > maxOptions {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, fmt.Sprintf("an election has at most %d options", maxOptions))
	}
	opts := make([]Option, len(options))
	for i, o := range options {
		if o.ID != uint64(i) {
			return nil, dErrors.New(dErrors.CodeInvariantViolation, fmt.Sprintf("option %d has id %d; ids must be sequential from 0", i, o.ID))
		}
		o.Name = strings.TrimSpace(o.Name)
		if o.Name == "" {
			return nil, dErrors.New(dErrors.CodeInvariantViolation, fmt.Sprintf("option %d name is required", i))
		}
		opts[i] = o
	}
	if durationSeconds == 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "election duration must be positive")
	}
	return &Election{
		Name:            name,
		Description:     strings.TrimSpace(description),
		CreatedAt:       now,
		DurationSeconds: durationSeconds,
		Options:         opts,
	}, nil
}

// Confirmed reports whether the ledger has confirmed the election.
func (e *Election) Confirmed() bool {
	return e.OnChainID != nil
}

// Confirm attaches the ledger election id. It may be called once.
func (e *Election) Confirm(onChainID uint64) error {
	if e.OnChainID != nil {
		if *e.OnChainID == onChainID {
			return nil
		}
		return dErrors.New(dErrors.CodeInvariantViolation, "election already confirmed with a different on-chain id")
	}
	e.OnChainID = &onChainID
	return nil
}

// HasOption reports whether index addresses an option.
func (e *Election) HasOption(index uint64) bool {
	return index < uint64(len(e.Options))
}

// OptionName returns the option's name or "Option <i>" when unknown.
func (e *Election) OptionName(index int) string {
	if index >= 0 && index < len(e.Options) && e.Options[index].Name != "" {
		return e.Options[index].Name
	}
	return fmt.Sprintf("Option %d", index)
}

func (e Election) Clone() Election {
	out := e
	out.Options = append([]Option(nil), e.Options...)
	if e.OnChainID != nil {
		v := *e.OnChainID
		out.OnChainID = &v
	}
	return out
}
