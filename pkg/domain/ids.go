// Package domain holds typed identifiers shared across modules.
//
// Typed IDs keep a condominium id from being passed where a pending action id
// is expected. Parse functions are the trust boundary: they reject empty,
// malformed and nil values with CodeInvalidInput.
package domain

import (
	"strings"

	"github.com/google/uuid"

	dErrors "condovote/pkg/domain-errors"
)

type (
	CondominiumID uuid.UUID
	ActionID      uuid.UUID
)

func (id CondominiumID) String() string { return uuid.UUID(id).String() }
func (id ActionID) String() string      { return uuid.UUID(id).String() }

// IsNil reports whether the id is the zero UUID.
func (id CondominiumID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// MarshalText and UnmarshalText keep ids in their canonical string form in
// JSON documents and query parameters.
func (id CondominiumID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id ActionID) MarshalText() ([]byte, error)      { return uuid.UUID(id).MarshalText() }

func (id *CondominiumID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}

func (id *ActionID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}

func NewCondominiumID() CondominiumID { return CondominiumID(uuid.New()) }
func NewActionID() ActionID           { return ActionID(uuid.New()) }

func ParseCondominiumID(s string) (CondominiumID, error) {
	u, err := parseUUID(s, "condominium id")
	return CondominiumID(u), err
}

func ParseActionID(s string) (ActionID, error) {
	u, err := parseUUID(s, "action id")
	return ActionID(u), err
}

func parseUUID(s, label string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" is required")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+label)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" must not be nil")
	}
	return u, nil
}

// TaxCode identifies a resident or a condominium. Values are stored
// upper-cased; comparison is exact after normalization.
type TaxCode string

const maxTaxCodeLen = 32

func (t TaxCode) String() string { return string(t) }

// ParseTaxCode normalizes and validates a tax code: ASCII letters and digits
// only, at most 32 characters.
func ParseTaxCode(s string) (TaxCode, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "tax code is required")
	}
	if len(s) > maxTaxCodeLen {
		return "", dErrors.New(dErrors.CodeInvalidInput, "tax code is too long")
	}
	for _, r := range s {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return "", dErrors.New(dErrors.CodeInvalidInput, "tax code must be alphanumeric")
		}
	}
	return TaxCode(s), nil
}

// TaxCodeStrings converts typed tax codes for storage queries.
func TaxCodeStrings(codes []TaxCode) []string {
	out := make([]string, len(codes))
	for i, c := range codes {
		out[i] = string(c)
	}
	return out
}
