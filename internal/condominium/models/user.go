package models

import (
	"strings"
	"time"

	id "condovote/pkg/domain"
	dErrors "condovote/pkg/domain-errors"
	"condovote/pkg/platform/sentinel"
)

// User is a resident account. Commitment is the resident's anonymous identity
// commitment: empty until registered, then immutable, because changing it
// would break the unlinkability of votes already cast.
type User struct {
	TaxCode      id.TaxCode         `json:"taxCode"`
	Name         string             `json:"name"`
	Email        string             `json:"email"`
	BirthDate    string             `json:"birthDate,omitempty"`
	BirthPlace   string             `json:"birthPlace,omitempty"`
	Condominiums []id.CondominiumID `json:"condominiums"`
	Commitment   string             `json:"commitment,omitempty"`
	CreatedAt    time.Time          `json:"createdAt"`
}

// SetCommitment sets the commitment once. The same value again is a no-op.
func (u *User) SetCommitment(commitment string) error {
	if u.Commitment == "" {
		u.Commitment = commitment
		return nil
	}
	if u.Commitment == commitment {
		return nil
	}
	return sentinel.ErrAlreadySet
}

// AddCondominium records membership; repeated ids are ignored.
func (u *User) AddCondominium(cid id.CondominiumID) {
	for _, existing := range u.Condominiums {
		if existing == cid {
			return
		}
	}
	u.Condominiums = append(u.Condominiums, cid)
}

// ParseCommitment canonicalizes an identity commitment to its decimal form.
// Accepts decimal or 0x-prefixed hex; the value must be a positive integer
// that fits in 256 bits.
func ParseCommitment(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", dErrors.New(dErrors.CodeValidation, "commitment is required")
	}
	n, ok := parseDecimalOrHex(s)
	if !ok || n.Sign() <= 0 || n.BitLen() > 256 {
		return "", dErrors.New(dErrors.CodeValidation, "commitment must be a positive 256-bit integer")
	}
	return n.String(), nil
}

func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	out := *u
	out.Condominiums = append([]id.CondominiumID(nil), u.Condominiums...)
	return &out
}
