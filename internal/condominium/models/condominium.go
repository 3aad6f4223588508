package models

import (
	"strings"
	"time"

	id "condovote/pkg/domain"
	dErrors "condovote/pkg/domain-errors"
	"condovote/pkg/platform/sentinel"
)

// Condominium is the aggregate root of the off-chain record.
//
// Invariants:
//   - Name is non-empty; TaxCode and Admin.TaxCode are valid tax codes
//   - Residents are unique by tax code
//   - ContractAddress is empty until provisioning succeeds, then never changes
//   - Every Election in Elections has an on-chain id, and on-chain ids are unique
//
// An empty ContractAddress is the externally visible "provisioning pending"
// state, not an error.
type Condominium struct {
	ID              id.CondominiumID `json:"id"`
	Name            string           `json:"name"`
	Address         string           `json:"address"`
	City            string           `json:"city"`
	PostalCode      string           `json:"postalCode"`
	Province        string           `json:"province"`
	TaxCode         id.TaxCode       `json:"taxCode"`
	TotalUnits      int              `json:"totalUnits"`
	Description     string           `json:"description,omitempty"`
	Admin           Admin            `json:"admin"`
	Residents       []Resident       `json:"residents"`
	Elections       []Election       `json:"elections"`
	ContractAddress string           `json:"contractAddress,omitempty"`
	CreatedAt       time.Time        `json:"createdAt"`
}

// Admin is the resident administering the condominium.
type Admin struct {
	Name    string     `json:"name"`
	Email   string     `json:"email"`
	TaxCode id.TaxCode `json:"taxCode"`
}

// Resident is a roster entry. The identity commitment lives on the user
// record keyed by the same tax code.
type Resident struct {
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	TaxCode  id.TaxCode `json:"taxCode"`
	Unit     string     `json:"unit"`
	Role     string     `json:"role"`
	JoinDate time.Time  `json:"joinDate"`
}

const maxNameLen = 200

// NewCondominium builds a condominium that satisfies the aggregate invariants.
func NewCondominium(cid id.CondominiumID, name string, taxCode id.TaxCode, admin Admin, residents []Resident, now time.Time) (*Condominium, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "condominium name is required")
	}
	if len(name) > maxNameLen {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "condominium name is too long")
	}
	if taxCode == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "condominium tax code is required")
	}
	if admin.TaxCode == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "administrator tax code is required")
	}
	c := &Condominium{
		ID:        cid,
		Name:      name,
		TaxCode:   taxCode,
		Admin:     admin,
		Residents: []Resident{},
		Elections: []Election{},
		CreatedAt: now,
	}
	for _, r := range residents {
		if err := c.AddResident(r); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInvariantViolation, "duplicate resident "+r.TaxCode.String())
		}
	}
	return c, nil
}

// Provisioned reports whether a ledger contract has been assigned.
func (c *Condominium) Provisioned() bool {
	return c.ContractAddress != ""
}

// AssignContract sets the contract address once. Assigning the same address
// again is a no-op; a different address fails with sentinel.ErrAlreadySet.
func (c *Condominium) AssignContract(address string) error {
	if address == "" {
		return dErrors.New(dErrors.CodeInvariantViolation, "contract address is required")
	}
	if c.ContractAddress == "" {
		c.ContractAddress = address
		return nil
	}
	if strings.EqualFold(c.ContractAddress, address) {
		return nil
	}
	return sentinel.ErrAlreadySet
}

// AddResident appends a roster entry; duplicates fail with sentinel.ErrAlreadyUsed.
func (c *Condominium) AddResident(r Resident) error {
	if r.TaxCode == "" {
		return dErrors.New(dErrors.CodeInvariantViolation, "resident tax code is required")
	}
	if c.HasResident(r.TaxCode) {
		return sentinel.ErrAlreadyUsed
	}
	c.Residents = append(c.Residents, r)
	return nil
}

// AppendElection attaches a ledger-confirmed election. Elections without an
// on-chain id are rejected; a repeated on-chain id fails with
// sentinel.ErrAlreadyUsed.
func (c *Condominium) AppendElection(e Election) error {
	if e.OnChainID == nil {
		return dErrors.New(dErrors.CodeInvariantViolation, "election must be confirmed on the ledger before it is stored")
	}
	if _, ok := c.ElectionByOnChainID(*e.OnChainID); ok {
		return sentinel.ErrAlreadyUsed
	}
	c.Elections = append(c.Elections, e)
	return nil
}

// ElectionByOnChainID finds an election by its ledger id.
func (c *Condominium) ElectionByOnChainID(onChainID uint64) (*Election, bool) {
	for i := range c.Elections {
		if e := &c.Elections[i]; e.OnChainID != nil && *e.OnChainID == onChainID {
			return e, true
		}
	}
	return nil, false
}

func (c *Condominium) HasResident(taxCode id.TaxCode) bool {
	for _, r := range c.Residents {
		if r.TaxCode == taxCode {
			return true
		}
	}
	return false
}

func (c *Condominium) IsAdmin(taxCode id.TaxCode) bool {
	return taxCode != "" && c.Admin.TaxCode == taxCode
}

// IsMember reports whether taxCode is the administrator or on the roster.
func (c *Condominium) IsMember(taxCode id.TaxCode) bool {
	return c.IsAdmin(taxCode) || c.HasResident(taxCode)
}

// ResidentTaxCodes returns the roster tax codes in roster order.
func (c *Condominium) ResidentTaxCodes() []id.TaxCode {
	out := make([]id.TaxCode, 0, len(c.Residents))
	for _, r := range c.Residents {
		out = append(out, r.TaxCode)
	}
	return out
}

// Clone returns a deep copy so callers cannot mutate stored state.
func (c *Condominium) Clone() *Condominium {
	if c == nil {
		return nil
	}
	out := *c
	out.Residents = append([]Resident(nil), c.Residents...)
	out.Elections = make([]Election, len(c.Elections))
	for i, e := range c.Elections {
		out.Elections[i] = e.Clone()
	}
	return &out
}
