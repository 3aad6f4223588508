package models

import (
	"strings"

	id "condovote/pkg/domain"
	dErrors "condovote/pkg/domain-errors"
)

type AdminRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	TaxCode string `json:"taxCode"`
}

type ResidentRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	TaxCode string `json:"taxCode"`
	Unit    string `json:"unit"`
	Role    string `json:"role"`
}

func (r *ResidentRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Unit = strings.TrimSpace(r.Unit)
	r.Role = strings.TrimSpace(r.Role)
	tc, err := id.ParseTaxCode(r.TaxCode)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeValidation, "resident tax code is invalid")
	}
	r.TaxCode = tc.String()
	return nil
}

type RegisterCondominiumRequest struct {
	Name        string            `json:"name"`
	Address     string            `json:"address"`
	City        string            `json:"city"`
	PostalCode  string            `json:"postalCode"`
	Province    string            `json:"province"`
	TaxCode     string            `json:"taxCode"`
	TotalUnits  int               `json:"totalUnits"`
	Description string            `json:"description,omitempty"`
	Admin       AdminRequest      `json:"admin"`
	Residents   []ResidentRequest `json:"residents"`
}

// Validate normalizes the request in place.
func (r *RegisterCondominiumRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Address = strings.TrimSpace(r.Address)
	r.City = strings.TrimSpace(r.City)
	r.PostalCode = strings.TrimSpace(r.PostalCode)
	r.Province = strings.TrimSpace(r.Province)
	r.Description = strings.TrimSpace(r.Description)
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if r.TotalUnits < 0 {
		return dErrors.New(dErrors.CodeValidation, "totalUnits must not be negative")
	}
	tc, err := id.ParseTaxCode(r.TaxCode)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeValidation, "condominium tax code is invalid")
	}
	r.TaxCode = tc.String()
	admin, err := id.ParseTaxCode(r.Admin.TaxCode)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeValidation, "administrator tax code is invalid")
	}
	r.Admin.TaxCode = admin.String()
	r.Admin.Name = strings.TrimSpace(r.Admin.Name)
	r.Admin.Email = strings.TrimSpace(r.Admin.Email)
	for i := range r.Residents {
		if err := r.Residents[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

type CreateElectionRequest struct {
	Name            string   `json:"name"`
	Description     string   `json:"description,omitempty"`
	Options         []Option `json:"options"`
	DurationSeconds uint64   `json:"duration"`
}

func (r *CreateElectionRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if len(r.Options) < minOptions {
		return dErrors.New(dErrors.CodeValidation, "an election needs at least two options")
	}
	if r.DurationSeconds == 0 {
		return dErrors.New(dErrors.CodeValidation, "duration must be positive")
	}
	return nil
}

// VoteRequest carries a vote intent. It is never persisted.
type VoteRequest struct {
	CondominiumID id.CondominiumID `json:"-"`
	ElectionID    uint64           `json:"electionId"`
	OptionIndex   *int64           `json:"optionIndex"`
	Proof         *Proof           `json:"proof"`
}

// OptionIndexOf returns a pointer for VoteRequest.OptionIndex.
func OptionIndexOf(i int64) *int64 { return &i }

// Validate requires an explicit option index; an absent one is not option 0.
func (r *VoteRequest) Validate() error {
	if r.OptionIndex == nil {
		return dErrors.New(dErrors.CodeValidation, "optionIndex is required")
	}
	return r.Proof.Validate()
}

type RegisterCommitmentRequest struct {
	Commitment string `json:"commitment"`
}

func (r *RegisterCommitmentRequest) Validate() error {
	c, err := ParseCommitment(r.Commitment)
	if err != nil {
		return err
	}
	r.Commitment = c
	return nil
}
