package handler

import (
	"strings"

	"condovote/internal/condominium/models"
	dErrors "condovote/pkg/domain-errors"
)

// registerCondominiumRequest is the registration body. The administrator's
// tax code is taken from the credential, not the body.
type registerCondominiumRequest struct {
	models.RegisterCondominiumRequest
}

func (r *registerCondominiumRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	return nil
}

type enrollRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	BirthDate  string `json:"birthDate,omitempty"`
	BirthPlace string `json:"birthPlace,omitempty"`
}

func (r *enrollRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	return nil
}

type groupResponse struct {
	Commitments []string `json:"commitments"`
}

type commitmentResponse struct {
	Commitment string `json:"commitment"`
}

type sweepResponse struct {
	Resolved int `json:"resolved"`
}
