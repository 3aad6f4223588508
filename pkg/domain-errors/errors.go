// Package domainerrors carries coded errors across layer boundaries.
//
// Services return *Error values with a stable Code; transports map the code to
// a status and a public message. Infrastructure facts (not found, conflict)
// travel as pkg/platform/sentinel errors and are translated into codes by the
// service layer.
package domainerrors

import (
	"errors"
	"net/http"
)

// Code identifies a class of failure in a transport-agnostic way.
type Code string

const (
	CodeValidation         Code = "validation_error"
	CodeBadRequest         Code = "bad_request"
	CodeInvalidInput       Code = "invalid_input"
	CodeNotFound           Code = "not_found"
	CodeConflict           Code = "conflict"
	CodeUnauthorized       Code = "unauthorized"
	CodeForbidden          Code = "forbidden"
	CodeTimeout            Code = "timeout"
	CodeInvariantViolation Code = "invariant_violation"
	CodeInternal           Code = "internal_error"

	// Governance codes.
	CodeLedgerNotProvisioned Code = "ledger_not_provisioned"
	CodeLedgerUnavailable    Code = "ledger_unavailable"
	CodeLedgerRejected       Code = "ledger_rejected"
	CodeLedgerTimeout        Code = "ledger_timeout"
	CodeInvalidOption        Code = "invalid_option"
	CodeBadElectionState     Code = "bad_election_state"
	// CodeConsistencyWarning marks a recorded divergence between the record
	// store and the ledger. It is never returned to callers as a failure.
	CodeConsistencyWarning Code = "consistency_warning"
)

// Error is a coded domain error.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New creates a coded error.
func New(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: msg, Err: err}
}

// CodeOf returns the outermost code in the chain, or CodeInternal when the
// chain carries no domain error.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// HasCode reports whether the outermost domain error in the chain has code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// Is is an alias of HasCode kept for call sites that read better with it.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// ToHTTPStatus maps a code to an HTTP status.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeValidation, CodeBadRequest, CodeInvalidInput, CodeInvalidOption:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeBadElectionState, CodeLedgerNotProvisioned:
		return http.StatusConflict
	case CodeLedgerRejected:
		return http.StatusUnprocessableEntity
	case CodeLedgerUnavailable:
		return http.StatusServiceUnavailable
	case CodeTimeout, CodeLedgerTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
