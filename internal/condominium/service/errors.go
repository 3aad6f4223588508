package service

import (
	"errors"
	"strconv"

	"condovote/internal/ledger"
	dErrors "condovote/pkg/domain-errors"
	"condovote/pkg/platform/sentinel"
)

// ledgerError translates a ledger fault into the public taxonomy.
func ledgerError(err error, msg string) error {
	switch ledger.KindOf(err) {
	case ledger.KindUnavailable:
		return dErrors.Wrap(err, dErrors.CodeLedgerUnavailable, msg)
	case ledger.KindTimeout:
		return dErrors.Wrap(err, dErrors.CodeLedgerTimeout, msg)
	case ledger.KindRejected:
		return dErrors.Wrap(err, dErrors.CodeLedgerRejected, msg)
	case ledger.KindCanceled:
		return dErrors.Wrap(err, dErrors.CodeTimeout, "request canceled")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}

// validationError converts model invariant violations into validation errors.
func validationError(err error) error {
	if dErrors.HasCode(err, dErrors.CodeInvariantViolation) || dErrors.HasCode(err, dErrors.CodeInvalidInput) {
		var de *dErrors.Error
		errors.As(err, &de)
		return dErrors.New(dErrors.CodeValidation, de.Message)
	}
	return err
}

func notFoundOr(err error, msg, internalMsg string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, msg)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, internalMsg)
}

func formatElectionID(v uint64) string {
	return strconv.FormatUint(v, 10)
}
