package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
)

// FaultKind is the normalized ledger failure taxonomy.
type FaultKind string

const (
	// KindUnavailable covers network and RPC failures, and an open breaker.
	KindUnavailable FaultKind = "unavailable"
	// KindTimeout covers a confirmation wait or call that ran past its deadline.
	KindTimeout FaultKind = "timeout"
	// KindRejected covers reverts, failed receipts, missing contract
	// functions and addresses without code. Retrying will not help.
	KindRejected FaultKind = "rejected"
	// KindCanceled is returned when the caller cancelled the context.
	KindCanceled FaultKind = "canceled"
)

var (
	ErrCircuitOpen     = errors.New("ledger circuit open")
	ErrReverted        = errors.New("transaction reverted")
	ErrEventNotFound   = errors.New("expected event not found in receipt")
	ErrInvalidAddress  = errors.New("invalid contract address")
	ErrUnknownElection = errors.New("unknown election")
)

// Fault wraps every error returned by a ledger client.
type Fault struct {
	Kind FaultKind
	Op   string
	Err  error
}

func (f *Fault) Error() string {
	return fmt.Sprintf("ledger %s [%s]: %v", f.Op, f.Kind, f.Err)
}

func (f *Fault) Unwrap() error { return f.Err }

// Retryable reports whether a later attempt may succeed.
func (f *Fault) Retryable() bool {
	return f.Kind == KindUnavailable || f.Kind == KindTimeout
}

// IsRetryable reports whether err is a retryable ledger fault.
func IsRetryable(err error) bool {
	var f *Fault
	if errors.As(err, &f) {
		return f.Retryable()
	}
	return false
}

// KindOf returns the fault kind carried by err, or "" when err is not a Fault.
func KindOf(err error) FaultKind {
	var f *Fault
	if errors.As(err, &f) {
		return f.Kind
	}
	return ""
}

func rejected(op string, err error) *Fault {
	return &Fault{Kind: KindRejected, Op: op, Err: err}
}

// classify maps a raw error from go-ethereum into a Fault. Faults pass through.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var f *Fault
	if errors.As(err, &f) {
		return err
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return &Fault{Kind: KindTimeout, Op: op, Err: err}
	case errors.Is(err, context.Canceled):
		return &Fault{Kind: KindCanceled, Op: op, Err: err}
	case errors.Is(err, bind.ErrNoCode), errors.Is(err, ErrReverted), errors.Is(err, ErrInvalidAddress),
		errors.Is(err, ErrEventNotFound), errors.Is(err, ErrUnknownElection):
		return rejected(op, err)
	}
	var dataErr interface{ ErrorData() interface{} }
	if errors.As(err, &dataErr) {
		return rejected(op, err)
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "execution reverted") ||
		strings.Contains(msg, "revert") ||
		(strings.Contains(msg, "method") && strings.Contains(msg, "not found")) ||
		strings.Contains(msg, "abi: ") {
		return rejected(op, err)
	}
	return &Fault{Kind: KindUnavailable, Op: op, Err: err}
}
