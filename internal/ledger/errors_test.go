package ledger

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/stretchr/testify/assert"
)

type revertError struct{ reason string }

func (e revertError) Error() string          { return "execution reverted: " + e.reason }
func (e revertError) ErrorData() interface{} { return "0x08c379a0" }

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		err  error
		kind FaultKind
	}{
		{"deadline", fmt.Errorf("wait: %w", context.DeadlineExceeded), KindTimeout},
		{"canceled", context.Canceled, KindCanceled},
		{"no code", bind.ErrNoCode, KindRejected},
		{"failed receipt", fmt.Errorf("%w: tx 0x1", ErrReverted), KindRejected},
		{"rpc revert data", revertError{reason: "nullifier used"}, KindRejected},
		{"revert message", errors.New("VM Exception while processing transaction: revert"), KindRejected},
		{"missing method", errors.New("method 'vote' not found"), KindRejected},
		{"abi mismatch", errors.New("abi: cannot marshal in to go type"), KindRejected},
		{"missing event", fmt.Errorf("%w: ElectionCreated", ErrEventNotFound), KindRejected},
		{"network", errors.New("dial tcp 127.0.0.1:8545: connect: connection refused"), KindUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := classify("op", tc.err)
			assert.Equal(t, tc.kind, KindOf(err))
			assert.ErrorIs(t, err, tc.err)
		})
	}

	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, classify("op", nil))
	})

	t.Run("faults pass through", func(t *testing.T) {
		f := &Fault{Kind: KindTimeout, Op: "inner", Err: errors.New("x")}
		assert.Same(t, f, classify("outer", f))
	})
}

func TestRetryable(t *testing.T) {
	assert.True(t, IsRetryable(&Fault{Kind: KindUnavailable}))
	assert.True(t, IsRetryable(fmt.Errorf("wrapped: %w", &Fault{Kind: KindTimeout})))
	assert.False(t, IsRetryable(&Fault{Kind: KindRejected}))
	assert.False(t, IsRetryable(&Fault{Kind: KindCanceled}))
	assert.False(t, IsRetryable(errors.New("plain")))
	assert.Equal(t, FaultKind(""), KindOf(errors.New("plain")))
}
