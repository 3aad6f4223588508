package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasCode(t *testing.T) {
	t.Run("matches outermost code", func(t *testing.T) {
		err := New(CodeInvalidOption, "option out of range")
		assert.True(t, HasCode(err, CodeInvalidOption))
		assert.False(t, HasCode(err, CodeNotFound))
	})

	t.Run("found through fmt wrapping", func(t *testing.T) {
		err := fmt.Errorf("submit: %w", New(CodeLedgerRejected, "reverted"))
		assert.True(t, Is(err, CodeLedgerRejected))
	})

	t.Run("plain errors carry no code", func(t *testing.T) {
		assert.False(t, HasCode(errors.New("boom"), CodeInternal))
		assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
	})
}

func TestWrap(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := Wrap(cause, CodeLedgerUnavailable, "ledger unreachable")

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "ledger unreachable: dial tcp: refused", err.Error())
	assert.Nil(t, Wrap(nil, CodeInternal, "ignored"))
}

func TestToHTTPStatus(t *testing.T) {
	cases := map[Code]int{
		CodeValidation:           http.StatusBadRequest,
		CodeInvalidOption:        http.StatusBadRequest,
		CodeNotFound:             http.StatusNotFound,
		CodeBadElectionState:     http.StatusConflict,
		CodeLedgerNotProvisioned: http.StatusConflict,
		CodeLedgerRejected:       http.StatusUnprocessableEntity,
		CodeLedgerUnavailable:    http.StatusServiceUnavailable,
		CodeLedgerTimeout:        http.StatusGatewayTimeout,
		CodeInternal:             http.StatusInternalServerError,
	}
	for code, status := range cases {
		assert.Equal(t, status, ToHTTPStatus(code), string(code))
	}
}
