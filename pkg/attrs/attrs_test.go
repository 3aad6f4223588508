package attrs

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestExtractString(t *testing.T) {
	cid := uuid.MustParse("6f1c2a34-1d2e-4c5b-8a9f-0123456789ab")
	kvs := []any{"condominium_id", cid, "reason", "ledger_unavailable", "attempts", 3, "reason", "retry"}

	assert.Equal(t, cid.String(), ExtractString(kvs, "condominium_id"))
	assert.Equal(t, "retry", ExtractString(kvs, "reason"))
	assert.Empty(t, ExtractString(kvs, "attempts"))
	assert.Empty(t, ExtractString(kvs, "missing"))
	assert.Empty(t, ExtractString([]any{"dangling"}, "dangling"))
}
