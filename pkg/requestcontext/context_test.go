package requestcontext

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAccessors(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, Resident(ctx))
	assert.Empty(t, RequestID(ctx))

	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	ctx = WithResident(ctx, "ADM01")
	ctx = WithRequestID(ctx, "req-1")
	ctx = WithTime(ctx, fixed)

	assert.Equal(t, "ADM01", Resident(ctx).String())
	assert.Equal(t, "req-1", RequestID(ctx))
	assert.Equal(t, fixed, Now(ctx))
}
