package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"condovote/internal/condominium/models"
	"condovote/pkg/platform/sentinel"
)

func TestInMemoryLedger(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	options := []models.Option{{ID: 0, Name: "Yes"}, {ID: 1, Name: "No"}}

	setup := func(t *testing.T) (*InMemory, string, uint64) {
		t.Helper()
		l := NewInMemory(WithMemoryClock(clock))
		addr, err := l.DeployCondominiumContract(ctx, "ADM01")
		require.NoError(t, err)
		id, err := l.CreateElection(ctx, addr, "Budget 2025", options, 3600)
		require.NoError(t, err)
		require.NoError(t, l.AddMembers(ctx, addr, id, []string{"11", "22"}))
		return l, addr, id
	}

	t.Run("deploy is idempotent per condominium", func(t *testing.T) {
		l := NewInMemory()
		a1, err := l.DeployCondominiumContract(ctx, "ADM01")
		require.NoError(t, err)
		a2, err := l.DeployCondominiumContract(ctx, "ADM01")
		require.NoError(t, err)
		assert.Equal(t, a1, a2)
		assert.Equal(t, 1, l.Deployments())

		found, err := l.LookupCondominiumContract(ctx, "ADM01")
		require.NoError(t, err)
		assert.Equal(t, a1, found)

		_, err = l.LookupCondominiumContract(ctx, "ADM02")
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("election ids start at one", func(t *testing.T) {
		_, _, id := setup(t)
		assert.Equal(t, uint64(1), id)
	})

	t.Run("votes are tallied and nullifiers used once", func(t *testing.T) {
		l, addr, id := setup(t)
		_, err := l.SubmitVote(ctx, addr, id, 1, sampleProof("0x1"))
		require.NoError(t, err)

		_, err = l.SubmitVote(ctx, addr, id, 0, sampleProof("0x1"))
		assert.Equal(t, KindRejected, KindOf(err))

		n, err := l.GetVoteCount(ctx, addr, id, 1)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), n)

		status, err := l.GetElectionStatus(ctx, addr, id)
		require.NoError(t, err)
		assert.Equal(t, []uint64{0, 1}, status.VoteCounts)
		assert.Equal(t, []string{"Yes", "No"}, status.Options)
		assert.False(t, status.HasExpired)
	})

	t.Run("a nullifier re-encoded in hex is still spent", func(t *testing.T) {
		l, addr, id := setup(t)
		_, err := l.SubmitVote(ctx, addr, id, 0, sampleProof("255"))
		require.NoError(t, err)

		_, err = l.SubmitVote(ctx, addr, id, 0, sampleProof("0xff"))
		assert.Equal(t, KindRejected, KindOf(err))
		_, err = l.SubmitVote(ctx, addr, id, 1, sampleProof("0XFF"))
		assert.Equal(t, KindRejected, KindOf(err))

		n, err := l.GetVoteCount(ctx, addr, id, 0)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), n)
	})

	t.Run("close requires expiry", func(t *testing.T) {
		l, addr, id := setup(t)
		_, err := l.CloseElection(ctx, addr, id)
		assert.Equal(t, KindRejected, KindOf(err))

		now = now.Add(2 * time.Hour)
		defer func() { now = now.Add(-2 * time.Hour) }()

		_, err = l.SubmitVote(ctx, addr, id, 0, sampleProof("0x2"))
		assert.Equal(t, KindRejected, KindOf(err), "expired elections take no votes")

		_, err = l.CloseElection(ctx, addr, id)
		require.NoError(t, err)
		status, err := l.GetElectionStatus(ctx, addr, id)
		require.NoError(t, err)
		assert.False(t, status.Active)
		assert.True(t, status.HasExpired)
	})

	t.Run("unknown contract and election are rejected", func(t *testing.T) {
		l, addr, _ := setup(t)
		_, err := l.GetElectionStatus(ctx, "0xdead", 1)
		assert.ErrorIs(t, err, ErrInvalidAddress)
		_, err = l.GetElectionStatus(ctx, addr, 99)
		assert.ErrorIs(t, err, ErrUnknownElection)
	})

	t.Run("injected failures fire once", func(t *testing.T) {
		l, addr, id := setup(t)
		l.FailNext("add_members", errors.New("connection reset"))

		err := l.AddMembers(ctx, addr, id, []string{"33"})
		assert.Equal(t, KindUnavailable, KindOf(err))
		require.NoError(t, l.AddMembers(ctx, addr, id, []string{"33"}))
		assert.ElementsMatch(t, []string{"11", "22", "33"}, l.Members(addr, id))
	})
}
