package pending

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"condovote/internal/condominium/models"
	id "condovote/pkg/domain"
	"condovote/pkg/platform/sentinel"
)

const testNS = "condovote.pending_actions"

func asBSON(t *testing.T, d actionDocument) bson.D {
	t.Helper()
	raw, err := bson.Marshal(d)
	require.NoError(t, err)
	var out bson.D
	require.NoError(t, bson.Unmarshal(raw, &out))
	return out
}

func TestMongoStore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	mt.Run("enqueue returns the stored action", func(mt *mtest.T) {
		store := NewMongo(mt.DB)
		cid := id.NewCondominiumID()
		existing := models.NewPendingAction(models.ActionPopulateMembers, cid, electionID(4), now.Add(-time.Hour))
		existing.Attempts = 2
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: asBSON(t, toDocument(existing))}))

		got, err := store.Enqueue(ctx, models.NewPendingAction(models.ActionPopulateMembers, cid, electionID(4), now))
		require.NoError(t, err)
		assert.Equal(t, existing.ID, got.ID)
		assert.Equal(t, 2, got.Attempts)
		assert.Equal(t, uint64(4), *got.ElectionID)
	})

	mt.Run("list due keeps the election payload", func(mt *mtest.T) {
		store := NewMongo(mt.DB)
		a := models.NewPendingAction(models.ActionPersistElection, id.NewCondominiumID(), electionID(9), now)
		a.Election = &models.Election{
			Name:            "Budget",
			DurationSeconds: 3600,
			Options:         []models.Option{{ID: 0, Name: "Yes"}, {ID: 1, Name: "No"}},
			OnChainID:       electionID(9),
		}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, testNS, mtest.FirstBatch, asBSON(t, toDocument(a))))

		due, err := store.ListDue(ctx, now, 10)
		require.NoError(t, err)
		require.Len(t, due, 1)
		require.NotNil(t, due[0].Election)
		assert.Equal(t, uint64(3600), due[0].Election.DurationSeconds)
		assert.Equal(t, uint64(9), *due[0].Election.OnChainID)
	})

	mt.Run("mark failed on a closed action", func(mt *mtest.T) {
		store := NewMongo(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: int32(0)}, bson.E{Key: "nModified", Value: int32(0)}))
		err := store.MarkFailed(ctx, id.NewActionID(), "boom", now, now)
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	mt.Run("mark done", func(mt *mtest.T) {
		store := NewMongo(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: int32(1)}, bson.E{Key: "nModified", Value: int32(1)}))
		assert.NoError(t, store.MarkDone(ctx, id.NewActionID(), now))
	})
}
