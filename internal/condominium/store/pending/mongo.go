package pending

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"condovote/internal/condominium/models"
	"condovote/internal/platform/mongodb"
	id "condovote/pkg/domain"
	"condovote/pkg/platform/sentinel"
)

type MongoStore struct {
	coll *mongo.Collection
}

func NewMongo(db *mongo.Database) *MongoStore {
	return &MongoStore{coll: db.Collection(mongodb.CollectionPendingActions)}
}

type actionDocument struct {
	ID            string            `bson:"_id"`
	Key           string            `bson:"key"`
	Kind          string            `bson:"kind"`
	CondominiumID string            `bson:"condominiumId"`
	ElectionID    *int64            `bson:"electionId,omitempty"`
	Election      *electionDocument `bson:"election,omitempty"`
	Status        string            `bson:"status"`
	Attempts      int               `bson:"attempts"`
	LastError     string            `bson:"lastError"`
	NextAttemptAt time.Time         `bson:"nextAttemptAt"`
	CreatedAt     time.Time         `bson:"createdAt"`
	UpdatedAt     time.Time         `bson:"updatedAt"`
}

type electionDocument struct {
	Name            string           `bson:"name"`
	Description     string           `bson:"description,omitempty"`
	CreatedAt       time.Time        `bson:"createdAt"`
	DurationSeconds int64            `bson:"duration"`
	Options         []optionDocument `bson:"options"`
	OnChainID       *int64           `bson:"onChainId,omitempty"`
}

type optionDocument struct {
	ID   int64  `bson:"id"`
	Name string `bson:"name"`
}

// Enqueue upserts on the open key. The insert-only fields go through
// $setOnInsert so an existing open action is returned untouched.
func (s *MongoStore) Enqueue(ctx context.Context, a *models.PendingAction) (*models.PendingAction, error) {
	doc := toDocument(a)
	filter := bson.D{
		{Key: "key", Value: doc.Key},
		{Key: "status", Value: string(models.ActionOpen)},
	}
	onInsert := bson.D{
		{Key: "_id", Value: doc.ID},
		{Key: "kind", Value: doc.Kind},
		{Key: "condominiumId", Value: doc.CondominiumID},
		{Key: "attempts", Value: doc.Attempts},
		{Key: "lastError", Value: doc.LastError},
		{Key: "nextAttemptAt", Value: doc.NextAttemptAt},
		{Key: "createdAt", Value: doc.CreatedAt},
		{Key: "updatedAt", Value: doc.UpdatedAt},
	}
	if doc.ElectionID != nil {
		onInsert = append(onInsert, bson.E{Key: "electionId", Value: *doc.ElectionID})
	}
	if doc.Election != nil {
		onInsert = append(onInsert, bson.E{Key: "election", Value: doc.Election})
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var stored actionDocument
	err := s.coll.FindOneAndUpdate(ctx, filter, bson.D{{Key: "$setOnInsert", Value: onInsert}}, opts).Decode(&stored)
	if mongo.IsDuplicateKeyError(err) {
		// A concurrent enqueue inserted the same key first.
		err = s.coll.FindOne(ctx, filter).Decode(&stored)
	}
	if err != nil {
		return nil, fmt.Errorf("enqueue pending action %s: %w", doc.Key, err)
	}
	return fromDocument(stored)
}

func (s *MongoStore) ListDue(ctx context.Context, now time.Time, limit int) ([]*models.PendingAction, error) {
	filter := bson.D{
		{Key: "status", Value: string(models.ActionOpen)},
		{Key: "nextAttemptAt", Value: bson.D{{Key: "$lte", Value: now}}},
	}
	opts := options.Find().SetSort(bson.D{{Key: "nextAttemptAt", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return s.find(ctx, filter, opts)
}

func (s *MongoStore) ListOpen(ctx context.Context) ([]*models.PendingAction, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	return s.find(ctx, bson.D{{Key: "status", Value: string(models.ActionOpen)}}, opts)
}

func (s *MongoStore) MarkDone(ctx context.Context, aid id.ActionID, now time.Time) error {
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "status", Value: string(models.ActionDone)},
		{Key: "updatedAt", Value: now},
	}}}
	return s.updateOpen(ctx, aid, update)
}

func (s *MongoStore) MarkFailed(ctx context.Context, aid id.ActionID, reason string, nextAttempt, now time.Time) error {
	update := bson.D{
		{Key: "$inc", Value: bson.D{{Key: "attempts", Value: 1}}},
		{Key: "$set", Value: bson.D{
			{Key: "lastError", Value: reason},
			{Key: "nextAttemptAt", Value: nextAttempt},
			{Key: "updatedAt", Value: now},
		}},
	}
	return s.updateOpen(ctx, aid, update)
}

func (s *MongoStore) updateOpen(ctx context.Context, aid id.ActionID, update bson.D) error {
	filter := bson.D{
		{Key: "_id", Value: aid.String()},
		{Key: "status", Value: string(models.ActionOpen)},
	}
	res, err := s.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("update pending action: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("pending action %s: %w", aid, sentinel.ErrNotFound)
	}
	return nil
}

func (s *MongoStore) find(ctx context.Context, filter bson.D, opts *options.FindOptions) ([]*models.PendingAction, error) {
	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list pending actions: %w", err)
	}
	var docs []actionDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode pending actions: %w", err)
	}
	out := make([]*models.PendingAction, 0, len(docs))
	for _, d := range docs {
		a, err := fromDocument(d)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func toDocument(a *models.PendingAction) actionDocument {
	d := actionDocument{
		ID:            a.ID.String(),
		Key:           a.Key(),
		Kind:          string(a.Kind),
		CondominiumID: a.CondominiumID.String(),
		Status:        string(models.ActionOpen),
		Attempts:      a.Attempts,
		LastError:     a.LastError,
		NextAttemptAt: a.NextAttemptAt,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
	if a.ElectionID != nil {
		v := int64(*a.ElectionID)
		d.ElectionID = &v
	}
	if a.Election != nil {
		e := &electionDocument{
			Name:            a.Election.Name,
			Description:     a.Election.Description,
			CreatedAt:       a.Election.CreatedAt,
			DurationSeconds: int64(a.Election.DurationSeconds),
			Options:         make([]optionDocument, len(a.Election.Options)),
		}
		for i, o := range a.Election.Options {
			e.Options[i] = optionDocument{ID: int64(o.ID), Name: o.Name}
		}
		if a.Election.OnChainID != nil {
			v := int64(*a.Election.OnChainID)
			e.OnChainID = &v
		}
		d.Election = e
	}
	return d
}

func fromDocument(d actionDocument) (*models.PendingAction, error) {
	aid, err := id.ParseActionID(d.ID)
	if err != nil {
		return nil, fmt.Errorf("decode pending action id %q: %w", d.ID, err)
	}
	cid, err := id.ParseCondominiumID(d.CondominiumID)
	if err != nil {
		return nil, fmt.Errorf("decode pending action condominium %q: %w", d.CondominiumID, err)
	}
	a := &models.PendingAction{
		ID:            aid,
		Kind:          models.ActionKind(d.Kind),
		CondominiumID: cid,
		Status:        models.ActionStatus(d.Status),
		Attempts:      d.Attempts,
		LastError:     d.LastError,
		NextAttemptAt: d.NextAttemptAt,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
	if d.ElectionID != nil {
		v := uint64(*d.ElectionID)
		a.ElectionID = &v
	}
	if d.Election != nil {
		e := models.Election{
			Name:            d.Election.Name,
			Description:     d.Election.Description,
			CreatedAt:       d.Election.CreatedAt,
			DurationSeconds: uint64(d.Election.DurationSeconds),
			Options:         make([]models.Option, len(d.Election.Options)),
		}
		for i, o := range d.Election.Options {
			e.Options[i] = models.Option{ID: uint64(o.ID), Name: o.Name}
		}
		if d.Election.OnChainID != nil {
			v := uint64(*d.Election.OnChainID)
			e.OnChainID = &v
		}
		a.Election = &e
	}
	return a, nil
}

