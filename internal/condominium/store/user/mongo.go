package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"condovote/internal/condominium/models"
	"condovote/internal/platform/mongodb"
	id "condovote/pkg/domain"
	"condovote/pkg/platform/sentinel"
)

// MongoStore keeps users keyed by tax code.
type MongoStore struct {
	coll *mongo.Collection
}

func NewMongo(db *mongo.Database) *MongoStore {
	return &MongoStore{coll: db.Collection(mongodb.CollectionUsers)}
}

type userDocument struct {
	TaxCode      string    `bson:"_id"`
	Name         string    `bson:"name"`
	Email        string    `bson:"email"`
	BirthDate    string    `bson:"birthDate,omitempty"`
	BirthPlace   string    `bson:"birthPlace,omitempty"`
	Condominiums []string  `bson:"condominiums"`
	Commitment   string    `bson:"commitment,omitempty"`
	CreatedAt    time.Time `bson:"createdAt"`
}

func (s *MongoStore) Create(ctx context.Context, u *models.User) error {
	doc := userDocument{
		TaxCode:      u.TaxCode.String(),
		Name:         u.Name,
		Email:        u.Email,
		BirthDate:    u.BirthDate,
		BirthPlace:   u.BirthPlace,
		Condominiums: make([]string, 0, len(u.Condominiums)),
		Commitment:   u.Commitment,
		CreatedAt:    u.CreatedAt,
	}
	for _, cid := range u.Condominiums {
		doc.Condominiums = append(doc.Condominiums, cid.String())
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("user %s: %w", u.TaxCode, sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *MongoStore) FindByTaxCode(ctx context.Context, taxCode id.TaxCode) (*models.User, error) {
	var doc userDocument
	if err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: taxCode.String()}}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("user %s: %w", taxCode, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	u := &models.User{
		TaxCode:      id.TaxCode(doc.TaxCode),
		Name:         doc.Name,
		Email:        doc.Email,
		BirthDate:    doc.BirthDate,
		BirthPlace:   doc.BirthPlace,
		Condominiums: make([]id.CondominiumID, 0, len(doc.Condominiums)),
		Commitment:   doc.Commitment,
		CreatedAt:    doc.CreatedAt,
	}
	for _, raw := range doc.Condominiums {
		cid, err := id.ParseCondominiumID(raw)
		if err != nil {
			return nil, fmt.Errorf("decode user %s condominium %q: %w", taxCode, raw, err)
		}
		u.Condominiums = append(u.Condominiums, cid)
	}
	return u, nil
}

func (s *MongoStore) FindCommitments(ctx context.Context, taxCodes []id.TaxCode) (map[id.TaxCode]string, error) {
	out := make(map[id.TaxCode]string, len(taxCodes))
	if len(taxCodes) == 0 {
		return out, nil
	}
	filter := bson.D{
		{Key: "_id", Value: bson.D{{Key: "$in", Value: id.TaxCodeStrings(taxCodes)}}},
		{Key: "commitment", Value: bson.D{{Key: "$exists", Value: true}, {Key: "$ne", Value: ""}}},
	}
	cursor, err := s.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find commitments: %w", err)
	}
	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode commitments: %w", err)
	}
	for _, d := range docs {
		out[id.TaxCode(d.TaxCode)] = d.Commitment
	}
	return out, nil
}

func (s *MongoStore) SetCommitment(ctx context.Context, taxCode id.TaxCode, commitment string) error {
	filter := bson.D{
		{Key: "_id", Value: taxCode.String()},
		{Key: "$or", Value: bson.A{
			bson.D{{Key: "commitment", Value: bson.D{{Key: "$exists", Value: false}}}},
			bson.D{{Key: "commitment", Value: ""}},
			bson.D{{Key: "commitment", Value: commitment}},
		}},
	}
	update := bson.D{{Key: "$set", Value: bson.D{{Key: "commitment", Value: commitment}}}}
	res, err := s.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("set commitment: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}
	return s.missingOr(ctx, taxCode, fmt.Errorf("user %s commitment: %w", taxCode, sentinel.ErrAlreadySet))
}

func (s *MongoStore) AddCondominium(ctx context.Context, taxCode id.TaxCode, cid id.CondominiumID) error {
	res, err := s.coll.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: taxCode.String()}},
		bson.D{{Key: "$addToSet", Value: bson.D{{Key: "condominiums", Value: cid.String()}}}},
	)
	if err != nil {
		return fmt.Errorf("add condominium to user: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("user %s: %w", taxCode, sentinel.ErrNotFound)
	}
	return nil
}

func (s *MongoStore) missingOr(ctx context.Context, taxCode id.TaxCode, otherwise error) error {
	n, err := s.coll.CountDocuments(ctx, bson.D{{Key: "_id", Value: taxCode.String()}})
	if err != nil {
		return fmt.Errorf("check user: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("user %s: %w", taxCode, sentinel.ErrNotFound)
	}
	return otherwise
}
