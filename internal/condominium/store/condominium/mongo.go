package condominium

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"condovote/internal/condominium/models"
	"condovote/internal/platform/mongodb"
	id "condovote/pkg/domain"
	"condovote/pkg/platform/sentinel"
)

// MongoStore keeps condominiums in one collection, one document each.
type MongoStore struct {
	coll *mongo.Collection
}

func NewMongo(db *mongo.Database) *MongoStore {
	return &MongoStore{coll: db.Collection(mongodb.CollectionCondominiums)}
}

type condominiumDocument struct {
	ID              string             `bson:"_id"`
	Name            string             `bson:"name"`
	Address         string             `bson:"address"`
	City            string             `bson:"city"`
	PostalCode      string             `bson:"postalCode"`
	Province        string             `bson:"province"`
	TaxCode         string             `bson:"taxCode"`
	TotalUnits      int                `bson:"totalUnits"`
	Description     string             `bson:"description,omitempty"`
	Admin           adminDocument      `bson:"admin"`
	Residents       []residentDocument `bson:"residents"`
	Elections       []electionDocument `bson:"elections"`
	ContractAddress string             `bson:"contractAddress,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt"`
}

type adminDocument struct {
	Name    string `bson:"name"`
	Email   string `bson:"email"`
	TaxCode string `bson:"taxCode"`
}

type residentDocument struct {
	Name     string    `bson:"name"`
	Email    string    `bson:"email"`
	TaxCode  string    `bson:"taxCode"`
	Unit     string    `bson:"unit"`
	Role     string    `bson:"role"`
	JoinDate time.Time `bson:"joinDate"`
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

func (s *MongoStore) Create(ctx context.Context, c *models.Condominium) error {
	if _, err := s.coll.InsertOne(ctx, toDocument(c)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("condominium tax code %s: %w", c.TaxCode, sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("insert condominium: %w", err)
	}
	return nil
}

func (s *MongoStore) FindByID(ctx context.Context, cid id.CondominiumID) (*models.Condominium, error) {
	return s.findOne(ctx, bson.D{{Key: "_id", Value: cid.String()}}, "condominium "+cid.String())
}

func (s *MongoStore) FindByTaxCode(ctx context.Context, taxCode id.TaxCode) (*models.Condominium, error) {
	return s.findOne(ctx, bson.D{{Key: "taxCode", Value: taxCode.String()}}, "condominium tax code "+taxCode.String())
}

func (s *MongoStore) AssignContract(ctx context.Context, cid id.CondominiumID, address string) error {
	filter := bson.D{
		{Key: "_id", Value: cid.String()},
		{Key: "$or", Value: bson.A{
			bson.D{{Key: "contractAddress", Value: bson.D{{Key: "$exists", Value: false}}}},
			bson.D{{Key: "contractAddress", Value: ""}},
		}},
	}
	update := bson.D{{Key: "$set", Value: bson.D{{Key: "contractAddress", Value: address}}}}
	res, err := s.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("assign contract: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}
	current, err := s.FindByID(ctx, cid)
	if err != nil {
		return err
	}
	if strings.EqualFold(current.ContractAddress, address) {
		return nil
	}
	return fmt.Errorf("condominium %s contract: %w", cid, sentinel.ErrAlreadySet)
}

func (s *MongoStore) AppendElection(ctx context.Context, cid id.CondominiumID, e models.Election) error {
	if e.OnChainID == nil {
		return fmt.Errorf("election %q has no on-chain id: %w", e.Name, sentinel.ErrInvalidState)
	}
	filter := bson.D{
		{Key: "_id", Value: cid.String()},
		{Key: "elections.onChainId", Value: bson.D{{Key: "$ne", Value: int64(*e.OnChainID)}}},
	}
	update := bson.D{{Key: "$push", Value: bson.D{{Key: "elections", Value: toElectionDocument(e)}}}}
	return s.guardedUpdate(ctx, cid, filter, update, "election")
}

func (s *MongoStore) AddResident(ctx context.Context, cid id.CondominiumID, r models.Resident) error {
	filter := bson.D{
		{Key: "_id", Value: cid.String()},
		{Key: "residents.taxCode", Value: bson.D{{Key: "$ne", Value: r.TaxCode.String()}}},
	}
	update := bson.D{{Key: "$push", Value: bson.D{{Key: "residents", Value: toResidentDocument(r)}}}}
	return s.guardedUpdate(ctx, cid, filter, update, "resident")
}

func (s *MongoStore) ListForResident(ctx context.Context, taxCode id.TaxCode) ([]*models.Condominium, error) {
	filter := bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: "admin.taxCode", Value: taxCode.String()}},
		bson.D{{Key: "residents.taxCode", Value: taxCode.String()}},
	}}}
	cursor, err := s.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list condominiums for resident: %w", err)
	}
	var docs []condominiumDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode condominiums: %w", err)
	}
	out := make([]*models.Condominium, 0, len(docs))
	for _, d := range docs {
		c, err := fromDocument(d)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *MongoStore) ResidentsOf(ctx context.Context, cid id.CondominiumID) ([]models.Resident, error) {
	c, err := s.FindByID(ctx, cid)
	if err != nil {
		return nil, err
	}
	return c.Residents, nil
}

func (s *MongoStore) findOne(ctx context.Context, filter bson.D, label string) (*models.Condominium, error) {
	var doc condominiumDocument
	if err := s.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", label, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find %s: %w", label, err)
	}
	return fromDocument(doc)
}

func (s *MongoStore) guardedUpdate(ctx context.Context, cid id.CondominiumID, filter, update bson.D, what string) error {
	res, err := s.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("update condominium %s: %w", what, err)
	}
	if res.MatchedCount > 0 {
		return nil
	}
	n, err := s.coll.CountDocuments(ctx, bson.D{{Key: "_id", Value: cid.String()}})
	if err != nil {
		return fmt.Errorf("check condominium: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("condominium %s: %w", cid, sentinel.ErrNotFound)
	}
	return fmt.Errorf("condominium %s %s: %w", cid, what, sentinel.ErrAlreadyUsed)
}

func toDocument(c *models.Condominium) condominiumDocument {
	d := condominiumDocument{
		ID:          c.ID.String(),
		Name:        c.Name,
		Address:     c.Address,
		City:        c.City,
		PostalCode:  c.PostalCode,
		Province:    c.Province,
		TaxCode:     c.TaxCode.String(),
		TotalUnits:  c.TotalUnits,
		Description: c.Description,
		Admin: adminDocument{
			Name:    c.Admin.Name,
			Email:   c.Admin.Email,
			TaxCode: c.Admin.TaxCode.String(),
		},
		Residents:       make([]residentDocument, 0, len(c.Residents)),
		Elections:       make([]electionDocument, 0, len(c.Elections)),
		ContractAddress: c.ContractAddress,
		CreatedAt:       c.CreatedAt,
	}
	for _, r := range c.Residents {
		d.Residents = append(d.Residents, toResidentDocument(r))
	}
	for _, e := range c.Elections {
		d.Elections = append(d.Elections, toElectionDocument(e))
	}
	return d
}

func toResidentDocument(r models.Resident) residentDocument {
	return residentDocument{
		Name:     r.Name,
		Email:    r.Email,
		TaxCode:  r.TaxCode.String(),
		Unit:     r.Unit,
		Role:     r.Role,
		JoinDate: r.JoinDate,
	}
}

// BSON has no unsigned integers; ids and durations are stored as int64.
func toElectionDocument(e models.Election) electionDocument {
	d := electionDocument{
		Name:            e.Name,
		Description:     e.Description,
		CreatedAt:       e.CreatedAt,
		DurationSeconds: int64(e.DurationSeconds),
		Options:         make([]optionDocument, len(e.Options)),
	}
	for i, o := range e.Options {
		d.Options[i] = optionDocument{ID: int64(o.ID), Name: o.Name}
	}
	if e.OnChainID != nil {
		v := int64(*e.OnChainID)
		d.OnChainID = &v
	}
	return d
}

func fromDocument(d condominiumDocument) (*models.Condominium, error) {
	cid, err := id.ParseCondominiumID(d.ID)
	if err != nil {
		return nil, fmt.Errorf("decode condominium id %q: %w", d.ID, err)
	}
	c := &models.Condominium{
		ID:          cid,
		Name:        d.Name,
		Address:     d.Address,
		City:        d.City,
		PostalCode:  d.PostalCode,
		Province:    d.Province,
		TaxCode:     id.TaxCode(d.TaxCode),
		TotalUnits:  d.TotalUnits,
		Description: d.Description,
		Admin: models.Admin{
			Name:    d.Admin.Name,
			Email:   d.Admin.Email,
			TaxCode: id.TaxCode(d.Admin.TaxCode),
		},
		Residents:       make([]models.Resident, 0, len(d.Residents)),
		Elections:       make([]models.Election, 0, len(d.Elections)),
		ContractAddress: d.ContractAddress,
		CreatedAt:       d.CreatedAt,
	}
	for _, r := range d.Residents {
		c.Residents = append(c.Residents, models.Resident{
			Name:     r.Name,
			Email:    r.Email,
			TaxCode:  id.TaxCode(r.TaxCode),
			Unit:     r.Unit,
			Role:     r.Role,
			JoinDate: r.JoinDate,
		})
	}
	for _, e := range d.Elections {
		c.Elections = append(c.Elections, fromElectionDocument(e))
	}
	return c, nil
}

func fromElectionDocument(d electionDocument) models.Election {
	e := models.Election{
		Name:            d.Name,
		Description:     d.Description,
		CreatedAt:       d.CreatedAt,
		DurationSeconds: uint64(d.DurationSeconds),
		Options:         make([]models.Option, len(d.Options)),
	}
	for i, o := range d.Options {
		e.Options[i] = models.Option{ID: uint64(o.ID), Name: o.Name}
	}
	if d.OnChainID != nil {
		v := uint64(*d.OnChainID)
		e.OnChainID = &v
	}
	return e
}
