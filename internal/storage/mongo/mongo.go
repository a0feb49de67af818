package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fraddriso20022/internal/address"
	"fraddriso20022/internal/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const connectTimeout = 10 * time.Second

// document is the stored shape of an address. Kind is kept as its name so
// the collection stays readable from the shell.
type document struct {
	ID                 string  `bson:"id"`
	Kind               string  `bson:"kind"`
	RecipientName      *string `bson:"recipient_name,omitempty"`
	Department         *string `bson:"department,omitempty"`
	SubDepartment      *string `bson:"sub_department,omitempty"`
	BuildingName       *string `bson:"building_name,omitempty"`
	Floor              *string `bson:"floor,omitempty"`
	Room               *string `bson:"room,omitempty"`
	StreetName         *string `bson:"street_name,omitempty"`
	BuildingNumber     *string `bson:"building_number,omitempty"`
	PostBox            *string `bson:"post_box,omitempty"`
	TownLocationName   *string `bson:"town_location_name,omitempty"`
	PostCode           *string `bson:"post_code,omitempty"`
	TownName           *string `bson:"town_name,omitempty"`
	Country            *string `bson:"country,omitempty"`
	DistrictName       *string `bson:"district_name,omitempty"`
	CountrySubDivision *string `bson:"country_sub_division,omitempty"`
}

func toDocument(a *address.ISOAddress) document {
	return document{
		ID:                 a.ID,
		Kind:               a.Kind.String(),
		RecipientName:      a.RecipientName,
		Department:         a.Department,
		SubDepartment:      a.SubDepartment,
		BuildingName:       a.BuildingName,
		Floor:              a.Floor,
		Room:               a.Room,
		StreetName:         a.StreetName,
		BuildingNumber:     a.BuildingNumber,
		PostBox:            a.PostBox,
		TownLocationName:   a.TownLocationName,
		PostCode:           a.PostCode,
		TownName:           a.TownName,
		Country:            a.Country,
		DistrictName:       a.DistrictName,
		CountrySubDivision: a.CountrySubDivision,
	}
}

func (d document) toAddress() (*address.ISOAddress, error) {
	kind, err := address.ParseKind(d.Kind)
	if err != nil {
		return nil, err
	}
	return &address.ISOAddress{
		ID:                 d.ID,
		Kind:               kind,
		RecipientName:      d.RecipientName,
		Department:         d.Department,
		SubDepartment:      d.SubDepartment,
		BuildingName:       d.BuildingName,
		Floor:              d.Floor,
		Room:               d.Room,
		StreetName:         d.StreetName,
		BuildingNumber:     d.BuildingNumber,
		PostBox:            d.PostBox,
		TownLocationName:   d.TownLocationName,
		PostCode:           d.PostCode,
		TownName:           d.TownName,
		Country:            d.Country,
		DistrictName:       d.DistrictName,
		CountrySubDivision: d.CountrySubDivision,
	}, nil
}

// Connect dials uri and pings the primary.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

type Repository struct {
	coll *mongo.Collection
}

func NewRepository(coll *mongo.Collection) *Repository {
	return &Repository{coll: coll}
}

// EnsureIndexes creates the unique index on the address id.
func (r *Repository) EnsureIndexes(ctx context.Context) error {
	idIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetName("id_unique").SetUnique(true),
	}

	if _, err := r.coll.Indexes().CreateOne(ctx, idIndex); err != nil {
		logger.FromCtx(ctx).Error("failed to create id_unique index", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) Save(ctx context.Context, addr *address.ISOAddress) error {
	_, err := r.coll.InsertOne(ctx, toDocument(addr))
	if mongo.IsDuplicateKeyError(err) {
		return address.ErrAddressExists
	}
	if err != nil {
		return fmt.Errorf("mongo insert: %w", err)
	}
	return nil
}

func (r *Repository) Update(ctx context.Context, addr *address.ISOAddress) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"id": addr.ID}, toDocument(addr))
	if err != nil {
		return fmt.Errorf("mongo replace: %w", err)
	}
	if res.MatchedCount == 0 {
		return address.ErrAddressNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("mongo delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return address.ErrAddressNotFound
	}
	return nil
}

func (r *Repository) FindByID(ctx context.Context, id string) (*address.ISOAddress, error) {
	var doc document
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, address.ErrAddressNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mongo find: %w", err)
	}
	return doc.toAddress()
}

func (r *Repository) FindAll(ctx context.Context) ([]*address.ISOAddress, error) {
	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("mongo find: %w", err)
	}

	var docs []document
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo decode: %w", err)
	}

	res := make([]*address.ISOAddress, 0, len(docs))
	for _, d := range docs {
		a, err := d.toAddress()
		if err != nil {
			return nil, err
		}
		res = append(res, a)
	}
	return res, nil
}
