package mongo

import (
	"context"
	"testing"

	"fraddriso20022/internal/address"
	"fraddriso20022/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func sample(id string) *address.ISOAddress {
	return &address.ISOAddress{
		ID:            id,
		Kind:          address.KindIndividual,
		RecipientName: utils.StrPtr("Mr Jean DELHOURME"),
		Room:          utils.StrPtr("Apt 12"),
		StreetName:    utils.StrPtr("rue de la Liberté"),
		PostCode:      utils.StrPtr("75001"),
		TownName:      utils.StrPtr("PARIS"),
		Country:       utils.StrPtr("FR"),
	}
}

func sampleDoc(id string) bson.D {
	return bson.D{
		{Key: "id", Value: id},
		{Key: "kind", Value: "individual"},
		{Key: "recipient_name", Value: "Mr Jean DELHOURME"},
		{Key: "room", Value: "Apt 12"},
		{Key: "street_name", Value: "rue de la Liberté"},
		{Key: "post_code", Value: "75001"},
		{Key: "town_name", Value: "PARIS"},
		{Key: "country", Value: "FR"},
	}
}

func TestDocumentMapping(t *testing.T) {
	a := sample("addr-1")
	a.Kind = address.KindOrganization

	doc := toDocument(a)
	assert.Equal(t, "organization", doc.Kind)

	back, err := doc.toAddress()
	require.NoError(t, err)
	assert.Equal(t, a, back)

	doc.Kind = "robot"
	_, err = doc.toAddress()
	assert.ErrorIs(t, err, address.ErrInvalidKind)
}

func TestConnect_InvalidURI(t *testing.T) {
	client, err := Connect(context.Background(), "not-a-mongo-uri")

	assert.Error(t, err)
	assert.Nil(t, client)
}

func TestRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ns := "addresses_db.addresses"

	mt.Run("EnsureIndexes", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		assert.NoError(mt, NewRepository(mt.Coll).EnsureIndexes(context.Background()))
	})

	mt.Run("Save", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		assert.NoError(mt, NewRepository(mt.Coll).Save(context.Background(), sample("a")))
	})

	mt.Run("SaveDuplicate", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))
		err := NewRepository(mt.Coll).Save(context.Background(), sample("a"))
		assert.ErrorIs(mt, err, address.ErrAddressExists)
	})

	mt.Run("Update", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))
		assert.NoError(mt, NewRepository(mt.Coll).Update(context.Background(), sample("a")))
	})

	mt.Run("UpdateNotFound", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))
		err := NewRepository(mt.Coll).Update(context.Background(), sample("a"))
		assert.ErrorIs(mt, err, address.ErrAddressNotFound)
	})

	mt.Run("Delete", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))
		assert.NoError(mt, NewRepository(mt.Coll).Delete(context.Background(), "a"))
	})

	mt.Run("DeleteNotFound", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))
		err := NewRepository(mt.Coll).Delete(context.Background(), "a")
		assert.ErrorIs(mt, err, address.ErrAddressNotFound)
	})

	mt.Run("FindByID", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, sampleDoc("a")))

		got, err := NewRepository(mt.Coll).FindByID(context.Background(), "a")

		require.NoError(mt, err)
		assert.Equal(mt, sample("a"), got)
	})

	mt.Run("FindByIDNotFound", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := NewRepository(mt.Coll).FindByID(context.Background(), "missing")

		assert.ErrorIs(mt, err, address.ErrAddressNotFound)
	})

	mt.Run("FindAll", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, sampleDoc("a"), sampleDoc("b")))

		all, err := NewRepository(mt.Coll).FindAll(context.Background())

		require.NoError(mt, err)
		require.Len(mt, all, 2)
		assert.Equal(mt, "a", all[0].ID)
		assert.Equal(mt, "b", all[1].ID)
	})
}
