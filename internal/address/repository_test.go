package address

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"

	"fraddriso20022/internal/utils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var addressColumnNames = []string{
	"id", "kind",
	"recipient_name", "department", "sub_department",
	"building_name", "floor", "room",
	"street_name", "building_number", "post_box",
	"town_location_name", "post_code", "town_name",
	"country", "district_name", "country_sub_division",
}

func sampleISO(id string) *ISOAddress {
	return &ISOAddress{
		ID:             id,
		Kind:           KindOrganization,
		RecipientName:  utils.StrPtr("DURAND SA"),
		Department:     utils.StrPtr("Purchasing Department"),
		StreetName:     utils.StrPtr("Rue des Fleurs"),
		BuildingNumber: utils.StrPtr("22BIS"),
		PostCode:       utils.StrPtr("33506"),
		TownName:       utils.StrPtr("LIBOURNE CEDEX"),
		Country:        utils.StrPtr("FR"),
	}
}

func anyArgs(n int) []sqlmock.Argument {
	out := make([]sqlmock.Argument, n)
	for i := range out {
		out[i] = sqlmock.AnyArg()
	}
	return out
}

func saveArgs(id string) []driver.Value {
	args := []driver.Value{id, "organization"}
	for _, a := range anyArgs(15) {
		args = append(args, a)
	}
	return args
}

func TestRepository_Save(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	addr := sampleISO("addr-1")

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO addresses").
			WithArgs(saveArgs("addr-1")...).
			WillReturnResult(sqlmock.NewResult(1, 1))

		assert.NoError(t, repo.Save(context.Background(), addr))
	})

	t.Run("Duplicate", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO addresses").
			WillReturnError(&pq.Error{Code: "23505"})

		err := repo.Save(context.Background(), addr)
		assert.ErrorIs(t, err, ErrAddressExists)
	})

	t.Run("DBError", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO addresses").
			WillReturnError(errors.New("db error"))

		err := repo.Save(context.Background(), addr)
		assert.EqualError(t, err, "db error")
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	addr := sampleISO("addr-1")

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("UPDATE addresses SET").
			WithArgs(saveArgs("addr-1")...).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Update(context.Background(), addr))
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectExec("UPDATE addresses SET").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Update(context.Background(), addr), ErrAddressNotFound)
	})

	t.Run("RowsAffectedError", func(t *testing.T) {
		mock.ExpectExec("UPDATE addresses SET").
			WillReturnResult(sqlmock.NewErrorResult(errors.New("no count")))

		assert.EqualError(t, repo.Update(context.Background(), addr), "no count")
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM addresses WHERE id = \\$1").
			WithArgs("addr-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(context.Background(), "addr-1"))
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM addresses WHERE id = \\$1").
			WithArgs("missing").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Delete(context.Background(), "missing"), ErrAddressNotFound)
	})

	t.Run("DBError", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM addresses").
			WillReturnError(errors.New("db error"))

		assert.Error(t, repo.Delete(context.Background(), "addr-1"))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows(addressColumnNames).AddRow(
			"addr-1", "organization",
			"DURAND SA", "Purchasing Department", nil,
			nil, nil, nil,
			"Rue des Fleurs", "22BIS", nil,
			nil, "33506", "LIBOURNE CEDEX",
			"FR", nil, nil,
		)

		mock.ExpectQuery("SELECT .* FROM addresses WHERE id = \\$1").
			WithArgs("addr-1").
			WillReturnRows(rows)

		res, err := repo.FindByID(context.Background(), "addr-1")
		require.NoError(t, err)
		assert.Equal(t, sampleISO("addr-1"), res)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery("SELECT .* FROM addresses WHERE id = \\$1").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		res, err := repo.FindByID(context.Background(), "missing")
		assert.ErrorIs(t, err, ErrAddressNotFound)
		assert.Nil(t, res)
	})

	t.Run("UnknownKind", func(t *testing.T) {
		row := make([]driver.Value, len(addressColumnNames))
		row[0], row[1] = "addr-2", "robot"
		mock.ExpectQuery("SELECT .* FROM addresses").
			WithArgs("addr-2").
			WillReturnRows(sqlmock.NewRows(addressColumnNames).AddRow(row...))

		_, err := repo.FindByID(context.Background(), "addr-2")
		assert.ErrorIs(t, err, ErrInvalidKind)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_FindAll(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows(addressColumnNames).
			AddRow("a", "individual", "Mr Jean DELHOURME", nil, nil, nil, nil, "Apt 12",
				"rue de la Liberté", "25", nil, nil, "75001", "PARIS", "FR", nil, nil).
			AddRow("b", "organization", nil, nil, nil, nil, nil, nil,
				nil, nil, nil, nil, nil, nil, nil, nil, nil)

		mock.ExpectQuery("SELECT .* FROM addresses ORDER BY id").WillReturnRows(rows)

		res, err := repo.FindAll(context.Background())
		require.NoError(t, err)
		require.Len(t, res, 2)
		assert.Equal(t, "a", res[0].ID)
		assert.Equal(t, KindIndividual, res[0].Kind)
		assert.Equal(t, utils.StrPtr("Apt 12"), res[0].Room)
		assert.Equal(t, KindOrganization, res[1].Kind)
		assert.Nil(t, res[1].Country)
	})

	t.Run("Empty", func(t *testing.T) {
		mock.ExpectQuery("SELECT .* FROM addresses").
			WillReturnRows(sqlmock.NewRows(addressColumnNames))

		res, err := repo.FindAll(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, res)
		assert.Empty(t, res)
	})

	t.Run("QueryError", func(t *testing.T) {
		mock.ExpectQuery("SELECT .* FROM addresses").
			WillReturnError(errors.New("db error"))

		res, err := repo.FindAll(context.Background())
		assert.Error(t, err)
		assert.Nil(t, res)
	})

	t.Run("RowError", func(t *testing.T) {
		rows := sqlmock.NewRows(addressColumnNames).
			AddRow("a", "individual", nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil).
			RowError(0, errors.New("row broke"))
		mock.ExpectQuery("SELECT .* FROM addresses").WillReturnRows(rows)

		_, err := repo.FindAll(context.Background())
		assert.Error(t, err)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
