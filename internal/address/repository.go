package address

import (
	"context"
	"database/sql"
	"errors"

	"fraddriso20022/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

// Repository persists ISO addresses keyed by ID.
type Repository interface {
	Save(ctx context.Context, addr *ISOAddress) error
	Update(ctx context.Context, addr *ISOAddress) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*ISOAddress, error)
	FindAll(ctx context.Context) ([]*ISOAddress, error)
}

const pqUniqueViolation = "23505"

const addressColumns = `
	id, kind,
	recipient_name, department, sub_department,
	building_name, floor, room,
	street_name, building_number, post_box,
	town_location_name, post_code, town_name,
	country, district_name, country_sub_division
`

type repository struct {
	db *sql.DB
}

// NewRepository returns the postgres-backed repository.
func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAddress(row rowScanner) (*ISOAddress, error) {
	var (
		a    ISOAddress
		kind string
	)
	if err := row.Scan(
		&a.ID, &kind,
		&a.RecipientName, &a.Department, &a.SubDepartment,
		&a.BuildingName, &a.Floor, &a.Room,
		&a.StreetName, &a.BuildingNumber, &a.PostBox,
		&a.TownLocationName, &a.PostCode, &a.TownName,
		&a.Country, &a.DistrictName, &a.CountrySubDivision,
	); err != nil {
		return nil, err
	}

	k, err := ParseKind(kind)
	if err != nil {
		return nil, err
	}
	a.Kind = k
	return &a, nil
}

// fieldArgs lists the non-key columns in addressColumns order.
func fieldArgs(a *ISOAddress) []any {
	return []any{
		a.Kind.String(),
		a.RecipientName, a.Department, a.SubDepartment,
		a.BuildingName, a.Floor, a.Room,
		a.StreetName, a.BuildingNumber, a.PostBox,
		a.TownLocationName, a.PostCode, a.TownName,
		a.Country, a.DistrictName, a.CountrySubDivision,
	}
}

func (r *repository) Save(ctx context.Context, addr *ISOAddress) error {
	log := logger.FromCtx(ctx).With(
		zap.String("repo", "Address"),
		zap.String("method", "Save"),
		zap.String("address_id", addr.ID),
	)

	const q = `
		INSERT INTO addresses (` + addressColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	args := append([]any{addr.ID}, fieldArgs(addr)...)
	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return ErrAddressExists
		}
		log.Error("insert failed", zap.Error(err))
		return err
	}

	return nil
}

func (r *repository) Update(ctx context.Context, addr *ISOAddress) error {
	log := logger.FromCtx(ctx).With(
		zap.String("repo", "Address"),
		zap.String("method", "Update"),
		zap.String("address_id", addr.ID),
	)

	const q = `
		UPDATE addresses
		SET kind = $2,
			recipient_name = $3, department = $4, sub_department = $5,
			building_name = $6, floor = $7, room = $8,
			street_name = $9, building_number = $10, post_box = $11,
			town_location_name = $12, post_code = $13, town_name = $14,
			country = $15, district_name = $16, country_sub_division = $17,
			updated_at = NOW()
		WHERE id = $1
	`

	args := append([]any{addr.ID}, fieldArgs(addr)...)
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		log.Error("update failed", zap.Error(err))
		return err
	}

	return requireAffected(res, log)
}

func (r *repository) Delete(ctx context.Context, id string) error {
	log := logger.FromCtx(ctx).With(
		zap.String("repo", "Address"),
		zap.String("method", "Delete"),
		zap.String("address_id", id),
	)

	res, err := r.db.ExecContext(ctx, `DELETE FROM addresses WHERE id = $1`, id)
	if err != nil {
		log.Error("delete failed", zap.Error(err))
		return err
	}

	return requireAffected(res, log)
}

func (r *repository) FindByID(ctx context.Context, id string) (*ISOAddress, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("repo", "Address"),
		zap.String("method", "FindByID"),
		zap.String("address_id", id),
	)

	q := `SELECT ` + addressColumns + ` FROM addresses WHERE id = $1 LIMIT 1`

	a, err := scanAddress(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAddressNotFound
	}
	if err != nil {
		log.Error("query failed", zap.Error(err))
		return nil, err
	}

	return a, nil
}

func (r *repository) FindAll(ctx context.Context) ([]*ISOAddress, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("repo", "Address"),
		zap.String("method", "FindAll"),
	)

	q := `SELECT ` + addressColumns + ` FROM addresses ORDER BY id`

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		log.Error("query failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	res := []*ISOAddress{}
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			log.Error("scan failed", zap.Error(err))
			return nil, err
		}
		res = append(res, a)
	}
	if err := rows.Err(); err != nil {
		log.Error("rows iteration failed", zap.Error(err))
		return nil, err
	}

	return res, nil
}

func requireAffected(res sql.Result, log *zap.Logger) error {
	n, err := res.RowsAffected()
	if err != nil {
		log.Error("rows affected failed", zap.Error(err))
		return err
	}
	if n == 0 {
		return ErrAddressNotFound
	}
	return nil
}
