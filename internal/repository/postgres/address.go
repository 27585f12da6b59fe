// Package postgres implements address persistence on PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/utafrali/addressbook/internal/domain"
	apperrors "github.com/utafrali/addressbook/pkg/errors"
)

// DB is the subset of pgxpool.Pool the repository uses. pgxmock satisfies it
// in tests.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// AddressRepository stores address records in the addresses table.
type AddressRepository struct {
	db DB
}

// NewAddressRepository creates a PostgreSQL-backed address repository.
func NewAddressRepository(db DB) *AddressRepository {
	return &AddressRepository{db: db}
}

const insertAddressQuery = `
	INSERT INTO addresses (
		uid, address_name, first_name, last_name, company,
		street1, street2, city, zone, postcode, country, phone,
		default_shipping, default_billing, created, modified
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	RETURNING aid`

// Insert implements domain.Store.
func (r *AddressRepository) Insert(ctx context.Context, rec domain.Record) (int64, error) {
	var aid int64
	err := r.db.QueryRow(ctx, insertAddressQuery,
		rec.Int64("uid"),
		rec.String("address_name"),
		rec.String("first_name"),
		rec.String("last_name"),
		rec.String("company"),
		rec.String("street1"),
		rec.String("street2"),
		rec.String("city"),
		rec.String("zone"),
		rec.String("postcode"),
		rec.String("country"),
		rec.String("phone"),
		rec.Bool("default_shipping"),
		rec.Bool("default_billing"),
		rec.Int64("created"),
		rec.Int64("modified"),
	).Scan(&aid)
	if err != nil {
		return 0, fmt.Errorf("failed to insert address: %w", err)
	}
	return aid, nil
}

const updateAddressQuery = `
	UPDATE addresses SET
		uid = $2, address_name = $3, first_name = $4, last_name = $5,
		company = $6, street1 = $7, street2 = $8, city = $9, zone = $10,
		postcode = $11, country = $12, phone = $13,
		default_shipping = $14, default_billing = $15, modified = $16
	WHERE aid = $1`

// Update implements domain.Store.
func (r *AddressRepository) Update(ctx context.Context, rec domain.Record) error {
	tag, err := r.db.Exec(ctx, updateAddressQuery,
		rec.Int64("aid"),
		rec.Int64("uid"),
		rec.String("address_name"),
		rec.String("first_name"),
		rec.String("last_name"),
		rec.String("company"),
		rec.String("street1"),
		rec.String("street2"),
		rec.String("city"),
		rec.String("zone"),
		rec.String("postcode"),
		rec.String("country"),
		rec.String("phone"),
		rec.Bool("default_shipping"),
		rec.Bool("default_billing"),
		rec.Int64("modified"),
	)
	if err != nil {
		return fmt.Errorf("failed to update address: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("address", rec.Int64("aid"))
	}
	return nil
}

// Delete implements domain.Store.
func (r *AddressRepository) Delete(ctx context.Context, aid int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM addresses WHERE aid = $1`, aid)
	if err != nil {
		return fmt.Errorf("failed to delete address: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("address", aid)
	}
	return nil
}

const selectAddressColumns = `
	SELECT aid, uid, address_name, first_name, last_name, company,
		street1, street2, city, zone, postcode, country, phone,
		default_shipping, default_billing, created, modified
	FROM addresses`

// GetByID implements domain.Store.
func (r *AddressRepository) GetByID(ctx context.Context, aid int64) (domain.Record, error) {
	row := r.db.QueryRow(ctx, selectAddressColumns+` WHERE aid = $1`, aid)
	rec, err := scanAddress(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("address", aid)
		}
		return nil, fmt.Errorf("failed to get address: %w", err)
	}
	return rec, nil
}

// ListByOwner implements domain.Store.
func (r *AddressRepository) ListByOwner(ctx context.Context, uid int64) ([]domain.Record, error) {
	rows, err := r.db.Query(ctx, selectAddressColumns+` WHERE uid = $1 ORDER BY aid`, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}
	defer rows.Close()

	var recs []domain.Record
	for rows.Next() {
		rec, err := scanAddress(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan address: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate addresses: %w", err)
	}
	return recs, nil
}

func scanAddress(row pgx.Row) (domain.Record, error) {
	var (
		aid, uid, created, modified               int64
		addressName, firstName, lastName, company string
		street1, street2, city, zone, postcode    string
		country, phone                            string
		defaultShipping, defaultBilling           bool
	)
	err := row.Scan(
		&aid, &uid, &addressName, &firstName, &lastName, &company,
		&street1, &street2, &city, &zone, &postcode, &country, &phone,
		&defaultShipping, &defaultBilling, &created, &modified,
	)
	if err != nil {
		return nil, err
	}
	return domain.Record{
		"aid":              aid,
		"uid":              uid,
		"address_name":     addressName,
		"first_name":       firstName,
		"last_name":        lastName,
		"company":          company,
		"street1":          street1,
		"street2":          street2,
		"city":             city,
		"zone":             zone,
		"postcode":         postcode,
		"country":          country,
		"phone":            phone,
		"default_shipping": defaultShipping,
		"default_billing":  defaultBilling,
		"created":          created,
		"modified":         modified,
	}, nil
}
