package postgres_test

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/addressbook/internal/domain"
	"github.com/utafrali/addressbook/internal/repository/postgres"
	apperrors "github.com/utafrali/addressbook/pkg/errors"
)

var addressColumns = []string{
	"aid", "uid", "address_name", "first_name", "last_name", "company",
	"street1", "street2", "city", "zone", "postcode", "country", "phone",
	"default_shipping", "default_billing", "created", "modified",
}

func sampleRecord() domain.Record {
	return domain.Record{
		"uid":              int64(7),
		"address_name":     "home",
		"first_name":       "Neema",
		"last_name":        "Mushi",
		"company":          "",
		"street1":          "12 Uhuru St",
		"street2":          "",
		"city":             "Moshi",
		"zone":             "",
		"postcode":         "25101",
		"country":          "TZ",
		"phone":            "",
		"default_shipping": true,
		"default_billing":  false,
		"created":          int64(1700000000),
		"modified":         int64(1700000000),
	}
}

func sampleRow(aid int64) []any {
	return []any{
		aid, int64(7), "home", "Neema", "Mushi", "",
		"12 Uhuru St", "", "Moshi", "", "25101", "TZ", "",
		true, false, int64(1700000000), int64(1700000000),
	}
}

func newMockRepo(t *testing.T) (pgxmock.PgxPoolIface, *postgres.AddressRepository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, postgres.NewAddressRepository(mock)
}

func TestInsert(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectQuery("INSERT INTO addresses").
		WithArgs(
			int64(7), "home", "Neema", "Mushi", "",
			"12 Uhuru St", "", "Moshi", "", "25101", "TZ", "",
			true, false, int64(1700000000), int64(1700000000),
		).
		WillReturnRows(pgxmock.NewRows([]string{"aid"}).AddRow(int64(42)))

	aid, err := repo.Insert(context.Background(), sampleRecord())
	require.NoError(t, err)
	assert.Equal(t, int64(42), aid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate(t *testing.T) {
	mock, repo := newMockRepo(t)

	rec := sampleRecord()
	rec["aid"] = int64(42)

	mock.ExpectExec("UPDATE addresses SET").
		WithArgs(
			int64(42), int64(7), "home", "Neema", "Mushi", "",
			"12 Uhuru St", "", "Moshi", "", "25101", "TZ", "",
			true, false, int64(1700000000),
		).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.Update(context.Background(), rec))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateMissingRow(t *testing.T) {
	mock, repo := newMockRepo(t)

	rec := sampleRecord()
	rec["aid"] = int64(99)

	mock.ExpectExec("UPDATE addresses SET").
		WithArgs(
			int64(99), int64(7), "home", "Neema", "Mushi", "",
			"12 Uhuru St", "", "Moshi", "", "25101", "TZ", "",
			true, false, int64(1700000000),
		).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), rec)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestDelete(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectExec("DELETE FROM addresses").
		WithArgs(int64(42)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	require.NoError(t, repo.Delete(context.Background(), 42))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteMissingRow(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectExec("DELETE FROM addresses").
		WithArgs(int64(99)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.Delete(context.Background(), 99)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestGetByID(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM addresses").
		WithArgs(int64(42)).
		WillReturnRows(pgxmock.NewRows(addressColumns).AddRow(sampleRow(42)...))

	rec, err := repo.GetByID(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), rec.Int64("aid"))
	assert.Equal(t, int64(7), rec.Int64("uid"))
	assert.Equal(t, "home", rec.String("address_name"))
	assert.True(t, rec.Bool("default_shipping"))
}

func TestGetByIDNotFound(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM addresses").
		WithArgs(int64(99)).
		WillReturnRows(pgxmock.NewRows(addressColumns))

	_, err := repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestListByOwner(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM addresses").
		WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows(addressColumns).
			AddRow(sampleRow(1)...).
			AddRow(sampleRow(2)...))

	recs, err := repo.ListByOwner(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, int64(1), recs[0].Int64("aid"))
	assert.Equal(t, int64(2), recs[1].Int64("aid"))
}

func TestListByOwnerEmpty(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM addresses").
		WithArgs(int64(8)).
		WillReturnRows(pgxmock.NewRows(addressColumns))

	recs, err := repo.ListByOwner(context.Background(), 8)
	require.NoError(t, err)
	assert.Empty(t, recs)
}
