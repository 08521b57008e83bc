package service

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"artisan-market/internal/apperr"
	"artisan-market/pkg/config"
)

const (
	regionA  = "7f1d3c2a-0b5e-4c7a-9a51-2b1f0f6d4a01"
	regionB  = "7f1d3c2a-0b5e-4c7a-9a51-2b1f0f6d4a02"
	villageA = "1c0e9b7d-6a3f-4e21-8d4c-5f2a7b9e3c01"
	villageB = "1c0e9b7d-6a3f-4e21-8d4c-5f2a7b9e3c02"
	vendorA  = "a4b2c6d8-1e3f-4a5b-9c7d-0e2f4a6b8c01"
	userA    = "5e8a1f3b-7c2d-4b9e-a6f0-3d1c8e5b7a01"
	userB    = "5e8a1f3b-7c2d-4b9e-a6f0-3d1c8e5b7a02"
	assignA  = "9d3b5f7a-2c4e-4d6f-8a0b-1c3e5f7a9b01"
)

var (
	regionCols     = []string{"id", "name", "description", "created_at", "updated_at"}
	villageCols    = []string{"id", "name", "region_id", "description", "created_at", "updated_at"}
	vendorCols     = []string{"id", "name", "region_id", "village_id", "categories", "is_stay", "summary", "phone", "story", "story_images", "created_at", "updated_at"}
	userCols       = []string{"id", "name", "email", "phone", "password_hash", "created_at", "updated_at"}
	assignmentCols = []string{"id", "user_id", "region_id", "village_id", "start_date", "end_date", "tasks", "status", "created_at", "updated_at"}
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return sqlx.NewDb(mockDB, "postgres"), mock
}

func restrictOptions() Options {
	return Options{
		DeletePolicy: config.DeleteRestrict,
		Uniqueness:   config.Uniqueness{UserEmail: true, UserPhone: true},
		BcryptCost:   bcrypt.MinCost,
	}
}

func cascadeOptions() Options {
	opts := restrictOptions()
	opts.DeletePolicy = config.DeleteCascade
	return opts
}

func regionRow(id, name string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(regionCols).AddRow(id, name, "", now, now)
}

func villageRow(id, name, regionID string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(villageCols).AddRow(id, name, regionID, "", now, now)
}

func userRow(id, name, email, phone string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(userCols).AddRow(id, name, email, phone, nil, now, now)
}

func TestUpdateBuilder(t *testing.T) {
	var b updateBuilder
	query, args := b.build("regions", regionA, "id")
	assert.Equal(t, "UPDATE regions SET updated_at = NOW() WHERE id = $1 RETURNING id", query)
	assert.Equal(t, []any{regionA}, args)

	b.set("name", "Karnataka")
	b.set("description", "South")
	query, args = b.build("regions", regionA, "id, name")
	assert.Equal(t, "UPDATE regions SET updated_at = NOW(), name = $1, description = $2 WHERE id = $3 RETURNING id, name", query)
	assert.Equal(t, []any{"Karnataka", "South", regionA}, args)
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want apperr.Kind
	}{
		{"no rows", errNoRows, apperr.NotFound},
		{"unique", &pq.Error{Code: "23505"}, apperr.Conflict},
		{"foreign key", &pq.Error{Code: "23503"}, apperr.Conflict},
		{"check", &pq.Error{Code: "23514"}, apperr.BadRequest},
		{"invalid text", &pq.Error{Code: "22P02"}, apperr.NotFound},
		{"other", assert.AnError, apperr.Internal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, apperr.KindOf(translate(tt.err, "x")))
		})
	}
	assert.NoError(t, translate(nil, "x"))
}

func TestReference(t *testing.T) {
	err := reference(apperr.NewNotFound("Region not found"), "regionId", "r-1")
	assert.Equal(t, apperr.BadRequest, apperr.KindOf(err))
	assert.Contains(t, err.Error(), `regionId "r-1"`)

	assert.Equal(t, assert.AnError, reference(assert.AnError, "regionId", "r-1"))
}

func expectKeyLock(mock sqlmock.Sqlmock, key string) {
	mock.ExpectExec(`SELECT pg_advisory_xact_lock\(hashtext\(\$1\)\)`).
		WithArgs(key).
		WillReturnResult(sqlmock.NewResult(0, 0))
}

func TestSecondaryKeyTaken(t *testing.T) {
	db, mock := newMockDB(t)
	ctx := context.Background()

	mock.ExpectBegin()
	expectKeyLock(mock, "users.email:a@example.com")
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users WHERE email = \$1 AND id <> \$2`).
		WithArgs("a@example.com", userA).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	expectKeyLock(mock, "vendors.phone:+911")
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM vendors WHERE phone = \$1$`).
		WithArgs("+911").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectRollback()

	tx, err := db.Beginx()
	require.NoError(t, err)

	taken, err := secondaryKeyTaken(ctx, tx, "users", "email", "a@example.com", userA)
	require.NoError(t, err)
	assert.False(t, taken)

	taken, err = secondaryKeyTaken(ctx, tx, "vendors", "phone", "+911", "")
	require.NoError(t, err)
	assert.True(t, taken)

	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSecondaryKeyTakenLockFailure(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(`pg_advisory_xact_lock`).WillReturnError(assert.AnError)
	mock.ExpectRollback()

	tx, err := db.Beginx()
	require.NoError(t, err)

	_, err = secondaryKeyTaken(context.Background(), tx, "users", "email", "a@example.com", "")
	assert.ErrorIs(t, err, assert.AnError)

	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUniqueIDs(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, uniqueIDs([]string{"a", "b", "a"}))
	assert.Empty(t, uniqueIDs(nil))
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	err := withTx(context.Background(), db, func(tx *sqlx.Tx) error { return assert.AnError })
	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}
