package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/kinetic-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResult struct {
	rows int64
	err  error
}

func (r fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (r fakeResult) RowsAffected() (int64, error) { return r.rows, r.err }

func TestMapError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"no rows", sql.ErrNoRows, store.ErrNotFound},
		{"wrapped no rows", fmt.Errorf("scan: %w", sql.ErrNoRows), store.ErrNotFound},
		{"unique", &pgconn.PgError{Code: uniqueViolationCode}, store.ErrDuplicate},
		{"foreign key", &pgconn.PgError{Code: foreignKeyViolationCode, ConstraintName: "fk"}, store.ErrInvalidEntity},
		{"check", &pgconn.PgError{Code: checkViolationCode, ConstraintName: "tasks_status_check"}, store.ErrInvalidEntity},
		{"not null", &pgconn.PgError{Code: notNullViolationCode, ColumnName: "slide_id"}, store.ErrInvalidEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			mapped := MapError(tt.err)
			assert.ErrorIs(t, mapped, tt.want)
			assert.ErrorIs(t, mapped, tt.err, "original error stays in the chain")
		})
	}

	t.Run("nil and unmapped pass through", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, MapError(nil))
		plain := errors.New("connection refused")
		assert.Same(t, plain, MapError(plain))
		other := &pgconn.PgError{Code: "40001"}
		assert.Same(t, other, MapError(other))
	})
}

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: uniqueViolationCode})))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: checkViolationCode}))
	assert.False(t, IsUniqueViolation(errors.New("x")))
}

func TestCheckRowsAffected(t *testing.T) {
	t.Parallel()

	require.NoError(t, CheckRowsAffected(fakeResult{rows: 1}, "task"))
	assert.ErrorIs(t, CheckRowsAffected(fakeResult{rows: 0}, "task"), store.ErrNotFound)
	assert.Error(t, CheckRowsAffected(nil, "task"))

	boom := errors.New("driver does not support RowsAffected")
	assert.ErrorIs(t, CheckRowsAffected(fakeResult{err: boom}, "task"), boom)
}
