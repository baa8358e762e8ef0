package testdb

import (
	"context"
	"database/sql"
	"errors"
	"net/url"
	"os"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	"github.com/stretchr/testify/require"
)

// DatabaseURLEnv names the variable holding the test database URL.
const DatabaseURLEnv = "KINETIC_TEST_DATABASE_URL"

// PingTimeout bounds the connection check made by Open.
const PingTimeout = 5 * time.Second

// DatabaseURL returns the configured test database URL, or "".
func DatabaseURL() string {
	return os.Getenv(DatabaseURLEnv)
}

// ShouldSkip reports whether database tests must be skipped.
func ShouldSkip() bool {
	return DatabaseURL() == ""
}

// Open connects to the test database and brings its schema up to date
// with migrate. The test is skipped when no database is configured and
// the connection is closed when the test ends.
func Open(t *testing.T, migrate func(ctx context.Context, db *sql.DB) error) *sql.DB {
	t.Helper()

	dbURL := DatabaseURL()
	if dbURL == "" {
		t.Skipf("%s not set, skipping database integration test", DatabaseURLEnv)
	}

	db, err := sql.Open("pgx", dbURL)
	require.NoError(t, err, "open %s", MaskURL(dbURL))
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("failed to close test database: %v", err)
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), PingTimeout)
	defer cancel()
	require.NoError(t, db.PingContext(ctx), "ping %s", MaskURL(dbURL))

	if migrate != nil {
		require.NoError(t, migrate(context.Background(), db), "migrate test database")
	}
	return db
}

// WithTx runs fn inside a transaction that is always rolled back, so tests
// leave no rows behind and can share a database.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err, "begin transaction")
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Logf("failed to roll back test transaction: %v", err)
		}
	}()

	fn(t, tx)
}

// MaskURL hides the password of a database URL for log and failure output.
func MaskURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "xxxxx")
	}
	return u.String()
}
