package postgres

import (
	"bytes"
	"context"
	"io/fs"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	t.Parallel()

	entries, err := fs.ReadDir(MigrationsFS(), MigrationsDir)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	for _, e := range entries {
		raw, err := fs.ReadFile(MigrationsFS(), MigrationsDir+"/"+e.Name())
		require.NoError(t, err)
		content := string(raw)
		assert.True(t, strings.HasSuffix(e.Name(), ".sql"), e.Name())
		assert.Contains(t, content, "-- +goose Up", e.Name())
		assert.Contains(t, content, "-- +goose Down", e.Name())
	}
}

func TestMigrateRejectsUnknownCommand(t *testing.T) {
	t.Parallel()

	err := Migrate(context.Background(), nil, "sideways", nil)
	assert.ErrorIs(t, err, ErrUnknownMigrateCommand)
}

func TestSlogGooseLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := &slogGooseLogger{logger: slog.New(slog.NewJSONHandler(&buf, nil))}

	l.Printf("OK   %s", "00001_create_interactions.sql")
	l.Fatalf("failed %d", 2)

	out := buf.String()
	assert.Contains(t, out, `"level":"INFO","msg":"OK   00001_create_interactions.sql"`)
	assert.Contains(t, out, `"level":"ERROR","msg":"failed 2"`)
}
