package db

import (
	"context"
	"errors"
	"testing"

	"database/sql"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func TestOpen_AppliesMigrations(t *testing.T) {
	conn, err := Open(context.Background(), "file:dbopen?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	for _, table := range []string{"state", "results"} {
		var name string
		err = conn.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s missing", table)
		assert.Equal(t, table, name)
	}
}

func TestOpen_MigrationFailureClosesDB(t *testing.T) {
	boom := errors.New("boom")
	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return boom
	}
	t.Cleanup(func() { gooseUpContext = orig })

	_, err := Open(context.Background(), "file:dbfail?mode=memory&cache=shared")
	require.ErrorIs(t, err, boom)
}
