package results

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zipboard/zipboard/internal/models"
	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:resultsrepo?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE IF NOT EXISTS results (
  id               TEXT PRIMARY KEY,
  wpm              INTEGER NOT NULL,
  accuracy         INTEGER NOT NULL,
  mode             TEXT NOT NULL,
  test_value       INTEGER NOT NULL,
  correct          INTEGER NOT NULL,
  incorrect        INTEGER NOT NULL,
  total_chars      INTEGER NOT NULL,
  duration_seconds INTEGER NOT NULL,
  created_at       TIMESTAMP NOT NULL
);
DELETE FROM results;
`)
	require.NoError(t, err)
	return db
}

func sample(id string, wpm int, at time.Time) *models.TestResult {
	return &models.TestResult{
		ID: id, WPM: wpm, Accuracy: 95, Mode: "time", TestValue: 30,
		Correct: 140, Incorrect: 7, TotalChars: 147, DurationSeconds: 30,
		CreatedAt: at,
	}
}

func TestSQLiteRepository_SaveAndList(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(setupDB(t))

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Save(ctx, sample("r1", 60, base)))
	require.NoError(t, repo.Save(ctx, sample("r2", 70, base.Add(time.Minute))))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	// Most recent first.
	assert.Equal(t, "r2", list[0].ID)
	assert.Equal(t, 70, list[0].WPM)
	assert.Equal(t, "r1", list[1].ID)
	assert.True(t, list[0].CreatedAt.After(list[1].CreatedAt))
}

func TestSQLiteRepository_Trim(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(setupDB(t))

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 10; i++ {
		require.NoError(t, repo.Save(ctx, sample(fmt.Sprintf("r%02d", i), 60+i, base.Add(time.Duration(i)*time.Minute))))
	}

	require.NoError(t, repo.Trim(ctx, 3))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	// The three newest survive.
	assert.Equal(t, "r09", list[0].ID)
	assert.Equal(t, "r07", list[2].ID)
}

func TestSQLiteRepository_Clear(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(setupDB(t))

	require.NoError(t, repo.Save(ctx, sample("r1", 60, time.Now().UTC())))
	require.NoError(t, repo.Clear(ctx))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}
