package results

import (
	"context"
	"fmt"

	"github.com/zipboard/zipboard/internal/dbx"
	"github.com/zipboard/zipboard/internal/models"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Save(ctx context.Context, res *models.TestResult) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO results
		  (id, wpm, accuracy, mode, test_value, correct, incorrect, total_chars, duration_seconds, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, res.ID, res.WPM, res.Accuracy, res.Mode, res.TestValue,
		res.Correct, res.Incorrect, res.TotalChars, res.DurationSeconds, res.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save result %s: %w", res.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]*models.TestResult, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, wpm, accuracy, mode, test_value, correct, incorrect, total_chars, duration_seconds, created_at
		FROM results
		ORDER BY created_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	defer rows.Close()

	var list []*models.TestResult
	for rows.Next() {
		var res models.TestResult
		if err := rows.Scan(&res.ID, &res.WPM, &res.Accuracy, &res.Mode, &res.TestValue,
			&res.Correct, &res.Incorrect, &res.TotalChars, &res.DurationSeconds, &res.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan result row: %w", err)
		}
		list = append(list, &res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate result rows: %w", err)
	}

	return list, nil
}

func (r *SQLiteRepository) Trim(ctx context.Context, keep int) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM results WHERE id NOT IN (
			SELECT id FROM results ORDER BY created_at DESC, id LIMIT ?
		)
	`, keep)
	if err != nil {
		return fmt.Errorf("failed to trim results: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM results`)
	if err != nil {
		return fmt.Errorf("failed to clear results: %w", err)
	}
	return nil
}
