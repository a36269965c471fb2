// Package results persists the local typing-test history.
package results

import (
	"context"

	"github.com/zipboard/zipboard/internal/models"
)

type Repository interface {
	// Save inserts one finished result.
	Save(ctx context.Context, r *models.TestResult) error

	// List returns the history, most recent first.
	List(ctx context.Context) ([]*models.TestResult, error)

	// Trim deletes everything beyond the keep most recent results.
	Trim(ctx context.Context, keep int) error

	// Clear wipes the whole history.
	Clear(ctx context.Context) error
}
