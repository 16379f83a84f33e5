package interfaces

import (
	"context"

	"github.com/carteira-app/carteira/internal/models"
)

// DocumentHistoryStore persists local metadata about uploaded documents and
// their commit outcomes. Staged review rows are never stored.
type DocumentHistoryStore interface {
	// Save inserts or updates a document record.
	Save(ctx context.Context, rec *models.DocumentRecord) error

	// Get retrieves a record by document ID.
	Get(ctx context.Context, id string) (*models.DocumentRecord, error)

	// List returns all records, most recent first.
	List(ctx context.Context) ([]*models.DocumentRecord, error)

	// Delete removes a record.
	Delete(ctx context.Context, id string) error

	// Close releases the underlying database.
	Close() error
}
