// Package interfaces defines client and storage contracts for Carteira
package interfaces

import (
	"context"
	"io"

	"github.com/carteira-app/carteira/internal/models"
)

// LedgerClient provides access to the portfolio backend's document API.
// The backend performs PDF ingestion, AI extraction, and position
// recalculation; this client only speaks its HTTP contract.
type LedgerClient interface {
	// UploadDocument uploads a PDF statement via multipart form.
	// accountID may be empty when the destination account is chosen later.
	UploadDocument(ctx context.Context, file io.Reader, fileName, docType, accountID string) (*models.Document, error)

	// StartParse triggers extraction for an uploaded document.
	StartParse(ctx context.Context, documentID string, asyncMode bool) (*models.ParseResult, error)

	// GetParseResult retrieves the current parse status and, once completed,
	// the extracted data.
	GetParseResult(ctx context.Context, documentID string) (*models.ParseResult, error)

	// CommitDocument converts selected extracted records into ledger entries.
	CommitDocument(ctx context.Context, documentID string, req *models.CommitRequest) (*models.CommitResponse, error)

	// DeleteDocument removes an uploaded document.
	DeleteDocument(ctx context.Context, documentID string) error

	// ListDocuments retrieves the user's uploaded documents.
	ListDocuments(ctx context.Context) ([]*models.Document, error)

	// ListAccounts retrieves the user's brokerage accounts.
	ListAccounts(ctx context.Context) ([]*models.Account, error)
}
