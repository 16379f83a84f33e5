package importer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"

	"github.com/carteira-app/carteira/internal/models"
)

// UploadStatus is the lifecycle state of one queued file.
type UploadStatus string

const (
	UploadPending   UploadStatus = "pending"
	UploadUploading UploadStatus = "uploading"
	UploadSuccess   UploadStatus = "success"
	UploadError     UploadStatus = "error"
)

// UploadItem is one queued file. A failed item records its error message and
// does not block the rest of the batch.
type UploadItem struct {
	ID         string
	Path       string
	FileName   string
	DocType    string
	AccountID  string
	Status     UploadStatus
	Error      string
	DocumentID string
}

// UploadQueue holds files queued for sequential upload.
type UploadQueue struct {
	items []*UploadItem
}

// NewUploadQueue creates an empty queue.
func NewUploadQueue() *UploadQueue {
	return &UploadQueue{}
}

// Add queues a file for upload. accountID may be empty.
func (q *UploadQueue) Add(path, docType, accountID string) *UploadItem {
	item := &UploadItem{
		ID:        uuid.NewString(),
		Path:      path,
		FileName:  filepath.Base(path),
		DocType:   docType,
		AccountID: accountID,
		Status:    UploadPending,
	}
	q.items = append(q.items, item)
	return item
}

// Items returns the queue contents in order.
func (q *UploadQueue) Items() []*UploadItem {
	return q.items
}

// validateFile rejects non-PDF and oversized files before any request is
// made. The structural check catches files that merely carry a .pdf name.
func (s *Service) validateFile(path string) error {
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return fmt.Errorf("only PDF files are accepted: %s", filepath.Base(path))
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot read file: %w", err)
	}
	if info.Size() > s.maxFileSize {
		return fmt.Errorf("file exceeds %dMB limit: %s", s.maxFileSize/(1024*1024), filepath.Base(path))
	}

	f, reader, err := pdf.Open(path)
	if err != nil {
		return fmt.Errorf("not a readable PDF: %s", filepath.Base(path))
	}
	defer f.Close()
	if reader.NumPage() < 1 {
		return fmt.Errorf("PDF has no pages: %s", filepath.Base(path))
	}
	return nil
}

// uploadOne validates and uploads a single file.
func (s *Service) uploadOne(ctx context.Context, item *UploadItem) (*models.Document, error) {
	if err := s.validateFile(item.Path); err != nil {
		return nil, err
	}

	f, err := os.Open(item.Path)
	if err != nil {
		return nil, fmt.Errorf("cannot open file: %w", err)
	}
	defer f.Close()

	return s.client.UploadDocument(ctx, f, item.FileName, item.DocType, item.AccountID)
}

// ProcessAll uploads every pending item strictly sequentially: one file
// completes, or fails, before the next begins. A per-file failure records
// the error on that item without aborting the batch. onUpdate (optional) is
// invoked after each status change for user-visible progress.
func (s *Service) ProcessAll(ctx context.Context, q *UploadQueue, onUpdate func(*UploadItem)) {
	notify := func(item *UploadItem) {
		if onUpdate != nil {
			onUpdate(item)
		}
	}

	for _, item := range q.items {
		if item.Status != UploadPending {
			continue
		}
		if ctx.Err() != nil {
			return
		}

		item.Status = UploadUploading
		notify(item)

		doc, err := s.uploadOne(ctx, item)
		if err != nil {
			item.Status = UploadError
			item.Error = err.Error()
			s.logger.Warn().Err(err).Str("file", item.FileName).Msg("Upload failed")
			notify(item)
			continue
		}

		item.Status = UploadSuccess
		item.DocumentID = doc.ID
		s.logger.Info().Str("file", item.FileName).Str("document_id", doc.ID).Msg("Upload succeeded")

		if s.history != nil {
			rec := &models.DocumentRecord{
				ID:         doc.ID,
				FileName:   item.FileName,
				DocType:    item.DocType,
				AccountID:  item.AccountID,
				Status:     models.RecordStatusUploaded,
				UploadedAt: time.Now(),
				UpdatedAt:  time.Now(),
			}
			if err := s.history.Save(ctx, rec); err != nil {
				s.logger.Warn().Err(err).Str("document_id", doc.ID).Msg("Failed to save history record")
			}
		}

		notify(item)
	}
}
