package storage

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/timshannon/badgerhold/v4"

	"github.com/carteira-app/carteira/internal/common"
	"github.com/carteira-app/carteira/internal/interfaces"
	"github.com/carteira-app/carteira/internal/models"
)

type documentHistory struct {
	store  *Store
	logger *common.Logger
}

// NewDocumentHistory creates a DocumentHistoryStore backed by BadgerHold.
func NewDocumentHistory(store *Store, logger *common.Logger) interfaces.DocumentHistoryStore {
	return &documentHistory{store: store, logger: logger}
}

func (s *documentHistory) Save(_ context.Context, rec *models.DocumentRecord) error {
	rec.UpdatedAt = time.Now()
	if rec.UploadedAt.IsZero() {
		rec.UploadedAt = rec.UpdatedAt
	}

	if err := s.store.db.Upsert(rec.ID, rec); err != nil {
		return fmt.Errorf("failed to save document record: %w", err)
	}
	s.logger.Debug().Str("id", rec.ID).Str("status", rec.Status).Msg("Document record saved")
	return nil
}

func (s *documentHistory) Get(_ context.Context, id string) (*models.DocumentRecord, error) {
	var rec models.DocumentRecord
	err := s.store.db.Get(id, &rec)
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("document record '%s' not found", id)
		}
		return nil, fmt.Errorf("failed to get document record '%s': %w", id, err)
	}
	return &rec, nil
}

func (s *documentHistory) List(_ context.Context) ([]*models.DocumentRecord, error) {
	var recs []models.DocumentRecord
	if err := s.store.db.Find(&recs, nil); err != nil {
		return nil, fmt.Errorf("failed to list document records: %w", err)
	}

	sort.Slice(recs, func(i, j int) bool {
		return recs[i].UploadedAt.After(recs[j].UploadedAt)
	})

	out := make([]*models.DocumentRecord, len(recs))
	for i := range recs {
		out[i] = &recs[i]
	}
	return out, nil
}

func (s *documentHistory) Delete(_ context.Context, id string) error {
	err := s.store.db.Delete(id, models.DocumentRecord{})
	if err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete document record '%s': %w", id, err)
	}
	s.logger.Debug().Str("id", id).Msg("Document record deleted")
	return nil
}

func (s *documentHistory) Close() error {
	return s.store.Close()
}
