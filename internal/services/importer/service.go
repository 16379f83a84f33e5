// Package importer drives the document import workflow: sequential statement
// uploads, parse-result polling, and commit submission against the portfolio
// backend.
package importer

import (
	"context"
	"fmt"
	"time"

	"github.com/carteira-app/carteira/internal/common"
	"github.com/carteira-app/carteira/internal/interfaces"
	"github.com/carteira-app/carteira/internal/models"
	"github.com/carteira-app/carteira/internal/staging"
)

const (
	DefaultPollInterval = 3 * time.Second
	DefaultMaxFileSize  = 20 * 1024 * 1024
)

// Service implements the import workflow. history may be nil, in which case
// no local document history is kept.
type Service struct {
	client       interfaces.LedgerClient
	history      interfaces.DocumentHistoryStore
	logger       *common.Logger
	pollInterval time.Duration
	maxFileSize  int64
}

// ServiceOption configures the service
type ServiceOption func(*Service)

// WithPollInterval sets the parse-result polling interval.
func WithPollInterval(interval time.Duration) ServiceOption {
	return func(s *Service) {
		if interval > 0 {
			s.pollInterval = interval
		}
	}
}

// WithMaxFileSize sets the client-side upload size limit in bytes.
func WithMaxFileSize(size int64) ServiceOption {
	return func(s *Service) {
		if size > 0 {
			s.maxFileSize = size
		}
	}
}

// NewService creates a new importer service
func NewService(client interfaces.LedgerClient, history interfaces.DocumentHistoryStore, logger *common.Logger, opts ...ServiceOption) *Service {
	s := &Service{
		client:       client,
		history:      history,
		logger:       logger,
		pollInterval: DefaultPollInterval,
		maxFileSize:  DefaultMaxFileSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StartParse triggers extraction for an uploaded document.
func (s *Service) StartParse(ctx context.Context, documentID string, asyncMode bool) (*models.ParseResult, error) {
	result, err := s.client.StartParse(ctx, documentID, asyncMode)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("document_id", documentID).Str("status", result.Status).Msg("Parse started")
	return result, nil
}

// DeleteDocument removes a document from the backend and the local history.
func (s *Service) DeleteDocument(ctx context.Context, documentID string) error {
	if err := s.client.DeleteDocument(ctx, documentID); err != nil {
		return err
	}
	if s.history != nil {
		if err := s.history.Delete(ctx, documentID); err != nil {
			s.logger.Warn().Err(err).Str("document_id", documentID).Msg("Failed to remove history record")
		}
	}
	s.logger.Info().Str("document_id", documentID).Msg("Document deleted")
	return nil
}

// CommitOutcome classifies the result of a commit submission.
type CommitOutcome string

const (
	// OutcomeSuccess: every submitted row was imported.
	OutcomeSuccess CommitOutcome = "success"
	// OutcomePartial: the backend accepted the request but rejected some
	// rows. Must never be presented as full success.
	OutcomePartial CommitOutcome = "partial"
	// OutcomeFailed: the whole request was rejected; staging state is
	// untouched and the commit may be retried.
	OutcomeFailed CommitOutcome = "failed"
)

// CommitReport is the user-facing result of one commit attempt.
type CommitReport struct {
	Outcome  CommitOutcome
	Response *models.CommitResponse
	Err      error
}

// Commit gathers the session's selected rows and submits them. Submission is
// blocked before any request is issued when the session has no destination
// account or an edit overlay is open; on a failed request the staging state
// is left untouched so the user may retry.
func (s *Service) Commit(ctx context.Context, session *staging.Session) *CommitReport {
	req, err := session.BeginCommit()
	if err != nil {
		return &CommitReport{Outcome: OutcomeFailed, Err: err}
	}

	resp, err := s.client.CommitDocument(ctx, session.DocumentID(), req)
	if err != nil {
		session.FailCommit(err)
		s.recordOutcome(ctx, session.DocumentID(), models.RecordStatusCommitFailed, 0, []string{err.Error()})
		s.logger.Error().Err(err).Str("document_id", session.DocumentID()).Msg("Commit failed")
		common.ReportError(err)
		return &CommitReport{Outcome: OutcomeFailed, Err: err}
	}

	session.CompleteCommit(resp)

	outcome := OutcomeSuccess
	if resp.Partial() {
		outcome = OutcomePartial
		s.logger.Warn().
			Str("document_id", session.DocumentID()).
			Int("created", resp.TotalCreated()).
			Strs("errors", resp.Errors).
			Msg("Commit partially succeeded")
	} else {
		s.logger.Info().
			Str("document_id", session.DocumentID()).
			Int("created", resp.TotalCreated()).
			Int("positions_updated", resp.PositionsUpdated).
			Msg("Commit succeeded")
	}

	s.recordOutcome(ctx, session.DocumentID(), models.RecordStatusCommitted, resp.TotalCreated(), resp.Errors)
	return &CommitReport{Outcome: outcome, Response: resp}
}

// recordOutcome updates the local history record for a document, creating it
// when absent.
func (s *Service) recordOutcome(ctx context.Context, documentID, status string, rowsCreated int, errs []string) {
	if s.history == nil || documentID == "" {
		return
	}

	rec, err := s.history.Get(ctx, documentID)
	if err != nil {
		rec = &models.DocumentRecord{ID: documentID, UploadedAt: time.Now()}
	}
	rec.Status = status
	rec.RowsCreated = rowsCreated
	rec.Errors = errs
	rec.UpdatedAt = time.Now()

	if err := s.history.Save(ctx, rec); err != nil {
		s.logger.Warn().Err(err).Str("document_id", documentID).Msg("Failed to save history record")
	}
}

// Review builds a reviewing session from a completed parse result.
func (s *Service) Review(documentID string, result *models.ParseResult) (*staging.Session, error) {
	if result.Status != models.ParseStatusCompleted {
		return nil, fmt.Errorf("document %s is not parsed (status: %s)", documentID, result.Status)
	}
	return staging.NewReviewSession(documentID, result.Data), nil
}
