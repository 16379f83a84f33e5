package importer

import (
	"context"
	"time"

	"github.com/carteira-app/carteira/internal/models"
)

// Poll fetches the parse result for a document, re-issuing the fetch every
// poll interval while the status is pending or processing, and returns the
// first terminal result. No request is issued after a terminal status is
// observed. observe (optional) is invoked after each fetch so callers can
// render stage progress. Cancelling ctx stops the poll.
func (s *Service) Poll(ctx context.Context, documentID string, observe func(*models.ParseResult)) (*models.ParseResult, error) {
	for {
		result, err := s.client.GetParseResult(ctx, documentID)
		if err != nil {
			return nil, err
		}

		if observe != nil {
			observe(result)
		}

		if result.Terminal() {
			status := models.RecordStatusParsed
			if result.Status == models.ParseStatusFailed {
				status = models.RecordStatusParseFailed
				s.logger.Warn().Str("document_id", documentID).Str("error", result.Error).Msg("Parse failed")
			} else {
				s.logger.Info().Str("document_id", documentID).Msg("Parse completed")
			}
			s.markParsed(ctx, documentID, status)
			return result, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.pollInterval):
		}
	}
}

// markParsed updates the history record's status after a terminal parse.
func (s *Service) markParsed(ctx context.Context, documentID, status string) {
	if s.history == nil {
		return
	}
	rec, err := s.history.Get(ctx, documentID)
	if err != nil {
		return
	}
	rec.Status = status
	rec.UpdatedAt = time.Now()
	if err := s.history.Save(ctx, rec); err != nil {
		s.logger.Warn().Err(err).Str("document_id", documentID).Msg("Failed to update history record")
	}
}

// PollHandle is an explicit cancellation handle for a background poll. Stop
// is the teardown contract: it halts re-scheduling without waiting for the
// in-flight fetch.
type PollHandle struct {
	cancel context.CancelFunc
	done   chan struct{}
	result *models.ParseResult
	err    error
}

// Stop cancels the poll. Safe to call more than once.
func (h *PollHandle) Stop() {
	h.cancel()
}

// Wait blocks until the poll finishes and returns its terminal result, or
// the error that ended it (including context.Canceled after Stop).
func (h *PollHandle) Wait() (*models.ParseResult, error) {
	<-h.done
	return h.result, h.err
}

// StartPoll runs Poll in the background and returns its cancellation handle.
func (s *Service) StartPoll(ctx context.Context, documentID string, observe func(*models.ParseResult)) *PollHandle {
	pollCtx, cancel := context.WithCancel(ctx)
	h := &PollHandle{
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(h.done)
		defer cancel()
		h.result, h.err = s.Poll(pollCtx, documentID, observe)
	}()

	return h
}
