package importer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carteira-app/carteira/internal/models"
	"github.com/carteira-app/carteira/internal/staging"
)

func reviewSession(t *testing.T) *staging.Session {
	t.Helper()
	data := &models.ExtractedData{
		Transactions: []models.ParsedTransaction{
			{Date: "2024-03-10", Type: models.TransactionBuy, Ticker: "PETR4", Total: models.NewFlex(3850)},
		},
		FixedIncome: []models.ParsedFixedIncome{
			{AssetName: "CDB Banco Inter", Indexer: models.IndexerCDI, TotalValue: models.NewFlex(10000)},
		},
	}
	return staging.NewReviewSession("doc-1", data)
}

func TestCommit_Success(t *testing.T) {
	client := &fakeLedger{
		commitFn: func(req *models.CommitRequest) (*models.CommitResponse, error) {
			assert.Equal(t, "acc-1", req.AccountID)
			assert.Equal(t, 2, req.RowCount())
			return &models.CommitResponse{TransactionsCreated: 1, FixedIncomeCreated: 1, PositionsUpdated: 1}, nil
		},
	}
	history := newMemoryHistory()
	service := newTestService(client, history)

	session := reviewSession(t)
	session.SetAccount("acc-1")

	report := service.Commit(context.Background(), session)
	require.Equal(t, OutcomeSuccess, report.Outcome)
	assert.Equal(t, 2, report.Response.TotalCreated())
	assert.Equal(t, staging.StateCommitted, session.State())

	rec, err := history.Get(context.Background(), "doc-1")
	require.NoError(t, err)
	assert.Equal(t, models.RecordStatusCommitted, rec.Status)
	assert.Equal(t, 2, rec.RowsCreated)
}

func TestCommit_PartialIsNotSuccess(t *testing.T) {
	client := &fakeLedger{
		commitFn: func(*models.CommitRequest) (*models.CommitResponse, error) {
			return &models.CommitResponse{
				TransactionsCreated: 1,
				Errors:              []string{"fixed income row 1: unknown issuer"},
			}, nil
		},
	}
	service := newTestService(client, nil)

	session := reviewSession(t)
	session.SetAccount("acc-1")

	report := service.Commit(context.Background(), session)
	require.Equal(t, OutcomePartial, report.Outcome)
	assert.Equal(t, staging.StateCommitted, session.State())
	assert.Len(t, report.Response.Errors, 1)
}

func TestCommit_RequestFailureKeepsStaging(t *testing.T) {
	wantErr := errors.New("backend rejected the request")
	client := &fakeLedger{
		commitFn: func(*models.CommitRequest) (*models.CommitResponse, error) {
			return nil, wantErr
		},
	}
	history := newMemoryHistory()
	service := newTestService(client, history)

	session := reviewSession(t)
	session.SetAccount("acc-1")

	report := service.Commit(context.Background(), session)
	require.Equal(t, OutcomeFailed, report.Outcome)
	assert.ErrorIs(t, report.Err, wantErr)
	assert.Equal(t, staging.StateCommitFailed, session.State())

	// The failed attempt is recorded locally
	rec, err := history.Get(context.Background(), "doc-1")
	require.NoError(t, err)
	assert.Equal(t, models.RecordStatusCommitFailed, rec.Status)

	// Staging survived: the retry submits the same rows
	client.commitFn = func(req *models.CommitRequest) (*models.CommitResponse, error) {
		assert.Equal(t, 2, req.RowCount())
		return &models.CommitResponse{TransactionsCreated: 1, FixedIncomeCreated: 1}, nil
	}
	retry := service.Commit(context.Background(), session)
	assert.Equal(t, OutcomeSuccess, retry.Outcome)
}

func TestCommit_NoAccountBlocksBeforeRequest(t *testing.T) {
	client := &fakeLedger{}
	service := newTestService(client, nil)

	session := reviewSession(t)

	report := service.Commit(context.Background(), session)
	require.Equal(t, OutcomeFailed, report.Outcome)
	assert.ErrorIs(t, report.Err, staging.ErrNoAccount)
	assert.Equal(t, 0, client.commitCalls, "no HTTP request may be issued without an account")
	assert.Equal(t, staging.StateReviewing, session.State())
}

func TestCommit_OpenEditBlocksBeforeRequest(t *testing.T) {
	client := &fakeLedger{}
	service := newTestService(client, nil)

	session := reviewSession(t)
	session.SetAccount("acc-1")
	_, err := session.BeginEdit(session.Transactions()[0].ID)
	require.NoError(t, err)

	report := service.Commit(context.Background(), session)
	require.Equal(t, OutcomeFailed, report.Outcome)
	assert.ErrorIs(t, report.Err, staging.ErrEditOpen)
	assert.Equal(t, 0, client.commitCalls)
}

func TestReview_RequiresCompletedParse(t *testing.T) {
	service := newTestService(&fakeLedger{}, nil)

	_, err := service.Review("doc-1", &models.ParseResult{Status: models.ParseStatusProcessing})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not parsed")

	session, err := service.Review("doc-1", &models.ParseResult{
		Status: models.ParseStatusCompleted,
		Data: &models.ExtractedData{
			Transactions: []models.ParsedTransaction{{Ticker: "PETR4"}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, staging.StateReviewing, session.State())
	assert.Len(t, session.Transactions(), 1)
}

func TestDeleteDocument_RemovesHistory(t *testing.T) {
	client := &fakeLedger{}
	history := newMemoryHistory()
	history.Save(context.Background(), &models.DocumentRecord{ID: "doc-1"})

	service := newTestService(client, history)
	require.NoError(t, service.DeleteDocument(context.Background(), "doc-1"))

	assert.Equal(t, []string{"doc-1"}, client.deleted)
	_, err := history.Get(context.Background(), "doc-1")
	assert.Error(t, err)
}
