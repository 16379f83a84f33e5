package staging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carteira-app/carteira/internal/models"
)

func testExtractedData() *models.ExtractedData {
	return &models.ExtractedData{
		Transactions: []models.ParsedTransaction{
			{Date: "2024-03-10", Type: models.TransactionBuy, Ticker: "PETR4", Quantity: models.NewFlex(100), Total: models.NewFlex(3850)},
			{Date: "2024-03-12", Type: models.TransactionSell, Ticker: "VALE3", Quantity: models.NewFlex(50), Total: models.NewFlex(3400)},
		},
		FixedIncome: []models.ParsedFixedIncome{
			{AssetName: "CDB Banco Inter", AssetType: "CDB", Indexer: models.IndexerCDI, Rate: models.NewFlex(110), TotalValue: models.NewFlex(10000)},
		},
		CashMovements: []models.ParsedCashMovement{
			{Date: "2024-03-01", Type: "deposit", Description: "TED recebida", Value: models.NewFlex(5000)},
			{Date: "2024-03-20", Type: "withdrawal", Description: "Resgate", Value: models.NewFlex(-1200)},
		},
	}
}

func TestSession_Lifecycle(t *testing.T) {
	s := NewSession("doc-1")
	assert.Equal(t, StateUploading, s.State())

	s.MarkProcessing()
	assert.Equal(t, StateProcessing, s.State())

	s.LoadExtracted(testExtractedData())
	assert.Equal(t, StateReviewing, s.State())
	assert.Len(t, s.Transactions(), 2)
	assert.Len(t, s.FixedIncome(), 1)
	assert.Len(t, s.CashMovements(), 2)
}

func TestSession_ParseFailureIsTerminal(t *testing.T) {
	s := NewSession("doc-1")
	s.MarkProcessing()
	s.MarkParseFailed("extraction model returned no data")

	assert.Equal(t, StateFailed, s.State())
	assert.Equal(t, "extraction model returned no data", s.LastError())

	err := s.Toggle(CategoryTransactions, "any")
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestSession_BeginCommitRequiresAccount(t *testing.T) {
	s := NewReviewSession("doc-1", testExtractedData())

	req, err := s.BeginCommit()
	require.ErrorIs(t, err, ErrNoAccount)
	assert.Nil(t, req)
	// Refusal happens before any state change
	assert.Equal(t, StateReviewing, s.State())
}

func TestSession_BeginCommitBlockedByOpenEdit(t *testing.T) {
	s := NewReviewSession("doc-1", testExtractedData())
	s.SetAccount("acc-1")

	rowID := s.Transactions()[0].ID
	_, err := s.BeginEdit(rowID)
	require.NoError(t, err)

	_, err = s.BeginCommit()
	require.ErrorIs(t, err, ErrEditOpen)

	s.CancelEdit()
	req, err := s.BeginCommit()
	require.NoError(t, err)
	assert.Equal(t, 5, req.RowCount())
}

func TestSession_CommitPayloadExcludesUnselected(t *testing.T) {
	s := NewReviewSession("doc-1", testExtractedData())
	s.SetAccount("acc-1")

	// Deselect one transaction, remove one cash movement
	txID := s.Transactions()[1].ID
	require.NoError(t, s.Toggle(CategoryTransactions, txID))
	cmID := s.CashMovements()[0].ID
	require.NoError(t, s.Remove(CategoryCashMovements, cmID))

	req, err := s.BeginCommit()
	require.NoError(t, err)

	assert.Equal(t, "acc-1", req.AccountID)
	require.Len(t, req.Transactions, 1)
	assert.Equal(t, "PETR4", req.Transactions[0].Ticker)
	assert.Len(t, req.FixedIncome, 1)
	require.Len(t, req.CashMovements, 1)
	assert.Equal(t, "Resgate", req.CashMovements[0].Description)
}

func TestSession_StagingLockedWhileCommitting(t *testing.T) {
	s := NewReviewSession("doc-1", testExtractedData())
	s.SetAccount("acc-1")

	_, err := s.BeginCommit()
	require.NoError(t, err)
	assert.Equal(t, StateCommitting, s.State())

	rowID := s.Transactions()[0].ID
	assert.ErrorIs(t, s.Toggle(CategoryTransactions, rowID), ErrCommitInFlight)
	assert.ErrorIs(t, s.ToggleAll(CategoryTransactions), ErrCommitInFlight)
	assert.ErrorIs(t, s.Remove(CategoryTransactions, rowID), ErrCommitInFlight)
	_, err = s.BeginEdit(rowID)
	assert.ErrorIs(t, err, ErrCommitInFlight)

	// A second commit cannot start while one is in flight
	_, err = s.BeginCommit()
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestSession_FailedCommitIsRetryable(t *testing.T) {
	s := NewReviewSession("doc-1", testExtractedData())
	s.SetAccount("acc-1")

	first, err := s.BeginCommit()
	require.NoError(t, err)

	s.FailCommit(assert.AnError)
	assert.Equal(t, StateCommitFailed, s.State())
	assert.NotEmpty(t, s.LastError())

	// Staging survives the failure: rows can still be adjusted and the
	// commit retried with the same content.
	rowID := s.Transactions()[0].ID
	require.NoError(t, s.Toggle(CategoryTransactions, rowID))
	require.NoError(t, s.Toggle(CategoryTransactions, rowID))

	second, err := s.BeginCommit()
	require.NoError(t, err)
	assert.Equal(t, first.RowCount(), second.RowCount())
}

func TestSession_CompleteCommit(t *testing.T) {
	s := NewReviewSession("doc-1", testExtractedData())
	s.SetAccount("acc-1")
	_, err := s.BeginCommit()
	require.NoError(t, err)

	s.CompleteCommit(&models.CommitResponse{TransactionsCreated: 2})
	assert.Equal(t, StateCommitted, s.State())
	assert.Empty(t, s.LastError())
}

func TestSession_CompleteCommitPartialRecordsError(t *testing.T) {
	s := NewReviewSession("doc-1", testExtractedData())
	s.SetAccount("acc-1")
	_, err := s.BeginCommit()
	require.NoError(t, err)

	s.CompleteCommit(&models.CommitResponse{TransactionsCreated: 1, Errors: []string{"row 2: unknown ticker"}})
	assert.Equal(t, StateCommitted, s.State())
	assert.Contains(t, s.LastError(), "1 row(s) rejected")
}

func TestSession_EditDraftIsolation(t *testing.T) {
	s := NewReviewSession("doc-1", testExtractedData())
	rowID := s.Transactions()[0].ID

	draft, err := s.BeginEdit(rowID)
	require.NoError(t, err)
	draft.Ticker = "ITUB4"
	draft.Quantity = models.NewFlex(200)

	// Draft changes are invisible until saved
	assert.Equal(t, "PETR4", s.Transactions()[0].Record.Ticker)

	require.NoError(t, s.SaveEdit(rowID, draft))
	assert.Equal(t, "ITUB4", s.Transactions()[0].Record.Ticker)
	assert.False(t, s.EditOpen())
}

func TestSession_CancelEditDiscardsDraft(t *testing.T) {
	s := NewReviewSession("doc-1", testExtractedData())
	rowID := s.Transactions()[0].ID

	draft, err := s.BeginEdit(rowID)
	require.NoError(t, err)
	draft.Ticker = "ITUB4"

	s.CancelEdit()
	assert.Equal(t, "PETR4", s.Transactions()[0].Record.Ticker)
	assert.False(t, s.EditOpen())
}

func TestSession_SaveEditRejectsInvalidType(t *testing.T) {
	s := NewReviewSession("doc-1", testExtractedData())
	rowID := s.Transactions()[0].ID

	draft, err := s.BeginEdit(rowID)
	require.NoError(t, err)
	draft.Type = "short"

	err = s.SaveEdit(rowID, draft)
	require.Error(t, err)
	// The edit stays open so the user can fix the draft
	assert.True(t, s.EditOpen())
}

func TestSession_SecondEditBlocked(t *testing.T) {
	s := NewReviewSession("doc-1", testExtractedData())
	rows := s.Transactions()

	_, err := s.BeginEdit(rows[0].ID)
	require.NoError(t, err)
	_, err = s.BeginEdit(rows[1].ID)
	assert.ErrorIs(t, err, ErrEditOpen)
}

func TestSession_RemoveBlockedForOpenEditRow(t *testing.T) {
	s := NewReviewSession("doc-1", testExtractedData())
	rowID := s.Transactions()[0].ID

	_, err := s.BeginEdit(rowID)
	require.NoError(t, err)

	assert.ErrorIs(t, s.Remove(CategoryTransactions, rowID), ErrEditOpen)
}

func TestSession_UnknownCategory(t *testing.T) {
	s := NewReviewSession("doc-1", testExtractedData())
	assert.ErrorIs(t, s.Toggle(Category("bonds"), "x"), ErrUnknownCategory)
}

func TestSession_ToggleUnknownRow(t *testing.T) {
	s := NewReviewSession("doc-1", testExtractedData())
	assert.ErrorIs(t, s.Toggle(CategoryTransactions, "missing"), ErrRowNotFound)
}

func TestSession_SummarySkipsAbsentValues(t *testing.T) {
	data := &models.ExtractedData{
		Transactions: []models.ParsedTransaction{
			{Ticker: "PETR4", Total: models.NewFlex(1000)},
			{Ticker: "VALE3"}, // total absent: excluded from sum, not counted as zero
			{Ticker: "ITUB4", Total: models.NewFlex(500)},
		},
	}
	s := NewReviewSession("doc-1", data)

	summary := s.Summary()
	require.Len(t, summary.Categories, 5)

	tx := summary.Categories[0]
	assert.Equal(t, CategoryTransactions, tx.Category)
	assert.Equal(t, 3, tx.Rows)
	assert.Equal(t, 3, tx.Selected)
	assert.Equal(t, 1500.0, tx.SelectedSum)
	assert.Equal(t, 2, tx.SummedRows)

	assert.Equal(t, 3, summary.SelectedRows)
	assert.Equal(t, 1500.0, summary.SelectedSum)
}

func TestSession_SummaryTracksSelection(t *testing.T) {
	s := NewReviewSession("doc-1", testExtractedData())

	// Deselect the PETR4 buy (total 3850)
	require.NoError(t, s.Toggle(CategoryTransactions, s.Transactions()[0].ID))

	summary := s.Summary()
	tx := summary.Categories[0]
	assert.Equal(t, 1, tx.Selected)
	assert.Equal(t, 3400.0, tx.SelectedSum)
	assert.False(t, tx.AllSelected)
}
