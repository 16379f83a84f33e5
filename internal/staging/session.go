package staging

import (
	"errors"
	"fmt"
	"sync"

	"github.com/carteira-app/carteira/internal/models"
)

// State is the lifecycle state of one parse-review session.
type State string

const (
	StateUploading    State = "uploading"
	StateProcessing   State = "processing"
	StateReviewing    State = "reviewing"
	StateCommitting   State = "committing"
	StateCommitted    State = "committed"
	StateCommitFailed State = "commit_failed" // retryable; reviewing is re-entrant
	StateFailed       State = "failed"        // terminal parse failure
)

// Category identifies one extraction category within a session.
type Category string

const (
	CategoryTransactions    Category = "transactions"
	CategoryFixedIncome     Category = "fixed_income"
	CategoryStockLending    Category = "stock_lending"
	CategoryCashMovements   Category = "cash_movements"
	CategoryInvestmentFunds Category = "investment_funds"
)

// Categories lists the extraction categories in display order.
var Categories = []Category{
	CategoryTransactions,
	CategoryFixedIncome,
	CategoryStockLending,
	CategoryCashMovements,
	CategoryInvestmentFunds,
}

// Sentinel errors for session flow control.
var (
	ErrNoAccount      = errors.New("no destination account selected")
	ErrEditOpen       = errors.New("a row edit is still open; save or cancel it before committing")
	ErrCommitInFlight = errors.New("a commit is in progress; staging is locked")
	ErrRowNotFound    = errors.New("row not found")
	ErrInvalidState   = errors.New("operation not valid in current session state")
	ErrUnknownCategory = errors.New("unknown category")
)

// Session owns the staged extraction data for one document review. All
// mutation goes through the session so selection, editing, and commit
// submission observe a single consistency policy: rows cannot change while a
// commit is in flight, and an open edit blocks submission.
type Session struct {
	mu         sync.Mutex
	documentID string
	accountID  string
	state      State
	lastError  string

	transactions    *Set[models.ParsedTransaction]
	fixedIncome     *Set[models.ParsedFixedIncome]
	stockLending    *Set[models.ParsedStockLending]
	cashMovements   *Set[models.ParsedCashMovement]
	investmentFunds *Set[models.ParsedInvestmentFund]

	editRowID string
	editDraft models.ParsedTransaction
}

// NewSession creates a session for a document whose upload just started.
func NewSession(documentID string) *Session {
	return &Session{
		documentID:      documentID,
		state:           StateUploading,
		transactions:    NewSet[models.ParsedTransaction](nil),
		fixedIncome:     NewSet[models.ParsedFixedIncome](nil),
		stockLending:    NewSet[models.ParsedStockLending](nil),
		cashMovements:   NewSet[models.ParsedCashMovement](nil),
		investmentFunds: NewSet[models.ParsedInvestmentFund](nil),
	}
}

// NewReviewSession creates a session directly in the reviewing state from a
// completed parse result. Every extracted row starts selected.
func NewReviewSession(documentID string, data *models.ExtractedData) *Session {
	s := NewSession(documentID)
	s.LoadExtracted(data)
	return s
}

// DocumentID returns the backend document this session reviews.
func (s *Session) DocumentID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.documentID
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastError returns the most recent parse or commit error message.
func (s *Session) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

// MarkProcessing transitions uploading -> processing.
func (s *Session) MarkProcessing() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateUploading {
		s.state = StateProcessing
	}
}

// MarkParseFailed transitions to the terminal failed state.
func (s *Session) MarkParseFailed(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateFailed
	s.lastError = message
}

// LoadExtracted stages a completed parse result for review. All rows start
// selected.
func (s *Session) LoadExtracted(data *models.ExtractedData) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if data != nil {
		s.transactions = NewSet(data.Transactions)
		s.fixedIncome = NewSet(data.FixedIncome)
		s.stockLending = NewSet(data.StockLending)
		s.cashMovements = NewSet(data.CashMovements)
		s.investmentFunds = NewSet(data.InvestmentFunds)
	}
	s.state = StateReviewing
}

// SetAccount chooses the destination account for the commit.
func (s *Session) SetAccount(accountID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accountID = accountID
}

// AccountID returns the chosen destination account, or "".
func (s *Session) AccountID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accountID
}

// set returns the category-agnostic view of one category's set.
func (s *Session) set(cat Category) (ops, error) {
	switch cat {
	case CategoryTransactions:
		return s.transactions, nil
	case CategoryFixedIncome:
		return s.fixedIncome, nil
	case CategoryStockLending:
		return s.stockLending, nil
	case CategoryCashMovements:
		return s.cashMovements, nil
	case CategoryInvestmentFunds:
		return s.investmentFunds, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownCategory, cat)
}

// mutable reports whether staging rows may change in the current state.
func (s *Session) mutable() error {
	switch s.state {
	case StateReviewing, StateCommitFailed:
		return nil
	case StateCommitting:
		return ErrCommitInFlight
	default:
		return fmt.Errorf("%w: %s", ErrInvalidState, s.state)
	}
}

// Toggle flips one row's selection in a category.
func (s *Session) Toggle(cat Category, rowID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.mutable(); err != nil {
		return err
	}
	set, err := s.set(cat)
	if err != nil {
		return err
	}
	if !set.toggle(rowID) {
		return ErrRowNotFound
	}
	return nil
}

// ToggleAll applies the select-all checkbox semantics to a category.
func (s *Session) ToggleAll(cat Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.mutable(); err != nil {
		return err
	}
	set, err := s.set(cat)
	if err != nil {
		return err
	}
	set.toggleAll()
	return nil
}

// Remove deletes a row from a category entirely.
func (s *Session) Remove(cat Category, rowID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.mutable(); err != nil {
		return err
	}
	if s.editRowID == rowID {
		return ErrEditOpen
	}
	set, err := s.set(cat)
	if err != nil {
		return err
	}
	if !set.remove(rowID) {
		return ErrRowNotFound
	}
	return nil
}

// Transactions returns the transaction rows for display.
func (s *Session) Transactions() []Row[models.ParsedTransaction] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transactions.Rows()
}

// FixedIncome returns the fixed-income rows for display.
func (s *Session) FixedIncome() []Row[models.ParsedFixedIncome] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fixedIncome.Rows()
}

// StockLending returns the stock-lending rows for display.
func (s *Session) StockLending() []Row[models.ParsedStockLending] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stockLending.Rows()
}

// CashMovements returns the cash-movement rows for display.
func (s *Session) CashMovements() []Row[models.ParsedCashMovement] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cashMovements.Rows()
}

// InvestmentFunds returns the investment-fund rows for display.
func (s *Session) InvestmentFunds() []Row[models.ParsedInvestmentFund] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.investmentFunds.Rows()
}

// BeginEdit opens the edit overlay for a transaction row and returns a draft
// copy. Changes to the draft do not touch the row until SaveEdit.
func (s *Session) BeginEdit(rowID string) (models.ParsedTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero models.ParsedTransaction
	if err := s.mutable(); err != nil {
		return zero, err
	}
	if s.editRowID != "" {
		return zero, ErrEditOpen
	}
	row, ok := s.transactions.Get(rowID)
	if !ok {
		return zero, ErrRowNotFound
	}
	s.editRowID = rowID
	s.editDraft = row.Record
	return row.Record, nil
}

// SaveEdit merges the edited fields back into the open row and closes the
// overlay.
func (s *Session) SaveEdit(rowID string, draft models.ParsedTransaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.mutable(); err != nil {
		return err
	}
	if s.editRowID == "" || s.editRowID != rowID {
		return fmt.Errorf("%w: no edit open for row %s", ErrRowNotFound, rowID)
	}
	if draft.Type != "" && !models.ValidTransactionType(draft.Type) {
		return fmt.Errorf("invalid transaction type %q", draft.Type)
	}
	if !s.transactions.Update(rowID, draft) {
		s.editRowID = ""
		return ErrRowNotFound
	}
	s.editRowID = ""
	return nil
}

// CancelEdit closes the overlay, discarding the draft without mutating the
// row.
func (s *Session) CancelEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editRowID = ""
}

// EditOpen reports whether an edit overlay is currently open.
func (s *Session) EditOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editRowID != ""
}

// BeginCommit validates the session and builds the commit request from the
// selected rows, transitioning to the committing state. Submission is
// refused — without any request being constructed — when no destination
// account is chosen or an edit overlay is still open.
func (s *Session) BeginCommit() (*models.CommitRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateReviewing && s.state != StateCommitFailed {
		return nil, fmt.Errorf("%w: %s", ErrInvalidState, s.state)
	}
	if s.editRowID != "" {
		return nil, ErrEditOpen
	}
	if s.accountID == "" {
		return nil, ErrNoAccount
	}

	req := &models.CommitRequest{
		AccountID:       s.accountID,
		Transactions:    s.transactions.Selected(),
		FixedIncome:     s.fixedIncome.Selected(),
		StockLending:    s.stockLending.Selected(),
		CashMovements:   s.cashMovements.Selected(),
		InvestmentFunds: s.investmentFunds.Selected(),
	}

	s.state = StateCommitting
	return req, nil
}

// CompleteCommit records a successful (possibly partial) commit response.
func (s *Session) CompleteCommit(resp *models.CommitResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateCommitted
	if resp != nil && resp.Partial() {
		s.lastError = fmt.Sprintf("%d row(s) rejected", len(resp.Errors))
	}
}

// FailCommit records a failed commit attempt. Staging state is untouched so
// the user may adjust and retry.
func (s *Session) FailCommit(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateCommitFailed
	if err != nil {
		s.lastError = err.Error()
	}
}
