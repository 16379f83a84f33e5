package models

import "time"

// CommitRequest converts user-approved extracted records into permanent
// ledger entries. Only selected rows are included; ephemeral row IDs and
// selection flags never reach this payload.
type CommitRequest struct {
	AccountID       string                 `json:"account_id"`
	Transactions    []ParsedTransaction    `json:"transactions"`
	FixedIncome     []ParsedFixedIncome    `json:"fixed_income"`
	StockLending    []ParsedStockLending   `json:"stock_lending"`
	CashMovements   []ParsedCashMovement   `json:"cash_movements"`
	InvestmentFunds []ParsedInvestmentFund `json:"investment_funds"`
}

// RowCount returns the total number of rows across all categories.
func (r *CommitRequest) RowCount() int {
	return len(r.Transactions) + len(r.FixedIncome) + len(r.StockLending) +
		len(r.CashMovements) + len(r.InvestmentFunds)
}

// CommitResponse reports what the backend created from a commit request.
// A non-empty Errors list with a 2xx response means some rows were imported
// and others were not — a partial failure, distinct from full success.
type CommitResponse struct {
	TransactionsCreated    int      `json:"transactions_created"`
	AssetsCreated          int      `json:"assets_created"`
	PositionsUpdated       int      `json:"positions_updated"`
	FixedIncomeCreated     int      `json:"fixed_income_created"`
	CashFlowsCreated       int      `json:"cash_flows_created"`
	InvestmentFundsCreated int      `json:"investment_funds_created"`
	Errors                 []string `json:"errors,omitempty"`
}

// TotalCreated returns the sum of all created-record counts.
func (r *CommitResponse) TotalCreated() int {
	return r.TransactionsCreated + r.FixedIncomeCreated +
		r.CashFlowsCreated + r.InvestmentFundsCreated
}

// Partial reports whether the backend accepted the request but rejected
// some rows.
func (r *CommitResponse) Partial() bool {
	return len(r.Errors) > 0
}

// DocumentRecord is the locally persisted history entry for an uploaded
// document. Staged review rows are never persisted — only metadata and the
// final commit outcome.
type DocumentRecord struct {
	ID          string    `json:"id" badgerhold:"key"`
	FileName    string    `json:"file_name"`
	DocType     string    `json:"doc_type"`
	AccountID   string    `json:"account_id,omitempty"`
	Status      string    `json:"status"` // uploaded, parsed, committed, commit_failed, deleted
	RowsCreated int       `json:"rows_created"`
	Errors      []string  `json:"errors,omitempty"`
	UploadedAt  time.Time `json:"uploaded_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Document history status constants
const (
	RecordStatusUploaded     = "uploaded"
	RecordStatusParsed       = "parsed"
	RecordStatusParseFailed  = "parse_failed"
	RecordStatusCommitted    = "committed"
	RecordStatusCommitFailed = "commit_failed"
)
