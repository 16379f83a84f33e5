package models

import "testing"

func TestCommitResponse_TotalCreatedAndPartial(t *testing.T) {
	resp := &CommitResponse{
		TransactionsCreated:    3,
		FixedIncomeCreated:     2,
		CashFlowsCreated:       1,
		InvestmentFundsCreated: 1,
		PositionsUpdated:       4,
	}
	if got := resp.TotalCreated(); got != 7 {
		t.Errorf("TotalCreated = %d, want 7", got)
	}
	if resp.Partial() {
		t.Error("response without errors should not be partial")
	}

	resp.Errors = []string{"row 2: invalid ticker"}
	if !resp.Partial() {
		t.Error("response with errors should be partial")
	}
}

func TestCommitRequest_RowCount(t *testing.T) {
	req := &CommitRequest{
		AccountID:     "acc-1",
		Transactions:  []ParsedTransaction{{}, {}},
		FixedIncome:   []ParsedFixedIncome{{}},
		CashMovements: []ParsedCashMovement{{}, {}, {}},
	}
	if got := req.RowCount(); got != 6 {
		t.Errorf("RowCount = %d, want 6", got)
	}
}
