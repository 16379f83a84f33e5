// Package models defines data structures for Carteira
package models

import "time"

// Document represents an uploaded brokerage document on the backend.
type Document struct {
	ID            string    `json:"id"`
	FileName      string    `json:"file_name"`
	DocType       string    `json:"doc_type"`
	AccountID     string    `json:"account_id,omitempty"`
	ParsingStatus string    `json:"parsing_status"`
	CreatedAt     time.Time `json:"created_at"`
}

// Document type constants
const (
	DocTypeStatement   = "statement"   // periodic brokerage statement
	DocTypeTradeNote   = "trade_note"  // nota de corretagem
	DocTypeFundReport  = "fund_report" // investment fund statement
	DocTypeFixedIncome = "fixed_income_statement"
)

// Parse status constants
const (
	ParseStatusPending    = "pending"
	ParseStatusProcessing = "processing"
	ParseStatusCompleted  = "completed"
	ParseStatusFailed     = "failed"
)

// Parse stage constants. Stages are only meaningful while status is
// "processing" and always advance in this order.
const (
	ParseStageDownloading  = "downloading"
	ParseStageProcessingAI = "processing_ai"
	ParseStageValidating   = "validating"
)

// ParseStages lists the processing stages in their fixed order.
var ParseStages = []string{ParseStageDownloading, ParseStageProcessingAI, ParseStageValidating}

// ParseResult is the backend's parse-status/result payload.
type ParseResult struct {
	Status string         `json:"status"`
	Stage  string         `json:"stage,omitempty"`
	Data   *ExtractedData `json:"data,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// Terminal reports whether the parse has reached a final state.
func (r *ParseResult) Terminal() bool {
	return r.Status == ParseStatusCompleted || r.Status == ParseStatusFailed
}

// stageIndex returns the position of a stage in the fixed ordering, or -1.
func stageIndex(stage string) int {
	for i, s := range ParseStages {
		if s == stage {
			return i
		}
	}
	return -1
}

// StageComplete reports whether the given stage has finished, based on the
// reported status and current stage. All stages are complete once parsing
// completed; a stage is complete while processing once the reported stage
// has advanced past it.
func (r *ParseResult) StageComplete(stage string) bool {
	if r.Status == ParseStatusCompleted {
		return true
	}
	if r.Status != ParseStatusProcessing {
		return false
	}
	idx := stageIndex(stage)
	cur := stageIndex(r.Stage)
	return idx >= 0 && cur > idx
}

// StageActive reports whether the given stage is the one currently running.
func (r *ParseResult) StageActive(stage string) bool {
	return r.Status == ParseStatusProcessing && r.Stage == stage
}

// Account represents a destination brokerage account for committed records.
type Account struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Broker   string `json:"broker"`
	Currency string `json:"currency"`
}
