package models

import "testing"

func TestParseResult_Terminal(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{ParseStatusPending, false},
		{ParseStatusProcessing, false},
		{ParseStatusCompleted, true},
		{ParseStatusFailed, true},
	}
	for _, tt := range tests {
		r := &ParseResult{Status: tt.status}
		if got := r.Terminal(); got != tt.want {
			t.Errorf("Terminal() with status %q = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestParseResult_StageProgression(t *testing.T) {
	r := &ParseResult{Status: ParseStatusProcessing, Stage: ParseStageProcessingAI}

	if !r.StageComplete(ParseStageDownloading) {
		t.Error("downloading should be complete while processing_ai runs")
	}
	if r.StageComplete(ParseStageProcessingAI) {
		t.Error("the active stage is not complete")
	}
	if !r.StageActive(ParseStageProcessingAI) {
		t.Error("processing_ai should be active")
	}
	if r.StageComplete(ParseStageValidating) || r.StageActive(ParseStageValidating) {
		t.Error("validating has not started yet")
	}
}

func TestParseResult_CompletedMarksAllStages(t *testing.T) {
	r := &ParseResult{Status: ParseStatusCompleted}
	for _, stage := range ParseStages {
		if !r.StageComplete(stage) {
			t.Errorf("stage %q should be complete once parsing completed", stage)
		}
		if r.StageActive(stage) {
			t.Errorf("stage %q should not be active once parsing completed", stage)
		}
	}
}

func TestParseResult_PendingHasNoStageProgress(t *testing.T) {
	r := &ParseResult{Status: ParseStatusPending}
	for _, stage := range ParseStages {
		if r.StageComplete(stage) || r.StageActive(stage) {
			t.Errorf("pending parse should show no progress for %q", stage)
		}
	}
}

func TestParseResult_UnknownStage(t *testing.T) {
	// An unknown reported stage must not mark known stages complete
	r := &ParseResult{Status: ParseStatusProcessing, Stage: "warming_up"}
	if r.StageComplete(ParseStageDownloading) {
		t.Error("unknown stage should not complete downloading")
	}
}
