package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"

	"github.com/carteira-app/carteira/internal/models"
)

type statusCmd struct {
	id   string
	once bool
}

func (*statusCmd) Name() string     { return "status" }
func (*statusCmd) Synopsis() string { return "poll parse progress for a document" }
func (*statusCmd) Usage() string {
	return `status -id <document_id> [-once]

  Polls the parse result every few seconds until it completes or fails,
  printing stage progress. With -once, fetches the current status a single
  time and exits.

`
}

func (c *statusCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Document ID (required)")
	f.BoolVar(&c.once, "once", false, "Fetch once instead of polling")
}

func (c *statusCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.id == "" {
		fail("-id is required")
		return subcommands.ExitUsageError
	}

	app, err := newAppContext(true)
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	defer app.Close()

	if c.once {
		result, err := app.Client.GetParseResult(ctx, c.id)
		if err != nil {
			fail("%v", err)
			return subcommands.ExitFailure
		}
		renderParseProgress(result)
		if result.Status == models.ParseStatusFailed {
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	return pollAndRender(ctx, app, c.id)
}

// pollAndRender polls until the parse is terminal, printing a progress line
// per observation. Shared by the status and parse -wait commands.
func pollAndRender(ctx context.Context, app *appContext, documentID string) subcommands.ExitStatus {
	result, err := app.Service.Poll(ctx, documentID, renderParseProgress)
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}

	if result.Status == models.ParseStatusFailed {
		fail("parse failed: %s", result.Error)
		return subcommands.ExitFailure
	}

	fmt.Printf("parse completed (view with: show -id %s)\n", documentID)
	return subcommands.ExitSuccess
}

// renderParseProgress prints one status line with stage markers, e.g.
// "processing  [x] downloading  [>] processing_ai  [ ] validating".
func renderParseProgress(result *models.ParseResult) {
	var b strings.Builder
	fmt.Fprintf(&b, "%-11s", result.Status)
	for _, stage := range models.ParseStages {
		marker := " "
		switch {
		case result.StageComplete(stage):
			marker = "x"
		case result.StageActive(stage):
			marker = ">"
		}
		fmt.Fprintf(&b, "  [%s] %s", marker, stage)
	}
	fmt.Println(b.String())
}
