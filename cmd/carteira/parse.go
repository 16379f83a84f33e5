package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

type parseCmd struct {
	id   string
	wait bool
}

func (*parseCmd) Name() string     { return "parse" }
func (*parseCmd) Synopsis() string { return "start AI extraction for an uploaded document" }
func (*parseCmd) Usage() string {
	return `parse -id <document_id> [-wait]

  Triggers statement parsing on the backend. With -wait, polls until the
  parse reaches a terminal state.

`
}

func (c *parseCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Document ID (required)")
	f.BoolVar(&c.wait, "wait", false, "Poll until parsing finishes")
}

func (c *parseCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	result, err := app.Service.StartParse(ctx, c.id, true)
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("parse started: status=%s\n", result.Status)

	if !c.wait {
		return subcommands.ExitSuccess
	}
	return pollAndRender(ctx, app, c.id)
}
