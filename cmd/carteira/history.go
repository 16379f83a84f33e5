package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/subcommands"
)

type historyCmd struct{}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "show the local import history" }
func (*historyCmd) Usage() string {
	return `history

  Lists the documents this machine has uploaded and their import outcomes,
  from the local history database. Works offline.

`
}

func (*historyCmd) SetFlags(*flag.FlagSet) {}

func (*historyCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	app, err := newAppContext(true)
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	defer app.Close()

	if app.History == nil {
		fail("local history is unavailable")
		return subcommands.ExitFailure
	}

	recs, err := app.History.List(ctx)
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}

	if len(recs) == 0 {
		fmt.Println("No imports recorded yet.")
		return subcommands.ExitSuccess
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tFILE\tSTATUS\tROWS\tUPLOADED")
	for _, rec := range recs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
			rec.ID, rec.FileName, rec.Status, rec.RowsCreated, rec.UploadedAt.Format("2006-01-02 15:04"))
	}
	w.Flush()
	return subcommands.ExitSuccess
}
