package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/subcommands"
)

type documentsCmd struct{}

func (*documentsCmd) Name() string     { return "documents" }
func (*documentsCmd) Synopsis() string { return "list uploaded documents on the backend" }
func (*documentsCmd) Usage() string {
	return `documents

  Lists every document known to the backend with its parsing status.

`
}

func (*documentsCmd) SetFlags(*flag.FlagSet) {}

func (*documentsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	app, err := newAppContext(false)
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	defer app.Close()

	docs, err := app.Client.ListDocuments(ctx)
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}

	if len(docs) == 0 {
		fmt.Println("No documents uploaded yet.")
		return subcommands.ExitSuccess
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tFILE\tTYPE\tSTATUS\tUPLOADED")
	for _, d := range docs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			d.ID, d.FileName, d.DocType, d.ParsingStatus, d.CreatedAt.Format("2006-01-02 15:04"))
	}
	w.Flush()
	return subcommands.ExitSuccess
}

type deleteCmd struct {
	id string
}

func (*deleteCmd) Name() string     { return "delete" }
func (*deleteCmd) Synopsis() string { return "delete a document from the backend" }
func (*deleteCmd) Usage() string {
	return `delete -id <document_id>

  Removes the document from the backend and from the local history.

`
}

func (c *deleteCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Document ID (required)")
}

func (c *deleteCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	if err := app.Service.DeleteDocument(ctx, c.id); err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Document %s deleted.\n", c.id)
	return subcommands.ExitSuccess
}
