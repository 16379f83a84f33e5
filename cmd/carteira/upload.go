package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/carteira-app/carteira/internal/models"
	"github.com/carteira-app/carteira/internal/services/importer"
)

type uploadCmd struct {
	docType string
	account string
	parse   bool
}

func (*uploadCmd) Name() string     { return "upload" }
func (*uploadCmd) Synopsis() string { return "upload one or more PDF statements" }
func (*uploadCmd) Usage() string {
	return `upload [-type <doc_type>] [-account <id>] [-parse] <file.pdf> [file.pdf ...]

  Queues the given PDF files and uploads them one at a time. A failed file
  reports its error and does not stop the rest of the batch. Files must be
  PDFs of at most the configured size limit (20MB by default).

`
}

func (c *uploadCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.docType, "type", models.DocTypeStatement, "Document type (statement, trade_note, fund_report, fixed_income_statement)")
	f.StringVar(&c.account, "account", "", "Destination account ID (optional, may be chosen at commit)")
	f.BoolVar(&c.parse, "parse", false, "Start parsing each document after upload")
}

func (c *uploadCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	paths := f.Args()
	if len(paths) == 0 {
		fail("at least one PDF file is required")
		return subcommands.ExitUsageError
	}

	app, err := newAppContext(true)
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	defer app.Close()

	queue := importer.NewUploadQueue()
	for _, p := range paths {
		queue.Add(p, c.docType, c.account)
	}

	app.Service.ProcessAll(ctx, queue, func(item *importer.UploadItem) {
		switch item.Status {
		case importer.UploadUploading:
			fmt.Printf("uploading  %s ...\n", item.FileName)
		case importer.UploadSuccess:
			fmt.Printf("uploaded   %s -> document %s\n", item.FileName, item.DocumentID)
		case importer.UploadError:
			fmt.Printf("failed     %s: %s\n", item.FileName, item.Error)
		}
	})

	succeeded := 0
	for _, item := range queue.Items() {
		if item.Status != importer.UploadSuccess {
			continue
		}
		succeeded++
		if c.parse {
			if _, err := app.Service.StartParse(ctx, item.DocumentID, true); err != nil {
				fail("failed to start parse for %s: %v", item.DocumentID, err)
			} else {
				fmt.Printf("parsing    %s (check with: status -id %s)\n", item.FileName, item.DocumentID)
			}
		}
	}

	if succeeded == 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
