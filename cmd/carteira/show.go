package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/subcommands"

	"github.com/carteira-app/carteira/internal/common"
	"github.com/carteira-app/carteira/internal/staging"
)

type showCmd struct {
	id string
}

func (*showCmd) Name() string     { return "show" }
func (*showCmd) Synopsis() string { return "display the extracted records of a parsed document" }
func (*showCmd) Usage() string {
	return `show -id <document_id>

  Prints every non-empty extraction category as a table, followed by a
  summary of row counts and totals. Absent numeric values render as "-".

`
}

func (c *showCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Document ID (required)")
}

func (c *showCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.id == "" {
		fail("-id is required")
		return subcommands.ExitUsageError
	}

	app, err := newAppContext(false)
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	defer app.Close()

	result, err := app.Client.GetParseResult(ctx, c.id)
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}

	session, err := app.Service.Review(c.id, result)
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}

	if result.Data.Empty() {
		fmt.Println("No records were extracted from this document.")
		return subcommands.ExitSuccess
	}

	renderSession(session)
	return subcommands.ExitSuccess
}

// renderSession prints every non-empty category table and the summary.
func renderSession(session *staging.Session) {
	if rows := session.Transactions(); len(rows) > 0 {
		fmt.Printf("\nTransactions (%d)\n", len(rows))
		w := newTable()
		fmt.Fprintln(w, "  #\tDATE\tTYPE\tTICKER\tQTY\tPRICE\tTOTAL\tFEES")
		for i, row := range rows {
			t := row.Record
			fmt.Fprintf(w, "%s%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				selMark(row.Selected), i+1, t.Date, t.Type, t.Ticker,
				t.Quantity.DisplayNumber(), t.Price.Display(), t.Total.Display(), t.Fees.Display())
		}
		w.Flush()
	}

	if rows := session.FixedIncome(); len(rows) > 0 {
		fmt.Printf("\nFixed Income (%d)\n", len(rows))
		w := newTable()
		fmt.Fprintln(w, "  #\tASSET\tTYPE\tISSUER\tQTY\tUNIT\tTOTAL\tINDEXER\tRATE\tMATURITY")
		for i, row := range rows {
			f := row.Record
			fmt.Fprintf(w, "%s%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				selMark(row.Selected), i+1, f.AssetName, f.AssetType, f.Issuer,
				f.Quantity.DisplayNumber(), f.UnitPrice.Display(), f.TotalValue.Display(),
				f.Indexer, f.Rate.DisplayNumber(), f.MaturityDate)
		}
		w.Flush()
	}

	if rows := session.StockLending(); len(rows) > 0 {
		fmt.Printf("\nStock Lending (%d)\n", len(rows))
		w := newTable()
		fmt.Fprintln(w, "  #\tDATE\tOPERATION\tTICKER\tQTY\tRATE\tTOTAL")
		for i, row := range rows {
			l := row.Record
			fmt.Fprintf(w, "%s%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
				selMark(row.Selected), i+1, l.Date, l.Operation, l.Ticker,
				l.Quantity.DisplayNumber(), l.Rate.DisplayNumber(), l.Total.Display())
		}
		w.Flush()
	}

	if rows := session.CashMovements(); len(rows) > 0 {
		fmt.Printf("\nCash Movements (%d)\n", len(rows))
		w := newTable()
		fmt.Fprintln(w, "  #\tDATE\tTYPE\tDESCRIPTION\tTICKER\tVALUE")
		for i, row := range rows {
			m := row.Record
			fmt.Fprintf(w, "%s%d\t%s\t%s\t%s\t%s\t%s\n",
				selMark(row.Selected), i+1, m.Date, m.Type, m.Description, m.Ticker, m.Value.Display())
		}
		w.Flush()
	}

	if rows := session.InvestmentFunds(); len(rows) > 0 {
		fmt.Printf("\nInvestment Funds (%d)\n", len(rows))
		w := newTable()
		fmt.Fprintln(w, "  #\tFUND\tCNPJ\tQUOTAS\tQUOTA PRICE\tNET BALANCE\tIR\tREFERENCE")
		for i, row := range rows {
			f := row.Record
			fmt.Fprintf(w, "%s%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				selMark(row.Selected), i+1, f.FundName, f.CNPJ,
				f.QuotaQuantity.DisplayNumber(), f.QuotaPrice.Display(),
				f.NetBalance.Display(), f.IRProvision.Display(), f.ReferenceDate)
		}
		w.Flush()
	}

	renderSummary(session.Summary())
}

// renderSummary prints the per-category and overall selection figures.
func renderSummary(summary staging.Summary) {
	fmt.Println("\nSummary")
	w := newTable()
	fmt.Fprintln(w, "CATEGORY\tROWS\tSELECTED\tSELECTED SUM")
	for _, c := range summary.Categories {
		if c.Rows == 0 {
			continue
		}
		sum := "-"
		if c.SummedRows > 0 {
			sum = common.FormatBRL(c.SelectedSum)
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\n", c.Category, c.Rows, c.Selected, sum)
	}
	fmt.Fprintf(w, "total\t\t%d\t%s\n", summary.SelectedRows, common.FormatBRL(summary.SelectedSum))
	w.Flush()
}

func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
}

// selMark renders the selection checkbox column.
func selMark(selected bool) string {
	if selected {
		return "* "
	}
	return "  "
}
