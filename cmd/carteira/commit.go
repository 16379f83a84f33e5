package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/subcommands"

	"github.com/carteira-app/carteira/internal/services/importer"
	"github.com/carteira-app/carteira/internal/staging"
)

type commitCmd struct {
	id      string
	account string
	exclude string
	skip    string
}

func (*commitCmd) Name() string     { return "commit" }
func (*commitCmd) Synopsis() string { return "import a parsed document's records into an account" }
func (*commitCmd) Usage() string {
	return `commit -id <document_id> -account <account_id> [-exclude <categories>] [-skip <rows>]

  Submits the selected extracted rows for import. All rows start selected;
  -exclude drops whole categories (comma-separated, e.g.
  "stock_lending,cash_movements") and -skip drops individual rows by the
  row numbers printed by show (e.g. "transactions:2,5 fixed_income:1").

`
}

func (c *commitCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Document ID (required)")
	f.StringVar(&c.account, "account", "", "Destination account ID (required)")
	f.StringVar(&c.exclude, "exclude", "", "Comma-separated categories to leave out entirely")
	f.StringVar(&c.skip, "skip", "", "Space-separated category:rows pairs to deselect")
}

func (c *commitCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	session.SetAccount(c.account)

	if err := applySelections(session, c.exclude, c.skip); err != nil {
		fail("%v", err)
		return subcommands.ExitUsageError
	}

	report := app.Service.Commit(ctx, session)
	switch report.Outcome {
	case importer.OutcomeSuccess:
		resp := report.Response
		fmt.Printf("Imported %d record(s): %d transaction(s), %d fixed income, %d cash flow(s), %d fund(s); %d position(s) updated.\n",
			resp.TotalCreated(), resp.TransactionsCreated, resp.FixedIncomeCreated,
			resp.CashFlowsCreated, resp.InvestmentFundsCreated, resp.PositionsUpdated)
		return subcommands.ExitSuccess

	case importer.OutcomePartial:
		resp := report.Response
		fmt.Printf("Partially imported: %d record(s) created, %d rejected.\n",
			resp.TotalCreated(), len(resp.Errors))
		for _, e := range resp.Errors {
			fmt.Printf("  - %s\n", e)
		}
		return subcommands.ExitFailure

	default:
		if errors.Is(report.Err, staging.ErrNoAccount) {
			fail("choose a destination account with -account (list them with: accounts)")
			return subcommands.ExitUsageError
		}
		fail("commit failed: %v", report.Err)
		return subcommands.ExitFailure
	}
}

// applySelections applies -exclude and -skip to a freshly loaded session,
// where every row starts selected.
func applySelections(session *staging.Session, exclude, skip string) error {
	for _, name := range splitList(exclude, ",") {
		cat, err := parseCategory(name)
		if err != nil {
			return err
		}
		// All rows start selected, so toggling the select-all checkbox
		// deselects the whole category.
		if err := session.ToggleAll(cat); err != nil {
			return err
		}
	}

	for _, pair := range splitList(skip, " ") {
		name, list, ok := strings.Cut(pair, ":")
		if !ok {
			return fmt.Errorf("invalid -skip entry %q, expected category:rows", pair)
		}
		cat, err := parseCategory(name)
		if err != nil {
			return err
		}
		rowIDs, err := categoryRowIDs(session, cat)
		if err != nil {
			return err
		}
		for _, num := range splitList(list, ",") {
			idx, err := strconv.Atoi(num)
			if err != nil || idx < 1 || idx > len(rowIDs) {
				return fmt.Errorf("invalid row number %q for %s (1-%d)", num, cat, len(rowIDs))
			}
			if err := session.Toggle(cat, rowIDs[idx-1]); err != nil {
				return err
			}
		}
	}
	return nil
}

// categoryRowIDs returns the row IDs of a category in display order.
func categoryRowIDs(session *staging.Session, cat staging.Category) ([]string, error) {
	var ids []string
	switch cat {
	case staging.CategoryTransactions:
		for _, r := range session.Transactions() {
			ids = append(ids, r.ID)
		}
	case staging.CategoryFixedIncome:
		for _, r := range session.FixedIncome() {
			ids = append(ids, r.ID)
		}
	case staging.CategoryStockLending:
		for _, r := range session.StockLending() {
			ids = append(ids, r.ID)
		}
	case staging.CategoryCashMovements:
		for _, r := range session.CashMovements() {
			ids = append(ids, r.ID)
		}
	case staging.CategoryInvestmentFunds:
		for _, r := range session.InvestmentFunds() {
			ids = append(ids, r.ID)
		}
	default:
		return nil, fmt.Errorf("unknown category %q", cat)
	}
	return ids, nil
}

// parseCategory maps a flag value to a staging category.
func parseCategory(name string) (staging.Category, error) {
	cat := staging.Category(strings.TrimSpace(name))
	for _, known := range staging.Categories {
		if cat == known {
			return cat, nil
		}
	}
	return "", fmt.Errorf("unknown category %q (valid: %s)", name, categoryNames())
}

func categoryNames() string {
	names := make([]string, len(staging.Categories))
	for i, c := range staging.Categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

// splitList splits on a separator, trimming and dropping empty entries.
func splitList(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
