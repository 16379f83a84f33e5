package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/subcommands"
)

type accountsCmd struct{}

func (*accountsCmd) Name() string     { return "accounts" }
func (*accountsCmd) Synopsis() string { return "list destination accounts" }
func (*accountsCmd) Usage() string {
	return `accounts

  Lists the accounts records can be committed into.

`
}

func (*accountsCmd) SetFlags(*flag.FlagSet) {}

func (*accountsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	app, err := newAppContext(false)
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	defer app.Close()

	accounts, err := app.Client.ListAccounts(ctx)
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}

	if len(accounts) == 0 {
		fmt.Println("No accounts found. Create one on the backend first.")
		return subcommands.ExitSuccess
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tBROKER\tCURRENCY")
	for _, a := range accounts {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", a.ID, a.Name, a.Broker, a.Currency)
	}
	w.Flush()
	return subcommands.ExitSuccess
}
