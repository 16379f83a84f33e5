package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))

	commander.Register(commander.HelpCommand(), "")
	commander.Register(&uploadCmd{}, "documents")
	commander.Register(&parseCmd{}, "documents")
	commander.Register(&statusCmd{}, "documents")
	commander.Register(&showCmd{}, "documents")
	commander.Register(&commitCmd{}, "documents")
	commander.Register(&deleteCmd{}, "documents")
	commander.Register(&documentsCmd{}, "documents")
	commander.Register(&accountsCmd{}, "accounts")
	commander.Register(&historyCmd{}, "local")
	commander.Register(&versionCmd{}, "")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
