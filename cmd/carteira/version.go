package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/carteira-app/carteira/internal/common"
)

type versionCmd struct {
	banner bool
}

func (*versionCmd) Name() string     { return "version" }
func (*versionCmd) Synopsis() string { return "print version information" }
func (*versionCmd) Usage() string {
	return `version [-banner]

`
}

func (c *versionCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.banner, "banner", false, "Show the startup banner")
}

func (c *versionCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.banner {
		config, err := common.LoadConfig()
		if err != nil {
			config = common.NewDefaultConfig()
		}
		common.PrintBanner(config, common.NewLoggerFromConfig(config.Logging))
		return subcommands.ExitSuccess
	}

	fmt.Printf("carteira %s\n", common.GetFullVersion())
	return subcommands.ExitSuccess
}
