package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/bobmcallan/thirteenf/internal/app"
)

// parseCmd holds the flags for the 'parse' subcommand.
type parseCmd struct {
	filing string
}

func (*parseCmd) Name() string     { return "parse" }
func (*parseCmd) Synopsis() string { return "print the securities parsed from a 13(f) list PDF as JSON" }
func (*parseCmd) Usage() string {
	return `thirteenf parse -filing <13flist.pdf>
`
}

func (c *parseCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.filing, "filing", "", "13(f) list PDF")
}

func (c *parseCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.filing == "" {
		fmt.Fprintln(os.Stderr, "Error: -filing is required")
		return subcommands.ExitUsageError
	}

	a, err := app.NewApp(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	records, err := a.ParseFiling(ctx, c.filing)
	if err != nil {
		fmt.Fprintln(os.Stderr, describeFailure(err))
		return subcommands.ExitFailure
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing JSON: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
