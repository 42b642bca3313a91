package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/google/subcommands"

	"github.com/bobmcallan/thirteenf/internal/app"
	"github.com/bobmcallan/thirteenf/internal/common"
	"github.com/bobmcallan/thirteenf/internal/models"
)

// stageLabels are the user facing names of pipeline stages.
var stageLabels = map[models.Stage]string{
	models.StageExtract:   "extract data from the 13(f) list PDF",
	models.StageParse:     "extract data from the 13(f) list PDF",
	models.StageNormalize: "process portfolio",
	models.StageEmit:      "generate XML",
}

// generateCmd holds the flags for the 'generate' subcommand.
type generateCmd struct {
	filing    string
	portfolio string
	out       string
	quiet     bool
}

func (*generateCmd) Name() string     { return "generate" }
func (*generateCmd) Synopsis() string { return "build a 13F information table XML from the 13(f) list and a portfolio" }
func (*generateCmd) Usage() string {
	return `thirteenf generate -filing <13flist.pdf> -portfolio <holdings.xlsx|csv> -out <infotable.xml>

  Parses the Official List of Section 13(f) Securities, joins it with the
  portfolio holdings and writes the information table.
`
}

func (c *generateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.filing, "filing", "", "13(f) list PDF")
	f.StringVar(&c.portfolio, "portfolio", "", "portfolio workbook (.xlsx) or .csv")
	f.StringVar(&c.out, "out", "", "output XML file")
	f.BoolVar(&c.quiet, "q", false, "do not print the startup banner")
}

func (c *generateCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	in := app.Inputs{FilingPath: c.filing, PortfolioPath: c.portfolio, OutputPath: c.out}
	if !in.Complete() {
		fmt.Fprintf(os.Stderr, "Error: %v\n", app.ErrIncompleteSelection)
		return subcommands.ExitUsageError
	}

	a, err := app.NewApp(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if !c.quiet {
		common.PrintBanner(os.Stderr, a.Config, a.Logger)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	result, err := a.Generate(ctx, in)
	return report(os.Stdout, os.Stderr, result, err)
}

// report prints the outcome of a run and maps it to an exit status.
func report(stdout, stderr io.Writer, result *app.Result, err error) subcommands.ExitStatus {
	if err == nil {
		fmt.Fprintf(stdout, "XML report generated successfully at %s\n", result.OutputPath)
		for _, p := range result.Exports {
			fmt.Fprintf(stdout, "  exported %s\n", p)
		}
		return subcommands.ExitSuccess
	}
	if errors.Is(err, app.ErrIncompleteSelection) {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	fmt.Fprintln(stderr, describeFailure(err))
	return subcommands.ExitFailure
}

// describeFailure renders a stage failure as "Failed to <stage>: <cause>".
func describeFailure(err error) string {
	var se *models.StageError
	if errors.As(err, &se) {
		label, ok := stageLabels[se.Stage]
		if !ok {
			label = string(se.Stage)
		}
		return fmt.Sprintf("Failed to %s: %s: %v", label, se.Kind, se.Err)
	}
	return fmt.Sprintf("Failed: %v", err)
}
