package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

// configPath is the -config flag shared by every subcommand.
var configPath string

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(&generateCmd{}, "")
	commander.Register(&parseCmd{}, "")
	commander.Register(&versionCmd{}, "")

	flag.StringVar(&configPath, "config", "", "path to thirteenf.toml (default: $THIRTEENF_CONFIG, then next to the binary)")
	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
