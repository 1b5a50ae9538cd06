package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

// Globals are flags shared by every subcommand
type Globals struct {
	Config   string `short:"c" default:"squares.hcl" help:"Path to HCL configuration file"`
	LogLevel string `short:"l" help:"Log level (overrides config)"`
	Debug    bool   `help:"Enable debug logging"`
}

type CLI struct {
	Globals

	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Serve    ServeCmd         `cmd:"" help:"Run the pool server"`
	Play     PlayCmd          `cmd:"" help:"Run a pool locally in the terminal"`
	Client   ClientCmd        `cmd:"" help:"Connect to a pool server with the terminal UI"`
	Simulate SimulateCmd      `cmd:"" help:"Simulate many pools and report win shares"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("squares"),
		kong.Description("Super Bowl squares pool: sell squares, draw numbers, pay out quarters"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
