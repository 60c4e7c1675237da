package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/petekp/sessiontrack/internal/cmd"
	"github.com/petekp/sessiontrack/internal/config"
	"github.com/petekp/sessiontrack/internal/logging"
	"github.com/petekp/sessiontrack/version"
)

func main() {
	// Load settings before parsing so flag defaults can come from the file.
	// A broken settings file must not take the hook path down with it.
	var cli cmd.CLI
	settings, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	} else {
		cli.SetSettings(settings)
	}

	ctx := kong.Parse(&cli,
		kong.Name("sessiontrack"),
		kong.Description(version.Tagline),
		kong.UsageOnError(),
		kong.Vars{"version": version.Info()},
	)
	defer cli.Close()

	if err := ctx.Run(&cli); err != nil {
		logging.Logger.Error("Command failed", "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
