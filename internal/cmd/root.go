package cmd

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/petekp/sessiontrack/internal/config"
	"github.com/petekp/sessiontrack/internal/logging"
)

// CLI represents the command-line interface structure
type CLI struct {
	Version     kong.VersionFlag `help:"Show version information"`
	Debug       bool             `help:"Enable debug logging to file" short:"d"`
	DebugFile   string           `help:"Custom path for debug log file (disables automatic cleanup)"`
	MaxLogFiles int              `help:"Maximum number of log files to keep (0 = unlimited)" default:"1000"`

	Status   StatusCmd   `cmd:"status" help:"Show tracked sessions and their states" default:"1"`
	Sessions SessionsCmd `cmd:"sessions" help:"Inspect tracked sessions (list, history)"`
	Setup    SetupCmd    `cmd:"setup" help:"Install the hook configuration into Claude Code settings"`
	Hook     HookCmd     `cmd:"hook" help:"Handle a hook event delivered on stdin" hidden:""`
	Watch    WatchCmd    `cmd:"watch" help:"Watch a session's owning process" hidden:""`
	Publish  PublishCmd  `cmd:"publish" help:"Aggregate and publish the project view" hidden:""`
	Enrich   EnrichCmd   `cmd:"enrich" help:"Summarize a session transcript" hidden:""`

	// Internal fields (not flags)
	Container *Container       `kong:"-"`
	settings  *config.Settings `kong:"-"`
}

// SetSettings sets the settings on the CLI struct
func (c *CLI) SetSettings(settings *config.Settings) {
	c.settings = settings
}

// AfterApply initializes logging after CLI parsing and applies settings
func (c *CLI) AfterApply() error {
	// Precedence: CLI flags > env vars > settings.toml > defaults.
	// Only apply a setting if the flag is at its default and no env var is set.

	if c.settings != nil {
		if c.MaxLogFiles == 1000 {
			if _, hasEnv := os.LookupEnv("SESSIONTRACK_MAX_LOG_FILES"); !hasEnv {
				if c.settings.MaxLogFiles != nil {
					c.MaxLogFiles = *c.settings.MaxLogFiles
				}
			}
		}

		if !c.Debug {
			if _, hasEnv := os.LookupEnv("SESSIONTRACK_DEBUG"); !hasEnv {
				if c.settings.Debug != nil && *c.settings.Debug {
					c.Debug = true
				}
			}
		}
	}

	// Initialize logging first and get the log file path
	logFilePath, err := logging.Initialize(c.Debug, c.DebugFile, c.MaxLogFiles)
	if err != nil {
		return err
	}

	// Set environment variables AFTER initialization so detached watcher and
	// enrichment processes inherit debug settings and append to the SAME log
	// file, which keeps parent and child logs correlated.
	if c.Debug || c.DebugFile != "" {
		os.Setenv("SESSIONTRACK_DEBUG", "1")
		if logFilePath != "" {
			os.Setenv("SESSIONTRACK_DEBUG_FILE", logFilePath)
		}
	}
	if c.MaxLogFiles != 1000 {
		os.Setenv("SESSIONTRACK_MAX_LOG_FILES", fmt.Sprintf("%d", c.MaxLogFiles))
	}

	// Create container AFTER logging is initialized so the journal's GORM
	// logger never sees a nil logging.Logger
	container, err := NewContainer(c.settings)
	if err != nil {
		return fmt.Errorf("failed to initialize container: %w", err)
	}
	c.Container = container

	return nil
}

// Close closes all resources held by the CLI
func (c *CLI) Close() error {
	if c.Container != nil {
		return c.Container.Close()
	}
	return nil
}
