package cmd

import (
	"context"
	"fmt"
	"time"
)

// SessionsHistoryCmd queries the diagnostics event journal
type SessionsHistoryCmd struct {
	SessionID string `help:"Only show events for this session"`
	Limit     int    `help:"Maximum number of events to show" default:"50"`
}

// Run executes the history command
func (h *SessionsHistoryCmd) Run(cli *CLI) error {
	if cli.Container.Journal == nil {
		return fmt.Errorf("event journal is disabled, set journal = true in settings.toml")
	}

	entries, err := cli.Container.Journal.History(context.Background(), h.SessionID, h.Limit)
	if err != nil {
		return fmt.Errorf("failed to read journal: %w", err)
	}

	for _, e := range entries {
		detail := string(e.Kind)
		if e.ToolName != "" {
			detail += " tool=" + e.ToolName
		}
		if e.NotificationType != "" {
			detail += " type=" + e.NotificationType
		}
		fmt.Printf("%s  %s  %-7s  %s\n",
			e.ObservedAt.Local().Format(time.RFC3339),
			e.SessionID,
			e.Action,
			detail)
	}

	return nil
}
