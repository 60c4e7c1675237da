package cmd

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// SessionsListCmd lists all tracked sessions in plain text
type SessionsListCmd struct{}

// Run executes the list command
func (l *SessionsListCmd) Run(cli *CLI) error {
	sessions, err := cli.Container.Store.ReadAll(context.Background())
	if err != nil {
		return fmt.Errorf("failed to read sessions: %w", err)
	}

	ids := make([]string, 0, len(sessions))
	for id := range sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		rec := sessions[id]
		fmt.Printf("%s  %-10s  %-30s  subagents=%d  updated=%s\n",
			id,
			rec.State,
			rec.CWD,
			rec.ActiveSubagentCount,
			rec.UpdatedAt.Local().Format(time.RFC3339))
	}

	return nil
}
