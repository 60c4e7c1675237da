package cmd

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/petekp/sessiontrack/internal/domain"
	"github.com/petekp/sessiontrack/internal/liveness"
	"github.com/petekp/sessiontrack/internal/paths"
)

// StatusCmd displays tracked sessions and their current states
type StatusCmd struct {
	Plain bool `help:"Disable styling (for scripts and status bars)"`
}

// State colors follow the session symbols: working green, waiting red,
// ready yellow, compacting blue.
var stateStyles = map[domain.SessionState]lipgloss.Style{
	domain.StateCompacting: lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
	domain.StateReady:      lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
	domain.StateWaiting:    lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	domain.StateWorking:    lipgloss.NewStyle().Foreground(lipgloss.Color("46")),
}

var dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

// Run executes the status command
func (s *StatusCmd) Run(cli *CLI) error {
	sessions, err := cli.Container.Store.ReadAll(context.Background())
	if err != nil {
		return fmt.Errorf("failed to read sessions: %w", err)
	}

	if len(sessions) == 0 {
		fmt.Println("No tracked sessions")
		return nil
	}

	// Stable order: most recent state change first
	records := make([]domain.SessionRecord, 0, len(sessions))
	for _, rec := range sessions {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].StateChangedAt.After(records[j].StateChangedAt)
	})

	watcher := liveness.NewWatcher(paths.LiveDir(), cli.Container.Inspector, 0)

	for _, rec := range records {
		symbol := rec.State.Symbol()
		if !s.Plain {
			if style, ok := stateStyles[rec.State]; ok {
				symbol = style.Render(symbol)
			}
		}

		live := ""
		if dir := rec.CWD; dir != "" {
			if owner, err := liveness.ReadOwner(liveness.MarkerDir(paths.LiveDir(), dir)); err == nil {
				if watcher.OwnerLive(owner) {
					live = "live"
				} else {
					live = "stale"
				}
			}
		}

		age := formatAge(time.Since(rec.StateChangedAt))
		detail := strings.TrimSpace(fmt.Sprintf("%s %s", age, live))
		if !s.Plain {
			detail = dimStyle.Render(detail)
		}

		line := fmt.Sprintf("%s %-9s %-36s %s", symbol, rec.State, rec.CWD, detail)
		if rec.WorkingOn != "" {
			line += "\n  " + rec.WorkingOn
		}
		fmt.Println(line)
	}

	return nil
}

// formatAge renders a duration the way humans read status bars
func formatAge(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}
