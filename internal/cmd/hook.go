package cmd

import (
	"context"
	"errors"
	"os"

	"github.com/petekp/sessiontrack/internal/adapters/hookio"
	"github.com/petekp/sessiontrack/internal/domain"
	"github.com/petekp/sessiontrack/internal/logging"
)

// HookCmd handles one hook event delivered by Claude Code on stdin
type HookCmd struct{}

// Run decodes and applies the event. The command always exits zero: a
// tracker failure must never surface as a hook failure inside Claude Code.
func (h *HookCmd) Run(cli *CLI) error {
	ev, err := hookio.Decode(os.Stdin)
	if err != nil {
		if errors.Is(err, domain.ErrSkipped) {
			logging.Logger.Debug("Dropped undecodable hook payload", "error", err)
			return nil
		}
		logging.Logger.Warn("Failed to decode hook payload", "error", err)
		return nil
	}

	logging.Logger.Debug("Hook event received",
		"kind", ev.Kind,
		"session_id", ev.SessionID,
		"tool_name", ev.ToolName)

	if err := cli.Container.Tracker.HandleEvent(context.Background(), ev); err != nil {
		logging.Logger.Error("Failed to handle hook event",
			"error", err,
			"kind", ev.Kind,
			"session_id", ev.SessionID)
	}

	return nil
}
