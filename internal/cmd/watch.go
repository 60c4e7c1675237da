package cmd

import (
	"context"
	"time"

	"github.com/petekp/sessiontrack/internal/domain"
	"github.com/petekp/sessiontrack/internal/liveness"
	"github.com/petekp/sessiontrack/internal/paths"
)

// WatchCmd runs the detached liveness watcher loop. It is spawned by the
// hook command and never invoked by users directly.
type WatchCmd struct {
	Path      string `help:"Session working directory" required:""`
	PID       int    `help:"Owning process id" required:""`
	StartTime int64  `help:"Owning process start time in epoch millis" default:"0"`
	SessionID string `help:"Session id the marker vouches for"`
}

// Run watches the owning process until it exits
func (w *WatchCmd) Run(cli *CLI) error {
	owner := liveness.Owner{
		CreatedAt: time.Now().UTC(),
		Identity: domain.ProcessIdentity{
			PID:             w.PID,
			StartTimeMillis: w.StartTime,
		},
		Path:      w.Path,
		SessionID: w.SessionID,
	}

	watcher := liveness.NewWatcher(paths.LiveDir(), cli.Container.Inspector,
		cli.Container.Settings.PollInterval())
	return watcher.Run(context.Background(), owner)
}
