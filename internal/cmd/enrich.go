package cmd

import (
	"context"

	"github.com/petekp/sessiontrack/internal/logging"
)

// EnrichCmd runs the configured summarizer over a session transcript and
// attaches the result to the session record. It is spawned detached by the
// hook command so summarization never delays event handling.
type EnrichCmd struct {
	SessionID  string `help:"Session to enrich" required:""`
	Transcript string `help:"Path to the session transcript" required:""`
}

// Run summarizes the transcript and stores the result
func (e *EnrichCmd) Run(cli *CLI) error {
	ctx := context.Background()

	enr, err := cli.Container.Enricher.Summarize(ctx, e.Transcript)
	if err != nil {
		// Enrichment is best-effort; a failed summarizer run changes nothing
		logging.Logger.Warn("Enrichment failed",
			"error", err, "session_id", e.SessionID)
		return nil
	}

	if err := cli.Container.Store.Enrich(ctx, e.SessionID, enr); err != nil {
		logging.Logger.Warn("Failed to store enrichment",
			"error", err, "session_id", e.SessionID)
		return nil
	}

	logging.Logger.Debug("Session enriched",
		"session_id", e.SessionID, "working_on", enr.WorkingOn)

	// The summary feeds the published view, so push a fresh one
	if agg := cli.Container.Aggregator; agg != nil {
		agg.PublishDebounced(ctx)
	}

	return nil
}
