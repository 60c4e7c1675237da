package ports

import (
	"context"

	"github.com/petekp/sessiontrack/internal/domain"
)

// RelayPublisher ships an aggregated project view to the external relay.
// Delivery is best-effort: implementations enforce a hard timeout and the
// caller logs-and-drops failures.
type RelayPublisher interface {
	Publish(ctx context.Context, view map[string]domain.ProjectSummary) error
}

// Enricher produces optional human-readable summary fields from a session
// transcript. Failures and timeouts leave the record unenriched.
type Enricher interface {
	Summarize(ctx context.Context, transcriptPath string) (domain.Enrichment, error)
}
