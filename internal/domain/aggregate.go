package domain

import "time"

// ProjectSummary is the rolled-up view of one pinned project: the
// most-recently-changed live session under that path.
type ProjectSummary struct {
	LastUpdated time.Time    `json:"lastUpdated"`
	NextStep    string       `json:"nextStep,omitempty"`
	State       SessionState `json:"state"`
	WorkingOn   string       `json:"workingOn,omitempty"`
}

// Enrichment holds the optional human-readable summary fields produced by
// the external summarizer.
type Enrichment struct {
	NextStep  string `json:"next_step"`
	WorkingOn string `json:"working_on"`
}

// JournalEntry is one row of the diagnostics event journal. Like LastEvent
// it carries metadata only, never payload bodies.
type JournalEntry struct {
	Action           Action
	Kind             EventKind
	NotificationType string
	ObservedAt       time.Time
	SessionID        string
	ToolName         string
}
