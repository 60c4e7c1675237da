package domain

import (
	"strings"
	"time"
)

// SessionState represents the state of a Claude Code session
type SessionState string

const (
	StateCompacting SessionState = "compacting"
	StateReady      SessionState = "ready"
	StateWaiting    SessionState = "waiting"
	StateWorking    SessionState = "working"
)

// Status symbols (Unicode)
const (
	SymbolCompacting = "◌" // Blue - compressing context
	SymbolReady      = "○" // Yellow - finished/ready for input
	SymbolWaiting    = "◐" // Red - waiting for user input/permission
	SymbolWorking    = "●" // Green - actively working
)

// LastEvent is a denormalized snapshot of the most recent event's metadata,
// kept for diagnostics. It never carries prompt or tool payload bodies.
type LastEvent struct {
	Kind             EventKind `json:"kind"`
	NotificationType string    `json:"notification_type,omitempty"`
	ToolName         string    `json:"tool_name,omitempty"`
	ToolUseID        string    `json:"tool_use_id,omitempty"`
	Trigger          string    `json:"trigger,omitempty"`
}

// SessionRecord is the tracked state of a single Claude Code session
type SessionRecord struct {
	ActiveSubagentCount int          `json:"active_subagent_count"`
	AgentID             string       `json:"agent_id,omitempty"`
	CWD                 string       `json:"cwd"`
	LastEvent           LastEvent    `json:"last_event"`
	NextStep            string       `json:"next_step,omitempty"`
	PermissionMode      string       `json:"permission_mode,omitempty"`
	ProjectDir          string       `json:"project_dir,omitempty"`
	SessionID           string       `json:"session_id"`
	State               SessionState `json:"state"`
	StateChangedAt      time.Time    `json:"state_changed_at"`
	TranscriptPath      string       `json:"transcript_path,omitempty"`
	UpdatedAt           time.Time    `json:"updated_at"`
	WorkingOn           string       `json:"working_on,omitempty"`
}

// SessionCollection is the full set of tracked sessions keyed by session id
type SessionCollection map[string]SessionRecord

// UnderProject reports whether the record's working directory is the given
// project path or inside its subtree.
func (r SessionRecord) UnderProject(projectPath string) bool {
	if projectPath == "" {
		return false
	}
	dir := r.CWD
	if dir == "" {
		dir = r.ProjectDir
	}
	if dir == projectPath {
		return true
	}
	return strings.HasPrefix(dir, strings.TrimSuffix(projectPath, "/")+"/")
}

// Symbol returns the display symbol for a session state
func (s SessionState) Symbol() string {
	switch s {
	case StateWorking:
		return SymbolWorking
	case StateWaiting:
		return SymbolWaiting
	case StateCompacting:
		return SymbolCompacting
	case StateReady:
		return SymbolReady
	default:
		return " "
	}
}
