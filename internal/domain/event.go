package domain

// EventKind identifies a Claude Code hook lifecycle event
type EventKind string

const (
	EventNotification      EventKind = "Notification"
	EventPermissionRequest EventKind = "PermissionRequest"
	EventPostToolUse       EventKind = "PostToolUse"
	EventPreCompact        EventKind = "PreCompact"
	EventPreToolUse        EventKind = "PreToolUse"
	EventSessionEnd        EventKind = "SessionEnd"
	EventSessionStart      EventKind = "SessionStart"
	EventStop              EventKind = "Stop"
	EventSubagentStop      EventKind = "SubagentStop"
	EventUnknown           EventKind = "Unknown"
	EventUserPromptSubmit  EventKind = "UserPromptSubmit"
)

// SubagentToolName is the tool Claude Code uses to spawn nested agents
const SubagentToolName = "Task"

// Notification subtypes that affect session state
const (
	NotificationElicitation      = "elicitation_dialog"
	NotificationIdlePrompt       = "idle_prompt"
	NotificationPermissionPrompt = "permission_prompt"
)

// HookEvent is a typed, validated hook event. Fields beyond Kind and
// SessionID are optional; consumers must not assume they are set.
type HookEvent struct {
	AgentID          string
	CWD              string
	Kind             EventKind
	NotificationType string
	PermissionMode   string
	ProjectDir       string
	SessionID        string
	StopHookActive   bool
	ToolName         string
	ToolUseID        string
	TranscriptPath   string
	Trigger          string
}

// KnownKind reports whether k is one of the enumerated lifecycle events
func KnownKind(k EventKind) bool {
	switch k {
	case EventSessionStart, EventUserPromptSubmit, EventPreToolUse,
		EventPostToolUse, EventPermissionRequest, EventPreCompact,
		EventStop, EventNotification, EventSubagentStop, EventSessionEnd:
		return true
	}
	return false
}

// Snapshot builds the diagnostics metadata stored on the session record.
// Free-text payload fields are deliberately excluded.
func (e HookEvent) Snapshot() LastEvent {
	return LastEvent{
		Kind:             e.Kind,
		NotificationType: e.NotificationType,
		ToolName:         e.ToolName,
		ToolUseID:        e.ToolUseID,
		Trigger:          e.Trigger,
	}
}
