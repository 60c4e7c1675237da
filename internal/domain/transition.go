package domain

import "time"

// Action is what the state store must do with a session record
type Action string

const (
	// ActionDelete removes the record entirely
	ActionDelete Action = "delete"
	// ActionTouch updates bookkeeping metadata without changing state
	ActionTouch Action = "touch"
	// ActionUpsert moves the record to a target state, creating it if needed
	ActionUpsert Action = "upsert"
)

// Outcome is the result of running one event through the transition table
type Outcome struct {
	Action        Action
	State         SessionState // target state, only meaningful for ActionUpsert
	SubagentDelta int
}

// Transition maps a hook event to the action the store must apply. It is a
// pure function; idempotence on no-op state changes is enforced by Apply.
func Transition(ev HookEvent) Outcome {
	switch ev.Kind {
	case EventSessionStart:
		return Outcome{Action: ActionUpsert, State: StateReady}
	case EventUserPromptSubmit:
		return Outcome{Action: ActionUpsert, State: StateWorking}
	case EventPreToolUse:
		out := Outcome{Action: ActionUpsert, State: StateWorking}
		if ev.ToolName == SubagentToolName {
			out.SubagentDelta = 1
		}
		return out
	case EventPostToolUse:
		out := Outcome{Action: ActionUpsert, State: StateWorking}
		if ev.ToolName == SubagentToolName {
			out.SubagentDelta = -1
		}
		return out
	case EventPermissionRequest:
		return Outcome{Action: ActionUpsert, State: StateWaiting}
	case EventPreCompact:
		// Both manual and automatic triggers compact
		return Outcome{Action: ActionUpsert, State: StateCompacting}
	case EventStop:
		if ev.StopHookActive {
			// A stop hook is re-driving the turn; the session is not done
			return Outcome{Action: ActionTouch}
		}
		return Outcome{Action: ActionUpsert, State: StateReady}
	case EventNotification:
		switch ev.NotificationType {
		case NotificationIdlePrompt:
			return Outcome{Action: ActionUpsert, State: StateReady}
		case NotificationPermissionPrompt, NotificationElicitation:
			return Outcome{Action: ActionUpsert, State: StateWaiting}
		default:
			return Outcome{Action: ActionTouch}
		}
	case EventSubagentStop:
		return Outcome{Action: ActionTouch}
	case EventSessionEnd:
		return Outcome{Action: ActionDelete}
	default:
		return Outcome{Action: ActionTouch}
	}
}

// Apply merges an event and its transition outcome into a session record,
// returning the updated record. The caller persists the result.
//
// Rules:
//   - updated_at always advances
//   - state_changed_at advances only when the state actually changes value
//   - the stored cwd survives events that arrive without one
//   - active_subagent_count is clamped at zero
func Apply(rec SessionRecord, ev HookEvent, out Outcome, now time.Time) SessionRecord {
	rec.SessionID = ev.SessionID
	rec.UpdatedAt = now
	rec.LastEvent = ev.Snapshot()

	if ev.CWD != "" {
		rec.CWD = ev.CWD
	}
	if ev.ProjectDir != "" {
		rec.ProjectDir = ev.ProjectDir
	}
	if ev.TranscriptPath != "" {
		rec.TranscriptPath = ev.TranscriptPath
	}
	if ev.PermissionMode != "" {
		rec.PermissionMode = ev.PermissionMode
	}
	if ev.AgentID != "" {
		rec.AgentID = ev.AgentID
	}

	if out.Action == ActionUpsert && rec.State != out.State {
		rec.State = out.State
		rec.StateChangedAt = now
	}

	rec.ActiveSubagentCount += out.SubagentDelta
	if rec.ActiveSubagentCount < 0 {
		rec.ActiveSubagentCount = 0
	}

	return rec
}
