// Package hookio decodes Claude Code hook payloads delivered on stdin.
package hookio

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/petekp/sessiontrack/internal/domain"
)

// payload mirrors the hook JSON document. Everything beyond the event name
// and session id is optional; Claude omits fields freely between versions.
type payload struct {
	AgentID          string `json:"agent_id"`
	CWD              string `json:"cwd"`
	HookEventName    string `json:"hook_event_name"`
	NotificationType string `json:"notification_type"`
	PermissionMode   string `json:"permission_mode"`
	SessionID        string `json:"session_id"`
	StopHookActive   bool   `json:"stop_hook_active"`
	ToolName         string `json:"tool_name"`
	ToolUseID        string `json:"tool_use_id"`
	TranscriptPath   string `json:"transcript_path"`
	Trigger          string `json:"trigger"`
}

// Decode parses a hook payload into a typed event. Malformed bodies and
// payloads missing the event name or session id return domain.ErrSkipped;
// the caller drops the event without touching any state.
func Decode(r io.Reader) (domain.HookEvent, error) {
	var p payload
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return domain.HookEvent{}, fmt.Errorf("%w: malformed payload: %v", domain.ErrSkipped, err)
	}

	if p.HookEventName == "" {
		return domain.HookEvent{}, fmt.Errorf("%w: no hook_event_name", domain.ErrSkipped)
	}
	if p.SessionID == "" {
		return domain.HookEvent{}, fmt.Errorf("%w: no session_id", domain.ErrSkipped)
	}

	kind := domain.EventKind(p.HookEventName)
	if !domain.KnownKind(kind) {
		kind = domain.EventUnknown
	}

	ev := domain.HookEvent{
		AgentID:          p.AgentID,
		CWD:              p.CWD,
		Kind:             kind,
		NotificationType: p.NotificationType,
		PermissionMode:   p.PermissionMode,
		SessionID:        p.SessionID,
		StopHookActive:   p.StopHookActive,
		ToolName:         p.ToolName,
		ToolUseID:        p.ToolUseID,
		TranscriptPath:   p.TranscriptPath,
		Trigger:          p.Trigger,
	}

	if ev.CWD == "" {
		ev.CWD = fallbackCWD(ev.TranscriptPath)
	}
	if ev.ProjectDir == "" {
		ev.ProjectDir = os.Getenv("CLAUDE_PROJECT_DIR")
	}

	return ev, nil
}

// fallbackCWD recovers a working directory when the payload omits cwd:
// first the project root Claude exports to hooks, then the project path
// embedded in the transcript location. The event is still usable without
// one if a record already exists for the session.
func fallbackCWD(transcriptPath string) string {
	if dir := os.Getenv("CLAUDE_PROJECT_DIR"); dir != "" {
		return dir
	}
	return DecodeProjectPath(transcriptPath)
}

// DecodeProjectPath extracts the project path embedded in a transcript file
// location. Claude stores transcripts under
// ~/.claude/projects/<encoded>/<session>.jsonl where <encoded> is the
// project path with separators replaced by '-'. The encoding is lossy
// (hyphens in the real path are indistinguishable from separators), which
// is acceptable for a fallback.
func DecodeProjectPath(transcriptPath string) string {
	if transcriptPath == "" {
		return ""
	}
	encoded := filepath.Base(filepath.Dir(transcriptPath))
	if !strings.HasPrefix(encoded, "-") {
		return ""
	}
	return strings.ReplaceAll(encoded, "-", "/")
}
