package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/petekp/sessiontrack/internal/logging"
)

// hookedEvents are the Claude Code lifecycle events the tracker consumes
var hookedEvents = []string{
	"SessionStart",
	"UserPromptSubmit",
	"PreToolUse",
	"PostToolUse",
	"PermissionRequest",
	"PreCompact",
	"Stop",
	"Notification",
	"SubagentStop",
	"SessionEnd",
}

// SetupCmd installs the hook configuration into Claude Code's settings.json
type SetupCmd struct {
	SettingsPath string `help:"Path to Claude Code settings.json (defaults to $CLAUDE_CONFIG_DIR/settings.json)"`
	DryRun       bool   `help:"Print the resulting configuration without writing it"`
}

// Run merges the hook entries into settings.json. Re-running is a no-op
// when the entries are already present.
func (s *SetupCmd) Run(cli *CLI) error {
	bin, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to resolve executable path: %w", err)
	}

	path := s.SettingsPath
	if path == "" {
		path, err = defaultClaudeSettingsPath()
		if err != nil {
			return err
		}
	}

	settings := make(map[string]any)
	if data, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(data, &settings); err != nil {
			return fmt.Errorf("existing settings file is not valid JSON, refusing to overwrite: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to read settings: %w", err)
	}

	command := fmt.Sprintf("%s hook", bin)
	added := mergeHooks(settings, command)

	out, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	if s.DryRun {
		fmt.Println(string(out))
		return nil
	}

	if added == 0 {
		fmt.Println("Hooks already configured, nothing to do")
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}
	if err := os.WriteFile(path, append(out, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}

	logging.Logger.Info("Installed hook configuration",
		"path", path, "events_added", added)
	fmt.Printf("Configured %d hook events in %s\n", added, path)
	return nil
}

// mergeHooks adds a matcher-less command hook for every tracked event and
// returns how many events were newly configured. Existing entries for this
// binary are left untouched so setup stays idempotent.
func mergeHooks(settings map[string]any, command string) int {
	hooks, _ := settings["hooks"].(map[string]any)
	if hooks == nil {
		hooks = make(map[string]any)
		settings["hooks"] = hooks
	}

	binName := filepath.Base(strings.Fields(command)[0])
	added := 0

	for _, event := range hookedEvents {
		entries, _ := hooks[event].([]any)
		if hasCommandHook(entries, binName) {
			continue
		}
		entries = append(entries, map[string]any{
			"hooks": []any{
				map[string]any{
					"type":    "command",
					"command": command,
				},
			},
		})
		hooks[event] = entries
		added++
	}

	return added
}

// hasCommandHook reports whether any entry already invokes this binary
func hasCommandHook(entries []any, binName string) bool {
	for _, entry := range entries {
		group, _ := entry.(map[string]any)
		inner, _ := group["hooks"].([]any)
		for _, h := range inner {
			hook, _ := h.(map[string]any)
			cmd, _ := hook["command"].(string)
			if strings.Contains(cmd, binName) {
				return true
			}
		}
	}
	return false
}

// defaultClaudeSettingsPath resolves where Claude Code keeps its settings
func defaultClaudeSettingsPath() (string, error) {
	if dir := os.Getenv("CLAUDE_CONFIG_DIR"); dir != "" {
		return filepath.Join(dir, "settings.json"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".claude", "settings.json"), nil
}
