package paths

import (
	"os"
	"path/filepath"
)

// Home returns SESSIONTRACK_HOME or ~/.sessiontrack by default
func Home() string {
	home := os.Getenv("SESSIONTRACK_HOME")
	if home == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return ".sessiontrack"
		}
		return filepath.Join(homeDir, ".sessiontrack")
	}
	return ExpandPath(home)
}

// StorePath returns $SESSIONTRACK_HOME/sessions.json
func StorePath() string {
	return filepath.Join(Home(), "sessions.json")
}

// LiveDir returns $SESSIONTRACK_HOME/live, the liveness marker directory
func LiveDir() string {
	return filepath.Join(Home(), "live")
}

// PendingPublishPath returns $SESSIONTRACK_HOME/publish.pending
func PendingPublishPath() string {
	return filepath.Join(Home(), "publish.pending")
}

// JournalPath returns $SESSIONTRACK_HOME/journal.db
func JournalPath() string {
	return filepath.Join(Home(), "journal.db")
}

// SettingsPath returns $SESSIONTRACK_HOME/settings.toml
func SettingsPath() string {
	return filepath.Join(Home(), "settings.toml")
}

// ExpandPath expands ~ to home directory
func ExpandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, path[1:])
		}
	}
	return path
}
