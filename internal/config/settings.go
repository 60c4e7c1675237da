package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pelletier/go-toml/v2"

	"github.com/petekp/sessiontrack/internal/paths"
)

// Defaults for timing knobs
const (
	DefaultDebounce      = 400 * time.Millisecond
	DefaultEnrichTimeout = 30 * time.Second
	DefaultPollInterval  = time.Second
	DefaultRelayTimeout  = 3 * time.Second
)

// Settings represents the structure of $SESSIONTRACK_HOME/settings.toml
type Settings struct {
	Debug                *bool    `toml:"debug,omitempty"`
	DebounceMillis       *int     `toml:"debounce_millis,omitempty"`
	EnrichCommand        []string `toml:"enrich_command,omitempty"`
	EnrichTimeoutSeconds *int     `toml:"enrich_timeout_seconds,omitempty"`
	Journal              *bool    `toml:"journal,omitempty"`
	MaxLogFiles          *int     `toml:"max_log_files,omitempty"`
	PinnedProjects       []string `toml:"pinned_projects,omitempty"`
	PollIntervalMillis   *int     `toml:"poll_interval_millis,omitempty"`
	RelayKey             string   `toml:"relay_key,omitempty"`
	RelayTimeoutSeconds  *int     `toml:"relay_timeout_seconds,omitempty"`
	RelayURL             string   `toml:"relay_url,omitempty"`
}

// Load reads settings from disk. A missing file yields empty settings; a
// malformed file is an error so misconfiguration doesn't silently disable
// publishing.
func Load() (*Settings, error) {
	return LoadFrom(paths.SettingsPath())
}

// LoadFrom reads settings from an explicit path
func LoadFrom(path string) (*Settings, error) {
	var s Settings

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			s.applyEnv()
			return &s, nil
		}
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	if err := toml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}

	s.applyEnv()
	return &s, nil
}

// applyEnv applies environment variable overrides. Env vars win over the
// settings file, matching the CLI flags > env > file > defaults precedence.
func (s *Settings) applyEnv() {
	if v := os.Getenv("SESSIONTRACK_RELAY_URL"); v != "" {
		s.RelayURL = v
	}
	if v := os.Getenv("SESSIONTRACK_RELAY_KEY"); v != "" {
		s.RelayKey = v
	}
	if v := os.Getenv("SESSIONTRACK_PINNED_PROJECTS"); v != "" {
		s.PinnedProjects = nil
		for _, p := range strings.Split(v, ":") {
			if p != "" {
				s.PinnedProjects = append(s.PinnedProjects, paths.ExpandPath(p))
			}
		}
	}
}

// Debounce returns the aggregator debounce window
func (s *Settings) Debounce() time.Duration {
	if s.DebounceMillis != nil && *s.DebounceMillis > 0 {
		return time.Duration(*s.DebounceMillis) * time.Millisecond
	}
	return DefaultDebounce
}

// PollInterval returns the liveness watcher poll interval
func (s *Settings) PollInterval() time.Duration {
	if s.PollIntervalMillis != nil && *s.PollIntervalMillis > 0 {
		return time.Duration(*s.PollIntervalMillis) * time.Millisecond
	}
	return DefaultPollInterval
}

// RelayTimeout returns the hard timeout for relay delivery
func (s *Settings) RelayTimeout() time.Duration {
	if s.RelayTimeoutSeconds != nil && *s.RelayTimeoutSeconds > 0 {
		return time.Duration(*s.RelayTimeoutSeconds) * time.Second
	}
	return DefaultRelayTimeout
}

// EnrichTimeout returns the hard timeout for the enrichment subprocess
func (s *Settings) EnrichTimeout() time.Duration {
	if s.EnrichTimeoutSeconds != nil && *s.EnrichTimeoutSeconds > 0 {
		return time.Duration(*s.EnrichTimeoutSeconds) * time.Second
	}
	return DefaultEnrichTimeout
}

// JournalEnabled reports whether the diagnostics event journal is on
func (s *Settings) JournalEnabled() bool {
	return s.Journal != nil && *s.Journal
}

// EnsureDeviceID returns the stable device identifier used in the relay URL,
// creating and persisting a new one on first use.
func EnsureDeviceID() (string, error) {
	return ensureDeviceIDAt(filepath.Join(paths.Home(), "device_id"))
}

func ensureDeviceIDAt(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		id := strings.TrimSpace(string(data))
		if id != "" {
			return id, nil
		}
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to read device id: %w", err)
	}

	id := uuid.New().String()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(id+"\n"), 0600); err != nil {
		return "", fmt.Errorf("failed to persist device id: %w", err)
	}
	return id, nil
}
