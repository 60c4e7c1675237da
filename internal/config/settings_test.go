package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_MissingFileGivesDefaults(t *testing.T) {
	s, err := LoadFrom(filepath.Join(t.TempDir(), "settings.toml"))
	require.NoError(t, err)

	assert.Empty(t, s.RelayURL)
	assert.Equal(t, DefaultDebounce, s.Debounce())
	assert.Equal(t, DefaultPollInterval, s.PollInterval())
	assert.Equal(t, DefaultRelayTimeout, s.RelayTimeout())
	assert.False(t, s.JournalEnabled())
}

func TestLoadFrom_ParsesTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	content := `
relay_url = "https://relay.example.com"
relay_key = "c2VjcmV0"
pinned_projects = ["/home/u/proj-a", "/home/u/proj-b"]
debounce_millis = 250
journal = true
enrich_command = ["claude", "-p"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	s, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "https://relay.example.com", s.RelayURL)
	assert.Equal(t, []string{"/home/u/proj-a", "/home/u/proj-b"}, s.PinnedProjects)
	assert.Equal(t, 250*time.Millisecond, s.Debounce())
	assert.True(t, s.JournalEnabled())
	assert.Equal(t, []string{"claude", "-p"}, s.EnrichCommand)
}

func TestLoadFrom_MalformedFileErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	require.NoError(t, os.WriteFile(path, []byte("relay_url = ["), 0644))

	_, err := LoadFrom(path)
	assert.Error(t, err)
}

func TestLoadFrom_EnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	require.NoError(t, os.WriteFile(path, []byte(`relay_url = "https://file.example.com"`), 0644))

	t.Setenv("SESSIONTRACK_RELAY_URL", "https://env.example.com")
	t.Setenv("SESSIONTRACK_PINNED_PROJECTS", "/a:/b")

	s, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "https://env.example.com", s.RelayURL)
	assert.Equal(t, []string{"/a", "/b"}, s.PinnedProjects)
}

func TestEnsureDeviceID_StableAcrossCalls(t *testing.T) {
	path := filepath.Join(t.TempDir(), "device_id")

	first, err := ensureDeviceIDAt(path)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	second, err := ensureDeviceIDAt(path)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
