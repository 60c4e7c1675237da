package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeHooks_EmptySettings(t *testing.T) {
	settings := make(map[string]any)

	added := mergeHooks(settings, "/usr/local/bin/sessiontrack hook")

	assert.Equal(t, len(hookedEvents), added)
	hooks, ok := settings["hooks"].(map[string]any)
	require.True(t, ok)
	assert.Len(t, hooks, len(hookedEvents))

	entries, ok := hooks["SessionStart"].([]any)
	require.True(t, ok)
	require.Len(t, entries, 1)
}

func TestMergeHooks_Idempotent(t *testing.T) {
	settings := make(map[string]any)

	first := mergeHooks(settings, "/usr/local/bin/sessiontrack hook")
	second := mergeHooks(settings, "/usr/local/bin/sessiontrack hook")

	assert.Equal(t, len(hookedEvents), first)
	assert.Zero(t, second)

	hooks := settings["hooks"].(map[string]any)
	entries := hooks["Stop"].([]any)
	assert.Len(t, entries, 1)
}

func TestMergeHooks_PreservesForeignHooks(t *testing.T) {
	settings := map[string]any{
		"model": "opus",
		"hooks": map[string]any{
			"Stop": []any{
				map[string]any{
					"hooks": []any{
						map[string]any{
							"type":    "command",
							"command": "afplay /System/Library/Sounds/Glass.aiff",
						},
					},
				},
			},
		},
	}

	added := mergeHooks(settings, "/usr/local/bin/sessiontrack hook")

	assert.Equal(t, len(hookedEvents), added)
	assert.Equal(t, "opus", settings["model"])

	hooks := settings["hooks"].(map[string]any)
	entries := hooks["Stop"].([]any)
	// The sound hook stays first, ours is appended
	require.Len(t, entries, 2)
}

func TestHasCommandHook(t *testing.T) {
	entries := []any{
		map[string]any{
			"hooks": []any{
				map[string]any{
					"type":    "command",
					"command": "/home/u/bin/sessiontrack hook",
				},
			},
		},
	}

	assert.True(t, hasCommandHook(entries, "sessiontrack"))
	assert.False(t, hasCommandHook(entries, "other-tool"))
	assert.False(t, hasCommandHook(nil, "sessiontrack"))
}
