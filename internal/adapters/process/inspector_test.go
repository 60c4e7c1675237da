package process

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlive_OwnProcess(t *testing.T) {
	i := NewInspector()
	assert.True(t, i.Alive(os.Getpid()))
}

func TestIdentity_OwnProcess(t *testing.T) {
	i := NewInspector()

	id, err := i.Identity(os.Getpid())
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), id.PID)
	assert.True(t, id.Verified())

	// Two snapshots of the same process must compare equal
	again, err := i.Identity(os.Getpid())
	require.NoError(t, err)
	assert.True(t, id.SameAs(again))
}
