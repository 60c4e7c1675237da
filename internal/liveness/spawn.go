package liveness

import (
	"fmt"
	"os"
	"os/exec"
)

// SelfSpawn re-executes the current binary detached from the hook
// invocation, so the watcher outlives it. Stdio is dropped; the watcher
// logs through the shared debug log file when enabled.
func SelfSpawn(args ...string) error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to resolve own binary: %w", err)
	}

	cmd := exec.Command(exe, args...)
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.SysProcAttr = detachedProcAttr()

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start watcher process: %w", err)
	}

	// Release immediately; the watcher is re-parented and never reaped here
	return cmd.Process.Release()
}
