// Package process queries the platform process table.
package process

import (
	"fmt"

	gops "github.com/shirou/gopsutil/v4/process"

	"github.com/petekp/sessiontrack/internal/domain"
	"github.com/petekp/sessiontrack/internal/ports"
)

// Inspector implements ports.ProcessInspector with gopsutil
type Inspector struct{}

// Compile-time interface verification
var _ ports.ProcessInspector = (*Inspector)(nil)

// NewInspector creates a new process inspector
func NewInspector() *Inspector {
	return &Inspector{}
}

// Alive reports whether a process with the given PID exists
func (i *Inspector) Alive(pid int) bool {
	exists, err := gops.PidExists(int32(pid))
	return err == nil && exists
}

// Identity returns the PID plus start time of a running process. The start
// time (milliseconds since epoch) is what distinguishes a recycled PID from
// the original owner.
func (i *Inspector) Identity(pid int) (domain.ProcessIdentity, error) {
	proc, err := gops.NewProcess(int32(pid))
	if err != nil {
		return domain.ProcessIdentity{}, fmt.Errorf("process %d not found: %w", pid, err)
	}

	created, err := proc.CreateTime()
	if err != nil {
		// Process exists but its start time is unreadable; return an
		// unverified identity so callers apply the staleness fallback.
		return domain.ProcessIdentity{PID: pid}, nil
	}

	return domain.ProcessIdentity{PID: pid, StartTimeMillis: created}, nil
}
