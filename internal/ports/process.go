package ports

import "github.com/petekp/sessiontrack/internal/domain"

// ProcessInspector isolates the platform process-table query
type ProcessInspector interface {
	// Alive reports whether a process with the given PID exists
	Alive(pid int) bool
	// Identity returns the identity of a running process, including its
	// start time; errors when the process does not exist
	Identity(pid int) (domain.ProcessIdentity, error)
}
