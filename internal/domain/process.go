package domain

// ProcessIdentity identifies a running process by PID plus its start time,
// so a recycled PID is never mistaken for the original owner.
type ProcessIdentity struct {
	PID             int   `json:"pid"`
	StartTimeMillis int64 `json:"start_time_ms"`
}

// startTimeSlackMillis absorbs rounding differences between the kernel's
// jiffies-derived start time and what was recorded at acquisition.
const startTimeSlackMillis = 1000

// SameAs reports whether other refers to the same process instance. A zero
// start time on either side means identity data is unavailable (legacy
// marker); callers must fall back to plain PID liveness with a staleness
// bound.
func (p ProcessIdentity) SameAs(other ProcessIdentity) bool {
	if p.PID != other.PID {
		return false
	}
	if p.StartTimeMillis == 0 || other.StartTimeMillis == 0 {
		return false
	}
	delta := p.StartTimeMillis - other.StartTimeMillis
	if delta < 0 {
		delta = -delta
	}
	return delta <= startTimeSlackMillis
}

// Verified reports whether the identity carries start-time data
func (p ProcessIdentity) Verified() bool {
	return p.StartTimeMillis != 0
}
