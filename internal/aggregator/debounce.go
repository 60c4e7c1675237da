package aggregator

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Debounce coalesces a burst of publish triggers into a single publish:
// register intent under the shared pending marker, wait out the burst, then
// proceed only if no newer trigger registered meanwhile. Last writer wins.
func Debounce(ctx context.Context, pendingPath string, wait time.Duration) (bool, error) {
	token := uuid.New().String()
	if err := os.WriteFile(pendingPath, []byte(token), 0644); err != nil {
		return false, err
	}

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case <-time.After(wait):
	}

	data, err := os.ReadFile(pendingPath)
	if err != nil {
		// Marker already cleaned up by a newer publisher
		return false, nil
	}
	return strings.TrimSpace(string(data)) == token, nil
}

// ClearPending removes the debounce marker after a publish attempt,
// success or not.
func ClearPending(pendingPath string) {
	os.Remove(pendingPath)
}
