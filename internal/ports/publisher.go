package ports

import "context"

// ViewPublisher triggers the debounced aggregate-and-publish cycle.
// Implementations never return an error: delivery is log-and-drop.
type ViewPublisher interface {
	PublishDebounced(ctx context.Context)
}
