package cmd

import (
	"context"
	"fmt"
)

// PublishCmd aggregates pinned-project state and delivers it to the relay
type PublishCmd struct {
	Now bool `help:"Publish immediately, skipping the debounce window"`
}

// Run executes one publish cycle
func (p *PublishCmd) Run(cli *CLI) error {
	agg := cli.Container.Aggregator
	if agg == nil {
		return fmt.Errorf("no relay_url configured, nothing to publish to")
	}

	ctx := context.Background()
	if p.Now {
		agg.PublishNow(ctx)
		return nil
	}
	agg.PublishDebounced(ctx)
	return nil
}
