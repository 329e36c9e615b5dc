package transcript

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/truthquest/truthquest/internal/model"
)

// Chain runs transcript sources in priority order, stopping at the first
// success. Each failure is recorded and the chain advances; when every source
// fails, the combined error lists all individual failure messages.
type Chain struct {
	sources []Source
	verbose bool
}

// NewChain creates a chain over the given sources, in priority order
func NewChain(verbose bool, sources ...Source) *Chain {
	return &Chain{sources: sources, verbose: verbose}
}

// Acquire tries each available source in order and returns the first
// successful transcript
func (c *Chain) Acquire(ctx context.Context, videoID string) (*model.Transcript, error) {
	var failures []string

	for _, src := range c.sources {
		if !src.Available() {
			continue
		}

		if c.verbose {
			fmt.Fprintf(os.Stderr, "Attempting to fetch via %s...\n", src.Name())
		}

		t, err := src.Fetch(ctx, videoID)
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", src.Name(), err))
			if c.verbose {
				fmt.Fprintf(os.Stderr, "✗ %s failed: %v\n", src.Name(), err)
			}
			continue
		}

		if c.verbose {
			fmt.Fprintf(os.Stderr, "✓ Fetched via %s with %d segments\n", src.Name(), len(t.Segments))
		}
		return t, nil
	}

	if len(failures) == 0 {
		return nil, fmt.Errorf("no transcript sources configured")
	}
	return nil, fmt.Errorf("failed to fetch transcript from all sources: %s", strings.Join(failures, " | "))
}
