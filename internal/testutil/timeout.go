package testutil

import (
	"context"
	"testing"
	"time"
)

// DefaultLoadTimeout bounds how long a test waits for a movie to load.
const DefaultLoadTimeout = 5 * time.Second

// LoadContext returns a context for waiting on a movie load. It respects the
// test deadline when that is sooner than DefaultLoadTimeout.
func LoadContext(t *testing.T) context.Context {
	t.Helper()

	timeout := DefaultLoadTimeout
	if deadline, ok := t.Deadline(); ok {
		if remaining := time.Until(deadline) - time.Second; remaining > 0 && remaining < timeout {
			timeout = remaining
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)
	return ctx
}
