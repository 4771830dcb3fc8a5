// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"fmt"
	"math"
	"time"
)

// BackoffBase controls the base duration for transport-retry backoff.
// Tests override this to avoid real sleeps.
var BackoffBase = time.Second

// CompleteWithRetry calls the backend with exponential backoff on transport
// failure: BackoffBase, then doubling each attempt. maxRetries <= 0 means
// the default of 2. Schema-level re-prompts are the caller's concern; this
// only retries failed calls.
func CompleteWithRetry(ctx context.Context, backend Backend, prompt string, maxRetries int) (string, error) {
	if maxRetries <= 0 {
		maxRetries = 2
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * BackoffBase
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		raw, err := backend.Complete(ctx, prompt)
		if err == nil {
			return raw, nil
		}
		lastErr = err
	}
	return "", fmt.Errorf("after %d retries: %w", maxRetries, lastErr)
}
