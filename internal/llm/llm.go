// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm abstracts the text capability used by the relevance filter and
// the experiment extractor. Backends return raw model text; parsing and
// schema validation stay at the calling stage's boundary.
// Implements: prd003-relevance R5.1-R5.2, prd004-extraction R5.1-R5.2.
package llm

import (
	"bytes"
	"context"
	"fmt"

	"github.com/pdiddy/variant-evidence/pkg/types"
)

// Backend is a pluggable text capability. Each implementation handles one
// prompt and returns the raw response text. Per the Strategy pattern; tests
// supply mocks.
type Backend interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// New selects the backend for the configured provider. A missing API key is
// a configuration error, detected here before any pipeline stage runs.
func New(cfg types.AIConfig) (Backend, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("no API key configured for provider %q", cfg.Provider)
	}

	switch cfg.Provider {
	case types.ProviderAnthropic:
		return &ClaudeBackend{APIKey: cfg.APIKey, Model: cfg.Model, Temperature: cfg.Temperature}, nil
	case types.ProviderOpenAI:
		return &OpenAIBackend{APIKey: cfg.APIKey, Model: cfg.Model, Temperature: cfg.Temperature}, nil
	default:
		return nil, fmt.Errorf("unsupported AI provider: %q (supported: anthropic, openai)", cfg.Provider)
	}
}

// CleanJSON strips markdown code fences and surrounding whitespace from
// model responses. Models often wrap JSON in ```json ... ``` blocks. This
// handles: ```json\n{...}\n```, ```\n{...}\n```, and bare JSON.
func CleanJSON(data []byte) []byte {
	s := bytes.TrimSpace(data)
	if len(s) == 0 {
		return s
	}

	if bytes.HasPrefix(s, []byte("```")) {
		if idx := bytes.IndexByte(s, '\n'); idx >= 0 {
			s = s[idx+1:]
		}
		if bytes.HasSuffix(s, []byte("```")) {
			s = s[:len(s)-3]
		}
		s = bytes.TrimSpace(s)
	}

	return s
}
