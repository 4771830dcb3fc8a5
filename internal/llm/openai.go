// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/pdiddy/variant-evidence/internal/httputil"
)

// openAIAPIURL is the OpenAI chat completions endpoint. Package-level var
// for test substitution.
var openAIAPIURL = "https://api.openai.com/v1/chat/completions"

// OpenAIBackend calls the OpenAI chat completions API with JSON response
// format enforced, so the stages can parse responses without fence stripping.
type OpenAIBackend struct {
	APIKey      string
	Model       string
	Temperature float64
	Client      *http.Client
}

// openAIRequest is the request body for the chat completions API.
type openAIRequest struct {
	Model          string           `json:"model"`
	Temperature    float64          `json:"temperature"`
	Messages       []openAIMessage  `json:"messages"`
	ResponseFormat openAIRespFormat `json:"response_format"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIRespFormat struct {
	Type string `json:"type"`
}

// openAIResponse is the subset of the chat completions response the
// pipeline needs.
type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends one prompt and returns the first choice's message content.
func (o *OpenAIBackend) Complete(ctx context.Context, prompt string) (string, error) {
	reqBody := openAIRequest{
		Model:       o.Model,
		Temperature: o.Temperature,
		Messages: []openAIMessage{
			{Role: "user", Content: prompt},
		},
		ResponseFormat: openAIRespFormat{Type: "json_object"},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, openAIAPIURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.APIKey)

	client := o.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return "", fmt.Errorf("calling OpenAI API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("OpenAI API returned %d: %s", resp.StatusCode, string(body))
	}

	var oResp openAIResponse
	if err := json.NewDecoder(resp.Body).Decode(&oResp); err != nil {
		return "", fmt.Errorf("decoding OpenAI response: %w", err)
	}

	if len(oResp.Choices) == 0 {
		return "", fmt.Errorf("OpenAI API returned no choices")
	}

	return oResp.Choices[0].Message.Content, nil
}
