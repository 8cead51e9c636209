package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultAPIURL = "https://api.anthropic.com/v1/messages"

// AnthropicClient implements the Client interface for Claude
type AnthropicClient struct {
	apiKey     string
	model      string
	apiURL     string
	httpClient *http.Client
}

// NewAnthropicClient creates a new Anthropic API client
func NewAnthropicClient(apiKey, model string) *AnthropicClient {
	if model == "" {
		model = "claude-sonnet-4-5"
	}
	return &AnthropicClient{
		apiKey: apiKey,
		model:  model,
		apiURL: defaultAPIURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
	}
}

// anthropicRequest is the API request structure
type anthropicRequest struct {
	Model     string         `json:"model"`
	MaxTokens int            `json:"max_tokens"`
	System    string         `json:"system,omitempty"`
	Messages  []anthropicMsg `json:"messages"`
}

type anthropicMsg struct {
	Role    string           `json:"role"`
	Content []anthropicBlock `json:"content"`
}

// anthropicBlock is one content block: text or a base64 image
type anthropicBlock struct {
	Type   string           `json:"type"`
	Text   string           `json:"text,omitempty"`
	Source *anthropicSource `json:"source,omitempty"`
}

type anthropicSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

// anthropicResponse is the API response structure
type anthropicResponse struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Role    string `json:"role"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Model        string `json:"model"`
	StopReason   string `json:"stop_reason"`
	StopSequence string `json:"stop_sequence"`
	Usage        struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

type anthropicError struct {
	Type  string `json:"type"`
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends a prompt to Claude and returns the response
func (c *AnthropicClient) Complete(ctx context.Context, systemPrompt string, messages []Message, opts *RequestOptions) (*Response, error) {
	start := time.Now()

	maxTokens := 5000
	if opts != nil && opts.MaxTokens > 0 {
		maxTokens = opts.MaxTokens
	}

	// Convert messages to Anthropic content blocks; a snapshot image
	// precedes the message text
	anthropicMsgs := make([]anthropicMsg, len(messages))
	for i, m := range messages {
		var blocks []anthropicBlock
		if m.Image != nil {
			blocks = append(blocks, anthropicBlock{
				Type: "image",
				Source: &anthropicSource{
					Type:      "base64",
					MediaType: m.Image.MediaType,
					Data:      m.Image.Data,
				},
			})
		}
		blocks = append(blocks, anthropicBlock{Type: "text", Text: m.Content})
		anthropicMsgs[i] = anthropicMsg{Role: m.Role, Content: blocks}
	}

	reqBody := anthropicRequest{
		Model:     c.model,
		MaxTokens: maxTokens,
		System:    systemPrompt,
		Messages:  anthropicMsgs,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.apiURL, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &ModelUnavailableError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ModelUnavailableError{Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := fmt.Errorf("API error (%d): %s", resp.StatusCode, string(body))
		var decoded anthropicError
		if err := json.Unmarshal(body, &decoded); err == nil && decoded.Error.Message != "" {
			apiErr = fmt.Errorf("API error (%d): %s - %s", resp.StatusCode, decoded.Error.Type, decoded.Error.Message)
		}
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return nil, &ModelUnavailableError{Status: resp.StatusCode, Err: apiErr}
		}
		return nil, apiErr
	}

	var apiResp anthropicResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	// Extract text content
	var content string
	for _, block := range apiResp.Content {
		if block.Type == "text" {
			content += block.Text
		}
	}

	return &Response{
		Content:      content,
		InputTokens:  apiResp.Usage.InputTokens,
		OutputTokens: apiResp.Usage.OutputTokens,
		Duration:     time.Since(start),
		Model:        apiResp.Model,
		StopReason:   apiResp.StopReason,
	}, nil
}

// CompleteWithRetry attempts completion, retrying transient failures with
// exponential backoff. Permanent API errors are returned immediately.
func (c *AnthropicClient) CompleteWithRetry(ctx context.Context, systemPrompt string, messages []Message, maxRetries int, opts *RequestOptions) (*Response, error) {
	var lastErr error

	for i := 0; i < maxRetries; i++ {
		resp, err := c.Complete(ctx, systemPrompt, messages, opts)
		if err == nil {
			return resp, nil
		}

		lastErr = err

		// Don't retry on context cancellation
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		var transient *ModelUnavailableError
		if !errors.As(err, &transient) {
			return nil, err
		}

		// Exponential backoff
		backoff := time.Duration(1<<uint(i)) * time.Second
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, fmt.Errorf("failed after %d retries: %w", maxRetries, lastErr)
}
