// Package llm wraps the hosted model API behind a small client interface.
package llm

import (
	"context"
	"fmt"
	"time"
)

// Client is the interface for LLM providers
type Client interface {
	Complete(ctx context.Context, systemPrompt string, messages []Message, opts *RequestOptions) (*Response, error)
	CompleteWithRetry(ctx context.Context, systemPrompt string, messages []Message, maxRetries int, opts *RequestOptions) (*Response, error)
}

// Message represents a conversation message. A message may carry a base64
// image block (the current canvas snapshot) ahead of its text.
type Message struct {
	Role    string // "user" or "assistant"
	Content string
	Image   *Image
}

// Image is a base64-encoded image block.
type Image struct {
	MediaType string // e.g. "image/png"
	Data      string // base64 payload
}

// RequestOptions configures an LLM request
type RequestOptions struct {
	MaxTokens int
}

// Response from an LLM completion
type Response struct {
	Content      string
	InputTokens  int
	OutputTokens int
	Duration     time.Duration
	Model        string
	StopReason   string // "end_turn", "max_tokens", "stop_sequence"
}

// WasTruncated returns true if the response hit the token limit
func (r *Response) WasTruncated() bool {
	return r.StopReason == "max_tokens"
}

// ModelUnavailableError marks a transient failure reaching the model:
// network errors, rate limits and server-side errors. These are retried
// with backoff before being escalated.
type ModelUnavailableError struct {
	Status int // HTTP status, 0 for transport errors
	Err    error
}

func (e *ModelUnavailableError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("model unavailable (status %d): %v", e.Status, e.Err)
	}
	return fmt.Sprintf("model unavailable: %v", e.Err)
}

func (e *ModelUnavailableError) Unwrap() error { return e.Err }
