package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *AnthropicClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewAnthropicClient("test-key", "test-model")
	client.apiURL = server.URL
	return client
}

func okResponse(text string) map[string]any {
	return map[string]any{
		"id":          "msg_test",
		"type":        "message",
		"role":        "assistant",
		"model":       "test-model",
		"stop_reason": "end_turn",
		"content":     []map[string]any{{"type": "text", "text": text}},
		"usage":       map[string]any{"input_tokens": 12, "output_tokens": 34},
	}
}

func TestCompleteSendsImageBlock(t *testing.T) {
	var captured anthropicRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "test-key", r.Header.Get("x-api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		json.NewEncoder(w).Encode(okResponse(`{"brush":"pen"}`))
	})

	resp, err := client.Complete(context.Background(), "system", []Message{{
		Role:    "user",
		Content: "what next?",
		Image:   &Image{MediaType: "image/png", Data: "aGVsbG8="},
	}}, nil)
	require.NoError(t, err)

	assert.Equal(t, `{"brush":"pen"}`, resp.Content)
	assert.Equal(t, 12, resp.InputTokens)
	assert.Equal(t, 34, resp.OutputTokens)
	assert.False(t, resp.WasTruncated())

	require.Len(t, captured.Messages, 1)
	require.Len(t, captured.Messages[0].Content, 2)
	assert.Equal(t, "image", captured.Messages[0].Content[0].Type)
	assert.Equal(t, "image/png", captured.Messages[0].Content[0].Source.MediaType)
	assert.Equal(t, "text", captured.Messages[0].Content[1].Type)
}

func TestCompleteServerErrorIsTransient(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"type":"error","error":{"type":"overloaded_error","message":"busy"}}`, http.StatusServiceUnavailable)
	})

	_, err := client.Complete(context.Background(), "system", []Message{{Role: "user", Content: "hi"}}, nil)
	var transient *ModelUnavailableError
	require.ErrorAs(t, err, &transient)
	assert.Equal(t, http.StatusServiceUnavailable, transient.Status)
}

func TestCompleteClientErrorIsPermanent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"type":"error","error":{"type":"invalid_request_error","message":"bad"}}`, http.StatusBadRequest)
	})

	_, err := client.Complete(context.Background(), "system", []Message{{Role: "user", Content: "hi"}}, nil)
	require.Error(t, err)
	var transient *ModelUnavailableError
	assert.False(t, errors.As(err, &transient))
}

func TestCompleteWithRetryRecovers(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "overloaded", http.StatusTooManyRequests)
			return
		}
		json.NewEncoder(w).Encode(okResponse("second try"))
	})

	resp, err := client.CompleteWithRetry(context.Background(), "system",
		[]Message{{Role: "user", Content: "hi"}}, 2, nil)
	require.NoError(t, err)
	assert.Equal(t, "second try", resp.Content)
	assert.Equal(t, int32(2), calls.Load())
}

func TestCompleteWithRetryStopsOnPermanentError(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad request", http.StatusBadRequest)
	})

	_, err := client.CompleteWithRetry(context.Background(), "system",
		[]Message{{Role: "user", Content: "hi"}}, 3, nil)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}
