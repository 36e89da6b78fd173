package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureObserver struct {
	fn func(LLMCallEvent)
}

func (c *captureObserver) OnCallComplete(e LLMCallEvent) { c.fn(e) }

func anthropicConfig(endpoint string) LLMConfig {
	cfg := DefaultConfig()
	cfg.APIKey = "test-key"
	cfg.Endpoint = endpoint
	return cfg
}

func ollamaConfig(endpoint string) LLMConfig {
	cfg := DefaultConfig()
	cfg.Provider = ProviderOllama
	cfg.Enabled = true
	cfg.Model = "llama3.2"
	cfg.Endpoint = endpoint
	return cfg
}

func newTestClient(t *testing.T, cfg LLMConfig, obs Observer) LLMClient {
	t.Helper()
	client, err := NewClient(cfg, obs)
	require.NoError(t, err)
	return client
}

func writeAnthropic(w http.ResponseWriter, text, stopReason string) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"model":       "claude-test",
		"content":     []map[string]string{{"type": "text", "text": text}},
		"stop_reason": stopReason,
		"usage":       map[string]int{"input_tokens": 120, "output_tokens": 45},
	})
}

func TestAnthropicClient_Generate_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))

		var req anthropicRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "system prompt", req.System)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)
		assert.Equal(t, "user prompt", req.Messages[0].Content)
		assert.Equal(t, 16000, req.MaxTokens)

		writeAnthropic(w, `{"wbsElements":[]}`, "end_turn")
	}))
	defer srv.Close()

	client := newTestClient(t, anthropicConfig(srv.URL), NoopObserver{})
	resp, err := client.Generate(context.Background(), GenerateRequest{
		Task:         TaskEstimate,
		SystemPrompt: "system prompt",
		UserPrompt:   "user prompt",
	})

	require.NoError(t, err)
	assert.Equal(t, `{"wbsElements":[]}`, resp.Text)
	assert.Equal(t, "claude-test", resp.Model)
	assert.False(t, resp.Truncated)
	assert.Equal(t, Usage{InputTokens: 120, OutputTokens: 45}, resp.Usage)
}

func TestAnthropicClient_Generate_MaxTokensIsTruncated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeAnthropic(w, `{"wbsElements":[{"title":"cut`, "max_tokens")
	}))
	defer srv.Close()

	client := newTestClient(t, anthropicConfig(srv.URL), NoopObserver{})
	resp, err := client.Generate(context.Background(), GenerateRequest{Task: TaskEstimate, UserPrompt: "x"})

	require.NoError(t, err)
	assert.True(t, resp.Truncated)
	assert.Equal(t, "max_tokens", resp.StopReason)
}

func TestOllamaClient_Generate_LengthIsTruncated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		var req ollamaRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama3.2", req.Model)
		assert.False(t, req.Stream)
		assert.Equal(t, "json", req.Format)

		json.NewEncoder(w).Encode(ollamaResponse{
			Model:           "llama3.2",
			Response:        "[1,2",
			DoneReason:      "length",
			PromptEvalCount: 10,
			EvalCount:       4,
		})
	}))
	defer srv.Close()

	client := newTestClient(t, ollamaConfig(srv.URL), NoopObserver{})
	resp, err := client.Generate(context.Background(), GenerateRequest{Task: TaskEstimate, UserPrompt: "x"})

	require.NoError(t, err)
	assert.True(t, resp.Truncated)
	assert.Equal(t, Usage{InputTokens: 10, OutputTokens: 4}, resp.Usage)
}

func TestClient_Generate_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := anthropicConfig(srv.URL)
	cfg.Tasks = map[TaskType]TaskConfig{
		TaskEstimate: {Temperature: 0.1, MaxTokens: 512, TimeoutMs: 50},
	}

	client := newTestClient(t, cfg, NoopObserver{})
	_, err := client.Generate(context.Background(), GenerateRequest{Task: TaskEstimate, UserPrompt: "test"})

	assert.ErrorIs(t, err, ErrTimeout)
}

func TestClient_Generate_Unavailable(t *testing.T) {
	cfg := anthropicConfig("http://127.0.0.1:1") // nothing listening
	cfg.Tasks = map[TaskType]TaskConfig{
		TaskEstimate: {Temperature: 0.1, MaxTokens: 512, TimeoutMs: 1000},
	}

	client := newTestClient(t, cfg, NoopObserver{})
	_, err := client.Generate(context.Background(), GenerateRequest{Task: TaskEstimate, UserPrompt: "test"})

	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestClient_Generate_RetryOnServerError(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("internal error"))
			return
		}
		writeAnthropic(w, "ok", "end_turn")
	}))
	defer srv.Close()

	cfg := anthropicConfig(srv.URL)
	cfg.MaxRetries = 1

	client := newTestClient(t, cfg, NoopObserver{})
	resp, err := client.Generate(context.Background(), GenerateRequest{Task: TaskEstimate, UserPrompt: "test"})

	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Text)
	assert.Equal(t, int32(2), attempts.Load())
}

func TestClient_Generate_ClientErrorNotRetried(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid x-api-key"}`))
	}))
	defer srv.Close()

	cfg := anthropicConfig(srv.URL)
	cfg.MaxRetries = 3

	client := newTestClient(t, cfg, NoopObserver{})
	_, err := client.Generate(context.Background(), GenerateRequest{Task: TaskEstimate, UserPrompt: "test"})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstreamStatus)
	assert.Equal(t, int32(1), attempts.Load())

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnauthorized, statusErr.Code)
}

func TestClient_Generate_RetriesExhausted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	cfg := anthropicConfig(srv.URL)
	cfg.MaxRetries = 1

	client := newTestClient(t, cfg, NoopObserver{})
	_, err := client.Generate(context.Background(), GenerateRequest{Task: TaskEstimate, UserPrompt: "test"})

	assert.ErrorIs(t, err, ErrRetryExhausted)
	assert.ErrorIs(t, err, ErrUpstreamStatus)
}

func TestClient_Available(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	assert.True(t, newTestClient(t, ollamaConfig(srv.URL), nil).Available(context.Background()))
	assert.False(t, newTestClient(t, ollamaConfig("http://127.0.0.1:1"), nil).Available(context.Background()))

	noKey := anthropicConfig(srv.URL)
	noKey.APIKey = ""
	assert.False(t, newTestClient(t, noKey, nil).Available(context.Background()))
	assert.True(t, newTestClient(t, anthropicConfig(srv.URL), nil).Available(context.Background()))
}

func TestClient_ObserverCalled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeAnthropic(w, "ok", "end_turn")
	}))
	defer srv.Close()

	var captured LLMCallEvent
	obs := &captureObserver{fn: func(e LLMCallEvent) { captured = e }}

	client := newTestClient(t, anthropicConfig(srv.URL), obs)
	_, err := client.Generate(context.Background(), GenerateRequest{Task: TaskEstimate, UserPrompt: "test"})

	require.NoError(t, err)
	assert.Equal(t, TaskEstimate, captured.Task)
	assert.Equal(t, ProviderAnthropic, captured.Provider)
	assert.Equal(t, "claude-test", captured.Model)
	assert.Equal(t, "end_turn", captured.StopReason)
	assert.Equal(t, 45, captured.OutputTokens)
	assert.True(t, captured.Success)
}

func TestNewClient_UnknownProvider(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = "carrier-pigeon"
	_, err := NewClient(cfg, nil)
	assert.ErrorIs(t, err, ErrUnknownProvider)
}
