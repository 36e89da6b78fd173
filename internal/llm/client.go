package llm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// GenerateRequest holds the parameters for an LLM generation call.
type GenerateRequest struct {
	Task         TaskType
	SystemPrompt string
	UserPrompt   string
	Temperature  *float64 // nil uses task default
	MaxTokens    *int     // nil uses task default
}

// Usage reports token consumption for one call.
type Usage struct {
	InputTokens  int `json:"inputTokens"`
	OutputTokens int `json:"outputTokens"`
}

// GenerateResponse holds the result of an LLM generation call.
type GenerateResponse struct {
	Text       string
	Model      string
	StopReason string
	// Truncated is set when the provider stopped on its output length limit.
	Truncated bool
	Usage     Usage
	LatencyMs int64
}

// LLMClient provides access to a language model for text generation.
type LLMClient interface {
	// Generate sends a prompt and returns the raw text response.
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// Available checks whether the provider endpoint is reachable.
	Available(ctx context.Context) bool
}

// httpClient implements LLMClient over a Provider adapter.
type httpClient struct {
	cfg      LLMConfig
	provider Provider
	http     *http.Client
	observer Observer
}

// NewClient creates an LLMClient for the provider named in cfg.
func NewClient(cfg LLMConfig, observer Observer) (LLMClient, error) {
	provider, err := ProviderFor(cfg.Provider)
	if err != nil {
		return nil, err
	}
	if observer == nil {
		observer = NoopObserver{}
	}
	return &httpClient{
		cfg:      cfg,
		provider: provider,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		observer: observer,
	}, nil
}

func (c *httpClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	start := time.Now()

	taskCfg := c.cfg.Tasks[req.Task]
	temp := taskCfg.Temperature
	if req.Temperature != nil {
		temp = *req.Temperature
	}
	maxTok := taskCfg.MaxTokens
	if req.MaxTokens != nil {
		maxTok = *req.MaxTokens
	}

	timeoutMs := c.cfg.TaskTimeout(req.Task)
	ctx, cancel := context.WithTimeout(ctx, time.Duration(timeoutMs)*time.Millisecond)
	defer cancel()

	body, err := c.provider.BuildRequestBody(c.cfg.Model, req, temp, maxTok)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	var lastErr error
	attempts := 1 + c.cfg.MaxRetries

	for i := 0; i < attempts; i++ {
		resp, err := c.doRequest(ctx, body)
		if err == nil {
			resp.LatencyMs = time.Since(start).Milliseconds()
			if resp.Model == "" {
				resp.Model = c.cfg.Model
			}
			c.observer.OnCallComplete(LLMCallEvent{
				Task:         req.Task,
				Provider:     c.provider.Name(),
				Model:        resp.Model,
				LatencyMs:    resp.LatencyMs,
				Success:      true,
				StopReason:   resp.StopReason,
				InputTokens:  resp.Usage.InputTokens,
				OutputTokens: resp.Usage.OutputTokens,
			})
			return resp, nil
		}
		lastErr = err

		// Client errors and cancellation are not worth repeating.
		var statusErr *StatusError
		if ctx.Err() != nil || (errors.As(err, &statusErr) && !statusErr.Retryable()) {
			break
		}
	}

	switch {
	case ctx.Err() != nil:
		lastErr = ErrTimeout
	case isConnectionError(lastErr):
		lastErr = fmt.Errorf("%w: %w", ErrUnavailable, lastErr)
	case attempts > 1:
		lastErr = fmt.Errorf("%w: %w", ErrRetryExhausted, lastErr)
	}

	c.observer.OnCallComplete(LLMCallEvent{
		Task:      req.Task,
		Provider:  c.provider.Name(),
		Model:     c.cfg.Model,
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   false,
		ErrorCode: errorCode(lastErr),
	})
	return nil, lastErr
}

func (c *httpClient) doRequest(ctx context.Context, body []byte) (*GenerateResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.provider.BuildURL(c.cfg.Endpoint), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	c.provider.SetHeaders(httpReq, c.cfg)

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return nil, &StatusError{
			Provider: c.provider.Name(),
			Code:     httpResp.StatusCode,
			Body:     excerpt(string(respBody), 300),
		}
	}

	return c.provider.ParseResponse(respBody)
}

func (c *httpClient) Available(ctx context.Context) bool {
	if !c.cfg.HasCredential() {
		return false
	}
	url := c.provider.HealthURL(c.cfg.Endpoint)
	if url == "" {
		return true
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var netErr *net.OpError
	return errors.As(err, &netErr)
}

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrUpstreamStatus):
		return "UPSTREAM_STATUS"
	case errors.Is(err, ErrInvalidOutput):
		return "INVALID_OUTPUT"
	default:
		return "UNKNOWN"
	}
}

func excerpt(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
