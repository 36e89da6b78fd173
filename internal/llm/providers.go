package llm

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Provider adapts the request and response shapes of one text-generation API.
type Provider interface {
	Name() string
	BuildURL(endpoint string) string
	SetHeaders(req *http.Request, cfg LLMConfig)
	BuildRequestBody(model string, req GenerateRequest, temperature float64, maxTokens int) ([]byte, error)
	ParseResponse(body []byte) (*GenerateResponse, error)
	// HealthURL is probed by Available; empty means skip the probe.
	HealthURL(endpoint string) string
}

// ProviderFor returns the adapter registered under name.
func ProviderFor(name string) (Provider, error) {
	switch strings.ToLower(name) {
	case "", ProviderAnthropic:
		return anthropicProvider{}, nil
	case ProviderOllama:
		return ollamaProvider{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
}

const anthropicVersion = "2023-06-01"

type anthropicProvider struct{}

func (anthropicProvider) Name() string { return ProviderAnthropic }

func (anthropicProvider) BuildURL(endpoint string) string {
	if endpoint == "" {
		endpoint = "https://api.anthropic.com"
	}
	return strings.TrimSuffix(endpoint, "/") + "/v1/messages"
}

func (anthropicProvider) HealthURL(string) string { return "" }

func (anthropicProvider) SetHeaders(req *http.Request, cfg LLMConfig) {
	if cfg.APIKey != "" {
		req.Header.Set("x-api-key", cfg.APIKey)
	}
	req.Header.Set("anthropic-version", anthropicVersion)
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	System      string             `json:"system,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
	Temperature float64            `json:"temperature"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Model   string `json:"model"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

func (anthropicProvider) BuildRequestBody(model string, req GenerateRequest, temperature float64, maxTokens int) ([]byte, error) {
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	return json.Marshal(anthropicRequest{
		Model:       model,
		MaxTokens:   maxTokens,
		System:      req.SystemPrompt,
		Messages:    []anthropicMessage{{Role: "user", Content: req.UserPrompt}},
		Temperature: temperature,
	})
}

func (anthropicProvider) ParseResponse(body []byte) (*GenerateResponse, error) {
	var resp anthropicResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decoding anthropic response: %w", err)
	}
	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	return &GenerateResponse{
		Text:       text.String(),
		Model:      resp.Model,
		StopReason: resp.StopReason,
		Truncated:  resp.StopReason == "max_tokens",
		Usage: Usage{
			InputTokens:  resp.Usage.InputTokens,
			OutputTokens: resp.Usage.OutputTokens,
		},
	}, nil
}

type ollamaProvider struct{}

func (ollamaProvider) Name() string { return ProviderOllama }

func (ollamaProvider) BuildURL(endpoint string) string {
	if endpoint == "" {
		endpoint = "http://localhost:11434"
	}
	return strings.TrimSuffix(endpoint, "/") + "/api/generate"
}

func (ollamaProvider) HealthURL(endpoint string) string {
	if endpoint == "" {
		endpoint = "http://localhost:11434"
	}
	return strings.TrimSuffix(endpoint, "/") + "/api/tags"
}

func (ollamaProvider) SetHeaders(*http.Request, LLMConfig) {}

// ollamaRequest is the JSON body sent to POST /api/generate.
type ollamaRequest struct {
	Model   string        `json:"model"`
	System  string        `json:"system,omitempty"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Format  string        `json:"format,omitempty"`
	Options ollamaOptions `json:"options,omitempty"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

// ollamaResponse is the JSON body returned by POST /api/generate (non-streaming).
type ollamaResponse struct {
	Model           string `json:"model"`
	Response        string `json:"response"`
	DoneReason      string `json:"done_reason"`
	PromptEvalCount int    `json:"prompt_eval_count"`
	EvalCount       int    `json:"eval_count"`
}

func (ollamaProvider) BuildRequestBody(model string, req GenerateRequest, temperature float64, maxTokens int) ([]byte, error) {
	return json.Marshal(ollamaRequest{
		Model:  model,
		System: req.SystemPrompt,
		Prompt: req.UserPrompt,
		Stream: false,
		Format: "json",
		Options: ollamaOptions{
			Temperature: temperature,
			NumPredict:  maxTokens,
		},
	})
}

func (ollamaProvider) ParseResponse(body []byte) (*GenerateResponse, error) {
	var resp ollamaResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decoding ollama response: %w", err)
	}
	return &GenerateResponse{
		Text:       resp.Response,
		Model:      resp.Model,
		StopReason: resp.DoneReason,
		Truncated:  resp.DoneReason == "length",
		Usage: Usage{
			InputTokens:  resp.PromptEvalCount,
			OutputTokens: resp.EvalCount,
		},
	}, nil
}
