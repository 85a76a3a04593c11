package semantic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

// Flavor selects the wire protocol spoken to the review endpoint.
type Flavor string

const (
	FlavorOpenAI    Flavor = "openai"
	FlavorAnthropic Flavor = "anthropic"
)

const (
	defaultAnthropicVersion   = "2023-06-01"
	defaultAnthropicMaxTokens = 1024
	defaultTimeout            = 30 * time.Second
)

// Config describes the remote review endpoint.
type Config struct {
	Endpoint  string // base URL, e.g. https://api.openai.com/v1
	Path      string // appended to Endpoint; defaults per flavor
	Model     string
	Flavor    Flavor // defaults to openai
	APIKey    string
	APIKeyEnv string // environment variable consulted when APIKey is empty
	MaxTokens int
	Timeout   time.Duration
}

func (c Config) flavor() Flavor {
	if c.Flavor == FlavorAnthropic {
		return FlavorAnthropic
	}
	return FlavorOpenAI
}

func (c Config) path() string {
	if c.Path != "" {
		return c.Path
	}
	if c.flavor() == FlavorAnthropic {
		return "/v1/messages"
	}
	return "/chat/completions"
}

func (c Config) key() string {
	if k := strings.TrimSpace(c.APIKey); k != "" {
		return k
	}
	if c.APIKeyEnv != "" {
		return strings.TrimSpace(os.Getenv(c.APIKeyEnv))
	}
	return ""
}

// Client submits a review prompt and returns the model's text reply.
type Client interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// HTTPClient talks to an OpenAI-compatible or Anthropic endpoint.
type HTTPClient struct {
	cfg  Config
	http *http.Client
}

// NewHTTPClient creates a client for the configured endpoint.
func NewHTTPClient(cfg Config) *HTTPClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HTTPClient{cfg: cfg, http: &http.Client{Timeout: timeout}}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens *int          `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

type anthropicRequest struct {
	Model     string        `json:"model"`
	MaxTokens int           `json:"max_tokens"`
	Messages  []chatMessage `json:"messages"`
	System    string        `json:"system,omitempty"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func (c *HTTPClient) Complete(ctx context.Context, system, user string) (string, error) {
	if strings.TrimSpace(c.cfg.Endpoint) == "" {
		return "", errors.New("semantic endpoint is required")
	}
	if strings.TrimSpace(c.cfg.Model) == "" {
		return "", errors.New("semantic model is required")
	}
	if c.cfg.flavor() == FlavorAnthropic {
		return c.completeAnthropic(ctx, system, user)
	}
	return c.completeOpenAI(ctx, system, user)
}

func (c *HTTPClient) completeOpenAI(ctx context.Context, system, user string) (string, error) {
	reqBody := chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	}
	if c.cfg.MaxTokens > 0 {
		reqBody.MaxTokens = &c.cfg.MaxTokens
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := c.newRequest(ctx, body)
	if err != nil {
		return "", err
	}
	if key := c.cfg.key(); key != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if resp.StatusCode >= 400 {
		if parsed.Error != nil && parsed.Error.Message != "" {
			return "", fmt.Errorf("semantic endpoint: %s", parsed.Error.Message)
		}
		return "", fmt.Errorf("semantic endpoint: status %d", resp.StatusCode)
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("semantic response missing choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

func (c *HTTPClient) completeAnthropic(ctx context.Context, system, user string) (string, error) {
	maxTokens := c.cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultAnthropicMaxTokens
	}
	body, err := json.Marshal(anthropicRequest{
		Model:     c.cfg.Model,
		MaxTokens: maxTokens,
		System:    system,
		Messages:  []chatMessage{{Role: "user", Content: user}},
	})
	if err != nil {
		return "", err
	}

	req, err := c.newRequest(ctx, body)
	if err != nil {
		return "", err
	}
	if key := c.cfg.key(); key != "" {
		req.Header.Set("x-api-key", key)
	}
	req.Header.Set("anthropic-version", defaultAnthropicVersion)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var parsed anthropicResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if resp.StatusCode >= 400 {
		if parsed.Error != nil && parsed.Error.Message != "" {
			return "", fmt.Errorf("semantic endpoint: %s", parsed.Error.Message)
		}
		return "", fmt.Errorf("semantic endpoint: status %d", resp.StatusCode)
	}

	var out strings.Builder
	for _, block := range parsed.Content {
		if block.Type == "text" {
			out.WriteString(block.Text)
		}
	}
	if out.Len() == 0 {
		return "", errors.New("semantic response missing text")
	}
	return out.String(), nil
}

func (c *HTTPClient) newRequest(ctx context.Context, body []byte) (*http.Request, error) {
	url := strings.TrimRight(c.cfg.Endpoint, "/") + c.cfg.path()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "mcpready")
	return req, nil
}
