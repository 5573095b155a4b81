package llm

// #region imports
import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yufengw/ai-news-agent/internal/classify"
)

// #endregion

// #region wire-types

const (
	defaultBaseURL = "https://api.anthropic.com"
	apiVersion     = "2023-06-01"

	// Classification requests truncate the summary so a fallback call stays
	// one small round trip.
	maxClassifySummary = 300
)

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// #endregion wire-types

// #region client-struct

// Client talks to the external text classification/generation service over
// its JSON messages API. Construct one per process and pass it in; there is
// no package-level client.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// #endregion client-struct

// #region constructor

// NewClient creates a Client for the hosted service. httpClient may be nil.
func NewClient(apiKey, model string, httpClient *http.Client) *Client {
	return newClientWithBaseURL(apiKey, model, httpClient, defaultBaseURL)
}

// newClientWithBaseURL exists so tests can point the client at an httptest
// server.
func newClientWithBaseURL(apiKey, model string, httpClient *http.Client, baseURL string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &Client{
		apiKey:     apiKey,
		model:      model,
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// #endregion constructor

// #region complete

// Complete sends a single-turn prompt and returns the response text.
func (c *Client) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	body, err := json.Marshal(messagesRequest{
		Model:     c.model,
		MaxTokens: maxTokens,
		Messages:  []message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("messages request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("messages request: status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var parsed messagesResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Content) == 0 {
		return "", fmt.Errorf("empty response content")
	}
	return parsed.Content[0].Text, nil
}

// #endregion complete

// #region classify

const classifyPrompt = `Classify this article into relevant %s.

Title: %s
Summary: %s

Available %s: %s

Return a JSON array of 1-3 most relevant %s. Example: ["open_source", "reasoning"]

Only return the JSON array, nothing else.`

// Classify implements classify.Fallback with a single-shot call constrained
// to the given vocabulary. The caller treats any error as "no tags".
func (c *Client) Classify(ctx context.Context, req classify.FallbackRequest) ([]string, error) {
	summary := req.Summary
	if len(summary) > maxClassifySummary {
		summary = summary[:maxClassifySummary]
	}
	prompt := fmt.Sprintf(classifyPrompt,
		req.Category, req.Title, summary, req.Category,
		strings.Join(req.Options, ", "), req.Category)

	text, err := c.Complete(ctx, prompt, 100)
	if err != nil {
		return nil, err
	}

	var labels []string
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &labels); err != nil {
		return nil, fmt.Errorf("parse labels: %w", err)
	}
	return labels, nil
}

// #endregion classify
