package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"
)

// maxSummaryChars bounds the summary embedded in the prompt to respect
// backend context limits
const maxSummaryChars = 3500

// Client talks to an Ollama-compatible chat endpoint and turns a raw entry
// into a structured classification result
type Client struct {
	baseURL    string
	model      string
	persona    string
	policy     RetryPolicy
	httpClient *http.Client

	// sleep is swappable in tests
	sleep func(ctx context.Context) error
}

func NewClient(baseURL, model, persona string, policy RetryPolicy) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		persona:    persona,
		policy:     policy,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
	c.sleep = policy.sleep
	return c
}

// Classify sends one structured prompt for the entry and requires a strict
// JSON object answer. Transport failures and empty bodies are retried per
// the policy; a non-JSON answer is a content failure and consumes no
// further attempts.
func (c *Client) Classify(ctx context.Context, title, summary string) (*Result, error) {
	prompt := c.buildPrompt(title, summary)

	var response string
	for attempt := 1; attempt <= c.policy.MaxAttempts; attempt++ {
		text, err := c.chat(ctx, prompt)
		if err == nil && text != "" {
			response = text
			break
		}

		if err != nil {
			slog.Warn("Classifier attempt failed", "attempt", attempt, "max_attempts", c.policy.MaxAttempts, "error", err)
		} else {
			slog.Warn("Classifier returned empty response", "attempt", attempt, "max_attempts", c.policy.MaxAttempts)
		}

		if sleepErr := c.sleep(ctx); sleepErr != nil {
			return nil, sleepErr
		}
	}

	if response == "" {
		return nil, ErrExhausted
	}

	return parseResult(response)
}

func (c *Client) buildPrompt(title, summary string) string {
	if len(summary) > maxSummaryChars {
		summary = summary[:maxSummaryChars]
	}

	return fmt.Sprintf(`%s
Titolo originale: %s
Summary: %s

Rispondi SOLO con JSON valido:
{
  "category": "AI" o "CYBER" o "HARDWARE" o "IGNORE",
  "title": "titolo italiano max 90 char",
  "text": "cappello 2-4 righe italiano perfetto",
  "hashtags": "#AI #Cyber #Hardware"
}`, c.persona, title, summary)
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
}

func (c *Client) chat(ctx context.Context, prompt string) (string, error) {
	reqBody := chatRequest{
		Model:    c.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
		Stream:   false,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	return strings.TrimSpace(chatResp.Message.Content), nil
}

var codeBlockRegex = regexp.MustCompile("(?s)^\\s*```(?:json)?\\s*(.+?)\\s*```\\s*$")

// stripCodeFence removes a surrounding markdown code fence when the model
// wraps its JSON in one
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if matches := codeBlockRegex.FindStringSubmatch(s); len(matches) > 1 {
		return strings.TrimSpace(matches[1])
	}
	return s
}

func parseResult(response string) (*Result, error) {
	var result Result
	if err := json.Unmarshal([]byte(stripCodeFence(response)), &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if !result.Category.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", ErrMalformedResponse, result.Category)
	}
	if result.Category != CategoryIgnore && (result.Title == "" || result.Text == "") {
		return nil, fmt.Errorf("%w: missing title or text", ErrMalformedResponse)
	}

	return &result, nil
}
