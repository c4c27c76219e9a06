package translator

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client renders text into the target locale via the DeepL v2 API.
// Translation is character-preserving: no re-summarization happens here.
type Client struct {
	baseURL    string
	authKey    string
	targetLang string
	httpClient *http.Client
}

func NewClient(baseURL, authKey, targetLang string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		authKey:    authKey,
		targetLang: targetLang,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type translateResponse struct {
	Translations []struct {
		Text string `json:"text"`
	} `json:"translations"`
}

// Translate renders a single text into the target locale
func (c *Client) Translate(ctx context.Context, text string) (string, error) {
	form := url.Values{}
	form.Set("auth_key", c.authKey)
	form.Set("text", text)
	form.Set("target_lang", c.targetLang)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/translate", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var translateResp translateResponse
	if err := json.NewDecoder(resp.Body).Decode(&translateResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(translateResp.Translations) == 0 {
		return "", fmt.Errorf("no translations in response")
	}

	return translateResp.Translations[0].Text, nil
}

// TranslatePair translates a title and a body atomically: either both
// succeed or the caller gets an error and nothing usable, so a
// half-translated publish can never happen
func (c *Client) TranslatePair(ctx context.Context, title, text string) (string, string, error) {
	translatedTitle, err := c.Translate(ctx, title)
	if err != nil {
		return "", "", fmt.Errorf("failed to translate title: %w", err)
	}

	translatedText, err := c.Translate(ctx, text)
	if err != nil {
		return "", "", fmt.Errorf("failed to translate text: %w", err)
	}

	return translatedTitle, translatedText, nil
}
