package illustrator

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// promptTemplate is the fixed visual directive. The prompt is a pure
// function of the entry's original title; repeated calls may legitimately
// render different images since no seed is pinned.
const promptTemplate = "cyberpunk minotaur labyrinth circuit, acid green deep purple neon glow, dark background, ultra detailed, dramatic lighting, no text, 16:9, themed on: %s"

// Client renders one illustrative image per accepted entry through a
// txt2img HTTP backend
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 5 * time.Minute},
	}
}

// Prompt builds the visual prompt for an entry title
func Prompt(title string) string {
	return fmt.Sprintf(promptTemplate, title)
}

type txt2imgRequest struct {
	Prompt string `json:"prompt"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Steps  int    `json:"steps"`
}

type txt2imgResponse struct {
	Images []string `json:"images"`
}

// Generate renders a single PNG for the entry title
func (c *Client) Generate(ctx context.Context, title string) ([]byte, error) {
	reqBody := txt2imgRequest{
		Prompt: Prompt(title),
		Width:  1024,
		Height: 576,
		Steps:  4,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/sdapi/v1/txt2img", bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var imgResp txt2imgResponse
	if err := json.NewDecoder(resp.Body).Decode(&imgResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(imgResp.Images) == 0 {
		return nil, fmt.Errorf("no images in response")
	}

	image, err := base64.StdEncoding.DecodeString(imgResp.Images[0])
	if err != nil {
		return nil, fmt.Errorf("failed to decode image payload: %w", err)
	}
	if len(image) == 0 {
		return nil, fmt.Errorf("empty image payload")
	}

	return image, nil
}
