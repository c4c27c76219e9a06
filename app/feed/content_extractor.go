package feed

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-shiori/go-readability"
)

// maxExtractedChars bounds the text handed to the classifier prompt
const maxExtractedChars = 3500

// ContentExtractor pulls readable article text from an entry's page.
// Used as a fallback when the feed itself carries no usable summary.
type ContentExtractor struct {
	httpClient *http.Client
	userAgent  string
}

func NewContentExtractor(httpClient *http.Client, userAgent string) *ContentExtractor {
	return &ContentExtractor{
		httpClient: httpClient,
		userAgent:  userAgent,
	}
}

// Run fetches the page behind link and extracts its main text content
func (e *ContentExtractor) Run(ctx context.Context, link string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", e.userAgent)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d fetching page", resp.StatusCode)
	}

	pageURL, err := url.Parse(link)
	if err != nil {
		return "", fmt.Errorf("failed to parse page URL: %w", err)
	}

	article, err := readability.FromReader(resp.Body, pageURL)
	if err != nil {
		return "", fmt.Errorf("failed to extract content: %w", err)
	}

	text := strings.TrimSpace(article.TextContent)
	if text == "" {
		return "", fmt.Errorf("no content extracted from page")
	}

	if len(text) > maxExtractedChars {
		text = text[:maxExtractedChars]
	}

	slog.Debug("Content extracted successfully",
		"link", link,
		"content_length", len(text))

	return text, nil
}
