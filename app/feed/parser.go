package feed

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// timestampFormats is the fixed ordered list of textual timestamp layouts
// tried when a feed carries no structured date
var timestampFormats = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC3339,
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05",
}

// Parser fetches a syndication source and normalizes it into candidate
// entries, oldest-first
type Parser struct {
	gofeedParser *gofeed.Parser
	httpClient   *http.Client
	userAgent    string
	batchSize    int
}

func NewParser(httpClient *http.Client, userAgent string, batchSize int) *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
		httpClient:   httpClient,
		userAgent:    userAgent,
		batchSize:    batchSize,
	}
}

// Fetch retrieves and parses a feed URL. The newest batchSize items are
// considered and returned oldest-first, so older unseen content is handled
// before the daily quota exhausts.
func (p *Parser) Fetch(ctx context.Context, url string) ([]Entry, error) {
	data, err := p.fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	return p.Parse(data)
}

func (p *Parser) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d fetching feed", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read feed body: %w", err)
	}

	return data, nil
}

// Parse normalizes raw feed data into entries, oldest-first within the batch
func (p *Parser) Parse(data []byte) ([]Entry, error) {
	parsed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	items := parsed.Items
	if p.batchSize > 0 && len(items) > p.batchSize {
		items = items[:p.batchSize]
	}

	entries := make([]Entry, 0, len(items))
	for _, item := range items {
		if item.Link == "" {
			continue
		}
		entries = append(entries, p.normalizeItem(item))
	}

	// Feeds list newest-first; reverse so the oldest of the batch comes out first
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}

	return entries, nil
}

func (p *Parser) normalizeItem(item *gofeed.Item) Entry {
	return Entry{
		ID:          item.Link,
		Title:       item.Title,
		Summary:     cmp.Or(item.Description, item.Content),
		PublishedAt: derivePublishedAt(item),
	}
}

// derivePublishedAt resolves the best-effort publication timestamp:
// structured published date, then structured updated date, then the textual
// fields parsed against the known layouts. Everything is normalized to UTC;
// naive timestamps are assumed UTC. Returns nil when nothing is derivable.
func derivePublishedAt(item *gofeed.Item) *time.Time {
	if item.PublishedParsed != nil {
		t := item.PublishedParsed.UTC()
		return &t
	}
	if item.UpdatedParsed != nil {
		t := item.UpdatedParsed.UTC()
		return &t
	}

	raw := cmp.Or(item.Published, item.Updated)
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	for _, layout := range timestampFormats {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t
		}
	}

	return nil
}
