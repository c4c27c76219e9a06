package feed

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mmcdole/gofeed"
)

func rssDoc(items string) []byte {
	return []byte(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
<title>Test Feed</title>
<link>https://example.com</link>
<description>Test</description>
%s
</channel>
</rss>`, items))
}

func TestParser_Parse_OldestFirst(t *testing.T) {
	parser := NewParser(http.DefaultClient, "test-agent", 20)

	doc := rssDoc(`
<item><title>Newest</title><link>https://example.com/3</link><pubDate>Wed, 12 Mar 2025 10:00:00 +0000</pubDate></item>
<item><title>Middle</title><link>https://example.com/2</link><pubDate>Tue, 11 Mar 2025 10:00:00 +0000</pubDate></item>
<item><title>Oldest</title><link>https://example.com/1</link><pubDate>Mon, 10 Mar 2025 10:00:00 +0000</pubDate></item>`)

	entries, err := parser.Parse(doc)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(entries))
	}
	if entries[0].Title != "Oldest" {
		t.Errorf("Expected oldest entry first, got %q", entries[0].Title)
	}
	if entries[2].Title != "Newest" {
		t.Errorf("Expected newest entry last, got %q", entries[2].Title)
	}
	if entries[0].ID != "https://example.com/1" {
		t.Errorf("Entry identity should be the link, got %q", entries[0].ID)
	}
}

func TestParser_Parse_BatchCap(t *testing.T) {
	parser := NewParser(http.DefaultClient, "test-agent", 2)

	doc := rssDoc(`
<item><title>A</title><link>https://example.com/a</link></item>
<item><title>B</title><link>https://example.com/b</link></item>
<item><title>C</title><link>https://example.com/c</link></item>`)

	entries, err := parser.Parse(doc)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	// The cap keeps the newest items of the batch (the feed head)
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[0].Title != "B" || entries[1].Title != "A" {
		t.Errorf("Expected [B A], got [%s %s]", entries[0].Title, entries[1].Title)
	}
}

func TestParser_Parse_SkipsLinklessItems(t *testing.T) {
	parser := NewParser(http.DefaultClient, "test-agent", 20)

	doc := rssDoc(`
<item><title>No link</title></item>
<item><title>Has link</title><link>https://example.com/a</link></item>`)

	entries, err := parser.Parse(doc)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}
	if entries[0].Title != "Has link" {
		t.Errorf("Unexpected entry: %q", entries[0].Title)
	}
}

func TestParser_Parse_SummaryFallsBackToContent(t *testing.T) {
	parser := NewParser(http.DefaultClient, "test-agent", 20)

	doc := []byte(`<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
<title>Atom Feed</title>
<entry>
<title>Entry</title>
<link href="https://example.com/a"/>
<content type="text">Full content body</content>
</entry>
</feed>`)

	entries, err := parser.Parse(doc)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}
	if entries[0].Summary != "Full content body" {
		t.Errorf("Expected content fallback, got %q", entries[0].Summary)
	}
}

func TestParser_Fetch(t *testing.T) {
	doc := rssDoc(`<item><title>A</title><link>https://example.com/a</link></item>`)

	var gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		w.Write(doc)
	}))
	defer server.Close()

	parser := NewParser(server.Client(), "curator-test", 20)
	entries, err := parser.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}
	if gotAgent != "curator-test" {
		t.Errorf("Expected configured user agent, got %q", gotAgent)
	}
}

func TestParser_Fetch_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	parser := NewParser(server.Client(), "test-agent", 20)
	if _, err := parser.Fetch(context.Background(), server.URL); err == nil {
		t.Error("Expected error for HTTP 500, got nil")
	}
}

func TestDerivePublishedAt(t *testing.T) {
	structured := time.Date(2025, 3, 10, 12, 0, 0, 0, time.FixedZone("CET", 3600))
	updated := time.Date(2025, 3, 11, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		item *gofeed.Item
		want *time.Time
	}{
		{
			name: "structured published wins",
			item: &gofeed.Item{PublishedParsed: &structured, UpdatedParsed: &updated},
			want: timePtr(structured.UTC()),
		},
		{
			name: "structured updated is the second choice",
			item: &gofeed.Item{UpdatedParsed: &updated},
			want: timePtr(updated),
		},
		{
			name: "textual RFC1123Z fallback",
			item: &gofeed.Item{Published: "Mon, 10 Mar 2025 12:00:00 +0100"},
			want: timePtr(time.Date(2025, 3, 10, 11, 0, 0, 0, time.UTC)),
		},
		{
			name: "textual RFC3339 fallback",
			item: &gofeed.Item{Updated: "2025-03-10T12:00:00Z"},
			want: timePtr(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)),
		},
		{
			name: "naive timestamp assumed UTC",
			item: &gofeed.Item{Published: "2025-03-10T12:00:00"},
			want: timePtr(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)),
		},
		{
			name: "unparseable text",
			item: &gofeed.Item{Published: "about a week ago"},
			want: nil,
		},
		{
			name: "no timestamp at all",
			item: &gofeed.Item{},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := derivePublishedAt(tt.item)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("Expected %v, got %v", tt.want, got)
			}
			if got != nil && !got.Equal(*tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
			if got != nil && got.Location() != time.UTC {
				t.Errorf("Derived timestamp should be UTC, got %v", got.Location())
			}
		})
	}
}

func timePtr(t time.Time) *time.Time {
	return &t
}
