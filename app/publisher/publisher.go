package publisher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/labirinth/curator/app/config"
)

// ErrUnmappedCategory means no destination is configured for a non-IGNORE
// category; the entry is dropped before any delivery call
var ErrUnmappedCategory = errors.New("no destination configured for category")

// Item is a fully prepared publication: classified, rewritten, translated
// and illustrated
type Item struct {
	Title    string // translated title
	Text     string // translated body
	Hashtags string
	Category string // classifier category, e.g. CYBER
	FeedName string
	Link     string // original entry link
	Image    []byte
}

// Publisher executes the two-step publish protocol: the full illustrated
// post to the category channel, then the teaser cross-post to main. Only
// when both steps succeed does the caller commit ledger and quota.
type Publisher struct {
	sender       Sender
	channels     map[string]string
	callToAction string
}

func NewPublisher(sender Sender, channels map[string]string, callToAction string) *Publisher {
	return &Publisher{
		sender:       sender,
		channels:     channels,
		callToAction: callToAction,
	}
}

// HasDestination reports whether a category resolves to a configured channel
func (p *Publisher) HasDestination(category string) bool {
	_, ok := p.channels[strings.ToLower(category)]
	return ok
}

// Publish posts the item and its teaser. A failure after step 1 leaves the
// category channel with a post that the caller will not commit; reprocessing
// may then deliver it a second time. That duplication risk is accepted in
// preference to silently losing the teaser.
func (p *Publisher) Publish(ctx context.Context, item *Item) (string, error) {
	destination, ok := p.channels[strings.ToLower(item.Category)]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnmappedCategory, item.Category)
	}

	caption := FormatCaption(item, p.callToAction)
	messageID, err := p.sender.SendPhoto(ctx, destination, item.Image, caption)
	if err != nil {
		return "", fmt.Errorf("failed to deliver category post: %w", err)
	}

	permalink := Permalink(destination, messageID)
	slog.Debug("Category post delivered", "destination", destination, "message_id", messageID, "permalink", permalink)

	teaser := FormatTeaser(item, permalink)
	if err := p.sender.SendMessage(ctx, p.channels[config.MainChannel], teaser, true); err != nil {
		return "", fmt.Errorf("category post delivered but teaser failed: %w", err)
	}

	return permalink, nil
}
