package publisher

import (
	"fmt"
	"strings"
)

// teaserLimit is the number of characters of body text carried into the
// cross-posted teaser
const teaserLimit = 150

// Permalink derives the public link for a posted message from the
// destination handle and the delivery message id
func Permalink(destination string, messageID int) string {
	return fmt.Sprintf("https://t.me/%s/%d", strings.TrimPrefix(destination, "@"), messageID)
}

// FormatCaption builds the full caption for the category-channel post
func FormatCaption(item *Item, callToAction string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "*%s*\n\n%s\n\n%s\n\nFonte: %s\n→ %s", item.Title, item.Text, item.Hashtags, item.FeedName, item.Link)
	if callToAction != "" {
		fmt.Fprintf(&sb, "\n\n%s", callToAction)
	}
	return sb.String()
}

// FormatTeaser builds the shortened cross-post for the main channel
func FormatTeaser(item *Item, permalink string) string {
	return fmt.Sprintf("*%s* #%s\n\n%s...\n\n→ %s\n%s",
		item.Title, item.Category, truncateRunes(item.Text, teaserLimit), permalink, item.Hashtags)
}

// truncateRunes shortens s to at most n runes, never splitting a character
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
