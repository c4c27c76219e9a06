package publisher

import "context"

// Sender delivers messages to a chat destination. The pipeline depends on
// this interface; the Telegram adapter is the production implementation.
type Sender interface {
	// SendPhoto posts an image with a rich-text caption and returns the
	// unique message identifier of what was just posted
	SendPhoto(ctx context.Context, destination string, image []byte, caption string) (int, error)

	// SendMessage posts rich text, optionally suppressing link previews
	SendMessage(ctx context.Context, destination string, text string, disablePreview bool) error
}
