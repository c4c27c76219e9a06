package pipeline

import (
	"context"

	"github.com/labirinth/curator/app/classifier"
	"github.com/labirinth/curator/app/feed"
	"github.com/labirinth/curator/app/publisher"
)

// Consumer-side contracts for the external gateways, so the orchestration
// logic is testable without any backend

type Poller interface {
	Fetch(ctx context.Context, url string) ([]feed.Entry, error)
}

type Extractor interface {
	Run(ctx context.Context, link string) (string, error)
}

type Classifier interface {
	Classify(ctx context.Context, title, summary string) (*classifier.Result, error)
}

type Translator interface {
	TranslatePair(ctx context.Context, title, text string) (string, string, error)
}

type Illustrator interface {
	Generate(ctx context.Context, title string) ([]byte, error)
}

type Publisher interface {
	HasDestination(category string) bool
	Publish(ctx context.Context, item *publisher.Item) (string, error)
}
