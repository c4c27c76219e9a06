package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/labirinth/curator/app/classifier"
	"github.com/labirinth/curator/app/config"
	"github.com/labirinth/curator/app/feed"
	"github.com/labirinth/curator/app/publisher"
	"github.com/labirinth/curator/app/store"
)

// Outcome is the terminal state of one entry in one sweep
type Outcome string

const (
	OutcomePublished    Outcome = "published"
	OutcomeDuplicate    Outcome = "duplicate"
	OutcomeStale        Outcome = "stale"
	OutcomeQuota        Outcome = "quota"
	OutcomeIgnored      Outcome = "ignored"
	OutcomeUnmapped     Outcome = "unmapped"
	OutcomeContentError Outcome = "content_error"
	OutcomeFailed       Outcome = "failed"
)

// Pipeline turns a raw feed entry into at most one durable publish action.
// Entries are processed strictly sequentially: the quota counter is shared
// and the generation backends are single-capacity local resources.
type Pipeline struct {
	store         store.StateStore
	poller        Poller
	freshness     *feed.Freshness
	extractor     Extractor
	classifier    Classifier
	translator    Translator
	illustrator   Illustrator
	publisher     Publisher
	maxDailyPosts int

	// markEvaluated records ignored and unclassifiable entries in the
	// ledger so they are never sent to the backend again. Off by default:
	// leaving them unrecorded allows re-classification on later sweeps.
	markEvaluated bool

	// now is swappable in tests
	now func() time.Time
}

type Options struct {
	Store         store.StateStore
	Poller        Poller
	Freshness     *feed.Freshness
	Extractor     Extractor
	Classifier    Classifier
	Translator    Translator
	Illustrator   Illustrator
	Publisher     Publisher
	MaxDailyPosts int
	MarkEvaluated bool
}

func New(opts Options) *Pipeline {
	return &Pipeline{
		store:         opts.Store,
		poller:        opts.Poller,
		freshness:     opts.Freshness,
		extractor:     opts.Extractor,
		classifier:    opts.Classifier,
		translator:    opts.Translator,
		illustrator:   opts.Illustrator,
		publisher:     opts.Publisher,
		maxDailyPosts: opts.MaxDailyPosts,
		markEvaluated: opts.MarkEvaluated,
		now:           time.Now,
	}
}

// Stats tallies entry outcomes across one sweep
type Stats struct {
	Scanned      int `json:"scanned"`
	Published    int `json:"published"`
	Duplicates   int `json:"duplicates"`
	Stale        int `json:"stale"`
	QuotaSkipped int `json:"quota_skipped"`
	Ignored      int `json:"ignored"`
	Errors       int `json:"errors"`
}

func (s *Stats) record(outcome Outcome) {
	s.Scanned++
	switch outcome {
	case OutcomePublished:
		s.Published++
	case OutcomeDuplicate:
		s.Duplicates++
	case OutcomeStale:
		s.Stale++
	case OutcomeQuota:
		s.QuotaSkipped++
	case OutcomeIgnored, OutcomeUnmapped, OutcomeContentError:
		s.Ignored++
	case OutcomeFailed:
		s.Errors++
	}
}

// Sweep runs one full pass over all configured feeds, in declaration order,
// oldest-fetched-first within each feed. A failing source is logged and
// skipped; a failing entry never affects the rest of the batch.
func (p *Pipeline) Sweep(ctx context.Context, feeds []config.Feed) Stats {
	var stats Stats

	for _, source := range feeds {
		if ctx.Err() != nil {
			return stats
		}

		entries, err := p.poller.Fetch(ctx, source.URL)
		if err != nil {
			slog.Error("Feed fetch failed, skipping source", "feed", source.Name, "error", err)
			continue
		}

		for _, entry := range entries {
			if ctx.Err() != nil {
				return stats
			}

			outcome, err := p.ProcessEntry(ctx, source, entry)
			stats.record(outcome)

			switch {
			case err != nil:
				slog.Error("Entry processing failed", "feed", source.Name, "entry", entry.ID, "outcome", string(outcome), "error", err)
			case outcome == OutcomePublished:
				slog.Info("Entry published", "feed", source.Name, "entry", entry.ID, "daily_count", p.store.DailyCount(), "quota", p.maxDailyPosts)
			default:
				slog.Debug("Entry skipped", "feed", source.Name, "entry", entry.ID, "outcome", string(outcome))
			}
		}
	}

	return stats
}

// ProcessEntry runs the stage chain for a single entry. Cheap checks come
// first so a rejected entry costs nothing: dedup, freshness and the quota
// gate all run before any backend call.
func (p *Pipeline) ProcessEntry(ctx context.Context, source config.Feed, entry feed.Entry) (Outcome, error) {
	if p.store.IsPublished(entry.ID) {
		return OutcomeDuplicate, nil
	}

	if !p.freshness.Accept(entry, p.now()) {
		return OutcomeStale, nil
	}

	if p.store.DailyCount() >= p.maxDailyPosts {
		return OutcomeQuota, nil
	}

	summary := entry.Summary
	if strings.TrimSpace(summary) == "" && p.extractor != nil {
		extracted, err := p.extractor.Run(ctx, entry.ID)
		if err != nil {
			slog.Debug("Content extraction failed, classifying on title alone", "entry", entry.ID, "error", err)
		} else {
			summary = extracted
		}
	}

	result, err := p.classifier.Classify(ctx, entry.Title, summary)
	if err != nil {
		if errors.Is(err, classifier.ErrMalformedResponse) {
			p.recordEvaluated(entry.ID)
			return OutcomeContentError, err
		}
		return OutcomeFailed, fmt.Errorf("classification failed: %w", err)
	}

	if result.Category == classifier.CategoryIgnore {
		p.recordEvaluated(entry.ID)
		return OutcomeIgnored, nil
	}

	if !p.publisher.HasDestination(string(result.Category)) {
		p.recordEvaluated(entry.ID)
		return OutcomeUnmapped, nil
	}

	title, text, err := p.translator.TranslatePair(ctx, result.Title, result.Text)
	if err != nil {
		return OutcomeFailed, fmt.Errorf("translation failed: %w", err)
	}

	// Illustration is generated last among the paid calls, from the
	// original untranslated title
	image, err := p.illustrator.Generate(ctx, entry.Title)
	if err != nil {
		return OutcomeFailed, fmt.Errorf("illustration failed: %w", err)
	}

	item := &publisher.Item{
		Title:    title,
		Text:     text,
		Hashtags: result.Hashtags,
		Category: string(result.Category),
		FeedName: source.Name,
		Link:     entry.ID,
		Image:    image,
	}

	permalink, err := p.publisher.Publish(ctx, item)
	if err != nil {
		if errors.Is(err, publisher.ErrUnmappedCategory) {
			return OutcomeUnmapped, nil
		}
		return OutcomeFailed, fmt.Errorf("publish failed: %w", err)
	}

	// Commit. A ledger write failure after a real publish is the one error
	// that must never be swallowed: without the dedup fact the entry would
	// be re-published forever.
	if err := p.store.MarkPublished(entry.ID); err != nil {
		return OutcomeFailed, fmt.Errorf("published %s but failed to record ledger entry: %w", permalink, err)
	}
	if err := p.store.IncrementDailyCount(); err != nil {
		return OutcomeFailed, fmt.Errorf("published %s but failed to record daily count: %w", permalink, err)
	}

	return OutcomePublished, nil
}

func (p *Pipeline) recordEvaluated(id string) {
	if !p.markEvaluated {
		return
	}
	if err := p.store.MarkPublished(id); err != nil {
		slog.Error("Failed to record evaluated entry", "entry", id, "error", err)
	}
}
