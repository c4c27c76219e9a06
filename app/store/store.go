package store

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const (
	ledgerFile  = "published.txt"
	counterFile = "daily_count.json"
)

// Store is the durable state behind the pipeline: the append-only dedup
// ledger and the per-day publish counter. All writes reach disk before the
// call returns.
type Store struct {
	dir       string
	mu        sync.Mutex
	published map[string]struct{}

	// Clock is swappable for date-boundary tests
	Clock func() time.Time
}

var _ StateStore = (*Store)(nil)

// Open loads the ledger into memory and prepares the store directory
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	s := &Store{
		dir:       dir,
		published: make(map[string]struct{}),
		Clock:     time.Now,
	}

	if err := s.loadLedger(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Store) loadLedger() error {
	f, err := os.Open(filepath.Join(s.dir, ledgerFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open ledger: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		id := strings.TrimSpace(scanner.Text())
		if id != "" {
			s.published[id] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read ledger: %w", err)
	}

	return nil
}

// IsPublished reports whether an entry id is already in the ledger
func (s *Store) IsPublished(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.published[id]
	return ok
}

// MarkPublished appends an entry id to the ledger. The append is synced to
// disk before the in-memory set is updated, so a crash can never lose a
// dedup fact that the caller observed as committed. Idempotent.
func (s *Store) MarkPublished(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.published[id]; ok {
		return nil
	}

	f, err := os.OpenFile(filepath.Join(s.dir, ledgerFile), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open ledger for append: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(id + "\n"); err != nil {
		return fmt.Errorf("failed to append to ledger: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("failed to sync ledger: %w", err)
	}

	s.published[id] = struct{}{}
	return nil
}

// PublishedCount returns the ledger size
func (s *Store) PublishedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.published)
}

type dailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

func (s *Store) today() string {
	return s.Clock().UTC().Format("2006-01-02")
}

// DailyCount returns the number of publishes recorded for the real current
// date. A stored record for an earlier date reads as zero; the stored file
// is left untouched until the next increment.
func (s *Store) DailyCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.readDailyCount()
}

func (s *Store) readDailyCount() int {
	data, err := os.ReadFile(filepath.Join(s.dir, counterFile))
	if err != nil {
		return 0
	}

	var dc dailyCount
	if err := json.Unmarshal(data, &dc); err != nil {
		return 0
	}

	if dc.Date != s.today() {
		return 0
	}
	return dc.Count
}

// IncrementDailyCount records one more publish for the current date,
// atomically rewriting the counter file
func (s *Store) IncrementDailyCount() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dc := dailyCount{
		Date:  s.today(),
		Count: s.readDailyCount() + 1,
	}

	data, err := json.Marshal(dc)
	if err != nil {
		return fmt.Errorf("failed to marshal daily count: %w", err)
	}

	path := filepath.Join(s.dir, counterFile)
	tmp := path + ".tmp"

	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to create counter file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("failed to write counter file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("failed to sync counter file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close counter file: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace counter file: %w", err)
	}

	return nil
}
