package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

var ErrAlreadyLoaded = errors.New("catalog already loaded")

// Source fetches the raw catalog. It is called once per process.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]RawRecord, error)
}

// Store owns the full record set for the lifetime of the process. It is
// written once by Load and only read afterwards.
type Store struct {
	logger *slog.Logger

	mu      sync.RWMutex
	loaded  bool
	loadErr error
	records []GameRecord
	genres  []string
}

func NewStore(logger *slog.Logger) *Store {
	return &Store{
		logger:  logger,
		records: []GameRecord{},
		genres:  []string{},
	}
}

// NewStaticStore returns a store that is already loaded with records.
func NewStaticStore(logger *slog.Logger, records []GameRecord) *Store {
	s := NewStore(logger)
	s.publish(slices.Clone(records), nil)
	return s
}

// Load fetches the catalog from src. If the fetch fails the store keeps an
// empty set and the wrapped error is returned; there is no retry.
func (s *Store) Load(ctx context.Context, src Source) error {
	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()
	if loaded {
		return ErrAlreadyLoaded
	}

	s.logger.Debug("fetching catalog", "source", src.Name())

	raw, err := src.Fetch(ctx)
	if err != nil {
		err = fmt.Errorf("failed to load games from %s: %w", src.Name(), err)
		s.logger.Error("could not load games", "source", src.Name(), "error", err)
		if !s.publish([]GameRecord{}, err) {
			return ErrAlreadyLoaded
		}
		return err
	}

	records := NormalizeAll(raw)
	if !s.publish(records, nil) {
		return ErrAlreadyLoaded
	}

	s.logger.Info("catalog loaded", "source", src.Name(), "records", len(records), "genres", len(s.Genres()))
	return nil
}

func (s *Store) publish(records []GameRecord, loadErr error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded {
		return false
	}
	s.loaded = true
	s.loadErr = loadErr
	s.records = records
	s.genres = distinctGenres(records)
	return true
}

func distinctGenres(records []GameRecord) []string {
	set := make(map[string]struct{})
	for _, rec := range records {
		if rec.Genre != "" {
			set[rec.Genre] = struct{}{}
		}
	}
	genres := maps.Keys(set)
	slices.Sort(genres)
	return genres
}

// Records returns a copy of the full record set in source order.
func (s *Store) Records() []GameRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.records)
}

// Len returns the number of records held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Genres returns the distinct non-empty genres, sorted.
func (s *Store) Genres() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.genres)
}

// Find returns the first record with the given id.
func (s *Store) Find(id int) (GameRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, rec := range s.records {
		if rec.ID == id {
			return rec, true
		}
	}
	return GameRecord{}, false
}

// Featured returns the record with the given id, or the first record when
// that id is absent. It reports false only for an empty store.
func (s *Store) Featured(id int) (GameRecord, bool) {
	if rec, ok := s.Find(id); ok {
		return rec, true
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.records) == 0 {
		return GameRecord{}, false
	}
	return s.records[0], true
}

func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// LoadErr returns the error of a failed load, if any.
func (s *Store) LoadErr() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadErr
}
