// Package state owns the tracker document. All score edits go through a
// Tracker, which re-derives status and player statistics and persists the
// result under one write lock.
package state

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pable/go-badminton-tracker/internal/aggregator"
	"github.com/pable/go-badminton-tracker/internal/bootstrap"
	"github.com/pable/go-badminton-tracker/internal/model"
	"github.com/pable/go-badminton-tracker/internal/parser"
)

var (
	ErrMatchNotFound = errors.New("match not found")
	ErrNegativeScore = errors.New("scores must be non-negative")
)

// Tracker is the explicit state container for one event.
type Tracker struct {
	mu    sync.RWMutex
	doc   model.Document
	store Store
	log   *zap.Logger
}

// New wraps doc, normalizing it first.
func New(doc model.Document, store Store, log *zap.Logger) *Tracker {
	if log == nil {
		log = zap.NewNop()
	}
	doc = doc.Clone()
	parser.Normalize(&doc)
	return &Tracker{doc: doc, store: store, log: log}
}

// Fetcher is satisfied by *bootstrap.Client.
type Fetcher interface {
	Fetch(ctx context.Context, location string) (*bootstrap.Source, error)
}

// backuper is implemented by stores that can set an unreadable document
// aside.
type backuper interface {
	Backup(now time.Time) (string, error)
}

// Load restores the persisted document. When nothing is persisted it
// bootstraps from location (if set) and falls back to the built-in
// schedule, saving the result. A persisted document that cannot be parsed
// is backed up when the store supports it and the defaults are used in
// memory only; the unreadable document is never overwritten.
func Load(ctx context.Context, store Store, fetcher Fetcher, location string, log *zap.Logger) (*Tracker, error) {
	if log == nil {
		log = zap.NewNop()
	}
	doc, err := store.Load()
	switch {
	case err == nil:
		log.Debug("loaded state", zap.String("event", doc.EventName), zap.Int("matches", len(doc.Matches)))
		return New(*doc, store, log), nil
	case errors.Is(err, ErrNoState):
		d := firstRun(ctx, fetcher, location, log)
		doc = &d
	default:
		log.Warn("persisted state unreadable, using defaults", zap.Error(err))
		if b, ok := store.(backuper); ok {
			path, berr := b.Backup(time.Now())
			if berr != nil {
				return nil, fmt.Errorf("state unreadable (%v) and could not be backed up: %w", err, berr)
			}
			log.Warn("unreadable state moved aside", zap.String("backup", path))
		}
		return New(bootstrap.Default(), store, log), nil
	}

	t := New(*doc, store, log)
	if err := store.Save(t.doc); err != nil {
		return nil, fmt.Errorf("save initial state: %w", err)
	}
	return t, nil
}

func firstRun(ctx context.Context, fetcher Fetcher, location string, log *zap.Logger) model.Document {
	if location == "" || fetcher == nil {
		return bootstrap.Default()
	}
	src, err := fetcher.Fetch(ctx, location)
	if err != nil {
		log.Warn("bootstrap unavailable, using defaults", zap.String("source", location), zap.Error(err))
		return bootstrap.Default()
	}
	log.Info("bootstrapped", zap.String("source", location), zap.Int("matches", len(src.Matches)))
	return bootstrap.Document(src)
}

// Snapshot returns a deep copy of the document.
func (t *Tracker) Snapshot() model.Document {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.doc.Clone()
}

// Matches returns copies of every match, optionally restricted to one court
// (court <= 0 means all).
func (t *Tracker) Matches(court int) []model.MatchRecord {
	t.mu.RLock()
	defer t.mu.RUnlock()
	src := t.doc.Matches
	if court > 0 {
		src = aggregator.ByCourt(src, court)
	}
	out := make([]model.MatchRecord, len(src))
	for i, m := range src {
		out[i] = m.Clone()
	}
	return out
}

// Match returns one match by id.
func (t *Tracker) Match(id string) (model.MatchRecord, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	i := t.indexOf(id)
	if i < 0 {
		return model.MatchRecord{}, fmt.Errorf("%w: %s", ErrMatchNotFound, id)
	}
	return t.doc.Matches[i].Clone(), nil
}

// PlayerStats returns the current statistics cache.
func (t *Tracker) PlayerStats() map[string]model.PlayerStats {
	return t.Snapshot().PlayerStats
}

// Analyze runs the record calculator against the current matches.
func (t *Tracker) Analyze(player string) model.Analysis {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return aggregator.Analyze(t.doc.Matches, player)
}

// Overview returns headline counts.
func (t *Tracker) Overview() model.Overview {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return aggregator.Overview(t.doc)
}

// PlayerRecords returns per-player win/loss lines.
func (t *Tracker) PlayerRecords() []model.PlayerRecord {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return aggregator.PlayerRecords(t.doc.Matches)
}

// SetScore replaces the four set scores of a match.
func (t *Tracker) SetScore(id string, a, b model.Score) (model.MatchRecord, error) {
	for _, v := range [...]int{a[0], a[1], b[0], b[1]} {
		if v < 0 {
			return model.MatchRecord{}, ErrNegativeScore
		}
	}
	err := t.mutate(func(doc *model.Document) error {
		i := indexOf(doc.Matches, id)
		if i < 0 {
			return fmt.Errorf("%w: %s", ErrMatchNotFound, id)
		}
		doc.Matches[i].ScoreA = a
		doc.Matches[i].ScoreB = b
		return nil
	})
	if err != nil {
		return model.MatchRecord{}, err
	}
	t.log.Debug("score set", zap.String("match", id), zap.Ints("a", a[:]), zap.Ints("b", b[:]))
	return t.Match(id)
}

// ClearScore zeroes one match, returning it to pending.
func (t *Tracker) ClearScore(id string) (model.MatchRecord, error) {
	return t.SetScore(id, model.Score{}, model.Score{})
}

// Reset zeroes every score.
func (t *Tracker) Reset() error {
	return t.mutate(func(doc *model.Document) error {
		for i := range doc.Matches {
			doc.Matches[i].ScoreA = model.Score{}
			doc.Matches[i].ScoreB = model.Score{}
		}
		return nil
	})
}

// SimulatePending fills every pending match with plausible random scores
// and returns how many were filled.
func (t *Tracker) SimulatePending(rng *rand.Rand) (int, error) {
	n := 0
	err := t.mutate(func(doc *model.Document) error {
		for i := range doc.Matches {
			m := &doc.Matches[i]
			if aggregator.StatusOf(*m) != model.StatusPending {
				continue
			}
			for set := 0; set < 2; set++ {
				m.ScoreA[set], m.ScoreB[set] = simulatedSet(rng)
			}
			n++
		}
		return nil
	})
	return n, err
}

// simulatedSet draws 11±2 per side and breaks a tie in favour of team A.
func simulatedSet(rng *rand.Rand) (int, int) {
	a := 11 + rng.Intn(4) - 2
	b := 11 + rng.Intn(4) - 2
	if a == b {
		a++
	}
	return a, b
}

// RenameEvent sets the event name.
func (t *Tracker) RenameEvent(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("event name must not be empty")
	}
	return t.mutate(func(doc *model.Document) error {
		doc.EventName = name
		return nil
	})
}

// Import replaces the document with the one read from r. On any error the
// current document is left untouched.
func (t *Tracker) Import(r io.Reader) (model.Document, error) {
	doc, err := parser.Decode(r)
	if err != nil {
		return model.Document{}, err
	}
	if err := t.mutate(func(cur *model.Document) error {
		*cur = *doc
		return nil
	}); err != nil {
		return model.Document{}, err
	}
	t.log.Info("imported", zap.String("event", doc.EventName), zap.Int("matches", len(doc.Matches)))
	return t.Snapshot(), nil
}

// Export writes the current document.
func (t *Tracker) Export(w io.Writer, opts parser.Options) error {
	return parser.Encode(w, t.Snapshot(), opts)
}

// mutate applies fn to a copy of the document, re-derives status and
// statistics, persists, and only then swaps the copy in.
func (t *Tracker) mutate(fn func(doc *model.Document) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	next := t.doc.Clone()
	if err := fn(&next); err != nil {
		return err
	}
	parser.Normalize(&next)
	if t.store != nil {
		if err := t.store.Save(next); err != nil {
			return fmt.Errorf("persist: %w", err)
		}
	}
	t.doc = next
	return nil
}

func (t *Tracker) indexOf(id string) int { return indexOf(t.doc.Matches, id) }

func indexOf(ms []model.MatchRecord, id string) int {
	for i := range ms {
		if ms[i].ID == id {
			return i
		}
	}
	return -1
}
