package engine

import (
	"fmt"
	"log"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/kvnsw/photosieve/internal/catalog"
)

// Mode selects which batch-building strategy the engine runs.
type Mode string

const (
	// ModeRandomWalk samples uniformly from photos outside their
	// cooldown window — no similarity weighting, maximum variety.
	ModeRandomWalk Mode = "random_walk"

	// ModeSimilar clusters the batch around an anchor photo using
	// cheap structural-metadata scoring.
	ModeSimilar Mode = "similar"
)

// ParseMode maps a user-facing mode string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeRandomWalk, ModeSimilar:
		return Mode(s), nil
	case "":
		return ModeRandomWalk, nil
	}
	return "", fmt.Errorf("unknown mode %q (want %s or %s)", s, ModeRandomWalk, ModeSimilar)
}

// CooldownStore is the persistence contract the engine needs: which
// photos were shown recently, batched recording of new picks, and expiry
// cleanup. *store.CooldownStore satisfies it.
type CooldownStore interface {
	ActiveIDs(now time.Time) (map[string]int64, error)
	RecordPicks(ids []string, now time.Time) error
	CleanupExpired(now time.Time) error
}

// Engine picks batches of photos to review. One long-lived instance per
// running session owns the cooldown store; the mutex serializes the full
// cleanup -> select -> record sequence so two concurrent calls can never
// hand out the same photo twice.
type Engine struct {
	mu    sync.Mutex
	store CooldownStore
	rng   *rand.Rand
	now   func() time.Time
}

// New creates an Engine backed by the given cooldown store, seeded from
// the wall clock.
func New(store CooldownStore) *Engine {
	return &Engine{
		store: store,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		now:   time.Now,
	}
}

// SetRand replaces the random source. Tests inject a fixed seed to make
// shuffle and anchor selection deterministic.
func (e *Engine) SetRand(rng *rand.Rand) {
	e.rng = rng
}

// SetClock replaces the time source.
func (e *Engine) SetClock(now func() time.Time) {
	e.now = now
}

// GetBatch returns up to size photos from photos to review next. anchor,
// when non-nil, seeds similarity clustering in ModeSimilar; it is ignored
// in ModeRandomWalk. size must be >= 1 and is not reclamped here —
// callers bound it to their configured range.
//
// An empty catalog yields an empty batch with no store activity. Store
// failures degrade to "no active cooldowns" and never block a batch.
func (e *Engine) GetBatch(photos []catalog.Photo, size int, mode Mode, anchor *catalog.Photo) []catalog.Photo {
	if len(photos) == 0 {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()

	if err := e.store.CleanupExpired(now); err != nil {
		log.Printf("cooldown cleanup failed: %v", err)
	}

	active, err := e.store.ActiveIDs(now)
	if err != nil {
		log.Printf("cooldown read failed, treating all photos as eligible: %v", err)
		active = nil
	}

	part := partitionByCooldown(photos, active)

	var batch []catalog.Photo
	switch mode {
	case ModeSimilar:
		batch = e.selectSimilar(part, size, anchor)
	default:
		batch = e.selectRandomWalk(part, size)
	}

	if len(batch) > 0 {
		ids := make([]string, len(batch))
		for i, p := range batch {
			ids[i] = p.ID
		}
		if err := e.store.RecordPicks(ids, now); err != nil {
			log.Printf("cooldown record failed: %v", err)
		}
	}

	return batch
}

// cooledPhoto pairs a cooling-down photo with its pick timestamp so
// backfill can order by soonest-to-expire.
type cooledPhoto struct {
	photo    catalog.Photo
	pickedAt int64
}

type partition struct {
	available []catalog.Photo
	cooled    []cooledPhoto
}

func partitionByCooldown(photos []catalog.Photo, active map[string]int64) partition {
	var part partition
	for _, p := range photos {
		if pickedAt, ok := active[p.ID]; ok {
			part.cooled = append(part.cooled, cooledPhoto{photo: p, pickedAt: pickedAt})
		} else {
			part.available = append(part.available, p)
		}
	}
	return part
}

// cooledBySoonestExpiry returns the cooled photos ordered earliest pick
// first, i.e. closest to leaving cooldown.
func (p partition) cooledBySoonestExpiry() []cooledPhoto {
	sorted := make([]cooledPhoto, len(p.cooled))
	copy(sorted, p.cooled)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].pickedAt < sorted[j].pickedAt
	})
	return sorted
}
