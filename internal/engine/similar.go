package engine

import (
	"sort"

	"github.com/kvnsw/photosieve/internal/catalog"
)

const (
	// recentAnchorPool bounds the most-recently-modified slice a random
	// anchor is drawn from when the caller supplies none.
	recentAnchorPool = 100

	// candidateWindowRadius bounds the nearest-time-neighbor search to
	// this many entries on each side of the anchor in time-sorted
	// order. Scoring cost stays O(window) no matter how large the
	// library grows; photos similar to the anchor but far away in
	// time-sort order are accepted misses.
	candidateWindowRadius = 500
)

// selectSimilar builds a batch clustered around an anchor: anchor first,
// then candidates from a +-candidateWindowRadius window of the
// time-sorted eligible photos, ranked by Score. Shortfalls cascade
// through three tiers — candidates at or above SimilarityThreshold, then
// any remaining candidates by score, then cooled photos by soonest
// expiry.
func (e *Engine) selectSimilar(part partition, size int, anchor *catalog.Photo) []catalog.Photo {
	// Everything cooling down: hand back the photos closest to expiry.
	if len(part.available) == 0 {
		var batch []catalog.Photo
		for _, c := range part.cooledBySoonestExpiry() {
			if len(batch) >= size {
				break
			}
			batch = append(batch, c.photo)
		}
		return batch
	}

	anchorPhoto := e.resolveAnchor(part, anchor)
	candidates := windowCandidates(part.available, anchorPhoto)

	type scored struct {
		photo catalog.Photo
		score float64
	}
	ranked := make([]scored, 0, len(candidates))
	for _, c := range candidates {
		ranked = append(ranked, scored{photo: c, score: Score(anchorPhoto, c)})
	}
	// Stable sort keeps time-sorted order for equal scores.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	batch := []catalog.Photo{anchorPhoto}

	// Tier 1: candidates clearing the similarity threshold.
	rest := ranked[:0:0]
	for _, r := range ranked {
		if len(batch) >= size {
			break
		}
		if r.score >= SimilarityThreshold {
			batch = append(batch, r.photo)
		} else {
			rest = append(rest, r)
		}
	}

	// Tier 2: pad with the best of what's left, threshold or not.
	for _, r := range rest {
		if len(batch) >= size {
			break
		}
		batch = append(batch, r.photo)
	}

	// Tier 3: cooled photos, soonest to expire first.
	if len(batch) < size {
		for _, c := range part.cooledBySoonestExpiry() {
			if len(batch) >= size {
				break
			}
			batch = append(batch, c.photo)
		}
	}

	if len(batch) > size {
		batch = batch[:size]
	}
	return batch
}

// resolveAnchor picks the reference photo for clustering. A
// caller-supplied anchor wins unless it is itself cooling down;
// otherwise one of the recentAnchorPool most-recently-modified eligible
// photos is drawn at random.
func (e *Engine) resolveAnchor(part partition, anchor *catalog.Photo) catalog.Photo {
	if anchor != nil {
		cooled := false
		for _, c := range part.cooled {
			if c.photo.ID == anchor.ID {
				cooled = true
				break
			}
		}
		if !cooled {
			return *anchor
		}
	}

	recent := make([]catalog.Photo, len(part.available))
	copy(recent, part.available)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].DateModified > recent[j].DateModified
	})
	if len(recent) > recentAnchorPool {
		recent = recent[:recentAnchorPool]
	}
	return recent[e.rng.Intn(len(recent))]
}

// windowCandidates returns the photos to score against the anchor: up to
// candidateWindowRadius entries on each side of the anchor in
// date-modified order, anchor excluded. When the anchor is absent from
// available (e.g. a caller-supplied anchor already shown), the whole
// eligible set is scanned instead.
func windowCandidates(available []catalog.Photo, anchor catalog.Photo) []catalog.Photo {
	sorted := make([]catalog.Photo, len(available))
	copy(sorted, available)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].DateModified < sorted[j].DateModified
	})

	idx := -1
	for i, p := range sorted {
		if p.ID == anchor.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		// Full scan fallback, still excluding the anchor by id.
		candidates := make([]catalog.Photo, 0, len(sorted))
		for _, p := range sorted {
			if p.ID != anchor.ID {
				candidates = append(candidates, p)
			}
		}
		return candidates
	}

	lo := idx - candidateWindowRadius
	if lo < 0 {
		lo = 0
	}
	hi := idx + candidateWindowRadius
	if hi > len(sorted)-1 {
		hi = len(sorted) - 1
	}

	candidates := make([]catalog.Photo, 0, hi-lo)
	candidates = append(candidates, sorted[lo:idx]...)
	candidates = append(candidates, sorted[idx+1:hi+1]...)
	return candidates
}
