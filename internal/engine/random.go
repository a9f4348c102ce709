package engine

import (
	"github.com/kvnsw/photosieve/internal/catalog"
)

// selectRandomWalk fills a batch by uniform shuffle over the photos not
// cooling down. When fewer than size remain eligible, the shortfall is
// backfilled from cooled photos, earliest pick first, so the photos
// closest to re-eligibility surface first.
func (e *Engine) selectRandomWalk(part partition, size int) []catalog.Photo {
	shuffled := make([]catalog.Photo, len(part.available))
	copy(shuffled, part.available)
	e.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	if len(shuffled) > size {
		shuffled = shuffled[:size]
	}

	batch := shuffled
	if len(batch) < size {
		for _, c := range part.cooledBySoonestExpiry() {
			if len(batch) >= size {
				break
			}
			batch = append(batch, c.photo)
		}
	}
	return batch
}
