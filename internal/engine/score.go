package engine

import (
	"math"

	"github.com/kvnsw/photosieve/internal/catalog"
)

// SimilarityThreshold is the minimum score for a candidate to count as
// "similar" when filling a batch; below it candidates are only used to
// pad out a shortfall.
const SimilarityThreshold = 30.0

// Score rates how similar candidate is to anchor on a 0-100 scale. Four
// additive bucketed heuristics over cheap structural metadata — no pixel
// or embedding work:
//
//	temporal proximity  max 40
//	dimension match     max 25
//	size proximity      max 20
//	shared album        max 15
//
// Pure and deterministic.
func Score(anchor, candidate catalog.Photo) float64 {
	return temporalScore(anchor, candidate) +
		dimensionScore(anchor, candidate) +
		sizeScore(anchor, candidate) +
		albumScore(anchor, candidate)
}

func temporalScore(a, b catalog.Photo) float64 {
	deltaSec := math.Abs(float64(a.DateModified-b.DateModified)) / 1000.0
	switch {
	case deltaSec < 5:
		return 40
	case deltaSec < 30:
		return 35
	case deltaSec < 60:
		return 25
	case deltaSec < 300:
		return 15
	case deltaSec < 3600:
		return 8
	case deltaSec < 86400:
		return 3
	default:
		return 0
	}
}

func dimensionScore(a, b catalog.Photo) float64 {
	if a.Width == b.Width && a.Height == b.Height {
		return 25
	}
	deltaAspect := math.Abs(a.AspectRatio() - b.AspectRatio())
	switch {
	case deltaAspect < 0.05:
		return 15
	case deltaAspect < 0.1:
		return 8
	default:
		return 0
	}
}

func sizeScore(a, b catalog.Photo) float64 {
	base := a.Size
	if base < 1 {
		base = 1
	}
	rel := math.Abs(float64(a.Size-b.Size)) / float64(base)
	switch {
	case rel < 0.05:
		return 20
	case rel < 0.10:
		return 15
	case rel < 0.20:
		return 10
	case rel < 0.30:
		return 5
	default:
		return 0
	}
}

func albumScore(a, b catalog.Photo) float64 {
	if a.AlbumName != "" && a.AlbumName == b.AlbumName {
		return 15
	}
	return 0
}
