package scoring

import "github.com/auralis-music/auralis-api/internal/models"

// exploration implements the epsilon-greedy exploration/exploitation
// balance. The listener's novelty tolerance picks one of three
// exploration ratios; a novel track survives unmodified with that
// probability and is suppressed otherwise, while a familiar track is
// occasionally dampened with the same probability to leave room for
// exploration. Intentionally stochastic per call.
func (e *Engine) exploration(t *models.Track, p *models.Profile) float64 {
	w := e.weights

	tolerance := 0.5 // unknown tolerance explores at the middle tier
	if known(p.DiscoveryTolerance) {
		tolerance = scale35(p.DiscoveryTolerance)
	}

	var ratio float64
	switch {
	case tolerance >= w.ExploreHighTolerance:
		ratio = w.ExploreRatioHigh
	case tolerance >= w.ExploreMidTolerance:
		ratio = w.ExploreRatioMid
	default:
		ratio = w.ExploreRatioLow
	}

	e.mu.Lock()
	draw := e.rng.Float64()
	e.mu.Unlock()

	if t.Novelty() > w.NoveltyThreshold {
		if draw < ratio {
			return 1.0
		}
		return w.ExploreNovelSuppress
	}
	if draw < ratio {
		return w.ExploreFamiliarSuppress
	}
	return 1.0
}
