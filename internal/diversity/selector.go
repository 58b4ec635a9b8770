// Package diversity post-filters a score-sorted candidate list so the
// final playlist does not collapse into one artist or one tempo band.
package diversity

import "github.com/auralis-music/auralis-api/internal/models"

const (
	// unconditionalTop entries are always kept regardless of the
	// diversity rules; they still seed the artist counter.
	unconditionalTop = 3

	// maxPerArtist caps how often one artist may appear beyond the
	// unconditional top entries.
	maxPerArtist = 2

	// tempoWindowStart is the selection count after which the tempo
	// anti-clustering rule kicks in.
	tempoWindowStart = 10

	// tempoWindowSize is how many recent selections a candidate's
	// tempo is compared against.
	tempoWindowSize = 5

	// tempoDelta is the minimum BPM distance required from the recent
	// window to avoid long monotone tempo runs.
	tempoDelta = 10.0
)

// Select performs a single greedy left-to-right pass over a
// score-descending list and returns up to targetCount entries. It
// never re-sorts or backtracks; when the input runs out of diverse
// candidates the result is simply shorter than targetCount.
func Select(ranked []models.ScoredTrack, targetCount int) []models.ScoredTrack {
	if targetCount <= 0 || len(ranked) == 0 {
		return nil
	}

	selected := make([]models.ScoredTrack, 0, targetCount)
	artistCount := make(map[string]int)

	for _, candidate := range ranked {
		if len(selected) >= targetCount {
			break
		}

		if len(selected) < unconditionalTop {
			selected = append(selected, candidate)
			artistCount[candidate.Track.Artist]++
			continue
		}

		if artistCount[candidate.Track.Artist] >= maxPerArtist {
			continue
		}

		if len(selected) >= tempoWindowStart && tempoClusters(selected, candidate.Track.Tempo) {
			continue
		}

		selected = append(selected, candidate)
		artistCount[candidate.Track.Artist]++
	}

	return selected
}

// tempoClusters reports whether the candidate tempo sits within
// tempoDelta of any of the last tempoWindowSize selections.
func tempoClusters(selected []models.ScoredTrack, tempo float64) bool {
	start := len(selected) - tempoWindowSize
	if start < 0 {
		start = 0
	}
	for _, s := range selected[start:] {
		d := s.Track.Tempo - tempo
		if d < 0 {
			d = -d
		}
		if d < tempoDelta {
			return true
		}
	}
	return false
}
