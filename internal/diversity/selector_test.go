package diversity

import (
	"fmt"
	"testing"

	"github.com/auralis-music/auralis-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ranked(entries ...models.Track) []models.ScoredTrack {
	out := make([]models.ScoredTrack, len(entries))
	score := 1.0
	for i, t := range entries {
		out[i] = models.ScoredTrack{Track: t, Score: models.ScoreResult{FinalScore: score}}
		score -= 0.001 // keep the list strictly score-descending
	}
	return out
}

func track(id, artist string, tempo float64) models.Track {
	return models.Track{VideoID: id, Artist: artist, Tempo: tempo}
}

func TestSelectEmptyInput(t *testing.T) {
	assert.Nil(t, Select(nil, 10))
	assert.Nil(t, Select(ranked(track("a", "A", 120)), 0))
}

func TestSelectExhaustedInputReturnsFewer(t *testing.T) {
	got := Select(ranked(
		track("a", "A", 100),
		track("b", "B", 130),
	), 10)
	assert.Len(t, got, 2)
}

func TestTopThreeAlwaysIncluded(t *testing.T) {
	// Three tracks by the same artist at the same tempo: diversity
	// rules never touch the unconditional top three.
	got := Select(ranked(
		track("a", "Same", 120),
		track("b", "Same", 120),
		track("c", "Same", 120),
		track("d", "Same", 160),
	), 10)
	require.Len(t, got, 3, "the fourth same-artist track is over the per-artist cap")
	assert.Equal(t, "a", got[0].Track.VideoID)
	assert.Equal(t, "b", got[1].Track.VideoID)
	assert.Equal(t, "c", got[2].Track.VideoID)
}

func TestArtistCapBeyondTopThree(t *testing.T) {
	entries := []models.Track{
		track("t1", "A", 100),
		track("t2", "B", 130),
		track("t3", "C", 160),
		track("t4", "D", 190),
		track("t5", "D", 100),
		track("t6", "D", 130), // third D outside the top three: skipped
		track("t7", "E", 160),
	}
	got := Select(ranked(entries...), 7)

	ids := make([]string, len(got))
	counts := map[string]int{}
	for i, s := range got {
		ids[i] = s.Track.VideoID
		counts[s.Track.Artist]++
	}
	assert.NotContains(t, ids, "t6")
	assert.Contains(t, ids, "t7")
	assert.Equal(t, 2, counts["D"])
}

func TestTempoAntiClusteringPastTen(t *testing.T) {
	var entries []models.Track
	// Ten well-spread selections to get past the window start.
	for i := 0; i < 10; i++ {
		entries = append(entries, track(fmt.Sprintf("base%d", i), fmt.Sprintf("artist%d", i), 60+float64(i)*15))
	}
	// Candidate 11 within 10 BPM of selection 10 (tempo 195): skipped.
	entries = append(entries, track("close", "artistX", 199))
	// Candidate with clear distance from the last five: kept.
	entries = append(entries, track("far", "artistY", 95))

	got := Select(ranked(entries...), 12)

	ids := make([]string, len(got))
	for i, s := range got {
		ids[i] = s.Track.VideoID
	}
	assert.NotContains(t, ids, "close")
	assert.Contains(t, ids, "far")
}

func TestDiversityInvariantsOnLargeInput(t *testing.T) {
	var entries []models.Track
	for i := 0; i < 120; i++ {
		entries = append(entries, track(
			fmt.Sprintf("t%03d", i),
			fmt.Sprintf("artist%d", i%17),
			60+float64((i*37)%140),
		))
	}
	got := Select(ranked(entries...), 25)
	require.GreaterOrEqual(t, len(got), 13)

	// No artist appears more than twice outside the unconditional top 3.
	counts := map[string]int{}
	for _, s := range got[3:] {
		counts[s.Track.Artist]++
	}
	for artist, n := range counts {
		assert.LessOrEqual(t, n, 2, "artist %s over cap", artist)
	}

	// Past position 10, every selection is at least 10 BPM away from
	// the 5 selections before it.
	for i := 10; i < len(got); i++ {
		start := i - 5
		for j := start; j < i; j++ {
			d := got[i].Track.Tempo - got[j].Track.Tempo
			if d < 0 {
				d = -d
			}
			assert.GreaterOrEqual(t, d, 10.0, "selection %d clusters with %d", i, j)
		}
	}
}

func TestSingleGreedyPassKeepsScoreOrder(t *testing.T) {
	var entries []models.Track
	for i := 0; i < 40; i++ {
		entries = append(entries, track(fmt.Sprintf("t%02d", i), fmt.Sprintf("a%d", i), 60+float64(i*4)))
	}
	got := Select(ranked(entries...), 15)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Score.FinalScore, got[i].Score.FinalScore)
	}
}
