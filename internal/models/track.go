package models

import "time"

// Track is a candidate returned by the catalog with every feature the
// scoring engine reads. Audio features are normalized to [0,1] except
// Tempo, which stays in BPM.
type Track struct {
	VideoID     string `json:"video_id"`
	Title       string `json:"title"`
	Artist      string `json:"artist"`
	ReleaseYear int    `json:"release_year"`

	// MUSIC dimensions, [0,1]
	Mellow        float64 `json:"mellow"`
	Sophisticated float64 `json:"sophisticated"`
	Intense       float64 `json:"intense"`
	Contemporary  float64 `json:"contemporary"`
	Unpretentious float64 `json:"unpretentious"`

	Tempo          float64 `json:"tempo"` // BPM
	Energy         float64 `json:"energy"`
	Complexity     float64 `json:"complexity"`
	Mode           float64 `json:"mode"`
	Predictability float64 `json:"predictability"`
	Consonance     float64 `json:"consonance"`
	Valence        float64 `json:"valence"`
	Arousal        float64 `json:"arousal"`

	Genres []string `json:"genres"`
	Tags   []string `json:"tags"`

	Popularity   float64 `json:"popularity"` // [0,1]
	IsMainstream bool    `json:"is_mainstream"`
	IsTrending   bool    `json:"is_trending"`
	HasLyrics    bool    `json:"has_lyrics"`

	// Per-user overlay, filled by the catalog when a user is known.
	PlayCount         int        `json:"play_count"`
	LastPlayed        *time.Time `json:"last_played,omitempty"`
	ArtistFamiliarity float64    `json:"artist_familiarity"` // [0,1]

	// Optional precomputed scores; nil means "derive from the rest".
	NoveltyScore     *float64 `json:"novelty_score,omitempty"`
	FamiliarityScore *float64 `json:"familiarity_score,omitempty"`
}

// Novelty returns the track's novelty in [0,1], preferring the
// precomputed score and falling back to a play-count/familiarity blend.
func (t *Track) Novelty() float64 {
	if t.NoveltyScore != nil {
		return clamp01(*t.NoveltyScore)
	}
	familiar := t.Familiarity()
	return clamp01(1 - familiar)
}

// Familiarity returns how familiar this track is to the user, in [0,1].
func (t *Track) Familiarity() float64 {
	if t.FamiliarityScore != nil {
		return clamp01(*t.FamiliarityScore)
	}
	played := 0.0
	switch {
	case t.PlayCount >= 10:
		played = 1.0
	case t.PlayCount > 0:
		played = float64(t.PlayCount) / 10.0
	}
	return clamp01(0.6*played + 0.4*t.ArtistFamiliarity)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ScoreBreakdown carries the tier sub-totals before modulation.
type ScoreBreakdown struct {
	Primary   float64 `json:"primary"`
	Secondary float64 `json:"secondary"`
	Tertiary  float64 `json:"tertiary"`
}

// ScoreResult is the scoring engine output for one track.
type ScoreResult struct {
	FinalScore  float64        `json:"final_score"` // [0,1]
	Breakdown   ScoreBreakdown `json:"breakdown"`
	Modulation  float64        `json:"modulation"`  // multiplier applied to the base
	Exploration float64        `json:"exploration"` // multiplier applied after modulation
}

// ScoredTrack pairs a candidate with its score for sorting and selection.
type ScoredTrack struct {
	Track Track       `json:"track"`
	Score ScoreResult `json:"score"`
}
