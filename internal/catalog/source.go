// Package catalog provides candidate tracks to the recommendation
// pipeline. The scoring engine and orchestrator depend only on the
// CandidateSource contract, never on a concrete catalog client.
package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/auralis-music/auralis-api/internal/models"
)

// Default query parameters the orchestrator uses when building
// constraints from a profile.
const (
	// TempoWindowBPM is the half-width of the tempo window around the
	// listener's target tempo.
	TempoWindowBPM = 10.0

	// WorkoutMinEnergy is the energy floor applied when the declared
	// activity is a workout.
	WorkoutMinEnergy = 0.7

	// RecentPlayLookback excludes tracks played within this window.
	RecentPlayLookback = 6 * time.Hour

	// MaxCandidates caps one fetch.
	MaxCandidates = 500
)

// Constraints narrows a candidate fetch. Zero values mean "no bound"
// except Limit, which callers should always set.
type Constraints struct {
	TempoMin    float64   // BPM, inclusive
	TempoMax    float64   // BPM, inclusive
	MinEnergy   float64   // [0,1]
	PlayedAfter time.Time // exclude tracks last played after this instant
	Limit       int
}

// CandidateSource returns candidate tracks matching the constraints,
// each populated with every feature field the scoring engine reads.
// An empty result is a valid return here; the orchestrator decides
// whether that is an error.
type CandidateSource interface {
	Fetch(ctx context.Context, c Constraints) ([]models.Track, error)
}

// PlaylistWriter pushes a generated playlist back to the platform.
// Implementations return the platform's playlist id.
type PlaylistWriter interface {
	CreatePlaylist(ctx context.Context, title, description string, videoIDs []string) (string, error)
}

// EmptyCandidateSetError reports a fetch that matched nothing. The
// orchestrator raises it instead of returning an empty playlist as
// success.
type EmptyCandidateSetError struct {
	Constraints Constraints
}

func (e *EmptyCandidateSetError) Error() string {
	return fmt.Sprintf("catalog: no candidates for tempo [%.0f,%.0f] BPM, min energy %.2f",
		e.Constraints.TempoMin, e.Constraints.TempoMax, e.Constraints.MinEnergy)
}

// Matches reports whether a track satisfies the constraints. Shared by
// in-memory sources and tests.
func (c Constraints) Matches(t *models.Track) bool {
	if c.TempoMin > 0 && t.Tempo < c.TempoMin {
		return false
	}
	if c.TempoMax > 0 && t.Tempo > c.TempoMax {
		return false
	}
	if t.Energy < c.MinEnergy {
		return false
	}
	if !c.PlayedAfter.IsZero() && t.LastPlayed != nil && t.LastPlayed.After(c.PlayedAfter) {
		return false
	}
	return true
}

// StaticSource serves candidates from a fixed slice. Used in tests and
// local development without catalog credentials.
type StaticSource struct {
	Tracks []models.Track
}

// Fetch filters the static slice by the constraints.
func (s *StaticSource) Fetch(_ context.Context, c Constraints) ([]models.Track, error) {
	var out []models.Track
	for i := range s.Tracks {
		if !c.Matches(&s.Tracks[i]) {
			continue
		}
		out = append(out, s.Tracks[i])
		if c.Limit > 0 && len(out) >= c.Limit {
			break
		}
	}
	return out, nil
}
