// Package scoring ranks candidate tracks against a listener profile
// and a listening context. Scoring is pure computation: no I/O, no
// shared mutable state beyond the guarded random source used by the
// exploration factor.
package scoring

import (
	"math/rand"
	"sync"
	"time"

	"github.com/auralis-music/auralis-api/internal/models"
)

// Engine computes ScoreResults. Safe for concurrent use: the only
// mutable state is the random source, which is mutex-guarded so two
// scoring batches for different users can run at once.
type Engine struct {
	weights Weights

	mu  sync.Mutex
	rng *rand.Rand

	now func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand injects a seedable random source so exploration becomes
// reproducible in tests. Production keeps the default time seed; the
// per-call stochasticity is intended behavior.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) { e.rng = rng }
}

// WithClock injects the time source used for listener-age derivation.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine constructs an engine with the given weight table.
func NewEngine(w Weights, opts ...Option) *Engine {
	e := &Engine{
		weights: w,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Score rates one track for one profile in one context. The result's
// FinalScore is always in [0,1]. Repeated calls for the same inputs may
// differ because the exploration factor draws fresh randomness.
func (e *Engine) Score(track *models.Track, profile *models.Profile, ctx models.ListeningContext) models.ScoreResult {
	t := NormalizeTrack(track)
	w := e.weights

	primary := w.TierPrimary * e.primaryScore(&t, profile, ctx)
	secondary := w.TierSecondary * e.secondaryScore(&t, profile)
	tertiary := w.TierTertiary * e.tertiaryScore(&t, profile)

	base := primary + secondary + tertiary
	modulation := e.modulation(&t, ctx, profile)
	exploration := e.exploration(&t, profile)

	final := clamp01(base * modulation * exploration)

	return models.ScoreResult{
		FinalScore: final,
		Breakdown: models.ScoreBreakdown{
			Primary:   primary,
			Secondary: secondary,
			Tertiary:  tertiary,
		},
		Modulation:  modulation,
		Exploration: exploration,
	}
}

// NormalizeTrack fills neutral defaults into a track missing required
// numeric features, so one malformed catalog record never aborts a
// batch. The input is not mutated. IsMalformedTrack reports whether
// normalization changed anything, so callers can log the recovery.
func NormalizeTrack(t *models.Track) models.Track {
	out := *t
	if out.Tempo <= 0 {
		out.Tempo = 120
	}
	if out.Energy <= 0 && out.Valence <= 0 && out.Arousal <= 0 {
		out.Energy = 0.5
		out.Valence = 0.5
		out.Arousal = 0.5
	}
	if out.Popularity < 0 {
		out.Popularity = 0
	}
	return out
}

// IsMalformedTrack reports whether a candidate is missing required
// numeric features and will be scored on neutral defaults.
func IsMalformedTrack(t *models.Track) bool {
	return t.Tempo <= 0 || (t.Energy <= 0 && t.Valence <= 0 && t.Arousal <= 0)
}

// known reports whether a profile field carries an answered value.
func known(v int) bool { return v != models.Unknown }

// norm maps a 0-max profile field onto [0,1].
func norm(v, max int) float64 {
	if v <= 0 {
		return 0
	}
	if v >= max {
		return 1
	}
	return float64(v) / float64(max)
}

// scale35 maps the common 0-35 scale onto [0,1].
func scale35(v int) float64 { return norm(v, models.MaxScale) }

// closeness turns a distance between two [0,1] values into a match score.
func closeness(a, b float64) float64 {
	d := a - b
	if d < 0 {
		d = -d
	}
	return 1 - d
}

// TempoBPM maps the 0-35 tempo preference scale onto 60-200 BPM.
func TempoBPM(tempo int) float64 {
	return 60 + scale35(tempo)*140
}

// tempoCloseness compares a track BPM against a target BPM; a 60-BPM
// gap or more counts as a complete mismatch.
func tempoCloseness(trackBPM, targetBPM float64) float64 {
	d := trackBPM - targetBPM
	if d < 0 {
		d = -d
	}
	if d >= 60 {
		return 0
	}
	return 1 - d/60
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
