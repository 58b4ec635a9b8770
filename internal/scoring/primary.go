package scoring

import "github.com/auralis-music/auralis-api/internal/models"

// primaryScore is the heaviest tier: how familiar the track feels, how
// well its audio features match the stated targets, and how well it
// fits the situational context. Each component is [0,1]; the weighted
// sum stays in [0,1] because the sub-weights sum to 1.
func (e *Engine) primaryScore(t *models.Track, p *models.Profile, ctx models.ListeningContext) float64 {
	w := e.weights
	return w.PrimaryFamiliarity*e.familiarityMatch(t, p) +
		w.PrimaryFeature*e.featureMatch(t, p) +
		w.PrimaryContext*e.contextFit(t, ctx)
}

// familiarityMatch compares the track's familiarity to the listener's
// appetite for familiar material. Style familiarity dominates; track
// exposure refines it when present.
func (e *Engine) familiarityMatch(t *models.Track, p *models.Profile) float64 {
	if !known(p.StyleFamiliarity) {
		return e.weights.NeutralFamiliarity
	}
	desired := norm(p.StyleFamiliarity, models.MaxFamiliarity)
	if known(p.TrackExposure) {
		desired = 0.7*desired + 0.3*norm(p.TrackExposure, models.MaxFamiliarity)
	}
	match := closeness(desired, t.Familiarity())
	// A recency preference nudges toward recently heard material.
	if known(p.Recency) && t.LastPlayed != nil {
		match = 0.85*match + 0.15*scale35(p.Recency)
	}
	return clamp01(match)
}

// featureMatch averages closeness over every answered feature target
// and MUSIC dimension. With nothing answered it is neutral.
func (e *Engine) featureMatch(t *models.Track, p *models.Profile) float64 {
	sum := 0.0
	n := 0

	add := func(score float64) {
		sum += score
		n++
	}

	if known(p.Tempo) {
		add(tempoCloseness(t.Tempo, TempoBPM(p.Tempo)))
	}
	if known(p.Complexity) {
		add(closeness(scale35(p.Complexity), t.Complexity))
	}
	if known(p.Mode) {
		add(closeness(scale35(p.Mode), t.Mode))
	}
	if known(p.Predictability) {
		add(closeness(scale35(p.Predictability), t.Predictability))
	}
	if known(p.Consonance) {
		add(closeness(scale35(p.Consonance), t.Consonance))
	}

	music := [][2]float64{
		{scale35(p.Mellow), t.Mellow},
		{scale35(p.Sophisticated), t.Sophisticated},
		{scale35(p.Intense), t.Intense},
		{scale35(p.Contemporary), t.Contemporary},
		{scale35(p.Unpretentious), t.Unpretentious},
	}
	dims := []int{p.Mellow, p.Sophisticated, p.Intense, p.Contemporary, p.Unpretentious}
	for i, pair := range music {
		if known(dims[i]) {
			add(closeness(pair[0], pair[1]))
		}
	}

	if n == 0 {
		return e.weights.NeutralFeature
	}
	return clamp01(sum / float64(n))
}

// contextFit rates how the track suits the declared activity and
// surroundings. Modulation later applies the hard activity rules; this
// component only shapes the base score.
func (e *Engine) contextFit(t *models.Track, ctx models.ListeningContext) float64 {
	if !known(ctx.Activity) {
		return e.weights.NeutralContext
	}

	var fit float64
	switch ctx.Activity {
	case models.ActivityWorkout:
		fit = 0.6*t.Energy + 0.4*tempoCloseness(t.Tempo, 150)
	case models.ActivityFocus:
		fit = 0.5*(1-t.Energy) + 0.3*(1-t.Complexity)
		if !t.HasLyrics {
			fit += 0.2
		}
	case models.ActivityRelax, models.ActivitySleep:
		fit = 0.6*(1-t.Energy) + 0.4*t.Consonance
	case models.ActivitySocial:
		fit = 0.5*t.Energy + 0.5*t.Popularity
	case models.ActivityCommute:
		fit = 0.5 + 0.3*t.Energy + 0.2*t.Popularity
	case models.ActivityDiscovery:
		fit = 0.5 + 0.5*t.Novelty()
	case models.ActivityChores:
		fit = 0.4 + 0.4*t.Energy + 0.2*t.Unpretentious
	default:
		fit = e.weights.NeutralContext
	}

	// A loud environment favors denser, louder material slightly.
	if known(ctx.Environment) {
		env := norm(ctx.Environment, models.MaxEnvironment)
		fit = 0.9*fit + 0.1*closeness(env, t.Energy)
	}
	return clamp01(fit)
}
