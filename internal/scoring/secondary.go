package scoring

import "github.com/auralis-music/auralis-api/internal/models"

// secondaryScore blends mood, age, discovery and sophistication fit.
func (e *Engine) secondaryScore(t *models.Track, p *models.Profile) float64 {
	w := e.weights
	return w.SecondaryMood*e.moodFit(t, p) +
		w.SecondaryAge*e.ageFit(t, p) +
		w.SecondaryDiscovery*e.discoveryFit(t, p) +
		w.SecondarySophistication*e.sophisticationFit(t, p)
}

// moodFit matches track valence/arousal against the mood the listener
// wants to reach. When a target mood is declared the track is compared
// against the target, otherwise against the current mood.
func (e *Engine) moodFit(t *models.Track, p *models.Profile) float64 {
	valence, arousal := p.CurrentValence, p.CurrentArousal
	if known(p.TargetValence) {
		valence = p.TargetValence
	}
	if known(p.TargetArousal) {
		arousal = p.TargetArousal
	}
	if !known(valence) && !known(arousal) {
		return e.weights.NeutralMood
	}

	sum := 0.0
	n := 0
	if known(valence) {
		sum += closeness(scale35(valence), t.Valence)
		n++
	}
	if known(arousal) {
		sum += closeness(scale35(arousal), t.Arousal)
		n++
	}
	return clamp01(sum / float64(n))
}

// ageFit gives a reminiscence bump to tracks from the listener's
// formative era. Era and birth decade are decade indexes since 1900.
func (e *Engine) ageFit(t *models.Track, p *models.Profile) float64 {
	era := p.ReminiscenceEra
	if !known(era) && known(p.BirthDecade) {
		// Formative years default to roughly ages 10-25.
		era = p.BirthDecade + 1
	}
	if !known(era) || t.ReleaseYear == 0 {
		return e.weights.NeutralAge
	}

	center := 1900 + era*10 + 5
	d := t.ReleaseYear - center
	if d < 0 {
		d = -d
	}
	switch {
	case d <= 7:
		return 1.0
	case d >= 40:
		return 0.3
	default:
		return clamp01(1.0 - float64(d-7)/47.0)
	}
}

// discoveryFit matches track novelty to the stated tolerance, refined
// by observed behavioral openness when available.
func (e *Engine) discoveryFit(t *models.Track, p *models.Profile) float64 {
	if !known(p.DiscoveryTolerance) {
		return e.weights.NeutralDiscovery
	}
	tolerance := scale35(p.DiscoveryTolerance)
	if known(p.BehavioralOpenness) {
		tolerance = 0.6*tolerance + 0.4*scale35(p.BehavioralOpenness)
	}
	return clamp01(closeness(tolerance, t.Novelty()))
}

// sophisticationFit matches track complexity against the listener's
// training and self-rated expertise.
func (e *Engine) sophisticationFit(t *models.Track, p *models.Profile) float64 {
	if !known(p.MusicalTraining) && !known(p.SelfExpertise) {
		return e.weights.NeutralSophistication
	}
	var expertise float64
	switch {
	case known(p.MusicalTraining) && known(p.SelfExpertise):
		expertise = 0.5*norm(p.MusicalTraining, models.MaxTraining) + 0.5*scale35(p.SelfExpertise)
	case known(p.MusicalTraining):
		expertise = norm(p.MusicalTraining, models.MaxTraining)
	default:
		expertise = scale35(p.SelfExpertise)
	}
	return clamp01(closeness(expertise, t.Complexity))
}
