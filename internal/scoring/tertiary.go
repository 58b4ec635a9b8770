package scoring

import "github.com/auralis-music/auralis-api/internal/models"

// tertiaryScore blends the lightest signals: personality traits,
// cognitive style and cultural fit.
func (e *Engine) tertiaryScore(t *models.Track, p *models.Profile) float64 {
	w := e.weights
	return w.TertiaryPersonality*e.personalityFit(t, p) +
		w.TertiaryCognitive*e.cognitiveStyleFit(t, p) +
		w.TertiaryCultural*e.culturalFit(t, p)
}

// personalityFit: openness tracks novelty appetite, extraversion tracks
// energy appetite. Averages whichever traits are answered.
func (e *Engine) personalityFit(t *models.Track, p *models.Profile) float64 {
	sum := 0.0
	n := 0
	if known(p.Openness) {
		sum += closeness(scale35(p.Openness), t.Novelty())
		n++
	}
	if known(p.Extraversion) {
		sum += closeness(scale35(p.Extraversion), t.Energy)
		n++
	}
	if n == 0 {
		return e.weights.NeutralPersonality
	}
	return clamp01(sum / float64(n))
}

// cognitiveStyleFit: systemizers (high end of the axis) lean toward
// structured, intricate material; empathizers toward emotive,
// predictable material.
func (e *Engine) cognitiveStyleFit(t *models.Track, p *models.Profile) float64 {
	if !known(p.EmpathizingSystemizing) {
		return e.weights.NeutralCognitive
	}
	systemizing := scale35(p.EmpathizingSystemizing)
	structural := 0.5*t.Complexity + 0.5*(1-t.Predictability)
	return clamp01(closeness(systemizing, structural))
}

// culturalFit: the cultural-context trait expresses mainstream affinity.
func (e *Engine) culturalFit(t *models.Track, p *models.Profile) float64 {
	if !known(p.CulturalContext) {
		return e.weights.NeutralCultural
	}
	mainstream := t.Popularity
	if t.IsMainstream {
		mainstream = 0.5*mainstream + 0.5
	}
	return clamp01(closeness(scale35(p.CulturalContext), mainstream))
}
