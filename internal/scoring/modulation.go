package scoring

import "github.com/auralis-music/auralis-api/internal/models"

// modulation computes the multiplicative contextual adjustment applied
// once to the tier-weighted base score. Every matching rule composes
// multiplicatively in declaration order; a track can be hit by several
// at once.
func (e *Engine) modulation(t *models.Track, ctx models.ListeningContext, p *models.Profile) float64 {
	w := e.weights
	m := 1.0
	novelty := t.Novelty()

	stressed := known(ctx.MoodValence) && known(ctx.MoodArousal) &&
		ctx.MoodValence < w.LowValence && ctx.MoodArousal > w.HighArousal
	energized := known(ctx.MoodValence) && known(ctx.MoodArousal) &&
		ctx.MoodValence > w.HighValence && ctx.MoodArousal > w.HighArousal

	if stressed {
		if novelty > w.NoveltyThreshold {
			m *= w.StressedNovelSuppress
		}
		if t.Familiarity() > w.StressedFamiliarFloor {
			m *= w.StressedFamiliarBoost
		}
		if known(p.Complexity) && t.Complexity > scale35(p.Complexity)+w.StressedComplexityMargin {
			m *= w.StressedComplexSuppress
		}
	}

	if energized && novelty > w.ModerateNoveltyLow && novelty <= w.ModerateNoveltyHigh {
		m *= w.EnergizedNovelBoost
	}

	switch ctx.Activity {
	case models.ActivityWorkout:
		if t.Tempo < w.WorkoutMinTempoBPM || t.Energy < w.WorkoutMinEnergy {
			m *= w.WorkoutPenalty
		} else {
			m *= w.WorkoutBoost
		}
	case models.ActivityFocus:
		if t.HasLyrics && t.Complexity > w.FocusLyricComplexity {
			m *= w.FocusLyricSuppress
		}
		if t.Energy > w.FocusHighEnergy {
			m *= w.FocusEnergySuppress
		}
	case models.ActivityDiscovery:
		if novelty > w.NoveltyThreshold {
			m *= w.DiscoveryNovelBoost
		}
	}

	party := known(ctx.SocialFunction) && ctx.SocialFunction >= w.PartySocialFunction
	if party {
		if t.Popularity < w.PartyLowPopularity {
			m *= w.PartyUnpopularDampen
		}
		if t.IsMainstream {
			m *= w.PartyMainstreamBoost
		}
	}

	social := party || ctx.Activity == models.ActivitySocial
	if social && t.IsTrending {
		if age, ok := e.listenerAge(p); ok && age < w.YoungAgeCutoff {
			m *= w.YoungTrendingBoost
		}
	}

	return m
}

// listenerAge derives an approximate age from the birth decade, taking
// the decade midpoint.
func (e *Engine) listenerAge(p *models.Profile) (int, bool) {
	if !known(p.BirthDecade) {
		return 0, false
	}
	birthYear := 1900 + p.BirthDecade*10 + 5
	age := e.now().Year() - birthYear
	if age < 0 {
		age = 0
	}
	return age, true
}
