package scoring

// Weights gathers every tier weight, sub-weight, neutral default,
// threshold and modulation multiplier the engine uses. The values are
// hand-tuned heuristics, not fitted parameters; keeping them in one
// structure makes them auditable and tunable without touching the
// scoring control flow.
type Weights struct {
	// Tier weights, summing to 1.
	TierPrimary   float64
	TierSecondary float64
	TierTertiary  float64

	// Primary sub-weights, summing to 1 within the tier.
	PrimaryFamiliarity float64
	PrimaryFeature     float64
	PrimaryContext     float64

	// Secondary sub-weights, summing to 1 within the tier.
	SecondaryMood           float64
	SecondaryAge            float64
	SecondaryDiscovery      float64
	SecondarySophistication float64

	// Tertiary sub-weights, summing to 1 within the tier.
	TertiaryPersonality float64
	TertiaryCognitive   float64
	TertiaryCultural    float64

	// Neutral sub-scores used when the profile leaves a component's
	// inputs unknown. Missing information must degrade gracefully,
	// never zero out a track.
	NeutralFamiliarity    float64
	NeutralFeature        float64
	NeutralContext        float64
	NeutralMood           float64
	NeutralAge            float64
	NeutralDiscovery      float64
	NeutralSophistication float64
	NeutralPersonality    float64
	NeutralCognitive      float64
	NeutralCultural       float64

	// Mood thresholds on the 0-35 profile scale.
	LowValence  int
	HighValence int
	HighArousal int

	// Stressed-listener modulation.
	StressedNovelSuppress    float64
	StressedFamiliarBoost    float64
	StressedComplexSuppress  float64
	StressedComplexityMargin float64 // normalized complexity overshoot
	StressedFamiliarFloor    float64 // track familiarity that counts as "highly familiar"

	// Energized-listener modulation.
	EnergizedNovelBoost float64
	ModerateNoveltyLow  float64
	ModerateNoveltyHigh float64

	// Workout modulation.
	WorkoutMinTempoBPM float64
	WorkoutMinEnergy   float64
	WorkoutPenalty     float64
	WorkoutBoost       float64

	// Focus modulation.
	FocusLyricComplexity float64
	FocusLyricSuppress   float64
	FocusHighEnergy      float64
	FocusEnergySuppress  float64

	// Active-discovery modulation.
	DiscoveryNovelBoost float64

	// Party modulation. SocialFunction at or above PartySocialFunction
	// (0-35 scale) counts as a party context.
	PartySocialFunction  int
	PartyLowPopularity   float64
	PartyUnpopularDampen float64
	PartyMainstreamBoost float64

	// Young-listener trending boost.
	YoungAgeCutoff     int
	YoungTrendingBoost float64

	// Exploration tiers: stated novelty tolerance, normalized to [0,1],
	// selects one of three exploration ratios.
	ExploreHighTolerance float64
	ExploreMidTolerance  float64
	ExploreRatioHigh     float64
	ExploreRatioMid      float64
	ExploreRatioLow      float64

	// A track with novelty above NoveltyThreshold counts as novel.
	NoveltyThreshold        float64
	ExploreNovelSuppress    float64
	ExploreFamiliarSuppress float64
}

// DefaultWeights returns the production heuristics.
func DefaultWeights() Weights {
	return Weights{
		TierPrimary:   0.70,
		TierSecondary: 0.20,
		TierTertiary:  0.10,

		PrimaryFamiliarity: 0.40,
		PrimaryFeature:     0.35,
		PrimaryContext:     0.25,

		SecondaryMood:           0.35,
		SecondaryAge:            0.20,
		SecondaryDiscovery:      0.25,
		SecondarySophistication: 0.20,

		TertiaryPersonality: 0.40,
		TertiaryCognitive:   0.30,
		TertiaryCultural:    0.30,

		NeutralFamiliarity:    0.75,
		NeutralFeature:        0.70,
		NeutralContext:        0.70,
		NeutralMood:           0.75,
		NeutralAge:            0.75,
		NeutralDiscovery:      0.70,
		NeutralSophistication: 0.70,
		NeutralPersonality:    0.75,
		NeutralCognitive:      0.75,
		NeutralCultural:       0.80,

		LowValence:  12,
		HighValence: 23,
		HighArousal: 23,

		StressedNovelSuppress:    0.5,
		StressedFamiliarBoost:    1.3,
		StressedComplexSuppress:  0.6,
		StressedComplexityMargin: 0.22,
		StressedFamiliarFloor:    0.7,

		EnergizedNovelBoost: 1.2,
		ModerateNoveltyLow:  0.3,
		ModerateNoveltyHigh: 0.7,

		WorkoutMinTempoBPM: 110,
		WorkoutMinEnergy:   0.5,
		WorkoutPenalty:     0.3,
		WorkoutBoost:       1.2,

		FocusLyricComplexity: 0.6,
		FocusLyricSuppress:   0.6,
		FocusHighEnergy:      0.7,
		FocusEnergySuppress:  0.7,

		DiscoveryNovelBoost: 2.0,

		PartySocialFunction:  27,
		PartyLowPopularity:   0.3,
		PartyUnpopularDampen: 0.4,
		PartyMainstreamBoost: 1.5,

		YoungAgeCutoff:     25,
		YoungTrendingBoost: 1.4,

		ExploreHighTolerance: 0.66,
		ExploreMidTolerance:  0.33,
		ExploreRatioHigh:     0.30,
		ExploreRatioMid:      0.20,
		ExploreRatioLow:      0.10,

		NoveltyThreshold:        0.5,
		ExploreNovelSuppress:    0.3,
		ExploreFamiliarSuppress: 0.7,
	}
}
