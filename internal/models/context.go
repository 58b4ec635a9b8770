package models

// ListeningContext is the situational snapshot the scoring engine reads.
// It is always a projection of a Profile at scoring time and is never
// persisted on its own.
type ListeningContext struct {
	Activity           int `json:"activity"`
	SocialFunction     int `json:"social_function"`
	TimePattern        int `json:"time_pattern"`
	Environment        int `json:"environment"`
	MoodValence        int `json:"mood_valence"`
	MoodArousal        int `json:"mood_arousal"`
	TargetValence      int `json:"target_valence"`
	TargetArousal      int `json:"target_arousal"`
	RegulationStrategy int `json:"regulation_strategy"`
}

// NewListeningContext projects the situational slice of a profile.
func NewListeningContext(p *Profile) ListeningContext {
	return ListeningContext{
		Activity:           p.Activity,
		SocialFunction:     p.SocialFunction,
		TimePattern:        p.TimePattern,
		Environment:        p.Environment,
		MoodValence:        p.CurrentValence,
		MoodArousal:        p.CurrentArousal,
		TargetValence:      p.TargetValence,
		TargetArousal:      p.TargetArousal,
		RegulationStrategy: p.RegulationStrategy,
	}
}
