package models

// Unknown marks a profile field the listener has not answered yet.
// It is a distinct third state: 0 is a meaningful value on every scale
// (e.g. "prefers minimum complexity"), so callers must never collapse
// Unknown to zero.
const Unknown = -1

// Scale maxima for profile fields. Minimum is always 0.
const (
	MaxFamiliarity = 1295 // two base-36 digits
	MaxScale       = 35   // one base-36 digit
	MaxActivity    = 15
	MaxEnvironment = 9
	MaxRegulation  = 9
	MaxTraining    = 9
)

// Activity codes (0-15). The codes are stable because they are encoded
// into profile codes; append new ones, never renumber.
const (
	ActivityUnspecified = 0
	ActivityWorkout     = 1
	ActivityFocus       = 2
	ActivityRelax       = 3
	ActivityCommute     = 4
	ActivitySocial      = 5
	ActivitySleep       = 6
	ActivityDiscovery   = 7 // active discovery: the listener wants new music
	ActivityChores      = 8
)

// Profile is the listener preference vector built up over an interview
// and persisted as a 37-character profile code.
//
// Every field is an integer on its declared scale or Unknown, except
// Confidence which is always derived from field presence by
// profilecode.CalculateConfidence and never set directly.
type Profile struct {
	// Familiarity
	StyleFamiliarity int `json:"style_familiarity"` // 0-1295
	TrackExposure    int `json:"track_exposure"`    // 0-1295
	Recency          int `json:"recency"`           // 0-35

	// MUSIC dimensions, 0-35 each
	Mellow        int `json:"mellow"`
	Sophisticated int `json:"sophisticated"`
	Intense       int `json:"intense"`
	Contemporary  int `json:"contemporary"`
	Unpretentious int `json:"unpretentious"`

	// Musical feature targets, 0-35 each
	Tempo          int `json:"tempo"`
	Complexity     int `json:"complexity"`
	Mode           int `json:"mode"`
	Predictability int `json:"predictability"`
	Consonance     int `json:"consonance"`

	// Situational context
	Activity       int `json:"activity"`        // 0-15
	TimePattern    int `json:"time_pattern"`    // 0-35
	SocialFunction int `json:"social_function"` // 0-35
	Environment    int `json:"environment"`     // 0-9

	// Mood
	CurrentValence     int `json:"current_valence"`     // 0-35
	CurrentArousal     int `json:"current_arousal"`     // 0-35
	TargetValence      int `json:"target_valence"`      // 0-35
	TargetArousal      int `json:"target_arousal"`      // 0-35
	RegulationStrategy int `json:"regulation_strategy"` // 0-9

	// Age
	BirthDecade     int `json:"birth_decade"`     // 0-35, decades since 1900
	ReminiscenceEra int `json:"reminiscence_era"` // 0-35

	// Discovery
	DiscoveryTolerance int `json:"discovery_tolerance"` // 0-35
	BehavioralOpenness int `json:"behavioral_openness"` // 0-35

	// Sophistication
	MusicalTraining int `json:"musical_training"` // 0-9
	SelfExpertise   int `json:"self_expertise"`   // 0-35

	// Tertiary traits
	Openness               int `json:"openness"`                // 0-35
	Extraversion           int `json:"extraversion"`            // 0-35
	EmpathizingSystemizing int `json:"empathizing_systemizing"` // 0-35
	CulturalContext        int `json:"cultural_context"`        // 0-35

	// Metadata
	LyricImportance int `json:"lyric_importance"` // 0-35
	Confidence      int `json:"confidence"`       // 0-35, derived
}

// NewProfile returns a profile with every field Unknown and zero confidence.
func NewProfile() *Profile {
	p := &Profile{}
	for _, f := range p.fields() {
		*f = Unknown
	}
	p.Confidence = 0
	return p
}

// fields returns pointers to every settable field except Confidence,
// in profile-code order. The codec and merge logic both rely on this
// ordering staying fixed.
func (p *Profile) fields() []*int {
	return []*int{
		&p.StyleFamiliarity, &p.TrackExposure, &p.Recency,
		&p.Mellow, &p.Sophisticated, &p.Intense, &p.Contemporary, &p.Unpretentious,
		&p.Tempo, &p.Complexity, &p.Mode, &p.Predictability, &p.Consonance,
		&p.Activity, &p.TimePattern, &p.SocialFunction, &p.Environment,
		&p.CurrentValence, &p.CurrentArousal, &p.TargetValence, &p.TargetArousal, &p.RegulationStrategy,
		&p.BirthDecade, &p.ReminiscenceEra,
		&p.DiscoveryTolerance, &p.BehavioralOpenness,
		&p.MusicalTraining, &p.SelfExpertise,
		&p.Openness, &p.Extraversion, &p.EmpathizingSystemizing, &p.CulturalContext,
		&p.LyricImportance,
	}
}

// Fields exposes the ordered field pointers for the codec.
func (p *Profile) Fields() []*int { return p.fields() }

// Merge copies every known field of other into p. Unknown fields in
// other never clobber known values in p. Confidence is not merged;
// callers recompute it after merging.
func (p *Profile) Merge(other *Profile) {
	if other == nil {
		return
	}
	dst := p.fields()
	src := other.fields()
	for i := range dst {
		if *src[i] != Unknown {
			*dst[i] = *src[i]
		}
	}
}

// Clone returns a copy of p.
func (p *Profile) Clone() *Profile {
	cp := *p
	return &cp
}
