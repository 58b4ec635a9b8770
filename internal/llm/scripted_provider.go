package llm

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/auralis-music/auralis-api/internal/models"
)

const providerNameScripted = "scripted"

// ScriptedProvider walks a fixed question script and extracts fields
// with plain parsing rules. It needs no API key, so local development
// and integration tests run the full interview pipeline without
// network access. Answers are expected as 0-10 ratings except where a
// step declares its own parser.
type ScriptedProvider struct {
	steps []scriptStep
}

type scriptStep struct {
	question string
	apply    func(answer string, p *models.Profile)
}

var yearPattern = regexp.MustCompile(`\b(19\d{2}|20\d{2})\b`)

// NewScriptedProvider builds the default interview script. The script
// front-loads the heavily weighted dimensions so the readiness gate
// clears in six answered questions.
func NewScriptedProvider() *ScriptedProvider {
	return &ScriptedProvider{steps: []scriptStep{
		{
			question: "On a scale of 0-10, how familiar are you with the styles of music you usually reach for?",
			apply: func(answer string, p *models.Profile) {
				if v, ok := parseRating(answer); ok {
					p.StyleFamiliarity = scaleRating(v, models.MaxFamiliarity)
				}
			},
		},
		{
			question: "What are you doing right now? (working out, focusing, relaxing, commuting, socializing, winding down for sleep, exploring new music, or chores)",
			apply: func(answer string, p *models.Profile) {
				if a, ok := parseActivity(answer); ok {
					p.Activity = a
				}
			},
		},
		{
			question: "On a scale of 0-10, how open are you to hearing music you've never heard before?",
			apply: func(answer string, p *models.Profile) {
				if v, ok := parseRating(answer); ok {
					p.DiscoveryTolerance = scaleRating(v, models.MaxScale)
				}
			},
		},
		{
			question: "On a scale of 0-10, how positive is your mood right now?",
			apply: func(answer string, p *models.Profile) {
				if v, ok := parseRating(answer); ok {
					p.CurrentValence = scaleRating(v, models.MaxScale)
				}
			},
		},
		{
			question: "On a scale of 0-10, how much energy do you have right now?",
			apply: func(answer string, p *models.Profile) {
				if v, ok := parseRating(answer); ok {
					p.CurrentArousal = scaleRating(v, models.MaxScale)
				}
			},
		},
		{
			question: "What year were you born? A rough answer is fine.",
			apply: func(answer string, p *models.Profile) {
				if d, ok := parseBirthDecade(answer); ok {
					p.BirthDecade = d
				}
			},
		},
		{
			question: "On a scale of 0-10, how fast do you want the music? 0 is very slow, 10 is very fast.",
			apply: func(answer string, p *models.Profile) {
				if v, ok := parseRating(answer); ok {
					p.Tempo = scaleRating(v, models.MaxScale)
				}
			},
		},
		{
			question: "On a scale of 0-10, how much do you enjoy intense, driving music?",
			apply: func(answer string, p *models.Profile) {
				if v, ok := parseRating(answer); ok {
					p.Intense = scaleRating(v, models.MaxScale)
				}
			},
		},
	}}
}

// Name returns the provider name.
func (p *ScriptedProvider) Name() string {
	return providerNameScripted
}

// NextTurn applies the latest answer to the step it belongs to and
// returns the next scripted question.
func (p *ScriptedProvider) NextTurn(_ context.Context, request *InterviewRequest) (*InterviewResponse, error) {
	updates := models.NewProfile()

	// The answer just given belongs to the previously asked question.
	answered := request.QuestionsAsked
	if answered > 0 && answered <= len(p.steps) && len(request.Exchanges) > 0 {
		latest := request.Exchanges[len(request.Exchanges)-1]
		p.steps[answered-1].apply(latest.Answer, updates)
	}

	if answered >= len(p.steps) {
		return &InterviewResponse{Updates: updates, Done: true}, nil
	}
	return &InterviewResponse{
		Question: p.steps[answered].question,
		Updates:  updates,
	}, nil
}

// parseRating extracts a 0-10 rating from free text.
func parseRating(answer string) (float64, bool) {
	for _, tok := range strings.Fields(answer) {
		tok = strings.Trim(tok, ".,!?/")
		if v, err := strconv.ParseFloat(tok, 64); err == nil {
			if v < 0 {
				v = 0
			}
			if v > 10 {
				v = 10
			}
			return v, true
		}
	}
	return 0, false
}

// scaleRating maps a 0-10 rating onto a field's 0-max scale.
func scaleRating(rating float64, max int) int {
	return int(rating/10*float64(max) + 0.5)
}

// activityKeywords is checked in order so more specific phrases win
// over their substrings ("working out" before "work").
var activityKeywords = []struct {
	keyword string
	code    int
}{
	{"working out", models.ActivityWorkout},
	{"workout", models.ActivityWorkout},
	{"exercise", models.ActivityWorkout},
	{"gym", models.ActivityWorkout},
	{"running", models.ActivityWorkout},
	{"new music", models.ActivityDiscovery},
	{"discover", models.ActivityDiscovery},
	{"explor", models.ActivityDiscovery},
	{"focus", models.ActivityFocus},
	{"study", models.ActivityFocus},
	{"work", models.ActivityFocus},
	{"relax", models.ActivityRelax},
	{"chill", models.ActivityRelax},
	{"commut", models.ActivityCommute},
	{"driving", models.ActivityCommute},
	{"social", models.ActivitySocial},
	{"party", models.ActivitySocial},
	{"friends", models.ActivitySocial},
	{"sleep", models.ActivitySleep},
	{"bed", models.ActivitySleep},
	{"chore", models.ActivityChores},
	{"cleaning", models.ActivityChores},
	{"cooking", models.ActivityChores},
}

func parseActivity(answer string) (int, bool) {
	lower := strings.ToLower(answer)
	for _, entry := range activityKeywords {
		if strings.Contains(lower, entry.keyword) {
			return entry.code, true
		}
	}
	return 0, false
}

func parseBirthDecade(answer string) (int, bool) {
	match := yearPattern.FindString(answer)
	if match == "" {
		return 0, false
	}
	year, err := strconv.Atoi(match)
	if err != nil || year < 1900 {
		return 0, false
	}
	decade := (year - 1900) / 10
	if decade > models.MaxScale {
		decade = models.MaxScale
	}
	return decade, true
}
