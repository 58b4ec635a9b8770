package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/auralis-music/auralis-api/internal/models"
)

// OutputSchema defines the expected JSON output structure.
type OutputSchema struct {
	Name        string
	Description string
	Schema      map[string]any // JSON Schema object
}

// fieldBound pairs a profile field's wire name with its scale maximum.
// The order matches models.Profile.Fields().
type fieldBound struct {
	name string
	max  int
}

var fieldBounds = []fieldBound{
	{"style_familiarity", models.MaxFamiliarity},
	{"track_exposure", models.MaxFamiliarity},
	{"recency", models.MaxScale},
	{"mellow", models.MaxScale},
	{"sophisticated", models.MaxScale},
	{"intense", models.MaxScale},
	{"contemporary", models.MaxScale},
	{"unpretentious", models.MaxScale},
	{"tempo", models.MaxScale},
	{"complexity", models.MaxScale},
	{"mode", models.MaxScale},
	{"predictability", models.MaxScale},
	{"consonance", models.MaxScale},
	{"activity", models.MaxActivity},
	{"time_pattern", models.MaxScale},
	{"social_function", models.MaxScale},
	{"environment", models.MaxEnvironment},
	{"current_valence", models.MaxScale},
	{"current_arousal", models.MaxScale},
	{"target_valence", models.MaxScale},
	{"target_arousal", models.MaxScale},
	{"regulation_strategy", models.MaxRegulation},
	{"birth_decade", models.MaxScale},
	{"reminiscence_era", models.MaxScale},
	{"discovery_tolerance", models.MaxScale},
	{"behavioral_openness", models.MaxScale},
	{"musical_training", models.MaxTraining},
	{"self_expertise", models.MaxScale},
	{"openness", models.MaxScale},
	{"extraversion", models.MaxScale},
	{"empathizing_systemizing", models.MaxScale},
	{"cultural_context", models.MaxScale},
	{"lyric_importance", models.MaxScale},
}

// InterviewSchema returns the JSON schema every provider enforces on
// interview turns: the next question, the extracted field updates, and
// a completion flag.
func InterviewSchema() *OutputSchema {
	updateProps := make(map[string]any, len(fieldBounds))
	for _, fb := range fieldBounds {
		updateProps[fb.name] = map[string]any{
			"type":    "integer",
			"minimum": 0,
			"maximum": fb.max,
		}
	}

	return &OutputSchema{
		Name:        "interview_turn",
		Description: "Next interview question plus profile fields extracted from the latest answer",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"question": map[string]any{
					"type":        "string",
					"description": "The next question to ask the listener, empty if done",
				},
				"updates": map[string]any{
					"type":                 "object",
					"properties":           updateProps,
					"additionalProperties": false,
				},
				"done": map[string]any{
					"type":        "boolean",
					"description": "True when no further questions are worth asking",
				},
			},
			"required":             []string{"question", "updates", "done"},
			"additionalProperties": false,
		},
	}
}

// wireTurn mirrors the schema above.
type wireTurn struct {
	Question string         `json:"question"`
	Updates  map[string]int `json:"updates"`
	Done     bool           `json:"done"`
}

// ParseInterviewOutput decodes a structured turn. Unknown field names
// are rejected; out-of-range values are clamped to the field's scale
// since models occasionally overshoot despite the schema.
func ParseInterviewOutput(raw string) (*InterviewResponse, error) {
	cleaned := stripCodeFences(raw)

	var wire wireTurn
	if err := json.Unmarshal([]byte(cleaned), &wire); err != nil {
		return nil, fmt.Errorf("llm: parse interview output: %w", err)
	}

	updates := models.NewProfile()
	ptrs := updates.Fields()
	for name, value := range wire.Updates {
		idx := fieldIndex(name)
		if idx < 0 {
			return nil, fmt.Errorf("llm: unknown profile field %q in output", name)
		}
		if value < 0 {
			value = 0
		}
		if value > fieldBounds[idx].max {
			value = fieldBounds[idx].max
		}
		*ptrs[idx] = value
	}

	return &InterviewResponse{
		Question:  strings.TrimSpace(wire.Question),
		Updates:   updates,
		Done:      wire.Done,
		RawOutput: cleaned,
	}, nil
}

// KnownFields returns the wire names of every profile field that has
// a value, in profile-code order. The prompt builder uses this to
// steer the interviewer away from answered dimensions.
func KnownFields(p *models.Profile) []string {
	if p == nil {
		return nil
	}
	var known []string
	for i, ptr := range p.Fields() {
		if *ptr != models.Unknown {
			known = append(known, fieldBounds[i].name)
		}
	}
	return known
}

func fieldIndex(name string) int {
	for i, fb := range fieldBounds {
		if fb.name == name {
			return i
		}
	}
	return -1
}

// stripCodeFences removes markdown code blocks some models wrap around
// JSON output even under a schema.
func stripCodeFences(s string) string {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	return strings.TrimSpace(cleaned)
}
