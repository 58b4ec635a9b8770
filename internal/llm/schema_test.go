package llm

import (
	"testing"

	"github.com/auralis-music/auralis-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInterviewOutput(t *testing.T) {
	raw := `{
		"question": "How energetic do you feel?",
		"updates": {"tempo": 20, "activity": 1, "style_familiarity": 900},
		"done": false
	}`

	resp, err := ParseInterviewOutput(raw)
	require.NoError(t, err)

	assert.Equal(t, "How energetic do you feel?", resp.Question)
	assert.False(t, resp.Done)
	assert.Equal(t, 20, resp.Updates.Tempo)
	assert.Equal(t, models.ActivityWorkout, resp.Updates.Activity)
	assert.Equal(t, 900, resp.Updates.StyleFamiliarity)

	// Untouched fields stay Unknown.
	assert.Equal(t, models.Unknown, resp.Updates.Mellow)
	assert.Equal(t, models.Unknown, resp.Updates.CurrentValence)
}

func TestParseInterviewOutputStripsCodeFences(t *testing.T) {
	raw := "```json\n{\"question\": \"Next?\", \"updates\": {}, \"done\": false}\n```"
	resp, err := ParseInterviewOutput(raw)
	require.NoError(t, err)
	assert.Equal(t, "Next?", resp.Question)
}

func TestParseInterviewOutputRejectsUnknownField(t *testing.T) {
	raw := `{"question": "", "updates": {"shoe_size": 9}, "done": true}`
	_, err := ParseInterviewOutput(raw)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shoe_size")
}

func TestParseInterviewOutputClampsOutOfRange(t *testing.T) {
	raw := `{"question": "", "updates": {"tempo": 99, "mellow": -4}, "done": true}`
	resp, err := ParseInterviewOutput(raw)
	require.NoError(t, err)
	assert.Equal(t, models.MaxScale, resp.Updates.Tempo)
	assert.Equal(t, 0, resp.Updates.Mellow)
}

func TestParseInterviewOutputMalformedJSON(t *testing.T) {
	_, err := ParseInterviewOutput("not json at all")
	require.Error(t, err)
}

func TestInterviewSchemaCoversEveryProfileField(t *testing.T) {
	schema := InterviewSchema()
	props := schema.Schema["properties"].(map[string]any)
	updates := props["updates"].(map[string]any)
	updateProps := updates["properties"].(map[string]any)

	p := models.NewProfile()
	assert.Len(t, updateProps, len(p.Fields()))
	for _, fb := range fieldBounds {
		require.Contains(t, updateProps, fb.name)
	}
}
