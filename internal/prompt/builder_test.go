package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildInterviewPromptEmpty(t *testing.T) {
	b := NewPromptBuilder()
	got := b.BuildInterviewPrompt(nil, 0)

	assert.Contains(t, got, "music preference interviewer")
	assert.Contains(t, got, "style_familiarity")
	assert.Contains(t, got, "Questions asked so far: 0.")
	assert.Contains(t, got, "Nothing is known about this listener yet.")
}

func TestBuildInterviewPromptListsKnownFields(t *testing.T) {
	b := NewPromptBuilder()
	got := b.BuildInterviewPrompt([]string{"activity", "tempo"}, 3)

	assert.Contains(t, got, "Questions asked so far: 3.")
	assert.Contains(t, got, "do not ask about these again: activity, tempo.")
}

func TestLoaderTrimsWhitespace(t *testing.T) {
	l := NewPromptLoader()
	p := l.GetInterviewerPrompt()
	assert.NotEmpty(t, p)
	assert.Equal(t, p, l.GetInterviewerPrompt())
	assert.NotEqual(t, " ", p[:1])
}
