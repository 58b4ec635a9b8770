package llm

import (
	"context"
	"testing"

	"github.com/auralis-music/auralis-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScriptedProviderFirstTurnAsksWithoutUpdates(t *testing.T) {
	p := NewScriptedProvider()

	resp, err := p.NextTurn(context.Background(), &InterviewRequest{
		QuestionsAsked: 0,
		Exchanges:      nil,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Question)
	assert.False(t, resp.Done)
	assert.Equal(t, models.Unknown, resp.Updates.StyleFamiliarity)
}

func TestScriptedProviderAppliesAnswerToPriorQuestion(t *testing.T) {
	p := NewScriptedProvider()

	resp, err := p.NextTurn(context.Background(), &InterviewRequest{
		QuestionsAsked: 1,
		Exchanges: []Exchange{
			{Question: "familiarity?", Answer: "about an 8 I'd say"},
		},
	})
	require.NoError(t, err)
	assert.False(t, resp.Done)
	// 8/10 of 1295, rounded.
	assert.Equal(t, 1036, resp.Updates.StyleFamiliarity)
}

func TestScriptedProviderActivityStep(t *testing.T) {
	p := NewScriptedProvider()

	resp, err := p.NextTurn(context.Background(), &InterviewRequest{
		QuestionsAsked: 2,
		Exchanges: []Exchange{
			{Question: "q1", Answer: "7"},
			{Question: "q2", Answer: "I'm at the gym working out"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, models.ActivityWorkout, resp.Updates.Activity)
}

func TestScriptedProviderFinishesAfterScript(t *testing.T) {
	p := NewScriptedProvider()
	steps := len(p.steps)

	resp, err := p.NextTurn(context.Background(), &InterviewRequest{
		QuestionsAsked: steps,
		Exchanges:      []Exchange{{Question: "last", Answer: "5"}},
	})
	require.NoError(t, err)
	assert.True(t, resp.Done)
	assert.Empty(t, resp.Question)
}

func TestScriptedProviderUnparseableAnswerLeavesUnknown(t *testing.T) {
	p := NewScriptedProvider()

	resp, err := p.NextTurn(context.Background(), &InterviewRequest{
		QuestionsAsked: 1,
		Exchanges:      []Exchange{{Question: "q1", Answer: "hard to say really"}},
	})
	require.NoError(t, err)
	assert.Equal(t, models.Unknown, resp.Updates.StyleFamiliarity)
	assert.NotEmpty(t, resp.Question)
}

func TestParseActivity(t *testing.T) {
	tests := []struct {
		answer string
		want   int
		ok     bool
	}{
		{"I'm working out at the gym", models.ActivityWorkout, true},
		{"trying to focus on work", models.ActivityFocus, true},
		{"just chilling", models.ActivityRelax, true},
		{"on my commute home", models.ActivityCommute, true},
		{"having friends over", models.ActivitySocial, true},
		{"about to go to bed", models.ActivitySleep, true},
		{"looking for new music", models.ActivityDiscovery, true},
		{"cleaning the kitchen", models.ActivityChores, true},
		{"nothing in particular", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseActivity(tt.answer)
		assert.Equal(t, tt.ok, ok, tt.answer)
		if ok {
			assert.Equal(t, tt.want, got, tt.answer)
		}
	}
}

func TestParseBirthDecade(t *testing.T) {
	d, ok := parseBirthDecade("born in 1987")
	require.True(t, ok)
	assert.Equal(t, 8, d)

	d, ok = parseBirthDecade("2001")
	require.True(t, ok)
	assert.Equal(t, 10, d)

	_, ok = parseBirthDecade("a while ago")
	assert.False(t, ok)
}

func TestFactoryFallsBackToScripted(t *testing.T) {
	f := NewProviderFactory("", "")
	p, err := f.GetProvider(context.Background(), "gpt-5-mini", "")
	require.NoError(t, err)
	assert.Equal(t, "scripted", p.Name())
}

func TestFactoryExplicitProvider(t *testing.T) {
	f := NewProviderFactory("sk-test", "")

	p, err := f.GetProvider(context.Background(), "", "openai")
	require.NoError(t, err)
	assert.Equal(t, "openai", p.Name())

	_, err = f.GetProvider(context.Background(), "", "gemini")
	require.Error(t, err)

	_, err = f.GetProvider(context.Background(), "", "anthropic")
	require.Error(t, err)
}

func TestFactoryInfersFromModelName(t *testing.T) {
	f := NewProviderFactory("sk-test", "")
	p, err := f.GetProvider(context.Background(), "gpt-5", "")
	require.NoError(t, err)
	assert.Equal(t, "openai", p.Name())
}
