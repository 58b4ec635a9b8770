package services

import (
	"context"
	"testing"

	"github.com/openai/openai-go/responses"

	"github.com/auralis-music/auralis-api/internal/llm"
	"github.com/auralis-music/auralis-api/internal/models"
	"github.com/auralis-music/auralis-api/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInterviewService(t *testing.T) (*InterviewService, *session.Tracker) {
	t.Helper()
	tracker := session.NewTracker(session.NewMemoryStore())
	svc := NewInterviewService(tracker, llm.NewScriptedProvider(), "", nil)
	return svc, tracker
}

func TestInterviewStartAsksOpeningQuestion(t *testing.T) {
	svc, _ := newInterviewService(t)

	res, err := svc.Start(context.Background(), 0)
	require.NoError(t, err)

	assert.NotEmpty(t, res.Question)
	assert.False(t, res.Done)
	assert.Equal(t, 1, res.Session.QuestionsAsked)
	assert.Equal(t, 0, res.Session.Profile.Confidence)
}

func TestInterviewFullConversationOpensGate(t *testing.T) {
	svc, tracker := newInterviewService(t)
	ctx := context.Background()

	res, err := svc.Start(ctx, 0)
	require.NoError(t, err)
	id := res.Session.ID

	answers := []string{
		"a solid 8, I know my stuff",      // style familiarity
		"I'm at the gym working out",      // activity
		"9, always hunting for new music", // discovery tolerance
		"about a 7",                       // current valence
		"8 for sure",                      // current arousal
		"born in 1987",                    // birth decade
	}
	for _, answer := range answers {
		res, err = svc.HandleAnswer(ctx, id, answer)
		require.NoError(t, err)
	}

	// 8 + 6 + 4 + 2 + 2 + 3 from the answered dimensions.
	assert.Equal(t, 25, res.Session.Profile.Confidence)
	assert.Equal(t, 7, res.Session.QuestionsAsked)
	assert.True(t, res.Session.Ready())

	ready, err := tracker.RequireReady(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.ActivityWorkout, ready.Profile.Activity)
	assert.Equal(t, 8, ready.Profile.BirthDecade)
}

func TestInterviewRejectsEmptyAnswer(t *testing.T) {
	svc, _ := newInterviewService(t)
	ctx := context.Background()

	res, err := svc.Start(ctx, 0)
	require.NoError(t, err)

	_, err = svc.HandleAnswer(ctx, res.Session.ID, "")
	require.Error(t, err)
}

func TestInterviewUnknownSession(t *testing.T) {
	svc, _ := newInterviewService(t)

	_, err := svc.HandleAnswer(context.Background(), "no-such-session", "hello")
	require.Error(t, err)

	var nf *session.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestExchangesFromSessionPairsMessages(t *testing.T) {
	sess := &models.ConversationSession{
		Exchanges: []models.SessionExchange{
			{Role: "assistant", Message: "q1"},
			{Role: "user", Message: "a1"},
			{Role: "assistant", Message: "q2"},
		},
	}

	got := exchangesFromSession(sess)
	require.Len(t, got, 2)
	assert.Equal(t, llm.Exchange{Question: "q1", Answer: "a1"}, got[0])
	assert.Equal(t, llm.Exchange{Question: "q2"}, got[1])
}

// usageProvider wraps the scripted provider and attaches OpenAI-shaped
// token usage to every turn.
type usageProvider struct {
	*llm.ScriptedProvider
}

func (p *usageProvider) NextTurn(ctx context.Context, req *llm.InterviewRequest) (*llm.InterviewResponse, error) {
	resp, err := p.ScriptedProvider.NextTurn(ctx, req)
	if err != nil {
		return nil, err
	}
	resp.Usage = responses.ResponseUsage{InputTokens: 120, OutputTokens: 40, TotalTokens: 160}
	return resp, nil
}

func TestInterviewTurnWithTokenUsage(t *testing.T) {
	tracker := session.NewTracker(session.NewMemoryStore())
	svc := NewInterviewService(tracker, &usageProvider{llm.NewScriptedProvider()}, "gpt-5-mini", nil)
	ctx := context.Background()

	res, err := svc.Start(ctx, 0)
	require.NoError(t, err)

	res, err = svc.HandleAnswer(ctx, res.Session.ID, "About an 8")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Session.QuestionsAsked)
	assert.Greater(t, res.Session.Profile.Confidence, 0)
}

func TestExchangeLogFlattensRoles(t *testing.T) {
	got := exchangeLog([]llm.Exchange{
		{Question: "How familiar?", Answer: "Very"},
		{Answer: "8"},
		{Question: "What activity?"},
	})

	require.Len(t, got, 4)
	assert.Equal(t, "assistant", got[0]["role"])
	assert.Equal(t, "How familiar?", got[0]["content"])
	assert.Equal(t, "user", got[1]["role"])
	assert.Equal(t, "user", got[2]["role"])
	assert.Equal(t, "assistant", got[3]["role"])
}
