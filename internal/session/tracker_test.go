package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/auralis-music/auralis-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestCreateAndGet(t *testing.T) {
	tr := NewTracker(NewMemoryStore())
	ctx := context.Background()

	s, err := tr.Create(ctx, 7)
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, uint(7), s.UserID)
	assert.Equal(t, models.SessionCreated, s.State(time.Now()))
	assert.Equal(t, 0, s.Profile.Confidence)

	got, err := tr.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)
}

func TestGetMissingSession(t *testing.T) {
	tr := NewTracker(NewMemoryStore())
	_, err := tr.Get(context.Background(), "nope")
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.False(t, nf.Expired)
}

func TestExpiredSessionBecomesNotFound(t *testing.T) {
	start := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	now := start
	tr := NewTracker(NewMemoryStore(), WithTrackerClock(func() time.Time { return now }))
	ctx := context.Background()

	s, err := tr.Create(ctx, 1)
	require.NoError(t, err)

	// Just inside the two-hour window.
	now = start.Add(2*time.Hour - time.Minute)
	_, err = tr.Get(ctx, s.ID)
	require.NoError(t, err)

	// Past the window.
	now = start.Add(2*time.Hour + time.Minute)
	_, err = tr.Get(ctx, s.ID)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.True(t, nf.Expired)
}

func TestRecordTurnMergesAndRecomputesConfidence(t *testing.T) {
	tr := NewTracker(NewMemoryStore())
	ctx := context.Background()
	s, err := tr.Create(ctx, 1)
	require.NoError(t, err)

	updates := models.NewProfile()
	updates.StyleFamiliarity = 600
	updates.Activity = models.ActivityFocus

	got, err := tr.RecordTurn(ctx, s.ID, "mostly jazz while working", "How adventurous are you with new music?", updates)
	require.NoError(t, err)
	assert.Equal(t, 1, got.QuestionsAsked)
	assert.Len(t, got.Exchanges, 2)
	assert.Equal(t, 600, got.Profile.StyleFamiliarity)
	assert.Equal(t, 14, got.Profile.Confidence) // style familiarity 8 + activity 6
	assert.Equal(t, models.SessionActive, got.State(time.Now()))
}

func TestRecordTurnDoesNotClobberKnownFields(t *testing.T) {
	tr := NewTracker(NewMemoryStore())
	ctx := context.Background()
	s, err := tr.Create(ctx, 1)
	require.NoError(t, err)

	first := models.NewProfile()
	first.Tempo = 20
	_, err = tr.RecordTurn(ctx, s.ID, "a", "q1", first)
	require.NoError(t, err)

	second := models.NewProfile()
	second.Complexity = 5 // tempo stays Unknown in this update
	got, err := tr.RecordTurn(ctx, s.ID, "b", "q2", second)
	require.NoError(t, err)
	assert.Equal(t, 20, got.Profile.Tempo)
	assert.Equal(t, 5, got.Profile.Complexity)
}

func readyProfile() *models.Profile {
	p := models.NewProfile()
	p.StyleFamiliarity = 500  // +8
	p.Activity = 1            // +6
	p.DiscoveryTolerance = 20 // +4
	p.CurrentValence = 10     // +2
	p.CurrentArousal = 10     // +2 -> 22 total
	return p
}

func TestGateRejectsTooFewQuestions(t *testing.T) {
	tr := NewTracker(NewMemoryStore())
	ctx := context.Background()
	s, err := tr.Create(ctx, 1)
	require.NoError(t, err)

	// Four turns with a confident profile: confidence alone is not enough.
	_, err = tr.RecordTurn(ctx, s.ID, "a", "q1", readyProfile())
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err = tr.RecordTurn(ctx, s.ID, "a", "q", nil)
		require.NoError(t, err)
	}

	_, err = tr.RequireReady(ctx, s.ID)
	var gate *GateError
	require.ErrorAs(t, err, &gate)
	assert.Equal(t, 4, gate.QuestionsAsked)
	assert.Equal(t, models.MinQuestionsAsked, gate.RequiredQuestions)
	assert.GreaterOrEqual(t, gate.Confidence, models.MinConfidence)
}

func TestGateRejectsLowConfidence(t *testing.T) {
	tr := NewTracker(NewMemoryStore())
	ctx := context.Background()
	s, err := tr.Create(ctx, 1)
	require.NoError(t, err)

	for i := 0; i < 6; i++ {
		_, err = tr.RecordTurn(ctx, s.ID, "a", "q", nil)
		require.NoError(t, err)
	}

	_, err = tr.RequireReady(ctx, s.ID)
	var gate *GateError
	require.ErrorAs(t, err, &gate)
	assert.Equal(t, 6, gate.QuestionsAsked)
	assert.Less(t, gate.Confidence, models.MinConfidence)
}

func TestGateBoundaryInclusive(t *testing.T) {
	tr := NewTracker(NewMemoryStore())
	ctx := context.Background()
	s, err := tr.Create(ctx, 1)
	require.NoError(t, err)

	// Exactly 5 questions; profile reaching confidence 21.
	p := models.NewProfile()
	p.StyleFamiliarity = 500  // +8
	p.Activity = 1            // +6
	p.DiscoveryTolerance = 20 // +4
	p.BirthDecade = 9         // +3 -> 21
	_, err = tr.RecordTurn(ctx, s.ID, "a", "q1", p)
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		_, err = tr.RecordTurn(ctx, s.ID, "a", "q", nil)
		require.NoError(t, err)
	}

	got, err := tr.RequireReady(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.QuestionsAsked)
	assert.Equal(t, 21, got.Profile.Confidence)
	assert.Equal(t, models.SessionReady, got.State(time.Now()))
}

func TestCompleteConsumesSession(t *testing.T) {
	tr := NewTracker(NewMemoryStore())
	ctx := context.Background()
	s, err := tr.Create(ctx, 1)
	require.NoError(t, err)

	require.NoError(t, tr.Complete(ctx, s.ID))

	got, err := tr.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionCompleted, got.State(time.Now()))

	_, err = tr.RequireReady(ctx, s.ID)
	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestConcurrentTurnsSameSessionLoseNoUpdates(t *testing.T) {
	tr := NewTracker(NewMemoryStore())
	ctx := context.Background()
	s, err := tr.Create(ctx, 1)
	require.NoError(t, err)

	const turns = 30
	var wg sync.WaitGroup
	for i := 0; i < turns; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := tr.RecordTurn(ctx, s.ID, "answer", "question", nil)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := tr.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, turns, got.QuestionsAsked)
	assert.Len(t, got.Exchanges, 2*turns)
}
