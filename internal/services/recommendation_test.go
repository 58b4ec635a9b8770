package services

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/auralis-music/auralis-api/internal/catalog"
	"github.com/auralis-music/auralis-api/internal/models"
	"github.com/auralis-music/auralis-api/internal/profilecode"
	"github.com/auralis-music/auralis-api/internal/scoring"
	"github.com/auralis-music/auralis-api/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCandidates(n int) []models.Track {
	tracks := make([]models.Track, 0, n)
	for i := 0; i < n; i++ {
		tracks = append(tracks, models.Track{
			VideoID:        string(rune('a'+i%26)) + "-track",
			Title:          "Track",
			Artist:         "Artist " + string(rune('A'+i%8)),
			Tempo:          112 + float64(i%16),
			Energy:         0.5 + float64(i%5)*0.1,
			Complexity:     0.4,
			Valence:        0.6,
			Arousal:        0.6,
			Predictability: 0.5,
			Consonance:     0.6,
			Popularity:     0.5,
		})
	}
	return tracks
}

func readyProfile() *models.Profile {
	p := models.NewProfile()
	p.StyleFamiliarity = 800
	p.Activity = models.ActivityRelax
	p.DiscoveryTolerance = 18
	p.CurrentValence = 20
	p.CurrentArousal = 18
	p.BirthDecade = 8
	p.Tempo = 15 // target 120 BPM
	p.Confidence = profilecode.CalculateConfidence(p)
	return p
}

func newRecService(source catalog.CandidateSource, tracker *session.Tracker, size int) *RecommendationService {
	engine := scoring.NewEngine(scoring.DefaultWeights(),
		scoring.WithRand(rand.New(rand.NewSource(42))))
	return NewRecommendationService(source, engine, tracker, nil, nil, size)
}

func readySession(t *testing.T, tracker *session.Tracker) string {
	t.Helper()
	ctx := context.Background()
	sess, err := tracker.Create(ctx, 0)
	require.NoError(t, err)

	profile := readyProfile()
	for i := 0; i < models.MinQuestionsAsked; i++ {
		updates := models.NewProfile()
		if i == 0 {
			updates = profile
		}
		_, err = tracker.RecordTurn(ctx, sess.ID, "answer", "question?", updates)
		require.NoError(t, err)
	}
	return sess.ID
}

func TestGenerateForSessionProducesPlaylist(t *testing.T) {
	tracker := session.NewTracker(session.NewMemoryStore())
	source := &catalog.StaticSource{Tracks: testCandidates(120)}
	svc := newRecService(source, tracker, 10)
	id := readySession(t, tracker)

	rec, err := svc.GenerateForSession(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, id, rec.SessionID)
	assert.Len(t, rec.Tracks, 10)
	assert.Contains(t, rec.Description, "MPC: "+rec.ProfileCode)

	// Positions are 1-based and scores non-increasing within the
	// unconditional head.
	assert.Equal(t, 1, rec.Tracks[0].Position)
	assert.GreaterOrEqual(t, rec.Tracks[0].FinalScore, rec.Tracks[1].FinalScore)
	assert.GreaterOrEqual(t, rec.Tracks[1].FinalScore, rec.Tracks[2].FinalScore)

	// The embedded code round-trips to the interview profile.
	decoded, err := profilecode.Decode(rec.ProfileCode)
	require.NoError(t, err)
	assert.Equal(t, 15, decoded.Tempo)
	assert.Equal(t, models.ActivityRelax, decoded.Activity)
}

func TestGenerateForSessionConsumesSession(t *testing.T) {
	tracker := session.NewTracker(session.NewMemoryStore())
	source := &catalog.StaticSource{Tracks: testCandidates(60)}
	svc := newRecService(source, tracker, 5)
	id := readySession(t, tracker)

	_, err := svc.GenerateForSession(context.Background(), id)
	require.NoError(t, err)

	_, err = svc.GenerateForSession(context.Background(), id)
	require.Error(t, err)
	var nf *session.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestGenerateForSessionEnforcesGate(t *testing.T) {
	tracker := session.NewTracker(session.NewMemoryStore())
	svc := newRecService(&catalog.StaticSource{Tracks: testCandidates(60)}, tracker, 5)

	sess, err := tracker.Create(context.Background(), 0)
	require.NoError(t, err)

	_, err = svc.GenerateForSession(context.Background(), sess.ID)
	require.Error(t, err)

	var gate *session.GateError
	require.ErrorAs(t, err, &gate)
	assert.Equal(t, models.MinQuestionsAsked, gate.RequiredQuestions)
	assert.Equal(t, models.MinConfidence, gate.RequiredConfidence)
}

func TestGenerateFromProfileEmptyCandidates(t *testing.T) {
	tracker := session.NewTracker(session.NewMemoryStore())
	svc := newRecService(&catalog.StaticSource{}, tracker, 5)

	_, err := svc.GenerateFromProfile(context.Background(), 0, readyProfile())
	require.Error(t, err)

	var empty *catalog.EmptyCandidateSetError
	require.ErrorAs(t, err, &empty)
	assert.InDelta(t, 110.0, empty.Constraints.TempoMin, 0.001)
	assert.InDelta(t, 130.0, empty.Constraints.TempoMax, 0.001)
}

type fakeWriter struct {
	id          string
	err         error
	gotTitle    string
	gotDesc     string
	gotVideoIDs []string
}

func (f *fakeWriter) CreatePlaylist(_ context.Context, title, description string, videoIDs []string) (string, error) {
	f.gotTitle = title
	f.gotDesc = description
	f.gotVideoIDs = videoIDs
	return f.id, f.err
}

func TestGenerateFromProfilePushesPlaylist(t *testing.T) {
	tracker := session.NewTracker(session.NewMemoryStore())
	svc := newRecService(&catalog.StaticSource{Tracks: testCandidates(60)}, tracker, 5)
	writer := &fakeWriter{id: "PL789"}
	svc.SetPlaylistWriter(writer)

	rec, err := svc.GenerateFromProfile(context.Background(), 0, readyProfile())
	require.NoError(t, err)

	assert.Equal(t, "PL789", rec.RemotePlaylistID)
	assert.Len(t, writer.gotVideoIDs, 5)
	assert.Contains(t, writer.gotDesc, "MPC: "+rec.ProfileCode)
}

func TestGenerateFromProfileSurvivesPushFailure(t *testing.T) {
	tracker := session.NewTracker(session.NewMemoryStore())
	svc := newRecService(&catalog.StaticSource{Tracks: testCandidates(60)}, tracker, 5)
	svc.SetPlaylistWriter(&fakeWriter{err: context.DeadlineExceeded})

	rec, err := svc.GenerateFromProfile(context.Background(), 0, readyProfile())
	require.NoError(t, err)
	assert.Empty(t, rec.RemotePlaylistID)
	assert.Len(t, rec.Tracks, 5)
}

func TestConstraintsFromProfile(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	svc := newRecService(&catalog.StaticSource{}, nil, 5)
	svc.now = func() time.Time { return now }

	p := readyProfile()
	p.Activity = models.ActivityWorkout
	cons := svc.constraintsFromProfile(p)

	assert.InDelta(t, 110.0, cons.TempoMin, 0.001)
	assert.InDelta(t, 130.0, cons.TempoMax, 0.001)
	assert.Equal(t, catalog.WorkoutMinEnergy, cons.MinEnergy)
	assert.Equal(t, now.Add(-catalog.RecentPlayLookback), cons.PlayedAfter)
	assert.Equal(t, catalog.MaxCandidates, cons.Limit)
}

func TestConstraintsUnknownTempoUnbounded(t *testing.T) {
	svc := newRecService(&catalog.StaticSource{}, nil, 5)

	p := models.NewProfile()
	cons := svc.constraintsFromProfile(p)
	assert.Zero(t, cons.TempoMin)
	assert.Zero(t, cons.TempoMax)
	assert.Zero(t, cons.MinEnergy)
}
