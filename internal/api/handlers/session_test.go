package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auralis-music/auralis-api/internal/catalog"
	"github.com/auralis-music/auralis-api/internal/llm"
	"github.com/auralis-music/auralis-api/internal/models"
	"github.com/auralis-music/auralis-api/internal/scoring"
	"github.com/auralis-music/auralis-api/internal/services"
	"github.com/auralis-music/auralis-api/internal/session"
)

func testTracks(n int) []models.Track {
	tracks := make([]models.Track, 0, n)
	for i := 0; i < n; i++ {
		tracks = append(tracks, models.Track{
			VideoID:       fmt.Sprintf("vid-%03d", i),
			Title:         fmt.Sprintf("Track %d", i),
			Artist:        fmt.Sprintf("Artist %d", i%12),
			ReleaseYear:   1980 + (i % 40),
			Mellow:        0.5,
			Sophisticated: 0.4,
			Intense:       0.3,
			Contemporary:  0.6,
			Unpretentious: 0.5,
			Tempo:         100 + float64(i%40),
			Energy:        0.4 + float64(i%6)/10,
			Complexity:    0.5,
			Mode:          0.6,
			Consonance:    0.7,
			Valence:       0.5,
			Arousal:       0.5,
			Popularity:    0.5,
		})
	}
	return tracks
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tracker := session.NewTracker(session.NewMemoryStore())
	interview := services.NewInterviewService(tracker, llm.NewScriptedProvider(), "scripted", nil)
	rec := services.NewRecommendationService(
		&catalog.StaticSource{Tracks: testTracks(60)},
		scoring.NewEngine(scoring.DefaultWeights()),
		tracker, nil, nil, 10,
	)

	r := gin.New()
	sh := NewSessionHandler(tracker, interview)
	r.POST("/sessions", sh.Create)
	r.GET("/sessions/:id", sh.Get)
	r.GET("/sessions/:id/messages", sh.Messages)
	r.POST("/sessions/:id/messages", sh.Answer)

	rh := NewRecommendationHandler(rec, nil)
	r.POST("/sessions/:id/playlist", rh.FromSession)
	r.POST("/recommendations", rh.FromProfileCode)
	r.GET("/recommendations", rh.History)

	ph := NewProfileHandler()
	r.POST("/profiles/encode", ph.Encode)
	r.POST("/profiles/decode", ph.Decode)

	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestCreateSessionAsksOpeningQuestion(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	body := decodeBody(t, w)
	assert.NotEmpty(t, body["id"])
	assert.NotEmpty(t, body["question"])
	assert.Equal(t, float64(1), body["questions_asked"])
	assert.Equal(t, float64(0), body["confidence"])
	assert.Equal(t, false, body["ready"])
}

func TestAnswerAdvancesInterview(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	id := decodeBody(t, w)["id"].(string)

	w = doJSON(t, r, http.MethodPost, "/sessions/"+id+"/messages", gin.H{"message": "About an 8"})
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, float64(2), body["questions_asked"])
	assert.NotEmpty(t, body["question"])
	assert.Greater(t, body["confidence"], float64(0))
}

func TestAnswerRequiresMessage(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	id := decodeBody(t, w)["id"].(string)

	w = doJSON(t, r, http.MethodPost, "/sessions/"+id+"/messages", gin.H{"message": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnswerUnknownSession(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/sessions/nope/messages", gin.H{"message": "hello"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMessagesReturnsHistory(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	id := decodeBody(t, w)["id"].(string)

	w = doJSON(t, r, http.MethodPost, "/sessions/"+id+"/messages", gin.H{"message": "7 out of 10"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/sessions/"+id+"/messages", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	messages, ok := body["messages"].([]any)
	require.True(t, ok)
	// Opening question, answer, next question.
	assert.Len(t, messages, 3)
}

func TestCreateSessionWithProfileCodeSeed(t *testing.T) {
	r := newTestRouter(t)

	// Build a seed code with a handful of known fields.
	profile := gin.H{"tempo": 15, "current_valence": 20, "activity": 3}
	w := doJSON(t, r, http.MethodPost, "/profiles/encode", profile)
	require.Equal(t, http.StatusOK, w.Code)
	code := decodeBody(t, w)["code"].(string)

	w = doJSON(t, r, http.MethodPost, "/sessions", gin.H{"profile_code": code})
	require.Equal(t, http.StatusCreated, w.Code)

	body := decodeBody(t, w)
	// Seeded dimensions count toward confidence before any answer.
	assert.Greater(t, body["confidence"], float64(0))
}

func TestCreateSessionRejectsBadSeed(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/sessions", gin.H{"profile_code": "not-a-code"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// runInterview answers enough scripted questions to clear the
// readiness gate.
func runInterview(t *testing.T, r *gin.Engine) string {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	id := decodeBody(t, w)["id"].(string)

	answers := []string{
		"About an 8",
		"Relaxing at home",
		"7",
		"6 I suppose",
		"Around 5",
		"I was born in 1987",
	}
	var body map[string]any
	for _, answer := range answers {
		w = doJSON(t, r, http.MethodPost, "/sessions/"+id+"/messages", gin.H{"message": answer})
		require.Equal(t, http.StatusOK, w.Code)
		body = decodeBody(t, w)
	}
	require.Equal(t, true, body["ready"], "interview should clear the gate after %d answers", len(answers))
	return id
}

func TestPlaylistGateRejectsEarlySession(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	id := decodeBody(t, w)["id"].(string)

	w = doJSON(t, r, http.MethodPost, "/sessions/"+id+"/playlist", nil)
	require.Equal(t, http.StatusConflict, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, float64(1), body["questions_asked"])
	assert.Equal(t, float64(5), body["required_questions"])
	assert.Equal(t, float64(21), body["required_confidence"])
}

func TestPlaylistFromCompletedInterview(t *testing.T) {
	r := newTestRouter(t)
	id := runInterview(t, r)

	w := doJSON(t, r, http.MethodPost, "/sessions/"+id+"/playlist", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	body := decodeBody(t, w)
	tracks, ok := body["tracks"].([]any)
	require.True(t, ok)
	assert.Len(t, tracks, 10)
	assert.Contains(t, body["description"], "MPC: ")

	// The session is consumed by generation.
	w = doJSON(t, r, http.MethodPost, "/sessions/"+id+"/playlist", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRecommendationFromProfileCode(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/profiles/encode", gin.H{
		"style_familiarity": 800,
		"activity":          3,
		"current_valence":   20,
		"tempo":             15,
	})
	require.Equal(t, http.StatusOK, w.Code)
	code := decodeBody(t, w)["code"].(string)

	w = doJSON(t, r, http.MethodPost, "/recommendations", gin.H{"profile_code": code})
	require.Equal(t, http.StatusCreated, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, code, body["profile_code"])
	tracks, ok := body["tracks"].([]any)
	require.True(t, ok)
	assert.NotEmpty(t, tracks)
}

func TestRecommendationAcceptsEmbeddedCode(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/profiles/encode", gin.H{"tempo": 15})
	require.Equal(t, http.StatusOK, w.Code)
	code := decodeBody(t, w)["code"].(string)

	embedded := "My playlist from last week.\n\nMPC: " + code
	w = doJSON(t, r, http.MethodPost, "/recommendations", gin.H{"profile_code": embedded})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, code, decodeBody(t, w)["profile_code"])
}

func TestRecommendationRejectsInvalidCode(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/recommendations", gin.H{"profile_code": "1-tooshort"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid profile code", decodeBody(t, w)["error"])
}

func TestHistoryWithoutDatabase(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/recommendations", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	recs, ok := body["recommendations"].([]any)
	require.True(t, ok)
	assert.Empty(t, recs)
}
