package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/auralis-music/auralis-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const candidatePayload = `{
	"candidates": [
		{
			"videoId": "abc123",
			"title": "Night Drive",
			"artist": "Neon Coast",
			"releaseYear": 2021,
			"features": {
				"tempo": 122.0, "energy": 0.8, "complexity": 0.4,
				"mode": 1.0, "predictability": 0.6, "consonance": 0.7,
				"valence": 0.65, "arousal": 0.7,
				"mellow": 0.3, "sophisticated": 0.4, "intense": 0.6,
				"contemporary": 0.9, "unpretentious": 0.5
			},
			"genres": ["synthwave"],
			"popularity": 0.55,
			"mainstream": false,
			"trending": true,
			"hasLyrics": true,
			"playCount": 3,
			"lastPlayed": "2026-07-30T20:00:00Z",
			"artistFamiliarity": 0.4,
			"noveltyScore": 0.35
		}
	]
}`

func TestYTMusicFetchMapsWireFields(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/candidates", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(candidatePayload))
	}))
	defer srv.Close()

	client := NewYTMusicClient(srv.Client(), srv.URL, "test-key")
	after := time.Date(2026, 8, 1, 6, 0, 0, 0, time.UTC)
	tracks, err := client.Fetch(context.Background(), Constraints{
		TempoMin:    110,
		TempoMax:    130,
		MinEnergy:   0.7,
		PlayedAfter: after,
		Limit:       100,
	})
	require.NoError(t, err)
	require.Len(t, tracks, 1)

	assert.Equal(t, "110.0", gotQuery["tempo_min"])
	assert.Equal(t, "130.0", gotQuery["tempo_max"])
	assert.Equal(t, "0.70", gotQuery["min_energy"])
	assert.Equal(t, "100", gotQuery["limit"])
	assert.Equal(t, "2026-08-01T06:00:00Z", gotQuery["exclude_played_after"])

	tr := tracks[0]
	assert.Equal(t, "abc123", tr.VideoID)
	assert.Equal(t, "Neon Coast", tr.Artist)
	assert.Equal(t, 122.0, tr.Tempo)
	assert.Equal(t, 0.8, tr.Energy)
	assert.True(t, tr.IsTrending)
	assert.Equal(t, 3, tr.PlayCount)
	require.NotNil(t, tr.LastPlayed)
	require.NotNil(t, tr.NoveltyScore)
	assert.Equal(t, 0.35, *tr.NoveltyScore)
}

func TestYTMusicFetchRetriesServerErrors(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates": []}`))
	}))
	defer srv.Close()

	client := NewYTMusicClient(srv.Client(), srv.URL, "")
	client.baseBackoff = time.Millisecond

	tracks, err := client.Fetch(context.Background(), Constraints{Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, tracks)
	assert.Equal(t, 3, attempts)
}

func TestYTMusicFetchGivesUpAfterMaxRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewYTMusicClient(srv.Client(), srv.URL, "")
	client.baseBackoff = time.Millisecond

	_, err := client.Fetch(context.Background(), Constraints{Limit: 10})
	require.Error(t, err)
}

func TestYTMusicFetchNonRetryableStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	client := NewYTMusicClient(srv.Client(), srv.URL, "")
	_, err := client.Fetch(context.Background(), Constraints{Limit: 10})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestYTMusicCreatePlaylist(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/playlists", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body wirePlaylistRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Auralis Mix", body.Title)
		assert.Equal(t, []string{"v1", "v2"}, body.VideoIDs)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"playlistId": "PL123"}`))
	}))
	defer srv.Close()

	client := NewYTMusicClient(srv.Client(), srv.URL, "")
	id, err := client.CreatePlaylist(context.Background(), "Auralis Mix", "desc", []string{"v1", "v2"})
	require.NoError(t, err)
	assert.Equal(t, "PL123", id)
}

func TestYTMusicCreatePlaylistRetriesWithBody(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		var body wirePlaylistRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.NotEmpty(t, body.VideoIDs, "retried request must carry the full body")
		if attempts < 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"playlistId": "PL456"}`))
	}))
	defer srv.Close()

	client := NewYTMusicClient(srv.Client(), srv.URL, "")
	client.baseBackoff = time.Millisecond

	id, err := client.CreatePlaylist(context.Background(), "t", "d", []string{"v1"})
	require.NoError(t, err)
	assert.Equal(t, "PL456", id)
	assert.Equal(t, 2, attempts)
}

func TestStaticSourceFilters(t *testing.T) {
	played := time.Date(2026, 8, 1, 11, 0, 0, 0, time.UTC)
	src := &StaticSource{Tracks: []models.Track{
		{VideoID: "slow", Tempo: 80, Energy: 0.9},
		{VideoID: "fit", Tempo: 120, Energy: 0.9},
		{VideoID: "weak", Tempo: 120, Energy: 0.2},
		{VideoID: "recent", Tempo: 120, Energy: 0.9, LastPlayed: &played},
	}}

	got, err := src.Fetch(context.Background(), Constraints{
		TempoMin:    110,
		TempoMax:    130,
		MinEnergy:   0.7,
		PlayedAfter: played.Add(-2 * time.Hour),
		Limit:       10,
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "fit", got[0].VideoID)
}

func TestStaticSourceHonorsLimit(t *testing.T) {
	src := &StaticSource{Tracks: []models.Track{
		{VideoID: "a", Tempo: 120, Energy: 0.9},
		{VideoID: "b", Tempo: 121, Energy: 0.9},
		{VideoID: "c", Tempo: 122, Energy: 0.9},
	}}
	got, err := src.Fetch(context.Background(), Constraints{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
