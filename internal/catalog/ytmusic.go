package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/auralis-music/auralis-api/internal/logger"
	"github.com/auralis-music/auralis-api/internal/models"
)

const (
	defaultMaxRetries   = 3
	defaultBackoffMs    = 500
	defaultFetchPath    = "/v1/candidates"
	defaultPlaylistPath = "/v1/playlists"
)

// YTMusicClient fetches candidates from the YouTube Music feature
// service. Transient failures (429, 5xx, transport errors) are retried
// with exponential backoff, honoring Retry-After when present.
type YTMusicClient struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	maxRetries  int
	baseBackoff time.Duration
}

var _ CandidateSource = (*YTMusicClient)(nil)

// NewYTMusicClient constructs a catalog client.
func NewYTMusicClient(httpClient *http.Client, baseURL, apiKey string) *YTMusicClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &YTMusicClient{
		httpClient:  httpClient,
		baseURL:     strings.TrimRight(baseURL, "/"),
		apiKey:      apiKey,
		maxRetries:  defaultMaxRetries,
		baseBackoff: defaultBackoffMs * time.Millisecond,
	}
}

// Fetch queries the candidate endpoint with the given constraints.
func (c *YTMusicClient) Fetch(ctx context.Context, cons Constraints) ([]models.Track, error) {
	q := url.Values{}
	if cons.TempoMin > 0 {
		q.Set("tempo_min", strconv.FormatFloat(cons.TempoMin, 'f', 1, 64))
	}
	if cons.TempoMax > 0 {
		q.Set("tempo_max", strconv.FormatFloat(cons.TempoMax, 'f', 1, 64))
	}
	if cons.MinEnergy > 0 {
		q.Set("min_energy", strconv.FormatFloat(cons.MinEnergy, 'f', 2, 64))
	}
	if !cons.PlayedAfter.IsZero() {
		q.Set("exclude_played_after", cons.PlayedAfter.UTC().Format(time.RFC3339))
	}
	limit := cons.Limit
	if limit <= 0 || limit > MaxCandidates {
		limit = MaxCandidates
	}
	q.Set("limit", strconv.Itoa(limit))

	reqURL := c.baseURL + defaultFetchPath + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("catalog: build request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.doWithRetry(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog: candidate fetch status %d", resp.StatusCode)
	}

	var wire wireCandidateResponse
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, fmt.Errorf("catalog: decode candidates: %w", err)
	}

	tracks := make([]models.Track, 0, len(wire.Candidates))
	for _, w := range wire.Candidates {
		tracks = append(tracks, w.toTrack())
	}
	return tracks, nil
}

// CreatePlaylist writes a generated playlist to the listener's
// YouTube Music library and returns the platform playlist id. The
// description carries the embedded profile code.
func (c *YTMusicClient) CreatePlaylist(ctx context.Context, title, description string, videoIDs []string) (string, error) {
	payload, err := json.Marshal(wirePlaylistRequest{
		Title:       title,
		Description: description,
		VideoIDs:    videoIDs,
	})
	if err != nil {
		return "", fmt.Errorf("catalog: encode playlist: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+defaultPlaylistPath, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("catalog: build request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.doWithRetry(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("catalog: playlist create status %d", resp.StatusCode)
	}

	var wire wirePlaylistResponse
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return "", fmt.Errorf("catalog: decode playlist response: %w", err)
	}
	if wire.PlaylistID == "" {
		return "", fmt.Errorf("catalog: playlist response missing id")
	}
	return wire.PlaylistID, nil
}

func (c *YTMusicClient) doWithRetry(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("catalog: request canceled: %w", err)
		}

		// Rewind the body on retried writes.
		if attempt > 0 && req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, fmt.Errorf("catalog: rewind request body: %w", err)
			}
			req.Body = body
		}

		resp, err := c.httpClient.Do(req)
		retryAfter, retry := shouldRetry(resp, err)
		if !retry {
			return resp, err
		}

		if err != nil {
			logger.Warn("Catalog request retry", logger.Fields{
				"attempt": attempt + 1, "error": err.Error(),
			})
		} else if resp != nil {
			logger.Warn("Catalog request retry", logger.Fields{
				"attempt": attempt + 1, "status": resp.StatusCode,
			})
			_ = resp.Body.Close()
		}

		if attempt == c.maxRetries-1 {
			break
		}

		backoff := c.baseBackoff * time.Duration(1<<attempt)
		if retryAfter > 0 {
			backoff = retryAfter
		}
		if err := sleepWithContext(ctx, backoff); err != nil {
			return nil, err
		}
	}
	return nil, fmt.Errorf("catalog: request failed after %d attempts", c.maxRetries)
}

func shouldRetry(resp *http.Response, err error) (time.Duration, bool) {
	if err != nil {
		return 0, true
	}
	if resp == nil {
		return 0, false
	}
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
		return parseRetryAfter(resp), true
	}
	return 0, false
}

func parseRetryAfter(resp *http.Response) time.Duration {
	raw := resp.Header.Get("Retry-After")
	if raw == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(raw); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	if when, err := http.ParseTime(raw); err == nil {
		if until := time.Until(when); until > 0 {
			return until
		}
	}
	return 0
}

func sleepWithContext(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("catalog: request canceled: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}

type wirePlaylistRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	VideoIDs    []string `json:"videoIds"`
}

type wirePlaylistResponse struct {
	PlaylistID string `json:"playlistId"`
}

// wireCandidateResponse mirrors the feature service's JSON shape.
type wireCandidateResponse struct {
	Candidates []wireCandidate `json:"candidates"`
}

type wireCandidate struct {
	VideoID     string    `json:"videoId"`
	Title       string    `json:"title"`
	Artist      string    `json:"artist"`
	ReleaseYear int       `json:"releaseYear"`
	Features    wireAudio `json:"features"`
	Genres      []string  `json:"genres"`
	Tags        []string  `json:"tags"`
	Popularity  float64   `json:"popularity"`
	Mainstream  bool      `json:"mainstream"`
	Trending    bool      `json:"trending"`
	HasLyrics   bool      `json:"hasLyrics"`

	PlayCount         int      `json:"playCount"`
	LastPlayed        string   `json:"lastPlayed"`
	ArtistFamiliarity float64  `json:"artistFamiliarity"`
	NoveltyScore      *float64 `json:"noveltyScore"`
	FamiliarityScore  *float64 `json:"familiarityScore"`
}

type wireAudio struct {
	Mellow         float64 `json:"mellow"`
	Sophisticated  float64 `json:"sophisticated"`
	Intense        float64 `json:"intense"`
	Contemporary   float64 `json:"contemporary"`
	Unpretentious  float64 `json:"unpretentious"`
	Tempo          float64 `json:"tempo"`
	Energy         float64 `json:"energy"`
	Complexity     float64 `json:"complexity"`
	Mode           float64 `json:"mode"`
	Predictability float64 `json:"predictability"`
	Consonance     float64 `json:"consonance"`
	Valence        float64 `json:"valence"`
	Arousal        float64 `json:"arousal"`
}

func (w *wireCandidate) toTrack() models.Track {
	t := models.Track{
		VideoID:           w.VideoID,
		Title:             w.Title,
		Artist:            w.Artist,
		ReleaseYear:       w.ReleaseYear,
		Mellow:            w.Features.Mellow,
		Sophisticated:     w.Features.Sophisticated,
		Intense:           w.Features.Intense,
		Contemporary:      w.Features.Contemporary,
		Unpretentious:     w.Features.Unpretentious,
		Tempo:             w.Features.Tempo,
		Energy:            w.Features.Energy,
		Complexity:        w.Features.Complexity,
		Mode:              w.Features.Mode,
		Predictability:    w.Features.Predictability,
		Consonance:        w.Features.Consonance,
		Valence:           w.Features.Valence,
		Arousal:           w.Features.Arousal,
		Genres:            w.Genres,
		Tags:              w.Tags,
		Popularity:        w.Popularity,
		IsMainstream:      w.Mainstream,
		IsTrending:        w.Trending,
		HasLyrics:         w.HasLyrics,
		PlayCount:         w.PlayCount,
		ArtistFamiliarity: w.ArtistFamiliarity,
		NoveltyScore:      w.NoveltyScore,
		FamiliarityScore:  w.FamiliarityScore,
	}
	if w.LastPlayed != "" {
		if ts, err := time.Parse(time.RFC3339, w.LastPlayed); err == nil {
			t.LastPlayed = &ts
		}
	}
	return t
}
