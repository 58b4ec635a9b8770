package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/auralis-music/auralis-api/internal/catalog"
	"github.com/auralis-music/auralis-api/internal/diversity"
	"github.com/auralis-music/auralis-api/internal/logger"
	"github.com/auralis-music/auralis-api/internal/metrics"
	"github.com/auralis-music/auralis-api/internal/models"
	"github.com/auralis-music/auralis-api/internal/profilecode"
	"github.com/auralis-music/auralis-api/internal/scoring"
	"github.com/auralis-music/auralis-api/internal/session"
)

const (
	playlistDescription = "Generated by Auralis from your listening interview."
	playlistTitle       = "Auralis Mix"
)

// RecommendationService runs the full pipeline: candidate fetch,
// scoring, diversity selection, and persistence of the resulting
// playlist with its profile code.
type RecommendationService struct {
	source  catalog.CandidateSource
	engine  *scoring.Engine
	tracker *session.Tracker
	db      *gorm.DB
	cw      *metrics.Client
	writer  catalog.PlaylistWriter
	email   *EmailService
	size    int
	now     func() time.Time
}

// NewRecommendationService wires the pipeline. db may be nil when
// running without persistence (local dev, tests).
func NewRecommendationService(
	source catalog.CandidateSource,
	engine *scoring.Engine,
	tracker *session.Tracker,
	db *gorm.DB,
	cw *metrics.Client,
	size int,
) *RecommendationService {
	if size <= 0 {
		size = 30
	}
	return &RecommendationService{
		source:  source,
		engine:  engine,
		tracker: tracker,
		db:      db,
		cw:      cw,
		size:    size,
		now:     time.Now,
	}
}

// GenerateForSession enforces the readiness gate, generates a playlist
// from the session's profile, and marks the session consumed. Gate
// failures surface as *session.GateError, never as a thin playlist.
func (s *RecommendationService) GenerateForSession(ctx context.Context, sessionID string) (*models.PlaylistRecommendation, error) {
	sess, err := s.tracker.RequireReady(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	rec, err := s.GenerateFromProfile(ctx, sess.UserID, &sess.Profile)
	if err != nil {
		return nil, err
	}
	rec.SessionID = sessionID

	if s.db != nil {
		if err := s.db.Save(rec).Error; err != nil {
			return nil, fmt.Errorf("services: persist recommendation: %w", err)
		}
		// Refresh the user's stored profile code so future sessions can
		// seed from it.
		if sess.UserID != 0 {
			if err := s.db.Model(&models.User{}).Where("id = ?", sess.UserID).
				Update("profile_code", rec.ProfileCode).Error; err != nil {
				logger.Warn("Failed to refresh user profile code", logger.Fields{
					"user_id": sess.UserID, "error": err.Error(),
				})
			}
		}
	}

	if err := s.tracker.Complete(ctx, sessionID); err != nil {
		return nil, err
	}

	s.mailProfileCode(sess.UserID, rec)
	return rec, nil
}

// mailProfileCode sends the listener their new profile code. Mail
// failures never fail generation.
func (s *RecommendationService) mailProfileCode(userID uint, rec *models.PlaylistRecommendation) {
	if s.email == nil || s.db == nil || userID == 0 {
		return
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return
	}
	if err := s.email.SendProfileCodeEmail(&user, rec.ProfileCode, len(rec.Tracks)); err != nil {
		logger.Warn("Failed to send profile code email", logger.Fields{
			"user_id": userID, "error": err.Error(),
		})
	}
}

// GenerateFromProfile runs the pipeline for an arbitrary profile,
// typically decoded from a profile code. Persistence is left to the
// caller; session-driven generation persists via GenerateForSession.
func (s *RecommendationService) GenerateFromProfile(ctx context.Context, userID uint, profile *models.Profile) (*models.PlaylistRecommendation, error) {
	start := s.now()
	cons := s.constraintsFromProfile(profile)

	candidates, err := s.source.Fetch(ctx, cons)
	if err != nil {
		s.recordOutcome(start, 0, 0, false)
		return nil, err
	}
	if len(candidates) == 0 {
		s.recordOutcome(start, 0, 0, false)
		return nil, &catalog.EmptyCandidateSetError{Constraints: cons}
	}

	listening := models.NewListeningContext(profile)
	ranked := make([]models.ScoredTrack, 0, len(candidates))
	malformed := 0
	for i := range candidates {
		if scoring.IsMalformedTrack(&candidates[i]) {
			malformed++
		}
		result := s.engine.Score(&candidates[i], profile, listening)
		ranked = append(ranked, models.ScoredTrack{Track: candidates[i], Score: result})
	}
	if malformed > 0 {
		logger.Warn("Malformed candidates scored with neutral features", logger.Fields{
			"count": malformed, "total": len(candidates),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score.FinalScore > ranked[j].Score.FinalScore
	})

	selected := diversity.Select(ranked, s.size)

	code, err := profilecode.Encode(profile)
	if err != nil {
		s.recordOutcome(start, len(candidates), 0, false)
		return nil, fmt.Errorf("services: encode profile: %w", err)
	}

	rec := &models.PlaylistRecommendation{
		UserID:      userID,
		ProfileCode: code,
		Description: profilecode.EmbedProfileCode(playlistDescription, code),
	}
	for i, st := range selected {
		rec.Tracks = append(rec.Tracks, models.PlaylistTrack{
			Position:   i + 1,
			VideoID:    st.Track.VideoID,
			Title:      st.Track.Title,
			Artist:     st.Track.Artist,
			FinalScore: st.Score.FinalScore,
		})
	}

	s.pushPlaylist(ctx, rec)

	duration := time.Since(start)
	logger.LogRecommendation(rec.SessionID, len(candidates), len(selected), duration, nil)
	s.recordOutcome(start, len(candidates), len(selected), true)
	return rec, nil
}

// SetPlaylistWriter enables pushing generated playlists back to the
// catalog platform.
func (s *RecommendationService) SetPlaylistWriter(w catalog.PlaylistWriter) {
	s.writer = w
}

// SetEmailService enables mailing the listener their profile code
// after session-driven generation.
func (s *RecommendationService) SetEmailService(email *EmailService) {
	s.email = email
}

// pushPlaylist writes the playlist to the platform when a writer is
// configured. Failures are logged, never surfaced: the recommendation
// itself already succeeded.
func (s *RecommendationService) pushPlaylist(ctx context.Context, rec *models.PlaylistRecommendation) {
	if s.writer == nil {
		return
	}

	videoIDs := make([]string, 0, len(rec.Tracks))
	for _, t := range rec.Tracks {
		videoIDs = append(videoIDs, t.VideoID)
	}

	id, err := s.writer.CreatePlaylist(ctx, playlistTitle, rec.Description, videoIDs)
	if err != nil {
		logger.Warn("Failed to push playlist to catalog", logger.Fields{
			"error": err.Error(), "tracks": len(videoIDs),
		})
		return
	}
	rec.RemotePlaylistID = id
}

// constraintsFromProfile translates profile fields into catalog query
// constraints. Unknown fields impose no bound.
func (s *RecommendationService) constraintsFromProfile(p *models.Profile) catalog.Constraints {
	cons := catalog.Constraints{
		PlayedAfter: s.now().Add(-catalog.RecentPlayLookback),
		Limit:       catalog.MaxCandidates,
	}
	if p.Tempo != models.Unknown {
		target := scoring.TempoBPM(p.Tempo)
		cons.TempoMin = target - catalog.TempoWindowBPM
		cons.TempoMax = target + catalog.TempoWindowBPM
	}
	if p.Activity == models.ActivityWorkout {
		cons.MinEnergy = catalog.WorkoutMinEnergy
	}
	return cons
}

func (s *RecommendationService) recordOutcome(start time.Time, candidates, selected int, success bool) {
	if s.cw != nil {
		s.cw.RecordRecommendation(time.Since(start), candidates, selected, success)
	}
}
