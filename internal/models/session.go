package models

import (
	"time"
)

// Session gate thresholds. A session may generate a playlist once it
// has seen at least MinQuestionsAsked interview turns and its profile
// confidence has reached MinConfidence. Both bounds are inclusive.
const (
	MinQuestionsAsked = 5
	MinConfidence     = 21
)

// SessionTTL is the fixed lifetime of an interview session.
const SessionTTL = 2 * time.Hour

// SessionState describes where a session is in its lifecycle.
type SessionState string

const (
	SessionCreated   SessionState = "created"
	SessionActive    SessionState = "active"
	SessionReady     SessionState = "ready"
	SessionCompleted SessionState = "completed"
	SessionExpired   SessionState = "expired"
)

// SessionExchange is one conversational turn inside a session.
type SessionExchange struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	SessionID string    `gorm:"index;not null" json:"session_id"`
	Role      string    `gorm:"not null" json:"role"` // "assistant" or "user"
	Message   string    `gorm:"type:text;not null" json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// ConversationSession is an in-progress preference interview: the
// exchanges so far, the partial profile they produced, and the derived
// readiness gate values.
type ConversationSession struct {
	ID             string            `gorm:"primarykey" json:"id"`
	UserID         uint              `gorm:"index" json:"user_id"`
	Exchanges      []SessionExchange `gorm:"foreignKey:SessionID" json:"exchanges"`
	Profile        Profile           `gorm:"embedded;embeddedPrefix:profile_" json:"profile"`
	QuestionsAsked int               `gorm:"default:0" json:"questions_asked"`
	Completed      bool              `gorm:"default:false" json:"completed"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
	ExpiresAt      time.Time         `json:"expires_at"`
}

// State derives the lifecycle state at the given instant. Expiry wins
// over every other state except completed playlists already generated.
func (s *ConversationSession) State(now time.Time) SessionState {
	if s.Completed {
		return SessionCompleted
	}
	if now.After(s.ExpiresAt) {
		return SessionExpired
	}
	if s.Ready() {
		return SessionReady
	}
	if len(s.Exchanges) > 0 || s.QuestionsAsked > 0 {
		return SessionActive
	}
	return SessionCreated
}

// Ready reports whether the generation gate is open.
func (s *ConversationSession) Ready() bool {
	return s.QuestionsAsked >= MinQuestionsAsked && s.Profile.Confidence >= MinConfidence
}

// PlaylistTrack is one entry of a persisted recommendation.
type PlaylistTrack struct {
	ID               uint    `gorm:"primarykey" json:"id"`
	RecommendationID uint    `gorm:"index;not null" json:"recommendation_id"`
	Position         int     `gorm:"not null" json:"position"`
	VideoID          string  `gorm:"not null" json:"video_id"`
	Title            string  `json:"title"`
	Artist           string  `json:"artist"`
	FinalScore       float64 `json:"final_score"`
}

// PlaylistRecommendation is a generated playlist kept for history. The
// description embeds the profile code so the profile can be recovered
// from the playlist alone.
type PlaylistRecommendation struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UserID      uint      `gorm:"index" json:"user_id"`
	SessionID   string    `gorm:"index" json:"session_id"`
	ProfileCode string    `gorm:"not null" json:"profile_code"`
	Description string    `gorm:"type:text" json:"description"`
	// RemotePlaylistID is set when the playlist was pushed to the
	// listener's YouTube Music library.
	RemotePlaylistID string          `json:"remote_playlist_id,omitempty"`
	Tracks           []PlaylistTrack `gorm:"foreignKey:RecommendationID" json:"tracks"`
}
