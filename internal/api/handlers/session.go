package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/auralis-music/auralis-api/internal/models"
	"github.com/auralis-music/auralis-api/internal/profilecode"
	"github.com/auralis-music/auralis-api/internal/services"
	"github.com/auralis-music/auralis-api/internal/session"
)

// SessionHandler exposes the interview lifecycle over HTTP.
type SessionHandler struct {
	tracker   *session.Tracker
	interview *services.InterviewService
}

func NewSessionHandler(tracker *session.Tracker, interview *services.InterviewService) *SessionHandler {
	return &SessionHandler{tracker: tracker, interview: interview}
}

type createSessionRequest struct {
	// ProfileCode optionally seeds the session from a previous
	// interview, skipping already answered dimensions.
	ProfileCode string `json:"profile_code"`
}

type answerRequest struct {
	Message string `json:"message" binding:"required"`
}

type sessionResponse struct {
	ID             string              `json:"id"`
	State          models.SessionState `json:"state"`
	QuestionsAsked int                 `json:"questions_asked"`
	Confidence     int                 `json:"confidence"`
	Ready          bool                `json:"ready"`
	ExpiresAt      time.Time           `json:"expires_at"`
	Question       string              `json:"question,omitempty"`
	Done           bool                `json:"done,omitempty"`
}

func sessionView(s *models.ConversationSession, question string, done bool) sessionResponse {
	return sessionResponse{
		ID:             s.ID,
		State:          s.State(time.Now()),
		QuestionsAsked: s.QuestionsAsked,
		Confidence:     s.Profile.Confidence,
		Ready:          s.Ready(),
		ExpiresAt:      s.ExpiresAt,
		Question:       question,
		Done:           done,
	}
}

// Create starts a new interview session and asks the opening question.
func (h *SessionHandler) Create(c *gin.Context) {
	var req createSessionRequest
	// Body is optional.
	_ = c.ShouldBindJSON(&req)

	var userID uint
	if id, ok := c.Get("user_id"); ok {
		if v, ok := id.(uint); ok {
			userID = v
		}
	}

	res, err := h.interview.Start(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	sess := res.Session
	if req.ProfileCode != "" {
		seed, err := profilecode.Decode(req.ProfileCode)
		if err != nil {
			respondError(c, err)
			return
		}
		sess, err = h.tracker.RecordTurn(c.Request.Context(), sess.ID, "", "", seed)
		if err != nil {
			respondError(c, err)
			return
		}
	}

	c.JSON(http.StatusCreated, sessionView(sess, res.Question, res.Done))
}

// Get returns the session's current state without mutating it.
func (h *SessionHandler) Get(c *gin.Context) {
	sess, err := h.tracker.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionView(sess, "", false))
}

// Messages returns the full exchange history for a session.
func (h *SessionHandler) Messages(c *gin.Context) {
	sess, err := h.tracker.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"session_id": sess.ID,
		"messages":   sess.Exchanges,
	})
}

// Answer records one listener answer and returns the next question.
func (h *SessionHandler) Answer(c *gin.Context) {
	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.interview.HandleAnswer(c.Request.Context(), c.Param("id"), req.Message)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, sessionView(res.Session, res.Question, res.Done))
}
