package session

import (
	"errors"
	"fmt"

	"github.com/auralis-music/auralis-api/internal/models"
)

// ErrNotFound is returned by stores for unknown session ids. The
// tracker wraps it into a NotFoundError carrying the id.
var ErrNotFound = errors.New("session: not found")

// NotFoundError reports a generation or mutation request against a
// session that does not exist or has passed its expiry.
type NotFoundError struct {
	SessionID string
	Expired   bool
}

func (e *NotFoundError) Error() string {
	if e.Expired {
		return fmt.Sprintf("session %s has expired", e.SessionID)
	}
	return fmt.Sprintf("session %s not found", e.SessionID)
}

// GateError reports a generation request against a session that has
// not met the readiness gate. It carries current vs required values so
// the caller can render progress.
type GateError struct {
	QuestionsAsked     int
	RequiredQuestions  int
	Confidence         int
	RequiredConfidence int
}

func (e *GateError) Error() string {
	return fmt.Sprintf("session not ready: %d/%d questions, confidence %d/%d",
		e.QuestionsAsked, e.RequiredQuestions, e.Confidence, e.RequiredConfidence)
}

// NewGateError captures the gate state of a session.
func NewGateError(s *models.ConversationSession) *GateError {
	return &GateError{
		QuestionsAsked:     s.QuestionsAsked,
		RequiredQuestions:  models.MinQuestionsAsked,
		Confidence:         s.Profile.Confidence,
		RequiredConfidence: models.MinConfidence,
	}
}
