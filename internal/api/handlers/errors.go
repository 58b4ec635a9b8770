package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/auralis-music/auralis-api/internal/catalog"
	"github.com/auralis-music/auralis-api/internal/profilecode"
	"github.com/auralis-music/auralis-api/internal/session"
)

// respondError maps domain errors onto HTTP statuses. Every branch
// keeps the typed error's detail in the body so clients can react
// without parsing messages.
func respondError(c *gin.Context, err error) {
	var formatErr *profilecode.FormatError
	if errors.As(err, &formatErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "Invalid profile code",
			"reason": formatErr.Reason,
		})
		return
	}

	var encodingErr *profilecode.EncodingError
	if errors.As(err, &encodingErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Profile field out of range",
			"field": encodingErr.Field,
			"max":   encodingErr.Max,
		})
		return
	}

	var gateErr *session.GateError
	if errors.As(err, &gateErr) {
		c.JSON(http.StatusConflict, gin.H{
			"error":               "Interview not ready for playlist generation",
			"questions_asked":     gateErr.QuestionsAsked,
			"required_questions":  gateErr.RequiredQuestions,
			"confidence":          gateErr.Confidence,
			"required_confidence": gateErr.RequiredConfidence,
		})
		return
	}

	var notFound *session.NotFoundError
	if errors.As(err, &notFound) {
		msg := "Session not found"
		if notFound.Expired {
			msg = "Session expired"
		}
		c.JSON(http.StatusNotFound, gin.H{
			"error":      msg,
			"session_id": notFound.SessionID,
		})
		return
	}

	var empty *catalog.EmptyCandidateSetError
	if errors.As(err, &empty) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":  "No candidate tracks matched the profile constraints",
			"detail": empty.Error(),
		})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
