package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/auralis-music/auralis-api/internal/models"
	"github.com/auralis-music/auralis-api/internal/profilecode"
)

// ProfileHandler exposes the profile code codec: encode a profile to
// its 37-character form and decode codes (bare or embedded in text).
type ProfileHandler struct{}

func NewProfileHandler() *ProfileHandler {
	return &ProfileHandler{}
}

type decodeRequest struct {
	// Code is a bare profile code or any text with an embedded
	// "MPC:"/"PROFILE:" marker.
	Code string `json:"code" binding:"required"`
}

// Encode turns a profile JSON document into a profile code. Absent
// fields must be sent as -1 to mean unknown.
func (h *ProfileHandler) Encode(c *gin.Context) {
	profile := models.NewProfile()
	if err := c.ShouldBindJSON(profile); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	code, err := profilecode.Encode(profile)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":       code,
		"confidence": profilecode.CalculateConfidence(profile),
	})
}

// Decode parses a profile code back into its fields, recomputing
// confidence from field presence.
func (h *ProfileHandler) Decode(c *gin.Context) {
	var req decodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	code := req.Code
	if extracted := profilecode.ExtractProfileCode(code); extracted != "" {
		code = extracted
	}

	profile, err := profilecode.Decode(code)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    code,
		"profile": profile,
	})
}
