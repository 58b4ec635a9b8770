package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/auralis-music/auralis-api/internal/models"
	"github.com/auralis-music/auralis-api/internal/profilecode"
	"github.com/auralis-music/auralis-api/internal/services"
)

// RecommendationHandler exposes playlist generation over HTTP, both
// from a completed interview session and directly from a profile code.
type RecommendationHandler struct {
	svc *services.RecommendationService
	db  *gorm.DB
}

func NewRecommendationHandler(svc *services.RecommendationService, db *gorm.DB) *RecommendationHandler {
	return &RecommendationHandler{svc: svc, db: db}
}

type recommendRequest struct {
	// ProfileCode drives generation without an interview. The code may
	// be a bare 37-character code or text containing an embedded one.
	ProfileCode string `json:"profile_code" binding:"required"`
}

// FromSession generates a playlist for a gated interview session.
func (h *RecommendationHandler) FromSession(c *gin.Context) {
	rec, err := h.svc.GenerateForSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

// FromProfileCode generates a playlist directly from a profile code.
func (h *RecommendationHandler) FromProfileCode(c *gin.Context) {
	var req recommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	code := req.ProfileCode
	if extracted := profilecode.ExtractProfileCode(code); extracted != "" {
		code = extracted
	}

	profile, err := profilecode.Decode(code)
	if err != nil {
		respondError(c, err)
		return
	}

	var userID uint
	if id, ok := c.Get("user_id"); ok {
		if v, ok := id.(uint); ok {
			userID = v
		}
	}

	rec, err := h.svc.GenerateFromProfile(c.Request.Context(), userID, profile)
	if err != nil {
		respondError(c, err)
		return
	}

	if h.db != nil {
		if err := h.db.Save(rec).Error; err != nil {
			respondError(c, err)
			return
		}
	}
	c.JSON(http.StatusCreated, rec)
}

// History lists the caller's persisted recommendations, newest first.
func (h *RecommendationHandler) History(c *gin.Context) {
	if h.db == nil {
		c.JSON(http.StatusOK, gin.H{"recommendations": []models.PlaylistRecommendation{}})
		return
	}

	var userID uint
	if id, ok := c.Get("user_id"); ok {
		if v, ok := id.(uint); ok {
			userID = v
		}
	}

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 && v <= 100 {
			limit = v
		}
	}

	var recs []models.PlaylistRecommendation
	if err := h.db.Where("user_id = ?", userID).
		Preload("Tracks", func(db *gorm.DB) *gorm.DB {
			return db.Order("playlist_tracks.position ASC")
		}).
		Order("created_at DESC").
		Limit(limit).
		Find(&recs).Error; err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recommendations": recs})
}

// Get returns one persisted recommendation with its tracks.
func (h *RecommendationHandler) Get(c *gin.Context) {
	if h.db == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recommendation not found"})
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid recommendation id"})
		return
	}

	var rec models.PlaylistRecommendation
	if err := h.db.Preload("Tracks", func(db *gorm.DB) *gorm.DB {
		return db.Order("playlist_tracks.position ASC")
	}).First(&rec, uint(id)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recommendation not found"})
		return
	}

	c.JSON(http.StatusOK, rec)
}
