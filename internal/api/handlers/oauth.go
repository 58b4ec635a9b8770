package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/google"
	"gorm.io/gorm"

	"github.com/auralis-music/auralis-api/internal/config"
	"github.com/auralis-music/auralis-api/internal/models"
)

const providerGoogle = "google"

type OAuthHandler struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewOAuthHandler(db *gorm.DB, cfg *config.Config) *OAuthHandler {
	// Initialize gothic session store
	secret := cfg.SessionSecret
	if secret == "" {
		secret = cfg.JWTSecret
	}
	store := sessions.NewCookieStore([]byte(secret))
	store.Options.HttpOnly = true
	store.Options.Secure = cfg.Environment == "production"
	gothic.Store = store

	goth.UseProviders(
		google.New(
			cfg.GoogleClientID,
			cfg.GoogleSecret,
			cfg.OAuthCallback,
			"email", "profile",
		),
	)

	return &OAuthHandler{db: db, cfg: cfg}
}

// BeginAuth redirects user to OAuth provider login
func (h *OAuthHandler) BeginAuth(c *gin.Context) {
	provider := c.Param("provider")
	if provider != providerGoogle {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported provider"})
		return
	}

	// gothic reads the provider from the query string
	q := c.Request.URL.Query()
	q.Add("provider", provider)
	c.Request.URL.RawQuery = q.Encode()

	gothic.BeginAuthHandler(c.Writer, c.Request)
}

// Callback handles OAuth provider callback
func (h *OAuthHandler) Callback(c *gin.Context) {
	provider := c.Param("provider")
	if provider != providerGoogle {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported provider"})
		return
	}

	q := c.Request.URL.Query()
	q.Add("provider", provider)
	c.Request.URL.RawQuery = q.Encode()

	gothUser, err := gothic.CompleteUserAuth(c.Writer, c.Request)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "OAuth authentication failed"})
		return
	}

	user, isNew, err := h.findOrCreateOAuthUser(&gothUser)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	authHandler := &AuthHandler{db: h.db, cfg: h.cfg}
	accessToken, err := authHandler.generateAccessToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate access token"})
		return
	}

	refreshToken, err := authHandler.generateRefreshToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate refresh token"})
		return
	}

	authHandler.setAuthCookies(c, accessToken, refreshToken)

	redirectURL := fmt.Sprintf("%s/auth/callback?access_token=%s&refresh_token=%s&is_new=%v",
		h.cfg.FrontendURL, accessToken, refreshToken, isNew)
	c.Redirect(http.StatusTemporaryRedirect, redirectURL)
}

// findOrCreateOAuthUser finds an existing OAuth user or creates a new one
func (h *OAuthHandler) findOrCreateOAuthUser(gothUser *goth.User) (*models.User, bool, error) {
	var user models.User
	err := h.db.Where("provider = ? AND provider_user_id = ?",
		gothUser.Provider, gothUser.UserID).
		First(&user).Error

	if err == nil {
		return &user, false, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	// Email/password account with the same address gets linked to the
	// OAuth identity instead of creating a duplicate.
	var existing models.User
	if h.db.Where("email = ?", gothUser.Email).First(&existing).Error == nil {
		existing.Provider = gothUser.Provider
		existing.ProviderUserID = gothUser.UserID
		existing.EmailVerified = true
		if err := h.db.Save(&existing).Error; err != nil {
			return nil, false, err
		}
		return &existing, false, nil
	}

	// The provider already verified the email address.
	user = models.User{
		Email:          gothUser.Email,
		Name:           gothUser.Name,
		IsActive:       true,
		EmailVerified:  true,
		Provider:       gothUser.Provider,
		ProviderUserID: gothUser.UserID,
	}

	if err := h.db.Create(&user).Error; err != nil {
		return nil, false, err
	}

	return &user, true, nil
}
