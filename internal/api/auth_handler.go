package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"ironlog/workout-app/internal/config"
)

// AuthHandler issues tokens for the single configured user.
type AuthHandler struct {
	cfg config.AuthConfig
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(cfg config.AuthConfig) *AuthHandler {
	return &AuthHandler{cfg: cfg}
}

// LoginRequest defines the expected JSON for login.
type LoginRequest struct {
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued bearer token.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Login checks the password against the configured bcrypt hash and issues a
// JWT on success.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(h.cfg.PasswordHash), []byte(req.Password)); err != nil {
		abortWithError(c, http.StatusUnauthorized, "Authentication failed")
		return
	}

	expiration := h.cfg.JWTExpiration
	if expiration <= 0 {
		expiration = 24 * time.Hour
	}
	expiresAt := time.Now().Add(expiration)

	claims := jwtClaims{
		Subject: "user",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(h.cfg.JWTSecret))
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to generate authentication token")
		return
	}

	c.JSON(http.StatusOK, LoginResponse{Token: signed, ExpiresAt: expiresAt})
}
