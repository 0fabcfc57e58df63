package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kimmingyu9411/library-take-out/internal/middleware"
	"github.com/kimmingyu9411/library-take-out/internal/service"
)

// authCookieMaxAge matches the token lifetime.
const authCookieMaxAge = 24 * 60 * 60

// AuthQuerier defines the operations used by AuthHandler. Login and refresh
// never mutate account state, so there is no command side.
type AuthQuerier interface {
	Login(ctx context.Context, nickname, password string) (string, error)
	RefreshToken(ctx context.Context, token string) (string, error)
}

type AuthHandler struct {
	queries AuthQuerier
}

func NewAuthHandler(queries AuthQuerier) *AuthHandler {
	return &AuthHandler{queries: queries}
}

type LoginRequest struct {
	Nickname string `json:"nickname" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	Token string `json:"token" validate:"required"`
}

// Login handles POST /login. On success the token is both returned in the
// body and set in an HttpOnly cookie scoped to the whole site.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	token, err := h.queries.Login(c.Request.Context(), req.Nickname, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			middleware.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to log in")
		return
	}

	setAuthCookie(c, token)
	c.JSON(http.StatusOK, gin.H{
		"token":   token,
		"message": "Login successful",
	})
}

// Logout handles POST /logout. It clears the cookie regardless of whether a
// valid session existed.
func (h *AuthHandler) Logout(c *gin.Context) {
	clearAuthCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// RefreshToken handles POST /refresh.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	token, err := h.queries.RefreshToken(c.Request.Context(), req.Token)
	if err != nil {
		middleware.RespondWithError(c, http.StatusUnauthorized, "Invalid token")
		return
	}

	setAuthCookie(c, token)
	c.JSON(http.StatusOK, gin.H{
		"token":   token,
		"message": "Token refreshed",
	})
}

func setAuthCookie(c *gin.Context, token string) {
	c.SetCookie(middleware.AuthCookieName, token, authCookieMaxAge, "/", "", false, true)
}

func clearAuthCookie(c *gin.Context) {
	c.SetCookie(middleware.AuthCookieName, "", -1, "/", "", false, true)
}
