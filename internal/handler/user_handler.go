package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kimmingyu9411/library-take-out/internal/middleware"
	"github.com/kimmingyu9411/library-take-out/internal/models"
	"github.com/kimmingyu9411/library-take-out/internal/repository"
	"github.com/kimmingyu9411/library-take-out/internal/service"
)

// AccountCommander defines the write-side operations used by UserHandler.
type AccountCommander interface {
	Signup(ctx context.Context, params models.SignupParams) (*models.User, error)
	UpdateUser(ctx context.Context, id string, params models.UpdateUserParams) (*models.UserView, error)
	DeleteUser(ctx context.Context, id string) error
}

// AccountQuerier defines the read-side operations used by UserHandler.
type AccountQuerier interface {
	GetProfile(ctx context.Context, id string) (*models.UserView, error)
}

// UserHandler maps the account endpoints onto the account service.
type UserHandler struct {
	commands AccountCommander
	queries  AccountQuerier
}

func NewUserHandler(commands AccountCommander, queries AccountQuerier) *UserHandler {
	return &UserHandler{commands: commands, queries: queries}
}

type SignupRequest struct {
	IsAdmin  bool   `json:"isAdmin"`
	Name     string `json:"name" validate:"required"`
	Nickname string `json:"nickname" validate:"required,min=2"`
	Password string `json:"password" validate:"required,min=8"`
}

type UpdateUserRequest struct {
	IsAdmin      *bool   `json:"isAdmin"`
	Name         *string `json:"name" validate:"omitempty,min=1"`
	Nickname     *string `json:"nickname" validate:"omitempty,min=2"`
	Password     *string `json:"password" validate:"omitempty,min=8"`
	PenaltyPoint *int    `json:"penaltyPoint" validate:"omitempty,gte=0"`
}

// Signup handles POST /signup.
func (h *UserHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	user, err := h.commands.Signup(c.Request.Context(), models.SignupParams{
		IsAdmin:  req.IsAdmin,
		Name:     req.Name,
		Nickname: req.Nickname,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNicknameTaken) {
			middleware.RespondWithError(c, http.StatusConflict, "Nickname already taken")
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to create user")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result":  user.ToView(),
		"message": "Signup complete",
	})
}

// GetProfile handles GET /profile for the authenticated user.
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		middleware.RespondWithError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	view, err := h.queries.GetProfile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			middleware.RespondWithError(c, http.StatusNotFound, "User not found")
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": view})
}

// UpdateUser handles PATCH /user for the authenticated user.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		middleware.RespondWithError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	view, err := h.commands.UpdateUser(c.Request.Context(), userID, models.UpdateUserParams{
		IsAdmin:      req.IsAdmin,
		Name:         req.Name,
		Nickname:     req.Nickname,
		Password:     req.Password,
		PenaltyPoint: req.PenaltyPoint,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyUpdate):
			middleware.RespondWithError(c, http.StatusBadRequest, "Provide update data")
		case errors.Is(err, repository.ErrUserNotFound):
			middleware.RespondWithError(c, http.StatusNotFound, "User not found")
		case errors.Is(err, repository.ErrNicknameTaken):
			middleware.RespondWithError(c, http.StatusConflict, "Nickname already taken")
		default:
			middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to update user")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result":  view,
		"message": "Update complete",
	})
}

// DeleteUser handles DELETE /user for the authenticated user. The session
// cookie is cleared alongside the row so the deleted account cannot keep
// using its token from this client.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		middleware.RespondWithError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	if err := h.commands.DeleteUser(c.Request.Context(), userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			middleware.RespondWithError(c, http.StatusNotFound, "User not found")
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Failed to delete user")
		return
	}

	clearAuthCookie(c)
	c.JSON(http.StatusOK, gin.H{
		"isSuccessful": true,
		"message":      "Account deleted",
	})
}
