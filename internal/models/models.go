package models

import (
	"time"

	"github.com/google/uuid"
)

// User is the write model. PasswordHash is never serialised.
type User struct {
	ID           string    `json:"id"`
	IsAdmin      bool      `json:"isAdmin"`
	Name         string    `json:"name"`
	Nickname     string    `json:"nickname"`
	PasswordHash string    `json:"-"`
	PenaltyPoint int       `json:"penaltyPoint"`
	CreatedAt    time.Time `json:"createdTimestamp"`
	UpdatedAt    time.Time `json:"updatedTimestamp"`
}

// NewUserID generates a user ID. The prefix keeps IDs recognisable in logs
// and foreign systems.
func NewUserID() string {
	return "usr-" + uuid.NewString()
}

// UpdateUserParams carries a partial update. Nil fields are left unchanged.
// Password, when set, is the raw credential; the service layer hashes it
// before it reaches the repository.
type UpdateUserParams struct {
	IsAdmin      *bool
	Name         *string
	Nickname     *string
	Password     *string
	PenaltyPoint *int
}

// IsEmpty reports whether the update carries no fields at all.
func (p UpdateUserParams) IsEmpty() bool {
	return p.IsAdmin == nil && p.Name == nil && p.Nickname == nil &&
		p.Password == nil && p.PenaltyPoint == nil
}

// SignupParams is the validated input to AccountService.Signup.
type SignupParams struct {
	IsAdmin  bool
	Name     string
	Nickname string
	Password string
}
