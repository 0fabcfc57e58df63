package models

import "time"

// UserView is the read-optimised projection of a user.
// It never exposes PasswordHash and is what every API response carries.
type UserView struct {
	ID           string    `json:"id"`
	IsAdmin      bool      `json:"isAdmin"`
	Name         string    `json:"name"`
	Nickname     string    `json:"nickname"`
	PenaltyPoint int       `json:"penaltyPoint"`
	CreatedAt    time.Time `json:"createdTimestamp"`
	UpdatedAt    time.Time `json:"updatedTimestamp"`
}

// ToView projects the write model onto its API shape.
func (u *User) ToView() *UserView {
	return &UserView{
		ID:           u.ID,
		IsAdmin:      u.IsAdmin,
		Name:         u.Name,
		Nickname:     u.Nickname,
		PenaltyPoint: u.PenaltyPoint,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}
