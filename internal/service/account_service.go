package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/kimmingyu9411/library-take-out/internal/events"
	"github.com/kimmingyu9411/library-take-out/internal/models"
	"github.com/kimmingyu9411/library-take-out/internal/utils"
)

// ErrEmptyUpdate is returned when an update request carries no fields.
var ErrEmptyUpdate = errors.New("no update fields provided")

// UserStore is the write-side persistence the account service needs.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByNickname(ctx context.Context, nickname string) (*models.User, error)
	Update(ctx context.Context, id string, params models.UpdateUserParams) (*models.User, error)
	Delete(ctx context.Context, id string) error
}

// UserViews is the read-side store for profile projections.
type UserViews interface {
	GetByID(ctx context.Context, id string) (*models.UserView, error)
	CacheUserView(ctx context.Context, view *models.UserView)
	InvalidateUserView(ctx context.Context, userID string)
}

// EventPublisher announces user lifecycle changes on the event stream.
type EventPublisher interface {
	Publish(ctx context.Context, stream, eventType string, data any) error
}

// AccountService orchestrates the account lifecycle: transactional signup,
// profile reads, partial updates and deletion. Dependencies are injected at
// construction; there is no shared global state.
type AccountService struct {
	store     UserStore
	views     UserViews
	publisher EventPublisher
}

func NewAccountService(store UserStore, views UserViews, publisher EventPublisher) *AccountService {
	return &AccountService{store: store, views: views, publisher: publisher}
}

// Signup creates a new account. The password is stored only as a bcrypt hash
// and the penalty counter always starts at zero.
func (s *AccountService) Signup(ctx context.Context, params models.SignupParams) (*models.User, error) {
	passwordHash, err := utils.HashPassword(params.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           models.NewUserID(),
		IsAdmin:      params.IsAdmin,
		Name:         params.Name,
		Nickname:     params.Nickname,
		PasswordHash: passwordHash,
		PenaltyPoint: 0,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.Create(ctx, user); err != nil {
		return nil, err
	}

	s.views.CacheUserView(ctx, user.ToView())
	if err := s.publisher.Publish(ctx, events.UserEventsStream, events.UserCreated, events.UserCreatedEvent{
		UserID:   user.ID,
		Nickname: user.Nickname,
		Name:     user.Name,
		IsAdmin:  user.IsAdmin,
	}); err != nil {
		log.Printf("Failed to publish user.created event: %v", err)
	}
	return user, nil
}

// GetProfile returns the read projection for a user.
func (s *AccountService) GetProfile(ctx context.Context, id string) (*models.UserView, error) {
	return s.views.GetByID(ctx, id)
}

// UpdateUser merges the provided fields into the stored user. An empty params
// struct is rejected before any store call. Applying the same params twice
// leaves the row in the same state as applying them once.
func (s *AccountService) UpdateUser(ctx context.Context, id string, params models.UpdateUserParams) (*models.UserView, error) {
	if params.IsEmpty() {
		return nil, ErrEmptyUpdate
	}

	if params.Password != nil {
		hash, err := utils.HashPassword(*params.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		params.Password = &hash
	}

	user, err := s.store.Update(ctx, id, params)
	if err != nil {
		return nil, err
	}

	view := user.ToView()
	s.views.CacheUserView(ctx, view)
	if err := s.publisher.Publish(ctx, events.UserEventsStream, events.UserUpdated, events.UserUpdatedEvent{
		UserID:       user.ID,
		Nickname:     user.Nickname,
		Name:         user.Name,
		PenaltyPoint: user.PenaltyPoint,
	}); err != nil {
		log.Printf("Failed to publish user.updated event: %v", err)
	}
	return view, nil
}

// DeleteUser removes the account permanently.
func (s *AccountService) DeleteUser(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	s.views.InvalidateUserView(ctx, id)
	if err := s.publisher.Publish(ctx, events.UserEventsStream, events.UserDeleted, events.UserDeletedEvent{
		UserID: id,
	}); err != nil {
		log.Printf("Failed to publish user.deleted event: %v", err)
	}
	return nil
}
