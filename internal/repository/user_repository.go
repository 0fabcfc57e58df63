package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/kimmingyu9411/library-take-out/internal/models"
)

// Sentinel errors callers branch on with errors.Is. Infrastructure failures
// are wrapped instead, so "not found" and "database down" stay distinguishable
// all the way up to the handler.
var (
	ErrUserNotFound  = errors.New("user not found")
	ErrNicknameTaken = errors.New("nickname already taken")
)

const pqUniqueViolation = "23505"

// UserWriteRepository handles all state-mutating operations for users.
// It operates exclusively against the PostgreSQL write store (source of truth).
type UserWriteRepository struct {
	db *sql.DB
}

func NewUserWriteRepository(db *sql.DB) *UserWriteRepository {
	return &UserWriteRepository{db: db}
}

// Create inserts a new user inside an explicit transaction. A failure at any
// point rolls the transaction back, leaving no partial row behind.
func (r *UserWriteRepository) Create(ctx context.Context, user *models.User) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO users (id, is_admin, name, nickname, password_hash, penalty_point, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = tx.ExecContext(ctx, query,
		user.ID, user.IsAdmin, user.Name, user.Nickname,
		user.PasswordHash, user.PenaltyPoint, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return ErrNicknameTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetByID fetches the full write model (including PasswordHash) for internal use.
func (r *UserWriteRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getOne(ctx, `WHERE id = $1`, id)
}

// GetByNickname fetches the write model for credential checks at login.
func (r *UserWriteRepository) GetByNickname(ctx context.Context, nickname string) (*models.User, error) {
	return r.getOne(ctx, `WHERE nickname = $1`, nickname)
}

func (r *UserWriteRepository) getOne(ctx context.Context, where string, arg any) (*models.User, error) {
	query := `
		SELECT id, is_admin, name, nickname, password_hash, penalty_point, created_at, updated_at
		FROM users
	` + where

	var user models.User
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.IsAdmin, &user.Name, &user.Nickname,
		&user.PasswordHash, &user.PenaltyPoint, &user.CreatedAt, &user.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// Update merges the non-nil fields of params into the row and persists the
// result. The load and the write happen in one transaction with the row
// locked, so a concurrent update cannot interleave between them.
func (r *UserWriteRepository) Update(ctx context.Context, id string, params models.UpdateUserParams) (*models.User, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var user models.User
	err = tx.QueryRowContext(ctx, `
		SELECT id, is_admin, name, nickname, password_hash, penalty_point, created_at, updated_at
		FROM users
		WHERE id = $1
		FOR UPDATE
	`, id).Scan(
		&user.ID, &user.IsAdmin, &user.Name, &user.Nickname,
		&user.PasswordHash, &user.PenaltyPoint, &user.CreatedAt, &user.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if params.IsAdmin != nil {
		user.IsAdmin = *params.IsAdmin
	}
	if params.Name != nil {
		user.Name = *params.Name
	}
	if params.Nickname != nil {
		user.Nickname = *params.Nickname
	}
	if params.Password != nil {
		// Hashed by the service layer before it gets here.
		user.PasswordHash = *params.Password
	}
	if params.PenaltyPoint != nil {
		user.PenaltyPoint = *params.PenaltyPoint
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE users
		SET is_admin = $2, name = $3, nickname = $4, password_hash = $5, penalty_point = $6, updated_at = NOW()
		WHERE id = $1
	`, user.ID, user.IsAdmin, user.Name, user.Nickname, user.PasswordHash, user.PenaltyPoint)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return nil, ErrNicknameTaken
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return &user, nil
}

// Delete removes the row permanently. Deleting a user that is already gone
// reports ErrUserNotFound rather than succeeding silently.
func (r *UserWriteRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return ErrUserNotFound
	}
	return nil
}
