package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kimmingyu9411/library-take-out/internal/models"
	internalredis "github.com/kimmingyu9411/library-take-out/internal/redis"
)

const userViewKeyPrefix = "user:view:"

// UserReadRepository serves profile reads. Redis holds the projection; a miss
// falls back to PostgreSQL and warms the cache on the way out.
type UserReadRepository struct {
	db    *sql.DB
	cache *internalredis.ViewCache[models.UserView]
}

func NewUserReadRepository(db *sql.DB, redisClient *goredis.Client) *UserReadRepository {
	return &UserReadRepository{
		db:    db,
		cache: internalredis.NewViewCache[models.UserView](redisClient, 0),
	}
}

// GetByID returns the user projection, Redis first, then PostgreSQL.
func (r *UserReadRepository) GetByID(ctx context.Context, id string) (*models.UserView, error) {
	cacheKey := userViewKeyPrefix + id

	if view, ok := r.cache.Get(ctx, cacheKey); ok {
		return view, nil
	}

	query := `
		SELECT id, is_admin, name, nickname, penalty_point, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	var view models.UserView
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&view.ID, &view.IsAdmin, &view.Name, &view.Nickname,
		&view.PenaltyPoint, &view.CreatedAt, &view.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	r.CacheUserView(ctx, &view)
	return &view, nil
}

// CacheUserView stores or refreshes the projection for a user.
// Called by the service after every mutation.
func (r *UserReadRepository) CacheUserView(ctx context.Context, view *models.UserView) {
	r.cache.Set(ctx, userViewKeyPrefix+view.ID, view)
}

// InvalidateUserView drops the projection for a deleted user.
func (r *UserReadRepository) InvalidateUserView(ctx context.Context, userID string) {
	r.cache.Delete(ctx, userViewKeyPrefix+userID)
}
