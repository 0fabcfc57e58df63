package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/kimmingyu9411/library-take-out/internal/utils"
)

// ErrInvalidCredentials covers both an unknown nickname and a wrong password.
// Callers cannot tell the two apart, deliberately.
var ErrInvalidCredentials = errors.New("invalid credentials")

const tokenLifetime = 24 * time.Hour

// Claims is the JWT payload issued at login.
type Claims struct {
	UserID   string `json:"userId"`
	Nickname string `json:"nickname"`
	jwt.RegisteredClaims
}

// AuthService verifies credentials and issues the bearer tokens the
// Authorization cookie carries. It never mutates account state.
type AuthService struct {
	store  UserStore
	secret []byte
}

func NewAuthService(store UserStore, jwtSecret string) *AuthService {
	return &AuthService{store: store, secret: []byte(jwtSecret)}
}

// Login checks the nickname/password pair against the stored bcrypt hash and
// returns a signed token on success.
func (s *AuthService) Login(ctx context.Context, nickname, password string) (string, error) {
	user, err := s.store.GetByNickname(ctx, nickname)
	if err != nil {
		return "", ErrInvalidCredentials
	}
	if !utils.CheckPassword(password, user.PasswordHash) {
		return "", ErrInvalidCredentials
	}
	return s.generateToken(user.ID, user.Nickname)
}

// RefreshToken re-issues a fresh token for a still-valid one.
func (s *AuthService) RefreshToken(ctx context.Context, tokenString string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidCredentials
	}
	return s.generateToken(claims.UserID, claims.Nickname)
}

func (s *AuthService) generateToken(userID, nickname string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   userID,
		Nickname: nickname,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenLifetime)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return signed, nil
}
