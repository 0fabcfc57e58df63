package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kimmingyu9411/library-take-out/internal/middleware"
	"github.com/kimmingyu9411/library-take-out/internal/models"
	"github.com/kimmingyu9411/library-take-out/internal/repository"
	"github.com/kimmingyu9411/library-take-out/internal/service"
)

// The flow tests run the real services and middleware over an in-memory
// store, exercising the whole request path short of PostgreSQL and Redis.

type memoryStore struct {
	users map[string]*models.User
}

func newMemoryStore() *memoryStore {
	return &memoryStore{users: make(map[string]*models.User)}
}

func (s *memoryStore) Create(_ context.Context, user *models.User) error {
	for _, existing := range s.users {
		if existing.Nickname == user.Nickname {
			return repository.ErrNicknameTaken
		}
	}
	clone := *user
	s.users[user.ID] = &clone
	return nil
}

func (s *memoryStore) GetByID(_ context.Context, id string) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (s *memoryStore) GetByNickname(_ context.Context, nickname string) (*models.User, error) {
	for _, user := range s.users {
		if user.Nickname == nickname {
			clone := *user
			return &clone, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (s *memoryStore) Update(_ context.Context, id string, params models.UpdateUserParams) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
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
		user.PasswordHash = *params.Password
	}
	if params.PenaltyPoint != nil {
		user.PenaltyPoint = *params.PenaltyPoint
	}
	clone := *user
	return &clone, nil
}

func (s *memoryStore) Delete(_ context.Context, id string) error {
	if _, ok := s.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(s.users, id)
	return nil
}

type memoryViews struct {
	store *memoryStore
}

func (v *memoryViews) GetByID(ctx context.Context, id string) (*models.UserView, error) {
	user, err := v.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return user.ToView(), nil
}

func (v *memoryViews) CacheUserView(context.Context, *models.UserView) {}
func (v *memoryViews) InvalidateUserView(context.Context, string)     {}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, string, string, any) error { return nil }

const flowTestSecret = "flow-test-secret"

func newFlowRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	store := newMemoryStore()
	views := &memoryViews{store: store}
	accountSvc := service.NewAccountService(store, views, noopPublisher{})
	authSvc := service.NewAuthService(store, flowTestSecret)

	userHandler := NewUserHandler(accountSvc, accountSvc)
	authHandler := NewAuthHandler(authSvc)

	r := gin.New()
	r.POST("/signup", userHandler.Signup)
	r.POST("/login", authHandler.Login)
	r.POST("/logout", authHandler.Logout)
	authed := r.Group("/", middleware.AuthMiddleware(flowTestSecret))
	{
		authed.GET("/profile", userHandler.GetProfile)
		authed.PATCH("/user", userHandler.UpdateUser)
		authed.DELETE("/user", userHandler.DeleteUser)
	}
	return r
}

func flowRequest(router *gin.Engine, method, url, token string, body interface{}) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, url, nil)
	if body != nil {
		b, _ := json.Marshal(body)
		req, _ = http.NewRequest(method, url, strings.NewReader(string(b)))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: middleware.AuthCookieName, Value: token})
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAccountLifecycle(t *testing.T) {
	router := newFlowRouter()

	// Signup.
	w := flowRequest(router, http.MethodPost, "/signup", "", map[string]interface{}{
		"name": "Alice Kim", "nickname": "alice", "password": "securepass123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("signup: expected 200, got %d; body: %s", w.Code, w.Body.String())
	}

	// Login with the right password.
	w = flowRequest(router, http.MethodPost, "/login", "", map[string]string{
		"nickname": "alice", "password": "securepass123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d; body: %s", w.Code, w.Body.String())
	}
	var loginResp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &loginResp); err != nil || loginResp.Token == "" {
		t.Fatalf("login returned no token: %s", w.Body.String())
	}
	token := loginResp.Token

	// Profile returns the signup data.
	w = flowRequest(router, http.MethodGet, "/profile", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("profile: expected 200, got %d; body: %s", w.Code, w.Body.String())
	}
	var profileResp struct {
		User models.UserView `json:"user"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &profileResp); err != nil {
		t.Fatalf("profile: bad body: %s", w.Body.String())
	}
	if profileResp.User.Nickname != "alice" || profileResp.User.Name != "Alice Kim" {
		t.Errorf("profile = %+v, want signup data", profileResp.User)
	}
	if profileResp.User.PenaltyPoint != 0 {
		t.Errorf("penalty point = %d, want 0", profileResp.User.PenaltyPoint)
	}

	// Update the display name.
	w = flowRequest(router, http.MethodPatch, "/user", token, map[string]string{"name": "Alice Park"})
	if w.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d; body: %s", w.Code, w.Body.String())
	}

	// Delete the account.
	w = flowRequest(router, http.MethodDelete, "/user", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d; body: %s", w.Code, w.Body.String())
	}

	// Profile after delete is gone; the token is still valid but the row is not.
	w = flowRequest(router, http.MethodGet, "/profile", token, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("profile after delete: expected 404, got %d; body: %s", w.Code, w.Body.String())
	}

	// Deleting again reports not-found rather than succeeding.
	w = flowRequest(router, http.MethodDelete, "/user", token, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("second delete: expected 404, got %d; body: %s", w.Code, w.Body.String())
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	router := newFlowRouter()

	w := flowRequest(router, http.MethodPost, "/signup", "", map[string]interface{}{
		"name": "Alice Kim", "nickname": "alice", "password": "securepass123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("signup failed: %d", w.Code)
	}

	w = flowRequest(router, http.MethodPost, "/login", "", map[string]string{
		"nickname": "alice", "password": "wrongpassword",
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("wrong password: expected 401, got %d", w.Code)
	}

	w = flowRequest(router, http.MethodPost, "/login", "", map[string]string{
		"nickname": "nobody", "password": "securepass123",
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("unknown nickname: expected 401, got %d", w.Code)
	}
}

func TestDuplicateNicknameSignup(t *testing.T) {
	router := newFlowRouter()

	body := map[string]interface{}{"name": "Alice Kim", "nickname": "alice", "password": "securepass123"}
	if w := flowRequest(router, http.MethodPost, "/signup", "", body); w.Code != http.StatusOK {
		t.Fatalf("first signup failed: %d", w.Code)
	}
	if w := flowRequest(router, http.MethodPost, "/signup", "", body); w.Code != http.StatusConflict {
		t.Errorf("duplicate signup: expected 409, got %d", w.Code)
	}
}
