package service

import (
	"context"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"inspirehub/internal/auth/repository"
	"inspirehub/internal/auth/token"
	"inspirehub/pkg/config"
	apperrors "inspirehub/pkg/errors"
	"inspirehub/pkg/logger"
	"inspirehub/pkg/model"
)

type mockUserRepository struct {
	users map[string]*model.User // keyed by email
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	if _, exists := m.users[user.Email]; exists {
		return repository.ErrDuplicateEmail
	}
	user.ID = "65f000000000000000000010"
	m.users[user.Email] = user
	return nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if u, ok := m.users[email]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func newAuthService(t *testing.T, repo repository.UserRepository) AuthService {
	t.Helper()
	tokens, err := token.NewManager([]byte("test-secret"), time.Hour, 5*time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	cfg := &config.Config{
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.JSON,
			Service: "test",
		}),
	}
	return NewAuthService(repo, tokens, cfg)
}

func seedUser(t *testing.T, repo *mockUserRepository, email, password string) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	user := &model.User{
		ID:           "65f000000000000000000010",
		Email:        email,
		Name:         "Admin User",
		PasswordHash: string(hash),
		Role:         "admin",
	}
	repo.users[email] = user
	return user
}

func TestRegister(t *testing.T) {
	repo := &mockUserRepository{users: map[string]*model.User{}}
	svc := newAuthService(t, repo)

	user, err := svc.Register(context.Background(), &model.RegisterRequest{
		Email:    "Admin@Example.COM",
		Name:     "  Admin User  ",
		Password: "s3cret-password",
		Role:     "admin",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if user.Email != "admin@example.com" {
		t.Errorf("email should be normalized, got %q", user.Email)
	}
	if user.Name != "Admin User" {
		t.Errorf("name should be trimmed, got %q", user.Name)
	}
	if user.PasswordHash == "s3cret-password" || user.PasswordHash == "" {
		t.Error("password must be stored hashed")
	}

	// Duplicate registration conflicts.
	_, err = svc.Register(context.Background(), &model.RegisterRequest{
		Email:    "admin@example.com",
		Name:     "Other",
		Password: "another-password",
		Role:     "staff",
	})
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeConflict {
		t.Errorf("expected conflict for duplicate email, got %v", err)
	}
}

func TestRegister_Validation(t *testing.T) {
	svc := newAuthService(t, &mockUserRepository{users: map[string]*model.User{}})

	tests := []struct {
		name string
		req  *model.RegisterRequest
	}{
		{"bad email", &model.RegisterRequest{Email: "nope", Name: "Someone", Password: "long-enough-pw", Role: "admin"}},
		{"short password", &model.RegisterRequest{Email: "a@b.co", Name: "Someone", Password: "short", Role: "admin"}},
		{"bad role", &model.RegisterRequest{Email: "a@b.co", Name: "Someone", Password: "long-enough-pw", Role: "owner"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Register(context.Background(), tt.req); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLogin(t *testing.T) {
	repo := &mockUserRepository{users: map[string]*model.User{}}
	seedUser(t, repo, "admin@example.com", "correct-password")
	svc := newAuthService(t, repo)

	session, err := svc.Login(context.Background(), &model.Credentials{
		Email:    "admin@example.com",
		Password: "correct-password",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.Token == "" {
		t.Error("expected a session token")
	}
	if session.User.Email != "admin@example.com" {
		t.Errorf("unexpected user in session: %+v", session.User)
	}
}

func TestLogin_WrongPasswordAndUnknownUserLookAlike(t *testing.T) {
	repo := &mockUserRepository{users: map[string]*model.User{}}
	seedUser(t, repo, "admin@example.com", "correct-password")
	svc := newAuthService(t, repo)

	_, errWrongPw := svc.Login(context.Background(), &model.Credentials{
		Email:    "admin@example.com",
		Password: "wrong-password",
	})
	_, errNoUser := svc.Login(context.Background(), &model.Credentials{
		Email:    "ghost@example.com",
		Password: "whatever-password",
	})

	for _, err := range []error{errWrongPw, errNoUser} {
		appErr := apperrors.AsAppError(err)
		if appErr == nil || appErr.Code != apperrors.CodeInvalidCredentials {
			t.Errorf("expected invalid credentials, got %v", err)
		}
	}
	if errWrongPw.Error() != errNoUser.Error() {
		t.Error("wrong password and unknown user must be indistinguishable")
	}
}

func TestReauthenticate(t *testing.T) {
	repo := &mockUserRepository{users: map[string]*model.User{}}
	user := seedUser(t, repo, "admin@example.com", "correct-password")
	svc := newAuthService(t, repo)

	reauthToken, err := svc.Reauthenticate(context.Background(), user.ID, &model.ReauthRequest{
		Password: "correct-password",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reauthToken == "" {
		t.Fatal("expected a reauth token")
	}

	if _, err := svc.Reauthenticate(context.Background(), user.ID, &model.ReauthRequest{
		Password: "wrong-password",
	}); err == nil {
		t.Error("wrong password must abort re-authentication")
	}

	if _, err := svc.Reauthenticate(context.Background(), "", &model.ReauthRequest{
		Password: "correct-password",
	}); err == nil {
		t.Error("missing user must abort re-authentication")
	}
}
