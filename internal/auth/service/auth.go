package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"inspirehub/internal/auth/repository"
	"inspirehub/internal/auth/token"
	"inspirehub/pkg/config"
	apperrors "inspirehub/pkg/errors"
	"inspirehub/pkg/model"
	"inspirehub/pkg/sanitizer"
)

type Session struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

type AuthService interface {
	Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error)
	Login(ctx context.Context, creds *model.Credentials) (*Session, error)
	Reauthenticate(ctx context.Context, userID string, req *model.ReauthRequest) (string, error)
}

type authService struct {
	repo     repository.UserRepository
	tokens   *token.Manager
	validate *validator.Validate
	cfg      *config.Config
}

func NewAuthService(repo repository.UserRepository, tokens *token.Manager, cfg *config.Config) AuthService {
	return &authService{
		repo:     repo,
		tokens:   tokens,
		validate: validator.New(),
		cfg:      cfg,
	}
}

func (s *authService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	req.Email = sanitizer.NormalizeEmail(req.Email)
	req.Name = sanitizer.TrimAndNormalize(req.Name)

	if err := s.validate.Struct(req); err != nil {
		s.cfg.Log.Warn("Registration validation failed", "error", err)
		return nil, apperrors.Validation("Invalid registration input", map[string]any{"error": err.Error()})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Internal("Failed to hash password", err)
	}

	user := &model.User{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: string(hash),
		Role:         req.Role,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperrors.Conflict("Email is already registered")
		}
		s.cfg.Log.Error("Failed to create user", "error", err)
		return nil, apperrors.Internal("Failed to create user", err)
	}

	s.cfg.Log.Info("User registered", "id", user.ID, "role", user.Role)
	return user, nil
}

// Login verifies the password and issues a session token. A missing user and
// a wrong password are deliberately indistinguishable to the caller.
func (s *authService) Login(ctx context.Context, creds *model.Credentials) (*Session, error) {
	creds.Email = sanitizer.NormalizeEmail(creds.Email)

	if err := s.validate.Struct(creds); err != nil {
		return nil, apperrors.Validation("Invalid credentials input", map[string]any{"error": err.Error()})
	}

	user, err := s.repo.FindByEmail(ctx, creds.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.InvalidCredentials()
		}
		s.cfg.Log.Error("Failed to look up user", "error", err)
		return nil, apperrors.Internal("Failed to look up user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		s.cfg.Log.Warn("Failed login attempt", "email", creds.Email)
		return nil, apperrors.InvalidCredentials()
	}

	sessionToken, err := s.tokens.IssueSession(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, apperrors.Internal("Failed to issue session token", err)
	}

	s.cfg.Log.Info("User logged in", "id", user.ID)
	return &Session{Token: sessionToken, User: user}, nil
}

// Reauthenticate re-proves the caller's password and issues a short-lived
// reauth token that destructive endpoints demand. Failure leaves no state
// change anywhere.
func (s *authService) Reauthenticate(ctx context.Context, userID string, req *model.ReauthRequest) (string, error) {
	if userID == "" {
		return "", apperrors.Unauthorized("Missing authenticated user")
	}
	if err := s.validate.Struct(req); err != nil {
		return "", apperrors.Validation("Invalid re-authentication input", map[string]any{"error": err.Error()})
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrInvalidID) {
			return "", apperrors.SessionExpired()
		}
		return "", apperrors.Internal("Failed to look up user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.cfg.Log.Warn("Failed re-authentication attempt", "id", userID)
		return "", apperrors.InvalidCredentials()
	}

	reauthToken, err := s.tokens.IssueReauth(user.ID, user.Email, user.Role)
	if err != nil {
		return "", apperrors.Internal("Failed to issue re-authentication token", err)
	}

	s.cfg.Log.Info("User re-authenticated", "id", userID)
	return reauthToken, nil
}
