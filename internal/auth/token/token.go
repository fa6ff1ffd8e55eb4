// Package token issues and verifies the two JWT flavors the platform uses:
// session tokens for routine calls and short-lived reauth tokens that prove a
// fresh password check before destructive operations.
package token

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cristalhq/jwt/v4"
)

const (
	PurposeSession = "session"
	PurposeReauth  = "reauth"
)

var (
	ErrTokenInvalid = errors.New("token is invalid")
	ErrTokenExpired = errors.New("token is expired")
	ErrWrongPurpose = errors.New("token purpose does not match")
)

type Claims struct {
	jwt.RegisteredClaims
	UserID  string `json:"uid"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	Purpose string `json:"purpose"`
}

type Manager struct {
	signer     *jwt.HSAlg
	verifier   *jwt.HSAlg
	sessionTTL time.Duration
	reauthTTL  time.Duration
}

func NewManager(secret []byte, sessionTTL, reauthTTL time.Duration) (*Manager, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("JWT secret cannot be empty")
	}

	signer, err := jwt.NewSignerHS(jwt.HS256, secret)
	if err != nil {
		return nil, fmt.Errorf("failed to create signer: %w", err)
	}
	verifier, err := jwt.NewVerifierHS(jwt.HS256, secret)
	if err != nil {
		return nil, fmt.Errorf("failed to create verifier: %w", err)
	}

	return &Manager{
		signer:     signer,
		verifier:   verifier,
		sessionTTL: sessionTTL,
		reauthTTL:  reauthTTL,
	}, nil
}

func (m *Manager) IssueSession(userID, email, role string) (string, error) {
	return m.issue(userID, email, role, PurposeSession, m.sessionTTL)
}

func (m *Manager) IssueReauth(userID, email, role string) (string, error) {
	return m.issue(userID, email, role, PurposeReauth, m.reauthTTL)
}

func (m *Manager) issue(userID, email, role, purpose string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID:  userID,
		Email:   email,
		Role:    role,
		Purpose: purpose,
	}

	token, err := jwt.NewBuilder(m.signer).Build(claims)
	if err != nil {
		return "", fmt.Errorf("failed to build token: %w", err)
	}
	return token.String(), nil
}

// VerifySession implements middleware.TokenVerifier.
func (m *Manager) VerifySession(token string) (string, error) {
	claims, err := m.parse(token)
	if err != nil {
		return "", err
	}
	if claims.Purpose != PurposeSession {
		return "", ErrWrongPurpose
	}
	return claims.UserID, nil
}

// VerifyReauth implements middleware.TokenVerifier. A session token is never
// accepted here: the reauth purpose is what proves a fresh password check.
func (m *Manager) VerifyReauth(token string) (string, error) {
	claims, err := m.parse(token)
	if err != nil {
		return "", err
	}
	if claims.Purpose != PurposeReauth {
		return "", ErrWrongPurpose
	}
	return claims.UserID, nil
}

func (m *Manager) parse(token string) (*Claims, error) {
	parsed, err := jwt.Parse([]byte(token), m.verifier)
	if err != nil {
		return nil, ErrTokenInvalid
	}

	var claims Claims
	if err := json.Unmarshal(parsed.Claims(), &claims); err != nil {
		return nil, ErrTokenInvalid
	}

	if !claims.IsValidAt(time.Now()) {
		return nil, ErrTokenExpired
	}

	return &claims, nil
}
