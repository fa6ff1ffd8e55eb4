package errors

import (
	"errors"
	"net/http"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(CodeValidation, "validation failed", http.StatusUnprocessableEntity)

	if err.Code != CodeValidation {
		t.Errorf("expected code %s, got %s", CodeValidation, err.Code)
	}
	if err.Message != "validation failed" {
		t.Errorf("expected message 'validation failed', got %s", err.Message)
	}
	if err.HTTPStatus != http.StatusUnprocessableEntity {
		t.Errorf("expected status %d, got %d", http.StatusUnprocessableEntity, err.HTTPStatus)
	}
}

func TestWrapUnwrap(t *testing.T) {
	originalErr := errors.New("connection refused")
	wrapped := Wrap(originalErr, CodeInternal, "store failure", http.StatusInternalServerError)

	if !errors.Is(wrapped, originalErr) {
		t.Error("expected wrapped error to unwrap to original error")
	}
}

func TestInvalidCredentialsDistinctFromSessionExpired(t *testing.T) {
	creds := InvalidCredentials()
	session := SessionExpired()

	if creds.Code == session.Code {
		t.Error("invalid credentials and expired session must have distinct codes")
	}
	if creds.HTTPStatus != http.StatusUnauthorized || session.HTTPStatus != http.StatusUnauthorized {
		t.Error("both re-authentication failures should map to 401")
	}
}

func TestAsAppError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{
			name:     "app error passes through",
			err:      Conflict("seat already occupied"),
			wantCode: CodeConflict,
		},
		{
			name:     "plain error becomes internal",
			err:      errors.New("boom"),
			wantCode: CodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AsAppError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("AsAppError() code = %s, want %s", got.Code, tt.wantCode)
			}
		})
	}
}
