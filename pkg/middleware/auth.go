package middleware

import (
	"context"
	"net/http"
	"strings"

	apperrors "inspirehub/pkg/errors"
	httputil "inspirehub/pkg/http"
	"inspirehub/pkg/logger"
)

const UserIDKey contextKey = "user_id"

const ReauthHeader = "X-Reauth-Token"

// TokenVerifier checks bearer tokens. Session tokens authenticate routine
// calls; reauth tokens are short-lived proofs of a fresh password check and
// gate destructive operations.
type TokenVerifier interface {
	VerifySession(token string) (userID string, err error)
	VerifyReauth(token string) (userID string, err error)
}

func UserIDFrom(ctx context.Context) string {
	if v := ctx.Value(UserIDKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

func Auth(verifier TokenVerifier, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				_ = httputil.WriteError(w, apperrors.Unauthorized("Missing bearer token"))
				return
			}

			userID, err := verifier.VerifySession(token)
			if err != nil {
				log.Warn("Session token rejected",
					"request_id", requestIDFrom(r),
					"path", r.URL.Path,
					"error", err,
				)
				_ = httputil.WriteError(w, apperrors.SessionExpired())
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireReauth aborts destructive calls unless the caller presents a fresh
// re-authentication token on top of the session token. No state changes when
// the check fails.
func RequireReauth(verifier TokenVerifier, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(ReauthHeader)
			if token == "" {
				_ = httputil.WriteError(w, apperrors.Forbidden("Re-authentication required for this operation"))
				return
			}

			sessionUser := UserIDFrom(r.Context())
			reauthUser, err := verifier.VerifyReauth(token)
			if err != nil || (sessionUser != "" && reauthUser != sessionUser) {
				log.Warn("Re-authentication token rejected",
					"request_id", requestIDFrom(r),
					"path", r.URL.Path,
					"error", err,
				)
				_ = httputil.WriteError(w, apperrors.SessionExpired())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
