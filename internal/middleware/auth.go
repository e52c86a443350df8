package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"taskease/internal/access"
	"taskease/internal/domain"
)

// SessionParser turns a bearer token into a session.
type SessionParser interface {
	Parse(token string) (*access.Session, error)
}

// AdminChecker reports whether an email is on the admin allowlist.
type AdminChecker interface {
	IsAdmin(ctx context.Context, email string) (bool, error)
}

type sessionKey struct{}

// Authenticate rejects requests without a valid session token with 401 and
// an AuthError code.
func Authenticate(parser SessionParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				writeAuthError(w, &domain.AuthError{Code: domain.AuthMissingToken})
				return
			}
			session, err := parser.Parse(token)
			if err != nil {
				var aErr *domain.AuthError
				if !errors.As(err, &aErr) {
					aErr = &domain.AuthError{Code: domain.AuthInvalidToken, Err: err}
				}
				writeAuthError(w, aErr)
				return
			}
			ctx := ContextWithSession(r.Context(), session)
			if session.Locale != "" && r.Header.Get("X-Locale") == "" {
				ctx = context.WithValue(ctx, LocaleKey, session.Locale)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin must run after Authenticate. Non-admins get 403.
func RequireAdmin(checker AdminChecker, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, ok := SessionFromContext(r.Context())
			if !ok {
				writeAuthError(w, &domain.AuthError{Code: domain.AuthMissingToken})
				return
			}
			isAdmin, err := checker.IsAdmin(r.Context(), session.Email)
			if err != nil {
				logger.Error().Err(err).Str("user_id", session.UserID).Msg("admin check failed")
				writeError(w, http.StatusInternalServerError, "internal", "admin check failed")
				return
			}
			if !isAdmin {
				writeError(w, http.StatusForbidden, "forbidden", "admin access required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeAuthError(w http.ResponseWriter, err *domain.AuthError) {
	writeError(w, http.StatusUnauthorized, err.Code, err.Message())
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

func ContextWithSession(ctx context.Context, s *access.Session) context.Context {
	if s == nil || strings.TrimSpace(s.UserID) == "" {
		return ctx
	}
	return context.WithValue(ctx, sessionKey{}, s)
}

func SessionFromContext(ctx context.Context) (*access.Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(*access.Session)
	return s, ok && s != nil
}

func UserIDFromContext(ctx context.Context) string {
	if s, ok := SessionFromContext(ctx); ok {
		return s.UserID
	}
	return ""
}
