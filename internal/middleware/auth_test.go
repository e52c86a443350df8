package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"taskease/internal/access"
	"taskease/internal/domain"
)

type stubChecker struct {
	admins map[string]bool
	err    error
}

func (s stubChecker) IsAdmin(_ context.Context, email string) (bool, error) {
	return s.admins[email], s.err
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorBody {
	t.Helper()
	var body ErrorBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}

func TestAuthenticate(t *testing.T) {
	issuer := access.NewIssuer("secret", time.Hour)
	token, _, err := issuer.Issue(access.Session{UserID: "u1", Email: "a@example.com", Locale: "tr"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	otherToken, _, _ := access.NewIssuer("other", time.Hour).Issue(access.Session{UserID: "u1"})

	var gotUser, gotLocale string
	h := Authenticate(issuer)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = UserIDFromContext(r.Context())
		gotLocale = LocaleFromContext(r.Context())
	}))

	tests := []struct {
		name     string
		header   string
		wantCode string
	}{
		{name: "missing header", wantCode: domain.AuthMissingToken},
		{name: "not bearer", header: "Basic abc", wantCode: domain.AuthMissingToken},
		{name: "wrong secret", header: "Bearer " + otherToken, wantCode: domain.AuthInvalidToken},
		{name: "garbage", header: "Bearer abc.def.ghi", wantCode: domain.AuthInvalidToken},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d", rec.Code)
			}
			body := decodeError(t, rec)
			if body.Error != tc.wantCode || body.Details == "" {
				t.Fatalf("body = %+v", body)
			}
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || gotUser != "u1" || gotLocale != "tr" {
		t.Fatalf("status=%d user=%q locale=%q", rec.Code, gotUser, gotLocale)
	}
}

func TestRequireAdmin(t *testing.T) {
	checker := stubChecker{admins: map[string]bool{"boss@example.com": true}}
	h := RequireAdmin(checker, zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	serve := func(s *access.Session) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if s != nil {
			req = req.WithContext(ContextWithSession(req.Context(), s))
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	if got := serve(&access.Session{UserID: "u1", Email: "boss@example.com"}); got != http.StatusNoContent {
		t.Fatalf("admin status = %d", got)
	}
	if got := serve(&access.Session{UserID: "u2", Email: "user@example.com"}); got != http.StatusForbidden {
		t.Fatalf("non-admin status = %d", got)
	}
	if got := serve(nil); got != http.StatusUnauthorized {
		t.Fatalf("anonymous status = %d", got)
	}

	failing := RequireAdmin(stubChecker{err: errors.New("db down")}, zerolog.Nop())(http.NotFoundHandler())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(ContextWithSession(req.Context(), &access.Session{UserID: "u1", Email: "x@example.com"}))
	rec := httptest.NewRecorder()
	failing.ServeHTTP(rec, req)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("lookup failure status = %d", rec.Code)
	}
}
