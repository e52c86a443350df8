// Package access covers who may call what: session tokens, Google sign-in
// and the admin allowlist.
package access

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"taskease/internal/domain"
)

const (
	sessionIssuer   = "taskease"
	sessionAudience = "taskease-web"
)

// Session is the authenticated caller carried in the request context.
type Session struct {
	UserID string
	Email  string
	Locale string
}

type sessionClaims struct {
	Email  string `json:"email"`
	Locale string `json:"locale,omitempty"`
	jwt.RegisteredClaims
}

// Issuer signs and parses HS256 session tokens.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue returns a signed token for s and its expiry.
func (i *Issuer) Issue(s Session) (string, time.Time, error) {
	now := i.now()
	exp := now.Add(i.ttl)
	claims := sessionClaims{
		Email:  s.Email,
		Locale: s.Locale,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.UserID,
			Issuer:    sessionIssuer,
			Audience:  jwt.ClaimStrings{sessionAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now.Add(-30 * time.Second)),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, exp, nil
}

// Parse validates token and returns its session. Failures are AuthErrors
// with AuthTokenExpired or AuthInvalidToken.
func (i *Issuer) Parse(token string) (*Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, &domain.AuthError{Code: domain.AuthMissingToken}
	}
	var claims sessionClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithAudience(sessionAudience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, &domain.AuthError{Code: domain.AuthTokenExpired, Err: err}
		}
		return nil, &domain.AuthError{Code: domain.AuthInvalidToken, Err: err}
	}
	if claims.Subject == "" {
		return nil, &domain.AuthError{Code: domain.AuthInvalidToken, Err: errors.New("token has no subject")}
	}
	return &Session{UserID: claims.Subject, Email: claims.Email, Locale: claims.Locale}, nil
}
