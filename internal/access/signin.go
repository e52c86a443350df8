package access

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"taskease/internal/domain"
	"taskease/internal/infra/google"
	"taskease/internal/ledger"
)

// IdentityVerifier validates an external ID token.
type IdentityVerifier interface {
	VerifyIDToken(ctx context.Context, token string) (*google.Identity, error)
}

// SignInResult is returned to the client after a successful Google sign-in.
type SignInResult struct {
	Token     string               `json:"token"`
	ExpiresAt time.Time            `json:"expiresAt"`
	User      Profile              `json:"user"`
	Credits   *domain.CreditRecord `json:"credits"`
}

// Profile is the public view of the signed-in user.
type Profile struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
	Locale  string `json:"locale,omitempty"`
	IsAdmin bool   `json:"isAdmin"`
}

// Authenticator exchanges a Google ID token for a session and initializes the
// caller's ledger record on first sign-in.
type Authenticator struct {
	verifier IdentityVerifier
	issuer   *Issuer
	ledger   *ledger.Service
	gate     *Gate
	logger   zerolog.Logger
}

func NewAuthenticator(verifier IdentityVerifier, issuer *Issuer, l *ledger.Service, gate *Gate, logger zerolog.Logger) *Authenticator {
	return &Authenticator{verifier: verifier, issuer: issuer, ledger: l, gate: gate, logger: logger}
}

func (a *Authenticator) SignInWithGoogle(ctx context.Context, idToken, locale string) (*SignInResult, error) {
	idToken = strings.TrimSpace(idToken)
	if idToken == "" {
		return nil, domain.Invalid("id_token", "id_token is required")
	}
	ident, err := a.verifier.VerifyIDToken(ctx, idToken)
	if err != nil {
		a.logger.Warn().Err(err).Msg("google token rejected")
		return nil, &domain.AuthError{Code: domain.AuthInvalidGoogle, Err: err}
	}
	if ident.Email != "" && !ident.EmailVerified {
		return nil, &domain.AuthError{Code: domain.AuthEmailNotVerified}
	}
	if ident.Locale != "" {
		locale = ident.Locale
	}
	rec, err := a.ledger.Initialize(ctx, ident.Subject, ident.Email)
	if err != nil {
		return nil, err
	}
	isAdmin, err := a.gate.IsAdmin(ctx, ident.Email)
	if err != nil {
		return nil, err
	}
	token, exp, err := a.issuer.Issue(Session{UserID: ident.Subject, Email: strings.ToLower(ident.Email), Locale: locale})
	if err != nil {
		return nil, err
	}
	a.logger.Info().Str("user_id", ident.Subject).Bool("admin", isAdmin).Msg("session issued")
	return &SignInResult{
		Token:     token,
		ExpiresAt: exp,
		Credits:   rec,
		User: Profile{
			ID:      ident.Subject,
			Email:   strings.ToLower(ident.Email),
			Name:    ident.Name,
			Picture: ident.Picture,
			Locale:  locale,
			IsAdmin: isAdmin,
		},
	}, nil
}
