package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrForbidden           = errors.New("forbidden")
	ErrInsufficientCredits = errors.New("insufficient credits")
	ErrPromoClaimed        = errors.New("promotional credits already claimed")
	ErrOrderClosed         = errors.New("payment order already closed")
)

// ValidationError reports malformed or missing caller input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Invalid is a shorthand constructor for ValidationError.
func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// DecompositionError wraps any failure of the upstream model call or of the
// payload it returned.
type DecompositionError struct {
	Reason string
	Err    error
}

func (e *DecompositionError) Error() string {
	if e.Err == nil {
		return "decomposition failed: " + e.Reason
	}
	return fmt.Sprintf("decomposition failed: %s: %v", e.Reason, e.Err)
}

func (e *DecompositionError) Unwrap() error { return e.Err }

// SignatureError is returned when the gateway signing endpoint could not
// produce a signature.
type SignatureError struct {
	Err error
}

func (e *SignatureError) Error() string {
	return fmt.Sprintf("payment signature failed: %v", e.Err)
}

func (e *SignatureError) Unwrap() error { return e.Err }

// PaymentError covers every other payment failure, tagged with the stage of
// the checkout state machine where it happened.
type PaymentError struct {
	Stage string
	Err   error
}

func (e *PaymentError) Error() string {
	return fmt.Sprintf("payment %s failed: %v", e.Stage, e.Err)
}

func (e *PaymentError) Unwrap() error { return e.Err }

// Auth error codes understood by the client application.
const (
	AuthMissingToken     = "missing_token"
	AuthInvalidToken     = "invalid_token"
	AuthTokenExpired     = "token_expired"
	AuthInvalidGoogle    = "invalid_google_token"
	AuthAccountCollision = "account_exists_with_different_credential"
	AuthEmailNotVerified = "email_not_verified"
	authFallbackMessage  = "Authentication failed. Please sign in again."
)

var authMessages = map[string]string{
	AuthMissingToken:     "Please sign in to continue.",
	AuthInvalidToken:     "Your session is invalid. Please sign in again.",
	AuthTokenExpired:     "Your session has expired. Please sign in again.",
	AuthInvalidGoogle:    "Google sign-in failed. Please try again.",
	AuthAccountCollision: "An account already exists with this email using a different sign-in method.",
	AuthEmailNotVerified: "Please verify your email address before signing in.",
}

// AuthError is a session or credential failure identified by a stable code.
type AuthError struct {
	Code string
	Err  error
}

func (e *AuthError) Error() string {
	if e.Err == nil {
		return "auth: " + e.Code
	}
	return fmt.Sprintf("auth: %s: %v", e.Code, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// Message returns the user-facing text for the error code.
func (e *AuthError) Message() string {
	if msg, ok := authMessages[e.Code]; ok {
		return msg
	}
	return authFallbackMessage
}
