package handlers

import (
	"context"
	"net/http"
	"time"

	"taskease/internal/domain"
	"taskease/internal/middleware"
)

type googleVerifyRequest struct {
	IDToken string `json:"id_token"`
}

type meResponse struct {
	ID      string               `json:"id"`
	Email   string               `json:"email"`
	Locale  string               `json:"locale"`
	IsAdmin bool                 `json:"isAdmin"`
	Credits *domain.CreditRecord `json:"credits"`
}

func (a *App) AuthGoogleVerify(w http.ResponseWriter, r *http.Request) {
	var req googleVerifyRequest
	if !a.decode(w, r, &req) {
		return
	}
	if req.IDToken == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "id_token required")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	res, err := a.Auth.SignInWithGoogle(ctx, req.IDToken, middleware.LocaleFromContext(r.Context()))
	if err != nil {
		a.errorFrom(w, r, err, "sign-in failed")
		return
	}
	a.json(w, http.StatusOK, res)
}

func (a *App) Me(w http.ResponseWriter, r *http.Request) {
	session := a.currentSession(r)
	if session.UserID == "" {
		a.error(w, http.StatusUnauthorized, domain.AuthMissingToken, "missing user context")
		return
	}
	rec, err := a.Ledger.GetOrInitialize(r.Context(), session.UserID, session.Email)
	if err != nil {
		a.errorFrom(w, r, err, "failed to load credits")
		return
	}
	isAdmin, err := a.Gate.IsAdmin(r.Context(), session.Email)
	if err != nil {
		a.errorFrom(w, r, err, "failed to load profile")
		return
	}
	a.json(w, http.StatusOK, meResponse{
		ID:      session.UserID,
		Email:   session.Email,
		Locale:  middleware.LocaleFromContext(r.Context()),
		IsAdmin: isAdmin,
		Credits: rec,
	})
}
