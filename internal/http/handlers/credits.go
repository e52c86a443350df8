package handlers

import (
	"net/http"
	"strings"
	"time"

	"taskease/internal/domain"
)

type consentRequest struct {
	Kind    domain.ConsentKind `json:"kind"`
	Granted bool               `json:"granted"`
}

func (a *App) Credits(w http.ResponseWriter, r *http.Request) {
	session := a.currentSession(r)
	rec, err := a.Ledger.GetOrInitialize(r.Context(), session.UserID, session.Email)
	if err != nil {
		a.errorFrom(w, r, err, "failed to load credits")
		return
	}
	a.json(w, http.StatusOK, rec)
}

func (a *App) ClaimPromo(w http.ResponseWriter, r *http.Request) {
	session := a.currentSession(r)
	if _, err := a.Ledger.GetOrInitialize(r.Context(), session.UserID, session.Email); err != nil {
		a.errorFrom(w, r, err, "failed to load credits")
		return
	}
	rec, err := a.Ledger.ClaimPromo(r.Context(), session.UserID)
	if err != nil {
		a.errorFrom(w, r, err, "failed to claim promotion")
		return
	}
	a.json(w, http.StatusOK, rec)
}

func (a *App) RecordConsent(w http.ResponseWriter, r *http.Request) {
	var req consentRequest
	if !a.decode(w, r, &req) {
		return
	}
	kind := domain.ConsentKind(strings.ToLower(strings.TrimSpace(string(req.Kind))))
	if kind != domain.ConsentMarketing && kind != domain.ConsentBeta {
		a.error(w, http.StatusBadRequest, "bad_request", "kind must be marketing or beta")
		return
	}
	err := a.Consents.Record(r.Context(), domain.Consent{
		UserID:    a.currentUserID(r),
		Kind:      kind,
		Granted:   req.Granted,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		a.errorFrom(w, r, err, "failed to record consent")
		return
	}
	a.json(w, http.StatusCreated, map[string]any{"kind": kind, "granted": req.Granted})
}

// DeleteAccount removes the caller's tasks and ledger record.
func (a *App) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if err := a.Tasks.DeleteAll(r.Context(), userID); err != nil {
		a.errorFrom(w, r, err, "failed to delete tasks")
		return
	}
	if err := a.Ledger.Delete(r.Context(), userID); err != nil {
		a.errorFrom(w, r, err, "failed to delete credits")
		return
	}
	a.Logger.Info().Str("user_id", userID).Msg("account deleted")
	w.WriteHeader(http.StatusNoContent)
}
