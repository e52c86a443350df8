package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"taskease/internal/domain"
)

type userSummary struct {
	ID               string     `json:"id"`
	Email            string     `json:"email"`
	Credits          int        `json:"credits"`
	LastUpdated      time.Time  `json:"lastUpdated"`
	IsSubscribed     bool       `json:"isSubscribed"`
	SubscriptionEnds *time.Time `json:"subscriptionEnds,omitempty"`
}

type setCreditsRequest struct {
	Credits *int `json:"credits"`
}

type setSubscriptionRequest struct {
	Active *bool `json:"active"`
}

type promoteRequest struct {
	Email string `json:"email"`
}

// ListUsers returns ledger records, most recently updated first.
func (a *App) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit := 200
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			a.error(w, http.StatusBadRequest, "bad_request", "limit must be a positive integer")
			return
		}
		limit = n
	}
	records, err := a.Ledger.List(r.Context(), limit)
	if err != nil {
		a.errorFrom(w, r, err, "failed to list users")
		return
	}
	users := make([]userSummary, 0, len(records))
	for _, rec := range records {
		users = append(users, userSummary{
			ID:               rec.UserID,
			Email:            rec.Email,
			Credits:          rec.Credits,
			LastUpdated:      rec.LastUpdated,
			IsSubscribed:     rec.IsSubscribed,
			SubscriptionEnds: rec.SubscriptionEnds,
		})
	}
	a.json(w, http.StatusOK, map[string]any{"users": users})
}

func (a *App) AdminSetCredits(w http.ResponseWriter, r *http.Request) {
	var req setCreditsRequest
	if !a.decode(w, r, &req) {
		return
	}
	if req.Credits == nil {
		a.errorFrom(w, r, domain.Invalid("credits", "credits is required"), "")
		return
	}
	userID := chi.URLParam(r, "id")
	rec, err := a.Ledger.SetCredits(r.Context(), userID, *req.Credits)
	if err != nil {
		a.errorFrom(w, r, err, "failed to set credits")
		return
	}
	a.Logger.Info().Str("user_id", userID).Int("credits", rec.Credits).Str("by", a.currentSession(r).Email).Msg("credits set by admin")
	a.json(w, http.StatusOK, rec)
}

func (a *App) AdminSetSubscription(w http.ResponseWriter, r *http.Request) {
	var req setSubscriptionRequest
	if !a.decode(w, r, &req) {
		return
	}
	if req.Active == nil {
		a.errorFrom(w, r, domain.Invalid("active", "active is required"), "")
		return
	}
	userID := chi.URLParam(r, "id")
	rec, err := a.Ledger.SetSubscription(r.Context(), userID, *req.Active)
	if err != nil {
		a.errorFrom(w, r, err, "failed to update subscription")
		return
	}
	a.Logger.Info().Str("user_id", userID).Bool("active", *req.Active).Str("by", a.currentSession(r).Email).Msg("subscription set by admin")
	a.json(w, http.StatusOK, rec)
}

func (a *App) PromoteAdmin(w http.ResponseWriter, r *http.Request) {
	var req promoteRequest
	if !a.decode(w, r, &req) {
		return
	}
	if err := a.Gate.Promote(r.Context(), req.Email, a.currentSession(r).Email); err != nil {
		a.errorFrom(w, r, err, "failed to promote admin")
		return
	}
	admins, err := a.Gate.List(r.Context())
	if err != nil {
		a.errorFrom(w, r, err, "failed to list admins")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"admins": admins})
}
