package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"taskease/internal/access"
	"taskease/internal/domain"
	"taskease/internal/infra"
	"taskease/internal/ledger"
	"taskease/internal/middleware"
	"taskease/internal/payment"
	"taskease/internal/planner"
	"taskease/internal/tasks"
)

const maxBodyBytes = 1 << 20

// App holds the services shared by every handler.
type App struct {
	Auth     *access.Authenticator
	Gate     *access.Gate
	Ledger   *ledger.Service
	Tasks    *tasks.Service
	Planner  *planner.Service
	Payments *payment.Service
	Consents domain.ConsentRepository
	Logger   zerolog.Logger
	Metrics  *infra.Metrics
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, details string) {
	a.json(w, code, middleware.ErrorBody{Error: errCode, Details: details})
}

// decode reads a JSON body into v. An empty body leaves v untouched.
func (a *App) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
	return false
}

func (a *App) currentUserID(r *http.Request) string {
	return middleware.UserIDFromContext(r.Context())
}

func (a *App) currentSession(r *http.Request) *access.Session {
	s, _ := middleware.SessionFromContext(r.Context())
	if s == nil {
		return &access.Session{}
	}
	return s
}

// errorFrom maps a domain error to its HTTP status and logs server-side
// failures with their cause.
func (a *App) errorFrom(w http.ResponseWriter, r *http.Request, err error, action string) {
	var (
		vErr   *domain.ValidationError
		aErr   *domain.AuthError
		dErr   *domain.DecompositionError
		sErr   *domain.SignatureError
		payErr *domain.PaymentError
	)
	log := middleware.LoggerFromContext(r.Context(), a.Logger)
	switch {
	case errors.As(err, &vErr):
		a.error(w, http.StatusBadRequest, "bad_request", vErr.Error())
	case errors.As(err, &aErr):
		a.error(w, http.StatusUnauthorized, aErr.Code, aErr.Message())
	case errors.Is(err, domain.ErrInsufficientCredits):
		a.error(w, http.StatusPaymentRequired, "insufficient_credits", "not enough credits, buy more or subscribe")
	case errors.Is(err, domain.ErrPromoClaimed):
		a.error(w, http.StatusConflict, "promo_claimed", "promotional credits were already claimed")
	case errors.Is(err, domain.ErrForbidden):
		a.error(w, http.StatusForbidden, "forbidden", "access denied")
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", "resource not found")
	case errors.As(err, &dErr):
		log.Error().Err(err).Msg(action)
		a.error(w, http.StatusBadGateway, "decomposition_failed", "could not generate subtasks, please try again")
	case errors.As(err, &sErr):
		log.Error().Err(err).Msg(action)
		a.error(w, http.StatusBadGateway, "signature_failed", "payment could not be prepared, please try again")
	case errors.As(err, &payErr):
		log.Error().Err(err).Str("stage", payErr.Stage).Msg(action)
		a.error(w, http.StatusBadGateway, "payment_failed", "payment could not be processed")
	default:
		log.Error().Err(err).Msg(action)
		a.error(w, http.StatusInternalServerError, "internal", action)
	}
}
