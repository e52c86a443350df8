package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"taskease/internal/http/handlers"
	"taskease/internal/middleware"
)

// Options carries the cross-cutting settings the router needs besides the
// handlers.
type Options struct {
	Sessions       middleware.SessionParser
	Admins         middleware.AdminChecker
	AllowedOrigins []string
	RateLimit      int
	DefaultLocale  string
	CountryLookup  middleware.CountryLookup
	Logger         zerolog.Logger
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID(opts.Logger),
		chimw.RealIP,
		middleware.Logger(opts.Logger),
		chimw.Recoverer,
		app.Metrics.Middleware,
		middleware.CORS(opts.AllowedOrigins),
		middleware.I18N(opts.DefaultLocale, opts.CountryLookup),
	)

	r.Get("/health", app.Health)
	r.Method(http.MethodGet, "/metrics", app.MetricsHandler())
	r.Get("/openapi.json", app.OpenAPIJSON)
	r.Get("/docs", app.OpenAPIDocs)
	r.Get("/api/payments/plans", app.PaymentPlans)
	r.Post("/api/payments/callback", app.PaymentCallback)
	r.With(middleware.RateLimit(opts.RateLimit, time.Minute)).Post("/api/auth/google", app.AuthGoogleVerify)

	// Calls that reach the model or the payment gateway share a per-user limiter.
	costly := middleware.RateLimit(opts.RateLimit, time.Minute)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(opts.Sessions))

		r.Get("/api/me", app.Me)
		r.With(costly).Post("/api/generate-subtasks", app.GenerateSubtasks)

		r.Route("/api/tasks", func(r chi.Router) {
			r.Get("/", app.ListTasks)
			r.With(costly).Post("/", app.CreateTask)
			r.Patch("/{id}", app.UpdateTask)
			r.Delete("/{id}", app.DeleteTask)
			r.Post("/{id}/subtasks", app.AddSubTasks)
			r.Post("/{id}/subtasks/{subId}/toggle", app.ToggleSubTask)
		})

		r.Get("/api/credits", app.Credits)
		r.Post("/api/credits/promo", app.ClaimPromo)
		r.Post("/api/consents", app.RecordConsent)
		r.Delete("/api/account", app.DeleteAccount)

		r.With(costly).Post("/api/payments/checkout", app.Checkout)
		r.With(costly).Post("/payment-sign", app.PaymentSign)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(opts.Admins, opts.Logger))
			r.Get("/list-users", app.ListUsers)
			r.Put("/api/admin/users/{id}/credits", app.AdminSetCredits)
			r.Put("/api/admin/users/{id}/subscription", app.AdminSetSubscription)
			r.Post("/api/admin/admins", app.PromoteAdmin)
		})
	})

	return r
}
