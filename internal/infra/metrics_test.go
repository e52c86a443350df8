package infra

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

func TestMetricsNilIsNoop(t *testing.T) {
	t.Parallel()
	var m *Metrics
	m.CreditOp("deduct", "ok")
	m.Payment("sign", "error")
	m.ObserveDecomposition("openai", "ok", time.Second)
	if m.Registry() != nil {
		t.Fatal("nil metrics must not expose a registry")
	}
}

func TestMetricsMiddlewareUsesRoutePattern(t *testing.T) {
	t.Parallel()
	m := NewMetrics()
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/api/tasks/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Handle("/metrics", m.Handler())

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/tasks/abc", nil))
	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rr.Code)
	}
	m.CreditOp("deduct", "ok")

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rr.Body.String()
	if !strings.Contains(body, `route="/api/tasks/{id}"`) {
		t.Fatalf("expected route pattern label in output:\n%s", body)
	}
	if !strings.Contains(body, `taskease_credit_operations_total{op="deduct",outcome="ok"} 1`) {
		t.Fatalf("expected credit counter in output:\n%s", body)
	}
}
