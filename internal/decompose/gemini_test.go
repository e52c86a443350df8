package decompose

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"taskease/internal/domain"
)

func TestGeminiGatewayDecompose(t *testing.T) {
	gw, err := NewGeminiGateway(GeminiOptions{
		APIKey: "g-key",
		Model:  "gemini-1.5-flash",
		HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			if r.Header.Get("x-goog-api-key") != "g-key" {
				t.Errorf("missing api key header")
			}
			if r.URL.Query().Get("key") != "" {
				t.Errorf("api key must not be sent in the query string")
			}
			if !strings.HasSuffix(r.URL.Path, "/models/gemini-1.5-flash:generateContent") {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			body := `{"candidates":[{"content":{"parts":[{"text":"{\"subtasks\":[{\"title\":\"Sketch\",\"estimatedTime\":\"25\"}]}"}]}}]}`
			return jsonResponse(http.StatusOK, body), nil
		})},
	})
	if err != nil {
		t.Fatalf("NewGeminiGateway: %v", err)
	}
	res, err := gw.Decompose(context.Background(), Request{Title: "Draw", Description: "A poster"})
	if err != nil {
		t.Fatalf("Decompose: %v", err)
	}
	if res.Provider != geminiProviderName || res.SubTasks[0].EstimatedTime != 25 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestGeminiGatewayEmptyCandidates(t *testing.T) {
	gw, _ := NewGeminiGateway(GeminiOptions{
		APIKey: "g-key",
		HTTPClient: &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, `{"candidates":[]}`), nil
		})},
	})
	_, err := gw.Decompose(context.Background(), Request{Title: "t", Description: "d"})
	var dErr *domain.DecompositionError
	if !errors.As(err, &dErr) || dErr.Reason != "empty_response" {
		t.Fatalf("expected empty_response DecompositionError, got %v", err)
	}
}

func TestLanguageName(t *testing.T) {
	cases := map[string]string{
		"":      "English",
		"tr":    "Turkish",
		"id-ID": "Indonesian",
		"??":    "English",
	}
	for in, want := range cases {
		if got := languageName(in); got != want {
			t.Fatalf("languageName(%q) = %q, want %q", in, got, want)
		}
	}
}
