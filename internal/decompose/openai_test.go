package decompose

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"taskease/internal/domain"
)

func openAIBody(content string) string {
	raw, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{{"message": map[string]string{"content": content}}},
	})
	return string(raw)
}

func TestOpenAIGatewayDecompose(t *testing.T) {
	var captured openAIChatRequest
	gw, err := NewOpenAIGateway(OpenAIOptions{
		APIKey: "sk-test",
		HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			if r.Header.Get("Authorization") != "Bearer sk-test" {
				t.Errorf("missing bearer token")
			}
			if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			body, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(body, &captured)
			return jsonResponse(http.StatusOK, openAIBody(`{"subtasks":[{"title":"Outline","estimatedTime":20}]}`)), nil
		})},
	})
	if err != nil {
		t.Fatalf("NewOpenAIGateway: %v", err)
	}
	res, err := gw.Decompose(context.Background(), Request{
		Title:       "Plan launch",
		Description: "Product launch in May",
		Existing:    []domain.SubTaskDraft{{Title: "Pick a date", EstimatedTime: 5}},
		Locale:      "tr-TR",
	})
	if err != nil {
		t.Fatalf("Decompose: %v", err)
	}
	if res.Provider != openAIProviderName || len(res.SubTasks) != 1 || res.SubTasks[0].Title != "Outline" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if captured.ResponseFormat == nil || captured.ResponseFormat.Type != "json_object" {
		t.Fatal("expected json_object response format")
	}
	user := captured.Messages[len(captured.Messages)-1].Content
	for _, want := range []string{"Plan launch", "Pick a date", "Do not repeat", "Turkish"} {
		if !strings.Contains(user, want) {
			t.Fatalf("prompt missing %q: %s", want, user)
		}
	}
}

func TestOpenAIGatewayFailuresAreDecompositionErrors(t *testing.T) {
	cases := []struct {
		name   string
		rt     roundTripFunc
		reason string
	}{
		{
			name:   "transport",
			rt:     func(*http.Request) (*http.Response, error) { return nil, errors.New("boom") },
			reason: "http_request",
		},
		{
			name:   "status",
			rt:     func(*http.Request) (*http.Response, error) { return jsonResponse(http.StatusBadGateway, `{}`), nil },
			reason: "http_502",
		},
		{
			name: "invalid_json",
			rt: func(*http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusOK, openAIBody("not json")), nil
			},
			reason: "parse_payload",
		},
		{
			name: "non_array",
			rt: func(*http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusOK, openAIBody(`{"subtasks":{}}`)), nil
			},
			reason: "parse_payload",
		},
		{
			name:   "no_choices",
			rt:     func(*http.Request) (*http.Response, error) { return jsonResponse(http.StatusOK, `{"choices":[]}`), nil },
			reason: "empty_choices",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var reported string
			gw, err := NewOpenAIGateway(OpenAIOptions{
				APIKey:     "sk-test",
				HTTPClient: &http.Client{Transport: tc.rt},
				OnFallback: func(reason string, err error) { reported = reason },
			})
			if err != nil {
				t.Fatalf("NewOpenAIGateway: %v", err)
			}
			_, err = gw.Decompose(context.Background(), Request{Title: "t", Description: "d"})
			var dErr *domain.DecompositionError
			if !errors.As(err, &dErr) {
				t.Fatalf("expected DecompositionError, got %v", err)
			}
			if dErr.Reason != tc.reason || reported != tc.reason {
				t.Fatalf("reason = %q (reported %q), want %q", dErr.Reason, reported, tc.reason)
			}
		})
	}
}

func TestOpenAIGatewayTimeout(t *testing.T) {
	gw, _ := NewOpenAIGateway(OpenAIOptions{
		APIKey:  "sk-test",
		Timeout: 20 * time.Millisecond,
		HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			<-r.Context().Done()
			return nil, r.Context().Err()
		})},
	})
	_, err := gw.Decompose(context.Background(), Request{Title: "t", Description: "d"})
	var dErr *domain.DecompositionError
	if !errors.As(err, &dErr) || dErr.Reason != "timeout" {
		t.Fatalf("expected timeout DecompositionError, got %v", err)
	}
}

func TestOpenAIGatewayStaticFallback(t *testing.T) {
	gw, _ := NewOpenAIGateway(OpenAIOptions{
		APIKey:   "sk-test",
		Fallback: NewStaticGateway(),
		HTTPClient: &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
			return nil, errors.New("boom")
		})},
	})
	res, err := gw.Decompose(context.Background(), Request{Title: "spring cleaning", Description: "d"})
	if err != nil {
		t.Fatalf("Decompose: %v", err)
	}
	if res.Provider != staticProviderName || res.FallbackReason != "http_request" {
		t.Fatalf("unexpected fallback result: %+v", res)
	}
	if !strings.Contains(res.SubTasks[0].Title, "Spring Cleaning") {
		t.Fatalf("expected title-cased subject, got %q", res.SubTasks[0].Title)
	}
}

func TestNormalizeOpenAIModel(t *testing.T) {
	cases := []struct {
		input, model, reason string
	}{
		{"gpt-4o-mini", "gpt-4o-mini", ""},
		{"", "gpt-4o-mini", ""},
		{"GPT 4o", "gpt-4o", ""},
		{"gpt4omini", "gpt-4o-mini", "alias"},
		{"davinci", "gpt-4o-mini", "defaulted"},
	}
	for _, tc := range cases {
		model, reason := normalizeOpenAIModel(tc.input)
		if model != tc.model || reason != tc.reason {
			t.Fatalf("normalizeOpenAIModel(%q) = %q, %q; want %q, %q", tc.input, model, reason, tc.model, tc.reason)
		}
	}
}

func TestNewOpenAIGatewayRequiresKey(t *testing.T) {
	if _, err := NewOpenAIGateway(OpenAIOptions{APIKey: "  "}); err == nil {
		t.Fatal("expected error for missing api key")
	}
}
