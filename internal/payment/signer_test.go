package payment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"taskease/internal/domain"
)

func TestHTTPSignerSign(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer key-1" {
			http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
			return
		}
		var req signRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"bad"}`, http.StatusBadRequest)
			return
		}
		if req.MerchantCode != "M-1" || req.Passphrase != "pass" || req.Params["orderId"] != "o-1" {
			http.Error(w, `{"error":"mismatch"}`, http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(signResponse{Signature: "sig-abc"})
	}))
	defer srv.Close()

	signer := NewHTTPSigner(HTTPSignerOptions{Endpoint: srv.URL, APIKey: "key-1", MerchantCode: "M-1", Passphrase: "pass"})
	sig, err := signer.Sign(context.Background(), map[string]string{"orderId": "o-1"})
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if sig != "sig-abc" {
		t.Fatalf("signature = %q", sig)
	}

	bad := NewHTTPSigner(HTTPSignerOptions{Endpoint: srv.URL, APIKey: "wrong", MerchantCode: "M-1"})
	_, err = bad.Sign(context.Background(), map[string]string{"orderId": "o-1"})
	var sErr *domain.SignatureError
	if !errors.As(err, &sErr) {
		t.Fatalf("expected SignatureError, got %v", err)
	}
}

func TestHTTPSignerRequiresCredentials(t *testing.T) {
	_, err := NewHTTPSigner(HTTPSignerOptions{Endpoint: "http://127.0.0.1:1"}).Sign(context.Background(), map[string]string{"a": "b"})
	var sErr *domain.SignatureError
	if !errors.As(err, &sErr) {
		t.Fatalf("expected SignatureError, got %v", err)
	}
}
