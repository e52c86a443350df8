package google

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestAudienceMatches(t *testing.T) {
	cases := []struct {
		name     string
		aud      jwt.ClaimStrings
		clientID string
		want     bool
	}{
		{name: "single match", aud: jwt.ClaimStrings{"client"}, clientID: "client", want: true},
		{name: "single mismatch", aud: jwt.ClaimStrings{"client"}, clientID: "other", want: false},
		{name: "multi match", aud: jwt.ClaimStrings{"other", "client"}, clientID: "client", want: true},
		{name: "empty", aud: nil, clientID: "client", want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := audienceMatches(tc.aud, tc.clientID); got != tc.want {
				t.Fatalf("audienceMatches(%v, %q) = %v, want %v", tc.aud, tc.clientID, got, tc.want)
			}
		})
	}
}

func TestIssuerMatches(t *testing.T) {
	if !issuerMatches("accounts.google.com", "https://accounts.google.com") {
		t.Fatal("expected scheme-less issuer to match")
	}
	if issuerMatches("https://evil.example.com", "https://accounts.google.com") {
		t.Fatal("unexpected issuer match")
	}
}

func newIssuer(t *testing.T, key *rsa.PrivateKey) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	mux.HandleFunc("/.well-known/openid-configuration", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"jwks_uri": srv.URL + "/certs"})
	})
	mux.HandleFunc("/certs", func(w http.ResponseWriter, r *http.Request) {
		e := big.NewInt(int64(key.PublicKey.E)).Bytes()
		_ = json.NewEncoder(w).Encode(jwks{Keys: []jwk{{
			Kid: "k1",
			Kty: "RSA",
			Alg: "RS256",
			N:   base64.RawURLEncoding.EncodeToString(key.PublicKey.N.Bytes()),
			E:   base64.RawURLEncoding.EncodeToString(e),
		}}})
	})
	t.Cleanup(srv.Close)
	return srv
}

func signToken(t *testing.T, key *rsa.PrivateKey, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	tok.Header["kid"] = "k1"
	signed, err := tok.SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestVerifyIDToken(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	srv := newIssuer(t, key)
	verifier := NewVerifier(srv.URL, "client-123")

	token := signToken(t, key, jwt.MapClaims{
		"iss":            srv.URL,
		"aud":            "client-123",
		"sub":            "google-sub-1",
		"email":          "Ada@Example.com",
		"email_verified": true,
		"exp":            time.Now().Add(time.Hour).Unix(),
	})
	id, err := verifier.VerifyIDToken(context.Background(), token)
	if err != nil {
		t.Fatalf("VerifyIDToken returned error: %v", err)
	}
	if id.Subject != "google-sub-1" || id.Email != "ada@example.com" || !id.EmailVerified {
		t.Fatalf("unexpected identity: %+v", id)
	}

	wrongAud := signToken(t, key, jwt.MapClaims{
		"iss": srv.URL,
		"aud": "someone-else",
		"sub": "google-sub-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	if _, err := verifier.VerifyIDToken(context.Background(), wrongAud); err == nil {
		t.Fatal("expected audience mismatch to fail")
	}

	expired := signToken(t, key, jwt.MapClaims{
		"iss": srv.URL,
		"aud": "client-123",
		"sub": "google-sub-1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	if _, err := verifier.VerifyIDToken(context.Background(), expired); err == nil {
		t.Fatal("expected expired token to fail")
	}
}
