package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"taskease/internal/domain"
)

// Signer obtains the gateway signature for a parameter set.
type Signer interface {
	Sign(ctx context.Context, params map[string]string) (string, error)
}

type HTTPSignerOptions struct {
	Endpoint     string
	APIKey       string
	MerchantCode string
	Passphrase   string
	HTTPClient   *http.Client
}

// HTTPSigner delegates signing to the gateway's signing endpoint. The
// credentials never leave the server.
type HTTPSigner struct {
	endpoint     string
	apiKey       string
	merchantCode string
	passphrase   string
	client       *http.Client
}

type signRequest struct {
	MerchantCode string            `json:"merchantCode"`
	Passphrase   string            `json:"passphrase"`
	Params       map[string]string `json:"params"`
}

type signResponse struct {
	Signature string `json:"signature"`
	Error     string `json:"error"`
}

func NewHTTPSigner(opts HTTPSignerOptions) *HTTPSigner {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPSigner{
		endpoint:     strings.TrimSpace(opts.Endpoint),
		apiKey:       strings.TrimSpace(opts.APIKey),
		merchantCode: strings.TrimSpace(opts.MerchantCode),
		passphrase:   opts.Passphrase,
		client:       client,
	}
}

func (s *HTTPSigner) Sign(ctx context.Context, params map[string]string) (string, error) {
	if s.endpoint == "" || s.apiKey == "" || s.merchantCode == "" {
		return "", &domain.SignatureError{Err: errors.New("signing credentials are not configured")}
	}
	if len(params) == 0 {
		return "", &domain.SignatureError{Err: errors.New("no parameters to sign")}
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(signRequest{
		MerchantCode: s.merchantCode,
		Passphrase:   s.passphrase,
		Params:       params,
	}); err != nil {
		return "", &domain.SignatureError{Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, &buf)
	if err != nil {
		return "", &domain.SignatureError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	resp, err := s.client.Do(req)
	if err != nil {
		return "", &domain.SignatureError{Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return "", &domain.SignatureError{Err: err}
	}
	var out signResponse
	if err := json.Unmarshal(body, &out); err != nil && resp.StatusCode < 300 {
		return "", &domain.SignatureError{Err: fmt.Errorf("decode response: %w", err)}
	}
	if resp.StatusCode >= 300 {
		return "", &domain.SignatureError{Err: fmt.Errorf("signing endpoint status %d: %s", resp.StatusCode, out.Error)}
	}
	sig := strings.TrimSpace(out.Signature)
	if sig == "" {
		return "", &domain.SignatureError{Err: errors.New("empty signature")}
	}
	return sig, nil
}

var _ Signer = (*HTTPSigner)(nil)
