// Package credentials keeps decomposition provider API keys in the database
// so they can be rotated with taskeasectl instead of a redeploy.
package credentials

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"taskease/internal/infra"
	"taskease/internal/sqlinline"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

type Store struct {
	sql infra.SQLExecutor
}

func NewStore(sql infra.SQLExecutor) *Store {
	return &Store{sql: sql}
}

// Key returns the stored key for provider, or "" when none is stored.
func (s *Store) Key(ctx context.Context, provider string) (string, error) {
	row := s.sql.QueryRow(ctx, sqlinline.QSelectProviderKey, provider)
	var key string
	if err := row.Scan(&key); err != nil {
		if infra.IsNoRows(err) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(key), nil
}

func (s *Store) SetKey(ctx context.Context, provider, key, updatedBy string) error {
	provider, err := checkProvider(provider)
	if err != nil {
		return err
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("%s api key is required", provider)
	}
	_, err = s.sql.Exec(ctx, sqlinline.QUpsertProviderKey, provider, key, strings.TrimSpace(updatedBy))
	return err
}

func (s *Store) DeleteKey(ctx context.Context, provider string) error {
	provider, err := checkProvider(provider)
	if err != nil {
		return err
	}
	_, err = s.sql.Exec(ctx, sqlinline.QDeleteProviderKey, provider)
	return err
}

// Fill sets provider keys missing from cfg from the store. Environment
// values win.
func (s *Store) Fill(ctx context.Context, cfg *infra.Config) error {
	targets := []struct {
		provider string
		dst      *string
	}{
		{ProviderOpenAI, &cfg.OpenAIAPIKey},
		{ProviderGemini, &cfg.GeminiAPIKey},
	}
	for _, t := range targets {
		if strings.TrimSpace(*t.dst) != "" {
			continue
		}
		key, err := s.Key(ctx, t.provider)
		if err != nil {
			return fmt.Errorf("load %s key: %w", t.provider, err)
		}
		*t.dst = key
	}
	return nil
}

// Mask hides all but the last four characters of key.
func Mask(key string) string {
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}

func checkProvider(provider string) (string, error) {
	provider = strings.ToLower(strings.TrimSpace(provider))
	switch provider {
	case ProviderOpenAI, ProviderGemini:
		return provider, nil
	case "":
		return "", errors.New("provider is required")
	default:
		return "", fmt.Errorf("unsupported provider %q", provider)
	}
}
