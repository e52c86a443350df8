package credentials

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"taskease/internal/infra"
)

type stubExecutor struct {
	token string
	err   error
	exec  struct {
		query string
		args  []any
	}
}

func (s *stubExecutor) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	s.exec.query = query
	s.exec.args = args
	return pgconn.CommandTag{}, s.err
}

func (s *stubExecutor) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	return stubRow{token: s.token, err: s.err}
}

func (s *stubExecutor) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

type stubRow struct {
	token string
	err   error
}

func (r stubRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) == 0 {
		return errors.New("no dest")
	}
	ptr, ok := dest[0].(*string)
	if !ok {
		return errors.New("invalid dest")
	}
	*ptr = r.token
	return nil
}

func TestKeyTrimsStoredValue(t *testing.T) {
	store := NewStore(&stubExecutor{token: " sk-test "})
	key, err := store.Key(context.Background(), ProviderOpenAI)
	if err != nil {
		t.Fatalf("Key error: %v", err)
	}
	if key != "sk-test" {
		t.Fatalf("expected sk-test, got %q", key)
	}
}

func TestKeyNoRows(t *testing.T) {
	store := NewStore(&stubExecutor{err: pgx.ErrNoRows})
	key, err := store.Key(context.Background(), ProviderGemini)
	if err != nil {
		t.Fatalf("Key error: %v", err)
	}
	if key != "" {
		t.Fatalf("expected empty key, got %q", key)
	}
}

func TestSetKey(t *testing.T) {
	exec := &stubExecutor{}
	store := NewStore(exec)
	if err := store.SetKey(context.Background(), " Gemini ", "secret", "ops@example.com"); err != nil {
		t.Fatalf("SetKey error: %v", err)
	}
	if len(exec.exec.args) != 3 {
		t.Fatalf("expected 3 args, got %d", len(exec.exec.args))
	}
	if v, _ := exec.exec.args[0].(string); v != ProviderGemini {
		t.Fatalf("expected normalized provider, got %v", exec.exec.args[0])
	}
	if v, ok := exec.exec.args[1].(string); !ok || v != "secret" {
		t.Fatalf("expected secret argument, got %T %v", exec.exec.args[1], exec.exec.args[1])
	}
}

func TestSetKeyRejects(t *testing.T) {
	store := NewStore(&stubExecutor{})
	if err := store.SetKey(context.Background(), ProviderOpenAI, " ", ""); err == nil {
		t.Fatal("expected error for empty key")
	}
	if err := store.SetKey(context.Background(), "qwen", "secret", ""); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestFillKeepsEnvironmentValues(t *testing.T) {
	store := NewStore(&stubExecutor{token: "from-db"})
	cfg := &infra.Config{OpenAIAPIKey: "from-env"}
	if err := store.Fill(context.Background(), cfg); err != nil {
		t.Fatalf("Fill error: %v", err)
	}
	if cfg.OpenAIAPIKey != "from-env" || cfg.GeminiAPIKey != "from-db" {
		t.Fatalf("unexpected keys: openai=%q gemini=%q", cfg.OpenAIAPIKey, cfg.GeminiAPIKey)
	}
}

func TestFillPropagatesErrors(t *testing.T) {
	store := NewStore(&stubExecutor{err: errors.New("db down")})
	if err := store.Fill(context.Background(), &infra.Config{}); err == nil {
		t.Fatal("expected error")
	}
}

func TestMask(t *testing.T) {
	if got := Mask("sk-abcdef1234"); got != "*********1234" {
		t.Fatalf("Mask = %q", got)
	}
	if got := Mask("abc"); got != "***" {
		t.Fatalf("Mask short = %q", got)
	}
}
