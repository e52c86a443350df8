// Package decompose asks a language model to split a task into time-boxed
// subtasks and sanitizes whatever it answers.
package decompose

import (
	"context"
	"errors"

	"taskease/internal/domain"
)

const (
	openAIProviderName = "openai"
	geminiProviderName = "gemini"
	staticProviderName = "static"
)

// Request is the input of one decomposition.
type Request struct {
	Title       string
	Description string
	Existing    []domain.SubTaskDraft
	Locale      string
}

// Result is a sanitized, non-empty subtask list.
type Result struct {
	SubTasks       []domain.SubTaskDraft
	Provider       string
	FallbackReason string
}

// Gateway produces subtasks for a task. Implementations never touch the ledger.
type Gateway interface {
	Decompose(ctx context.Context, req Request) (*Result, error)
	Name() string
}

func failure(reason string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		reason = "timeout"
	}
	return &domain.DecompositionError{Reason: reason, Err: err}
}
