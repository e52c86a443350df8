package decompose

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"taskease/internal/domain"
)

// StaticGateway returns a fixed plan built from the task title. It is only
// wired as a fallback for demo deployments.
type StaticGateway struct{}

func NewStaticGateway() *StaticGateway {
	return &StaticGateway{}
}

func (s *StaticGateway) Name() string { return staticProviderName }

func (s *StaticGateway) Decompose(_ context.Context, req Request) (*Result, error) {
	subject := strings.TrimSpace(req.Title)
	if subject == "" {
		subject = "the task"
	}
	subject = cases.Title(language.Und).String(subject)
	return &Result{
		SubTasks: []domain.SubTaskDraft{
			{Title: fmt.Sprintf("Clarify the goal of %s", subject), EstimatedTime: 10},
			{Title: fmt.Sprintf("List what %s needs", subject), EstimatedTime: 15},
			{Title: fmt.Sprintf("Work on %s", subject), EstimatedTime: 45},
			{Title: fmt.Sprintf("Review %s", subject), EstimatedTime: 15},
		},
		Provider: staticProviderName,
	}, nil
}

var _ Gateway = (*StaticGateway)(nil)
