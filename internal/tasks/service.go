// Package tasks implements the task store on top of domain.TaskRepository:
// validation, subtask id assignment and ownership checks.
package tasks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"taskease/internal/domain"
)

const (
	maxTitleLength       = 200
	maxDescriptionLength = 4000
	maxSubTasks          = 50
)

// CreateInput is a task as composed by the user or the planner.
type CreateInput struct {
	Title       string
	Description string
	SubTasks    []domain.SubTaskDraft
}

// Patch carries the fields of a partial update. Nil means unchanged.
type Patch struct {
	Title       *string
	Description *string
	SubTasks    *[]domain.SubTask
}

type Service struct {
	repo  domain.TaskRepository
	now   func() time.Time
	newID func() string
}

func NewService(repo domain.TaskRepository) *Service {
	return &Service{
		repo:  repo,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

func (s *Service) List(ctx context.Context, userID string) ([]domain.Task, error) {
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return items, nil
}

// Get returns the task when it belongs to userID. Foreign and malformed ids
// both read as ErrNotFound.
func (s *Service) Get(ctx context.Context, userID, taskID string) (*domain.Task, error) {
	if !validID(taskID) {
		return nil, domain.ErrNotFound
	}
	task, err := s.repo.Get(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return task, nil
}

// Validate checks the limits of in that do not depend on stored state. An
// empty subtask list passes here; Create rejects it.
func (s *Service) Validate(in CreateInput) error {
	if _, err := cleanTitle(in.Title); err != nil {
		return err
	}
	if _, err := cleanDescription(in.Description); err != nil {
		return err
	}
	n := 0
	for _, d := range in.SubTasks {
		if d.Normalize().Title != "" {
			n++
		}
	}
	if n > maxSubTasks {
		return domain.Invalid("subTasks", fmt.Sprintf("at most %d subtasks are allowed", maxSubTasks))
	}
	return nil
}

// Create validates in and persists a new task owned by userID.
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (*domain.Task, error) {
	if err := s.Validate(in); err != nil {
		return nil, err
	}
	title, _ := cleanTitle(in.Title)
	description, _ := cleanDescription(in.Description)
	subs := s.fromDrafts(in.SubTasks)
	if len(subs) == 0 {
		return nil, domain.Invalid("subTasks", "at least one subtask is required")
	}
	now := s.now().UTC()
	task := &domain.Task{
		ID:          s.newID(),
		UserID:      userID,
		Title:       title,
		Description: description,
		SubTasks:    subs,
		Completed:   domain.AllCompleted(subs),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return task, nil
}

// Update applies p. A replaced subtask list keeps caller-provided ids where
// they are unique and recomputes completion from the new list.
func (s *Service) Update(ctx context.Context, userID, taskID string, p Patch) (*domain.Task, error) {
	var title string
	if p.Title != nil {
		t, err := cleanTitle(*p.Title)
		if err != nil {
			return nil, err
		}
		title = t
	}
	var description string
	if p.Description != nil {
		d, err := cleanDescription(*p.Description)
		if err != nil {
			return nil, err
		}
		description = d
	}
	var subs []domain.SubTask
	if p.SubTasks != nil {
		cleaned, err := s.cleanSubTasks(*p.SubTasks)
		if err != nil {
			return nil, err
		}
		subs = cleaned
	}
	return s.mutate(ctx, userID, taskID, func(task *domain.Task) error {
		if p.Title != nil {
			task.Title = title
		}
		if p.Description != nil {
			task.Description = description
		}
		if p.SubTasks != nil {
			task.SubTasks = subs
		}
		return nil
	})
}

// ToggleSubTask flips one subtask's completion inside a locked read-modify-write.
func (s *Service) ToggleSubTask(ctx context.Context, userID, taskID, subTaskID string) (*domain.Task, error) {
	return s.mutate(ctx, userID, taskID, func(task *domain.Task) error {
		for i := range task.SubTasks {
			if task.SubTasks[i].ID == subTaskID {
				task.SubTasks[i].Completed = !task.SubTasks[i].Completed
				return nil
			}
		}
		return domain.ErrNotFound
	})
}

// AddSubTasks appends drafts to an existing task.
func (s *Service) AddSubTasks(ctx context.Context, userID, taskID string, drafts []domain.SubTaskDraft) (*domain.Task, error) {
	subs := s.fromDrafts(drafts)
	if len(subs) == 0 {
		return nil, domain.Invalid("subTasks", "at least one subtask is required")
	}
	return s.mutate(ctx, userID, taskID, func(task *domain.Task) error {
		if len(task.SubTasks)+len(subs) > maxSubTasks {
			return domain.Invalid("subTasks", fmt.Sprintf("at most %d subtasks are allowed", maxSubTasks))
		}
		task.SubTasks = append(task.SubTasks, subs...)
		return nil
	})
}

func (s *Service) Delete(ctx context.Context, userID, taskID string) error {
	if _, err := s.Get(ctx, userID, taskID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, taskID)
}

// DeleteAll removes every task of userID, used by account deletion.
func (s *Service) DeleteAll(ctx context.Context, userID string) error {
	if err := s.repo.DeleteByUser(ctx, userID); err != nil {
		return fmt.Errorf("delete tasks: %w", err)
	}
	return nil
}

func (s *Service) mutate(ctx context.Context, userID, taskID string, fn domain.TaskMutation) (*domain.Task, error) {
	if !validID(taskID) {
		return nil, domain.ErrNotFound
	}
	return s.repo.Mutate(ctx, taskID, s.now().UTC(), func(task *domain.Task) error {
		if task.UserID != userID {
			return domain.ErrNotFound
		}
		return fn(task)
	})
}

func (s *Service) fromDrafts(drafts []domain.SubTaskDraft) []domain.SubTask {
	subs := make([]domain.SubTask, 0, len(drafts))
	for _, d := range drafts {
		d = d.Normalize()
		if d.Title == "" {
			continue
		}
		subs = append(subs, domain.SubTask{
			ID:            s.newID(),
			Title:         d.Title,
			EstimatedTime: d.EstimatedTime,
		})
	}
	return subs
}

func (s *Service) cleanSubTasks(in []domain.SubTask) ([]domain.SubTask, error) {
	if len(in) > maxSubTasks {
		return nil, domain.Invalid("subTasks", fmt.Sprintf("at most %d subtasks are allowed", maxSubTasks))
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]domain.SubTask, 0, len(in))
	for i, st := range in {
		title := strings.TrimSpace(st.Title)
		if title == "" {
			return nil, domain.Invalid(fmt.Sprintf("subTasks[%d].title", i), "title is required")
		}
		id := strings.TrimSpace(st.ID)
		if _, dup := seen[id]; id == "" || dup {
			id = s.newID()
		}
		seen[id] = struct{}{}
		out = append(out, domain.SubTask{
			ID:            id,
			Title:         title,
			EstimatedTime: domain.ClampEstimatedTime(st.EstimatedTime),
			Completed:     st.Completed,
		})
	}
	return out, nil
}

func cleanTitle(raw string) (string, error) {
	title := strings.TrimSpace(raw)
	if title == "" {
		return "", domain.Invalid("title", "title is required")
	}
	if len(title) > maxTitleLength {
		return "", domain.Invalid("title", "title is too long")
	}
	return title, nil
}

func cleanDescription(raw string) (string, error) {
	description := strings.TrimSpace(raw)
	if len(description) > maxDescriptionLength {
		return "", domain.Invalid("description", "description is too long")
	}
	return description, nil
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
