package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"taskease/internal/domain"
)

// TaskStore implements domain.TaskRepository. Stored tasks are deep-copied on
// the way in and out so callers never share subtask slices.
type TaskStore struct {
	mu    sync.Mutex
	tasks map[string]domain.Task
}

func NewTaskStore() *TaskStore {
	return &TaskStore{tasks: map[string]domain.Task{}}
}

func (s *TaskStore) ListByUser(_ context.Context, userID string) ([]domain.Task, error) {
	s.mu.Lock()
	items := []domain.Task{}
	for _, task := range s.tasks {
		if task.UserID == userID {
			items = append(items, cloneTask(task))
		}
	}
	s.mu.Unlock()

	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (s *TaskStore) Get(_ context.Context, taskID string) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[taskID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := cloneTask(task)
	return &out, nil
}

func (s *TaskStore) Create(_ context.Context, task *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := cloneTask(*task)
	if stored.UpdatedAt.IsZero() {
		stored.UpdatedAt = stored.CreatedAt
	}
	s.tasks[task.ID] = stored
	return nil
}

// Mutate holds the store lock for the whole read-modify-write.
func (s *TaskStore) Mutate(_ context.Context, taskID string, now time.Time, fn domain.TaskMutation) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.tasks[taskID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	work := cloneTask(current)
	if err := fn(&work); err != nil {
		return nil, err
	}
	work.Completed = domain.AllCompleted(work.SubTasks)
	work.UpdatedAt = now
	s.tasks[taskID] = cloneTask(work)
	return &work, nil
}

func (s *TaskStore) Delete(_ context.Context, taskID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[taskID]; !ok {
		return domain.ErrNotFound
	}
	delete(s.tasks, taskID)
	return nil
}

func (s *TaskStore) DeleteByUser(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, task := range s.tasks {
		if task.UserID == userID {
			delete(s.tasks, id)
		}
	}
	return nil
}

func cloneTask(task domain.Task) domain.Task {
	subs := make([]domain.SubTask, len(task.SubTasks))
	copy(subs, task.SubTasks)
	task.SubTasks = subs
	return task
}

var _ domain.TaskRepository = (*TaskStore)(nil)
