package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"taskease/internal/domain"
	"taskease/internal/infra"
	"taskease/internal/sqlinline"
)

// TaskRepositoryPG implements domain.TaskRepository with subtasks stored as jsonb.
type TaskRepositoryPG struct {
	sql infra.TxExecutor
}

// NewTaskRepository creates a new TaskRepositoryPG.
func NewTaskRepository(sql infra.TxExecutor) *TaskRepositoryPG {
	return &TaskRepositoryPG{sql: sql}
}

func (r *TaskRepositoryPG) ListByUser(ctx context.Context, userID string) ([]domain.Task, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListTasksByUser, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *task)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *TaskRepositoryPG) Get(ctx context.Context, taskID string) (*domain.Task, error) {
	return scanTask(r.sql.QueryRow(ctx, sqlinline.QSelectTask, taskID))
}

func (r *TaskRepositoryPG) Create(ctx context.Context, task *domain.Task) error {
	subs, err := encodeSubTasks(task.SubTasks)
	if err != nil {
		return err
	}
	_, err = r.sql.Exec(ctx, sqlinline.QInsertTask, task.ID, task.UserID, task.Title, task.Description, subs, task.Completed, task.CreatedAt)
	return err
}

// Mutate locks the row, applies fn and writes the task back in one transaction.
func (r *TaskRepositoryPG) Mutate(ctx context.Context, taskID string, now time.Time, fn domain.TaskMutation) (*domain.Task, error) {
	var out *domain.Task
	err := r.sql.InTx(ctx, func(tx infra.SQLExecutor) error {
		task, err := scanTask(tx.QueryRow(ctx, sqlinline.QSelectTaskForUpdate, taskID))
		if err != nil {
			return err
		}
		if err := fn(task); err != nil {
			return err
		}
		task.Completed = domain.AllCompleted(task.SubTasks)
		task.UpdatedAt = now
		subs, err := encodeSubTasks(task.SubTasks)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, sqlinline.QUpdateTask, task.ID, task.Title, task.Description, subs, task.Completed, task.UpdatedAt); err != nil {
			return err
		}
		out = task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *TaskRepositoryPG) Delete(ctx context.Context, taskID string) error {
	tag, err := r.sql.Exec(ctx, sqlinline.QDeleteTask, taskID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *TaskRepositoryPG) DeleteByUser(ctx context.Context, userID string) error {
	_, err := r.sql.Exec(ctx, sqlinline.QDeleteTasksByUser, userID)
	return err
}

func encodeSubTasks(subs []domain.SubTask) ([]byte, error) {
	if subs == nil {
		subs = []domain.SubTask{}
	}
	raw, err := json.Marshal(subs)
	if err != nil {
		return nil, fmt.Errorf("encode subtasks: %w", err)
	}
	return raw, nil
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var task domain.Task
	var subs []byte
	if err := row.Scan(&task.ID, &task.UserID, &task.Title, &task.Description, &subs, &task.Completed, &task.CreatedAt, &task.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	task.SubTasks = []domain.SubTask{}
	if len(subs) > 0 {
		if err := json.Unmarshal(subs, &task.SubTasks); err != nil {
			return nil, fmt.Errorf("decode subtasks: %w", err)
		}
	}
	return &task, nil
}

var _ domain.TaskRepository = (*TaskRepositoryPG)(nil)
