package repo

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"taskease/internal/domain"
	"taskease/internal/sqlinline"
)

func taskRow(t *testing.T, subs []domain.SubTask, completed bool) valuesRow {
	t.Helper()
	raw, err := json.Marshal(subs)
	if err != nil {
		t.Fatalf("marshal subtasks: %v", err)
	}
	created := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	return valuesRow{vals: []any{"6f1b7c1e-8d0a-4c55-9a8e-0d5b1f6f2b11", "user-1", "Plan launch", "ship it", raw, completed, created, created}}
}

func TestTaskRepositoryMutateRecomputesCompletion(t *testing.T) {
	sql := newStubSQL()
	sql.rows[sqlinline.QSelectTaskForUpdate] = taskRow(t, []domain.SubTask{
		{ID: "a", Title: "one", EstimatedTime: 10, Completed: true},
		{ID: "b", Title: "two", EstimatedTime: 20, Completed: false},
	}, false)
	repo := NewTaskRepository(sql)
	now := time.Date(2026, 4, 2, 8, 0, 0, 0, time.UTC)

	task, err := repo.Mutate(context.Background(), "6f1b7c1e-8d0a-4c55-9a8e-0d5b1f6f2b11", now, func(task *domain.Task) error {
		task.SubTasks[1].Completed = true
		task.Completed = false
		return nil
	})
	if err != nil {
		t.Fatalf("Mutate returned error: %v", err)
	}
	if !sql.txCalled {
		t.Fatal("expected Mutate to run in a transaction")
	}
	if !task.Completed {
		t.Fatal("expected completion to be recomputed to true")
	}
	if !task.UpdatedAt.Equal(now) {
		t.Fatalf("UpdatedAt = %v, want %v", task.UpdatedAt, now)
	}
	c, ok := sql.last(sqlinline.QUpdateTask)
	if !ok {
		t.Fatal("expected update query")
	}
	if c.args[4] != true {
		t.Fatalf("completed arg = %#v, want true", c.args[4])
	}
	var stored []domain.SubTask
	if err := json.Unmarshal(c.args[3].([]byte), &stored); err != nil {
		t.Fatalf("decode stored subtasks: %v", err)
	}
	if len(stored) != 2 || !stored[1].Completed {
		t.Fatalf("unexpected stored subtasks: %+v", stored)
	}
}

func TestTaskRepositoryMutateAbortsOnError(t *testing.T) {
	sql := newStubSQL()
	sql.rows[sqlinline.QSelectTaskForUpdate] = taskRow(t, []domain.SubTask{{ID: "a", Title: "one", EstimatedTime: 10}}, false)
	repo := NewTaskRepository(sql)
	boom := errors.New("boom")

	_, err := repo.Mutate(context.Background(), "id", time.Now(), func(*domain.Task) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if _, ok := sql.last(sqlinline.QUpdateTask); ok {
		t.Fatal("update must not run when the mutation fails")
	}
}

func TestTaskRepositoryGetMissing(t *testing.T) {
	repo := NewTaskRepository(newStubSQL())
	if _, err := repo.Get(context.Background(), "id"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTaskRepositoryCreateEncodesEmptyList(t *testing.T) {
	sql := newStubSQL()
	repo := NewTaskRepository(sql)
	task := &domain.Task{ID: "id", UserID: "user-1", Title: "t", CreatedAt: time.Now()}
	if err := repo.Create(context.Background(), task); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	c, _ := sql.last(sqlinline.QInsertTask)
	if string(c.args[4].([]byte)) != "[]" {
		t.Fatalf("sub_tasks arg = %s, want []", c.args[4])
	}
}

func TestTaskRepositoryDeleteMissing(t *testing.T) {
	sql := newStubSQL()
	sql.execTag = pgconn.NewCommandTag("DELETE 0")
	if err := NewTaskRepository(sql).Delete(context.Background(), "id"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
