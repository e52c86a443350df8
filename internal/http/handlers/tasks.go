package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"taskease/internal/domain"
	"taskease/internal/middleware"
	"taskease/internal/tasks"
)

type createTaskRequest struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	SubTasks    []domain.SubTaskDraft `json:"subTasks"`
	Decompose   bool                  `json:"decompose"`
}

type taskResponse struct {
	Task    *domain.Task         `json:"task"`
	Credits *domain.CreditRecord `json:"credits,omitempty"`
}

type updateTaskRequest struct {
	Title       *string           `json:"title"`
	Description *string           `json:"description"`
	SubTasks    *[]domain.SubTask `json:"subTasks"`
}

type addSubTasksRequest struct {
	SubTasks []domain.SubTaskDraft `json:"subTasks"`
}

func (a *App) ListTasks(w http.ResponseWriter, r *http.Request) {
	items, err := a.Tasks.List(r.Context(), a.currentUserID(r))
	if err != nil {
		a.errorFrom(w, r, err, "failed to load tasks")
		return
	}
	if items == nil {
		items = []domain.Task{}
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

// CreateTask stores a task. With decompose set, subtasks are generated first
// and one credit is charged.
func (a *App) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if !a.decode(w, r, &req) {
		return
	}
	in := tasks.CreateInput{Title: req.Title, Description: req.Description, SubTasks: req.SubTasks}
	userID := a.currentUserID(r)
	if !req.Decompose {
		task, err := a.Tasks.Create(r.Context(), userID, in)
		if err != nil {
			a.errorFrom(w, r, err, "failed to create task")
			return
		}
		a.json(w, http.StatusCreated, taskResponse{Task: task})
		return
	}
	task, rec, err := a.Planner.CreateTaskWithDecomposition(r.Context(), userID, in, middleware.LocaleFromContext(r.Context()))
	if err != nil {
		a.errorFrom(w, r, err, "failed to create task")
		return
	}
	a.json(w, http.StatusCreated, taskResponse{Task: task, Credits: rec})
}

func (a *App) UpdateTask(w http.ResponseWriter, r *http.Request) {
	var req updateTaskRequest
	if !a.decode(w, r, &req) {
		return
	}
	task, err := a.Tasks.Update(r.Context(), a.currentUserID(r), chi.URLParam(r, "id"), tasks.Patch{
		Title:       req.Title,
		Description: req.Description,
		SubTasks:    req.SubTasks,
	})
	if err != nil {
		a.errorFrom(w, r, err, "failed to update task")
		return
	}
	a.json(w, http.StatusOK, taskResponse{Task: task})
}

func (a *App) AddSubTasks(w http.ResponseWriter, r *http.Request) {
	var req addSubTasksRequest
	if !a.decode(w, r, &req) {
		return
	}
	task, err := a.Tasks.AddSubTasks(r.Context(), a.currentUserID(r), chi.URLParam(r, "id"), req.SubTasks)
	if err != nil {
		a.errorFrom(w, r, err, "failed to add subtasks")
		return
	}
	a.json(w, http.StatusOK, taskResponse{Task: task})
}

func (a *App) ToggleSubTask(w http.ResponseWriter, r *http.Request) {
	task, err := a.Tasks.ToggleSubTask(r.Context(), a.currentUserID(r), chi.URLParam(r, "id"), chi.URLParam(r, "subId"))
	if err != nil {
		a.errorFrom(w, r, err, "failed to toggle subtask")
		return
	}
	a.json(w, http.StatusOK, taskResponse{Task: task})
}

func (a *App) DeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := a.Tasks.Delete(r.Context(), a.currentUserID(r), chi.URLParam(r, "id")); err != nil {
		a.errorFrom(w, r, err, "failed to delete task")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
