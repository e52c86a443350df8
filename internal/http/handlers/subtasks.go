package handlers

import (
	"net/http"

	"taskease/internal/domain"
	"taskease/internal/middleware"
	"taskease/internal/planner"
)

type generateRequest struct {
	Title            string                `json:"title"`
	Description      string                `json:"description"`
	ExistingSubtasks []domain.SubTaskDraft `json:"existingSubtasks"`
}

type generateResponse struct {
	SubTasks     []domain.SubTaskDraft `json:"subtasks"`
	Credits      int                   `json:"credits"`
	IsSubscribed bool                  `json:"isSubscribed"`
	Provider     string                `json:"provider"`
}

// GenerateSubtasks decomposes a task and charges one credit on success.
func (a *App) GenerateSubtasks(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if !a.decode(w, r, &req) {
		return
	}
	gen, err := a.Planner.GenerateSubtasks(r.Context(), a.currentUserID(r), planner.GenerateInput{
		Title:       req.Title,
		Description: req.Description,
		Existing:    req.ExistingSubtasks,
		Locale:      middleware.LocaleFromContext(r.Context()),
	})
	if err != nil {
		a.errorFrom(w, r, err, "failed to generate subtasks")
		return
	}
	a.json(w, http.StatusOK, generateResponse{
		SubTasks:     gen.SubTasks,
		Credits:      gen.Credits.Credits,
		IsSubscribed: gen.Credits.IsSubscribed,
		Provider:     gen.Provider,
	})
}
