package domain

import (
	"math"
	"strings"
	"time"
)

const (
	MinEstimatedMinutes = 1
	MaxEstimatedMinutes = 60
)

// SubTask is a time-boxed step of a Task.
type SubTask struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	EstimatedTime int    `json:"estimatedTime"`
	Completed     bool   `json:"completed"`
}

// SubTaskDraft is a subtask that has not been persisted yet, either returned
// by the decomposition model or typed in by the user.
type SubTaskDraft struct {
	Title         string `json:"title"`
	EstimatedTime int    `json:"estimatedTime"`
}

// Task is a user's to-do item. Completed is derived from SubTasks.
type Task struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	SubTasks    []SubTask `json:"subTasks"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ClampEstimatedTime forces minutes into [MinEstimatedMinutes, MaxEstimatedMinutes].
func ClampEstimatedTime(minutes int) int {
	if minutes < MinEstimatedMinutes {
		return MinEstimatedMinutes
	}
	if minutes > MaxEstimatedMinutes {
		return MaxEstimatedMinutes
	}
	return minutes
}

// ClampEstimatedFloat rounds a fractional estimate and clamps it. NaN maps to
// the minimum.
func ClampEstimatedFloat(minutes float64) int {
	if math.IsNaN(minutes) {
		return MinEstimatedMinutes
	}
	if minutes <= MinEstimatedMinutes {
		return MinEstimatedMinutes
	}
	if minutes >= MaxEstimatedMinutes {
		return MaxEstimatedMinutes
	}
	return ClampEstimatedTime(int(math.Round(minutes)))
}

// AllCompleted is the completion rule for a task: a non-empty list whose
// subtasks are all completed.
func AllCompleted(subTasks []SubTask) bool {
	if len(subTasks) == 0 {
		return false
	}
	for _, st := range subTasks {
		if !st.Completed {
			return false
		}
	}
	return true
}

// Normalize trims the draft title and clamps its estimate.
func (d SubTaskDraft) Normalize() SubTaskDraft {
	return SubTaskDraft{
		Title:         strings.TrimSpace(d.Title),
		EstimatedTime: ClampEstimatedTime(d.EstimatedTime),
	}
}
