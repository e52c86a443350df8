package decompose

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"taskease/internal/domain"
)

var subtaskKeys = []string{"subtasks", "subTasks", "sub_tasks"}

type rawSubTask struct {
	Title         string          `json:"title"`
	EstimatedTime json.RawMessage `json:"estimatedTime"`
}

// parseSubTasks extracts the subtask array from a model answer and applies
// the sanitization rules: titles trimmed, empty titles dropped, estimates
// coerced into the allowed range.
func parseSubTasks(text string) ([]domain.SubTaskDraft, error) {
	cleaned := extractJSONFragment(text)
	if cleaned == "" {
		return nil, errors.New("empty payload")
	}
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &envelope); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	var raw json.RawMessage
	for _, key := range subtaskKeys {
		if v, ok := envelope[key]; ok {
			raw = v
			break
		}
	}
	if raw == nil {
		return nil, errors.New("subtasks field missing")
	}
	if trimmed := bytes.TrimSpace(raw); len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, errors.New("subtasks field is not an array")
	}
	var items []rawSubTask
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode subtasks: %w", err)
	}
	out := make([]domain.SubTaskDraft, 0, len(items))
	for _, item := range items {
		title := strings.TrimSpace(item.Title)
		if title == "" {
			continue
		}
		out = append(out, domain.SubTaskDraft{
			Title:         title,
			EstimatedTime: coerceMinutes(item.EstimatedTime),
		})
	}
	if len(out) == 0 {
		return nil, errors.New("no usable subtasks")
	}
	return out, nil
}

// coerceMinutes accepts JSON numbers and numeric strings. Out-of-range values
// clamp by sign; anything else maps to the minimum estimate.
func coerceMinutes(raw json.RawMessage) int {
	text := string(bytes.TrimSpace(raw))
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		text = strings.TrimSpace(s)
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return domain.MinEstimatedMinutes
	}
	return domain.ClampEstimatedFloat(f)
}

func extractJSONFragment(raw string) string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return ""
	}
	text = trimCodeFence(text)
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start >= 0 && end >= start {
		text = text[start : end+1]
	}
	return strings.TrimSpace(text)
}

func trimCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```JSON")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)
	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}
