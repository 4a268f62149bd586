package task

import (
	"time"

	"github.com/MrJamesThe3rd/lifemanager/internal/task"
)

type taskResponse struct {
	ID          int           `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Priority    task.Priority `json:"priority"`
	Status      task.Status   `json:"status"`
	Deadline    *time.Time    `json:"deadline,omitempty"`
	Overdue     bool          `json:"overdue"`
	CreatedAt   time.Time     `json:"createdAt"`
	StartedAt   *time.Time    `json:"startedAt,omitempty"`
	CompletedAt *time.Time    `json:"completedAt,omitempty"`
}

func toResponse(t *task.Task, now time.Time) taskResponse {
	return taskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority,
		Status:      t.Status,
		Deadline:    t.Deadline,
		Overdue:     t.IsOverdue(now),
		CreatedAt:   t.CreatedAt,
		StartedAt:   t.StartedAt,
		CompletedAt: t.CompletedAt,
	}
}

func toResponseList(tasks []*task.Task, now time.Time) []taskResponse {
	resp := make([]taskResponse, len(tasks))
	for i, t := range tasks {
		resp[i] = toResponse(t, now)
	}

	return resp
}
