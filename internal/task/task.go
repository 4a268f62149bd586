package task

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/MrJamesThe3rd/lifemanager/internal/datetime"
)

var ErrNotFound = errors.New("task not found")

// Priority orders tasks on the board, high first.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}

	return false
}

func (p Priority) weight() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}

	return 0
}

// Status is the board column a task sits in.
type Status string

const (
	StatusTodo     Status = "todo"
	StatusProgress Status = "progress"
	StatusDone     Status = "done"
)

func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusProgress, StatusDone:
		return true
	}

	return false
}

type Task struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    Priority   `json:"priority"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	Status      Status     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	StartedAt   *time.Time `json:"startedAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	OwnerID     string     `json:"userId"`
}

// UnmarshalJSON accepts a bare YYYY-MM-DD deadline and treats "" as none.
func (t *Task) UnmarshalJSON(b []byte) error {
	type plain Task

	var in struct {
		plain
		Deadline json.RawMessage `json:"deadline"`
	}
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}

	deadline, err := datetime.DecodeDeadline(in.Deadline)
	if err != nil {
		return err
	}

	*t = Task(in.plain)
	t.Deadline = deadline

	return nil
}

func (t *Task) IsDone() bool {
	return t.Status == StatusDone
}

// IsOverdue reports whether an unfinished task's deadline has passed.
func (t *Task) IsOverdue(now time.Time) bool {
	return t.Deadline != nil && t.Deadline.Before(now) && !t.IsDone()
}

// DoneAt is the completion timestamp, falling back to creation for records written without one.
func (t *Task) DoneAt() time.Time {
	if t.CompletedAt != nil {
		return *t.CompletedAt
	}

	return t.CreatedAt
}

// CompletedOnTime reports whether a done task was finished no later than its deadline.
func (t *Task) CompletedOnTime() bool {
	return t.IsDone() && t.Deadline != nil && t.CompletedAt != nil && !t.CompletedAt.After(*t.Deadline)
}

func (t *Task) Clone() *Task {
	c := *t
	c.Deadline = cloneTime(t.Deadline)
	c.StartedAt = cloneTime(t.StartedAt)
	c.CompletedAt = cloneTime(t.CompletedAt)

	return &c
}

// Transition moves t to status, stamping or clearing the lifecycle timestamps.
func Transition(t *Task, to Status, now time.Time) {
	if t.Status == to {
		return
	}

	switch to {
	case StatusTodo:
		t.StartedAt = nil
		t.CompletedAt = nil
	case StatusProgress:
		if t.StartedAt == nil {
			t.StartedAt = new(now)
		}

		t.CompletedAt = nil
	case StatusDone:
		if t.StartedAt == nil {
			t.StartedAt = new(now)
		}

		t.CompletedAt = new(now)
	}

	t.Status = to
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}

	return new(*t)
}
