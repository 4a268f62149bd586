package task

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/lifemanager/internal/validation"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=task
type Repository interface {
	// CreateTask assigns the next task id to t before storing it.
	CreateTask(ctx context.Context, t *Task) error
	GetTask(ctx context.Context, id int) (*Task, error)
	ListTasks(ctx context.Context) ([]*Task, error)
	UpdateTask(ctx context.Context, t *Task) error
	DeleteTask(ctx context.Context, id int) error
}

type Service struct {
	repo Repository
	now  func() time.Time
}

type Option func(*Service)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{repo: repo, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

type CreateParams struct {
	Title       string     `json:"title" validate:"notblank,max=100"`
	Description string     `json:"description" validate:"max=500"`
	Priority    Priority   `json:"priority" validate:"omitempty,oneof=low medium high"`
	Deadline    *time.Time `json:"deadline"`
}

type UpdateParams struct {
	Title         *string    `json:"title" validate:"omitempty,notblank,max=100"`
	Description   *string    `json:"description" validate:"omitempty,max=500"`
	Priority      *Priority  `json:"priority" validate:"omitempty,oneof=low medium high"`
	Deadline      *time.Time `json:"deadline"`
	ClearDeadline bool       `json:"clearDeadline"`
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Task, error) {
	if err := validation.Struct(params); err != nil {
		return nil, err
	}

	priority := params.Priority
	if priority == "" {
		priority = PriorityMedium
	}

	t := &Task{
		Title:       strings.TrimSpace(params.Title),
		Description: strings.TrimSpace(params.Description),
		Priority:    priority,
		Deadline:    params.Deadline,
		Status:      StatusTodo,
		CreatedAt:   s.now(),
	}
	if err := s.repo.CreateTask(ctx, t); err != nil {
		return nil, fmt.Errorf("creating task: %w", err)
	}

	return t, nil
}

func (s *Service) Get(ctx context.Context, id int) (*Task, error) {
	return s.repo.GetTask(ctx, id)
}

// List returns the tasks matching filter in the requested order.
func (s *Service) List(ctx context.Context, filter Filter, sortBy SortBy) ([]*Task, error) {
	tasks, err := s.repo.ListTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}

	tasks = Apply(tasks, filter, s.now())
	Sort(tasks, sortBy)

	return tasks, nil
}

func (s *Service) Update(ctx context.Context, id int, params UpdateParams) (*Task, error) {
	if err := validation.Struct(params); err != nil {
		return nil, err
	}

	t, err := s.repo.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Title != nil {
		t.Title = strings.TrimSpace(*params.Title)
	}

	if params.Description != nil {
		t.Description = strings.TrimSpace(*params.Description)
	}

	if params.Priority != nil {
		t.Priority = *params.Priority
	}

	switch {
	case params.ClearDeadline:
		t.Deadline = nil
	case params.Deadline != nil:
		t.Deadline = params.Deadline
	}

	if err := s.repo.UpdateTask(ctx, t); err != nil {
		return nil, fmt.Errorf("updating task: %w", err)
	}

	return t, nil
}

// SetStatus moves a task to another board column.
func (s *Service) SetStatus(ctx context.Context, id int, status Status) (*Task, error) {
	if !status.Valid() {
		return nil, validation.New("status", "must be one of: todo, progress, done")
	}

	t, err := s.repo.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}

	Transition(t, status, s.now())

	if err := s.repo.UpdateTask(ctx, t); err != nil {
		return nil, fmt.Errorf("updating task status: %w", err)
	}

	return t, nil
}

// CopySuffix marks a duplicated task's title.
const CopySuffix = " (Cópia)"

// Duplicate stores a fresh todo copy of the task under a new id.
func (s *Service) Duplicate(ctx context.Context, id int) (*Task, error) {
	src, err := s.repo.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}

	t := src.Clone()
	t.ID = 0
	t.Title += CopySuffix
	t.Status = StatusTodo
	t.CreatedAt = s.now()
	t.StartedAt = nil
	t.CompletedAt = nil

	if err := s.repo.CreateTask(ctx, t); err != nil {
		return nil, fmt.Errorf("duplicating task: %w", err)
	}

	return t, nil
}

func (s *Service) Delete(ctx context.Context, id int) error {
	return s.repo.DeleteTask(ctx, id)
}
