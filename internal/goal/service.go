package goal

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/lifemanager/internal/validation"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=goal
type Repository interface {
	// CreateGoal assigns the next goal id to g before storing it.
	CreateGoal(ctx context.Context, g *Goal) error
	GetGoal(ctx context.Context, id int) (*Goal, error)
	ListGoals(ctx context.Context) ([]*Goal, error)
	UpdateGoal(ctx context.Context, g *Goal) error
	DeleteGoal(ctx context.Context, id int) error
}

type Service struct {
	repo Repository
	now  func() time.Time
}

type Option func(*Service)

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
	Name        string           `json:"name" validate:"notblank,max=100"`
	Type        Type             `json:"type" validate:"required,oneof=financial personal"`
	Amount      *decimal.Decimal `json:"amount" validate:"omitempty,gt=0,lte=999999999"`
	Deadline    time.Time        `json:"deadline"`
	Description string           `json:"description" validate:"max=500"`
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Goal, error) {
	verr := &validation.Error{}
	if err := validation.Struct(params); err != nil && !errors.As(err, &verr) {
		return nil, err
	}

	now := s.now()

	if params.Type == TypeFinancial && params.Amount == nil {
		verr.Add("amount", "is required")
	}

	checkDeadline(verr, params.Deadline, now)

	if err := verr.Err(); err != nil {
		return nil, err
	}

	g := &Goal{
		Name:        strings.TrimSpace(params.Name),
		Type:        params.Type,
		Deadline:    params.Deadline,
		Description: strings.TrimSpace(params.Description),
		CreatedAt:   now,
	}

	switch params.Type {
	case TypeFinancial:
		g.Financial = &Financial{Amount: *params.Amount, CurrentAmount: decimal.Zero}
	case TypePersonal:
		g.Personal = &Personal{}
	}

	if err := s.repo.CreateGoal(ctx, g); err != nil {
		return nil, fmt.Errorf("creating goal: %w", err)
	}

	return g, nil
}

func checkDeadline(verr *validation.Error, deadline, now time.Time) {
	y, m, d := now.Date()

	switch {
	case deadline.IsZero():
		verr.Add("deadline", "is required")
	case deadline.Before(time.Date(y, m, d, 0, 0, 0, 0, now.Location())):
		verr.Add("deadline", "must not be in the past")
	}
}

type UpdateParams struct {
	Name        *string          `json:"name" validate:"omitempty,notblank,max=100"`
	Type        *Type            `json:"type" validate:"omitempty,oneof=financial personal"`
	Amount      *decimal.Decimal `json:"amount" validate:"omitempty,gt=0,lte=999999999"`
	Deadline    *time.Time       `json:"deadline"`
	Description *string          `json:"description" validate:"omitempty,max=500"`
}

// Update edits a goal's details. Switching to financial needs an amount; the
// saved amount and personal progress carry over only while the type is unchanged.
func (s *Service) Update(ctx context.Context, id int, params UpdateParams) (*Goal, error) {
	verr := &validation.Error{}
	if err := validation.Struct(params); err != nil && !errors.As(err, &verr) {
		return nil, err
	}

	if params.Deadline != nil {
		checkDeadline(verr, *params.Deadline, s.now())
	}

	if err := verr.Err(); err != nil {
		return nil, err
	}

	g, err := s.repo.GetGoal(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Type != nil && *params.Type != g.Type {
		switch *params.Type {
		case TypeFinancial:
			if params.Amount == nil {
				return nil, validation.New("amount", "is required")
			}

			g.Personal = nil
			g.Financial = &Financial{CurrentAmount: decimal.Zero}
		case TypePersonal:
			g.Financial = nil
			g.Personal = &Personal{}
		}

		g.Type = *params.Type
	}

	if params.Amount != nil {
		if g.Financial == nil {
			return nil, validation.New("amount", "only financial goals have an amount")
		}

		g.Financial.Amount = *params.Amount
	}

	if params.Name != nil {
		g.Name = strings.TrimSpace(*params.Name)
	}

	if params.Description != nil {
		g.Description = strings.TrimSpace(*params.Description)
	}

	if params.Deadline != nil {
		g.Deadline = *params.Deadline
	}

	return s.save(ctx, g)
}

func (s *Service) Get(ctx context.Context, id int) (*Goal, error) {
	return s.repo.GetGoal(ctx, id)
}

func (s *Service) List(ctx context.Context, filter Filter, sortBy SortBy) ([]*Goal, error) {
	goals, err := s.repo.ListGoals(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing goals: %w", err)
	}

	now := s.now()

	goals = Apply(goals, filter, now)
	Sort(goals, sortBy)

	return goals, nil
}

// SetProgress records progress on a personal goal, clamped to [0, 100].
func (s *Service) SetProgress(ctx context.Context, id int, progress float64) (*Goal, error) {
	if math.IsNaN(progress) {
		return nil, validation.New("progress", "must be a number")
	}

	g, err := s.repo.GetGoal(ctx, id)
	if err != nil {
		return nil, err
	}

	if g.Personal == nil {
		return nil, validation.New("progress", "only personal goals track progress")
	}

	g.Personal.Progress = math.Min(math.Max(progress, 0), 100)

	return s.save(ctx, g)
}

// SetCurrentAmount records how much has been saved towards a financial goal.
func (s *Service) SetCurrentAmount(ctx context.Context, id int, amount decimal.Decimal) (*Goal, error) {
	if amount.IsNegative() {
		return nil, validation.New("currentAmount", "must be at least 0")
	}

	g, err := s.repo.GetGoal(ctx, id)
	if err != nil {
		return nil, err
	}

	if g.Financial == nil {
		return nil, validation.New("currentAmount", "only financial goals track an amount")
	}

	g.Financial.CurrentAmount = amount

	return s.save(ctx, g)
}

func (s *Service) save(ctx context.Context, g *Goal) (*Goal, error) {
	switch {
	case !g.IsCompleted():
		g.CompletedAt = nil
	case g.CompletedAt == nil:
		g.CompletedAt = new(s.now())
	}

	if err := s.repo.UpdateGoal(ctx, g); err != nil {
		return nil, fmt.Errorf("updating goal: %w", err)
	}

	return g, nil
}

func (s *Service) Delete(ctx context.Context, id int) error {
	return s.repo.DeleteGoal(ctx, id)
}
