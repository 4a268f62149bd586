package transaction

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/lifemanager/internal/validation"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	// CreateTransaction assigns the next transaction id to tx before storing it.
	CreateTransaction(ctx context.Context, tx *Transaction) error
	GetTransaction(ctx context.Context, id int) (*Transaction, error)
	UpdateTransaction(ctx context.Context, tx *Transaction) error
	ListTransactions(ctx context.Context, filter ListFilter) ([]*Transaction, error)
	DeleteTransaction(ctx context.Context, id int) error
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
	Type        Type            `json:"type" validate:"required,oneof=income expense"`
	Description string          `json:"description" validate:"notblank,max=100"`
	Amount      decimal.Decimal `json:"amount" validate:"gt=0,lte=999999999"`
	Category    Category        `json:"category" validate:"required"`
	Date        *time.Time      `json:"date"`
}

type UpdateParams struct {
	Type        *Type            `json:"type" validate:"omitempty,oneof=income expense"`
	Description *string          `json:"description" validate:"omitempty,notblank,max=100"`
	Amount      *decimal.Decimal `json:"amount" validate:"omitempty,gt=0,lte=999999999"`
	Category    *Category        `json:"category"`
	Date        *time.Time       `json:"date"`
}

type ListFilter struct {
	Type      *Type
	Category  *Category
	StartDate *time.Time
	EndDate   *time.Time
}

// Match reports whether tx falls inside the filter. Date bounds are inclusive.
func (f ListFilter) Match(tx *Transaction) bool {
	if f.Type != nil && tx.Type != *f.Type {
		return false
	}

	if f.Category != nil && tx.Category != *f.Category {
		return false
	}

	if f.StartDate != nil && tx.Date.Before(*f.StartDate) {
		return false
	}

	if f.EndDate != nil && tx.Date.After(*f.EndDate) {
		return false
	}

	return true
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Transaction, error) {
	if err := validation.Struct(params); err != nil {
		return nil, err
	}

	if !params.Type.Allows(params.Category) {
		return nil, validation.New("category", fmt.Sprintf("is not a valid %s category", params.Type))
	}

	date := s.now()
	if params.Date != nil {
		date = *params.Date
	}

	tx := &Transaction{
		Type:        params.Type,
		Description: strings.TrimSpace(params.Description),
		Amount:      params.Amount,
		Category:    params.Category,
		Date:        date,
		CreatedAt:   s.now(),
	}
	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, fmt.Errorf("creating transaction: %w", err)
	}

	return tx, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, filter)
}

func (s *Service) Get(ctx context.Context, id int) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

func (s *Service) Update(ctx context.Context, id int, params UpdateParams) (*Transaction, error) {
	if err := validation.Struct(params); err != nil {
		return nil, err
	}

	tx, err := s.repo.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Type != nil {
		tx.Type = *params.Type
	}

	if params.Description != nil {
		tx.Description = strings.TrimSpace(*params.Description)
	}

	if params.Amount != nil {
		tx.Amount = *params.Amount
	}

	if params.Category != nil {
		tx.Category = *params.Category
	}

	if params.Date != nil {
		tx.Date = *params.Date
	}

	if !tx.Type.Allows(tx.Category) {
		return nil, validation.New("category", fmt.Sprintf("is not a valid %s category", tx.Type))
	}

	if err := s.repo.UpdateTransaction(ctx, tx); err != nil {
		return nil, fmt.Errorf("updating transaction: %w", err)
	}

	return tx, nil
}

func (s *Service) Delete(ctx context.Context, id int) error {
	return s.repo.DeleteTransaction(ctx, id)
}
