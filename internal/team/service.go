package team

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/lifemanager/internal/validation"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=team
type Repository interface {
	// AddMember assigns the next invite id to member before storing it.
	AddMember(ctx context.Context, member *Member) error
	GetMember(ctx context.Context, email string) (*Member, error)
	ListMembers(ctx context.Context) ([]*Member, error)
	UpdateMember(ctx context.Context, member *Member) error
	RemoveMember(ctx context.Context, email string) error
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

type InviteParams struct {
	Email     string `json:"email" validate:"required,basic_email"`
	Role      Role   `json:"role" validate:"required,oneof=admin member viewer"`
	Message   string `json:"message" validate:"max=500"`
	InvitedBy string `json:"-"`
}

// Invite adds a member straight away as active.
func (s *Service) Invite(ctx context.Context, params InviteParams) (*Member, error) {
	params.Email = strings.ToLower(strings.TrimSpace(params.Email))

	if err := validation.Struct(params); err != nil {
		return nil, err
	}

	if params.Email == strings.ToLower(params.InvitedBy) {
		return nil, validation.New("email", "cannot invite yourself")
	}

	_, err := s.repo.GetMember(ctx, params.Email)
	switch {
	case err == nil:
		return nil, validation.New("email", "is already a team member")
	case !errors.Is(err, ErrNotFound):
		return nil, fmt.Errorf("looking up member: %w", err)
	}

	m := &Member{
		Email:     params.Email,
		Role:      params.Role,
		Status:    StatusActive,
		JoinedAt:  s.now(),
		InvitedBy: params.InvitedBy,
		Message:   strings.TrimSpace(params.Message),
	}
	if err := s.repo.AddMember(ctx, m); err != nil {
		return nil, fmt.Errorf("adding member: %w", err)
	}

	return m, nil
}

func (s *Service) List(ctx context.Context) ([]*Member, error) {
	return s.repo.ListMembers(ctx)
}

func (s *Service) ChangeRole(ctx context.Context, email string, role Role) (*Member, error) {
	switch role {
	case RoleAdmin, RoleMember, RoleViewer:
	default:
		return nil, validation.New("role", "must be one of: admin, member, viewer")
	}

	return s.modify(ctx, email, func(m *Member) { m.Role = role })
}

func (s *Service) SetStatus(ctx context.Context, email string, status Status) (*Member, error) {
	if status != StatusActive && status != StatusInactive {
		return nil, validation.New("status", "must be one of: active, inactive")
	}

	return s.modify(ctx, email, func(m *Member) { m.Status = status })
}

func (s *Service) Remove(ctx context.Context, email string) error {
	return s.repo.RemoveMember(ctx, strings.ToLower(strings.TrimSpace(email)))
}

func (s *Service) modify(ctx context.Context, email string, fn func(*Member)) (*Member, error) {
	m, err := s.repo.GetMember(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}

	fn(m)

	if err := s.repo.UpdateMember(ctx, m); err != nil {
		return nil, fmt.Errorf("updating member: %w", err)
	}

	return m, nil
}
