package team

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("team member not found")

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
	RoleViewer Role = "viewer"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Member is someone added to the user's team. Invites take effect immediately.
type Member struct {
	ID        int       `json:"id"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	Status    Status    `json:"status"`
	JoinedAt  time.Time `json:"joinedAt"`
	InvitedBy string    `json:"invitedBy"`
	Message   string    `json:"message,omitempty"`
}

func (m *Member) Clone() *Member {
	c := *m
	return &c
}
