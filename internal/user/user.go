package user

import (
	"strings"
	"time"

	"github.com/MrJamesThe3rd/lifemanager/internal/validation"
)

type Plan string

const (
	PlanFree Plan = "free"
	PlanPro  Plan = "pro"
)

// User is keyed by its lower-cased email, which never changes.
type User struct {
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"password"`
	Plan         Plan      `json:"plan"`
	CreatedAt    time.Time `json:"createdAt"`
}

type RegisterParams struct {
	Name            string `json:"name" validate:"notblank,min=2,max=50"`
	Email           string `json:"email" validate:"required,basic_email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Normalize trims the name and canonicalises the email before validation.
func (p RegisterParams) Normalize() RegisterParams {
	p.Name = strings.TrimSpace(p.Name)
	p.Email = NormalizeEmail(p.Email)

	return p
}

func (p RegisterParams) Validate() error {
	return validation.Struct(p)
}

func ValidateName(name string) error {
	name = strings.TrimSpace(name)

	n := len([]rune(name))
	switch {
	case n < 2:
		return validation.New("name", "must be at least 2 characters")
	case n > 50:
		return validation.New("name", "must be at most 50 characters")
	}

	return nil
}

// PasswordParams is a password change. Current is checked by the caller.
type PasswordParams struct {
	Current         string `json:"currentPassword" validate:"required"`
	Password        string `json:"newPassword" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

func (p PasswordParams) Validate() error {
	return validation.Struct(p)
}
