package profile

import (
	"context"
	"fmt"
	"strings"

	"github.com/MrJamesThe3rd/lifemanager/internal/validation"
)

type Theme string

const (
	ThemeDefault Theme = "default"
	ThemeDark    Theme = "dark"
	ThemeLight   Theme = "light"
	ThemeNature  Theme = "nature"
	ThemeOcean   Theme = "ocean"
)

type Language string

const (
	LanguagePortuguese Language = "pt-BR"
	LanguageEnglish    Language = "en-US"
	LanguageSpanish    Language = "es-ES"
)

// Profile holds the user's contact details and preferences.
type Profile struct {
	Phone         string   `json:"phone"`
	Company       string   `json:"company"`
	Avatar        string   `json:"avatar"`
	Theme         Theme    `json:"theme"`
	Language      Language `json:"language"`
	Currency      string   `json:"currency"`
	Notifications bool     `json:"notifications"`
	EmailUpdates  bool     `json:"emailUpdates"`
	SoundEffects  bool     `json:"soundEffects"`
	TwoFactor     bool     `json:"twoFactor"`
}

func Default() Profile {
	return Profile{
		Theme:         ThemeDefault,
		Language:      LanguagePortuguese,
		Currency:      "BRL",
		Notifications: true,
		SoundEffects:  true,
	}
}

// IsComplete reports whether both phone and company are filled in.
func (p Profile) IsComplete() bool {
	return strings.TrimSpace(p.Phone) != "" && strings.TrimSpace(p.Company) != ""
}

//go:generate mockgen -source=profile.go -destination=repository_mock.go -package=profile
type Repository interface {
	GetProfile(ctx context.Context) (Profile, error)
	SaveProfile(ctx context.Context, p Profile) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type UpdateParams struct {
	Phone         *string   `json:"phone" validate:"omitempty,max=50"`
	Company       *string   `json:"company" validate:"omitempty,max=50"`
	Avatar        *string   `json:"avatar" validate:"omitempty,max=500"`
	Theme         *Theme    `json:"theme" validate:"omitempty,oneof=default dark light nature ocean"`
	Language      *Language `json:"language" validate:"omitempty,oneof=pt-BR en-US es-ES"`
	Currency      *string   `json:"currency" validate:"omitempty,len=3"`
	Notifications *bool     `json:"notifications"`
	EmailUpdates  *bool     `json:"emailUpdates"`
	SoundEffects  *bool     `json:"soundEffects"`
	TwoFactor     *bool     `json:"twoFactor"`
}

func (s *Service) Get(ctx context.Context) (Profile, error) {
	return s.repo.GetProfile(ctx)
}

func (s *Service) Update(ctx context.Context, params UpdateParams) (Profile, error) {
	if err := validation.Struct(params); err != nil {
		return Profile{}, err
	}

	p, err := s.repo.GetProfile(ctx)
	if err != nil {
		return Profile{}, err
	}

	setString(&p.Phone, params.Phone)
	setString(&p.Company, params.Company)
	setString(&p.Avatar, params.Avatar)

	if params.Theme != nil {
		p.Theme = *params.Theme
	}

	if params.Language != nil {
		p.Language = *params.Language
	}

	if params.Currency != nil {
		p.Currency = strings.ToUpper(*params.Currency)
	}

	setBool(&p.Notifications, params.Notifications)
	setBool(&p.EmailUpdates, params.EmailUpdates)
	setBool(&p.SoundEffects, params.SoundEffects)
	setBool(&p.TwoFactor, params.TwoFactor)

	if err := s.repo.SaveProfile(ctx, p); err != nil {
		return Profile{}, fmt.Errorf("saving profile: %w", err)
	}

	return p, nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
