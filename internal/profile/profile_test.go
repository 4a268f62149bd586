package profile_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/lifemanager/internal/profile"
	"github.com/MrJamesThe3rd/lifemanager/internal/validation"
)

func TestDefault(t *testing.T) {
	p := profile.Default()

	assert.Equal(t, profile.ThemeDefault, p.Theme)
	assert.Equal(t, profile.LanguagePortuguese, p.Language)
	assert.Equal(t, "BRL", p.Currency)
	assert.True(t, p.Notifications)
	assert.True(t, p.SoundEffects)
	assert.False(t, p.EmailUpdates)
	assert.False(t, p.TwoFactor)
	assert.False(t, p.IsComplete())
}

func TestService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := profile.NewMockRepository(ctrl)
	repo.EXPECT().GetProfile(gomock.Any()).Return(profile.Default(), nil)
	repo.EXPECT().SaveProfile(gomock.Any(), gomock.Any()).Return(nil)

	got, err := profile.NewService(repo).Update(context.Background(), profile.UpdateParams{
		Phone:     new(" 555-0100 "),
		Company:   new("Acme"),
		Theme:     new(profile.ThemeOcean),
		Currency:  new("usd"),
		TwoFactor: new(true),
	})
	require.NoError(t, err)

	assert.Equal(t, "555-0100", got.Phone)
	assert.True(t, got.IsComplete())
	assert.Equal(t, profile.ThemeOcean, got.Theme)
	assert.Equal(t, "USD", got.Currency)
	assert.True(t, got.TwoFactor)
	assert.True(t, got.Notifications)
}

func TestService_Update_Invalid(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	_, err := profile.NewService(profile.NewMockRepository(ctrl)).Update(context.Background(), profile.UpdateParams{
		Theme:    new(profile.Theme("neon")),
		Language: new(profile.Language("fr-FR")),
	})

	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	assert.NotEmpty(t, verr.Message("theme"))
	assert.NotEmpty(t, verr.Message("language"))
}
