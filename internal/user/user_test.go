package user_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/MrJamesThe3rd/lifemanager/internal/user"
	"github.com/MrJamesThe3rd/lifemanager/internal/validation"
)

func TestRegisterParams_Validate(t *testing.T) {
	type testCase struct {
		name      string
		params    user.RegisterParams
		wantField string
	}

	tests := []testCase{
		{
			name:   "Valid",
			params: user.RegisterParams{Name: "Ana", Email: "ana@x.com", Password: "abcdef", ConfirmPassword: "abcdef"},
		},
		{
			name:      "ShortName",
			params:    user.RegisterParams{Name: " A ", Email: "ana@x.com", Password: "abcdef", ConfirmPassword: "abcdef"},
			wantField: "name",
		},
		{
			name:      "BadEmail",
			params:    user.RegisterParams{Name: "Ana", Email: "ana.x.com", Password: "abcdef", ConfirmPassword: "abcdef"},
			wantField: "email",
		},
		{
			name:      "ShortPassword",
			params:    user.RegisterParams{Name: "Ana", Email: "ana@x.com", Password: "abc", ConfirmPassword: "abc"},
			wantField: "password",
		},
		{
			name:      "Mismatch",
			params:    user.RegisterParams{Name: "Ana", Email: "ana@x.com", Password: "abcdef", ConfirmPassword: "abcdeg"},
			wantField: "confirmPassword",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Normalize().Validate()

			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			var verr *validation.Error
			require.ErrorAs(t, err, &verr)
			assert.NotEmpty(t, verr.Message(tt.wantField))
		})
	}
}

func TestRegisterParams_Normalize(t *testing.T) {
	p := user.RegisterParams{Name: "  Ana  ", Email: "  Ana@X.com "}.Normalize()

	assert.Equal(t, "Ana", p.Name)
	assert.Equal(t, "ana@x.com", p.Email)
}

func TestBcryptHasher(t *testing.T) {
	h, err := user.NewHasher(user.SchemeBcrypt, bcrypt.MinCost)
	require.NoError(t, err)

	hash, err := h.Hash("secret1")
	require.NoError(t, err)

	assert.True(t, h.Verify(hash, "secret1"))
	assert.False(t, h.Verify(hash, "secret2"))
	assert.False(t, h.NeedsRehash(hash))

	legacy, err := user.LegacyHasher{}.Hash("secret1")
	require.NoError(t, err)

	assert.True(t, h.Verify(legacy, "secret1"))
	assert.True(t, h.NeedsRehash(legacy))
}

func TestLegacyHasher(t *testing.T) {
	h, err := user.NewHasher(user.SchemeLegacy, 0)
	require.NoError(t, err)

	hash, err := h.Hash("demo123")
	require.NoError(t, err)

	assert.Equal(t, "ZGVtbzEyMw==", hash)
	assert.True(t, h.Verify(hash, "demo123"))
	assert.False(t, h.Verify(hash, "demo124"))
}

func TestNewHasher_Unknown(t *testing.T) {
	_, err := user.NewHasher("md5", 0)
	assert.Error(t, err)
}
