package validation_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/lifemanager/internal/validation"
)

type sample struct {
	Title  string          `json:"title" validate:"notblank,max=10"`
	Email  string          `json:"email" validate:"omitempty,basic_email"`
	Amount decimal.Decimal `json:"amount" validate:"gt=0"`
	Kind   string          `json:"kind" validate:"omitempty,oneof=a b"`
}

func TestStruct(t *testing.T) {
	type testCase struct {
		name       string
		input      sample
		wantFields map[string]string
	}

	tests := []testCase{
		{
			name:  "Valid",
			input: sample{Title: "ok", Email: "ana@x.com", Amount: decimal.NewFromInt(5), Kind: "a"},
		},
		{
			name:  "BlankTitle",
			input: sample{Title: "   ", Amount: decimal.NewFromInt(1)},
			wantFields: map[string]string{
				"title": "is required",
			},
		},
		{
			name:  "EverythingWrong",
			input: sample{Title: "much too long title", Email: "nope", Amount: decimal.NewFromInt(-1), Kind: "c"},
			wantFields: map[string]string{
				"title":  "must be at most 10 characters",
				"email":  "must be a valid email address",
				"amount": "must be greater than 0",
				"kind":   "must be one of: a, b",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validation.Struct(tt.input)

			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}

			var verr *validation.Error
			require.ErrorAs(t, err, &verr)
			assert.True(t, errors.Is(err, validation.ErrInvalid))
			assert.Len(t, verr.Fields, len(tt.wantFields))

			for field, msg := range tt.wantFields {
				assert.Equal(t, msg, verr.Message(field), field)
			}
		})
	}
}

func TestIsEmail(t *testing.T) {
	assert.True(t, validation.IsEmail("ana@x.com"))
	assert.False(t, validation.IsEmail("ana@x"))
	assert.False(t, validation.IsEmail("a na@x.com"))
	assert.False(t, validation.IsEmail("@x.com"))
}

func TestError_Err(t *testing.T) {
	var empty validation.Error
	assert.NoError(t, empty.Err())

	empty.Add("name", "is required")
	assert.Error(t, empty.Err())
	assert.Contains(t, empty.Error(), "name is required")
}
