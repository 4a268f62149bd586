package response_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/lifemanager/internal/backup"
	"github.com/MrJamesThe3rd/lifemanager/internal/goal"
	"github.com/MrJamesThe3rd/lifemanager/internal/http/response"
	"github.com/MrJamesThe3rd/lifemanager/internal/session"
	"github.com/MrJamesThe3rd/lifemanager/internal/validation"
)

func TestError(t *testing.T) {
	type testCase struct {
		name     string
		err      error
		want     int
		wantBody string
	}

	tests := []testCase{
		{
			name:     "validation",
			err:      validation.New("title", "is required"),
			want:     http.StatusUnprocessableEntity,
			wantBody: `{"error":"validation failed","fields":[{"field":"title","message":"is required"}]}`,
		},
		{name: "wrong password", err: session.ErrWrongPassword, want: http.StatusUnauthorized},
		{name: "no session", err: fmt.Errorf("listing: %w", session.ErrNoSession), want: http.StatusUnauthorized},
		{name: "not found", err: fmt.Errorf("x: %w", goal.ErrNotFound), want: http.StatusNotFound},
		{name: "bad backup", err: &backup.ImportFormatError{Reason: "missing data"}, want: http.StatusBadRequest},
		{name: "unexpected", err: errors.New("disk on fire"), want: http.StatusInternalServerError, wantBody: `{"error":"internal error"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			response.Error(rec, tt.err)

			assert.Equal(t, tt.want, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}
