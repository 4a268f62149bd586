// Package response writes JSON bodies and maps core errors to status codes.
package response

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/lifemanager/internal/backup"
	"github.com/MrJamesThe3rd/lifemanager/internal/goal"
	"github.com/MrJamesThe3rd/lifemanager/internal/session"
	"github.com/MrJamesThe3rd/lifemanager/internal/task"
	"github.com/MrJamesThe3rd/lifemanager/internal/team"
	"github.com/MrJamesThe3rd/lifemanager/internal/transaction"
	"github.com/MrJamesThe3rd/lifemanager/internal/validation"
)

type errorBody struct {
	Error  string                  `json:"error"`
	Fields []validation.FieldError `json:"fields,omitempty"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Error writes err with the status its kind maps to. Unexpected errors are logged and hidden.
func Error(w http.ResponseWriter, err error) {
	var (
		verr *validation.Error
		aerr *session.AuthError
		ferr *backup.ImportFormatError
	)

	switch {
	case errors.As(err, &verr):
		JSON(w, http.StatusUnprocessableEntity, errorBody{Error: "validation failed", Fields: verr.Fields})
	case errors.As(err, &aerr):
		JSON(w, http.StatusUnauthorized, errorBody{Error: aerr.Reason})
	case errors.Is(err, session.ErrNoSession):
		JSON(w, http.StatusUnauthorized, errorBody{Error: err.Error()})
	case errors.As(err, &ferr):
		JSON(w, http.StatusBadRequest, errorBody{Error: ferr.Error()})
	case isNotFound(err):
		JSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
	default:
		slog.Error("request failed", "error", err)
		JSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

func isNotFound(err error) bool {
	for _, target := range []error{task.ErrNotFound, transaction.ErrNotFound, goal.ErrNotFound, team.ErrNotFound} {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}

// BadRequest reports a malformed request body or parameter.
func BadRequest(w http.ResponseWriter, msg string) {
	JSON(w, http.StatusBadRequest, errorBody{Error: msg})
}

// IDParam parses the {id} URL parameter, answering 400 when it is not an integer.
func IDParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		BadRequest(w, "invalid id")
		return 0, false
	}

	return id, true
}
