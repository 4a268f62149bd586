package report

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/lifemanager/internal/http/response"
	"github.com/MrJamesThe3rd/lifemanager/internal/metrics"
	"github.com/MrJamesThe3rd/lifemanager/internal/report"
)

type Handler struct {
	svc *report.Service
}

func NewHandler(svc *report.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/financial", h.financial)
}

// financial renders JSON by default, or plain text with ?format=text.
// ?download=true adds a Content-Disposition header.
func (h *Handler) financial(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	rep, err := h.svc.Financial(metrics.Period(q.Get("period")))
	if err != nil {
		response.Error(w, err)
		return
	}

	if q.Get("download") == "true" {
		name := rep.Filename()
		if q.Get("format") == "text" {
			name = strings.TrimSuffix(name, ".json") + ".txt"
		}

		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	}

	if q.Get("format") == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		if _, err := io.WriteString(w, rep.Text()); err != nil {
			slog.Error("failed to write report", "error", err)
		}

		return
	}

	response.JSON(w, http.StatusOK, rep)
}
