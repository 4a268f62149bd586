package backup

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/lifemanager/internal/backup"
	"github.com/MrJamesThe3rd/lifemanager/internal/http/response"
)

// Wiper clears every account and snapshot from storage.
type Wiper interface {
	Wipe(ctx context.Context) error
}

type Handler struct {
	svc   *backup.Service
	wiper Wiper
}

func NewHandler(svc *backup.Service, wiper Wiper) *Handler {
	return &Handler{svc: svc, wiper: wiper}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.export)
	r.Post("/", h.importBackup)
	r.Delete("/", h.wipe)
}

func (h *Handler) export(w http.ResponseWriter, r *http.Request) {
	doc, err := h.svc.Export()
	if err != nil {
		response.Error(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", backup.Filename(doc)))

	if err := backup.Encode(w, doc); err != nil {
		response.Error(w, err)
	}
}

type importResponse struct {
	ID      string       `json:"id"`
	Version string       `json:"version"`
	User    backup.Owner `json:"user"`
	Tasks   int          `json:"tasks"`
	Goals   int          `json:"goals"`
	Txs     int          `json:"transactions"`
}

// importBackup accepts the raw document as the request body.
func (h *Handler) importBackup(w http.ResponseWriter, r *http.Request) {
	doc, err := h.svc.Import(r.Context(), r.Body)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.JSON(w, http.StatusOK, importResponse{
		ID:      doc.ID,
		Version: doc.Version,
		User:    doc.User,
		Tasks:   len(doc.Data.Tasks),
		Goals:   len(doc.Data.Goals),
		Txs:     len(doc.Data.Transactions),
	})
}

// wipe deletes all stored data and ends the session, so the caller's token stops working.
func (h *Handler) wipe(w http.ResponseWriter, r *http.Request) {
	if err := h.wiper.Wipe(r.Context()); err != nil {
		response.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
