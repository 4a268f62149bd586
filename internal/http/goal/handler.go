package goal

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/lifemanager/internal/goal"
	"github.com/MrJamesThe3rd/lifemanager/internal/http/response"
)

type Handler struct {
	svc *goal.Service
	now func() time.Time
}

func NewHandler(svc *goal.Service) *Handler {
	return &Handler{svc: svc, now: time.Now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Patch("/{id}/progress", h.updateProgress)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req goal.CreateParams
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	g, err := h.svc.Create(r.Context(), req)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, toResponse(g, h.now()))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	goals, err := h.svc.List(r.Context(), goal.Filter(q.Get("filter")), goal.SortBy(q.Get("sort")))
	if err != nil {
		response.Error(w, err)
		return
	}

	response.JSON(w, http.StatusOK, toResponseList(goals, h.now()))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := response.IDParam(w, r)
	if !ok {
		return
	}

	g, err := h.svc.Get(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.JSON(w, http.StatusOK, toResponse(g, h.now()))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := response.IDParam(w, r)
	if !ok {
		return
	}

	var req goal.UpdateParams
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	g, err := h.svc.Update(r.Context(), id, req)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.JSON(w, http.StatusOK, toResponse(g, h.now()))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := response.IDParam(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		response.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// updateProgressRequest carries progress for personal goals or currentAmount for financial ones.
type updateProgressRequest struct {
	Progress      *float64         `json:"progress,omitempty"`
	CurrentAmount *decimal.Decimal `json:"currentAmount,omitempty"`
}

func (h *Handler) updateProgress(w http.ResponseWriter, r *http.Request) {
	id, ok := response.IDParam(w, r)
	if !ok {
		return
	}

	var req updateProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	var (
		g   *goal.Goal
		err error
	)

	switch {
	case req.Progress != nil:
		g, err = h.svc.SetProgress(r.Context(), id, *req.Progress)
	case req.CurrentAmount != nil:
		g, err = h.svc.SetCurrentAmount(r.Context(), id, *req.CurrentAmount)
	default:
		response.BadRequest(w, "progress or currentAmount is required")
		return
	}

	if err != nil {
		response.Error(w, err)
		return
	}

	response.JSON(w, http.StatusOK, toResponse(g, h.now()))
}
