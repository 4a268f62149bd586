package task

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/lifemanager/internal/http/response"
	"github.com/MrJamesThe3rd/lifemanager/internal/task"
)

type Handler struct {
	svc *task.Service
	now func() time.Time
}

func NewHandler(svc *task.Service) *Handler {
	return &Handler{svc: svc, now: time.Now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Delete("/{id}", h.delete)
	r.Patch("/{id}/status", h.updateStatus)
	r.Patch("/{id}", h.update)
	r.Post("/{id}/duplicate", h.duplicate)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req task.CreateParams
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	t, err := h.svc.Create(r.Context(), req)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, toResponse(t, h.now()))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := task.Filter{
		Deadline: task.DeadlineWindow(q.Get("deadline")),
		Search:   q.Get("search"),
	}

	if s := q.Get("status"); s != "" {
		filter.Status = new(task.Status(s))
	}

	if s := q.Get("priority"); s != "" {
		filter.Priority = new(task.Priority(s))
	}

	tasks, err := h.svc.List(r.Context(), filter, task.SortBy(q.Get("sort")))
	if err != nil {
		response.Error(w, err)
		return
	}

	response.JSON(w, http.StatusOK, toResponseList(tasks, h.now()))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := response.IDParam(w, r)
	if !ok {
		return
	}

	t, err := h.svc.Get(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.JSON(w, http.StatusOK, toResponse(t, h.now()))
}

func (h *Handler) duplicate(w http.ResponseWriter, r *http.Request) {
	id, ok := response.IDParam(w, r)
	if !ok {
		return
	}

	t, err := h.svc.Duplicate(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, toResponse(t, h.now()))
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

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := response.IDParam(w, r)
	if !ok {
		return
	}

	var req task.UpdateParams
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	t, err := h.svc.Update(r.Context(), id, req)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.JSON(w, http.StatusOK, toResponse(t, h.now()))
}

type updateStatusRequest struct {
	Status task.Status `json:"status"`
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := response.IDParam(w, r)
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	t, err := h.svc.SetStatus(r.Context(), id, req.Status)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.JSON(w, http.StatusOK, toResponse(t, h.now()))
}
