package team

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/lifemanager/internal/http/auth"
	"github.com/MrJamesThe3rd/lifemanager/internal/http/response"
	"github.com/MrJamesThe3rd/lifemanager/internal/team"
)

type Handler struct {
	svc *team.Service
}

func NewHandler(svc *team.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.invite)
	r.Get("/", h.list)
	r.Patch("/{email}/role", h.changeRole)
	r.Patch("/{email}/status", h.setStatus)
	r.Delete("/{email}", h.remove)
}

func (h *Handler) invite(w http.ResponseWriter, r *http.Request) {
	var req team.InviteParams
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	req.InvitedBy = auth.Email(r.Context())

	m, err := h.svc.Invite(r.Context(), req)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, m)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	members, err := h.svc.List(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}

	response.JSON(w, http.StatusOK, members)
}

type changeRoleRequest struct {
	Role team.Role `json:"role"`
}

func (h *Handler) changeRole(w http.ResponseWriter, r *http.Request) {
	var req changeRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	m, err := h.svc.ChangeRole(r.Context(), chi.URLParam(r, "email"), req.Role)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.JSON(w, http.StatusOK, m)
}

type setStatusRequest struct {
	Status team.Status `json:"status"`
}

func (h *Handler) setStatus(w http.ResponseWriter, r *http.Request) {
	var req setStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	m, err := h.svc.SetStatus(r.Context(), chi.URLParam(r, "email"), req.Status)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.JSON(w, http.StatusOK, m)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Remove(r.Context(), chi.URLParam(r, "email")); err != nil {
		response.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
