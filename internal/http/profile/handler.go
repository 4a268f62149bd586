package profile

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/lifemanager/internal/http/response"
	"github.com/MrJamesThe3rd/lifemanager/internal/profile"
)

type Handler struct {
	svc *profile.Service
}

func NewHandler(svc *profile.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.get)
	r.Patch("/", h.update)
}

type profileResponse struct {
	profile.Profile

	Complete bool `json:"complete"`
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Get(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}

	response.JSON(w, http.StatusOK, profileResponse{Profile: p, Complete: p.IsComplete()})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req profile.UpdateParams
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	p, err := h.svc.Update(r.Context(), req)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.JSON(w, http.StatusOK, profileResponse{Profile: p, Complete: p.IsComplete()})
}
