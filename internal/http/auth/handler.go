package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/lifemanager/internal/http/response"
	"github.com/MrJamesThe3rd/lifemanager/internal/session"
	"github.com/MrJamesThe3rd/lifemanager/internal/user"
)

type contextKey struct{}

// Email returns the authenticated email stored by Require.
func Email(ctx context.Context) string {
	email, _ := ctx.Value(contextKey{}).(string)
	return email
}

type Handler struct {
	sess   *session.Manager
	tokens *Tokens
}

func NewHandler(sess *session.Manager, tokens *Tokens) *Handler {
	return &Handler{sess: sess, tokens: tokens}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/register", h.register)
	r.Post("/login", h.login)

	r.Group(func(r chi.Router) {
		r.Use(h.Require)
		r.Post("/logout", h.logout)
		r.Get("/me", h.me)
		r.Patch("/me", h.updateMe)
		r.Post("/me/upgrade", h.upgrade)
		r.Post("/me/password", h.changePassword)
	})
}

// Require rejects requests whose bearer token does not belong to the signed-in user.
func (h *Handler) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || raw == "" {
			response.JSON(w, http.StatusUnauthorized, map[string]string{"error": "missing bearer token"})
			return
		}

		email, err := h.tokens.Verify(raw)
		if err != nil {
			response.JSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
			return
		}

		current, ok := h.sess.Current()
		if !ok || current.Email != email {
			response.Error(w, session.ErrNoSession)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), contextKey{}, email)))
	})
}

type userResponse struct {
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Plan      user.Plan `json:"plan"`
	CreatedAt time.Time `json:"createdAt"`
}

func toUserResponse(u *user.User) userResponse {
	return userResponse{Email: u.Email, Name: u.Name, Plan: u.Plan, CreatedAt: u.CreatedAt}
}

type tokenResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      userResponse `json:"user"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req user.RegisterParams
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	u, err := h.sess.Register(r.Context(), req)
	if err != nil {
		response.Error(w, err)
		return
	}

	h.respondWithToken(w, http.StatusCreated, u)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	u, err := h.sess.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(w, err)
		return
	}

	h.respondWithToken(w, http.StatusOK, u)
}

func (h *Handler) respondWithToken(w http.ResponseWriter, status int, u *user.User) {
	token, expires, err := h.tokens.Issue(u.Email)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.JSON(w, status, tokenResponse{Token: token, ExpiresAt: expires, User: toUserResponse(u)})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sess.Logout(r.Context()); err != nil {
		response.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	u, ok := h.sess.Current()
	if !ok {
		response.Error(w, session.ErrNoSession)
		return
	}

	response.JSON(w, http.StatusOK, toUserResponse(u))
}

type updateMeRequest struct {
	Name string `json:"name"`
}

func (h *Handler) updateMe(w http.ResponseWriter, r *http.Request) {
	var req updateMeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	u, err := h.sess.UpdateName(r.Context(), req.Name)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.JSON(w, http.StatusOK, toUserResponse(u))
}

func (h *Handler) upgrade(w http.ResponseWriter, r *http.Request) {
	u, err := h.sess.UpgradePlan(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}

	response.JSON(w, http.StatusOK, toUserResponse(u))
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	var req user.PasswordParams
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	if err := h.sess.ChangePassword(r.Context(), req); err != nil {
		response.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
