package achievement

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/lifemanager/internal/achievement"
	"github.com/MrJamesThe3rd/lifemanager/internal/http/response"
	"github.com/MrJamesThe3rd/lifemanager/internal/user"
	"github.com/MrJamesThe3rd/lifemanager/internal/userdata"
)

const defaultSuggested = 3

type Session interface {
	Read(fn func(u *user.User, d *userdata.Data)) error
	Engine() *achievement.Engine
	DrainUnlocks() []achievement.Unlocked
	Recheck(ctx context.Context, cat achievement.Category) ([]achievement.Unlocked, error)
}

type Handler struct {
	sess Session
	now  func() time.Time
}

func NewHandler(sess Session) *Handler {
	return &Handler{sess: sess, now: time.Now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/stats", h.stats)
	r.Get("/suggested", h.suggested)
	r.Get("/unlocks", h.unlocks)
	r.Post("/check", h.check)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	category := achievement.Category(r.URL.Query().Get("category"))

	var out []achievement.Status

	err := h.sess.Read(func(u *user.User, d *userdata.Data) {
		for _, s := range h.sess.Engine().List(&d.Achievements, d.AchievementInput(u.CreatedAt), h.now()) {
			if category == "" || s.Definition.Category == category {
				out = append(out, s)
			}
		}
	})
	if err != nil {
		response.Error(w, err)
		return
	}

	response.JSON(w, http.StatusOK, out)
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	var stats achievement.Stats

	err := h.sess.Read(func(_ *user.User, d *userdata.Data) {
		stats = h.sess.Engine().Stats(&d.Achievements)
	})
	if err != nil {
		response.Error(w, err)
		return
	}

	response.JSON(w, http.StatusOK, stats)
}

func (h *Handler) suggested(w http.ResponseWriter, r *http.Request) {
	limit := defaultSuggested

	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			response.BadRequest(w, "invalid limit")
			return
		}

		limit = n
	}

	out := []achievement.Status{}

	err := h.sess.Read(func(u *user.User, d *userdata.Data) {
		out = append(out, h.sess.Engine().Suggested(&d.Achievements, d.AchievementInput(u.CreatedAt), limit, h.now())...)
	})
	if err != nil {
		response.Error(w, err)
		return
	}

	response.JSON(w, http.StatusOK, out)
}

// unlocks returns and clears the notifications queued since the last call.
func (h *Handler) unlocks(w http.ResponseWriter, r *http.Request) {
	out := h.sess.DrainUnlocks()
	if out == nil {
		out = []achievement.Unlocked{}
	}

	response.JSON(w, http.StatusOK, out)
}

// check forces an evaluation pass, limited to ?category= when given.
func (h *Handler) check(w http.ResponseWriter, r *http.Request) {
	out, err := h.sess.Recheck(r.Context(), achievement.Category(r.URL.Query().Get("category")))
	if err != nil {
		response.Error(w, err)
		return
	}

	if out == nil {
		out = []achievement.Unlocked{}
	}

	response.JSON(w, http.StatusOK, out)
}
