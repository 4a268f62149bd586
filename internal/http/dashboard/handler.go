package dashboard

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/lifemanager/internal/http/response"
	"github.com/MrJamesThe3rd/lifemanager/internal/metrics"
	"github.com/MrJamesThe3rd/lifemanager/internal/user"
	"github.com/MrJamesThe3rd/lifemanager/internal/userdata"
)

type Session interface {
	Snapshot() (*user.User, *userdata.Data, error)
}

type Handler struct {
	sess Session
	now  func() time.Time
}

func NewHandler(sess Session) *Handler {
	return &Handler{sess: sess, now: time.Now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.get)
	r.Get("/finances", h.finances)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	_, data, err := h.sess.Snapshot()
	if err != nil {
		response.Error(w, err)
		return
	}

	response.JSON(w, http.StatusOK, metrics.BuildDashboard(data.Tasks, data.Transactions, data.Goals, h.now()))
}

type financesResponse struct {
	Period     metrics.Period           `json:"period"`
	Summary    metrics.Financial        `json:"summary"`
	Stats      metrics.TransactionStats `json:"stats"`
	Categories []metrics.CategoryTotal  `json:"categories"`
}

func (h *Handler) finances(w http.ResponseWriter, r *http.Request) {
	period := metrics.Period(r.URL.Query().Get("period"))
	if period == "" {
		period = metrics.PeriodMonth
	}

	if !period.Valid() {
		response.BadRequest(w, "period must be one of: week, month, year, all")
		return
	}

	_, data, err := h.sess.Snapshot()
	if err != nil {
		response.Error(w, err)
		return
	}

	now := h.now()
	txs := metrics.InPeriod(data.Transactions, period, now)

	response.JSON(w, http.StatusOK, financesResponse{
		Period:     period,
		Summary:    metrics.FinancialSummary(data.Transactions, period, now),
		Stats:      metrics.SummarizeTransactions(txs),
		Categories: metrics.CategoryBreakdown(txs),
	})
}
