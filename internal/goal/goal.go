package goal

import (
	"encoding/json"
	"errors"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/lifemanager/internal/datetime"
)

var ErrNotFound = errors.New("goal not found")

type Type string

const (
	TypeFinancial Type = "financial"
	TypePersonal  Type = "personal"
)

func (t Type) Valid() bool {
	return t == TypeFinancial || t == TypePersonal
}

// Financial holds the fields only a money goal has.
type Financial struct {
	Amount        decimal.Decimal `json:"amount"`
	CurrentAmount decimal.Decimal `json:"currentAmount"`
}

// Personal holds the fields only a personal goal has.
type Personal struct {
	Progress float64 `json:"progress"`
}

// Goal is either financial or personal. Exactly one of Financial and Personal is set, matching Type.
type Goal struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	Type        Type       `json:"type"`
	Deadline    time.Time  `json:"deadline"`
	Description string     `json:"description,omitempty"`
	Financial   *Financial `json:"financial,omitempty"`
	Personal    *Personal  `json:"personal,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	OwnerID     string     `json:"userId"`
}

// UnmarshalJSON also reads records that keep amount, currentAmount and progress
// at the top level, with a bare YYYY-MM-DD deadline.
func (g *Goal) UnmarshalJSON(b []byte) error {
	type plain Goal

	var in struct {
		plain
		Deadline      json.RawMessage  `json:"deadline"`
		Amount        *decimal.Decimal `json:"amount"`
		CurrentAmount *decimal.Decimal `json:"currentAmount"`
		Progress      *float64         `json:"progress"`
	}
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}

	*g = Goal(in.plain)

	deadline, err := datetime.DecodeDeadline(in.Deadline)
	if err != nil {
		return err
	}

	if deadline != nil {
		g.Deadline = *deadline
	}

	switch {
	case g.Type == TypeFinancial && g.Financial == nil && (in.Amount != nil || in.CurrentAmount != nil):
		g.Financial = &Financial{}
		if in.Amount != nil {
			g.Financial.Amount = *in.Amount
		}

		if in.CurrentAmount != nil {
			g.Financial.CurrentAmount = *in.CurrentAmount
		}
	case g.Type == TypePersonal && g.Personal == nil && in.Progress != nil:
		g.Personal = &Personal{Progress: *in.Progress}
	}

	return nil
}

// Progress is the raw completion percentage. Financial goals above target exceed 100.
func (g *Goal) Progress() float64 {
	switch {
	case g.Financial != nil:
		if !g.Financial.Amount.IsPositive() {
			return 0
		}

		return g.Financial.CurrentAmount.Div(g.Financial.Amount).Mul(decimal.NewFromInt(100)).InexactFloat64()
	case g.Personal != nil:
		return g.Personal.Progress
	}

	return 0
}

// ClampedProgress is Progress limited to [0, 100].
func (g *Goal) ClampedProgress() float64 {
	p := g.Progress()
	if math.IsNaN(p) {
		return 0
	}

	return math.Min(math.Max(p, 0), 100)
}

func (g *Goal) IsCompleted() bool {
	switch {
	case g.Financial != nil:
		return g.Financial.Amount.IsPositive() && g.Financial.CurrentAmount.GreaterThanOrEqual(g.Financial.Amount)
	case g.Personal != nil:
		return g.Personal.Progress >= 100
	}

	return false
}

// InProgress reports a started but unfinished goal.
func (g *Goal) InProgress() bool {
	if g.IsCompleted() {
		return false
	}

	switch {
	case g.Financial != nil:
		return g.Financial.CurrentAmount.IsPositive()
	case g.Personal != nil:
		return g.Personal.Progress > 0
	}

	return false
}

func (g *Goal) IsOverdue(now time.Time) bool {
	return !g.IsCompleted() && g.Deadline.Before(now)
}

// DaysLeft counts whole days until the deadline, rounding up; negative once it has passed.
func (g *Goal) DaysLeft(now time.Time) int {
	return int(math.Ceil(g.Deadline.Sub(now).Hours() / 24))
}

type Status string

const (
	StatusCompleted Status = "completed"
	StatusOverdue   Status = "overdue"
	StatusUrgent    Status = "urgent"
	StatusActive    Status = "active"
	StatusPending   Status = "pending"
)

// Status is the badge shown next to a goal.
func (g *Goal) Status(now time.Time) Status {
	switch {
	case g.IsCompleted():
		return StatusCompleted
	case g.IsOverdue(now):
		return StatusOverdue
	case g.DaysLeft(now) <= 7:
		return StatusUrgent
	case g.Progress() > 0:
		return StatusActive
	}

	return StatusPending
}

// Normalize fills the variant matching Type, so records written without it stay usable.
func (g *Goal) Normalize() {
	switch g.Type {
	case TypeFinancial:
		g.Personal = nil
		if g.Financial == nil {
			g.Financial = &Financial{}
		}
	case TypePersonal:
		g.Financial = nil
		if g.Personal == nil {
			g.Personal = &Personal{}
		}
	}
}

func (g *Goal) Clone() *Goal {
	c := *g
	if g.Financial != nil {
		f := *g.Financial
		c.Financial = &f
	}

	if g.Personal != nil {
		p := *g.Personal
		c.Personal = &p
	}

	if g.CompletedAt != nil {
		c.CompletedAt = new(*g.CompletedAt)
	}

	return &c
}
