package achievement

import (
	"cmp"
	"log/slog"
	"math"
	"slices"
	"time"
)

// Engine evaluates a fixed definition table against user data.
type Engine struct {
	defs  []Definition
	index map[string]int
}

func NewEngine() *Engine {
	return NewEngineWith(Definitions())
}

// NewEngineWith builds an engine over a custom table. Later duplicates of an id are ignored.
func NewEngineWith(defs []Definition) *Engine {
	e := &Engine{index: make(map[string]int, len(defs))}

	for _, d := range defs {
		if _, dup := e.index[d.ID]; dup {
			continue
		}

		e.index[d.ID] = len(e.defs)
		e.defs = append(e.defs, d)
	}

	return e
}

func (e *Engine) Definitions() []Definition {
	return slices.Clone(e.defs)
}

func (e *Engine) Lookup(id string) (Definition, bool) {
	i, ok := e.index[id]
	if !ok {
		return Definition{}, false
	}

	return e.defs[i], true
}

// Unlocked is reported for every achievement a pass unlocks.
type Unlocked struct {
	Definition Definition `json:"achievement"`
	Level      int        `json:"level"`
	LevelUp    bool       `json:"levelUp"`
}

// CheckAll records today's activity on the streaks, then unlocks every locked
// achievement whose condition now holds, in table order.
func (e *Engine) CheckAll(st *State, in Input, now time.Time) []Unlocked {
	st.touch(now)
	return e.evaluate(st, collect(in, st, now), func(Definition) bool { return true })
}

// CheckCategory evaluates only one category and leaves the streaks alone.
func (e *Engine) CheckCategory(st *State, in Input, cat Category, now time.Time) []Unlocked {
	return e.evaluate(st, collect(in, st, now), func(d Definition) bool { return d.Category == cat })
}

func (e *Engine) evaluate(st *State, f Facts, include func(Definition) bool) []Unlocked {
	var out []Unlocked

	for _, d := range e.defs {
		if st.Has(d.ID) || !include(d) || !d.met(f) {
			continue
		}

		before := st.Level
		if e.Unlock(st, d.ID) {
			out = append(out, Unlocked{Definition: d, Level: st.Level, LevelUp: st.Level > before})
		}
	}

	return out
}

// Unlock awards id once. It returns false when id is already unlocked or unknown.
func (e *Engine) Unlock(st *State, id string) bool {
	d, ok := e.Lookup(id)
	if !ok {
		slog.Warn("unknown achievement", "id", id)
		return false
	}

	if st.Has(id) {
		return false
	}

	st.Unlocked = append(st.Unlocked, id)
	st.TotalPoints += d.Points
	st.Level = Level(st.TotalPoints)

	return true
}

// Level is floor(sqrt(points/100)) + 1, never below 1.
func Level(points int) int {
	if points <= 0 {
		return 1
	}

	return max(1, int(math.Floor(math.Sqrt(float64(points)/100)))+1)
}

// PointsForNextLevel is the point total at which level+1 is reached.
func PointsForNextLevel(level int) int {
	level = max(level, 1)
	return level * level * 100
}

// LevelProgress is how far points are between the current level and the next, in percent.
func LevelProgress(points int) float64 {
	level := Level(points)
	floor := (level - 1) * (level - 1) * 100
	ceil := PointsForNextLevel(level)

	return clamp(float64(points-floor) / float64(ceil-floor) * 100)
}

// Progress estimates how close id is to unlocking: 100 once unlocked,
// the ramp ratio for ramped achievements and 0 for binary or unknown ones.
func (e *Engine) Progress(st *State, in Input, id string, now time.Time) float64 {
	return e.progress(st, collect(in, st, now), id)
}

func (e *Engine) progress(st *State, f Facts, id string) float64 {
	d, ok := e.Lookup(id)
	if !ok {
		return 0
	}

	if st.Has(id) {
		return 100
	}

	if !d.ramped() {
		return 0
	}

	return clamp(d.Value(f) / d.Target * 100)
}

type Status struct {
	Definition Definition `json:"achievement"`
	Unlocked   bool       `json:"unlocked"`
	Progress   float64    `json:"progress"`
}

// List reports every achievement with its unlock state and progress.
func (e *Engine) List(st *State, in Input, now time.Time) []Status {
	f := collect(in, st, now)

	out := make([]Status, 0, len(e.defs))
	for _, d := range e.defs {
		out = append(out, Status{Definition: d, Unlocked: st.Has(d.ID), Progress: e.progress(st, f, d.ID)})
	}

	return out
}

// Suggested returns up to n locked achievements with some progress, closest first.
func (e *Engine) Suggested(st *State, in Input, n int, now time.Time) []Status {
	f := collect(in, st, now)

	var out []Status

	for _, d := range e.defs {
		if st.Has(d.ID) {
			continue
		}

		if p := e.progress(st, f, d.ID); p > 0 {
			out = append(out, Status{Definition: d, Progress: p})
		}
	}

	slices.SortStableFunc(out, func(a, b Status) int { return cmp.Compare(b.Progress, a.Progress) })

	if len(out) > n {
		out = out[:max(n, 0)]
	}

	return out
}

type Stats struct {
	TotalPoints        int     `json:"totalPoints"`
	Level              int     `json:"level"`
	LevelProgress      float64 `json:"levelProgress"`
	PointsForNextLevel int     `json:"pointsForNextLevel"`
	Unlocked           int     `json:"unlockedCount"`
	Total              int     `json:"totalAchievements"`
	Completion         float64 `json:"completionPercentage"`
	DailyStreak        int     `json:"dailyStreak"`
	WeeklyStreak       int     `json:"weeklyStreak"`
}

// Stats summarises st. Unlocked ids missing from the table are not counted.
func (e *Engine) Stats(st *State) Stats {
	unlocked := 0
	for _, id := range st.Unlocked {
		if _, ok := e.index[id]; ok {
			unlocked++
		}
	}

	level := Level(st.TotalPoints)

	stats := Stats{
		TotalPoints:        st.TotalPoints,
		Level:              level,
		LevelProgress:      LevelProgress(st.TotalPoints),
		PointsForNextLevel: PointsForNextLevel(level),
		Unlocked:           unlocked,
		Total:              len(e.defs),
		DailyStreak:        st.Streaks.Daily,
		WeeklyStreak:       st.Streaks.Weekly,
	}

	if stats.Total > 0 {
		stats.Completion = math.Round(float64(unlocked) / float64(stats.Total) * 100)
	}

	return stats
}

func clamp(p float64) float64 {
	if math.IsNaN(p) {
		return 0
	}

	return math.Min(math.Max(p, 0), 100)
}
