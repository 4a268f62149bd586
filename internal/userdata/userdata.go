// Package userdata holds the per-user working copy and the blobs it is persisted as.
package userdata

import (
	"time"

	"github.com/MrJamesThe3rd/lifemanager/internal/achievement"
	"github.com/MrJamesThe3rd/lifemanager/internal/goal"
	"github.com/MrJamesThe3rd/lifemanager/internal/profile"
	"github.com/MrJamesThe3rd/lifemanager/internal/task"
	"github.com/MrJamesThe3rd/lifemanager/internal/team"
	"github.com/MrJamesThe3rd/lifemanager/internal/transaction"
	"github.com/MrJamesThe3rd/lifemanager/internal/user"
)

// Settings are app-level toggles that are not part of the profile.
type Settings struct {
	AutoSave bool `json:"autoSave"`
}

// Data is everything one user owns.
type Data struct {
	Tasks        []*task.Task               `json:"tasks"`
	Transactions []*transaction.Transaction `json:"transactions"`
	Goals        []*goal.Goal               `json:"goals"`
	TeamMembers  []*team.Member             `json:"teamMembers"`
	Profile      profile.Profile            `json:"profile"`
	Achievements achievement.State          `json:"achievements"`
	Settings     Settings                   `json:"settings"`
}

func New() *Data {
	return &Data{
		Tasks:        []*task.Task{},
		Transactions: []*transaction.Transaction{},
		Goals:        []*goal.Goal{},
		TeamMembers:  []*team.Member{},
		Profile:      profile.Default(),
		Achievements: achievement.NewState(),
		Settings:     Settings{AutoSave: true},
	}
}

// Normalize replaces missing collections with empty ones and repairs derived fields.
func (d *Data) Normalize() {
	if d.Tasks == nil {
		d.Tasks = []*task.Task{}
	}

	if d.Transactions == nil {
		d.Transactions = []*transaction.Transaction{}
	}

	if d.Goals == nil {
		d.Goals = []*goal.Goal{}
	}

	if d.TeamMembers == nil {
		d.TeamMembers = []*team.Member{}
	}

	for _, g := range d.Goals {
		g.Normalize()
	}

	if d.Profile == (profile.Profile{}) {
		d.Profile = profile.Default()
	}

	d.Achievements.Normalize()
}

// Clone returns a deep copy.
func (d *Data) Clone() *Data {
	c := &Data{
		Tasks:        make([]*task.Task, 0, len(d.Tasks)),
		Transactions: make([]*transaction.Transaction, 0, len(d.Transactions)),
		Goals:        make([]*goal.Goal, 0, len(d.Goals)),
		TeamMembers:  make([]*team.Member, 0, len(d.TeamMembers)),
		Profile:      d.Profile,
		Achievements: d.Achievements.Clone(),
		Settings:     d.Settings,
	}

	for _, t := range d.Tasks {
		c.Tasks = append(c.Tasks, t.Clone())
	}

	for _, tx := range d.Transactions {
		c.Transactions = append(c.Transactions, tx.Clone())
	}

	for _, g := range d.Goals {
		c.Goals = append(c.Goals, g.Clone())
	}

	for _, m := range d.TeamMembers {
		c.TeamMembers = append(c.TeamMembers, m.Clone())
	}

	return c
}

// AchievementInput exposes the data achievement predicates read.
func (d *Data) AchievementInput(joinedAt time.Time) achievement.Input {
	return achievement.Input{
		Tasks:        d.Tasks,
		Transactions: d.Transactions,
		Goals:        d.Goals,
		TeamSize:     len(d.TeamMembers),
		Profile:      d.Profile,
		JoinedAt:     joinedAt,
	}
}

// Counters hand out record ids. Each value is the next id to assign.
type Counters struct {
	Task        int `json:"task"`
	Transaction int `json:"transaction"`
	Goal        int `json:"goal"`
	Invite      int `json:"invite"`
}

func NewCounters() Counters {
	return Counters{Task: 1, Transaction: 1, Goal: 1, Invite: 1}
}

func next(c *int) int {
	if *c < 1 {
		*c = 1
	}

	id := *c
	*c++

	return id
}

func (c *Counters) NextTask() int        { return next(&c.Task) }
func (c *Counters) NextTransaction() int { return next(&c.Transaction) }
func (c *Counters) NextGoal() int        { return next(&c.Goal) }
func (c *Counters) NextInvite() int      { return next(&c.Invite) }

// Reconcile raises every counter above the largest id present in d, so imported records are never reused.
func (c *Counters) Reconcile(d *Data) {
	for _, t := range d.Tasks {
		c.Task = max(c.Task, t.ID+1)
	}

	for _, tx := range d.Transactions {
		c.Transaction = max(c.Transaction, tx.ID+1)
	}

	for _, g := range d.Goals {
		c.Goal = max(c.Goal, g.ID+1)
	}

	for _, m := range d.TeamMembers {
		c.Invite = max(c.Invite, m.ID+1)
	}

	c.Task = max(c.Task, 1)
	c.Transaction = max(c.Transaction, 1)
	c.Goal = max(c.Goal, 1)
	c.Invite = max(c.Invite, 1)
}

// Snapshot is the per-user blob written on every save.
type Snapshot struct {
	UserData   *Data     `json:"userData"`
	IDCounters Counters  `json:"idCounters"`
	LastSaved  time.Time `json:"lastSaved"`
}

// Registry is the global blob listing every account and the signed-in email.
type Registry struct {
	Users       map[string]*user.User `json:"users"`
	CurrentUser string                `json:"currentUser,omitempty"`
}

func NewRegistry() *Registry {
	return &Registry{Users: make(map[string]*user.User)}
}
