package session

import (
	"context"
	"slices"

	"github.com/MrJamesThe3rd/lifemanager/internal/goal"
	"github.com/MrJamesThe3rd/lifemanager/internal/profile"
	"github.com/MrJamesThe3rd/lifemanager/internal/task"
	"github.com/MrJamesThe3rd/lifemanager/internal/team"
	"github.com/MrJamesThe3rd/lifemanager/internal/transaction"
)

// The Manager is the repository for every per-user collection. Records are
// copied in and out so callers never share memory with the working copy.
var (
	_ task.Repository        = (*Manager)(nil)
	_ transaction.Repository = (*Manager)(nil)
	_ goal.Repository        = (*Manager)(nil)
	_ team.Repository        = (*Manager)(nil)
	_ profile.Repository     = (*Manager)(nil)
)

// mutate runs fn under the lock and, when it succeeds, re-checks achievements and saves.
func (m *Manager) mutate(ctx context.Context, fn func(a *active) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active == nil {
		return ErrNoSession
	}

	if err := fn(m.active); err != nil {
		return err
	}

	m.afterMutation(ctx)

	return nil
}

func (m *Manager) view(fn func(a *active) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active == nil {
		return ErrNoSession
	}

	return fn(m.active)
}

func indexByID[T any](items []*T, id int, idOf func(*T) int) int {
	return slices.IndexFunc(items, func(it *T) bool { return idOf(it) == id })
}

func taskID(t *task.Task) int                      { return t.ID }
func transactionID(t *transaction.Transaction) int { return t.ID }
func goalID(g *goal.Goal) int                      { return g.ID }

func (m *Manager) CreateTask(ctx context.Context, t *task.Task) error {
	return m.mutate(ctx, func(a *active) error {
		t.ID = a.counters.NextTask()
		t.OwnerID = a.user.Email
		a.data.Tasks = append(a.data.Tasks, t.Clone())

		return nil
	})
}

func (m *Manager) GetTask(_ context.Context, id int) (*task.Task, error) {
	var out *task.Task

	err := m.view(func(a *active) error {
		i := indexByID(a.data.Tasks, id, taskID)
		if i < 0 {
			return task.ErrNotFound
		}

		out = a.data.Tasks[i].Clone()

		return nil
	})

	return out, err
}

func (m *Manager) ListTasks(_ context.Context) ([]*task.Task, error) {
	var out []*task.Task

	err := m.view(func(a *active) error {
		out = make([]*task.Task, 0, len(a.data.Tasks))
		for _, t := range a.data.Tasks {
			out = append(out, t.Clone())
		}

		return nil
	})

	return out, err
}

func (m *Manager) UpdateTask(ctx context.Context, t *task.Task) error {
	return m.mutate(ctx, func(a *active) error {
		i := indexByID(a.data.Tasks, t.ID, taskID)
		if i < 0 {
			return task.ErrNotFound
		}

		a.data.Tasks[i] = t.Clone()

		return nil
	})
}

func (m *Manager) DeleteTask(ctx context.Context, id int) error {
	return m.mutate(ctx, func(a *active) error {
		i := indexByID(a.data.Tasks, id, taskID)
		if i < 0 {
			return task.ErrNotFound
		}

		a.data.Tasks = slices.Delete(a.data.Tasks, i, i+1)

		return nil
	})
}

func (m *Manager) CreateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	return m.mutate(ctx, func(a *active) error {
		tx.ID = a.counters.NextTransaction()
		tx.OwnerID = a.user.Email
		a.data.Transactions = append(a.data.Transactions, tx.Clone())

		return nil
	})
}

func (m *Manager) GetTransaction(_ context.Context, id int) (*transaction.Transaction, error) {
	var out *transaction.Transaction

	err := m.view(func(a *active) error {
		i := indexByID(a.data.Transactions, id, transactionID)
		if i < 0 {
			return transaction.ErrNotFound
		}

		out = a.data.Transactions[i].Clone()

		return nil
	})

	return out, err
}

func (m *Manager) UpdateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	return m.mutate(ctx, func(a *active) error {
		i := indexByID(a.data.Transactions, tx.ID, transactionID)
		if i < 0 {
			return transaction.ErrNotFound
		}

		a.data.Transactions[i] = tx.Clone()

		return nil
	})
}

func (m *Manager) ListTransactions(_ context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	var out []*transaction.Transaction

	err := m.view(func(a *active) error {
		out = make([]*transaction.Transaction, 0, len(a.data.Transactions))
		for _, tx := range a.data.Transactions {
			if filter.Match(tx) {
				out = append(out, tx.Clone())
			}
		}

		return nil
	})

	return out, err
}

func (m *Manager) DeleteTransaction(ctx context.Context, id int) error {
	return m.mutate(ctx, func(a *active) error {
		i := indexByID(a.data.Transactions, id, transactionID)
		if i < 0 {
			return transaction.ErrNotFound
		}

		a.data.Transactions = slices.Delete(a.data.Transactions, i, i+1)

		return nil
	})
}

func (m *Manager) CreateGoal(ctx context.Context, g *goal.Goal) error {
	return m.mutate(ctx, func(a *active) error {
		g.ID = a.counters.NextGoal()
		g.OwnerID = a.user.Email
		a.data.Goals = append(a.data.Goals, g.Clone())

		return nil
	})
}

func (m *Manager) GetGoal(_ context.Context, id int) (*goal.Goal, error) {
	var out *goal.Goal

	err := m.view(func(a *active) error {
		i := indexByID(a.data.Goals, id, goalID)
		if i < 0 {
			return goal.ErrNotFound
		}

		out = a.data.Goals[i].Clone()

		return nil
	})

	return out, err
}

func (m *Manager) ListGoals(_ context.Context) ([]*goal.Goal, error) {
	var out []*goal.Goal

	err := m.view(func(a *active) error {
		out = make([]*goal.Goal, 0, len(a.data.Goals))
		for _, g := range a.data.Goals {
			out = append(out, g.Clone())
		}

		return nil
	})

	return out, err
}

func (m *Manager) UpdateGoal(ctx context.Context, g *goal.Goal) error {
	return m.mutate(ctx, func(a *active) error {
		i := indexByID(a.data.Goals, g.ID, goalID)
		if i < 0 {
			return goal.ErrNotFound
		}

		a.data.Goals[i] = g.Clone()

		return nil
	})
}

func (m *Manager) DeleteGoal(ctx context.Context, id int) error {
	return m.mutate(ctx, func(a *active) error {
		i := indexByID(a.data.Goals, id, goalID)
		if i < 0 {
			return goal.ErrNotFound
		}

		a.data.Goals = slices.Delete(a.data.Goals, i, i+1)

		return nil
	})
}

func memberIndex(members []*team.Member, email string) int {
	return slices.IndexFunc(members, func(mb *team.Member) bool { return mb.Email == email })
}

func (m *Manager) AddMember(ctx context.Context, mb *team.Member) error {
	return m.mutate(ctx, func(a *active) error {
		mb.ID = a.counters.NextInvite()
		a.data.TeamMembers = append(a.data.TeamMembers, mb.Clone())

		return nil
	})
}

func (m *Manager) GetMember(_ context.Context, email string) (*team.Member, error) {
	var out *team.Member

	err := m.view(func(a *active) error {
		i := memberIndex(a.data.TeamMembers, email)
		if i < 0 {
			return team.ErrNotFound
		}

		out = a.data.TeamMembers[i].Clone()

		return nil
	})

	return out, err
}

func (m *Manager) ListMembers(_ context.Context) ([]*team.Member, error) {
	var out []*team.Member

	err := m.view(func(a *active) error {
		out = make([]*team.Member, 0, len(a.data.TeamMembers))
		for _, mb := range a.data.TeamMembers {
			out = append(out, mb.Clone())
		}

		return nil
	})

	return out, err
}

func (m *Manager) UpdateMember(ctx context.Context, mb *team.Member) error {
	return m.mutate(ctx, func(a *active) error {
		i := memberIndex(a.data.TeamMembers, mb.Email)
		if i < 0 {
			return team.ErrNotFound
		}

		a.data.TeamMembers[i] = mb.Clone()

		return nil
	})
}

func (m *Manager) RemoveMember(ctx context.Context, email string) error {
	return m.mutate(ctx, func(a *active) error {
		i := memberIndex(a.data.TeamMembers, email)
		if i < 0 {
			return team.ErrNotFound
		}

		a.data.TeamMembers = slices.Delete(a.data.TeamMembers, i, i+1)

		return nil
	})
}

func (m *Manager) GetProfile(_ context.Context) (profile.Profile, error) {
	var out profile.Profile

	err := m.view(func(a *active) error {
		out = a.data.Profile
		return nil
	})

	return out, err
}

func (m *Manager) SaveProfile(ctx context.Context, p profile.Profile) error {
	return m.mutate(ctx, func(a *active) error {
		a.data.Profile = p
		return nil
	})
}
