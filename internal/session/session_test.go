package session_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/MrJamesThe3rd/lifemanager/internal/achievement"
	"github.com/MrJamesThe3rd/lifemanager/internal/kv"
	"github.com/MrJamesThe3rd/lifemanager/internal/kv/memory"
	"github.com/MrJamesThe3rd/lifemanager/internal/session"
	"github.com/MrJamesThe3rd/lifemanager/internal/task"
	"github.com/MrJamesThe3rd/lifemanager/internal/user"
	"github.com/MrJamesThe3rd/lifemanager/internal/userdata"
	"github.com/MrJamesThe3rd/lifemanager/internal/validation"
)

var fixedNow = time.Date(2024, 3, 14, 15, 0, 0, 0, time.UTC)

func newManager(t *testing.T, store kv.Store) *session.Manager {
	t.Helper()

	return session.NewManager(store,
		session.WithClock(func() time.Time { return fixedNow }),
		session.WithHasher(user.BcryptHasher{Cost: bcrypt.MinCost}),
		session.WithPrefix("lm_"),
	)
}

func register(t *testing.T, m *session.Manager, name, email string) *user.User {
	t.Helper()

	u, err := m.Register(context.Background(), user.RegisterParams{
		Name: name, Email: email, Password: "abcdef", ConfirmPassword: "abcdef",
	})
	require.NoError(t, err)

	return u
}

func TestRegister(t *testing.T) {
	m := newManager(t, memory.New())
	ctx := context.Background()

	u := register(t, m, "Ana", "ana@x.com")

	assert.Equal(t, user.PlanFree, u.Plan)
	assert.Equal(t, "ana@x.com", u.Email)
	assert.NotEqual(t, "abcdef", u.PasswordHash)

	current, ok := m.Current()
	require.True(t, ok)
	assert.Equal(t, "ana@x.com", current.Email)

	_, err := m.Register(ctx, user.RegisterParams{
		Name: "Ana", Email: "ANA@x.com", Password: "abcdef", ConfirmPassword: "abcdef",
	})
	require.ErrorIs(t, err, validation.ErrInvalid)

	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "is already registered", verr.Message("email"))
}

func TestRegister_Invalid(t *testing.T) {
	type testCase struct {
		name   string
		params user.RegisterParams
		field  string
	}

	tests := []testCase{
		{name: "short name", params: user.RegisterParams{Name: "A", Email: "a@x.com", Password: "abcdef", ConfirmPassword: "abcdef"}, field: "name"},
		{name: "bad email", params: user.RegisterParams{Name: "Ana", Email: "ana@x", Password: "abcdef", ConfirmPassword: "abcdef"}, field: "email"},
		{name: "short password", params: user.RegisterParams{Name: "Ana", Email: "ana@x.com", Password: "abc", ConfirmPassword: "abc"}, field: "password"},
		{name: "mismatch", params: user.RegisterParams{Name: "Ana", Email: "ana@x.com", Password: "abcdef", ConfirmPassword: "abcdeg"}, field: "confirmPassword"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newManager(t, memory.New())

			_, err := m.Register(context.Background(), tt.params)

			var verr *validation.Error
			require.ErrorAs(t, err, &verr)
			assert.NotEmpty(t, verr.Message(tt.field))
			assert.Empty(t, m.Users())

			_, ok := m.Current()
			assert.False(t, ok)
		})
	}
}

func TestLogin(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	m := newManager(t, store)
	register(t, m, "Ana", "ana@x.com")

	_, err := task.NewService(m).Create(ctx, task.CreateParams{Title: "Pay rent"})
	require.NoError(t, err)
	require.NoError(t, m.Logout(ctx))

	_, err = m.Login(ctx, "bob@x.com", "abcdef")
	require.ErrorIs(t, err, session.ErrEmailNotFound)

	_, err = m.Login(ctx, "ana@x.com", "wrong!")
	require.ErrorIs(t, err, session.ErrWrongPassword)

	var aerr *session.AuthError
	require.ErrorAs(t, err, &aerr)

	// A fresh manager over the same store sees the persisted data.
	other := newManager(t, store)
	other.Restore(ctx)

	u, err := other.Login(ctx, " Ana@X.com ", "abcdef")
	require.NoError(t, err)
	assert.Equal(t, "Ana", u.Name)

	tasks, err := other.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Pay rent", tasks[0].Title)
	assert.Equal(t, "ana@x.com", tasks[0].OwnerID)
}

func TestLogin_UpgradesLegacyHash(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	legacy := session.NewManager(store, session.WithHasher(user.LegacyHasher{}), session.WithPrefix("lm_"))
	require.NoError(t, legacy.SeedDemo(ctx, session.DemoParams{Name: "Demo", Email: "demo@x.com", Password: "demo123"}))

	m := newManager(t, store)
	m.Restore(ctx)

	_, err := m.Login(ctx, "demo@x.com", "demo123")
	require.NoError(t, err)

	raw, err := store.Get(ctx, "lm_data")
	require.NoError(t, err)

	var reg userdata.Registry
	require.NoError(t, json.Unmarshal(raw, &reg))
	assert.Equal(t, user.PlanPro, reg.Users["demo@x.com"].Plan)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(reg.Users["demo@x.com"].PasswordHash), []byte("demo123")))
}

func TestLogout(t *testing.T) {
	m := newManager(t, memory.New())
	ctx := context.Background()

	require.ErrorIs(t, m.Logout(ctx), session.ErrNoSession)

	register(t, m, "Ana", "ana@x.com")
	require.NoError(t, m.Logout(ctx))

	_, ok := m.Current()
	assert.False(t, ok)

	_, err := m.ListTasks(ctx)
	assert.ErrorIs(t, err, session.ErrNoSession)

	_, _, err = m.Snapshot()
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestRestore(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	m := newManager(t, store)
	register(t, m, "Ana", "ana@x.com")

	restored := newManager(t, store)
	u, ok := restored.Restore(ctx)
	require.True(t, ok)
	assert.Equal(t, "ana@x.com", u.Email)

	_, data, err := restored.Snapshot()
	require.NoError(t, err)
	assert.True(t, data.Achievements.Has("early_adopter"))
}

func TestRestore_CorruptBlobs(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	m := newManager(t, store)
	register(t, m, "Ana", "ana@x.com")

	require.NoError(t, store.Set(ctx, "lm_user_ana@x.com", []byte("{not json")))

	restored := newManager(t, store)
	_, ok := restored.Restore(ctx)
	require.True(t, ok)

	_, data, err := restored.Snapshot()
	require.NoError(t, err)
	assert.Empty(t, data.Tasks)

	require.NoError(t, store.Set(ctx, "lm_data", []byte("[]")))

	empty := newManager(t, store)
	_, ok = empty.Restore(ctx)
	assert.False(t, ok)
	assert.Empty(t, empty.Users())
}

type failingStore struct {
	*memory.Store
	fail bool
}

func (s *failingStore) Set(ctx context.Context, key string, value []byte) error {
	if s.fail {
		return kv.Wrap("set", key, errors.New("quota exceeded"))
	}

	return s.Store.Set(ctx, key, value)
}

func TestWriteFailureKeepsSessionInMemory(t *testing.T) {
	store := &failingStore{Store: memory.New()}
	ctx := context.Background()

	m := newManager(t, store)
	register(t, m, "Ana", "ana@x.com")

	store.fail = true

	created, err := task.NewService(m).Create(ctx, task.CreateParams{Title: "Offline"})
	require.NoError(t, err)

	got, err := m.GetTask(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Offline", got.Title)

	var perr *kv.PersistenceError
	require.ErrorAs(t, m.Save(ctx), &perr)
}

func TestIDsAreNeverReused(t *testing.T) {
	m := newManager(t, memory.New())
	ctx := context.Background()
	register(t, m, "Ana", "ana@x.com")

	svc := task.NewService(m)

	first, err := svc.Create(ctx, task.CreateParams{Title: "One"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, first.ID))

	second, err := svc.Create(ctx, task.CreateParams{Title: "Two"})
	require.NoError(t, err)

	assert.Equal(t, 1, first.ID)
	assert.Equal(t, 2, second.ID)
}

func TestCreateThenGetTask(t *testing.T) {
	m := newManager(t, memory.New())
	ctx := context.Background()
	register(t, m, "Ana", "ana@x.com")

	svc := task.NewService(m, task.WithClock(func() time.Time { return fixedNow }))
	deadline := fixedNow.AddDate(0, 0, 3)

	created, err := svc.Create(ctx, task.CreateParams{
		Title: "Ship release", Description: "v2", Priority: task.PriorityHigh, Deadline: &deadline,
	})
	require.NoError(t, err)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
	assert.Equal(t, task.StatusTodo, got.Status)

	// Returned records are copies.
	got.Title = "mutated"

	again, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ship release", again.Title)
}

func TestDrainUnlocks(t *testing.T) {
	var hooked []string

	m := session.NewManager(memory.New(),
		session.WithClock(func() time.Time { return fixedNow }),
		session.WithHasher(user.LegacyHasher{}),
		session.WithUnlockHook(func(u achievement.Unlocked) { hooked = append(hooked, u.Definition.ID) }),
	)
	ctx := context.Background()
	register(t, m, "Ana", "ana@x.com")

	first := m.DrainUnlocks()
	require.Len(t, first, 1)
	assert.Equal(t, "early_adopter", first[0].Definition.ID)

	_, err := task.NewService(m).Create(ctx, task.CreateParams{Title: "First"})
	require.NoError(t, err)

	second := m.DrainUnlocks()
	require.Len(t, second, 1)
	assert.Equal(t, "first_task", second[0].Definition.ID)
	assert.Empty(t, m.DrainUnlocks())
	assert.Equal(t, []string{"early_adopter", "first_task"}, hooked)
}

func TestReplaceData(t *testing.T) {
	m := newManager(t, memory.New())
	ctx := context.Background()
	register(t, m, "Ana", "ana@x.com")

	d := userdata.New()
	d.Tasks = append(d.Tasks, &task.Task{ID: 7, Title: "Imported", Status: task.StatusTodo, Priority: task.PriorityLow})

	require.NoError(t, m.ReplaceData(ctx, d))

	created, err := task.NewService(m).Create(ctx, task.CreateParams{Title: "After import"})
	require.NoError(t, err)
	assert.Equal(t, 8, created.ID)

	d.Tasks[0].Title = "changed by caller"

	got, err := m.GetTask(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "Imported", got.Title)
}

func TestUserEdits(t *testing.T) {
	m := newManager(t, memory.New())
	ctx := context.Background()
	register(t, m, "Ana", "ana@x.com")

	u, err := m.UpgradePlan(ctx)
	require.NoError(t, err)
	assert.Equal(t, user.PlanPro, u.Plan)

	_, err = m.UpdateName(ctx, "A")
	require.ErrorIs(t, err, validation.ErrInvalid)

	u, err = m.UpdateName(ctx, "Ana Maria")
	require.NoError(t, err)
	assert.Equal(t, "Ana Maria", u.Name)
	assert.Equal(t, user.PlanPro, u.Plan)
}

func TestWipe(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	m := newManager(t, store)
	register(t, m, "Ana", "ana@x.com")
	register(t, m, "Bob", "bob@x.com")

	require.NoError(t, m.Wipe(ctx))

	assert.Empty(t, store.Keys())
	assert.Empty(t, m.Users())

	_, ok := m.Current()
	assert.False(t, ok)
}

func TestSeedDemo_KeepsExisting(t *testing.T) {
	m := newManager(t, memory.New())
	ctx := context.Background()
	register(t, m, "Ana", "ana@x.com")

	require.NoError(t, m.SeedDemo(ctx, session.DemoParams{Name: "Demo", Email: "ana@x.com", Password: "demo123"}))

	_, err := m.Login(ctx, "ana@x.com", "abcdef")
	require.NoError(t, err)
}

func TestRecheck(t *testing.T) {
	m := newManager(t, memory.New())
	ctx := context.Background()

	_, err := m.Recheck(ctx, "")
	require.ErrorIs(t, err, session.ErrNoSession)

	register(t, m, "Ana", "ana@x.com")
	register(t, m, "Bea", "bea@x.com")
	assert.Equal(t, []string{"ana@x.com", "bea@x.com"}, m.Users())

	unlocked, err := m.Recheck(ctx, achievement.CategoryTasks)
	require.NoError(t, err)
	assert.Empty(t, unlocked)

	unlocked, err = m.Recheck(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, unlocked)
}

func TestLogin_SameUserKeepsWorkingCopy(t *testing.T) {
	store := &failingStore{Store: memory.New()}
	ctx := context.Background()

	m := newManager(t, store)
	register(t, m, "Ana", "ana@x.com")

	store.fail = true

	_, err := task.NewService(m).Create(ctx, task.CreateParams{Title: "Unsaved"})
	require.NoError(t, err)

	_, err = m.Login(ctx, "ana@x.com", "abcdef")
	require.NoError(t, err)

	tasks, err := m.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Unsaved", tasks[0].Title)

	// The counter survives too, so the next id is not reused.
	next, err := task.NewService(m).Create(ctx, task.CreateParams{Title: "Second"})
	require.NoError(t, err)
	assert.Equal(t, 2, next.ID)
}

func TestChangePassword(t *testing.T) {
	type testCase struct {
		name      string
		params    user.PasswordParams
		wantErr   error
		wantField string
	}

	tests := []testCase{
		{
			name:   "changed",
			params: user.PasswordParams{Current: "abcdef", Password: "newpass", ConfirmPassword: "newpass"},
		},
		{
			name:    "wrong current",
			params:  user.PasswordParams{Current: "nope!!", Password: "newpass", ConfirmPassword: "newpass"},
			wantErr: session.ErrWrongPassword,
		},
		{
			name:      "too short",
			params:    user.PasswordParams{Current: "abcdef", Password: "abc", ConfirmPassword: "abc"},
			wantField: "newPassword",
		},
		{
			name:      "mismatch",
			params:    user.PasswordParams{Current: "abcdef", Password: "newpass", ConfirmPassword: "newpas"},
			wantField: "confirmPassword",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.New()
			ctx := context.Background()

			m := newManager(t, store)
			register(t, m, "Ana", "ana@x.com")

			err := m.ChangePassword(ctx, tt.params)

			switch {
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
			case tt.wantField != "":
				var verr *validation.Error
				require.ErrorAs(t, err, &verr)
				assert.NotEmpty(t, verr.Message(tt.wantField))
			default:
				require.NoError(t, err)
			}

			require.NoError(t, m.Logout(ctx))

			want, stale := "abcdef", tt.params.Password
			if tt.wantErr == nil && tt.wantField == "" {
				want, stale = tt.params.Password, "abcdef"
			}

			_, err = m.Login(ctx, "ana@x.com", stale)
			require.ErrorIs(t, err, session.ErrWrongPassword)

			_, err = m.Login(ctx, "ana@x.com", want)
			require.NoError(t, err)

			raw, err := store.Get(ctx, "lm_data")
			require.NoError(t, err)

			var reg userdata.Registry
			require.NoError(t, json.Unmarshal(raw, &reg))
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(reg.Users["ana@x.com"].PasswordHash), []byte(want)))
		})
	}

	t.Run("no session", func(t *testing.T) {
		m := newManager(t, memory.New())
		err := m.ChangePassword(context.Background(), user.PasswordParams{Current: "abcdef", Password: "newpass", ConfirmPassword: "newpass"})
		assert.ErrorIs(t, err, session.ErrNoSession)
	})
}
