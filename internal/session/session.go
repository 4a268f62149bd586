// Package session owns the account registry and the single active working copy.
// Every read and write of user data goes through a Manager.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/MrJamesThe3rd/lifemanager/internal/achievement"
	"github.com/MrJamesThe3rd/lifemanager/internal/kv"
	"github.com/MrJamesThe3rd/lifemanager/internal/user"
	"github.com/MrJamesThe3rd/lifemanager/internal/userdata"
	"github.com/MrJamesThe3rd/lifemanager/internal/validation"
)

var ErrNoSession = errors.New("no active session")

// AuthError is a credential mismatch or an unknown account.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	return e.Reason
}

var (
	ErrEmailNotFound = &AuthError{Reason: "email not found"}
	ErrWrongPassword = &AuthError{Reason: "wrong password"}
)

const DefaultPrefix = "lifemanager_"

type active struct {
	user     *user.User
	data     *userdata.Data
	counters userdata.Counters
}

type Manager struct {
	store    kv.Store
	prefix   string
	hasher   user.PasswordHasher
	engine   *achievement.Engine
	now      func() time.Time
	onUnlock func(achievement.Unlocked)

	mu       sync.Mutex
	registry *userdata.Registry
	active   *active
	pending  []achievement.Unlocked
}

type Option func(*Manager)

func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// WithPrefix namespaces every storage key.
func WithPrefix(prefix string) Option {
	return func(m *Manager) {
		m.prefix = prefix
	}
}

func WithHasher(h user.PasswordHasher) Option {
	return func(m *Manager) {
		m.hasher = h
	}
}

func WithEngine(e *achievement.Engine) Option {
	return func(m *Manager) {
		m.engine = e
	}
}

// WithUnlockHook is called once for every achievement unlocked by any pass.
func WithUnlockHook(fn func(achievement.Unlocked)) Option {
	return func(m *Manager) {
		m.onUnlock = fn
	}
}

func NewManager(store kv.Store, opts ...Option) *Manager {
	m := &Manager{
		store:    store,
		prefix:   DefaultPrefix,
		hasher:   user.BcryptHasher{Cost: user.DefaultCost},
		engine:   achievement.NewEngine(),
		now:      time.Now,
		registry: userdata.NewRegistry(),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

func (m *Manager) registryKey() string {
	return m.prefix + "data"
}

func (m *Manager) userKey(email string) string {
	return m.prefix + "user_" + email
}

func (m *Manager) Engine() *achievement.Engine {
	return m.engine
}

// Restore loads the registry and resumes the signed-in user, if any.
// Unreadable blobs fall back to empty defaults.
func (m *Manager) Restore(ctx context.Context) (*user.User, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.registry = m.loadRegistry(ctx)
	m.active = nil

	u, ok := m.registry.Users[m.registry.CurrentUser]
	if !ok {
		m.registry.CurrentUser = ""
		return nil, false
	}

	m.activate(ctx, u)

	return copyUser(u), true
}

func (m *Manager) Register(ctx context.Context, params user.RegisterParams) (*user.User, error) {
	params = params.Normalize()

	m.mu.Lock()
	defer m.mu.Unlock()

	verr := &validation.Error{}
	if err := params.Validate(); err != nil && !errors.As(err, &verr) {
		return nil, err
	}

	if _, exists := m.registry.Users[params.Email]; exists && verr.Message("email") == "" {
		verr.Add("email", "is already registered")
	}

	if err := verr.Err(); err != nil {
		return nil, err
	}

	hash, err := m.hasher.Hash(params.Password)
	if err != nil {
		return nil, fmt.Errorf("registering user: %w", err)
	}

	u := &user.User{
		Email:        params.Email,
		Name:         params.Name,
		PasswordHash: hash,
		Plan:         user.PlanFree,
		CreatedAt:    m.now(),
	}

	m.leave(ctx)

	m.registry.Users[u.Email] = u
	m.active = &active{user: u, data: userdata.New(), counters: userdata.NewCounters()}
	m.registry.CurrentUser = u.Email

	m.afterMutation(ctx)

	return copyUser(u), nil
}

func (m *Manager) Login(ctx context.Context, email, password string) (*user.User, error) {
	email = user.NormalizeEmail(email)

	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.registry.Users[email]
	if !ok {
		return nil, ErrEmailNotFound
	}

	if !m.hasher.Verify(u.PasswordHash, password) {
		return nil, ErrWrongPassword
	}

	if m.hasher.NeedsRehash(u.PasswordHash) {
		if hash, err := m.hasher.Hash(password); err != nil {
			slog.Warn("failed to upgrade password hash", "email", email, "error", err)
		} else {
			u.PasswordHash = hash
		}
	}

	// Signing in again as the active user keeps the working copy, which may
	// hold changes the store has not accepted yet.
	if m.active == nil || m.active.user.Email != email {
		m.leave(ctx)
		m.activate(ctx, u)
	}

	m.afterMutation(ctx)

	return copyUser(u), nil
}

// Logout persists the working copy and clears the active session.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active == nil {
		return ErrNoSession
	}

	m.saveBestEffort(ctx)

	m.active = nil
	m.pending = nil
	m.registry.CurrentUser = ""

	if err := m.saveRegistry(ctx); err != nil {
		slog.Warn("failed to save registry", "error", err)
	}

	return nil
}

// leave persists the current session before another user is activated.
func (m *Manager) leave(ctx context.Context) {
	if m.active == nil {
		return
	}

	m.saveBestEffort(ctx)
	m.active = nil
	m.pending = nil
}

func (m *Manager) activate(ctx context.Context, u *user.User) {
	data, counters := m.loadSnapshot(ctx, u.Email)

	m.active = &active{user: u, data: data, counters: counters}
	m.registry.CurrentUser = u.Email
}

// Current returns a copy of the signed-in user.
func (m *Manager) Current() (*user.User, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active == nil {
		return nil, false
	}

	return copyUser(m.active.user), true
}

// Snapshot returns copies of the signed-in user and their data.
func (m *Manager) Snapshot() (*user.User, *userdata.Data, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active == nil {
		return nil, nil, ErrNoSession
	}

	return copyUser(m.active.user), m.active.data.Clone(), nil
}

// Read runs fn against the live working copy. fn must not keep or modify it.
func (m *Manager) Read(fn func(u *user.User, d *userdata.Data)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active == nil {
		return ErrNoSession
	}

	fn(m.active.user, m.active.data)

	return nil
}

// ReplaceData swaps the whole working copy, as an import does.
func (m *Manager) ReplaceData(ctx context.Context, d *userdata.Data) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active == nil {
		return ErrNoSession
	}

	d = d.Clone()
	d.Normalize()

	m.active.data = d
	m.active.counters.Reconcile(d)

	m.afterMutation(ctx)

	return nil
}

func (m *Manager) UpgradePlan(ctx context.Context) (*user.User, error) {
	return m.modifyUser(ctx, func(u *user.User) error {
		u.Plan = user.PlanPro
		return nil
	})
}

func (m *Manager) UpdateName(ctx context.Context, name string) (*user.User, error) {
	return m.modifyUser(ctx, func(u *user.User) error {
		if err := user.ValidateName(name); err != nil {
			return err
		}

		u.Name = strings.TrimSpace(name)
		return nil
	})
}

// ChangePassword replaces the active user's password after checking the current one.
// The new hash uses the configured hasher.
func (m *Manager) ChangePassword(ctx context.Context, params user.PasswordParams) error {
	_, err := m.modifyUser(ctx, func(u *user.User) error {
		if !m.hasher.Verify(u.PasswordHash, params.Current) {
			return ErrWrongPassword
		}

		if err := params.Validate(); err != nil {
			return err
		}

		hash, err := m.hasher.Hash(params.Password)
		if err != nil {
			return fmt.Errorf("changing password: %w", err)
		}

		u.PasswordHash = hash

		return nil
	})

	return err
}

func (m *Manager) modifyUser(ctx context.Context, fn func(*user.User) error) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active == nil {
		return nil, ErrNoSession
	}

	u := copyUser(m.active.user)
	if err := fn(u); err != nil {
		return nil, err
	}

	*m.active.user = *u

	m.afterMutation(ctx)

	return copyUser(u), nil
}

// Save writes the registry and the active snapshot.
func (m *Manager) Save(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.save(ctx)
}

// Flush runs an achievement pass and saves. The autosave schedule calls it.
func (m *Manager) Flush(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active == nil {
		return ErrNoSession
	}

	m.check()

	return m.save(ctx)
}

// Wipe removes every account and snapshot, in memory and in the store.
func (m *Manager) Wipe(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []error

	for email := range m.registry.Users {
		if err := m.store.Remove(ctx, m.userKey(email)); err != nil {
			errs = append(errs, err)
		}
	}

	if err := m.store.Remove(ctx, m.registryKey()); err != nil {
		errs = append(errs, err)
	}

	m.registry = userdata.NewRegistry()
	m.active = nil
	m.pending = nil

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("wiping data: %w", err)
	}

	return nil
}

type DemoParams struct {
	Name     string
	Email    string
	Password string
}

// SeedDemo adds a pro demo account unless the email is already registered.
// The active session is left alone.
func (m *Manager) SeedDemo(ctx context.Context, params DemoParams) error {
	email := user.NormalizeEmail(params.Email)

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.registry.Users[email]; exists {
		return nil
	}

	hash, err := m.hasher.Hash(params.Password)
	if err != nil {
		return fmt.Errorf("seeding demo user: %w", err)
	}

	m.registry.Users[email] = &user.User{
		Email:        email,
		Name:         params.Name,
		PasswordHash: hash,
		Plan:         user.PlanPro,
		CreatedAt:    m.now(),
	}

	return m.saveRegistry(ctx)
}

// DrainUnlocks returns the achievements unlocked since the last call.
func (m *Manager) DrainUnlocks() []achievement.Unlocked {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := m.pending
	m.pending = nil

	return out
}

func (m *Manager) afterMutation(ctx context.Context) {
	m.check()
	m.saveBestEffort(ctx)
}

// Recheck re-evaluates achievements for cat, or every category when cat is empty,
// and returns what it unlocked. The unlocks are also queued for DrainUnlocks.
func (m *Manager) Recheck(ctx context.Context, cat achievement.Category) ([]achievement.Unlocked, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active == nil {
		return nil, ErrNoSession
	}

	before := len(m.pending)

	if cat == "" {
		m.check()
	} else {
		a := m.active
		m.notify(m.engine.CheckCategory(&a.data.Achievements, a.data.AchievementInput(a.user.CreatedAt), cat, m.now()))
	}

	unlocked := slices.Clone(m.pending[before:])
	if len(unlocked) > 0 {
		m.saveBestEffort(ctx)
	}

	return unlocked, nil
}

func (m *Manager) check() {
	a := m.active
	m.notify(m.engine.CheckAll(&a.data.Achievements, a.data.AchievementInput(a.user.CreatedAt), m.now()))
}

func (m *Manager) notify(unlocked []achievement.Unlocked) {
	for _, u := range unlocked {
		if m.onUnlock != nil {
			m.onUnlock(u)
		}
	}

	m.pending = append(m.pending, unlocked...)
}

func (m *Manager) saveBestEffort(ctx context.Context) {
	if err := m.save(ctx); err != nil {
		slog.Warn("failed to save session, continuing in memory", "error", err)
	}
}

func (m *Manager) save(ctx context.Context) error {
	if m.active != nil {
		snap := userdata.Snapshot{
			UserData:   m.active.data,
			IDCounters: m.active.counters,
			LastSaved:  m.now(),
		}

		b, err := json.Marshal(snap)
		if err != nil {
			return fmt.Errorf("encoding snapshot: %w", err)
		}

		if err := m.store.Set(ctx, m.userKey(m.active.user.Email), b); err != nil {
			return fmt.Errorf("saving snapshot: %w", err)
		}
	}

	return m.saveRegistry(ctx)
}

func (m *Manager) saveRegistry(ctx context.Context) error {
	b, err := json.Marshal(m.registry)
	if err != nil {
		return fmt.Errorf("encoding registry: %w", err)
	}

	if err := m.store.Set(ctx, m.registryKey(), b); err != nil {
		return fmt.Errorf("saving registry: %w", err)
	}

	return nil
}

func (m *Manager) loadRegistry(ctx context.Context) *userdata.Registry {
	reg := userdata.NewRegistry()

	b, err := m.store.Get(ctx, m.registryKey())
	if errors.Is(err, kv.ErrNotFound) {
		return reg
	}

	if err != nil {
		slog.Warn("failed to read registry, starting empty", "error", err)
		return reg
	}

	if err := json.Unmarshal(b, reg); err != nil {
		slog.Warn("corrupt registry, starting empty", "error", err)
		return userdata.NewRegistry()
	}

	if reg.Users == nil {
		reg.Users = make(map[string]*user.User)
	}

	for email, u := range reg.Users {
		if u == nil {
			delete(reg.Users, email)
		}
	}

	return reg
}

func (m *Manager) loadSnapshot(ctx context.Context, email string) (*userdata.Data, userdata.Counters) {
	fresh := func() (*userdata.Data, userdata.Counters) { return userdata.New(), userdata.NewCounters() }

	b, err := m.store.Get(ctx, m.userKey(email))
	if errors.Is(err, kv.ErrNotFound) {
		return fresh()
	}

	if err != nil {
		slog.Warn("failed to read user data, starting empty", "email", email, "error", err)
		return fresh()
	}

	var snap userdata.Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		slog.Warn("corrupt user data, starting empty", "email", email, "error", err)
		return fresh()
	}

	if snap.UserData == nil {
		snap.UserData = userdata.New()
	}

	snap.UserData.Normalize()
	snap.IDCounters.Reconcile(snap.UserData)

	return snap.UserData, snap.IDCounters
}

// Users lists registered emails in sorted order.
func (m *Manager) Users() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	emails := make([]string, 0, len(m.registry.Users))
	for email := range m.registry.Users {
		emails = append(emails, email)
	}

	slices.Sort(emails)

	return emails
}

func copyUser(u *user.User) *user.User {
	c := *u
	return &c
}
