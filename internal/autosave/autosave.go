// Package autosave periodically flushes the active session to storage.
package autosave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"

	"github.com/MrJamesThe3rd/lifemanager/internal/session"
)

const DefaultInterval = 30 * time.Second

const (
	resultOK      = "ok"
	resultSkipped = "skipped"
	resultError   = "error"
)

// Flusher re-checks achievements and writes the working copy. session.Manager implements it.
type Flusher interface {
	Flush(ctx context.Context) error
}

type Scheduler struct {
	flusher Flusher
	timeout time.Duration
	cron    *cron.Cron
	runs    *prometheus.CounterVec
}

type Option func(*Scheduler)

// WithRegisterer exposes the run counter on reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(s *Scheduler) {
		reg.MustRegister(s.runs)
	}
}

// WithTimeout bounds a single flush.
func WithTimeout(d time.Duration) Option {
	return func(s *Scheduler) {
		s.timeout = d
	}
}

func New(flusher Flusher, interval time.Duration, opts ...Option) (*Scheduler, error) {
	if interval <= 0 {
		interval = DefaultInterval
	}

	s := &Scheduler{
		flusher: flusher,
		timeout: interval,
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "lifemanager",
				Subsystem: "autosave",
				Name:      "runs_total",
				Help:      "Autosave runs by result.",
			},
			[]string{"result"},
		),
	}

	for _, opt := range opts {
		opt(s)
	}

	schedule := fmt.Sprintf("@every %s", interval)
	if _, err := s.cron.AddFunc(schedule, s.run); err != nil {
		return nil, fmt.Errorf("scheduling autosave: %w", err)
	}

	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop cancels future runs and waits for a running flush, or for ctx.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()

	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.RunOnce(ctx); err != nil {
		slog.Warn("autosave failed", "error", err)
	}
}

// RunOnce flushes immediately. Having nobody signed in is not an error.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	err := s.flusher.Flush(ctx)

	switch {
	case errors.Is(err, session.ErrNoSession):
		s.runs.WithLabelValues(resultSkipped).Inc()
		return nil
	case err != nil:
		s.runs.WithLabelValues(resultError).Inc()
		return fmt.Errorf("flushing session: %w", err)
	}

	s.runs.WithLabelValues(resultOK).Inc()

	return nil
}

// Runs reports the counter for tests and status pages.
func (s *Scheduler) Runs() *prometheus.CounterVec {
	return s.runs
}
