// Package taskmonitor watches whether a given activity is on top and ends the
// process when that changes after spoofing decisions have been made.
package taskmonitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"pihooks/internal/platform/metrics"
)

var (
	ErrAlreadyArmed = errors.New("monitor already armed")
	ErrNotArmed     = errors.New("monitor not armed")
)

const defaultQueryTimeout = 2 * time.Second

// Monitor states. Armed states capture the on-top value observed at arm time.
const (
	stateUnarmed int32 = iota
	stateArmedOff
	stateArmedOn
)

// Monitor is armed at most once and then compares every notification against
// the captured value.
type Monitor struct {
	tasks        TaskService
	target       ComponentName
	terminator   Terminator
	logger       *slog.Logger
	metrics      *metrics.Metrics
	queryTimeout time.Duration

	state      atomic.Int32
	terminated atomic.Bool
}

type Option func(*Monitor)

func WithLogger(logger *slog.Logger) Option {
	return func(m *Monitor) {
		m.logger = logger
	}
}

func WithMetrics(metrics *metrics.Metrics) Option {
	return func(m *Monitor) {
		m.metrics = metrics
	}
}

// WithTarget overrides the watched activity.
func WithTarget(target ComponentName) Option {
	return func(m *Monitor) {
		m.target = target
	}
}

// WithQueryTimeout bounds each focused task query made from a notification.
func WithQueryTimeout(d time.Duration) Option {
	return func(m *Monitor) {
		if d > 0 {
			m.queryTimeout = d
		}
	}
}

// New builds an unarmed monitor watching AddAccountActivity.
func New(tasks TaskService, terminator Terminator, opts ...Option) (*Monitor, error) {
	if tasks == nil {
		return nil, fmt.Errorf("task service is required")
	}
	if terminator == nil {
		return nil, fmt.Errorf("terminator is required")
	}

	m := &Monitor{
		tasks:        tasks,
		target:       AddAccountActivity,
		terminator:   terminator,
		logger:       slog.Default(),
		queryTimeout: defaultQueryTimeout,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	return m, nil
}

// IsOnTop queries the focused task. Query failures count as "not on top".
func (m *Monitor) IsOnTop(ctx context.Context) bool {
	top, ok, err := m.tasks.FocusedTopActivity(ctx)
	if err != nil {
		m.logger.ErrorContext(ctx, "unable to get top activity", "error", err)
		return false
	}
	return ok && top == m.target
}

// Arm captures the current on-top state and returns it. It succeeds once.
func (m *Monitor) Arm(ctx context.Context) (bool, error) {
	if m.state.Load() != stateUnarmed {
		return false, ErrAlreadyArmed
	}
	onTop := m.IsOnTop(ctx)

	next := stateArmedOff
	if onTop {
		next = stateArmedOn
	}
	if !m.state.CompareAndSwap(stateUnarmed, next) {
		return false, ErrAlreadyArmed
	}
	return onTop, nil
}

// Armed reports whether Arm has succeeded.
func (m *Monitor) Armed() bool {
	return m.state.Load() != stateUnarmed
}

// Register subscribes the armed monitor to task stack changes.
func (m *Monitor) Register(r Registrar) error {
	if !m.Armed() {
		return ErrNotArmed
	}
	if err := r.RegisterTaskStackListener(m); err != nil {
		return fmt.Errorf("register task stack listener: %w", err)
	}
	return nil
}

// OnTaskStackChanged implements Listener.
func (m *Monitor) OnTaskStackChanged() {
	st := m.state.Load()
	if st == stateUnarmed {
		return
	}
	was := st == stateArmedOn

	ctx, cancel := context.WithTimeout(context.Background(), m.queryTimeout)
	is := m.IsOnTop(ctx)
	cancel()

	if is == was {
		return
	}
	if !m.terminated.CompareAndSwap(false, true) {
		return
	}

	// The platform restarts the process; overrides are recomputed on attach.
	m.logger.Info("watched activity changed, terminating process",
		"activity", m.target.String(),
		"is_on_top", is,
		"was_on_top", was,
	)
	m.metrics.IncrementTerminations()
	m.terminator.Terminate()
}
