package hooks

import (
	"fmt"
	"log/slog"

	"pihooks/internal/buildprops"
	"pihooks/internal/guard"
	"pihooks/internal/identity"
	"pihooks/internal/platform/metrics"
	"pihooks/internal/spoof"
	"pihooks/internal/switches"
	"pihooks/internal/taskmonitor"
)

// Platform is what an embedding host provides. Tasks, Registrar and Callers
// are optional: without Tasks the foreground-task monitor is not armed,
// without Callers the task permission bypass always answers false.
type Platform struct {
	Table      *buildprops.Table
	Properties spoof.PropertyWriter
	Switches   switches.Source
	Tasks      taskmonitor.TaskService
	Registrar  taskmonitor.Registrar
	Callers    guard.CallerIdentity
	// Terminator defaults to killing the current process.
	Terminator taskmonitor.Terminator
	Auditor    Auditor
	Rules      spoof.Rules
	Logger     *slog.Logger
	Metrics    *metrics.Metrics
}

// Assemble wires the engine, monitor, guard and facade for p.
func Assemble(p Platform) (*Hooks, error) {
	if p.Table == nil {
		return nil, fmt.Errorf("build table is required")
	}
	if p.Properties == nil {
		return nil, fmt.Errorf("property writer is required")
	}
	if p.Logger == nil {
		p.Logger = slog.Default()
	}
	if p.Rules.IsZero() {
		p.Rules = spoof.NewRules(nil, spoof.Resources{})
	}

	engineOpts := []spoof.Option{
		spoof.WithLogger(p.Logger),
		spoof.WithMetrics(p.Metrics),
		spoof.WithRules(p.Rules),
	}
	if p.Tasks != nil {
		if p.Registrar == nil {
			return nil, fmt.Errorf("task stack registrar is required with a task service")
		}
		term := p.Terminator
		if term == nil {
			term = taskmonitor.SelfKill{}
		}
		monitor, err := taskmonitor.New(p.Tasks, term,
			taskmonitor.WithLogger(p.Logger),
			taskmonitor.WithMetrics(p.Metrics),
		)
		if err != nil {
			return nil, err
		}
		engineOpts = append(engineOpts, spoof.WithMonitor(monitor, p.Registrar))
	}

	engine, err := spoof.New(p.Table, p.Properties, p.Table, engineOpts...)
	if err != nil {
		return nil, err
	}

	guardOpts := []guard.Option{guard.WithLogger(p.Logger)}
	if p.Callers != nil {
		guardOpts = append(guardOpts, guard.WithCallerIdentity(p.Callers))
	}

	opts := []Option{
		WithLogger(p.Logger),
		WithMetrics(p.Metrics),
		WithGuard(guard.New(guardOpts...)),
	}
	if p.Auditor != nil {
		opts = append(opts, WithAuditor(p.Auditor))
	}
	return New(identity.NewClassifier(p.Table.Build()), p.Switches, engine, opts...)
}
