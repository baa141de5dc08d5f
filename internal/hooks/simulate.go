package hooks

import (
	"context"
	"fmt"
	"log/slog"

	"pihooks/internal/buildprops"
	"pihooks/internal/identity"
	"pihooks/internal/platform/metrics"
	"pihooks/internal/spoof"
	"pihooks/internal/switches"
)

// Simulation is the outcome of attaching a process against a scratch copy
// of the configured build.
type Simulation struct {
	AttachID  string
	Context   identity.ProcessContext
	Decision  spoof.Decision
	Applied   []string
	Failed    map[string]string
	Forwarded map[string]string
	Build     buildprops.Values
}

// Simulator runs Attach end to end without touching any live state: each
// run gets its own build table and property sink.
type Simulator struct {
	build   buildprops.Values
	rules   spoof.Rules
	source  switches.Source
	auditor Auditor
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewSimulator(build buildprops.Values, rules spoof.Rules, source switches.Source, auditor Auditor, logger *slog.Logger, metrics *metrics.Metrics) (*Simulator, error) {
	if source == nil {
		return nil, fmt.Errorf("switch source is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Simulator{
		build:   build,
		rules:   rules,
		source:  source,
		auditor: auditor,
		metrics: metrics,
		logger:  logger,
	}, nil
}

func (s *Simulator) Simulate(ctx context.Context, packageName, processName string) (*Simulation, error) {
	table := buildprops.New(s.build)
	props := switches.NewInMemory(nil)

	h, err := Assemble(Platform{
		Table:      table,
		Properties: props,
		Switches:   s.source,
		Auditor:    s.auditor,
		Rules:      s.rules,
		Logger:     s.logger,
		Metrics:    s.metrics,
	})
	if err != nil {
		return nil, err
	}

	res, err := h.Attach(ctx, packageName, processName)
	if err != nil {
		return nil, err
	}
	pc, _ := h.Context()

	sim := &Simulation{
		AttachID:  h.AttachID(),
		Context:   pc,
		Decision:  res.Decision,
		Applied:   make([]string, 0, len(res.Applied)),
		Failed:    map[string]string{},
		Forwarded: res.Forwarded,
		Build:     table.Values(),
	}
	for _, attr := range res.Applied {
		sim.Applied = append(sim.Applied, attr.String())
	}
	for _, f := range res.Failed {
		sim.Failed[f.Attribute.String()] = f.Err.Error()
	}
	return sim, nil
}
