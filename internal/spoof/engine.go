// Package spoof selects and applies build identity overrides for a process.
package spoof

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync/atomic"

	"pihooks/internal/identity"
	"pihooks/internal/platform/metrics"
	"pihooks/internal/profile"
	"pihooks/internal/spoof/ports"
	"pihooks/internal/switches"
	"pihooks/internal/taskmonitor"
)

// Type aliases for shared interfaces.
type (
	Primitive      = ports.Primitive
	PropertyWriter = ports.PropertyWriter
	VersionSource  = ports.VersionSource
	Monitor        = ports.Monitor
)

// ErrAlreadyApplied is returned when Apply is called a second time.
var ErrAlreadyApplied = errors.New("overrides already applied to this process")

// AttributeError records one rejected attribute. Siblings are still applied.
type AttributeError struct {
	Attribute profile.Attribute
	Err       error
}

func (e *AttributeError) Error() string {
	return fmt.Sprintf("set %s: %v", e.Attribute, e.Err)
}

func (e *AttributeError) Unwrap() error { return e.Err }

// Result describes what Apply did.
type Result struct {
	Decision Decision
	// Applied lists attributes committed through the primitive, in order.
	Applied []profile.Attribute
	// Forwarded maps property keys written through the property store.
	Forwarded map[string]string
	Failed    []*AttributeError
	// SkippedOnTop is set when the watched activity was on top at arm time.
	SkippedOnTop bool
	MonitorArmed bool
}

// Engine applies at most one decision for the lifetime of the process.
type Engine struct {
	rules      Rules
	primitive  Primitive
	properties PropertyWriter
	versions   VersionSource
	monitor    Monitor
	registrar  taskmonitor.Registrar
	logger     *slog.Logger
	metrics    *metrics.Metrics

	applied atomic.Bool
}

type Option func(*Engine)

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

func WithMetrics(metrics *metrics.Metrics) Option {
	return func(e *Engine) {
		e.metrics = metrics
	}
}

func WithRules(rules Rules) Option {
	return func(e *Engine) {
		e.rules = rules
	}
}

// WithMonitor arms monitor on the certified path and registers it with registrar.
func WithMonitor(monitor Monitor, registrar taskmonitor.Registrar) Option {
	return func(e *Engine) {
		e.monitor = monitor
		e.registrar = registrar
	}
}

func New(primitive Primitive, properties PropertyWriter, versions VersionSource, opts ...Option) (*Engine, error) {
	if primitive == nil {
		return nil, fmt.Errorf("override primitive is required")
	}
	if properties == nil {
		return nil, fmt.Errorf("property writer is required")
	}
	if versions == nil {
		return nil, fmt.Errorf("version source is required")
	}

	e := &Engine{
		rules:      NewRules(nil, Resources{}),
		primitive:  primitive,
		properties: properties,
		versions:   versions,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.monitor != nil && e.registrar == nil {
		return nil, fmt.Errorf("task stack registrar is required with a monitor")
	}
	return e, nil
}

// Rules returns the engine's rule chain.
func (e *Engine) Rules() Rules { return e.rules }

// Apply decides and applies overrides for pc. It runs once per engine; the
// attribute writes are best-effort and never roll back.
func (e *Engine) Apply(ctx context.Context, pc identity.ProcessContext, sw switches.Reader) (*Result, error) {
	if !e.applied.CompareAndSwap(false, true) {
		return nil, ErrAlreadyApplied
	}

	logger := e.logger.With("process", pc.ProcessName)
	decision := e.rules.Decide(pc, sw)
	res := &Result{Decision: decision, Forwarded: map[string]string{}}
	e.metrics.IncrementDecision(decision.Kind.String())

	switch decision.Kind {
	case KindCertified:
		e.applyCertified(ctx, logger, sw, res)
	case KindNamedProfile:
		logger.DebugContext(ctx, "spoofing profile",
			"profile", decision.Profile.Name(),
			"package", pc.PackageName,
		)
		for _, entry := range decision.Profile.Entries() {
			e.setAttribute(ctx, logger, res, entry.Attribute, entry.Value)
		}
	case KindSingleAttribute:
		logger.DebugContext(ctx, "setting single attribute",
			"attribute", decision.Attribute,
			"value", decision.Value,
			"package", pc.PackageName,
		)
		e.setAttribute(ctx, logger, res, decision.Attribute, decision.Value)
	}

	return res, nil
}

func (e *Engine) applyCertified(ctx context.Context, logger *slog.Logger, sw switches.Reader, res *Result) {
	if sw.Bool(switches.DisableGMSProps, false) {
		logger.DebugContext(ctx, "GMS prop imitation is disabled by user")
		e.forward(ctx, logger, res, switches.SecurityPatch, e.versions.SecurityPatch())
		e.forward(ctx, logger, res, switches.FirstAPILevel, strconv.Itoa(e.versions.FirstAPILevel()))
		return
	}

	if e.monitor != nil {
		onTop, err := e.monitor.Arm(ctx)
		if err != nil {
			logger.ErrorContext(ctx, "failed to arm task monitor", "error", err)
		} else {
			res.MonitorArmed = true
			res.SkippedOnTop = onTop
		}
	}

	if res.SkippedOnTop {
		logger.DebugContext(ctx, "skip spoofing build for GMS, add account activity is on top")
	} else {
		logger.DebugContext(ctx, "spoofing build for GMS")
		e.setCertified(ctx, logger, sw, res)
	}

	if res.MonitorArmed {
		if err := e.monitor.Register(e.registrar); err != nil {
			logger.ErrorContext(ctx, "failed to register task stack listener", "error", err)
		}
	}
}

func (e *Engine) setCertified(ctx context.Context, logger *slog.Logger, sw switches.Reader, res *Result) {
	for _, attr := range profile.CertifiedAttributeNames() {
		value := sw.String(switches.CertifiedKey(attr))
		if value == "" {
			continue
		}
		if key, ok := switches.ForwardKey(attr); ok {
			e.forward(ctx, logger, res, key, value)
			continue
		}
		e.setAttribute(ctx, logger, res, attr, value)
	}
}

func (e *Engine) setAttribute(ctx context.Context, logger *slog.Logger, res *Result, attr profile.Attribute, value string) {
	if err := e.primitive.SetAttribute(attr, value); err != nil {
		logger.ErrorContext(ctx, "failed to set attribute", "attribute", attr, "error", err)
		e.metrics.IncrementAttributeFailure(attr.String())
		res.Failed = append(res.Failed, &AttributeError{Attribute: attr, Err: err})
		return
	}
	res.Applied = append(res.Applied, attr)
}

func (e *Engine) forward(ctx context.Context, logger *slog.Logger, res *Result, key, value string) {
	if err := e.properties.Set(ctx, key, value); err != nil {
		logger.ErrorContext(ctx, "failed to set system prop", "key", key, "value", value, "error", err)
		return
	}
	logger.DebugContext(ctx, "set system prop", "key", key, "value", value)
	res.Forwarded[key] = value
}
