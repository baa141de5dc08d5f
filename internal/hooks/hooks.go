// Package hooks is the process-attach facade. The host calls Attach once
// when an application process starts, then consults the guard entry points
// on attestation and feature queries.
package hooks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"pihooks/internal/audit"
	"pihooks/internal/guard"
	"pihooks/internal/identity"
	"pihooks/internal/platform/metrics"
	"pihooks/internal/spoof"
	"pihooks/internal/switches"
)

const tracerName = "pihooks/internal/hooks"

// ErrAlreadyAttached is returned by a second Attach on the same Hooks.
var ErrAlreadyAttached = errors.New("process already attached")

// Auditor accepts security events without blocking.
type Auditor interface {
	Enqueue(event audit.Event) error
}

// attachment is the immutable per-process state published by Attach.
type attachment struct {
	id       string
	context  identity.ProcessContext
	switches switches.Snapshot
}

type Hooks struct {
	classifier identity.Classifier
	source     switches.Source
	engine     *spoof.Engine
	guard      *guard.Guard
	auditor    Auditor
	metrics    *metrics.Metrics
	tracer     trace.Tracer
	logger     *slog.Logger

	attaching atomic.Bool
	current   atomic.Pointer[attachment]
}

type Option func(*Hooks)

func WithLogger(logger *slog.Logger) Option {
	return func(h *Hooks) {
		h.logger = logger
	}
}

func WithMetrics(metrics *metrics.Metrics) Option {
	return func(h *Hooks) {
		h.metrics = metrics
	}
}

func WithGuard(g *guard.Guard) Option {
	return func(h *Hooks) {
		h.guard = g
	}
}

func WithAuditor(a Auditor) Option {
	return func(h *Hooks) {
		h.auditor = a
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(h *Hooks) {
		h.tracer = t
	}
}

func New(classifier identity.Classifier, source switches.Source, engine *spoof.Engine, opts ...Option) (*Hooks, error) {
	if source == nil {
		return nil, fmt.Errorf("switch source is required")
	}
	if engine == nil {
		return nil, fmt.Errorf("override engine is required")
	}

	h := &Hooks{
		classifier: classifier,
		source:     source,
		engine:     engine,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	if h.guard == nil {
		h.guard = guard.New(guard.WithLogger(h.logger))
	}
	if h.tracer == nil {
		h.tracer = otel.Tracer(tracerName)
	}
	return h, nil
}

// Attach classifies the process, snapshots the switches and applies the
// selected overrides. It never panics; failures leave the build untouched.
func (h *Hooks) Attach(ctx context.Context, packageName, processName string) (res *spoof.Result, err error) {
	ctx, span := h.tracer.Start(ctx, "hooks.Attach", trace.WithAttributes(
		attribute.String("pihooks.package", packageName),
		attribute.String("pihooks.process", processName),
	))
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("attach panicked: %v", r)
			res = nil
			h.logger.ErrorContext(ctx, "attach panicked", "package", packageName, "panic", r)
			h.metrics.IncrementAttachFailure("panic")
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	pc, err := h.classifier.Classify(packageName, processName)
	if err != nil {
		h.logger.ErrorContext(ctx, "invalid context", "package", packageName, "process", processName)
		h.metrics.IncrementAttachFailure("empty_identity")
		h.emit(ctx, audit.Event{Action: audit.ActionAttachFailed, PackageName: packageName, ProcessName: processName, Reason: "empty_identity"})
		return nil, err
	}

	if !h.attaching.CompareAndSwap(false, true) {
		return nil, ErrAlreadyAttached
	}

	snap, snapErr := h.source.Snapshot(ctx)
	if snapErr != nil {
		h.logger.WarnContext(ctx, "unable to read switches, using defaults", "process", processName, "error", snapErr)
		h.metrics.IncrementAttachFailure("switch_snapshot")
		snap = switches.NewSnapshot(nil)
	}

	att := &attachment{id: uuid.NewString(), context: pc, switches: snap}
	h.current.Store(att)
	span.SetAttributes(attribute.String("pihooks.attach_id", att.id))

	res, err = h.engine.Apply(ctx, pc, snap)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.String("pihooks.decision", res.Decision.Kind.String()))
	if res.Decision.Kind != spoof.KindNone {
		h.emit(ctx, audit.Event{
			AttachID:    att.id,
			Action:      audit.ActionAttached,
			PackageName: pc.PackageName,
			ProcessName: pc.ProcessName,
			Decision:    res.Decision.Kind.String(),
		})
	}
	return res, nil
}

// Context returns the classified context once attached.
func (h *Hooks) Context() (identity.ProcessContext, bool) {
	att := h.current.Load()
	if att == nil {
		return identity.ProcessContext{}, false
	}
	return att.context, true
}

// AttachID identifies this process attach in logs and audit events.
func (h *Hooks) AttachID() string {
	if att := h.current.Load(); att != nil {
		return att.id
	}
	return ""
}

// OnEngineGetCertificateChain is consulted before a key attestation
// certificate chain is produced. A non-nil error wraps
// guard.ErrAttestationUnsupported and must be surfaced to the caller.
func (h *Hooks) OnEngineGetCertificateChain(ctx context.Context) error {
	att := h.current.Load()
	if att == nil {
		return nil
	}

	reason, err := h.guard.CheckAttestation(ctx, att.context, att.switches)
	if err != nil {
		h.metrics.IncrementAttestationBlocked(string(reason))
		h.emit(ctx, audit.Event{
			AttachID:    att.id,
			Action:      audit.ActionAttestationBlocked,
			PackageName: att.context.PackageName,
			ProcessName: att.context.ProcessName,
			Reason:      string(reason),
		})
	}
	return err
}

// HasSystemFeature filters the platform's answer for name.
func (h *Hooks) HasSystemFeature(ctx context.Context, name string, reportedHas bool) bool {
	att := h.current.Load()
	if att == nil {
		return reportedHas
	}

	has := guard.FilterFeature(att.context, att.switches, name, reportedHas)
	if has != reportedHas {
		h.metrics.IncrementFeatureRewrite(has)
		h.logger.DebugContext(ctx, "rewrote feature query",
			"process", att.context.ProcessName,
			"feature", name,
			"has", has,
		)
		decision := "hidden"
		if has {
			decision = "granted"
		}
		h.emit(ctx, audit.Event{
			AttachID:    att.id,
			Action:      audit.ActionFeatureRewritten,
			PackageName: att.context.PackageName,
			ProcessName: att.context.ProcessName,
			Decision:    decision,
			Reason:      name,
		})
	}
	return has
}

// ShouldBypassTaskPermission reports whether the current binder caller may
// skip the task management permission check.
func (h *Hooks) ShouldBypassTaskPermission(ctx context.Context) bool {
	sw := switches.NewSnapshot(nil)
	if att := h.current.Load(); att != nil {
		sw = att.switches
	}
	return h.guard.ShouldBypassTaskPermission(ctx, sw)
}

func (h *Hooks) emit(ctx context.Context, event audit.Event) {
	if h.auditor == nil {
		return
	}
	if err := h.auditor.Enqueue(event); err != nil {
		h.logger.WarnContext(ctx, "dropped audit event", "action", string(event.Action), "error", err)
	}
}
