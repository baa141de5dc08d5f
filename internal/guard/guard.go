// Package guard holds the per-call predicates consulted after attach: key
// attestation blocking, system feature rewriting and the task permission
// bypass. The predicates are pure; Guard adds stack capture and logging.
package guard

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"pihooks/internal/identity"
	"pihooks/internal/switches"
	dErrors "pihooks/pkg/domain-errors"
	"pihooks/pkg/platform/sentinel"
)

// ErrAttestationUnsupported is what a blocked attestation caller receives
// instead of a certificate chain.
var ErrAttestationUnsupported = dErrors.Wrap(sentinel.ErrUnsupported, dErrors.CodeUnsupported,
	"key attestation is not supported for this caller")

// Reason explains why attestation was blocked.
type Reason string

const (
	ReasonNone            Reason = ""
	ReasonIntegrityCaller Reason = "integrity_caller"
	ReasonStorefront      Reason = "storefront"
)

// FeatureNexusPreload is the one feature the legacy profile is meant to unlock.
const FeatureNexusPreload = "com.google.android.apps.photos.NEXUS_PRELOAD"

// nexusPreloadShort is the unqualified spelling some callers query.
const nexusPreloadShort = "NEXUS_PRELOAD"

// pixelFeatures mark device-exclusive preloads hidden from the photo backup app.
var pixelFeatures = []string{
	"PIXEL_2017_PRELOAD",
	"PIXEL_2018_PRELOAD",
	"PIXEL_2019_MIDYEAR_PRELOAD",
	"PIXEL_2019_PRELOAD",
	"PIXEL_2020_EXPERIENCE",
	"PIXEL_2020_MIDYEAR_EXPERIENCE",
	"PIXEL_EXPERIENCE",
}

// AttestationBlockReason returns why attestation must be refused, or ReasonNone.
func AttestationBlockReason(pc identity.ProcessContext, sw switches.Reader, stack []Frame, hasMarker MarkerPredicate) Reason {
	if sw.Bool(switches.DisableKeyAttestationBlock, false) {
		return ReasonNone
	}
	if pc.IsPrivilegedServicesProcess && hasMarker != nil && hasMarker(stack) {
		return ReasonIntegrityCaller
	}
	if pc.IsStorefrontProcess {
		return ReasonStorefront
	}
	return ReasonNone
}

// ShouldBlockAttestation reports whether attestation must be refused.
func ShouldBlockAttestation(pc identity.ProcessContext, sw switches.Reader, stack []Frame, hasMarker MarkerPredicate) bool {
	return AttestationBlockReason(pc, sw, stack, hasMarker) != ReasonNone
}

// FilterFeature rewrites a feature query answer for the photo backup process.
func FilterFeature(pc identity.ProcessContext, sw switches.Reader, name string, reportedHas bool) bool {
	if !pc.IsPhotoBackupProcess {
		return reportedHas
	}
	if reportedHas {
		for _, marker := range pixelFeatures {
			if strings.Contains(name, marker) {
				return false
			}
		}
		return true
	}
	if isNexusPreload(name) && sw.Bool(switches.SpoofGPhotos, false) {
		return true
	}
	return false
}

func isNexusPreload(name string) bool {
	return strings.EqualFold(name, FeatureNexusPreload) || strings.EqualFold(name, nexusPreloadShort)
}

// CallerIdentity resolves the binder caller and installed app uids.
type CallerIdentity interface {
	CallingUID(ctx context.Context) int
	LookupInstalledAppUID(ctx context.Context, packageName string) (int, error)
}

// Guard evaluates the predicates against the live call stack and caller.
type Guard struct {
	stack     StackSource
	hasMarker MarkerPredicate
	callers   CallerIdentity
	logger    *slog.Logger
}

type Option func(*Guard)

func WithLogger(logger *slog.Logger) Option {
	return func(g *Guard) {
		g.logger = logger
	}
}

// WithStackSource replaces runtime stack capture.
func WithStackSource(src StackSource) Option {
	return func(g *Guard) {
		g.stack = src
	}
}

// WithMarker replaces the integrity marker predicate.
func WithMarker(p MarkerPredicate) Option {
	return func(g *Guard) {
		g.hasMarker = p
	}
}

// WithCallerIdentity enables the task permission bypass check.
func WithCallerIdentity(c CallerIdentity) Option {
	return func(g *Guard) {
		g.callers = c
	}
}

func New(opts ...Option) *Guard {
	g := &Guard{
		stack:     RuntimeStack,
		hasMarker: ContainsMarker(IntegrityMarker),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.logger == nil {
		g.logger = slog.Default()
	}
	return g
}

// CheckAttestation returns a wrapped ErrAttestationUnsupported when the
// caller must not receive a certificate chain. The stack is only captured
// for the privileged services process; capture failure means "no block".
func (g *Guard) CheckAttestation(ctx context.Context, pc identity.ProcessContext, sw switches.Reader) (Reason, error) {
	var stack []Frame
	if pc.IsPrivilegedServicesProcess && !sw.Bool(switches.DisableKeyAttestationBlock, false) && g.stack != nil {
		frames, err := g.stack()
		if err != nil {
			g.logger.ErrorContext(ctx, "unable to inspect call stack", "error", err)
		} else {
			stack = frames
		}
	}

	reason := AttestationBlockReason(pc, sw, stack, g.hasMarker)
	if reason == ReasonNone {
		return ReasonNone, nil
	}
	g.logger.DebugContext(ctx, "blocked key attestation",
		"process", pc.ProcessName,
		"reason", string(reason),
	)
	return reason, fmt.Errorf("%w (%s)", ErrAttestationUnsupported, reason)
}

// ShouldBypassTaskPermission reports whether the binder caller is the
// privileged services app, which lacks the task management permission the
// monitor's queries need.
func (g *Guard) ShouldBypassTaskPermission(ctx context.Context, sw switches.Reader) bool {
	if sw.Bool(switches.DisableGMSProps, false) || g.callers == nil {
		return false
	}

	callingUID := g.callers.CallingUID(ctx)
	gmsUID, err := g.callers.LookupInstalledAppUID(ctx, identity.PackageGMS)
	if err != nil {
		g.logger.ErrorContext(ctx, "unable to get gms uid", "error", err)
		return false
	}
	g.logger.DebugContext(ctx, "task permission bypass check", "gms_uid", gmsUID, "calling_uid", callingUID)
	return gmsUID == callingUID
}
