package guard_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"pihooks/internal/guard"
	"pihooks/internal/guard/mocks"
	"pihooks/internal/identity"
	"pihooks/internal/switches"
	dErrors "pihooks/pkg/domain-errors"
	"pihooks/pkg/platform/sentinel"
)

// =============================================================================
// Guard Test Suite
// =============================================================================
// Justification for unit tests: the guards run on every attestation and
// feature query. Tests pin each branch of the decision tables, including the
// failure modes that must degrade to "do not interfere".

type GuardSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	callers *mocks.MockCallerIdentity
	logger  *slog.Logger
	none    switches.Snapshot
}

func TestGuardSuite(t *testing.T) {
	suite.Run(t, new(GuardSuite))
}

func (s *GuardSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.callers = mocks.NewMockCallerIdentity(s.ctrl)
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	s.none = switches.NewSnapshot(nil)
}

func (s *GuardSuite) TearDownTest() {
	s.ctrl.Finish()
}

var (
	gmsContext     = identity.ProcessContext{PackageName: identity.PackageGMS, ProcessName: identity.ProcessGMSUnstable, IsPrivilegedServicesProcess: true}
	storefrontCtx  = identity.ProcessContext{PackageName: identity.PackageFinsky, ProcessName: identity.PackageFinsky, IsStorefrontProcess: true}
	photosContext  = identity.ProcessContext{PackageName: identity.PackagePhotos, ProcessName: identity.PackagePhotos, IsPhotoBackupProcess: true}
	otherContext   = identity.ProcessContext{PackageName: "com.example.app", ProcessName: "com.example.app"}
	integrityStack = []guard.Frame{{Component: "com.google.android.gms.framework.Runner"}, {Component: "com.google.ccc.abuse.droidguard.DroidGuard"}}
	plainStack     = []guard.Frame{{Component: "com.google.android.gms.common.Service"}}
)

// =============================================================================
// Attestation
// =============================================================================

func (s *GuardSuite) TestShouldBlockAttestation() {
	marker := guard.ContainsMarker(guard.IntegrityMarker)
	disabled := switches.NewSnapshot(map[string]string{switches.DisableKeyAttestationBlock: "true"})

	s.Run("privileged process with integrity frame", func() {
		s.True(guard.ShouldBlockAttestation(gmsContext, s.none, integrityStack, marker))
		s.Equal(guard.ReasonIntegrityCaller, guard.AttestationBlockReason(gmsContext, s.none, integrityStack, marker))
	})

	s.Run("privileged process without integrity frame", func() {
		s.False(guard.ShouldBlockAttestation(gmsContext, s.none, plainStack, marker))
	})

	s.Run("storefront regardless of stack", func() {
		s.True(guard.ShouldBlockAttestation(storefrontCtx, s.none, nil, marker))
		s.Equal(guard.ReasonStorefront, guard.AttestationBlockReason(storefrontCtx, s.none, nil, marker))
	})

	s.Run("disable switch wins", func() {
		s.False(guard.ShouldBlockAttestation(gmsContext, disabled, integrityStack, marker))
		s.False(guard.ShouldBlockAttestation(storefrontCtx, disabled, nil, marker))
	})

	s.Run("unrelated process with integrity frame", func() {
		s.False(guard.ShouldBlockAttestation(otherContext, s.none, integrityStack, marker))
	})
}

func (s *GuardSuite) TestCheckAttestation() {
	s.Run("blocked caller gets unsupported", func() {
		g := guard.New(guard.WithLogger(s.logger), guard.WithStackSource(func() ([]guard.Frame, error) {
			return integrityStack, nil
		}))

		reason, err := g.CheckAttestation(context.Background(), gmsContext, s.none)
		s.Equal(guard.ReasonIntegrityCaller, reason)
		s.Require().Error(err)
		s.ErrorIs(err, sentinel.ErrUnsupported)
		s.True(dErrors.HasCode(err, dErrors.CodeUnsupported))
	})

	s.Run("stack capture failure means no block", func() {
		g := guard.New(guard.WithLogger(s.logger), guard.WithStackSource(func() ([]guard.Frame, error) {
			return nil, errors.New("stack unavailable")
		}))

		reason, err := g.CheckAttestation(context.Background(), gmsContext, s.none)
		s.Equal(guard.ReasonNone, reason)
		s.NoError(err)
	})

	s.Run("stack not captured outside privileged process", func() {
		g := guard.New(guard.WithLogger(s.logger), guard.WithStackSource(func() ([]guard.Frame, error) {
			s.Fail("stack should not be captured")
			return nil, nil
		}))

		reason, err := g.CheckAttestation(context.Background(), storefrontCtx, s.none)
		s.Equal(guard.ReasonStorefront, reason)
		s.ErrorIs(err, guard.ErrAttestationUnsupported)
	})

	s.Run("runtime stack of a test has no marker", func() {
		g := guard.New(guard.WithLogger(s.logger))

		_, err := g.CheckAttestation(context.Background(), gmsContext, s.none)
		s.NoError(err)
	})
}

func (s *GuardSuite) TestRuntimeStack() {
	frames, err := guard.RuntimeStack()
	s.Require().NoError(err)
	s.Require().NotEmpty(frames)
	s.Equal("pihooks/internal/guard_test.(*GuardSuite)", frames[0].Component)
	s.True(guard.ContainsMarker("GuardSuite")(frames))
}

// =============================================================================
// Feature filter
// =============================================================================

func (s *GuardSuite) TestFilterFeature() {
	gphotos := switches.NewSnapshot(map[string]string{switches.SpoofGPhotos: "1"})

	tests := []struct {
		name     string
		pc       identity.ProcessContext
		sw       switches.Snapshot
		feature  string
		reported bool
		want     bool
	}{
		{"pixel feature hidden", photosContext, s.none, "com.google.android.feature.PIXEL_2019_PRELOAD", true, false},
		{"pixel experience hidden", photosContext, s.none, "com.google.android.feature.PIXEL_EXPERIENCE", true, false},
		{"other feature kept", photosContext, s.none, "android.hardware.camera", true, true},
		{"short preload granted", photosContext, gphotos, "nexus_preload", false, true},
		{"qualified preload granted", photosContext, gphotos, guard.FeatureNexusPreload, false, true},
		{"preload without switch", photosContext, s.none, guard.FeatureNexusPreload, false, false},
		{"absent feature stays absent", photosContext, gphotos, "android.hardware.nfc", false, false},
		{"other process untouched", otherContext, gphotos, "com.google.android.feature.PIXEL_2019_PRELOAD", true, true},
		{"other process keeps absence", otherContext, gphotos, guard.FeatureNexusPreload, false, false},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.Equal(tt.want, guard.FilterFeature(tt.pc, tt.sw, tt.feature, tt.reported))
		})
	}
}

// =============================================================================
// Task permission bypass
// =============================================================================

func (s *GuardSuite) TestShouldBypassTaskPermission() {
	ctx := context.Background()
	g := guard.New(guard.WithLogger(s.logger), guard.WithCallerIdentity(s.callers))

	s.Run("caller is gms", func() {
		s.callers.EXPECT().CallingUID(ctx).Return(10150)
		s.callers.EXPECT().LookupInstalledAppUID(ctx, identity.PackageGMS).Return(10150, nil)
		s.True(g.ShouldBypassTaskPermission(ctx, s.none))
	})

	s.Run("caller is another app", func() {
		s.callers.EXPECT().CallingUID(ctx).Return(10200)
		s.callers.EXPECT().LookupInstalledAppUID(ctx, identity.PackageGMS).Return(10150, nil)
		s.False(g.ShouldBypassTaskPermission(ctx, s.none))
	})

	s.Run("lookup failure", func() {
		s.callers.EXPECT().CallingUID(ctx).Return(10150)
		s.callers.EXPECT().LookupInstalledAppUID(ctx, identity.PackageGMS).Return(0, errors.New("not installed"))
		s.False(g.ShouldBypassTaskPermission(ctx, s.none))
	})

	s.Run("disabled by switch", func() {
		disabled := switches.NewSnapshot(map[string]string{switches.DisableGMSProps: "true"})
		s.False(g.ShouldBypassTaskPermission(ctx, disabled))
	})

	s.Run("no caller identity", func() {
		s.False(guard.New(guard.WithLogger(s.logger)).ShouldBypassTaskPermission(ctx, s.none))
	})
}
