package spoof_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"pihooks/internal/identity"
	"pihooks/internal/platform/metrics"
	"pihooks/internal/profile"
	"pihooks/internal/spoof"
	"pihooks/internal/spoof/mocks"
	"pihooks/internal/switches"
	"pihooks/internal/taskmonitor"
)

// =============================================================================
// Override Engine Test Suite
// =============================================================================
// Justification for unit tests: the engine is the only place build constants
// are rewritten. Tests pin the rule priority, the at-most-once guarantee and
// the best-effort application policy against mocked platform primitives.

type EngineSuite struct {
	suite.Suite
	ctrl       *gomock.Controller
	primitive  *mocks.MockPrimitive
	properties *mocks.MockPropertyWriter
	versions   *mocks.MockVersionSource
	monitor    *mocks.MockMonitor
	registrar  *registrarStub
	metrics    *metrics.Metrics
	logger     *slog.Logger
	classifier identity.Classifier
}

type registrarStub struct{}

func (registrarStub) RegisterTaskStackListener(_ taskmonitor.Listener) error {
	return nil
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func (s *EngineSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.primitive = mocks.NewMockPrimitive(s.ctrl)
	s.properties = mocks.NewMockPropertyWriter(s.ctrl)
	s.versions = mocks.NewMockVersionSource(s.ctrl)
	s.monitor = mocks.NewMockMonitor(s.ctrl)
	s.registrar = &registrarStub{}
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	s.classifier = identity.NewClassifier(identity.Build{Manufacturer: "OnePlus", Model: "CPH2449"})
}

func (s *EngineSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *EngineSuite) newEngine(opts ...spoof.Option) *spoof.Engine {
	opts = append([]spoof.Option{
		spoof.WithLogger(s.logger),
		spoof.WithMetrics(s.metrics),
		spoof.WithRules(spoof.NewRules(nil, spoof.Resources{
			StockFingerprint: "oneplus/stock/fp:14/UKQ1/1:user/release-keys",
			MediaSpoofModel:  "SM-S918B",
		})),
	}, opts...)
	e, err := spoof.New(s.primitive, s.properties, s.versions, opts...)
	s.Require().NoError(err)
	return e
}

func (s *EngineSuite) classify(pkg, proc string) identity.ProcessContext {
	pc, err := s.classifier.Classify(pkg, proc)
	s.Require().NoError(err)
	return pc
}

func snapshot(kv ...string) switches.Snapshot {
	values := map[string]string{}
	for i := 0; i+1 < len(kv); i += 2 {
		values[kv[i]] = kv[i+1]
	}
	return switches.NewSnapshot(values)
}

func (s *EngineSuite) expectProfile(p profile.DeviceProfile) {
	calls := make([]any, 0, p.Len())
	for _, e := range p.Entries() {
		calls = append(calls, s.primitive.EXPECT().SetAttribute(e.Attribute, e.Value).Return(nil).Times(1))
	}
	gomock.InOrder(calls...)
}

// =============================================================================
// Constructor Tests (Invariant Enforcement)
// =============================================================================

func (s *EngineSuite) TestNew() {
	s.Run("nil primitive returns error", func() {
		_, err := spoof.New(nil, s.properties, s.versions)
		s.Error(err)
		s.Contains(err.Error(), "override primitive is required")
	})

	s.Run("nil property writer returns error", func() {
		_, err := spoof.New(s.primitive, nil, s.versions)
		s.Error(err)
		s.Contains(err.Error(), "property writer is required")
	})

	s.Run("nil version source returns error", func() {
		_, err := spoof.New(s.primitive, s.properties, nil)
		s.Error(err)
		s.Contains(err.Error(), "version source is required")
	})

	s.Run("monitor without registrar returns error", func() {
		_, err := spoof.New(s.primitive, s.properties, s.versions, spoof.WithMonitor(s.monitor, nil))
		s.Error(err)
		s.Contains(err.Error(), "registrar is required")
	})
}

// =============================================================================
// Rule Chain Tests
// =============================================================================

func (s *EngineSuite) TestGoogleAppsGetFlagship() {
	for _, pkg := range []string{
		identity.PackageAssistant,
		identity.PackageGboard,
		identity.PackageSubscriptionRed,
		identity.PackageVelvet,
	} {
		s.Run(pkg, func() {
			s.expectProfile(profile.Flagship())

			res, err := s.newEngine().Apply(context.Background(), s.classify(pkg, pkg), snapshot(switches.SpoofGApps, "1"))
			s.Require().NoError(err)
			s.Equal(spoof.KindNamedProfile, res.Decision.Kind)
			s.Equal(3, res.Decision.Rule)
			s.Len(res.Applied, profile.Flagship().Len())
			s.Empty(res.Failed)
		})
	}
}

func (s *EngineSuite) TestGoogleAppsSwitchOff() {
	res, err := s.newEngine().Apply(context.Background(),
		s.classify(identity.PackageVelvet, identity.PackageVelvet), snapshot())
	s.Require().NoError(err)
	s.Equal(spoof.KindNone, res.Decision.Kind)
	s.Empty(res.Applied)
}

func (s *EngineSuite) TestARServicesGetStockFingerprint() {
	s.primitive.EXPECT().
		SetAttribute(profile.Fingerprint, "oneplus/stock/fp:14/UKQ1/1:user/release-keys").
		Return(nil)

	res, err := s.newEngine().Apply(context.Background(),
		s.classify(identity.PackageARCore, identity.PackageARCore), snapshot())
	s.Require().NoError(err)
	s.Equal(spoof.KindSingleAttribute, res.Decision.Kind)
	s.Equal(2, res.Decision.Rule)
}

func (s *EngineSuite) TestARServicesWithoutFingerprintDoNothing() {
	e, err := spoof.New(s.primitive, s.properties, s.versions, spoof.WithLogger(s.logger))
	s.Require().NoError(err)

	res, err := e.Apply(context.Background(), s.classify(identity.PackageARCore, identity.PackageARCore), snapshot())
	s.Require().NoError(err)
	s.Equal(spoof.KindNone, res.Decision.Kind)
}

func (s *EngineSuite) TestMediaStreamingGetsModel() {
	s.primitive.EXPECT().SetAttribute(profile.Model, "SM-S918B").Return(nil)

	res, err := s.newEngine().Apply(context.Background(),
		s.classify(identity.PackageNetflix, identity.PackageNetflix), snapshot())
	s.Require().NoError(err)
	s.Equal(4, res.Decision.Rule)
	s.Equal([]profile.Attribute{profile.Model}, res.Applied)
}

func (s *EngineSuite) TestPhotoBackupGetsLegacy() {
	s.expectProfile(profile.Legacy())

	res, err := s.newEngine().Apply(context.Background(),
		s.classify(identity.PackagePhotos, identity.PackagePhotos), snapshot(switches.SpoofGPhotos, "true"))
	s.Require().NoError(err)
	s.Equal(5, res.Decision.Rule)
	s.Equal(profile.LegacyName, res.Decision.Profile.Name())
}

func (s *EngineSuite) TestFirstMatchWins() {
	rules := spoof.NewRules(nil, spoof.Resources{})
	pc := identity.ProcessContext{
		PackageName:          identity.PackageVelvet,
		ProcessName:          identity.PackageVelvet,
		IsPhotoBackupProcess: true,
	}
	sw := snapshot(switches.SpoofGApps, "1", switches.SpoofGPhotos, "1")

	d := rules.Decide(pc, sw)
	s.Equal(3, d.Rule)
	s.Equal(profile.FlagshipName, d.Profile.Name())

	pc.IsPrivilegedServicesProcess = true
	s.Equal(spoof.KindCertified, rules.Decide(pc, sw).Kind)
}

func (s *EngineSuite) TestUnknownPackageDoesNothing() {
	res, err := s.newEngine().Apply(context.Background(),
		s.classify("org.example.app", "org.example.app"), snapshot(switches.SpoofGApps, "1", switches.SpoofGPhotos, "1"))
	s.Require().NoError(err)
	s.Equal(spoof.KindNone, res.Decision.Kind)
	s.Equal(0, res.Decision.Rule)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.Decisions.WithLabelValues("none")))
}

// =============================================================================
// Application Policy Tests
// =============================================================================

func (s *EngineSuite) TestBestEffortApplication() {
	p := profile.Flagship()
	for i, entry := range p.Entries() {
		var err error
		if i == 1 {
			err = errors.New("no such field")
		}
		s.primitive.EXPECT().SetAttribute(entry.Attribute, entry.Value).Return(err)
	}

	res, err := s.newEngine().Apply(context.Background(),
		s.classify(identity.PackageGboard, identity.PackageGboard), snapshot(switches.SpoofGApps, "1"))
	s.Require().NoError(err)
	s.Len(res.Applied, p.Len()-1)
	s.Require().Len(res.Failed, 1)
	s.Equal(p.Entries()[1].Attribute, res.Failed[0].Attribute)
	s.Contains(res.Failed[0].Error(), "no such field")
	s.Equal(1.0, testutil.ToFloat64(s.metrics.AttributeFailures.WithLabelValues(p.Entries()[1].Attribute.String())))
}

func (s *EngineSuite) TestAppliesAtMostOnce() {
	e := s.newEngine()
	pc := s.classify("org.example.app", "org.example.app")

	_, err := e.Apply(context.Background(), pc, snapshot())
	s.Require().NoError(err)

	_, err = e.Apply(context.Background(), pc, snapshot())
	s.ErrorIs(err, spoof.ErrAlreadyApplied)
}

// =============================================================================
// Certified Path Tests
// =============================================================================

func (s *EngineSuite) gms() identity.ProcessContext {
	return s.classify(identity.PackageGMS, identity.ProcessGMSUnstable)
}

func (s *EngineSuite) TestCertifiedDisabledForwardsVersions() {
	s.versions.EXPECT().SecurityPatch().Return("2024-06-05")
	s.versions.EXPECT().FirstAPILevel().Return(33)
	s.properties.EXPECT().Set(gomock.Any(), switches.SecurityPatch, "2024-06-05").Return(nil)
	s.properties.EXPECT().Set(gomock.Any(), switches.FirstAPILevel, "33").Return(nil)
	s.primitive.EXPECT().SetAttribute(gomock.Any(), gomock.Any()).Times(0)
	s.monitor.EXPECT().Arm(gomock.Any()).Times(0)

	e := s.newEngine(spoof.WithMonitor(s.monitor, s.registrar))
	res, err := e.Apply(context.Background(), s.gms(), snapshot(
		switches.DisableGMSProps, "1",
		switches.CertifiedKey(profile.Model), "Pixel 8 Pro",
	))
	s.Require().NoError(err)
	s.Equal(spoof.KindCertified, res.Decision.Kind)
	s.Empty(res.Applied)
	s.Equal(map[string]string{
		switches.SecurityPatch: "2024-06-05",
		switches.FirstAPILevel: "33",
	}, res.Forwarded)
}

func (s *EngineSuite) TestCertifiedAppliesSwitchValues() {
	s.monitor.EXPECT().Arm(gomock.Any()).Return(false, nil)
	gomock.InOrder(
		s.primitive.EXPECT().SetAttribute(profile.Manufacturer, "Google").Return(nil),
		s.primitive.EXPECT().SetAttribute(profile.Model, "Pixel 8 Pro").Return(nil),
		s.primitive.EXPECT().SetAttribute(profile.BuildID, "AP2A.240605.024").Return(nil),
	)
	s.properties.EXPECT().Set(gomock.Any(), switches.SecurityPatch, "2024-06-05").Return(nil)
	s.monitor.EXPECT().Register(gomock.Any()).Return(nil)

	e := s.newEngine(spoof.WithMonitor(s.monitor, s.registrar))
	res, err := e.Apply(context.Background(), s.gms(), snapshot(
		switches.CertifiedKey(profile.Manufacturer), "Google",
		switches.CertifiedKey(profile.Model), "Pixel 8 Pro",
		switches.CertifiedKey(profile.Brand), "",
		switches.CertifiedKey(profile.SecurityPatch), "2024-06-05",
		switches.CertifiedKey(profile.BuildID), "AP2A.240605.024",
	))
	s.Require().NoError(err)
	s.True(res.MonitorArmed)
	s.False(res.SkippedOnTop)
	s.Equal([]profile.Attribute{profile.Manufacturer, profile.Model, profile.BuildID}, res.Applied)
	s.Equal("2024-06-05", res.Forwarded[switches.SecurityPatch])
}

func (s *EngineSuite) TestCertifiedSkippedWhileActivityOnTop() {
	s.monitor.EXPECT().Arm(gomock.Any()).Return(true, nil)
	s.primitive.EXPECT().SetAttribute(gomock.Any(), gomock.Any()).Times(0)
	s.monitor.EXPECT().Register(gomock.Any()).Return(nil)

	e := s.newEngine(spoof.WithMonitor(s.monitor, s.registrar))
	res, err := e.Apply(context.Background(), s.gms(), snapshot(
		switches.CertifiedKey(profile.Model), "Pixel 8 Pro",
	))
	s.Require().NoError(err)
	s.True(res.SkippedOnTop)
	s.Empty(res.Applied)
}

func (s *EngineSuite) TestCertifiedRegistrationFailureIsNotFatal() {
	s.monitor.EXPECT().Arm(gomock.Any()).Return(false, nil)
	s.primitive.EXPECT().SetAttribute(profile.Model, "Pixel 8 Pro").Return(nil)
	s.monitor.EXPECT().Register(gomock.Any()).Return(errors.New("security exception"))

	e := s.newEngine(spoof.WithMonitor(s.monitor, s.registrar))
	res, err := e.Apply(context.Background(), s.gms(), snapshot(
		switches.CertifiedKey(profile.Model), "Pixel 8 Pro",
	))
	s.Require().NoError(err)
	s.Equal([]profile.Attribute{profile.Model}, res.Applied)
}

func (s *EngineSuite) TestCertifiedArmFailureStillApplies() {
	s.monitor.EXPECT().Arm(gomock.Any()).Return(false, errors.New("already armed"))
	s.primitive.EXPECT().SetAttribute(profile.Model, "Pixel 8 Pro").Return(nil)
	s.monitor.EXPECT().Register(gomock.Any()).Times(0)

	e := s.newEngine(spoof.WithMonitor(s.monitor, s.registrar))
	res, err := e.Apply(context.Background(), s.gms(), snapshot(
		switches.CertifiedKey(profile.Model), "Pixel 8 Pro",
	))
	s.Require().NoError(err)
	s.False(res.MonitorArmed)
}

func (s *EngineSuite) TestForwardFailureIsLogged() {
	s.versions.EXPECT().SecurityPatch().Return("2024-06-05")
	s.versions.EXPECT().FirstAPILevel().Return(33)
	s.properties.EXPECT().Set(gomock.Any(), switches.SecurityPatch, gomock.Any()).Return(errors.New("denied"))
	s.properties.EXPECT().Set(gomock.Any(), switches.FirstAPILevel, "33").Return(nil)

	res, err := s.newEngine().Apply(context.Background(), s.gms(), snapshot(switches.DisableGMSProps, "true"))
	s.Require().NoError(err)
	s.Equal(map[string]string{switches.FirstAPILevel: "33"}, res.Forwarded)
}
