package switches

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"pihooks/internal/profile"
)

// =============================================================================
// Switch Snapshot Test Suite
// =============================================================================
// Justification for unit tests: boolean parsing must match the platform
// property store, and snapshots must not observe later writes.

type SnapshotSuite struct {
	suite.Suite
}

func TestSnapshotSuite(t *testing.T) {
	suite.Run(t, new(SnapshotSuite))
}

func (s *SnapshotSuite) TestBool() {
	snap := NewSnapshot(map[string]string{
		"a": "1", "b": "yes", "c": "ON", "d": " true ",
		"e": "0", "f": "no", "g": "off", "h": "false",
		"i": "maybe", "j": "",
	})

	for _, key := range []string{"a", "b", "c", "d"} {
		s.True(snap.Bool(key, false), key)
	}
	for _, key := range []string{"e", "f", "g", "h"} {
		s.False(snap.Bool(key, true), key)
	}

	s.True(snap.Bool("i", true), "unparseable falls back to default")
	s.False(snap.Bool("j", false), "empty falls back to default")
	s.True(snap.Bool("missing", true))
	s.False(snap.Bool("missing", false))
}

func (s *SnapshotSuite) TestString() {
	snap := NewSnapshot(map[string]string{CertifiedKey(profile.Model): "Pixel 8 Pro"})
	s.Equal("Pixel 8 Pro", snap.String("persist.sys.paranoid.gms.MODEL"))
	s.Equal("", snap.String("missing"))
}

func (s *SnapshotSuite) TestInMemoryIsolation() {
	ctx := context.Background()
	store := NewInMemory(map[string]string{SpoofGApps: "1"})

	snap, err := store.Snapshot(ctx)
	s.Require().NoError(err)

	s.Require().NoError(store.Set(ctx, SpoofGApps, "0"))
	s.True(snap.Bool(SpoofGApps, false), "snapshot is immutable")

	v, ok := store.Get(SpoofGApps)
	s.True(ok)
	s.Equal("0", v)

	values := snap.Values()
	values[SpoofGApps] = "changed"
	s.Equal("1", snap.String(SpoofGApps))
}

func (s *SnapshotSuite) TestForwardKey() {
	key, ok := ForwardKey(profile.SecurityPatch)
	s.True(ok)
	s.Equal(SecurityPatch, key)

	key, ok = ForwardKey(profile.FirstAPILevel)
	s.True(ok)
	s.Equal(FirstAPILevel, key)

	_, ok = ForwardKey(profile.Model)
	s.False(ok)
}
