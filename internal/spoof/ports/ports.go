// Package ports defines the collaborators the override engine depends on.
// Platform adapters implement them; tests use the generated mocks.
package ports

//go:generate mockgen -source=ports.go -destination=../mocks/mocks.go -package=mocks Primitive,PropertyWriter,VersionSource,Monitor

import (
	"context"

	"pihooks/internal/profile"
	"pihooks/internal/taskmonitor"
)

// Primitive commits a value as the new build constant for the rest of the
// process lifetime. Each call is independently fallible.
type Primitive interface {
	SetAttribute(attr profile.Attribute, value string) error
}

// PropertyWriter writes to the platform property store.
type PropertyWriter interface {
	Set(ctx context.Context, key, value string) error
}

// VersionSource reports the unmodified version constants of the build.
type VersionSource interface {
	SecurityPatch() string
	FirstAPILevel() int
}

// Monitor is the foreground task monitor as seen by the engine.
type Monitor interface {
	Arm(ctx context.Context) (bool, error)
	Register(r taskmonitor.Registrar) error
}
