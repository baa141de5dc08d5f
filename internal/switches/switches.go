// Package switches reads user-configurable switches. Backends produce an
// immutable Snapshot once at attach time; decision code only sees Reader.
package switches

import (
	"context"
	"strings"
)

// Reader answers switch lookups. Implementations must be safe for
// concurrent use without locking by callers.
type Reader interface {
	Bool(key string, def bool) bool
	String(key string) string
}

// Source loads a consistent snapshot of every switch.
type Source interface {
	Snapshot(ctx context.Context) (Snapshot, error)
}

// Writer commits a property value. Used for values forwarded to downstream
// consumers, never for the switches the engine reads.
type Writer interface {
	Set(ctx context.Context, key, value string) error
}

// Snapshot is an immutable Reader.
type Snapshot struct {
	values map[string]string
}

// NewSnapshot copies values into a Snapshot.
func NewSnapshot(values map[string]string) Snapshot {
	cp := make(map[string]string, len(values))
	for k, v := range values {
		cp[k] = v
	}
	return Snapshot{values: cp}
}

// String returns the raw value, or "" when unset.
func (s Snapshot) String(key string) string {
	return s.values[key]
}

// Bool parses the value the way the platform property store does:
// 1/y/yes/on/true are true, 0/n/no/off/false are false, anything else is def.
func (s Snapshot) Bool(key string, def bool) bool {
	v, ok := s.values[key]
	if !ok {
		return def
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "y", "yes", "on", "true":
		return true
	case "0", "n", "no", "off", "false":
		return false
	default:
		return def
	}
}

// Len returns the number of switches in the snapshot.
func (s Snapshot) Len() int { return len(s.values) }

// Values returns a copy of the snapshot contents.
func (s Snapshot) Values() map[string]string {
	cp := make(map[string]string, len(s.values))
	for k, v := range s.values {
		cp[k] = v
	}
	return cp
}
