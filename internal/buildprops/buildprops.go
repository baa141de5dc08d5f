// Package buildprops is the reference override primitive: a patched table of
// the running build's identity constants.
package buildprops

import (
	"errors"
	"fmt"
	"strconv"
	"sync"

	"pihooks/internal/identity"
	"pihooks/internal/profile"
)

var (
	// ErrParse is returned when an integer-typed attribute gets a non-integer value.
	ErrParse = errors.New("attribute value does not parse")
	// ErrAccess is returned when the attribute is not a patchable constant.
	ErrAccess = errors.New("attribute is not patchable")
)

// Values is the build identity as exposed to applications.
type Values struct {
	Manufacturer  string `yaml:"manufacturer" json:"manufacturer"`
	Brand         string `yaml:"brand" json:"brand"`
	Device        string `yaml:"device" json:"device"`
	Model         string `yaml:"model" json:"model"`
	Product       string `yaml:"product" json:"product"`
	Hardware      string `yaml:"hardware" json:"hardware"`
	ID            string `yaml:"id" json:"id"`
	Fingerprint   string `yaml:"fingerprint" json:"fingerprint"`
	SecurityPatch string `yaml:"security_patch" json:"security_patch"`
	FirstAPILevel int    `yaml:"first_api_level" json:"first_api_level"`
}

// Table holds the current values. Writes are rare (once per attach) and reads
// may come from any goroutine.
type Table struct {
	mu     sync.RWMutex
	values Values
}

// New returns a table seeded with the unmodified build.
func New(initial Values) *Table {
	return &Table{values: initial}
}

// SetAttribute commits value as the new constant for attr.
func (t *Table) SetAttribute(attr profile.Attribute, value string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if attr == profile.FirstAPILevel {
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrParse, attr, value)
		}
		t.values.FirstAPILevel = n
		return nil
	}

	field := t.stringField(attr)
	if field == nil {
		return fmt.Errorf("%w: %s", ErrAccess, attr)
	}
	*field = value
	return nil
}

// Get returns the current value of attr in string form.
func (t *Table) Get(attr profile.Attribute) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if attr == profile.FirstAPILevel {
		return strconv.Itoa(t.values.FirstAPILevel), true
	}
	field := t.stringField(attr)
	if field == nil {
		return "", false
	}
	return *field, true
}

// Values returns a copy of the current table.
func (t *Table) Values() Values {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.values
}

// SecurityPatch returns the current security patch level.
func (t *Table) SecurityPatch() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.values.SecurityPatch
}

// FirstAPILevel returns the API level the device first shipped with.
func (t *Table) FirstAPILevel() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.values.FirstAPILevel
}

// Build returns the identity the classifier needs.
func (t *Table) Build() identity.Build {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return identity.Build{Manufacturer: t.values.Manufacturer, Model: t.values.Model}
}

// stringField must be called with mu held.
func (t *Table) stringField(attr profile.Attribute) *string {
	switch attr {
	case profile.Manufacturer:
		return &t.values.Manufacturer
	case profile.Brand:
		return &t.values.Brand
	case profile.Device:
		return &t.values.Device
	case profile.Model:
		return &t.values.Model
	case profile.Product:
		return &t.values.Product
	case profile.Hardware:
		return &t.values.Hardware
	case profile.BuildID:
		return &t.values.ID
	case profile.Fingerprint:
		return &t.values.Fingerprint
	case profile.SecurityPatch:
		return &t.values.SecurityPatch
	default:
		return nil
	}
}
