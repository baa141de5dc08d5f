package profile

import "fmt"

// Attribute names one of the build-identity constants that can be overridden.
type Attribute string

const (
	Manufacturer  Attribute = "MANUFACTURER"
	Brand         Attribute = "BRAND"
	Device        Attribute = "DEVICE"
	Model         Attribute = "MODEL"
	Product       Attribute = "PRODUCT"
	Hardware      Attribute = "HARDWARE"
	BuildID       Attribute = "ID"
	Fingerprint   Attribute = "FINGERPRINT"
	SecurityPatch Attribute = "SECURITY_PATCH"
	FirstAPILevel Attribute = "FIRST_API_LEVEL"
)

var knownAttributes = map[Attribute]struct{}{
	Manufacturer:  {},
	Brand:         {},
	Device:        {},
	Model:         {},
	Product:       {},
	Hardware:      {},
	BuildID:       {},
	Fingerprint:   {},
	SecurityPatch: {},
	FirstAPILevel: {},
}

// IsValid reports whether a is part of the fixed attribute enumeration.
func (a Attribute) IsValid() bool {
	_, ok := knownAttributes[a]
	return ok
}

// IsVersionField reports whether a lives in the version namespace and is
// committed through the property store rather than the override primitive.
func (a Attribute) IsVersionField() bool {
	return a == SecurityPatch || a == FirstAPILevel
}

// IsProfileField reports whether a may appear in a bundled DeviceProfile.
func (a Attribute) IsProfileField() bool {
	return a.IsValid() && !a.IsVersionField()
}

func (a Attribute) String() string { return string(a) }

// ParseAttribute validates a raw attribute name.
func ParseAttribute(raw string) (Attribute, error) {
	a := Attribute(raw)
	if !a.IsValid() {
		return "", fmt.Errorf("unknown attribute %q", raw)
	}
	return a, nil
}

var certified = []Attribute{
	Manufacturer,
	Brand,
	Device,
	Model,
	Product,
	Hardware,
	Fingerprint,
	SecurityPatch,
	FirstAPILevel,
	BuildID,
}

// CertifiedAttributeNames returns, in application order, the attributes the
// privileged services process reads one by one from the switch store.
func CertifiedAttributeNames() []Attribute {
	out := make([]Attribute, len(certified))
	copy(out, certified)
	return out
}
