package profile

import (
	"fmt"
	"sort"
)

const (
	// FlagshipName is the built-in profile handed to Google apps.
	FlagshipName = "pixel_8_pro"
	// LegacyName is the built-in profile handed to the photo backup app.
	LegacyName = "pixel_xl"
)

var flagship = New(FlagshipName,
	Entry{Product, "husky"},
	Entry{Device, "husky"},
	Entry{Manufacturer, "Google"},
	Entry{Brand, "google"},
	Entry{Model, "Pixel 8 Pro"},
	Entry{Hardware, "husky"},
	Entry{BuildID, "AP2A.240605.024"},
	Entry{Fingerprint, "google/husky/husky:14/AP2A.240605.024/11860263:user/release-keys"},
)

var legacy = New(LegacyName,
	Entry{Brand, "google"},
	Entry{Manufacturer, "Google"},
	Entry{Device, "marlin"},
	Entry{Product, "marlin"},
	Entry{Model, "Pixel XL"},
	Entry{Fingerprint, "google/marlin/marlin:10/QP1A.191005.007.A3/5972272:user/release-keys"},
)

// Flagship returns the compiled-in flagship profile.
func Flagship() DeviceProfile { return flagship }

// Legacy returns the compiled-in legacy profile.
func Legacy() DeviceProfile { return legacy }

// Catalog is an immutable set of named profiles with the two roles the
// override rules need. Built once at startup and shared read-only.
type Catalog struct {
	profiles map[string]DeviceProfile
	flagship string
	legacy   string
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithProfiles adds or replaces named profiles.
func WithProfiles(profiles ...DeviceProfile) Option {
	return func(c *Catalog) {
		for _, p := range profiles {
			c.profiles[p.Name()] = p
		}
	}
}

// WithFlagship selects which named profile plays the flagship role.
func WithFlagship(name string) Option {
	return func(c *Catalog) {
		if name != "" {
			c.flagship = name
		}
	}
}

// WithLegacy selects which named profile plays the legacy role.
func WithLegacy(name string) Option {
	return func(c *Catalog) {
		if name != "" {
			c.legacy = name
		}
	}
}

// NewCatalog returns a catalog holding the built-in profiles plus any options.
// Role selections must name a profile present in the catalog.
func NewCatalog(opts ...Option) (*Catalog, error) {
	c := &Catalog{
		profiles: map[string]DeviceProfile{
			FlagshipName: flagship,
			LegacyName:   legacy,
		},
		flagship: FlagshipName,
		legacy:   LegacyName,
	}
	for _, opt := range opts {
		opt(c)
	}
	if _, ok := c.profiles[c.flagship]; !ok {
		return nil, fmt.Errorf("flagship profile %q is not in the catalog", c.flagship)
	}
	if _, ok := c.profiles[c.legacy]; !ok {
		return nil, fmt.Errorf("legacy profile %q is not in the catalog", c.legacy)
	}
	return c, nil
}

// DefaultCatalog returns the catalog of built-in profiles.
func DefaultCatalog() *Catalog {
	c, _ := NewCatalog()
	return c
}

// Profile looks up a profile by name.
func (c *Catalog) Profile(name string) (DeviceProfile, bool) {
	p, ok := c.profiles[name]
	return p, ok
}

// Flagship returns the profile selected for the flagship role.
func (c *Catalog) Flagship() DeviceProfile { return c.profiles[c.flagship] }

// Legacy returns the profile selected for the legacy role.
func (c *Catalog) Legacy() DeviceProfile { return c.profiles[c.legacy] }

// Names lists profile names in lexical order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.profiles))
	for name := range c.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
