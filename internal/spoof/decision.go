package spoof

import (
	"pihooks/internal/identity"
	"pihooks/internal/profile"
	"pihooks/internal/switches"
)

// Kind is the shape of a spoof decision.
type Kind int

const (
	KindNone Kind = iota
	KindNamedProfile
	KindCertified
	KindSingleAttribute
)

func (k Kind) String() string {
	switch k {
	case KindNamedProfile:
		return "named_profile"
	case KindCertified:
		return "certified"
	case KindSingleAttribute:
		return "single_attribute"
	default:
		return "none"
	}
}

// Decision is the single override choice made for a process.
type Decision struct {
	Kind Kind
	// Rule is the 1-based rule that matched, 0 when none did.
	Rule      int
	Profile   profile.DeviceProfile
	Attribute profile.Attribute
	Value     string
}

// Resources are the externally configured strings read once at startup.
// Empty means "not configured".
type Resources struct {
	StockFingerprint string
	MediaSpoofModel  string
}

// Rules maps a classified process and the switch values to a Decision.
type Rules struct {
	catalog   *profile.Catalog
	resources Resources
}

// NewRules builds the rule chain. A nil catalog uses the built-in profiles.
func NewRules(catalog *profile.Catalog, resources Resources) Rules {
	if catalog == nil {
		catalog = profile.DefaultCatalog()
	}
	return Rules{catalog: catalog, resources: resources}
}

// IsZero reports whether r was declared without NewRules.
func (r Rules) IsZero() bool { return r.catalog == nil }

// Decide applies the rule chain. This is pure domain logic: no I/O, no side
// effects, first match wins.
// Rule priority:
//  1. Privileged services process - certified attributes from switches
//  2. AR services with a stock fingerprint configured - fingerprint only
//  3. Google apps with the Google apps switch on - flagship profile
//  4. Media streaming with a model configured - model only
//  5. Photo backup with the photo backup switch on - legacy profile
func (r Rules) Decide(pc identity.ProcessContext, sw switches.Reader) Decision {
	// Rule 1: Privileged services process
	if pc.IsPrivilegedServicesProcess {
		return Decision{Kind: KindCertified, Rule: 1}
	}

	// Rule 2: AR services get the stock fingerprint
	if r.resources.StockFingerprint != "" && pc.IsARServices() {
		return Decision{
			Kind:      KindSingleAttribute,
			Rule:      2,
			Attribute: profile.Fingerprint,
			Value:     r.resources.StockFingerprint,
		}
	}

	// Rule 3: Google apps
	if pc.IsGoogleApp() && sw.Bool(switches.SpoofGApps, false) {
		return Decision{Kind: KindNamedProfile, Rule: 3, Profile: r.catalog.Flagship()}
	}

	// Rule 4: Media streaming gets a custom model
	if r.resources.MediaSpoofModel != "" && pc.IsMediaStreaming() {
		return Decision{
			Kind:      KindSingleAttribute,
			Rule:      4,
			Attribute: profile.Model,
			Value:     r.resources.MediaSpoofModel,
		}
	}

	// Rule 5: Photo backup
	if pc.IsPhotoBackupProcess && sw.Bool(switches.SpoofGPhotos, false) {
		return Decision{Kind: KindNamedProfile, Rule: 5, Profile: r.catalog.Legacy()}
	}

	return Decision{Kind: KindNone}
}
