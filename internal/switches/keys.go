package switches

import "pihooks/internal/profile"

// Switch keys read by the engine and the per-call predicates.
const (
	DisableGMSProps            = "persist.sys.pihooks.disable.gms_props"
	DisableKeyAttestationBlock = "persist.sys.pihooks.disable.gms_key_attestation_block"
	SpoofGApps                 = "persist.sys.paranoid.gapps"
	SpoofGPhotos               = "persist.sys.paranoid.gphotos"

	// Keys the certified path forwards version values to.
	SecurityPatch = "persist.sys.pihooks.security_patch"
	FirstAPILevel = "persist.sys.pihooks.first_api_level"

	certifiedPrefix = "persist.sys.paranoid.gms."
)

// CertifiedKey is the per-attribute override key for the privileged services process.
func CertifiedKey(attr profile.Attribute) string {
	return certifiedPrefix + string(attr)
}

// ForwardKey returns the property a version attribute is written to.
func ForwardKey(attr profile.Attribute) (string, bool) {
	switch attr {
	case profile.SecurityPatch:
		return SecurityPatch, true
	case profile.FirstAPILevel:
		return FirstAPILevel, true
	default:
		return "", false
	}
}
