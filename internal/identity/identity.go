// Package identity classifies the current process from its package and
// process name. The result is computed once at attach time and passed by
// value to every decision function.
package identity

import (
	"errors"
	"strings"
)

// Well-known package and process names. Matching is exact and case-sensitive.
const (
	PackageARCore          = "com.google.ar.core"
	PackageAssistant       = "com.google.android.apps.googleassistant"
	PackageFinsky          = "com.android.vending"
	PackageGboard          = "com.google.android.inputmethod.latin"
	PackageGMS             = "com.google.android.gms"
	ProcessGMSUnstable     = PackageGMS + ".unstable"
	PackageNetflix         = "com.netflix.mediaclient"
	PackagePhotos          = "com.google.android.apps.photos"
	PackageSubscriptionRed = "com.google.android.apps.subscriptions.red"
	PackageVelvet          = "com.google.android.googlequicksearchbox"
)

// VendorManufacturer is the manufacturer string of vendor-built devices.
const VendorManufacturer = "Google"

// ErrEmptyIdentity is returned when the package or process name is missing.
var ErrEmptyIdentity = errors.New("empty package or process name")

var googleApps = map[string]struct{}{
	PackageAssistant:       {},
	PackageGboard:          {},
	PackageSubscriptionRed: {},
	PackageVelvet:          {},
}

// ProcessContext describes what the running process is. Zero value means
// "unclassified" and matches no rule.
type ProcessContext struct {
	PackageName                 string `json:"package_name"`
	ProcessName                 string `json:"process_name"`
	IsPrivilegedServicesProcess bool   `json:"is_privileged_services_process"`
	IsStorefrontProcess         bool   `json:"is_storefront_process"`
	IsPhotoBackupProcess        bool   `json:"is_photo_backup_process"`
	ManufacturerIsVendorDefault bool   `json:"manufacturer_is_vendor_default"`
}

// IsGoogleApp reports whether the package is one of the Google apps that get
// the flagship profile.
func (c ProcessContext) IsGoogleApp() bool {
	_, ok := googleApps[c.PackageName]
	return ok
}

// IsARServices reports whether the package is the AR services app.
func (c ProcessContext) IsARServices() bool { return c.PackageName == PackageARCore }

// IsMediaStreaming reports whether the package is the media streaming app.
func (c ProcessContext) IsMediaStreaming() bool { return c.PackageName == PackageNetflix }

// Build is the identity of the running build, as reported before any override.
type Build struct {
	Manufacturer string
	Model        string
}

// Classifier computes ProcessContext values for one build.
type Classifier struct {
	build Build
}

// NewClassifier captures the unmodified build identity.
func NewClassifier(build Build) Classifier {
	return Classifier{build: build}
}

// Classify is pure: identical inputs always produce identical contexts.
func (c Classifier) Classify(packageName, processName string) (ProcessContext, error) {
	if packageName == "" || processName == "" {
		return ProcessContext{}, ErrEmptyIdentity
	}

	return ProcessContext{
		PackageName:                 packageName,
		ProcessName:                 processName,
		IsPrivilegedServicesProcess: packageName == PackageGMS && processName == ProcessGMSUnstable,
		IsStorefrontProcess:         packageName == PackageFinsky,
		IsPhotoBackupProcess:        packageName == PackagePhotos,
		ManufacturerIsVendorDefault: c.build.Manufacturer == VendorManufacturer &&
			strings.Contains(c.build.Model, "Pixel"),
	}, nil
}
