package taskmonitor

import (
	"fmt"
	"strings"
)

// ComponentName identifies an activity by package and fully qualified class.
type ComponentName struct {
	Package string
	Class   string
}

// ParseComponent parses the flattened "pkg/cls" form. A class starting with
// "." is relative to the package.
func ParseComponent(s string) (ComponentName, error) {
	pkg, cls, ok := strings.Cut(s, "/")
	if !ok || pkg == "" || cls == "" {
		return ComponentName{}, fmt.Errorf("invalid component name %q", s)
	}
	if strings.HasPrefix(cls, ".") {
		cls = pkg + cls
	}
	return ComponentName{Package: pkg, Class: cls}, nil
}

// MustParseComponent is ParseComponent for compile-time constants.
func MustParseComponent(s string) ComponentName {
	c, err := ParseComponent(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c ComponentName) String() string {
	return c.Package + "/" + c.Class
}

// IsZero reports whether c is unset.
func (c ComponentName) IsZero() bool {
	return c.Package == "" && c.Class == ""
}

// AddAccountActivity is the account-linking screen spoofing must stay out of.
var AddAccountActivity = MustParseComponent(
	"com.google.android.gms/.auth.uiflows.minutemaid.MinuteMaidActivity")
