package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// profileFile is the on-disk shape of an extra profile. Attributes is kept as
// a node so that file order becomes application order.
type profileFile struct {
	Name       string    `yaml:"name"`
	Attributes yaml.Node `yaml:"attributes"`
}

// Load reads a single profile file.
func Load(path string) (DeviceProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return DeviceProfile{}, fmt.Errorf("read %s: %w", path, err)
	}
	return parse(path, data)
}

// LoadAll loads every profile_*.yaml file in dir. A missing dir yields no profiles.
func LoadAll(dir string) ([]DeviceProfile, error) {
	if dir == "" {
		return nil, nil
	}
	matches, err := filepath.Glob(filepath.Join(dir, "profile_*.yaml"))
	if err != nil {
		return nil, err
	}

	profiles := make([]DeviceProfile, 0, len(matches))
	for _, path := range matches {
		p, err := Load(path)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

func parse(path string, data []byte) (DeviceProfile, error) {
	var f profileFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return DeviceProfile{}, fmt.Errorf("parse %s: %w", path, err)
	}

	name := f.Name
	if name == "" {
		// profile_pixel_7.yaml -> pixel_7
		base := filepath.Base(path)
		name = strings.TrimSuffix(strings.TrimPrefix(base, "profile_"), filepath.Ext(base))
	}

	if f.Attributes.Kind != yaml.MappingNode {
		return DeviceProfile{}, fmt.Errorf("parse %s: attributes must be a mapping", path)
	}

	content := f.Attributes.Content
	entries := make([]Entry, 0, len(content)/2)
	for i := 0; i+1 < len(content); i += 2 {
		attr, err := ParseAttribute(content[i].Value)
		if err != nil {
			return DeviceProfile{}, fmt.Errorf("parse %s: %w", path, err)
		}
		if !attr.IsProfileField() {
			return DeviceProfile{}, fmt.Errorf("parse %s: %s cannot be part of a profile", path, attr)
		}
		if content[i+1].Kind != yaml.ScalarNode {
			return DeviceProfile{}, fmt.Errorf("parse %s: %s must be a scalar", path, attr)
		}
		entries = append(entries, Entry{Attribute: attr, Value: content[i+1].Value})
	}
	if len(entries) == 0 {
		return DeviceProfile{}, fmt.Errorf("parse %s: profile %q has no attributes", path, name)
	}

	return New(name, entries...), nil
}
