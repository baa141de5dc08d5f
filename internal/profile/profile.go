package profile

// Entry is one attribute assignment inside a profile.
type Entry struct {
	Attribute Attribute
	Value     string
}

// DeviceProfile is an ordered, read-only set of attribute values applied together.
type DeviceProfile struct {
	name    string
	entries []Entry
}

// New builds a profile. Later duplicates of an attribute replace the earlier
// value but keep its position.
func New(name string, entries ...Entry) DeviceProfile {
	p := DeviceProfile{name: name}
	index := make(map[Attribute]int, len(entries))
	for _, e := range entries {
		if i, ok := index[e.Attribute]; ok {
			p.entries[i].Value = e.Value
			continue
		}
		index[e.Attribute] = len(p.entries)
		p.entries = append(p.entries, e)
	}
	return p
}

func (p DeviceProfile) Name() string { return p.name }

func (p DeviceProfile) Len() int { return len(p.entries) }

// Entries returns a copy of the profile in application order.
func (p DeviceProfile) Entries() []Entry {
	out := make([]Entry, len(p.entries))
	copy(out, p.entries)
	return out
}

// Value returns the value assigned to a, if any.
func (p DeviceProfile) Value(a Attribute) (string, bool) {
	for _, e := range p.entries {
		if e.Attribute == a {
			return e.Value, true
		}
	}
	return "", false
}

// IsZero reports whether p is the empty profile.
func (p DeviceProfile) IsZero() bool {
	return p.name == "" && len(p.entries) == 0
}
