package httptransport

import (
	"strings"

	"pihooks/internal/buildprops"
	"pihooks/internal/guard"
	"pihooks/internal/hooks"
	"pihooks/internal/identity"
	"pihooks/internal/profile"
	"pihooks/internal/spoof"
	dErrors "pihooks/pkg/domain-errors"
)

// ProcessRequest names the process a query is about.
type ProcessRequest struct {
	PackageName string `json:"package_name"`
	ProcessName string `json:"process_name"`
}

func (r *ProcessRequest) Normalize() {
	r.PackageName = strings.TrimSpace(r.PackageName)
	r.ProcessName = strings.TrimSpace(r.ProcessName)
}

func (r ProcessRequest) Validate() error {
	if r.PackageName == "" || r.ProcessName == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "package_name and process_name are required")
	}
	return nil
}

type AttestationRequest struct {
	ProcessRequest
	Frames []guard.Frame `json:"frames"`
}

type FeatureRequest struct {
	ProcessRequest
	Feature  string `json:"feature"`
	Reported bool   `json:"reported"`
}

func (r FeatureRequest) Validate() error {
	if err := r.ProcessRequest.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(r.Feature) == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "feature is required")
	}
	return nil
}

type EntryResponse struct {
	Attribute string `json:"attribute"`
	Value     string `json:"value"`
}

type ProfileResponse struct {
	Name    string          `json:"name"`
	Entries []EntryResponse `json:"entries"`
}

func FromProfile(p profile.DeviceProfile) *ProfileResponse {
	if p.IsZero() {
		return nil
	}
	out := &ProfileResponse{Name: p.Name(), Entries: make([]EntryResponse, 0, p.Len())}
	for _, e := range p.Entries() {
		out.Entries = append(out.Entries, EntryResponse{Attribute: e.Attribute.String(), Value: e.Value})
	}
	return out
}

type DecisionResponse struct {
	Kind      string           `json:"kind"`
	Rule      int              `json:"rule,omitempty"`
	Profile   *ProfileResponse `json:"profile,omitempty"`
	Attribute string           `json:"attribute,omitempty"`
	Value     string           `json:"value,omitempty"`
}

func FromDecision(d spoof.Decision) DecisionResponse {
	return DecisionResponse{
		Kind:      d.Kind.String(),
		Rule:      d.Rule,
		Profile:   FromProfile(d.Profile),
		Attribute: d.Attribute.String(),
		Value:     d.Value,
	}
}

type DecisionResult struct {
	Context  identity.ProcessContext `json:"context"`
	Decision DecisionResponse        `json:"decision"`
}

type AttestationResponse struct {
	Blocked bool   `json:"blocked"`
	Reason  string `json:"reason,omitempty"`
}

type FeatureResponse struct {
	Has bool `json:"has"`
}

type SimulationResponse struct {
	AttachID  string                  `json:"attach_id"`
	Context   identity.ProcessContext `json:"context"`
	Decision  DecisionResponse        `json:"decision"`
	Applied   []string                `json:"applied"`
	Failed    map[string]string       `json:"failed,omitempty"`
	Forwarded map[string]string       `json:"forwarded,omitempty"`
	Build     buildprops.Values       `json:"build"`
}

func FromSimulation(s *hooks.Simulation) SimulationResponse {
	return SimulationResponse{
		AttachID:  s.AttachID,
		Context:   s.Context,
		Decision:  FromDecision(s.Decision),
		Applied:   s.Applied,
		Failed:    s.Failed,
		Forwarded: s.Forwarded,
		Build:     s.Build,
	}
}
