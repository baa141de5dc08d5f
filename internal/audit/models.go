package audit

import "time"

// Action names what happened to a process.
type Action string

const (
	ActionAttached           Action = "attached"
	ActionAttachFailed       Action = "attach_failed"
	ActionAttestationBlocked Action = "attestation_blocked"
	ActionFeatureRewritten   Action = "feature_rewritten"
)

// Event is emitted from the hooks facade to capture security relevant
// actions. Keep it transport-agnostic so sinks can fan out.
type Event struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	AttachID    string    `json:"attach_id,omitempty"`
	Action      Action    `json:"action"`
	PackageName string    `json:"package_name,omitempty"`
	ProcessName string    `json:"process_name,omitempty"`
	Decision    string    `json:"decision,omitempty"`
	Reason      string    `json:"reason,omitempty"`
}
