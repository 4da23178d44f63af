package audit

import "time"

// EventCategory classifies audit events by their primary purpose so sinks can
// apply different retention and routing.
type EventCategory string

const (
	// CategoryCompliance covers events with regulatory significance, such as
	// profile data being synchronized into the host's user record.
	CategoryCompliance EventCategory = "compliance"

	// CategoryOperations covers events useful for debugging and operational
	// visibility, such as rejected submissions and settings changes.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so publishers can fan out.
type Event struct {
	Category  EventCategory `json:"category"`
	Timestamp time.Time     `json:"timestamp"`
	Action    string        `json:"action"`
	// UserID is the host's integer user identifier; zero for anonymous actors.
	UserID    int64  `json:"user_id,omitempty"`
	SessionID string `json:"session_id,omitempty"`
	// Subject names the thing acted on (a policy key, a field label).
	Subject   string `json:"subject,omitempty"`
	Reason    string `json:"reason,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// Audit actions emitted by this service.
const (
	EventValidationFailed = "validation_failed"
	EventStashCaptured    = "stash_captured"
	EventProfileSynced    = "profile_synced"
	EventSettingsSaved    = "settings_saved"
)
