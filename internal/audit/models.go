package audit

import "time"

// Action names one auditable workflow step.
type Action string

const (
	ActionDraftCreated          Action = "draft_created"
	ActionOTPSent               Action = "otp_sent"
	ActionOTPVerified           Action = "otp_verified"
	ActionRegistrationFailed    Action = "registration_failed"
	ActionRegistrationSucceeded Action = "registration_succeeded"
	ActionSessionStarted        Action = "session_started"
	ActionSessionRefreshed      Action = "session_refreshed"
	ActionSessionCleared        Action = "session_cleared"
)

// Event is emitted from workflow logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	DraftID   string    `json:"draft_id,omitempty"`
	SessionID string    `json:"session_id,omitempty"`
	Role      string    `json:"role,omitempty"`
	Action    Action    `json:"action"`
	Detail    string    `json:"detail,omitempty"`
}
