package models

import "time"

// Event types written to the transition log.
const (
	EventEnter          = "ENTER"
	EventLeave          = "LEAVE"
	EventVerifyFailed   = "VERIFY_FAILED"
	EventTransportError = "TRANSPORT_ERROR"
)

// ValidEventType reports whether t is one of the event types above.
func ValidEventType(t string) bool {
	switch t {
	case EventEnter, EventLeave, EventVerifyFailed, EventTransportError:
		return true
	}
	return false
}

// DozeEvent is a single transition log entry.
type DozeEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Serial      string    `json:"serial"`
	Type        string    `json:"type"` // ENTER | LEAVE | VERIFY_FAILED | TRANSPORT_ERROR
	DozeType    DozeType  `json:"doze_type,omitempty"`
	Attempts    int       `json:"attempts,omitempty"`
	Description string    `json:"description"`
	Metadata    any       `json:"metadata,omitempty"`
}
