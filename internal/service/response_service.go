package service

import (
	"errors"
	"time"

	"controlling_doze/internal/models"
)

// LogFilter supports history filtering by time range, event type and device.
type LogFilter struct {
	From     time.Time       // inclusive; zero means no lower bound
	To       time.Time       // inclusive; zero means no upper bound
	Type     string          // "", "ENTER", "LEAVE", "VERIFY_FAILED", "TRANSPORT_ERROR"
	Serial   string          // "" means all devices
	DozeType models.DozeType // "" means both types
	Limit    int             // newest Limit events; 0 means all
}

// Errors surfaced to the HTTP layer.
var (
	ErrDeviceNotFound   = errors.New("device not registered")
	ErrDeviceExists     = errors.New("device already registered")
	ErrInvalidDevice    = errors.New("invalid device: serial required, transport must be adb or sim")
	ErrInvalidTimeRange = errors.New("invalid time range: From must be <= To")
	ErrInvalidLogFilter = errors.New("invalid log filter")
)
