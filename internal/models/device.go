package models

import "time"

// Transports a device can be reached over.
const (
	TransportADB = "adb"
	TransportSim = "sim"
)

// Device is a registered device under test.
type Device struct {
	Serial    string    `json:"serial"`
	Name      string    `json:"name,omitempty"`
	Transport string    `json:"transport"` // adb | sim
	CreatedAt time.Time `json:"created_at"`
}
