package models

import (
	"strings"
	"time"
)

// DozeType selects one of the two independent idle subsystems.
type DozeType string

const (
	DozeDeep  DozeType = "DEEP"
	DozeLight DozeType = "LIGHT"
)

// DozeTypes lists every known doze type in a stable order.
var DozeTypes = []DozeType{DozeDeep, DozeLight}

// Arg returns the lowercase form used in dumpsys commands.
func (t DozeType) Arg() string { return strings.ToLower(string(t)) }

// Valid reports whether t is DEEP or LIGHT.
func (t DozeType) Valid() bool { return t == DozeDeep || t == DozeLight }

// ParseDozeType accepts "deep"/"light" in any case.
func ParseDozeType(s string) (DozeType, bool) {
	t := DozeType(strings.ToUpper(strings.TrimSpace(s)))
	return t, t.Valid()
}

// DozeState is the status reported by `dumpsys deviceidle get`.
type DozeState string

const (
	StateInactive DozeState = "INACTIVE"
	StateActive   DozeState = "ACTIVE"
	StateIdle     DozeState = "IDLE"
)

// Direction of a requested transition.
type Direction string

const (
	DirectionEnter Direction = "enter"
	DirectionLeave Direction = "leave"
)

// Target is the state a successful transition in this direction ends in.
func (d Direction) Target() DozeState {
	if d == DirectionEnter {
		return StateIdle
	}
	return StateActive
}

// TransitionRequest pairs a doze type with a direction.
type TransitionRequest struct {
	Type      DozeType  `json:"doze_type"`
	Direction Direction `json:"direction"`
}

// StatusSnapshot is the last observed status of both doze types on a device.
type StatusSnapshot struct {
	Serial     string    `json:"serial"`
	Deep       DozeState `json:"deep,omitempty"`
	Light      DozeState `json:"light,omitempty"`
	ObservedAt time.Time `json:"observed_at"`
}

// Set stores st under the field belonging to t.
func (s *StatusSnapshot) Set(t DozeType, st DozeState) {
	switch t {
	case DozeDeep:
		s.Deep = st
	case DozeLight:
		s.Light = st
	}
}
