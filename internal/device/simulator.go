package device

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"controlling_doze/internal/models"

	"github.com/google/shlex"
)

// maxHistory bounds the retained command history; older commands are dropped.
const maxHistory = 256

var (
	errOffline        = errors.New("device offline")
	errUnknownCommand = errors.New("unknown command")
)

// pendingTransition is a forced state change waiting for the device to settle.
type pendingTransition struct {
	to    models.DozeState
	ticks int
}

// Simulator is an in-memory device that understands the dumpsys battery and
// deviceidle commands. Forced transitions take effect after settleTicks calls
// to Tick, so callers see the same "not settled yet" window real devices have.
type Simulator struct {
	mu          sync.Mutex
	serial      string
	settleTicks int
	online      bool
	unplugged   bool
	states      map[models.DozeType]models.DozeState
	pending     map[models.DozeType]pendingTransition
	history     []string
}

// NewSimulator returns an online simulated device with both doze types ACTIVE.
func NewSimulator(serial string, settleTicks int) *Simulator {
	if settleTicks < 0 {
		settleTicks = 0
	}
	return &Simulator{
		serial:      serial,
		settleTicks: settleTicks,
		online:      true,
		states: map[models.DozeType]models.DozeState{
			models.DozeDeep:  models.StateActive,
			models.DozeLight: models.StateActive,
		},
		pending: make(map[models.DozeType]pendingTransition),
	}
}

// Serial returns the simulated device serial.
func (s *Simulator) Serial() string { return s.serial }

// Run executes a shell command against the simulated device.
func (s *Simulator) Run(_ context.Context, cmd string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.record(cmd)
	if !s.online {
		return "", &TransportError{Serial: s.serial, Cmd: cmd, Err: errOffline}
	}
	args, err := shlex.Split(cmd)
	if err != nil || len(args) < 3 || args[0] != "dumpsys" {
		return "", &TransportError{Serial: s.serial, Cmd: cmd, Err: errUnknownCommand}
	}

	switch args[1] {
	case "battery":
		return s.battery(cmd, args[2:])
	case "deviceidle":
		return s.deviceIdle(cmd, args[2:])
	}
	return "", &TransportError{Serial: s.serial, Cmd: cmd, Err: errUnknownCommand}
}

func (s *Simulator) battery(cmd string, args []string) (string, error) {
	switch args[0] {
	case "unplug":
		s.unplugged = true
		return "", nil
	case "reset":
		s.unplugged = false
		return "", nil
	}
	return "", &TransportError{Serial: s.serial, Cmd: cmd, Err: errUnknownCommand}
}

func (s *Simulator) deviceIdle(cmd string, args []string) (string, error) {
	switch args[0] {
	case "get":
		t, ok := argDozeType(args)
		if !ok {
			return "", &TransportError{Serial: s.serial, Cmd: cmd, Err: errUnknownCommand}
		}
		return string(s.states[t]) + "\n", nil
	case "force-idle":
		t, ok := argDozeType(args)
		if !ok {
			return "", &TransportError{Serial: s.serial, Cmd: cmd, Err: errUnknownCommand}
		}
		if !s.unplugged {
			return fmt.Sprintf("Unable to go %s idle; device is charging\n", t.Arg()), nil
		}
		s.schedule(t, models.StateIdle)
		return fmt.Sprintf("Now forced in to %s idle mode\n", t.Arg()), nil
	case "disable":
		for _, t := range models.DozeTypes {
			s.schedule(t, models.StateActive)
		}
		return "Deep idle mode disabled\nLight idle mode disabled\n", nil
	}
	return "", &TransportError{Serial: s.serial, Cmd: cmd, Err: errUnknownCommand}
}

func argDozeType(args []string) (models.DozeType, bool) {
	if len(args) < 2 {
		return "", false
	}
	return models.ParseDozeType(args[1])
}

// schedule must be called with s.mu held. Repeating a command that is already
// pending keeps its countdown.
func (s *Simulator) schedule(t models.DozeType, to models.DozeState) {
	if p, ok := s.pending[t]; ok && p.to == to {
		return
	}
	if s.states[t] == to {
		delete(s.pending, t)
		return
	}
	if s.settleTicks == 0 {
		s.states[t] = to
		delete(s.pending, t)
		return
	}
	s.pending[t] = pendingTransition{to: to, ticks: s.settleTicks}
}

// Tick advances pending transitions by one step.
func (s *Simulator) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for t, p := range s.pending {
		p.ticks--
		if p.ticks <= 0 {
			s.states[t] = p.to
			delete(s.pending, t)
			continue
		}
		s.pending[t] = p
	}
}

// SetOnline toggles whether commands reach the device.
func (s *Simulator) SetOnline(online bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.online = online
}

// SetState overrides the reported state of t and drops any pending change.
func (s *Simulator) SetState(t models.DozeType, st models.DozeState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[t] = st
	delete(s.pending, t)
}

// State returns the current state of t.
func (s *Simulator) State(t models.DozeType) models.DozeState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.states[t]
}

// Unplugged reports whether the simulated power source is disconnected.
func (s *Simulator) Unplugged() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unplugged
}

// record must be called with s.mu held.
func (s *Simulator) record(cmd string) {
	if len(s.history) >= maxHistory {
		n := copy(s.history, s.history[len(s.history)-maxHistory+1:])
		s.history = s.history[:n]
	}
	s.history = append(s.history, cmd)
}

// History returns the last commands received, oldest first.
func (s *Simulator) History() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.history...)
}

// Count returns how many retained commands start with prefix.
func (s *Simulator) Count(prefix string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.history {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}
