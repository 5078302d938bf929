// Package doze drives a device's deviceidle subsystem into a verified target
// state. Each transition issues the power and idle commands, reads the status
// back and retries a bounded number of times while the device has not settled.
// Command channel failures are never retried.
package doze

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"controlling_doze/internal/models"
)

// Commands issued to the device shell.
const (
	cmdUnplug    = "dumpsys battery unplug"
	cmdReset     = "dumpsys battery reset"
	cmdGetStatus = "dumpsys deviceidle get %s"
	cmdForceIdle = "dumpsys deviceidle force-idle %s"
	cmdDisable   = "dumpsys deviceidle disable"
)

// ErrUnknownDozeType is returned before any command is issued when the doze
// type is neither DEEP nor LIGHT.
var ErrUnknownDozeType = errors.New("unknown doze type")

var errUnknownDirection = errors.New("unknown transition direction")

// Channel executes a shell command on one device and returns its output.
type Channel interface {
	Run(ctx context.Context, cmd string) (string, error)
}

// StateVerificationError is returned when the status read back after a
// transition does not match the target state.
type StateVerificationError struct {
	Type     models.DozeType
	Expected models.DozeState
	Observed string
	Attempts int // zero for a single check
}

func (e *StateVerificationError) Error() string {
	if e.Attempts > 0 {
		return fmt.Sprintf("doze %s: transition to %s failed after %d attempt(s), last status %q",
			e.Type.Arg(), e.Expected, e.Attempts, e.Observed)
	}
	return fmt.Sprintf("doze %s: expected status %s, got %q", e.Type.Arg(), e.Expected, e.Observed)
}

// IsVerification reports whether err is or wraps a *StateVerificationError.
func IsVerification(err error) bool {
	var ve *StateVerificationError
	return errors.As(err, &ve)
}

// Attempt describes the outcome of one transition attempt.
type Attempt struct {
	Request  models.TransitionRequest
	Number   int
	Observed string // empty when the channel failed before the status check
	Err      error
}

// Observer is called after every attempt.
type Observer func(Attempt)

// Controller enters and leaves doze mode. It holds no per-device state; the
// caller must not run two transitions against the same device concurrently.
// The zero value uses DefaultPolicy and time.Sleep.
type Controller struct {
	policy   Policy
	sleep    func(time.Duration)
	observer Observer
}

// Option configures a Controller.
type Option func(*Controller)

// WithPolicy sets the retry policy.
func WithPolicy(p Policy) Option { return func(c *Controller) { c.policy = p } }

// WithSleep replaces time.Sleep for the delay between attempts.
func WithSleep(fn func(time.Duration)) Option { return func(c *Controller) { c.sleep = fn } }

// WithObserver registers fn to be called after every attempt.
func WithObserver(fn Observer) Option { return func(c *Controller) { c.observer = fn } }

// New returns a controller using DefaultPolicy unless overridden.
func New(opts ...Option) *Controller {
	c := &Controller{policy: DefaultPolicy(), sleep: time.Sleep}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.policy.Validate(); err != nil {
		c.policy = DefaultPolicy()
	}
	return c
}

// Policy returns the retry policy in effect.
func (c *Controller) Policy() Policy { return c.policy }

// EnterDozeMode unplugs the power source, forces t idle and verifies the
// device reports IDLE for t.
func (c *Controller) EnterDozeMode(ctx context.Context, ch Channel, t models.DozeType) error {
	return c.Transition(ctx, ch, models.TransitionRequest{Type: t, Direction: models.DirectionEnter})
}

// LeaveDozeMode resets the power source, disables idle and verifies the
// device reports ACTIVE for t.
func (c *Controller) LeaveDozeMode(ctx context.Context, ch Channel, t models.DozeType) error {
	return c.Transition(ctx, ch, models.TransitionRequest{Type: t, Direction: models.DirectionLeave})
}

// Transition runs req with bounded retries. Only verification mismatches are
// retried; any other error is returned unchanged on the attempt it occurs.
func (c *Controller) Transition(ctx context.Context, ch Channel, req models.TransitionRequest) error {
	if !req.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownDozeType, req.Type)
	}
	if req.Direction != models.DirectionEnter && req.Direction != models.DirectionLeave {
		return fmt.Errorf("%w: %q", errUnknownDirection, req.Direction)
	}

	policy, sleep := c.policy, c.sleep
	if policy.Validate() != nil {
		policy = DefaultPolicy()
	}
	if sleep == nil {
		sleep = time.Sleep
	}

	var last *StateVerificationError
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		err := c.attempt(ctx, ch, req)
		c.notify(req, attempt, err)
		if err == nil {
			return nil
		}
		if !errors.As(err, &last) {
			return err
		}
		if attempt < policy.MaxAttempts {
			sleep(policy.Delay)
		}
	}
	last.Attempts = policy.MaxAttempts
	return last
}

func (c *Controller) attempt(ctx context.Context, ch Channel, req models.TransitionRequest) error {
	var cmds []string
	if req.Direction == models.DirectionEnter {
		cmds = []string{cmdUnplug, fmt.Sprintf(cmdForceIdle, req.Type.Arg())}
	} else {
		cmds = []string{cmdReset, cmdDisable}
	}
	for _, cmd := range cmds {
		if _, err := ch.Run(ctx, cmd); err != nil {
			return err
		}
	}
	return checkStatus(ctx, ch, req.Type, req.Direction.Target())
}

func (c *Controller) notify(req models.TransitionRequest, n int, err error) {
	if c.observer == nil {
		return
	}
	a := Attempt{Request: req, Number: n, Err: err}
	var ve *StateVerificationError
	switch {
	case err == nil:
		a.Observed = string(req.Direction.Target())
	case errors.As(err, &ve):
		a.Observed = ve.Observed
	}
	c.observer(a)
}

// checkStatus reads the status of t and compares it with expected.
func checkStatus(ctx context.Context, ch Channel, t models.DozeType, expected models.DozeState) error {
	got, err := readStatus(ctx, ch, t)
	if err != nil {
		return err
	}
	if got != string(expected) {
		return &StateVerificationError{Type: t, Expected: expected, Observed: got}
	}
	return nil
}

func readStatus(ctx context.Context, ch Channel, t models.DozeType) (string, error) {
	out, err := ch.Run(ctx, fmt.Sprintf(cmdGetStatus, t.Arg()))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// Status returns the status the device currently reports for t.
func Status(ctx context.Context, ch Channel, t models.DozeType) (models.DozeState, error) {
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownDozeType, t)
	}
	got, err := readStatus(ctx, ch, t)
	if err != nil {
		return "", err
	}
	return models.DozeState(got), nil
}
