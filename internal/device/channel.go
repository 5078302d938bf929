package device

import (
	"context"
	"errors"
	"fmt"
)

// Channel executes a shell command on a device and returns its textual output.
type Channel interface {
	Run(ctx context.Context, cmd string) (string, error)
}

// ChannelFunc adapts a plain function to Channel.
type ChannelFunc func(ctx context.Context, cmd string) (string, error)

func (f ChannelFunc) Run(ctx context.Context, cmd string) (string, error) { return f(ctx, cmd) }

// TransportError reports that a command could not be delivered to or executed on the device.
type TransportError struct {
	Serial string
	Cmd    string
	Err    error
}

func (e *TransportError) Error() string {
	if e.Serial == "" {
		return fmt.Sprintf("run %q: %v", e.Cmd, e.Err)
	}
	return fmt.Sprintf("device %s: run %q: %v", e.Serial, e.Cmd, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsTransport reports whether err is or wraps a *TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
