package device

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/google/shlex"
)

const (
	defaultADBPath    = "adb"
	defaultADBTimeout = 30 * time.Second
)

var errEmptyCommand = errors.New("empty command")

// execFunc runs name with args and returns combined output.
type execFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

func execCombined(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// ADBChannel runs commands through `adb -s <serial> shell`.
type ADBChannel struct {
	serial  string
	path    string
	timeout time.Duration
	exec    execFunc
}

// NewADBChannel returns a channel for serial. Empty path and non-positive
// timeout fall back to "adb" and 30s.
func NewADBChannel(serial, path string, timeout time.Duration) *ADBChannel {
	if path == "" {
		path = defaultADBPath
	}
	if timeout <= 0 {
		timeout = defaultADBTimeout
	}
	return &ADBChannel{serial: serial, path: path, timeout: timeout, exec: execCombined}
}

// Serial returns the device serial the channel targets.
func (c *ADBChannel) Serial() string { return c.serial }

// Run executes cmd in the device shell. Any failure to start adb, a non-zero
// exit or a timeout is returned as *TransportError.
func (c *ADBChannel) Run(ctx context.Context, cmd string) (string, error) {
	args, err := shlex.Split(cmd)
	if err != nil {
		return "", &TransportError{Serial: c.serial, Cmd: cmd, Err: fmt.Errorf("parse command: %w", err)}
	}
	if len(args) == 0 {
		return "", &TransportError{Serial: c.serial, Cmd: cmd, Err: errEmptyCommand}
	}

	full := make([]string, 0, len(args)+3)
	if c.serial != "" {
		full = append(full, "-s", c.serial)
	}
	full = append(full, "shell")
	full = append(full, args...)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	out, err := c.exec(ctx, c.path, full...)
	if err != nil {
		if msg := strings.TrimSpace(string(out)); msg != "" {
			err = fmt.Errorf("%w: %s", err, msg)
		}
		return "", &TransportError{Serial: c.serial, Cmd: cmd, Err: err}
	}
	return string(out), nil
}
