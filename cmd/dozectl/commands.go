package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"controlling_doze/internal/device"
	"controlling_doze/internal/doze"
	"controlling_doze/internal/logger"
	"controlling_doze/internal/models"
)

const simTick = 50 * time.Millisecond

// CLI definition & global flags.
type CLI struct {
	Serial      string        `short:"s" help:"Device serial" default:"sim-0" env:"ANDROID_SERIAL"`
	ADB         string        `name:"adb" help:"Path to the adb binary" default:"adb"`
	Timeout     time.Duration `help:"Per-command adb timeout" default:"30s"`
	Sim         bool          `help:"Use an in-process simulated device instead of adb"`
	SettleTicks int           `name:"settle-ticks" help:"Simulator ticks before a forced transition is reported" default:"0"`
	Attempts    int           `help:"Maximum transition attempts" default:"3"`
	Delay       time.Duration `help:"Delay between attempts" default:"1s"`
	Verbose     bool          `short:"v" help:"Enable debug logging"`

	Enter  EnterCmd  `cmd:"" help:"Enter doze mode and verify IDLE"`
	Leave  LeaveCmd  `cmd:"" help:"Leave doze mode and verify ACTIVE"`
	Status StatusCmd `cmd:"" help:"Print the current doze status of both types"`

	out io.Writer `kong:"-"`
}

// AfterApply runs after flag parsing.
func (c *CLI) AfterApply() error {
	if c.out == nil {
		c.out = os.Stdout
	}
	return nil
}

func (c *CLI) logger() *logger.Logger {
	if c.Verbose {
		return logger.New(logger.Config{Level: logger.DebugLevel})
	}
	return logger.New(logger.Config{Level: logger.WarnLevel})
}

// channel returns the command channel for the selected device. For the
// simulator a background loop ticks it until ctx is canceled.
func (c *CLI) channel(ctx context.Context) (device.Channel, error) {
	pool := device.NewPool(device.PoolConfig{
		ADBPath:     c.ADB,
		ADBTimeout:  c.Timeout,
		SettleTicks: c.SettleTicks,
	})
	d := models.Device{Serial: c.Serial, Transport: models.TransportADB}
	if c.Sim {
		d.Transport = models.TransportSim
		go pool.Run(ctx, simTick)
	}
	ch, err := pool.Channel(d)
	if err != nil || !c.Verbose {
		return ch, err
	}
	return traced(ch, c.logger().Device(c.Serial)), nil
}

// traced logs every shell command and its trimmed output at debug level.
func traced(ch device.Channel, log *logger.Logger) device.Channel {
	return device.ChannelFunc(func(ctx context.Context, cmd string) (string, error) {
		out, err := ch.Run(ctx, cmd)
		log.Debugw("shell_cmd", "cmd", cmd, "out", strings.TrimSpace(out), "err", err)
		return out, err
	})
}

func (c *CLI) controller() *doze.Controller {
	log := c.logger().Device(c.Serial)
	return doze.New(
		doze.WithPolicy(doze.NewPolicy(c.Attempts, c.Delay)),
		doze.WithObserver(func(a doze.Attempt) {
			log.Debugw("doze_attempt",
				"doze_type", a.Request.Type, "direction", a.Request.Direction,
				"attempt", a.Number, "observed", a.Observed, "err", a.Err)
		}),
	)
}

func parseDozeType(s string) (models.DozeType, error) {
	t, ok := models.ParseDozeType(s)
	if !ok {
		return "", fmt.Errorf("%w: %q", doze.ErrUnknownDozeType, s)
	}
	return t, nil
}

// EnterCmd implements the 'enter' command.
type EnterCmd struct {
	Type string `arg:"" help:"Doze type: deep or light"`
}

func (e *EnterCmd) Run(root *CLI) error {
	return runTransition(root, e.Type, models.DirectionEnter)
}

// LeaveCmd implements the 'leave' command.
type LeaveCmd struct {
	Type string `arg:"" help:"Doze type: deep or light"`
}

func (l *LeaveCmd) Run(root *CLI) error {
	return runTransition(root, l.Type, models.DirectionLeave)
}

func runTransition(root *CLI, typ string, dir models.Direction) error {
	t, err := parseDozeType(typ)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := root.channel(ctx)
	if err != nil {
		return err
	}
	start := time.Now()
	if err := root.controller().Transition(ctx, ch, models.TransitionRequest{Type: t, Direction: dir}); err != nil {
		return err
	}
	_, err = fmt.Fprintf(root.out, "%s: %s %s -> %s (%s)\n",
		root.Serial, dir, t.Arg(), dir.Target(), time.Since(start).Round(time.Millisecond))
	return err
}

// StatusCmd implements the 'status' command.
type StatusCmd struct{}

func (s *StatusCmd) Run(root *CLI) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := root.channel(ctx)
	if err != nil {
		return err
	}
	for _, t := range models.DozeTypes {
		st, err := doze.Status(ctx, ch, t)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(root.out, "%s %s: %s\n", root.Serial, t.Arg(), st); err != nil {
			return err
		}
	}
	return nil
}
