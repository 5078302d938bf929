// Package poller periodically snapshots the doze status of every registered
// device.
package poller

import (
	"context"
	"fmt"
	"time"

	"controlling_doze/internal/logger"
	"controlling_doze/internal/models"

	"github.com/go-co-op/gocron/v2"
)

// DeviceLister lists registered devices.
type DeviceLister interface {
	List(ctx context.Context) ([]models.Device, error)
}

// StatusReader reads the current doze status of one device.
type StatusReader interface {
	GetStatus(ctx context.Context, serial string) (models.StatusSnapshot, error)
}

// Poller wraps a gocron scheduler running a single status polling job.
type Poller struct {
	devices   DeviceLister
	status    StatusReader
	log       *logger.Logger
	scheduler gocron.Scheduler
	ctx       context.Context
}

func New(devices DeviceLister, status StatusReader, log *logger.Logger) *Poller {
	if log == nil {
		log = logger.Nop()
	}
	return &Poller{devices: devices, status: status, log: log}
}

// PollOnce reads the status of every registered device. A failing device is
// logged and skipped; the number of devices read successfully is returned.
func (p *Poller) PollOnce(ctx context.Context) (int, error) {
	devs, err := p.devices.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list devices: %w", err)
	}
	ok := 0
	for _, d := range devs {
		if ctx.Err() != nil {
			return ok, ctx.Err()
		}
		snap, err := p.status.GetStatus(ctx, d.Serial)
		if err != nil {
			p.log.Device(d.Serial).Warnw("status_poll_failed", "err", err)
			continue
		}
		ok++
		p.log.Device(d.Serial).Debugw("status_polled", "deep", snap.Deep, "light", snap.Light)
	}
	return ok, nil
}

// Start schedules PollOnce every interval. An interval <= 0 disables polling.
// Runs never overlap; a run still in progress when the next is due is
// rescheduled.
func (p *Poller) Start(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		p.log.Infow("status_poller_disabled")
		return nil
	}
	s, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	p.ctx = ctx
	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(p.run),
		gocron.WithName("doze-status-poll"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return fmt.Errorf("failed to create status poll job: %w", err)
	}
	p.scheduler = s
	s.Start()
	p.log.Infow("status_poller_started", "interval", interval.String())
	return nil
}

func (p *Poller) run() {
	n, err := p.PollOnce(p.ctx)
	if err != nil {
		p.log.Errorw("status_poll_run_failed", "err", err)
		return
	}
	p.log.Debugw("status_poll_run_done", "devices", n)
}

// Stop shuts the scheduler down and waits for a running poll to finish.
func (p *Poller) Stop() error {
	if p.scheduler == nil {
		return nil
	}
	p.log.Infow("status_poller_stopping")
	return p.scheduler.Shutdown()
}
