package service

import (
	"context"
	"time"

	"controlling_doze/internal/device"
	"controlling_doze/internal/doze"
	"controlling_doze/internal/logger"
	"controlling_doze/internal/metrics"
	"controlling_doze/internal/models"
	"controlling_doze/internal/repository"
)

type Authorization interface {
	SignUp(ctx context.Context, username, password string) (int, error)
	GenerateToken(ctx context.Context, username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Doze drives registered devices in and out of doze mode.
type Doze interface {
	Enter(ctx context.Context, serial string, t models.DozeType) error
	Leave(ctx context.Context, serial string, t models.DozeType) error
}

// Monitoring reads doze status, fresh from the device or from the last snapshot.
type Monitoring interface {
	GetStatus(ctx context.Context, serial string) (models.StatusSnapshot, error)
	LastSnapshot(ctx context.Context, serial string) (models.StatusSnapshot, error)
}

// EventLog exposes the append-only transition log with filtering.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.DozeEvent, error)
}

// Devices manages the device registry.
type Devices interface {
	Register(ctx context.Context, d models.Device) (models.Device, error)
	List(ctx context.Context) ([]models.Device, error)
	Remove(ctx context.Context, serial string) error
}

// Simulator advances simulated devices until ctx is canceled.
type Simulator interface {
	Run(ctx context.Context, tick time.Duration)
}

// ChannelProvider returns the command channel for a registered device.
type ChannelProvider interface {
	Channel(d models.Device) (device.Channel, error)
}

// Service aggregates all sub-services.
type Service struct {
	Doze
	Monitoring
	EventLog
	Devices
	Simulator
	Authorization
}

// Deps carries the non-repository collaborators.
type Deps struct {
	Pool     *device.Pool
	Policy   doze.Policy
	Recorder metrics.Recorder
	Log      *logger.Logger
	Auth     AuthConfig
}

// NewService wires the repository layer and device pool into concrete services.
func NewService(repos *repository.Repository, deps Deps) *Service {
	if deps.Recorder == nil {
		deps.Recorder = metrics.NoopRecorder{}
	}
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	var forget func(string)
	if deps.Pool != nil {
		forget = deps.Pool.Forget
	}
	locks := newDeviceLocks()
	resolver := &deviceResolver{devices: repos.DeviceRepo, channels: deps.Pool}

	return &Service{
		Doze:          NewDozeService(resolver, locks, repos.StatusRepo, repos.EventRepo, deps.Policy, deps.Recorder, deps.Log),
		Monitoring:    NewMonitoringService(resolver, locks, repos.StatusRepo, deps.Recorder),
		EventLog:      NewEventLogService(repos.EventRepo),
		Devices:       NewDeviceService(repos.DeviceRepo, forget),
		Simulator:     deps.Pool,
		Authorization: NewAuthService(repos.Auth, deps.Auth),
	}
}
