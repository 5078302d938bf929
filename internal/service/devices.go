package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"controlling_doze/internal/models"
	"controlling_doze/internal/repository"
)

type DeviceService struct {
	repo   repository.DeviceRepo
	forget func(serial string)
}

// NewDeviceService returns the registry service. forget, when set, is called
// after a device is removed so cached channels can be dropped.
func NewDeviceService(repo repository.DeviceRepo, forget func(serial string)) *DeviceService {
	return &DeviceService{repo: repo, forget: forget}
}

// normalizeDevice trims the serial and defaults the transport to adb.
func normalizeDevice(d models.Device) (models.Device, error) {
	d.Serial = strings.TrimSpace(d.Serial)
	d.Name = strings.TrimSpace(d.Name)
	d.Transport = strings.ToLower(strings.TrimSpace(d.Transport))
	if d.Transport == "" {
		d.Transport = models.TransportADB
	}
	if d.Serial == "" || strings.ContainsAny(d.Serial, " \t\n") {
		return models.Device{}, ErrInvalidDevice
	}
	if d.Transport != models.TransportADB && d.Transport != models.TransportSim {
		return models.Device{}, ErrInvalidDevice
	}
	return d, nil
}

func (s *DeviceService) Register(ctx context.Context, d models.Device) (models.Device, error) {
	d, err := normalizeDevice(d)
	if err != nil {
		return models.Device{}, err
	}
	existing, err := s.repo.Get(ctx, d.Serial)
	if err != nil {
		return models.Device{}, err
	}
	if existing != nil {
		return models.Device{}, fmt.Errorf("%w: %q", ErrDeviceExists, d.Serial)
	}
	d.CreatedAt = time.Now().UTC()
	if err := s.repo.Create(ctx, d); err != nil {
		return models.Device{}, err
	}
	return d, nil
}

func (s *DeviceService) List(ctx context.Context) ([]models.Device, error) {
	return s.repo.List(ctx)
}

func (s *DeviceService) Remove(ctx context.Context, serial string) error {
	serial = strings.TrimSpace(serial)
	ok, err := s.repo.Delete(ctx, serial)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %q", ErrDeviceNotFound, serial)
	}
	if s.forget != nil {
		s.forget(serial)
	}
	return nil
}
