package service

import (
	"context"
	"time"

	"controlling_doze/internal/doze"
	"controlling_doze/internal/metrics"
	"controlling_doze/internal/models"
	"controlling_doze/internal/repository"
)

type MonitoringService struct {
	resolver   *deviceResolver
	locks      *deviceLocks
	statusRepo repository.StatusRepo
	rec        metrics.Recorder
}

func NewMonitoringService(resolver *deviceResolver, locks *deviceLocks, statusRepo repository.StatusRepo, rec metrics.Recorder) *MonitoringService {
	return &MonitoringService{resolver: resolver, locks: locks, statusRepo: statusRepo, rec: rec}
}

// GetStatus queries both doze types on the device and stores the snapshot.
func (s *MonitoringService) GetStatus(ctx context.Context, serial string) (models.StatusSnapshot, error) {
	ch, err := s.resolver.resolve(ctx, serial)
	if err != nil {
		return models.StatusSnapshot{}, err
	}

	unlock := s.locks.lock(serial)
	snap := models.StatusSnapshot{Serial: serial}
	for _, t := range models.DozeTypes {
		st, err := doze.Status(ctx, ch, t)
		if err != nil {
			unlock()
			return models.StatusSnapshot{}, err
		}
		snap.Set(t, st)
	}
	unlock()

	snap.ObservedAt = time.Now().UTC()
	for _, t := range models.DozeTypes {
		st := snap.Deep
		if t == models.DozeLight {
			st = snap.Light
		}
		s.rec.SetIdle(serial, t.Arg(), st == models.StateIdle)
	}
	if err := s.statusRepo.Save(ctx, snap); err != nil {
		return models.StatusSnapshot{}, err
	}
	return snap, nil
}

// LastSnapshot returns the stored snapshot; ObservedAt is zero when the
// device was never observed.
func (s *MonitoringService) LastSnapshot(ctx context.Context, serial string) (models.StatusSnapshot, error) {
	d, err := s.resolver.devices.Get(ctx, serial)
	if err != nil {
		return models.StatusSnapshot{}, err
	}
	if d == nil {
		return models.StatusSnapshot{}, ErrDeviceNotFound
	}
	snap, err := s.statusRepo.Load(ctx, serial)
	if err != nil {
		return models.StatusSnapshot{}, err
	}
	snap.Serial = serial
	return snap, nil
}
