package service

import (
	"context"
	"fmt"
	"sync"

	"controlling_doze/internal/device"
	"controlling_doze/internal/repository"
)

// deviceLocks serializes command sequences per device serial.
type deviceLocks struct {
	mu sync.Mutex
	m  map[string]*sync.Mutex
}

func newDeviceLocks() *deviceLocks {
	return &deviceLocks{m: make(map[string]*sync.Mutex)}
}

// lock blocks until serial is free and returns the unlock function.
func (l *deviceLocks) lock(serial string) func() {
	l.mu.Lock()
	m, ok := l.m[serial]
	if !ok {
		m = &sync.Mutex{}
		l.m[serial] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// deviceResolver maps a registered serial to its command channel.
type deviceResolver struct {
	devices  repository.DeviceRepo
	channels ChannelProvider
}

func (r *deviceResolver) resolve(ctx context.Context, serial string) (device.Channel, error) {
	d, err := r.devices.Get(ctx, serial)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, fmt.Errorf("%w: %q", ErrDeviceNotFound, serial)
	}
	return r.channels.Channel(*d)
}

var _ ChannelProvider = (*device.Pool)(nil)
