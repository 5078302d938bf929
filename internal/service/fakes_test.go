package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"controlling_doze/internal/device"
	"controlling_doze/internal/metrics"
	"controlling_doze/internal/models"
)

// fakeDeviceRepo is an in-memory repository.DeviceRepo.
type fakeDeviceRepo struct {
	mu      sync.Mutex
	devices map[string]models.Device
	getErr  error
}

func newFakeDeviceRepo(devs ...models.Device) *fakeDeviceRepo {
	r := &fakeDeviceRepo{devices: make(map[string]models.Device)}
	for _, d := range devs {
		r.devices[d.Serial] = d
	}
	return r
}

func (r *fakeDeviceRepo) Create(_ context.Context, d models.Device) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.devices[d.Serial] = d
	return nil
}

func (r *fakeDeviceRepo) Get(_ context.Context, serial string) (*models.Device, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	d, ok := r.devices[serial]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (r *fakeDeviceRepo) List(_ context.Context) ([]models.Device, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Device, 0, len(r.devices))
	for _, d := range r.devices {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Serial < out[j].Serial })
	return out, nil
}

func (r *fakeDeviceRepo) Delete(_ context.Context, serial string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.devices[serial]
	delete(r.devices, serial)
	return ok, nil
}

// fakeStatusRepo keeps the merged snapshot per serial, like the SQL upsert.
type fakeStatusRepo struct {
	mu      sync.Mutex
	snaps   map[string]models.StatusSnapshot
	saves   int
	saveErr error
}

func newFakeStatusRepo() *fakeStatusRepo {
	return &fakeStatusRepo{snaps: make(map[string]models.StatusSnapshot)}
}

func (r *fakeStatusRepo) Save(_ context.Context, s models.StatusSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves++
	if r.saveErr != nil {
		return r.saveErr
	}
	cur := r.snaps[s.Serial]
	cur.Serial = s.Serial
	if s.Deep != "" {
		cur.Deep = s.Deep
	}
	if s.Light != "" {
		cur.Light = s.Light
	}
	cur.ObservedAt = s.ObservedAt
	r.snaps[s.Serial] = cur
	return nil
}

func (r *fakeStatusRepo) Load(_ context.Context, serial string) (models.StatusSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snaps[serial], nil
}

// fakeChannels hands out a fixed channel per serial.
type fakeChannels map[string]device.Channel

func (f fakeChannels) Channel(d models.Device) (device.Channel, error) {
	return f[d.Serial], nil
}

// recordingRecorder counts metric calls.
type recordingRecorder struct {
	mu          sync.Mutex
	attempts    map[bool]int
	transitions map[string]int
	idle        map[string]bool
	durations   int
}

func newRecordingRecorder() *recordingRecorder {
	return &recordingRecorder{
		attempts:    make(map[bool]int),
		transitions: make(map[string]int),
		idle:        make(map[string]bool),
	}
}

func (r *recordingRecorder) IncAttempt(_, _ string, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts[ok]++
}

func (r *recordingRecorder) IncTransition(_, _ string, outcome metrics.Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transitions[string(outcome)]++
}

func (r *recordingRecorder) ObserveTransitionDuration(string, string, time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.durations++
}

func (r *recordingRecorder) SetIdle(serial, dozeType string, idle bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.idle[serial+"/"+dozeType] = idle
}
