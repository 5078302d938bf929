package device

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"controlling_doze/internal/models"
)

// ErrUnknownTransport is returned for devices whose transport is neither adb nor sim.
var ErrUnknownTransport = errors.New("unknown transport")

// PoolConfig configures how channels are built.
type PoolConfig struct {
	ADBPath     string
	ADBTimeout  time.Duration
	SettleTicks int
}

// Pool hands out channels for registered devices. Simulated devices are
// created once per serial and kept so their state survives between requests.
type Pool struct {
	cfg  PoolConfig
	mu   sync.Mutex
	sims map[string]*Simulator
}

func NewPool(cfg PoolConfig) *Pool {
	return &Pool{cfg: cfg, sims: make(map[string]*Simulator)}
}

// Channel returns the command channel for d.
func (p *Pool) Channel(d models.Device) (Channel, error) {
	switch d.Transport {
	case models.TransportADB:
		return NewADBChannel(d.Serial, p.cfg.ADBPath, p.cfg.ADBTimeout), nil
	case models.TransportSim:
		return p.Simulator(d.Serial), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownTransport, d.Transport)
}

// Simulator returns the simulated device for serial, creating it if needed.
func (p *Pool) Simulator(serial string) *Simulator {
	p.mu.Lock()
	defer p.mu.Unlock()
	sim, ok := p.sims[serial]
	if !ok {
		sim = NewSimulator(serial, p.cfg.SettleTicks)
		p.sims[serial] = sim
	}
	return sim
}

// Forget drops a simulated device.
func (p *Pool) Forget(serial string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.sims, serial)
}

// simulators returns a stable snapshot of the simulated devices.
func (p *Pool) simulators() []*Simulator {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*Simulator, 0, len(p.sims))
	for _, s := range p.sims {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].serial < out[j].serial })
	return out
}

// Run ticks every simulated device at the given interval until ctx is canceled.
func (p *Pool) Run(ctx context.Context, tick time.Duration) {
	if tick <= 0 {
		tick = time.Second
	}
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			for _, s := range p.simulators() {
				s.Tick()
			}
		}
	}
}
