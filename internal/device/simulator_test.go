package device

import (
	"context"
	"testing"
	"time"

	"controlling_doze/internal/doze"
	"controlling_doze/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, s *Simulator, cmd string) string {
	t.Helper()
	out, err := s.Run(context.Background(), cmd)
	require.NoError(t, err)
	return out
}

func TestSimulator_ForceIdleRequiresUnplug(t *testing.T) {
	s := NewSimulator("sim-1", 0)

	out := run(t, s, "dumpsys deviceidle force-idle deep")
	assert.Contains(t, out, "charging")
	assert.Equal(t, "ACTIVE\n", run(t, s, "dumpsys deviceidle get deep"))

	run(t, s, "dumpsys battery unplug")
	assert.True(t, s.Unplugged())
	run(t, s, "dumpsys deviceidle force-idle deep")
	assert.Equal(t, models.StateIdle, s.State(models.DozeDeep))
	assert.Equal(t, models.StateActive, s.State(models.DozeLight))
}

func TestSimulator_SettlesAfterTicks(t *testing.T) {
	s := NewSimulator("sim-1", 2)
	run(t, s, "dumpsys battery unplug")
	run(t, s, "dumpsys deviceidle force-idle light")

	assert.Equal(t, "ACTIVE\n", run(t, s, "dumpsys deviceidle get light"))
	s.Tick()
	assert.Equal(t, models.StateActive, s.State(models.DozeLight))
	s.Tick()
	assert.Equal(t, "IDLE\n", run(t, s, "dumpsys deviceidle get light"))
}

func TestSimulator_RepeatedForceIdleKeepsCountdown(t *testing.T) {
	s := NewSimulator("sim-1", 2)
	run(t, s, "dumpsys battery unplug")
	run(t, s, "dumpsys deviceidle force-idle deep")
	s.Tick()
	run(t, s, "dumpsys deviceidle force-idle deep")
	s.Tick()
	assert.Equal(t, models.StateIdle, s.State(models.DozeDeep))

	// Already idle: nothing is scheduled.
	run(t, s, "dumpsys deviceidle force-idle deep")
	s.Tick()
	assert.Equal(t, models.StateIdle, s.State(models.DozeDeep))
}

func TestSimulator_EnterSettlesAcrossRetries(t *testing.T) {
	for _, settle := range []int{1, 2} {
		s := NewSimulator("sim-1", settle)
		ctrl := doze.New(doze.WithSleep(func(time.Duration) { s.Tick() }))

		require.NoError(t, ctrl.EnterDozeMode(context.Background(), s, models.DozeDeep), "settle ticks %d", settle)
		assert.Equal(t, settle+1, s.Count("dumpsys deviceidle force-idle deep"), "settle ticks %d", settle)
	}
}

func TestSimulator_DisableAndReset(t *testing.T) {
	s := NewSimulator("sim-1", 0)
	s.SetState(models.DozeDeep, models.StateIdle)
	s.SetState(models.DozeLight, models.StateIdle)
	run(t, s, "dumpsys battery unplug")

	run(t, s, "dumpsys battery reset")
	assert.False(t, s.Unplugged())
	run(t, s, "dumpsys deviceidle disable")
	assert.Equal(t, models.StateActive, s.State(models.DozeDeep))
	assert.Equal(t, models.StateActive, s.State(models.DozeLight))
}

func TestSimulator_TransportErrors(t *testing.T) {
	s := NewSimulator("sim-1", 0)

	for _, cmd := range []string{"", "reboot", "dumpsys deviceidle get medium", "dumpsys battery level 50", "dumpsys wifi networks"} {
		_, err := s.Run(context.Background(), cmd)
		assert.True(t, IsTransport(err), "cmd %q", cmd)
	}

	s.SetOnline(false)
	_, err := s.Run(context.Background(), "dumpsys battery unplug")
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "sim-1", te.Serial)
	assert.ErrorIs(t, err, errOffline)
	assert.False(t, s.Unplugged())

	assert.Len(t, s.History(), 6)
	assert.Equal(t, 1, s.Count("dumpsys battery unplug"))
}

func TestPool_ChannelsByTransport(t *testing.T) {
	p := NewPool(PoolConfig{ADBPath: "/opt/adb", SettleTicks: 1})

	ch, err := p.Channel(models.Device{Serial: "emu-1", Transport: models.TransportADB})
	require.NoError(t, err)
	adb, ok := ch.(*ADBChannel)
	require.True(t, ok)
	assert.Equal(t, "/opt/adb", adb.path)
	assert.Equal(t, defaultADBTimeout, adb.timeout)

	a, err := p.Channel(models.Device{Serial: "sim-1", Transport: models.TransportSim})
	require.NoError(t, err)
	b, err := p.Channel(models.Device{Serial: "sim-1", Transport: models.TransportSim})
	require.NoError(t, err)
	assert.Same(t, a, b)

	_, err = p.Channel(models.Device{Serial: "x", Transport: "serial"})
	assert.ErrorIs(t, err, ErrUnknownTransport)

	p.Forget("sim-1")
	assert.NotSame(t, a, p.Simulator("sim-1"))
}

func TestPool_RunTicksSimulators(t *testing.T) {
	p := NewPool(PoolConfig{SettleTicks: 1})
	s := p.Simulator("sim-1")
	run(t, s, "dumpsys battery unplug")
	run(t, s, "dumpsys deviceidle force-idle deep")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx, 5*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return s.State(models.DozeDeep) == models.StateIdle },
		time.Second, 5*time.Millisecond)
	cancel()
	<-done
}

func TestSimulator_HistoryIsBounded(t *testing.T) {
	s := NewSimulator("sim-1", 0)
	for i := 0; i < 3*maxHistory; i++ {
		run(t, s, "dumpsys deviceidle get deep")
	}
	run(t, s, "dumpsys battery unplug")

	h := s.History()
	require.Len(t, h, maxHistory)
	assert.Equal(t, "dumpsys battery unplug", h[len(h)-1])
	assert.Equal(t, maxHistory-1, s.Count("dumpsys deviceidle get"))
}
