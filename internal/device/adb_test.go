package device

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExec struct {
	name string
	args []string
	out  string
	err  error
	dl   bool
}

func (f *fakeExec) run(ctx context.Context, name string, args ...string) ([]byte, error) {
	f.name = name
	f.args = args
	_, f.dl = ctx.Deadline()
	return []byte(f.out), f.err
}

func TestADBChannel_Run(t *testing.T) {
	fe := &fakeExec{out: "IDLE\n"}
	c := NewADBChannel("R58M12345", "", 0)
	c.exec = fe.run

	out, err := c.Run(context.Background(), "dumpsys deviceidle get deep")
	require.NoError(t, err)
	assert.Equal(t, "IDLE\n", out)
	assert.Equal(t, "adb", fe.name)
	assert.Equal(t, []string{"-s", "R58M12345", "shell", "dumpsys", "deviceidle", "get", "deep"}, fe.args)
	assert.True(t, fe.dl)
	assert.Equal(t, "R58M12345", c.Serial())
}

func TestADBChannel_NoSerial(t *testing.T) {
	fe := &fakeExec{}
	c := NewADBChannel("", "/usr/bin/adb", time.Second)
	c.exec = fe.run

	_, err := c.Run(context.Background(), "dumpsys battery unplug")
	require.NoError(t, err)
	assert.Equal(t, "/usr/bin/adb", fe.name)
	assert.Equal(t, []string{"shell", "dumpsys", "battery", "unplug"}, fe.args)
}

func TestADBChannel_Errors(t *testing.T) {
	c := NewADBChannel("emu-5554", "adb", time.Second)

	_, err := c.Run(context.Background(), "   ")
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.ErrorIs(t, err, errEmptyCommand)

	_, err = c.Run(context.Background(), `dumpsys "unterminated`)
	require.True(t, IsTransport(err))

	exitErr := errors.New("exit status 1")
	c.exec = (&fakeExec{out: "error: device 'emu-5554' not found\n", err: exitErr}).run
	_, err = c.Run(context.Background(), "dumpsys battery reset")
	require.ErrorAs(t, err, &te)
	assert.ErrorIs(t, err, exitErr)
	assert.Equal(t, "dumpsys battery reset", te.Cmd)
	assert.Contains(t, err.Error(), "not found")
	assert.Contains(t, err.Error(), "emu-5554")
}

func TestChannelFunc(t *testing.T) {
	var got string
	ch := ChannelFunc(func(_ context.Context, cmd string) (string, error) {
		got = cmd
		return "ok", nil
	})
	out, err := ch.Run(context.Background(), "dumpsys battery unplug")
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, "dumpsys battery unplug", got)
}
