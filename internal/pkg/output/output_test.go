package output

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/bendahl/uinput"
	"github.com/gethiox/gptokeyb/internal/pkg/logger"
	"github.com/holoplot/go-evdev"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	logger.Discard()
	os.Exit(m.Run())
}

type fakeWriter struct {
	events []evdev.InputEvent
	closed bool
	err    error
}

func (w *fakeWriter) WriteOne(event *evdev.InputEvent) error {
	if w.err != nil {
		return w.err
	}
	w.events = append(w.events, *event)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestKeyboardEmitKey(t *testing.T) {
	w := &fakeWriter{}
	k := &Keyboard{dev: w}

	assert.Equal(t, nil, k.EmitKey(evdev.KEY_A, true))
	assert.Equal(t, nil, k.EmitKey(evdev.KEY_A, false))

	assert.Equal(t, []evdev.InputEvent{
		{Type: evdev.EV_KEY, Code: evdev.KEY_A, Value: 1},
		synReport,
		{Type: evdev.EV_KEY, Code: evdev.KEY_A, Value: 0},
		synReport,
	}, w.events)
}

func TestKeyboardEmitMouseDelta(t *testing.T) {
	w := &fakeWriter{}
	k := &Keyboard{dev: w}

	assert.Equal(t, nil, k.EmitMouseDelta(0, 0))
	assert.Equal(t, 0, len(w.events))

	assert.Equal(t, nil, k.EmitMouseDelta(3, -2))
	assert.Equal(t, nil, k.EmitMouseDelta(0, 5))
	assert.Equal(t, []evdev.InputEvent{
		{Type: evdev.EV_REL, Code: evdev.REL_X, Value: 3},
		{Type: evdev.EV_REL, Code: evdev.REL_Y, Value: -2},
		synReport,
		{Type: evdev.EV_REL, Code: evdev.REL_Y, Value: 5},
		synReport,
	}, w.events)
}

func TestKeyboardFailures(t *testing.T) {
	broken := errors.New("device gone")
	k := &Keyboard{dev: &fakeWriter{err: broken}}

	assert.ErrorIs(t, k.EmitKey(evdev.KEY_A, true), broken)
	assert.ErrorIs(t, k.EmitAxis(evdev.ABS_X, 1), UnsupportedCode)
}

func TestKeyboardCapabilities(t *testing.T) {
	caps := keyboardCapabilities()
	assert.Contains(t, caps[evdev.EV_KEY], evdev.EvCode(evdev.KEY_ENTER))
	assert.Contains(t, caps[evdev.EV_KEY], evdev.EvCode(evdev.BTN_LEFT))
	assert.Contains(t, caps[evdev.EV_REL], evdev.EvCode(evdev.REL_X))
}

func fmtCall(format string, args ...interface{}) string {
	return fmt.Sprintf(format, args...)
}

type fakeGamepad struct {
	calls []string
}

func (f *fakeGamepad) record(format string, args ...interface{}) error {
	f.calls = append(f.calls, fmtCall(format, args...))
	return nil
}

func (f *fakeGamepad) ButtonDown(key int) error { return f.record("down %d", key) }

func (f *fakeGamepad) ButtonUp(key int) error { return f.record("up %d", key) }

func (f *fakeGamepad) LeftStickMoveX(v float32) error { return f.record("lx %.2f", v) }

func (f *fakeGamepad) LeftStickMoveY(v float32) error { return f.record("ly %.2f", v) }

func (f *fakeGamepad) RightStickMoveX(v float32) error { return f.record("rx %.2f", v) }

func (f *fakeGamepad) RightStickMoveY(v float32) error { return f.record("ry %.2f", v) }

func (f *fakeGamepad) HatPress(d uinput.HatDirection) error { return f.record("hat press %d", int(d)) }

func (f *fakeGamepad) HatRelease(d uinput.HatDirection) error {
	return f.record("hat release %d", int(d))
}

func (f *fakeGamepad) Close() error { return nil }

type fakeTriggerGamepad struct {
	fakeGamepad
}

func (f *fakeTriggerGamepad) LeftTriggerForce(v float32) error { return f.record("lt %.2f", v) }

func (f *fakeTriggerGamepad) RightTriggerForce(v float32) error { return f.record("rt %.2f", v) }

func TestGamepad(t *testing.T) {
	f := &fakeGamepad{}
	g := newGamepad(f)

	assert.Equal(t, nil, g.EmitKey(evdev.BTN_SOUTH, true))
	assert.Equal(t, nil, g.EmitKey(evdev.BTN_SOUTH, false))
	assert.Equal(t, nil, g.EmitAxis(evdev.ABS_X, 32767))
	assert.Equal(t, nil, g.EmitAxis(evdev.ABS_RY, -32768))
	assert.Equal(t, nil, g.EmitAxis(evdev.ABS_HAT0X, -1))
	assert.Equal(t, nil, g.EmitAxis(evdev.ABS_HAT0X, -1))
	assert.Equal(t, nil, g.EmitAxis(evdev.ABS_HAT0X, 1))
	assert.Equal(t, nil, g.EmitAxis(evdev.ABS_HAT0X, 0))
	assert.Equal(t, nil, g.EmitAxis(evdev.ABS_Z, 200))
	assert.Equal(t, nil, g.EmitAxis(evdev.ABS_Z, 255))
	assert.Equal(t, nil, g.EmitAxis(evdev.ABS_Z, 0))
	assert.ErrorIs(t, g.EmitAxis(evdev.ABS_WHEEL, 1), UnsupportedCode)
	assert.ErrorIs(t, g.EmitMouseDelta(1, 1), UnsupportedCode)

	assert.Equal(t, []string{
		fmtCall("down %d", int(evdev.BTN_SOUTH)),
		fmtCall("up %d", int(evdev.BTN_SOUTH)),
		"lx 1.00",
		"ry -1.00",
		fmtCall("hat press %d", int(uinput.HatLeft)),
		fmtCall("hat release %d", int(uinput.HatLeft)),
		fmtCall("hat press %d", int(uinput.HatRight)),
		fmtCall("hat release %d", int(uinput.HatRight)),
		fmtCall("down %d", uinput.ButtonTriggerLeft),
		fmtCall("up %d", uinput.ButtonTriggerLeft),
	}, f.calls)
}

func TestGamepadAnalogTriggers(t *testing.T) {
	f := &fakeTriggerGamepad{}
	g := newGamepad(f)

	assert.Equal(t, nil, g.EmitAxis(evdev.ABS_Z, 255))
	assert.Equal(t, nil, g.EmitAxis(evdev.ABS_RZ, 0))
	assert.Equal(t, []string{"lt 1.00", "rt 0.00"}, f.calls)
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	var s Sink = r

	assert.Equal(t, nil, s.EmitKey(evdev.KEY_A, true))
	assert.Equal(t, nil, s.EmitMouseDelta(1, 2))
	assert.Equal(t, []Record{Key(evdev.KEY_A, true), Mouse(1, 2)}, r.Take())
	assert.Equal(t, 0, len(r.Records()))

	r.Err = errors.New("broken")
	assert.NotEqual(t, nil, s.EmitAxis(evdev.ABS_X, 0))
	assert.Equal(t, nil, s.Close())
	assert.True(t, r.Closed())
}
