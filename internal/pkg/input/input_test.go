package input

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/gethiox/gptokeyb/internal/pkg/logger"
	"github.com/holoplot/go-evdev"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Discard()
	os.Exit(m.Run())
}

const procData = `I: Bus=0019 Vendor=0000 Product=0001 Version=0000
N: Name="Power Button"
P: Phys=LNXPWRBN/button/input0
S: Sysfs=/devices/LNXSYSTM:00/LNXPWRBN:00/input/input0
U: Uniq=
H: Handlers=kbd event0 
B: PROP=0
B: EV=3
B: KEY=10000000000000 0

I: Bus=0003 Vendor=045e Product=028e Version=0114
N: Name="Microsoft X-Box 360 pad"
P: Phys=usb-0000:00:14.0-2/input0
S: Sysfs=/devices/pci0000:00/0000:00:14.0/usb1/1-2/1-2:1.0/input/input21
U: Uniq=
H: Handlers=event18 js0 
B: PROP=0
B: EV=20000b
B: KEY=7cdb000000000000 0 0 0 0
B: ABS=3003f
B: FF=107030000 0

I: Bus=0019 Vendor=0001 Product=0002 Version=0100
N: Name="Handheld Gamepad"
P: Phys=
S: Sysfs=/devices/platform/gamepad/input/input3
U: Uniq=
H: Handlers=event3 
B: PROP=0
B: EV=b
B: KEY=ffff000000000000 0 0 0 0
B: ABS=3003f

`

func TestUnmarshal(t *testing.T) {
	devices, err := unmarshal([]byte(procData))
	require.Equal(t, nil, err)
	require.Equal(t, 3, len(devices))

	power := devices[0]
	assert.Equal(t, "Power Button", power.Name)
	assert.Equal(t, InputID{Bus: 0x19, Vendor: 0, Product: 1, Version: 0}, power.ID)
	assert.Equal(t, []string{"kbd", "event0"}, power.Handlers)
	assert.Equal(t, "/dev/input/event0", power.EventPath())
	assert.False(t, power.IsGamepad())

	pad := devices[1]
	assert.Equal(t, "Microsoft X-Box 360 pad", pad.Name)
	assert.Equal(t, InputID{Bus: 3, Vendor: 0x045e, Product: 0x028e, Version: 0x0114}, pad.ID)
	assert.Equal(t, "usb-0000:00:14.0-2/input0", pad.Phys)
	assert.Equal(t, "usb-0000:00:14.0-2", pad.Port())
	assert.Equal(t, "/dev/input/event18", pad.EventPath())
	assert.True(t, pad.IsGamepad())

	handheld := devices[2]
	assert.Equal(t, []string{"event3"}, handheld.Handlers)
	assert.Equal(t, []uint64{0x3003f}, handheld.Bitmaps.ABS)
	assert.Equal(t, 5, len(handheld.Bitmaps.KEY))
	assert.True(t, handheld.IsGamepad(), "gamepad buttons with absolute axes")
}

func TestUnmarshalEmpty(t *testing.T) {
	devices, err := unmarshal(nil)
	assert.Equal(t, nil, err)
	assert.Equal(t, 0, len(devices))
}

func TestDefaultProfile(t *testing.T) {
	p := DefaultProfile()
	assert.Equal(t, "default", p.Name)
	assert.Equal(t, ButtonA, p.Buttons[evdev.BTN_SOUTH])
	assert.Equal(t, ButtonGuide, p.Buttons[evdev.BTN_MODE])
	assert.Equal(t, AxisTriggerRight, p.Axes[evdev.ABS_RZ])
	assert.Equal(t, Hat{Negative: ButtonDpadUp, Positive: ButtonDpadDown}, p.Hats[evdev.ABS_HAT0Y])
}

func TestParseProfile(t *testing.T) {
	p, err := ParseProfile([]byte(`
name: handheld
identifier:
  vendor: 0x0001
  product: 0x0002
names: ["Handheld"]
buttons:
  BTN_SOUTH: b
  x13c: guide
axes:
  ABS_X: left_x
invert: [ABS_X]
`))
	require.Equal(t, nil, err)
	assert.Equal(t, "handheld", p.Name)
	assert.Equal(t, uint16(1), p.Vendor)
	assert.Equal(t, ButtonB, p.Buttons[evdev.BTN_SOUTH])
	assert.Equal(t, ButtonGuide, p.Buttons[evdev.EvCode(0x13c)])
	assert.True(t, p.Invert[evdev.ABS_X])

	for _, broken := range []string{
		"buttons:\n  BTN_SOUTH: select\n",
		"buttons:\n  NOT_A_CODE: a\n",
		"axes:\n  ABS_X: wheel\n",
		"hats:\n  ABS_HAT0X: [left]\n",
		"unknown_field: 1\n",
	} {
		_, err := ParseProfile([]byte(broken))
		assert.NotEqual(t, nil, err, broken)
	}
}

func TestFindProfile(t *testing.T) {
	byID := Profile{Name: "by-id", Vendor: 0x045e, Product: 0x028e}
	byName := Profile{Name: "by-name", Names: []string{"handheld"}}
	profiles := Profiles{Default: Profile{Name: "default"}, User: []Profile{byName, byID}}

	assert.Equal(t, "by-id", profiles.FindProfile(DeviceInfo{Name: "Handheld", ID: InputID{Vendor: 0x045e, Product: 0x028e}}).Name)
	assert.Equal(t, "by-name", profiles.FindProfile(DeviceInfo{Name: "Some Handheld Gamepad"}).Name)
	assert.Equal(t, "default", profiles.FindProfile(DeviceInfo{Name: "Pad"}).Name)
}

func TestTranslate(t *testing.T) {
	abs := map[evdev.EvCode]evdev.AbsInfo{
		evdev.ABS_X:  {Minimum: -32768, Maximum: 32767},
		evdev.ABS_Y:  {Minimum: 0, Maximum: 255},
		evdev.ABS_Z:  {Minimum: 0, Maximum: 1023},
		evdev.ABS_RX: {Minimum: -32768, Maximum: 32767},
	}
	profile := DefaultProfile()
	profile.Invert[evdev.ABS_RX] = true
	c := newController(DeviceInfo{Name: "pad"}, profile, 7, abs)

	for i, tc := range []struct {
		in       evdev.InputEvent
		expected []Event
	}{
		{
			in:       evdev.InputEvent{Type: evdev.EV_KEY, Code: evdev.BTN_SOUTH, Value: 1},
			expected: []Event{{Type: ButtonDown, Device: 7, Button: ButtonA}},
		},
		{
			in:       evdev.InputEvent{Type: evdev.EV_KEY, Code: evdev.BTN_SOUTH, Value: 2},
			expected: nil,
		},
		{
			in:       evdev.InputEvent{Type: evdev.EV_KEY, Code: evdev.BTN_SOUTH, Value: 0},
			expected: []Event{{Type: ButtonUp, Device: 7, Button: ButtonA}},
		},
		{
			in:       evdev.InputEvent{Type: evdev.EV_KEY, Code: evdev.KEY_VOLUMEUP, Value: 1},
			expected: nil,
		},
		{
			in:       evdev.InputEvent{Type: evdev.EV_ABS, Code: evdev.ABS_X, Value: -12000},
			expected: []Event{{Type: AxisMotion, Device: 7, Axis: AxisLeftX, Value: -12000}},
		},
		{
			in:       evdev.InputEvent{Type: evdev.EV_ABS, Code: evdev.ABS_Y, Value: 255},
			expected: []Event{{Type: AxisMotion, Device: 7, Axis: AxisLeftY, Value: 32767}},
		},
		{
			in:       evdev.InputEvent{Type: evdev.EV_ABS, Code: evdev.ABS_Y, Value: 0},
			expected: []Event{{Type: AxisMotion, Device: 7, Axis: AxisLeftY, Value: -32768}},
		},
		{
			in:       evdev.InputEvent{Type: evdev.EV_ABS, Code: evdev.ABS_Z, Value: 1023},
			expected: []Event{{Type: AxisMotion, Device: 7, Axis: AxisTriggerLeft, Value: 32767}},
		},
		{
			in:       evdev.InputEvent{Type: evdev.EV_ABS, Code: evdev.ABS_RX, Value: 32767},
			expected: []Event{{Type: AxisMotion, Device: 7, Axis: AxisRightX, Value: -32768}},
		},
		{
			in:       evdev.InputEvent{Type: evdev.EV_ABS, Code: evdev.ABS_HAT0X, Value: -1},
			expected: []Event{{Type: ButtonDown, Device: 7, Button: ButtonDpadLeft}},
		},
		{
			in:       evdev.InputEvent{Type: evdev.EV_ABS, Code: evdev.ABS_HAT0X, Value: -1},
			expected: nil,
		},
		{
			in: evdev.InputEvent{Type: evdev.EV_ABS, Code: evdev.ABS_HAT0X, Value: 1},
			expected: []Event{
				{Type: ButtonUp, Device: 7, Button: ButtonDpadLeft},
				{Type: ButtonDown, Device: 7, Button: ButtonDpadRight},
			},
		},
		{
			in:       evdev.InputEvent{Type: evdev.EV_ABS, Code: evdev.ABS_HAT0X, Value: 0},
			expected: []Event{{Type: ButtonUp, Device: 7, Button: ButtonDpadRight}},
		},
		{
			in:       evdev.InputEvent{Type: evdev.EV_SYN, Code: evdev.SYN_REPORT},
			expected: nil,
		},
	} {
		t.Run(string(rune('a'+i)), func(t *testing.T) {
			in := tc.in
			assert.Equal(t, tc.expected, c.translate(&in))
		})
	}
}

func readChanges(ch <-chan DeviceChange, n int) ([]DeviceChange, error) {
	changes := make([]DeviceChange, 0, n)
	for len(changes) < n {
		select {
		case change := <-ch:
			changes = append(changes, change)
		case <-time.After(time.Second):
			return changes, errors.New("timeout")
		}
	}
	return changes, nil
}

func TestMonitorDevices(t *testing.T) {
	pad := DeviceInfo{Name: "pad", Handlers: []string{"event5", "js0"}}
	keyboard := DeviceInfo{Name: "kbd", Handlers: []string{"event1", "kbd"}}

	var mu sync.Mutex
	var current = []DeviceInfo{keyboard, pad}
	fetch := func() ([]DeviceInfo, error) {
		mu.Lock()
		defer mu.Unlock()
		return current, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := monitorDevices(ctx, time.Millisecond*5, fetch)

	changes, err := readChanges(ch, 1)
	require.Equal(t, nil, err)
	assert.Equal(t, DeviceChange{Info: pad, Added: true}, changes[0])

	mu.Lock()
	current = []DeviceInfo{keyboard}
	mu.Unlock()

	changes, err = readChanges(ch, 1)
	require.Equal(t, nil, err)
	assert.Equal(t, DeviceChange{Info: pad, Added: false}, changes[0])

	cancel()
	for range ch {
	}
}
