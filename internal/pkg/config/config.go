package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gethiox/gptokeyb/internal/pkg/keycode"
	"github.com/gethiox/gptokeyb/internal/pkg/logger"
	"github.com/holoplot/go-evdev"
)

var log = logger.GetLogger()

var UnsupportedHotkey = errors.New("unsupported hotkey")

// Control is a logical controller input that owns one Binding
type Control int

const (
	Up Control = iota
	Down
	Left
	Right
	A
	B
	X
	Y
	L1
	R1
	L2
	R2
	L3
	R3
	Start
	Back
	Guide
	LeftAnalogUp
	LeftAnalogDown
	LeftAnalogLeft
	LeftAnalogRight
	RightAnalogUp
	RightAnalogDown
	RightAnalogLeft
	RightAnalogRight

	ControlCount
)

var controlNames = [ControlCount]string{
	Up:               "up",
	Down:             "down",
	Left:             "left",
	Right:            "right",
	A:                "a",
	B:                "b",
	X:                "x",
	Y:                "y",
	L1:               "l1",
	R1:               "r1",
	L2:               "l2",
	R2:               "r2",
	L3:               "l3",
	R3:               "r3",
	Start:            "start",
	Back:             "back",
	Guide:            "guide",
	LeftAnalogUp:     "left_analog_up",
	LeftAnalogDown:   "left_analog_down",
	LeftAnalogLeft:   "left_analog_left",
	LeftAnalogRight:  "left_analog_right",
	RightAnalogUp:    "right_analog_up",
	RightAnalogDown:  "right_analog_down",
	RightAnalogLeft:  "right_analog_left",
	RightAnalogRight: "right_analog_right",
}

func (c Control) String() string {
	if c < 0 || c >= ControlCount {
		return fmt.Sprintf("control(%d)", int(c))
	}
	return controlNames[c]
}

// ControlFromString returns the control of given config key name
func ControlFromString(name string) (Control, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for c, n := range controlNames {
		if n == name {
			return Control(c), true
		}
	}
	return 0, false
}

// HasHotkeyAlternate tells if control accepts "<name>_hk" alternate binding
func (c Control) HasHotkeyAlternate() bool {
	switch c {
	case A, B, X, Y, L1, R1:
		return true
	}
	return false
}

// ParseHotkey resolves a hotkey name, only guide, back and l3 may act as the hotkey
func ParseHotkey(name string) (Control, error) {
	c, ok := ControlFromString(name)
	if !ok {
		return 0, fmt.Errorf("%w: \"%s\"", UnsupportedHotkey, name)
	}
	switch c {
	case Guide, Back, L3:
		return c, nil
	}
	return 0, fmt.Errorf("%w: \"%s\"", UnsupportedHotkey, name)
}

// Binding is an output action of one logical control. Code 0 means no binding.
type Binding struct {
	Code     evdev.EvCode
	Modifier evdev.EvCode
	Repeat   bool

	HotkeyCode     evdev.EvCode
	HotkeyModifier evdev.EvCode
}

type Bindings [ControlCount]Binding

type Config struct {
	Bindings Bindings

	DeadzoneX        int32
	DeadzoneY        int32
	DeadzoneTriggers int32

	LeftAnalogAsMouse  bool
	RightAnalogAsMouse bool
	MouseScale         int32
	MouseDelay         time.Duration

	RepeatDelay    time.Duration
	RepeatInterval time.Duration
	TapDelay       time.Duration

	Hotkey       Control
	TextMaxChars int
	KillGrace    time.Duration
}

func bind(token string) Binding {
	return Binding{Code: keycode.Resolve(token)}
}

// Default returns the built-in mapping, used as a base for every parsed file
func Default() Config {
	var b Bindings

	b[Back] = bind("esc")
	b[Start] = bind("enter")
	b[Guide] = bind("enter")
	b[A] = bind("x")
	b[B] = bind("z")
	b[X] = bind("c")
	b[Y] = bind("a")
	b[L1] = bind("rightshift")
	b[L2] = bind("home")
	b[L3] = bind("mouse_left")
	b[R1] = bind("leftshift")
	b[R2] = bind("end")
	b[R3] = bind("mouse_right")

	b[Up] = bind("up")
	b[Down] = bind("down")
	b[Left] = bind("left")
	b[Right] = bind("right")

	b[LeftAnalogUp] = bind("w")
	b[LeftAnalogDown] = bind("s")
	b[LeftAnalogLeft] = bind("a")
	b[LeftAnalogRight] = bind("d")

	b[RightAnalogUp] = bind("end")
	b[RightAnalogDown] = bind("home")
	b[RightAnalogLeft] = bind("left")
	b[RightAnalogRight] = bind("right")

	return Config{
		Bindings:         b,
		DeadzoneX:        15000,
		DeadzoneY:        15000,
		DeadzoneTriggers: 3000,
		MouseScale:       512,
		MouseDelay:       time.Millisecond * 16,
		RepeatDelay:      time.Millisecond * 500,
		RepeatInterval:   time.Millisecond * 40,
		TapDelay:         time.Millisecond * 16,
		Hotkey:           Guide,
		TextMaxChars:     20,
		KillGrace:        time.Second * 3,
	}
}
