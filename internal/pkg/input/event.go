package input

import (
	"context"
	"fmt"
)

type EventType int

const (
	ButtonDown EventType = iota
	ButtonUp
	AxisMotion
	DeviceAdded
	DeviceRemoved
	Quit
	// RepeatFire is never produced by a Source, the repeat scheduler posts it into the engine queue
	RepeatFire
)

func (t EventType) String() string {
	switch t {
	case ButtonDown:
		return "ButtonDown"
	case ButtonUp:
		return "ButtonUp"
	case AxisMotion:
		return "AxisMotion"
	case DeviceAdded:
		return "DeviceAdded"
	case DeviceRemoved:
		return "DeviceRemoved"
	case Quit:
		return "Quit"
	case RepeatFire:
		return "RepeatFire"
	default:
		return "Unknown"
	}
}

// Button is a logical controller button, independent of the source reporting it
type Button int

const (
	ButtonNone Button = iota
	ButtonA
	ButtonB
	ButtonX
	ButtonY
	ButtonBack
	ButtonGuide
	ButtonStart
	ButtonLeftStick
	ButtonRightStick
	ButtonLeftShoulder
	ButtonRightShoulder
	ButtonDpadUp
	ButtonDpadDown
	ButtonDpadLeft
	ButtonDpadRight
	// digital triggers, reported by controllers without analog ones
	ButtonLeftTrigger
	ButtonRightTrigger
)

var buttonNames = map[Button]string{
	ButtonA:             "a",
	ButtonB:             "b",
	ButtonX:             "x",
	ButtonY:             "y",
	ButtonBack:          "back",
	ButtonGuide:         "guide",
	ButtonStart:         "start",
	ButtonLeftStick:     "l3",
	ButtonRightStick:    "r3",
	ButtonLeftShoulder:  "l1",
	ButtonRightShoulder: "r1",
	ButtonDpadUp:        "up",
	ButtonDpadDown:      "down",
	ButtonDpadLeft:      "left",
	ButtonDpadRight:     "right",
	ButtonLeftTrigger:   "l2",
	ButtonRightTrigger:  "r2",
}

func (b Button) String() string {
	name, ok := buttonNames[b]
	if !ok {
		return "none"
	}
	return name
}

// ButtonFromString resolves names used by controller profiles
func ButtonFromString(name string) (Button, bool) {
	for b, n := range buttonNames {
		if n == name {
			return b, true
		}
	}
	return ButtonNone, false
}

// Axis is a logical analog axis. Sticks report -32768..32767, triggers 0..32767.
type Axis int

const (
	AxisNone Axis = iota
	AxisLeftX
	AxisLeftY
	AxisRightX
	AxisRightY
	AxisTriggerLeft
	AxisTriggerRight
)

var axisNames = map[Axis]string{
	AxisLeftX:        "left_x",
	AxisLeftY:        "left_y",
	AxisRightX:       "right_x",
	AxisRightY:       "right_y",
	AxisTriggerLeft:  "trigger_left",
	AxisTriggerRight: "trigger_right",
}

func (a Axis) String() string {
	name, ok := axisNames[a]
	if !ok {
		return "none"
	}
	return name
}

func AxisFromString(name string) (Axis, bool) {
	for a, n := range axisNames {
		if n == name {
			return a, true
		}
	}
	return AxisNone, false
}

// Event is a single controller event delivered to the engine
type Event struct {
	Type   EventType
	Device int32 // controller instance
	Button Button
	Axis   Axis
	Value  int16

	// repeat generation, RepeatFire only
	Generation uint64
}

func (e Event) String() string {
	switch e.Type {
	case ButtonDown, ButtonUp:
		return fmt.Sprintf("%s(%s) dev=%d", e.Type, e.Button, e.Device)
	case AxisMotion:
		return fmt.Sprintf("%s(%s=%d) dev=%d", e.Type, e.Axis, e.Value, e.Device)
	case RepeatFire:
		return fmt.Sprintf("%s(gen=%d)", e.Type, e.Generation)
	default:
		return fmt.Sprintf("%s dev=%d", e.Type, e.Device)
	}
}

// Source delivers controller events until the context is done or the source fails
type Source interface {
	Run(ctx context.Context, events chan<- Event) error
}
