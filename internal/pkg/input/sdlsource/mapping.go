package sdlsource

import (
	"github.com/gethiox/gptokeyb/internal/pkg/input"
)

// SDL_GameControllerButton values
var buttons = map[uint8]input.Button{
	0:  input.ButtonA,
	1:  input.ButtonB,
	2:  input.ButtonX,
	3:  input.ButtonY,
	4:  input.ButtonBack,
	5:  input.ButtonGuide,
	6:  input.ButtonStart,
	7:  input.ButtonLeftStick,
	8:  input.ButtonRightStick,
	9:  input.ButtonLeftShoulder,
	10: input.ButtonRightShoulder,
	11: input.ButtonDpadUp,
	12: input.ButtonDpadDown,
	13: input.ButtonDpadLeft,
	14: input.ButtonDpadRight,
}

// SDL_GameControllerAxis values
var axes = map[uint8]input.Axis{
	0: input.AxisLeftX,
	1: input.AxisLeftY,
	2: input.AxisRightX,
	3: input.AxisRightY,
	4: input.AxisTriggerLeft,
	5: input.AxisTriggerRight,
}

func buttonEvent(instance int32, button uint8, pressed bool) (input.Event, bool) {
	b, ok := buttons[button]
	if !ok {
		return input.Event{}, false
	}
	t := input.ButtonUp
	if pressed {
		t = input.ButtonDown
	}
	return input.Event{Type: t, Device: instance, Button: b}, true
}

func axisEvent(instance int32, axis uint8, value int16) (input.Event, bool) {
	a, ok := axes[axis]
	if !ok {
		return input.Event{}, false
	}
	return input.Event{Type: input.AxisMotion, Device: instance, Axis: a, Value: value}, true
}
