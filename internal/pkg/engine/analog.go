package engine

import (
	"github.com/gethiox/gptokeyb/internal/pkg/config"
	"github.com/gethiox/gptokeyb/internal/pkg/input"
)

const (
	leftStick = iota
	rightStick
)

// stick keeps filtered values of a stick
type stick struct {
	x, y int32
}

// stick directions, negative one first
var stickControls = [2][2][2]config.Control{
	leftStick: {
		{config.LeftAnalogLeft, config.LeftAnalogRight},
		{config.LeftAnalogUp, config.LeftAnalogDown},
	},
	rightStick: {
		{config.RightAnalogLeft, config.RightAnalogRight},
		{config.RightAnalogUp, config.RightAnalogDown},
	},
}

// Deadzone returns 0 for values within the threshold, raw value otherwise
func Deadzone(raw, threshold int32) int32 {
	if raw <= threshold && raw >= -threshold {
		return 0
	}
	return raw
}

// mouseStick returns the stick driving the mouse, the left one wins when both are configured
func (e *Engine) mouseStick() int {
	switch {
	case e.cfg.LeftAnalogAsMouse:
		return leftStick
	case e.cfg.RightAnalogAsMouse:
		return rightStick
	}
	return -1
}

func (e *Engine) asMouse(s int) bool {
	return s == e.mouseStick()
}

func (e *Engine) axisMotion(ev input.Event) error {
	switch e.mode {
	case ModeGamepad:
		return e.padAxis(ev.Axis, ev.Device, int32(ev.Value))
	case ModeKill:
		return nil
	}

	value := int32(ev.Value)
	switch ev.Axis {
	case input.AxisLeftX:
		return e.stickAxis(leftStick, false, value, ev.Device)
	case input.AxisLeftY:
		return e.stickAxis(leftStick, true, value, ev.Device)
	case input.AxisRightX:
		return e.stickAxis(rightStick, false, value, ev.Device)
	case input.AxisRightY:
		return e.stickAxis(rightStick, true, value, ev.Device)
	case input.AxisTriggerLeft:
		return e.triggerAxis(config.L2, value, ev.Device)
	case input.AxisTriggerRight:
		return e.triggerAxis(config.R2, value, ev.Device)
	}
	return nil
}

func (e *Engine) stickAxis(s int, vertical bool, value int32, dev int32) error {
	var filtered int32
	var directions [2]config.Control
	if vertical {
		filtered = Deadzone(value, e.cfg.DeadzoneY)
		e.sticks[s].y = filtered
		directions = stickControls[s][1]
	} else {
		filtered = Deadzone(value, e.cfg.DeadzoneX)
		e.sticks[s].x = filtered
		directions = stickControls[s][0]
	}

	if e.asMouse(s) || e.mode != ModeKeyboard {
		return nil
	}

	err := e.edge(directions[0], filtered < 0, dev)
	if err != nil {
		return err
	}
	return e.edge(directions[1], filtered > 0, dev)
}

func (e *Engine) triggerAxis(c config.Control, value int32, dev int32) error {
	if e.mode != ModeKeyboard {
		return nil
	}
	return e.edge(c, value > e.cfg.DeadzoneTriggers, dev)
}

// edge presses on 0->1 and releases on 1->0 transitions
func (e *Engine) edge(c config.Control, triggered bool, dev int32) error {
	if e.edges[c] == triggered {
		return nil
	}
	e.edges[c] = triggered

	switch c {
	case config.L2, config.R2:
		// triggers may complete a combo like any button
		if triggered {
			return e.keyboardDown(c, dev)
		}
		return e.keyboardUp(c, dev)
	}

	if triggered {
		b := e.cfg.Bindings[c]
		return e.press(c, dev, b.Code, b.Modifier, b.Repeat)
	}
	return e.release(c)
}
