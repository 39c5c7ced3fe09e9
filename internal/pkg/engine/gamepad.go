package engine

import (
	"github.com/gethiox/gptokeyb/internal/pkg/config"
	"github.com/gethiox/gptokeyb/internal/pkg/input"
	"github.com/gethiox/gptokeyb/internal/pkg/keycode"
	"github.com/holoplot/go-evdev"
	"go.uber.org/multierr"
)

var padButtons = map[config.Control]evdev.EvCode{
	config.A:     evdev.BTN_A,
	config.B:     evdev.BTN_B,
	config.X:     evdev.BTN_X,
	config.Y:     evdev.BTN_Y,
	config.L1:    evdev.BTN_TL,
	config.R1:    evdev.BTN_TR,
	config.L3:    evdev.BTN_THUMBL,
	config.R3:    evdev.BTN_THUMBR,
	config.Back:  evdev.BTN_SELECT,
	config.Start: evdev.BTN_START,
	config.Guide: evdev.BTN_MODE,
}

var padAxes = map[input.Axis]evdev.EvCode{
	input.AxisLeftX:        evdev.ABS_X,
	input.AxisLeftY:        evdev.ABS_Y,
	input.AxisRightX:       evdev.ABS_RX,
	input.AxisRightY:       evdev.ABS_RY,
	input.AxisTriggerLeft:  evdev.ABS_Z,
	input.AxisTriggerRight: evdev.ABS_RZ,
}

func hat(negative, positive bool) int32 {
	var v int32
	if negative {
		v--
	}
	if positive {
		v++
	}
	return v
}

func (e *Engine) padButton(c config.Control, down bool) error {
	e.pad[c] = down

	switch c {
	case config.Up, config.Down:
		return e.emitAxis(evdev.ABS_HAT0Y, hat(e.pad[config.Up], e.pad[config.Down]))
	case config.Left, config.Right:
		return e.emitAxis(evdev.ABS_HAT0X, hat(e.pad[config.Left], e.pad[config.Right]))
	case config.L2, config.R2:
		var code evdev.EvCode = evdev.ABS_Z
		if c == config.R2 {
			code = evdev.ABS_RZ
		}
		var value int32
		if down {
			value = 255
		}
		return e.emitAxis(code, value)
	}

	code, ok := padButtons[c]
	if !ok {
		return nil
	}
	return e.emitKey(code, down, keycode.None)
}

func (e *Engine) padAxis(axis input.Axis, dev int32, value int32) error {
	code, ok := padAxes[axis]
	if !ok {
		return nil
	}
	if value != 0 {
		if e.padAxisDev == nil {
			e.padAxisDev = make(map[input.Axis]int32)
		}
		e.padAxisDev[axis] = dev
	} else {
		delete(e.padAxisDev, axis)
	}
	if axis == input.AxisTriggerLeft || axis == input.AxisTriggerRight {
		// 0..32767 into 0..255
		value >>= 7
	}
	return e.emitAxis(code, value)
}

// padRemoved releases buttons and centers axes a disconnected controller left active
func (e *Engine) padRemoved(dev int32) error {
	var errs error
	for c, down := range e.pad {
		if down && e.padDev[c] == dev {
			errs = multierr.Append(errs, e.padButton(config.Control(c), false))
		}
	}
	for axis, owner := range e.padAxisDev {
		if owner != dev {
			continue
		}
		errs = multierr.Append(errs, e.padAxis(axis, dev, 0))
	}
	return errs
}
