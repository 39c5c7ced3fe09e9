package engine

import (
	"github.com/gethiox/gptokeyb/internal/pkg/config"
	"github.com/gethiox/gptokeyb/internal/pkg/input"
	"github.com/gethiox/gptokeyb/internal/pkg/logger"
)

var controls = map[input.Button]config.Control{
	input.ButtonA:             config.A,
	input.ButtonB:             config.B,
	input.ButtonX:             config.X,
	input.ButtonY:             config.Y,
	input.ButtonBack:          config.Back,
	input.ButtonGuide:         config.Guide,
	input.ButtonStart:         config.Start,
	input.ButtonLeftStick:     config.L3,
	input.ButtonRightStick:    config.R3,
	input.ButtonLeftShoulder:  config.L1,
	input.ButtonRightShoulder: config.R1,
	input.ButtonDpadUp:        config.Up,
	input.ButtonDpadDown:      config.Down,
	input.ButtonDpadLeft:      config.Left,
	input.ButtonDpadRight:     config.Right,
	input.ButtonLeftTrigger:   config.L2,
	input.ButtonRightTrigger:  config.R2,
}

// selection offsets of text entry controls
var textCycle = map[config.Control]int{
	config.Down: 1,
	config.Up:   -1,
	config.R1:   13,
	config.L1:   -13,
}

func (e *Engine) buttonDown(ev input.Event) error {
	c, ok := controls[ev.Button]
	if !ok {
		return nil
	}
	return e.controlDown(c, ev.Device)
}

func (e *Engine) buttonUp(ev input.Event) error {
	c, ok := controls[ev.Button]
	if !ok {
		return nil
	}
	return e.controlUp(c, ev.Device)
}

func (e *Engine) controlDown(c config.Control, dev int32) error {
	switch e.mode {
	case ModeGamepad:
		e.track(c, dev, true)
		e.padDev[c] = dev
		return e.padButton(c, true)
	case ModeKill:
		e.track(c, dev, true)
		return nil
	case ModeTextEntry:
		e.track(c, dev, true)
		return e.textDown(c, dev)
	}
	return e.keyboardDown(c, dev)
}

func (e *Engine) controlUp(c config.Control, dev int32) error {
	switch e.mode {
	case ModeGamepad:
		e.track(c, dev, false)
		return e.padButton(c, false)
	case ModeKill:
		e.track(c, dev, false)
		return nil
	case ModeTextEntry:
		e.track(c, dev, false)
		e.stopRepeatControl(c)
		return nil
	}
	return e.keyboardUp(c, dev)
}

func (e *Engine) enterTextEntry() error {
	e.setMode(ModeTextEntry)
	err := e.releaseAll()
	if err != nil {
		return err
	}
	return e.typewriter.Start()
}

func (e *Engine) textDown(c config.Control, dev int32) error {
	if delta, ok := textCycle[c]; ok {
		err := e.typewriter.Cycle(delta)
		if err != nil {
			return err
		}
		e.startRepeat(c, 0, dev)
		return nil
	}

	var err error
	switch c {
	case config.Right:
		err = e.typewriter.Advance()
	case config.Left:
		err = e.typewriter.Retreat()
	case config.A, config.Start:
		err = e.typewriter.Confirm()
	case config.B, config.Back:
		err = e.typewriter.Cancel()
	default:
		return nil
	}
	if err != nil {
		return err
	}

	if !e.typewriter.Active() {
		log.Info("Text entry finished", logger.Action)
		e.setMode(ModeKeyboard)
	}
	return nil
}
