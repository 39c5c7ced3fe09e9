package engine

import (
	"fmt"

	"github.com/gethiox/gptokeyb/internal/pkg/keycode"
	"github.com/gethiox/gptokeyb/internal/pkg/logger"
	"github.com/gethiox/gptokeyb/internal/pkg/typewriter"
	"github.com/holoplot/go-evdev"
	"go.uber.org/zap"
)

// emitKey sends modifier down before the key and releases it after the key
func (e *Engine) emitKey(code evdev.EvCode, pressed bool, modifier evdev.EvCode) error {
	if code == keycode.None {
		return nil
	}

	if pressed && modifier != keycode.None {
		err := e.sink.EmitKey(modifier, true)
		if err != nil {
			return fmt.Errorf("emitting %s failed: %w", keycode.Name(modifier), err)
		}
	}

	err := e.sink.EmitKey(code, pressed)
	if err != nil {
		return fmt.Errorf("emitting %s failed: %w", keycode.Name(code), err)
	}

	if !pressed && modifier != keycode.None {
		err := e.sink.EmitKey(modifier, false)
		if err != nil {
			return fmt.Errorf("emitting %s failed: %w", keycode.Name(modifier), err)
		}
	}

	log.Info("key", zap.String("key", keycode.Name(code)), zap.Bool("pressed", pressed), logger.Keys)
	return nil
}

// tap presses and releases the key with a pause long enough to be noticed as a keystroke
func (e *Engine) tap(code evdev.EvCode, modifier evdev.EvCode) error {
	if code == keycode.None {
		return nil
	}
	err := e.emitKey(code, true, modifier)
	if err != nil {
		return err
	}
	e.clock.Sleep(e.cfg.TapDelay)
	return e.emitKey(code, false, modifier)
}

func (e *Engine) emitAxis(code evdev.EvCode, value int32) error {
	err := e.sink.EmitAxis(code, value)
	if err != nil {
		return fmt.Errorf("emitting %s failed: %w", evdev.CodeName(evdev.EV_ABS, code), err)
	}
	return nil
}

func (e *Engine) emitMouse(dx, dy int32) error {
	if dx == 0 && dy == 0 {
		return nil
	}
	err := e.sink.EmitMouseDelta(dx, dy)
	if err != nil {
		return fmt.Errorf("emitting mouse motion failed: %w", err)
	}
	log.Info("mouse", zap.Int32("dx", dx), zap.Int32("dy", dy), logger.Analog)
	return nil
}

// typer types text entry characters as shift qualified taps
type typer struct {
	e *Engine
}

func (t typer) Type(entry typewriter.Entry) error {
	modifier := keycode.None
	if entry.Shift {
		modifier = evdev.KEY_LEFTSHIFT
	}
	return t.e.tap(entry.Code, modifier)
}

func (t typer) Backspace() error {
	return t.e.tap(evdev.KEY_BACKSPACE, keycode.None)
}

func (t typer) Enter() error {
	return t.e.tap(evdev.KEY_ENTER, keycode.None)
}
