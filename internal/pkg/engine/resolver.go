package engine

import (
	"fmt"

	"github.com/gethiox/gptokeyb/internal/pkg/config"
	"github.com/gethiox/gptokeyb/internal/pkg/keycode"
	"github.com/gethiox/gptokeyb/internal/pkg/logger"
	"github.com/gethiox/gptokeyb/internal/pkg/typewriter"
	"github.com/holoplot/go-evdev"
	"go.uber.org/zap"
)

// HoldState tracks a press of a control that may act either as a modifier or as a plain key.
// Only a companion press from Device turns it into a combo.
type HoldState struct {
	Down   bool
	Combo  bool
	Device int32
}

// heldKey is an output currently pressed on behalf of a control
type heldKey struct {
	active   bool
	code     evdev.EvCode
	modifier evdev.EvCode
	device   int32
}

func (e *Engine) startCombos() bool {
	return e.opts.KillTarget != "" || e.opts.Preset != "" || e.opts.TextInput
}

// isModifier tells if the control output is deferred until it is known whether a combo follows
func (e *Engine) isModifier(c config.Control) bool {
	switch {
	case c == e.cfg.Hotkey:
		return true
	case c == config.Start:
		return e.startCombos()
	}
	return false
}

func (e *Engine) hotkeyHeld(dev int32) bool {
	h := e.holds[e.cfg.Hotkey]
	return h.Down && h.Device == dev
}

func (e *Engine) startHeld(dev int32) bool {
	h := e.holds[config.Start]
	return e.isModifier(config.Start) && h.Down && h.Device == dev
}

func (e *Engine) mapped(c config.Control) bool {
	b := e.cfg.Bindings[c]
	switch {
	case b.Code != keycode.None, b.HotkeyCode != keycode.None, e.isModifier(c):
		return true
	case c == config.Up:
		return e.opts.Preset != ""
	case c == config.Down:
		return e.opts.TextInput
	}
	return false
}

// companion resolves every pending hold of the same controller into a combo
func (e *Engine) companion(c config.Control, dev int32) {
	if !e.mapped(c) {
		return
	}
	for m := range e.holds {
		h := &e.holds[m]
		if config.Control(m) == c || !h.Down || h.Combo || h.Device != dev {
			continue
		}
		h.Combo = true
		log.Info(fmt.Sprintf("%s resolved as modifier", config.Control(m)), zap.String("companion", c.String()), logger.Action)
	}
}

// updateKill issues the termination request on the rising edge of start and hotkey held together
func (e *Engine) updateKill() {
	if e.opts.KillTarget == "" {
		return
	}

	s := e.holds[config.Start]
	h := e.holds[e.cfg.Hotkey]
	active := s.Down && h.Down && s.Device == h.Device

	if active && !e.killActive {
		e.holds[config.Start].Combo = true
		e.holds[e.cfg.Hotkey].Combo = true

		log.Info(fmt.Sprintf("Kill combo, terminating \"%s\"", e.opts.KillTarget), logger.Action)
		err := e.term.Terminate(e.opts.KillTarget)
		if err != nil {
			log.Info(fmt.Sprintf("terminating \"%s\" failed: %s", e.opts.KillTarget, err), logger.Error)
		}
		if e.mode == ModeKill {
			e.finished = true
		}
	}
	e.killActive = active
}

// track follows modifiers in modes where every button has its own output
func (e *Engine) track(c config.Control, dev int32, down bool) {
	if c != config.Start && c != e.cfg.Hotkey {
		return
	}
	if down {
		e.holds[c] = HoldState{Down: true, Combo: true, Device: dev}
	} else {
		e.holds[c] = HoldState{}
	}
	e.updateKill()
}

func (e *Engine) press(c config.Control, dev int32, code, modifier evdev.EvCode, repeat bool) error {
	if code == keycode.None || e.held[c].active {
		return nil
	}

	err := e.emitKey(code, true, modifier)
	if err != nil {
		return err
	}
	e.held[c] = heldKey{active: true, code: code, modifier: modifier, device: dev}

	if repeat {
		e.startRepeat(c, code, dev)
	}
	return nil
}

func (e *Engine) release(c config.Control) error {
	e.edges[c] = false

	k := e.held[c]
	if !k.active {
		return nil
	}
	e.held[c] = heldKey{}
	e.stopRepeat(k.code)
	return e.emitKey(k.code, false, k.modifier)
}

func (e *Engine) keyboardDown(c config.Control, dev int32) error {
	e.companion(c, dev)

	if e.isModifier(c) {
		e.holds[c] = HoldState{Down: true, Device: dev}
		e.updateKill()
		return nil
	}

	if e.startHeld(dev) {
		switch {
		case c == config.Up && e.opts.Preset != "":
			log.Info("Typing preset", logger.Action)
			return typewriter.TypeString(typer{e}, e.opts.Preset)
		case c == config.Down && e.opts.TextInput:
			return e.enterTextEntry()
		}
	}

	b := e.cfg.Bindings[c]
	if c.HasHotkeyAlternate() && b.HotkeyCode != keycode.None && e.hotkeyHeld(dev) {
		// latched until release, even when the hotkey goes up first
		return e.press(c, dev, b.HotkeyCode, b.HotkeyModifier, false)
	}
	return e.press(c, dev, b.Code, b.Modifier, b.Repeat)
}

func (e *Engine) keyboardUp(c config.Control, dev int32) error {
	if !e.isModifier(c) {
		return e.release(c)
	}

	h := e.holds[c]
	if !h.Down || h.Device != dev {
		return nil
	}
	e.holds[c] = HoldState{}
	e.updateKill()

	if h.Combo {
		return nil
	}
	b := e.cfg.Bindings[c]
	return e.tap(b.Code, b.Modifier)
}
