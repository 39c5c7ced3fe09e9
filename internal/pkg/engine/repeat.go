package engine

import (
	"time"

	"github.com/gethiox/gptokeyb/internal/pkg/config"
	"github.com/gethiox/gptokeyb/internal/pkg/input"
	"github.com/gethiox/gptokeyb/internal/pkg/keycode"
	"github.com/gethiox/gptokeyb/internal/pkg/logger"
	"github.com/holoplot/go-evdev"
	"go.uber.org/zap"
)

// repeatSlot is the only output allowed to auto-repeat.
// Firings carry the generation they were armed with, others are stale.
type repeatSlot struct {
	active     bool
	code       evdev.EvCode
	control    config.Control
	device     int32
	generation uint64
	timer      timer
}

// startRepeat replaces whatever repeats now, code is zero for text entry cycling
func (e *Engine) startRepeat(c config.Control, code evdev.EvCode, dev int32) {
	e.cancelRepeat()

	e.repeat.active = true
	e.repeat.code = code
	e.repeat.control = c
	e.repeat.device = dev
	e.arm(e.cfg.RepeatDelay)
}

func (e *Engine) arm(d time.Duration) {
	generation := e.repeat.generation
	e.repeat.timer = e.clock.AfterFunc(d, func() {
		e.post(input.Event{Type: input.RepeatFire, Generation: generation})
	})
}

func (e *Engine) post(ev input.Event) {
	select {
	case e.queue <- ev:
	case <-e.done:
	}
}

// stopRepeat is a no-op unless code is the one repeating
func (e *Engine) stopRepeat(code evdev.EvCode) {
	if !e.repeat.active || e.repeat.code != code {
		return
	}
	e.cancelRepeat()
}

func (e *Engine) stopRepeatControl(c config.Control) {
	if !e.repeat.active || e.repeat.control != c {
		return
	}
	e.cancelRepeat()
}

func (e *Engine) cancelRepeat() {
	if e.repeat.timer != nil {
		e.repeat.timer.Stop()
	}
	e.repeat = repeatSlot{generation: e.repeat.generation + 1}
}

func (e *Engine) repeatFire(generation uint64) error {
	if !e.repeat.active || generation != e.repeat.generation {
		log.Info("stale repeat dropped", zap.Uint64("generation", generation), logger.Debug)
		return nil
	}

	var err error
	if e.mode == ModeTextEntry {
		err = e.typewriter.Cycle(textCycle[e.repeat.control])
	} else {
		// code stays held, a release and press pair restarts OS side repeat
		err = e.emitKey(e.repeat.code, false, keycode.None)
		if err == nil {
			err = e.emitKey(e.repeat.code, true, keycode.None)
		}
	}
	if err != nil {
		return err
	}

	e.arm(e.cfg.RepeatInterval)
	return nil
}
