package engine

import (
	"time"

	"github.com/gethiox/gptokeyb/internal/pkg/logger"
)

// mouseDelta is the motion of a single tick
func (e *Engine) mouseDelta() (dx, dy int32) {
	if e.mode != ModeKeyboard && e.mode != ModeTextEntry {
		return 0, 0
	}

	s := e.mouseStick()
	if s < 0 {
		return 0, 0
	}
	x, y := e.sticks[s].x, e.sticks[s].y

	scale := e.cfg.MouseScale
	if scale == 0 {
		scale = 1
	}
	return x / scale, y / scale
}

func (e *Engine) mouseTick() error {
	return e.emitMouse(e.mouseDelta())
}

// updateMouse keeps the tick running only while there is motion to report
func (e *Engine) updateMouse() {
	dx, dy := e.mouseDelta()
	moving := dx != 0 || dy != 0

	switch {
	case moving && e.mouse == nil:
		delay := e.cfg.MouseDelay
		if delay <= 0 {
			delay = time.Millisecond * 16
		}
		e.mouse = time.NewTicker(delay)
		log.Info("mouse motion started", logger.Analog)
	case !moving && e.mouse != nil:
		e.mouse.Stop()
		e.mouse = nil
		log.Info("mouse motion stopped", logger.Analog)
	}
}
