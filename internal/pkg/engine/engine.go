package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gethiox/gptokeyb/internal/pkg/config"
	"github.com/gethiox/gptokeyb/internal/pkg/input"
	"github.com/gethiox/gptokeyb/internal/pkg/logger"
	"github.com/gethiox/gptokeyb/internal/pkg/output"
	"github.com/gethiox/gptokeyb/internal/pkg/typewriter"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

var InvalidMode = errors.New("invalid base mode")

type Mode int

const (
	ModeKeyboard Mode = iota
	ModeGamepad
	ModeKill
	ModeTextEntry
)

func (m Mode) String() string {
	switch m {
	case ModeKeyboard:
		return "keyboard"
	case ModeGamepad:
		return "gamepad"
	case ModeKill:
		return "kill"
	case ModeTextEntry:
		return "text entry"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// SelectMode picks the base mode out of command line selectors
func SelectMode(xbox360 bool, killTarget string, hasConfig, textOptions bool) Mode {
	switch {
	case xbox360:
		return ModeGamepad
	case killTarget != "" && !hasConfig && !textOptions:
		return ModeKill
	}
	return ModeKeyboard
}

// Terminator ends a running program by its name
type Terminator interface {
	Terminate(name string) error
}

type Options struct {
	Mode Mode

	KillTarget   string
	Preset       string
	TextInput    bool
	NoCaps       bool
	ExtraSymbols bool
}

type timer interface {
	Stop() bool
}

type clock interface {
	AfterFunc(d time.Duration, f func()) timer
	Sleep(d time.Duration)
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) timer {
	return time.AfterFunc(d, f)
}

func (realClock) Sleep(d time.Duration) {
	time.Sleep(d)
}

// Engine translates controller events into output reports.
// Every method except Run is meant to be called from the Run goroutine only.
type Engine struct {
	cfg  config.Config
	opts Options
	sink output.Sink
	term Terminator

	mode  Mode
	queue chan input.Event
	done  chan struct{}
	clock clock

	holds      [config.ControlCount]HoldState
	held       [config.ControlCount]heldKey
	edges      [config.ControlCount]bool
	killActive bool
	finished   bool // kill mode has nothing left to do after the combo

	sticks [2]stick
	repeat repeatSlot
	mouse  *time.Ticker
	pad    [config.ControlCount]bool
	padDev [config.ControlCount]int32

	// controller that left each virtual pad axis off center
	padAxisDev map[input.Axis]int32

	typewriter *typewriter.Typewriter
}

// New creates an engine consuming given queue, sources and repeat timers write into it
func New(cfg config.Config, opts Options, sink output.Sink, term Terminator, queue chan input.Event) (*Engine, error) {
	switch opts.Mode {
	case ModeKeyboard, ModeKill:
	case ModeGamepad:
		if opts.Preset != "" || opts.TextInput {
			log.Info("text entry is not available in gamepad mode, ignoring text options", logger.Warning)
			opts.Preset = ""
			opts.TextInput = false
		}
	default:
		return nil, fmt.Errorf("%w: %s", InvalidMode, opts.Mode)
	}

	if opts.KillTarget != "" && term == nil {
		return nil, fmt.Errorf("kill target \"%s\" given without terminator", opts.KillTarget)
	}

	e := &Engine{
		cfg:   cfg,
		opts:  opts,
		sink:  sink,
		term:  term,
		mode:  opts.Mode,
		queue: queue,
		done:  make(chan struct{}),
		clock: realClock{},
	}
	e.typewriter = typewriter.New(typer{e}, cfg.TextMaxChars, opts.ExtraSymbols, !opts.NoCaps)
	return e, nil
}

func (e *Engine) Mode() Mode {
	return e.mode
}

func (e *Engine) setMode(m Mode) {
	e.cancelRepeat()
	if e.mode == m {
		return
	}
	log.Info(fmt.Sprintf("Mode changed: %s -> %s", e.mode, m), logger.Action)
	e.mode = m
}

// Run handles events until the context is done or a Quit event arrives.
// Outputs still held are released before returning.
func (e *Engine) Run(ctx context.Context) error {
	defer close(e.done)

	log.Info("Engine started", zap.String("mode", e.mode.String()), logger.Info)

	for {
		var tick <-chan time.Time
		if e.mouse != nil {
			tick = e.mouse.C
		}

		select {
		case <-ctx.Done():
			return e.shutdown(nil)
		case ev := <-e.queue:
			if ev.Type == input.Quit {
				log.Info("Quit requested", logger.Info)
				return e.shutdown(nil)
			}
			err := e.Handle(ev)
			if err != nil {
				return e.shutdown(err)
			}
			if e.finished {
				log.Info("Kill combo handled, exiting", logger.Info)
				return e.shutdown(nil)
			}
			e.updateMouse()
		case <-tick:
			err := e.mouseTick()
			if err != nil {
				return e.shutdown(err)
			}
		}
	}
}

func (e *Engine) shutdown(err error) error {
	if e.mouse != nil {
		e.mouse.Stop()
		e.mouse = nil
	}
	if err != nil {
		// sink is most likely unusable already
		e.cancelRepeat()
		return err
	}

	err = e.releaseAll()
	if err != nil {
		return fmt.Errorf("releasing held outputs failed: %w", err)
	}
	log.Info("Engine stopped", logger.Info)
	return nil
}

// Handle processes a single event
func (e *Engine) Handle(ev input.Event) error {
	log.Info(ev.String(), logger.Debug)

	switch ev.Type {
	case input.ButtonDown:
		return e.buttonDown(ev)
	case input.ButtonUp:
		return e.buttonUp(ev)
	case input.AxisMotion:
		return e.axisMotion(ev)
	case input.DeviceAdded:
		log.Info("Controller connected", zap.Int32("instance", ev.Device), logger.Info)
	case input.DeviceRemoved:
		log.Info("Controller disconnected", zap.Int32("instance", ev.Device), logger.Info)
		return e.deviceRemoved(ev.Device)
	case input.RepeatFire:
		return e.repeatFire(ev.Generation)
	}
	return nil
}

// releaseAll releases every output still held, used on mode switches and exit
func (e *Engine) releaseAll() error {
	var errs error
	e.cancelRepeat()

	for c := range e.held {
		errs = multierr.Append(errs, e.release(config.Control(c)))
	}
	for c, down := range e.pad {
		if down {
			errs = multierr.Append(errs, e.padButton(config.Control(c), false))
		}
	}
	e.edges = [config.ControlCount]bool{}
	return errs
}

func (e *Engine) deviceRemoved(dev int32) error {
	for c := range e.holds {
		if e.holds[c].Down && e.holds[c].Device == dev {
			e.holds[c] = HoldState{}
		}
	}
	e.updateKill()

	if e.repeat.active && e.repeat.device == dev {
		e.cancelRepeat()
	}

	var errs error
	for c, k := range e.held {
		if k.active && k.device == dev {
			errs = multierr.Append(errs, e.release(config.Control(c)))
		}
	}
	if e.mode == ModeGamepad {
		errs = multierr.Append(errs, e.padRemoved(dev))
	}
	// sticks are not tracked per controller
	e.sticks = [2]stick{}
	return errs
}
