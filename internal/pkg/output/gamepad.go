package output

import (
	"fmt"
	"sync"

	"github.com/bendahl/uinput"
	"github.com/gethiox/gptokeyb/internal/pkg/logger"
	"github.com/holoplot/go-evdev"
	"go.uber.org/zap"
)

const uinputPath = "/dev/uinput"

type gamepadDevice interface {
	ButtonDown(key int) error
	ButtonUp(key int) error
	LeftStickMoveX(value float32) error
	LeftStickMoveY(value float32) error
	RightStickMoveX(value float32) error
	RightStickMoveY(value float32) error
	HatPress(direction uinput.HatDirection) error
	HatRelease(direction uinput.HatDirection) error
	Close() error
}

// analog triggers are not available in every uinput release
type triggerDevice interface {
	LeftTriggerForce(value float32) error
	RightTriggerForce(value float32) error
}

// Gamepad is a virtual Xbox 360 style controller.
// Triggers take 0..255, sticks the full int16 range, hats -1/0/1.
type Gamepad struct {
	mu  sync.Mutex
	dev gamepadDevice

	hat      map[evdev.EvCode]int32
	triggers map[evdev.EvCode]bool // digital fallback state
}

func NewGamepad(name string) (*Gamepad, error) {
	dev, err := uinput.CreateGamepad(uinputPath, []byte(name), vendorID, productID)
	if err != nil {
		return nil, fmt.Errorf("creating virtual gamepad failed: %w", err)
	}
	log.Info("Virtual gamepad created", zap.String("device_name", name), logger.Debug)
	return newGamepad(dev), nil
}

func newGamepad(dev gamepadDevice) *Gamepad {
	return &Gamepad{
		dev:      dev,
		hat:      make(map[evdev.EvCode]int32, 2),
		triggers: make(map[evdev.EvCode]bool, 2),
	}
}

func (g *Gamepad) EmitKey(code evdev.EvCode, pressed bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if pressed {
		return g.dev.ButtonDown(int(code))
	}
	return g.dev.ButtonUp(int(code))
}

func stick(value int32) float32 {
	v := float32(value) / 32767
	switch {
	case v > 1:
		return 1
	case v < -1:
		return -1
	}
	return v
}

func hatDirections(code evdev.EvCode) (negative, positive uinput.HatDirection) {
	if code == evdev.ABS_HAT0X {
		return uinput.HatLeft, uinput.HatRight
	}
	return uinput.HatUp, uinput.HatDown
}

func (g *Gamepad) emitHat(code evdev.EvCode, value int32) error {
	switch {
	case value < 0:
		value = -1
	case value > 0:
		value = 1
	}
	previous := g.hat[code]
	if previous == value {
		return nil
	}
	g.hat[code] = value

	negative, positive := hatDirections(code)
	var err error
	switch previous {
	case -1:
		err = g.dev.HatRelease(negative)
	case 1:
		err = g.dev.HatRelease(positive)
	}
	if err != nil {
		return err
	}

	switch value {
	case -1:
		return g.dev.HatPress(negative)
	case 1:
		return g.dev.HatPress(positive)
	}
	return nil
}

func (g *Gamepad) emitTrigger(code evdev.EvCode, value int32) error {
	force := float32(value) / 255
	if t, ok := g.dev.(triggerDevice); ok {
		if code == evdev.ABS_Z {
			return t.LeftTriggerForce(force)
		}
		return t.RightTriggerForce(force)
	}

	button := uinput.ButtonTriggerLeft
	if code == evdev.ABS_RZ {
		button = uinput.ButtonTriggerRight
	}
	pressed := value >= 128
	if pressed == g.triggers[code] {
		return nil
	}
	g.triggers[code] = pressed
	if pressed {
		return g.dev.ButtonDown(button)
	}
	return g.dev.ButtonUp(button)
}

func (g *Gamepad) EmitAxis(code evdev.EvCode, value int32) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch code {
	case evdev.ABS_X:
		return g.dev.LeftStickMoveX(stick(value))
	case evdev.ABS_Y:
		return g.dev.LeftStickMoveY(stick(value))
	case evdev.ABS_RX:
		return g.dev.RightStickMoveX(stick(value))
	case evdev.ABS_RY:
		return g.dev.RightStickMoveY(stick(value))
	case evdev.ABS_Z, evdev.ABS_RZ:
		return g.emitTrigger(code, value)
	case evdev.ABS_HAT0X, evdev.ABS_HAT0Y:
		return g.emitHat(code, value)
	}
	return fmt.Errorf("%w: %s", UnsupportedCode, evdev.CodeName(evdev.EV_ABS, code))
}

func (g *Gamepad) EmitMouseDelta(dx, dy int32) error {
	if dx == 0 && dy == 0 {
		return nil
	}
	return fmt.Errorf("%w: mouse motion", UnsupportedCode)
}

func (g *Gamepad) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.dev.Close()
}
