package output

import (
	"fmt"
	"sync"

	"github.com/gethiox/gptokeyb/internal/pkg/logger"
	"github.com/holoplot/go-evdev"
	"go.uber.org/zap"
)

type eventWriter interface {
	WriteOne(event *evdev.InputEvent) error
	Close() error
}

var synReport = evdev.InputEvent{
	Type:  evdev.EV_SYN,
	Code:  evdev.SYN_REPORT,
	Value: 0,
}

// Keyboard is a virtual keyboard with relative mouse capabilities
type Keyboard struct {
	mu  sync.Mutex
	dev eventWriter
}

func keyboardCapabilities() map[evdev.EvType][]evdev.EvCode {
	var keys []evdev.EvCode
	for code := evdev.EvCode(evdev.KEY_ESC); code < 256; code++ {
		keys = append(keys, code)
	}
	keys = append(keys, evdev.BTN_LEFT, evdev.BTN_RIGHT, evdev.BTN_MIDDLE)

	return map[evdev.EvType][]evdev.EvCode{
		evdev.EV_KEY: keys,
		evdev.EV_REL: {evdev.REL_X, evdev.REL_Y, evdev.REL_WHEEL},
	}
}

func NewKeyboard(name string) (*Keyboard, error) {
	dev, err := evdev.CreateDevice(name, evdev.InputID{
		BusType: busUSB,
		Vendor:  vendorID,
		Product: productID,
		Version: 1,
	}, keyboardCapabilities())
	if err != nil {
		return nil, fmt.Errorf("creating virtual keyboard failed: %w", err)
	}
	log.Info("Virtual keyboard created", zap.String("device_name", name), logger.Debug)
	return &Keyboard{dev: dev}, nil
}

func (k *Keyboard) write(events ...evdev.InputEvent) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	for i := range events {
		err := k.dev.WriteOne(&events[i])
		if err != nil {
			return fmt.Errorf("writing event failed: %w", err)
		}
	}
	return k.dev.WriteOne(&synReport)
}

func (k *Keyboard) EmitKey(code evdev.EvCode, pressed bool) error {
	var value int32
	if pressed {
		value = 1
	}
	return k.write(evdev.InputEvent{Type: evdev.EV_KEY, Code: code, Value: value})
}

func (k *Keyboard) EmitAxis(code evdev.EvCode, _ int32) error {
	return fmt.Errorf("%w: %s", UnsupportedCode, evdev.CodeName(evdev.EV_ABS, code))
}

func (k *Keyboard) EmitMouseDelta(dx, dy int32) error {
	var events []evdev.InputEvent
	if dx != 0 {
		events = append(events, evdev.InputEvent{Type: evdev.EV_REL, Code: evdev.REL_X, Value: dx})
	}
	if dy != 0 {
		events = append(events, evdev.InputEvent{Type: evdev.EV_REL, Code: evdev.REL_Y, Value: dy})
	}
	if len(events) == 0 {
		return nil
	}
	return k.write(events...)
}

func (k *Keyboard) Close() error {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.dev.Close()
}
