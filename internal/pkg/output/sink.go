package output

import (
	"errors"

	"github.com/gethiox/gptokeyb/internal/pkg/logger"
	"github.com/holoplot/go-evdev"
)

var log = logger.GetLogger()

var UnsupportedCode = errors.New("code not supported by the device")

const (
	vendorID  = 0x3232
	productID = 0x5853
	busUSB    = 0x03
)

// Sink is a virtual output device, every call is one committed report
type Sink interface {
	EmitKey(code evdev.EvCode, pressed bool) error
	EmitAxis(code evdev.EvCode, value int32) error
	EmitMouseDelta(dx, dy int32) error
	Close() error
}

// Null discards everything, used when no virtual device is needed
type Null struct{}

func (Null) EmitKey(evdev.EvCode, bool) error { return nil }

func (Null) EmitAxis(evdev.EvCode, int32) error { return nil }

func (Null) EmitMouseDelta(int32, int32) error { return nil }

func (Null) Close() error { return nil }
