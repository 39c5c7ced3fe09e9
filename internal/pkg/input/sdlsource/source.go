//go:build sdl

package sdlsource

import (
	"context"
	"fmt"
	"runtime"

	"github.com/gethiox/gptokeyb/internal/pkg/input"
	"github.com/gethiox/gptokeyb/internal/pkg/logger"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// Source reads game controllers through SDL2 GameController API,
// controller layouts come from SDL mapping database
type Source struct {
	MappingFile string // SDL_GAMECONTROLLERCONFIG_FILE
	PollTimeout int    // milliseconds, bounds the context cancellation latency
}

func New(mappingFile string) *Source {
	return &Source{MappingFile: mappingFile, PollTimeout: 100}
}

func (s *Source) Run(ctx context.Context, events chan<- input.Event) error {
	// SDL event pump has to stay on the thread that initialized it
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	err := sdl.Init(sdl.INIT_GAMECONTROLLER)
	if err != nil {
		return fmt.Errorf("sdl: %w", err)
	}
	defer sdl.Quit()

	if s.MappingFile != "" {
		n := sdl.GameControllerAddMappingsFromFile(s.MappingFile)
		if n < 0 {
			log.Info(fmt.Sprintf("loading controller mappings failed: %s", sdl.GetError()), zap.String("config", s.MappingFile), logger.Warning)
		} else {
			log.Info(fmt.Sprintf("%d controller mappings loaded", n), zap.String("config", s.MappingFile), logger.Debug)
		}
	}

	var pads = make(map[sdl.JoystickID]*sdl.GameController)
	defer func() {
		for _, pad := range pads {
			pad.Close()
		}
	}()

	send := func(ev input.Event) bool {
		select {
		case events <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}

	for ctx.Err() == nil {
		for ev := sdl.WaitEventTimeout(s.PollTimeout); ev != nil; ev = sdl.PollEvent() {
			switch ev := ev.(type) {
			case *sdl.QuitEvent:
				if !send(input.Event{Type: input.Quit}) {
					return nil
				}

			case *sdl.ControllerDeviceEvent:
				switch ev.Type {
				case sdl.CONTROLLERDEVICEADDED:
					// Which is a device index here, an instance id everywhere else
					pad := sdl.GameControllerOpen(int(ev.Which))
					if pad == nil {
						log.Info(fmt.Sprintf("opening controller failed: %s", sdl.GetError()), logger.Warning)
						continue
					}
					id := pad.Joystick().InstanceID()
					pads[id] = pad
					log.Info("Device connected", zap.String("device_name", pad.Name()), logger.Info)
					if !send(input.Event{Type: input.DeviceAdded, Device: int32(id)}) {
						return nil
					}
				case sdl.CONTROLLERDEVICEREMOVED:
					pad, ok := pads[ev.Which]
					if ok {
						log.Info("Device disconnected", zap.String("device_name", pad.Name()), logger.Info)
						pad.Close()
						delete(pads, ev.Which)
					}
					if !send(input.Event{Type: input.DeviceRemoved, Device: int32(ev.Which)}) {
						return nil
					}
				}

			case *sdl.ControllerButtonEvent:
				out, ok := buttonEvent(int32(ev.Which), ev.Button, ev.Type == sdl.CONTROLLERBUTTONDOWN)
				if ok && !send(out) {
					return nil
				}

			case *sdl.ControllerAxisEvent:
				out, ok := axisEvent(int32(ev.Which), ev.Axis, ev.Value)
				if ok && !send(out) {
					return nil
				}
			}
		}
	}
	return nil
}
