package input

import (
	"context"
	"fmt"
	"strings"

	"github.com/gethiox/gptokeyb/internal/pkg/logger"
	"github.com/holoplot/go-evdev"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

const (
	EV_KEY_RELEASE = 0
	EV_KEY_PRESS   = 1
	EV_KEY_REPEAT  = 2
)

// Controller is a single opened evdev game controller handler
type Controller struct {
	Info     DeviceInfo
	Instance int32

	profile Profile
	dev     *evdev.InputDevice
	abs     map[evdev.EvCode]evdev.AbsInfo
	hats    map[evdev.EvCode]int32 // last reported hat value
}

func newController(info DeviceInfo, profile Profile, instance int32, abs map[evdev.EvCode]evdev.AbsInfo) *Controller {
	if abs == nil {
		abs = make(map[evdev.EvCode]evdev.AbsInfo)
	}
	return &Controller{
		Info:     info,
		Instance: instance,
		profile:  profile,
		abs:      abs,
		hats:     make(map[evdev.EvCode]int32, len(profile.Hats)),
	}
}

// OpenController opens the event handler of given device
func OpenController(info DeviceInfo, profile Profile, instance int32) (*Controller, error) {
	dev, err := evdev.Open(info.EventPath())
	if err != nil {
		return nil, fmt.Errorf("opening handler failed: %w", err)
	}

	abs, err := dev.AbsInfos()
	if err != nil {
		log.Info(fmt.Sprintf("reading axis ranges failed: %v", err), zap.String("device_name", info.Name), logger.Warning)
		abs = nil
	}

	c := newController(info, profile, instance, abs)
	c.dev = dev
	return c, nil
}

func clampInt16(v int64) int16 {
	switch {
	case v > 32767:
		return 32767
	case v < -32768:
		return -32768
	}
	return int16(v)
}

// normalize scales raw axis value into -32768..32767 for sticks, 0..32767 for triggers
func (c *Controller) normalize(code evdev.EvCode, axis Axis, value int32) int16 {
	trigger := axis == AxisTriggerLeft || axis == AxisTriggerRight

	var scaled int64
	info, ok := c.abs[code]
	switch {
	case !ok || info.Maximum <= info.Minimum:
		scaled = int64(value)
	case trigger:
		scaled = int64(value-info.Minimum) * 32767 / int64(info.Maximum-info.Minimum)
	default:
		scaled = int64(value-info.Minimum)*65535/int64(info.Maximum-info.Minimum) - 32768
	}

	if c.profile.Invert[code] {
		if trigger {
			scaled = 32767 - scaled
		} else {
			scaled = -scaled - 1
		}
	}
	return clampInt16(scaled)
}

func (c *Controller) button(b Button, pressed bool) Event {
	t := ButtonUp
	if pressed {
		t = ButtonDown
	}
	return Event{Type: t, Device: c.Instance, Button: b}
}

func sign(v int32) int32 {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}

// translate converts one raw evdev event into logical events, unknown codes are dropped
func (c *Controller) translate(ev *evdev.InputEvent) []Event {
	switch ev.Type {
	case evdev.EV_KEY:
		if ev.Value == EV_KEY_REPEAT {
			return nil
		}
		b, ok := c.profile.Buttons[ev.Code]
		if !ok {
			return nil
		}
		return []Event{c.button(b, ev.Value == EV_KEY_PRESS)}

	case evdev.EV_ABS:
		if hat, ok := c.profile.Hats[ev.Code]; ok {
			previous := c.hats[ev.Code]
			current := sign(ev.Value)
			if c.profile.Invert[ev.Code] {
				current = -current
			}
			if previous == current {
				return nil
			}
			c.hats[ev.Code] = current

			var events []Event
			switch previous {
			case -1:
				events = append(events, c.button(hat.Negative, false))
			case 1:
				events = append(events, c.button(hat.Positive, false))
			}
			switch current {
			case -1:
				events = append(events, c.button(hat.Negative, true))
			case 1:
				events = append(events, c.button(hat.Positive, true))
			}
			return events
		}

		axis, ok := c.profile.Axes[ev.Code]
		if !ok {
			return nil
		}
		return []Event{{Type: AxisMotion, Device: c.Instance, Axis: axis, Value: c.normalize(ev.Code, axis, ev.Value)}}
	}
	return nil
}

// ProcessEvents reads the device until it disappears or the context is done
func (c *Controller) ProcessEvents(ctx context.Context, grab bool, events chan<- Event) {
	event := c.Info.Event()
	name, _ := c.dev.Name()
	name = strings.Trim(name, "\x00")

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
		}
		err := c.dev.Close()
		if err != nil {
			log.Info(fmt.Sprintf("device close failed: %v", err), zap.String("handler_event", event), logger.Debug)
		}
	}()

	if grab {
		err := c.dev.Grab()
		if err != nil {
			log.Info(fmt.Sprintf("grabbing device failed: %v", err), zap.String("handler_event", event), zap.String("handler_name", name), logger.Warning)
		} else {
			log.Info("Grabbing device for exclusive usage", zap.String("handler_event", event), zap.String("handler_name", name), logger.Debug)
		}
	}
	log.Info("Reading input events", zap.String("handler_event", event), zap.String("handler_name", name), logger.Debug)

root:
	for {
		raw, err := c.dev.ReadOne()
		if err != nil {
			break
		}

		for _, ev := range c.translate(raw) {
			select {
			case events <- ev:
			case <-ctx.Done():
				break root
			}
		}
	}

	if grab {
		_ = c.dev.Ungrab()
	}
	log.Info("Reading input events finished", zap.String("handler_event", event), zap.String("handler_name", name), logger.Debug)
}
