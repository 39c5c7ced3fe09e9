package input

import (
	"fmt"
	"strings"

	"github.com/holoplot/go-evdev"
)

// DeviceInfo describes one input handler group listed in /proc/bus/input/devices
type DeviceInfo struct {
	ID       InputID
	Name     string
	Phys     string
	Uniq     string
	Handlers []string
	Bitmaps  Bitmaps
}

type InputID struct {
	Bus     uint16
	Vendor  uint16
	Product uint16
	Version uint16
}

// Bitmaps keeps capability bitmaps, index 0 holds the least significant word
type Bitmaps struct {
	EV  []uint64
	KEY []uint64
	ABS []uint64
}

func hasBit(bitmap []uint64, bit evdev.EvCode) bool {
	word := int(bit) / 64
	if word >= len(bitmap) {
		return false
	}
	return bitmap[word]&(1<<(uint(bit)%64)) != 0
}

func (d *DeviceInfo) handler(prefix string) string {
	for _, h := range d.Handlers {
		if strings.HasPrefix(h, prefix) {
			return h
		}
	}
	return ""
}

// Event returns the event handler name, like "event0" for /dev/input/event0
func (d *DeviceInfo) Event() string {
	return d.handler("event")
}

func (d *DeviceInfo) EventPath() string {
	event := d.Event()
	if event == "" {
		return ""
	}
	return "/dev/input/" + event
}

// IsGamepad tells if the handler looks like a game controller: a joystick handler,
// or gamepad buttons together with absolute axes.
// Keyboards, mice and the virtual devices created by this program never qualify.
func (d *DeviceInfo) IsGamepad() bool {
	if d.Event() == "" {
		return false
	}
	if d.handler("js") != "" {
		return true
	}
	return hasBit(d.Bitmaps.KEY, evdev.BTN_GAMEPAD) && hasBit(d.Bitmaps.EV, evdev.EvCode(evdev.EV_ABS))
}

// Port returns the connection part of the physical path, shared by all handlers of one controller
func (d *DeviceInfo) Port() string {
	port, _, _ := strings.Cut(d.Phys, "/")
	return port
}

func (d *DeviceInfo) String() string {
	return fmt.Sprintf("\"%s\" %s (%04x:%04x)", d.Name, d.Event(), d.ID.Vendor, d.ID.Product)
}
