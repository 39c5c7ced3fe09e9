package input

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const procDevices = "/proc/bus/input/devices"

// GetHandlers returns a list of available input handlers in the system.
// Note: there is non-zero probability that returned list may be incomplete,
// a freshly attached device may show up with only part of its handlers.
func GetHandlers() ([]DeviceInfo, error) {
	data, err := os.ReadFile(procDevices)
	if err != nil {
		return nil, err
	}

	di, err := unmarshal(data)
	if err != nil {
		return nil, err
	}

	return di, nil
}

func parseHex16(s string) (uint16, error) {
	v, err := strconv.ParseUint(s, 16, 16)
	if err != nil {
		return 0, fmt.Errorf("hex decoding failed: %w", err)
	}
	return uint16(v), nil
}

// parseBitmap decodes space separated hex words, the most significant word comes first
func parseBitmap(s string) ([]uint64, error) {
	words := strings.Fields(s)
	bitmap := make([]uint64, len(words))
	for i, w := range words {
		v, err := strconv.ParseUint(w, 16, 64)
		if err != nil {
			return nil, fmt.Errorf("hex decoding failed: %w", err)
		}
		bitmap[len(words)-1-i] = v
	}
	return bitmap, nil
}

// unmarshal parses /proc/bus/input/devices file
func unmarshal(data []byte) ([]DeviceInfo, error) {
	var devices = make([]DeviceInfo, 0)

	var device DeviceInfo
	var started bool

	flush := func() {
		if started {
			devices = append(devices, device)
		}
		device = DeviceInfo{}
		started = false
	}

	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		if len(line) < 3 || line[1] != ':' {
			continue
		}
		started = true

		label := line[:1]
		info := strings.TrimSpace(line[3:])

		switch label {
		case "I":
			for _, param := range strings.Fields(info) {
				fields := strings.SplitN(param, "=", 2)
				if len(fields) != 2 {
					continue
				}
				v, err := parseHex16(fields[1])
				if err != nil {
					return devices, err
				}
				switch fields[0] {
				case "Bus":
					device.ID.Bus = v
				case "Vendor":
					device.ID.Vendor = v
				case "Product":
					device.ID.Product = v
				case "Version":
					device.ID.Version = v
				}
			}
		case "N":
			device.Name = strings.Trim(strings.TrimPrefix(info, "Name="), "\"")
		case "P":
			device.Phys = strings.TrimPrefix(info, "Phys=")
		case "U":
			device.Uniq = strings.TrimPrefix(info, "Uniq=")
		case "H":
			device.Handlers = strings.Fields(strings.TrimPrefix(info, "Handlers="))
		case "B":
			fields := strings.SplitN(info, "=", 2)
			if len(fields) != 2 {
				continue
			}
			bitmap, err := parseBitmap(fields[1])
			if err != nil {
				return devices, err
			}
			switch fields[0] {
			case "EV":
				device.Bitmaps.EV = bitmap
			case "KEY":
				device.Bitmaps.KEY = bitmap
			case "ABS":
				device.Bitmaps.ABS = bitmap
			}
		}
	}
	flush()

	return devices, nil
}
