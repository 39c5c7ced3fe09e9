package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gethiox/gptokeyb/internal/pkg/keycode"
	"github.com/gethiox/gptokeyb/internal/pkg/logger"
	"github.com/go-ini/ini"
	"github.com/holoplot/go-evdev"
	"go.uber.org/zap"
)

const (
	valueRepeat   = "repeat"
	valueAddAlt   = "add_alt"
	valueAddCtrl  = "add_ctrl"
	valueAddShift = "add_shift"

	mouseMovementPrefix = "mouse_movement_"
	hotkeySuffix        = "_hk"
)

var modifiers = map[string]evdev.EvCode{
	valueAddAlt:   evdev.KEY_LEFTALT,
	valueAddCtrl:  evdev.KEY_LEFTCTRL,
	valueAddShift: evdev.KEY_LEFTSHIFT,
}

var loadOptions = ini.LoadOptions{
	// "a = x" and "a = repeat" may both appear for one control
	AllowShadows: true,
	// "#" and ";" are valid key names
	IgnoreInlineComment:     true,
	SkipUnrecognizableLines: true,
	Insensitive:             true,
}

// ParseData reads .gptk key=value entries on top of the built-in defaults
func ParseData(data []byte) (Config, error) {
	return Parse(Default(), data)
}

// Parse reads .gptk key=value entries on top of given base config.
// Unknown keys and key names are reported and ignored, they never fail the whole file.
func Parse(base Config, data []byte) (Config, error) {
	f, err := ini.LoadSources(loadOptions, data)
	if err != nil {
		return Config{}, fmt.Errorf("parsing ini failed: %w", err)
	}

	cfg := base
	for _, section := range f.Sections() {
		for _, key := range section.Keys() {
			name := key.Name()
			for _, value := range key.ValueWithShadows() {
				cfg.apply(name, strings.ToLower(strings.TrimSpace(value)))
			}
		}
	}
	return cfg, nil
}

func (c *Config) apply(name, value string) {
	if control, ok := ControlFromString(name); ok {
		c.applyBinding(control, value)
		return
	}

	if strings.HasSuffix(name, hotkeySuffix) {
		control, ok := ControlFromString(strings.TrimSuffix(name, hotkeySuffix))
		if ok && control.HasHotkeyAlternate() {
			c.applyHotkeyBinding(control, value)
			return
		}
	}

	switch name {
	case "deadzone":
		c.DeadzoneX = c.number(name, value, c.DeadzoneX)
		c.DeadzoneY = c.number(name, value, c.DeadzoneY)
	case "deadzone_x":
		c.DeadzoneX = c.number(name, value, c.DeadzoneX)
	case "deadzone_y":
		c.DeadzoneY = c.number(name, value, c.DeadzoneY)
	case "deadzone_triggers":
		c.DeadzoneTriggers = c.number(name, value, c.DeadzoneTriggers)
	case "mouse_scale":
		scale := c.number(name, value, c.MouseScale)
		if scale == 0 {
			log.Info("mouse_scale can't be zero, keeping previous value", zap.String("config", name), logger.Warning)
			return
		}
		c.MouseScale = scale
	case "mouse_delay":
		c.MouseDelay = c.millis(name, value, c.MouseDelay)
	case "repeat_delay":
		c.RepeatDelay = c.millis(name, value, c.RepeatDelay)
	case "repeat_interval":
		c.RepeatInterval = c.millis(name, value, c.RepeatInterval)
	case "tap_delay":
		c.TapDelay = c.millis(name, value, c.TapDelay)
	case "kill_grace":
		c.KillGrace = c.millis(name, value, c.KillGrace)
	case "text_max_chars":
		n := c.number(name, value, int32(c.TextMaxChars))
		if n < 1 {
			log.Info(fmt.Sprintf("text_max_chars has to be positive, got %d", n), zap.String("config", name), logger.Warning)
			return
		}
		c.TextMaxChars = int(n)
	case "hotkey":
		hotkey, err := ParseHotkey(value)
		if err != nil {
			log.Info(err.Error(), zap.String("config", name), logger.Warning)
			return
		}
		c.Hotkey = hotkey
	default:
		log.Info(fmt.Sprintf("unknown config key: \"%s\"", name), zap.String("config", name), logger.Warning)
	}
}

func (c *Config) applyBinding(control Control, value string) {
	b := &c.Bindings[control]

	if modifier, ok := modifiers[value]; ok {
		b.Modifier = modifier
		return
	}
	if value == valueRepeat {
		b.Repeat = true
		return
	}

	if strings.HasPrefix(value, mouseMovementPrefix) {
		switch control {
		case LeftAnalogUp, LeftAnalogDown, LeftAnalogLeft, LeftAnalogRight:
			c.LeftAnalogAsMouse = true
		case RightAnalogUp, RightAnalogDown, RightAnalogLeft, RightAnalogRight:
			c.RightAnalogAsMouse = true
		default:
			log.Info(fmt.Sprintf("%s can't drive the mouse", control), zap.String("config", control.String()), logger.Warning)
			return
		}
		b.Code = keycode.None
		return
	}

	b.Code = c.resolve(control.String(), value)
}

func (c *Config) applyHotkeyBinding(control Control, value string) {
	b := &c.Bindings[control]

	if modifier, ok := modifiers[value]; ok {
		b.HotkeyModifier = modifier
		return
	}
	b.HotkeyCode = c.resolve(control.String()+hotkeySuffix, value)
}

func (c *Config) resolve(name, value string) evdev.EvCode {
	code := keycode.Resolve(value)
	if code == keycode.None && value != "" {
		log.Info(fmt.Sprintf("unknown key name \"%s\", control left unbound", value), zap.String("config", name), logger.Warning)
	}
	return code
}

func (c *Config) number(name, value string, previous int32) int32 {
	n, err := strconv.ParseInt(value, 10, 32)
	if err != nil {
		log.Info(fmt.Sprintf("invalid number \"%s\", keeping %d", value, previous), zap.String("config", name), logger.Warning)
		return previous
	}
	return int32(n)
}

func (c *Config) millis(name, value string, previous time.Duration) time.Duration {
	n := c.number(name, value, int32(previous/time.Millisecond))
	if n < 0 {
		log.Info(fmt.Sprintf("negative duration \"%s\", keeping %s", value, previous), zap.String("config", name), logger.Warning)
		return previous
	}
	return time.Duration(n) * time.Millisecond
}
