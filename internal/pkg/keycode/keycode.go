package keycode

import (
	"strings"

	"github.com/holoplot/go-evdev"
)

// None is returned for tokens without a known key, bindings holding it emit nothing
const None = evdev.EvCode(0)

var tokens = map[string]evdev.EvCode{
	// arrows
	"up":    evdev.KEY_UP,
	"down":  evdev.KEY_DOWN,
	"left":  evdev.KEY_LEFT,
	"right": evdev.KEY_RIGHT,

	// special keys
	"mouse_left":   evdev.BTN_LEFT,
	"mouse_right":  evdev.BTN_RIGHT,
	"mouse_middle": evdev.BTN_MIDDLE,
	"space":        evdev.KEY_SPACE,
	"esc":          evdev.KEY_ESC,
	"end":          evdev.KEY_END,
	"home":         evdev.KEY_HOME,
	"shift":        evdev.KEY_LEFTSHIFT,
	"leftshift":    evdev.KEY_LEFTSHIFT,
	"rightshift":   evdev.KEY_RIGHTSHIFT,
	"ctrl":         evdev.KEY_LEFTCTRL,
	"leftctrl":     evdev.KEY_LEFTCTRL,
	"rightctrl":    evdev.KEY_RIGHTCTRL,
	"alt":          evdev.KEY_LEFTALT,
	"leftalt":      evdev.KEY_LEFTALT,
	"rightalt":     evdev.KEY_RIGHTALT,
	"backspace":    evdev.KEY_BACKSPACE,
	"enter":        evdev.KEY_ENTER,
	"pageup":       evdev.KEY_PAGEUP,
	"pagedown":     evdev.KEY_PAGEDOWN,
	"insert":       evdev.KEY_INSERT,
	"delete":       evdev.KEY_DELETE,
	"capslock":     evdev.KEY_CAPSLOCK,
	"tab":          evdev.KEY_TAB,
	"pause":        evdev.KEY_PAUSE,
	"menu":         evdev.KEY_MENU,

	"f1":  evdev.KEY_F1,
	"f2":  evdev.KEY_F2,
	"f3":  evdev.KEY_F3,
	"f4":  evdev.KEY_F4,
	"f5":  evdev.KEY_F5,
	"f6":  evdev.KEY_F6,
	"f7":  evdev.KEY_F7,
	"f8":  evdev.KEY_F8,
	"f9":  evdev.KEY_F9,
	"f10": evdev.KEY_F10,
	"f11": evdev.KEY_F11,
	"f12": evdev.KEY_F12,

	"kp_plus":     evdev.KEY_KPPLUS,
	"kp_minus":    evdev.KEY_KPMINUS,
	"kp_asterisk": evdev.KEY_KPASTERISK,
	"kp_enter":    evdev.KEY_KPENTER,
}

// Resolve maps a human-readable config token to its key code.
// Single characters fall back to the character table, so "a", "7" and "@" resolve as well.
// Unknown tokens resolve to None.
func Resolve(token string) evdev.EvCode {
	token = strings.TrimSpace(token)
	if code, ok := tokens[strings.ToLower(token)]; ok {
		return code
	}

	runes := []rune(token)
	if len(runes) == 1 {
		if key, ok := FromRune(runes[0]); ok {
			return key.Code
		}
	}
	return None
}

// Name returns evdev name of the code, used for logging
func Name(code evdev.EvCode) string {
	if code == None {
		return "none"
	}
	return evdev.CodeName(evdev.EV_KEY, code)
}
