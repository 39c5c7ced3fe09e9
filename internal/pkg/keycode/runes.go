package keycode

import (
	"github.com/holoplot/go-evdev"
)

// Key is a single printable character expressed as a key code and its shift state (US layout)
type Key struct {
	Code  evdev.EvCode
	Shift bool
}

var letters = [26]evdev.EvCode{
	evdev.KEY_A, evdev.KEY_B, evdev.KEY_C, evdev.KEY_D, evdev.KEY_E, evdev.KEY_F, evdev.KEY_G,
	evdev.KEY_H, evdev.KEY_I, evdev.KEY_J, evdev.KEY_K, evdev.KEY_L, evdev.KEY_M, evdev.KEY_N,
	evdev.KEY_O, evdev.KEY_P, evdev.KEY_Q, evdev.KEY_R, evdev.KEY_S, evdev.KEY_T, evdev.KEY_U,
	evdev.KEY_V, evdev.KEY_W, evdev.KEY_X, evdev.KEY_Y, evdev.KEY_Z,
}

var digits = [10]evdev.EvCode{
	evdev.KEY_0, evdev.KEY_1, evdev.KEY_2, evdev.KEY_3, evdev.KEY_4,
	evdev.KEY_5, evdev.KEY_6, evdev.KEY_7, evdev.KEY_8, evdev.KEY_9,
}

var symbols = map[rune]Key{
	' ':  {evdev.KEY_SPACE, false},
	'\t': {evdev.KEY_TAB, false},
	'\n': {evdev.KEY_ENTER, false},

	'!': {evdev.KEY_1, true},
	'@': {evdev.KEY_2, true},
	'#': {evdev.KEY_3, true},
	'$': {evdev.KEY_4, true},
	'%': {evdev.KEY_5, true},
	'^': {evdev.KEY_6, true}, // dead key on some layouts
	'&': {evdev.KEY_7, true},
	'*': {evdev.KEY_8, true},
	'(': {evdev.KEY_9, true},
	')': {evdev.KEY_0, true},

	'-':  {evdev.KEY_MINUS, false},
	'_':  {evdev.KEY_MINUS, true},
	'=':  {evdev.KEY_EQUAL, false},
	'+':  {evdev.KEY_EQUAL, true},
	'[':  {evdev.KEY_LEFTBRACE, false},
	'{':  {evdev.KEY_LEFTBRACE, true},
	']':  {evdev.KEY_RIGHTBRACE, false},
	'}':  {evdev.KEY_RIGHTBRACE, true},
	'\\': {evdev.KEY_BACKSLASH, false},
	'|':  {evdev.KEY_BACKSLASH, true},
	';':  {evdev.KEY_SEMICOLON, false},
	':':  {evdev.KEY_SEMICOLON, true},
	'\'': {evdev.KEY_APOSTROPHE, false}, // dead key on some layouts
	'"':  {evdev.KEY_APOSTROPHE, true},
	'`':  {evdev.KEY_GRAVE, false},
	'~':  {evdev.KEY_GRAVE, true},
	',':  {evdev.KEY_COMMA, false},
	'<':  {evdev.KEY_COMMA, true},
	'.':  {evdev.KEY_DOT, false},
	'>':  {evdev.KEY_DOT, true},
	'/':  {evdev.KEY_SLASH, false},
	'?':  {evdev.KEY_SLASH, true},
}

// FromRune resolves a character into the key that types it
func FromRune(r rune) (Key, bool) {
	switch {
	case r >= 'a' && r <= 'z':
		return Key{Code: letters[r-'a']}, true
	case r >= 'A' && r <= 'Z':
		return Key{Code: letters[r-'A'], Shift: true}, true
	case r >= '0' && r <= '9':
		return Key{Code: digits[r-'0']}, true
	}
	key, ok := symbols[r]
	return key, ok
}
