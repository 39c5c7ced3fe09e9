package typewriter

import (
	"github.com/gethiox/gptokeyb/internal/pkg/keycode"
	"github.com/holoplot/go-evdev"
)

const (
	baseCharacters  = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789 .,-_!?"
	extraCharacters = "@#$%&*()+=/\\:;'\"<>[]{}|~`^\t"

	lowercaseDefault = 0  // "a"
	capitalDefault   = 26 // "A"
)

// Entry is one selectable character
type Entry struct {
	Rune  rune
	Code  evdev.EvCode
	Shift bool
}

func (e Entry) IsSpace() bool {
	return e.Rune == ' '
}

// Charset returns ordered character table, extra symbols only extend it
func Charset(extraSymbols bool) []Entry {
	chars := baseCharacters
	if extraSymbols {
		chars += extraCharacters
	}

	var entries = make([]Entry, 0, len(chars))
	for _, r := range chars {
		key, ok := keycode.FromRune(r)
		if !ok {
			panic("character without key: " + string(r))
		}
		entries = append(entries, Entry{Rune: r, Code: key.Code, Shift: key.Shift})
	}
	return entries
}
