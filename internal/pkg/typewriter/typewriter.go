package typewriter

import (
	"fmt"

	"github.com/gethiox/gptokeyb/internal/pkg/keycode"
	"github.com/gethiox/gptokeyb/internal/pkg/logger"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// Emitter types into whatever application has the input focus
type Emitter interface {
	Type(e Entry) error
	Backspace() error
	Enter() error
}

// Typewriter composes text character by character without any buffer,
// every selection change is typed immediately, edits are delete-and-retype.
type Typewriter struct {
	out      Emitter
	charset  []Entry
	maxChars int
	autoCaps bool

	active    bool
	cursor    int
	selection []int
}

func New(out Emitter, maxChars int, extraSymbols, autoCaps bool) *Typewriter {
	if maxChars < 1 {
		maxChars = 1
	}
	t := &Typewriter{
		out:       out,
		charset:   Charset(extraSymbols),
		maxChars:  maxChars,
		autoCaps:  autoCaps,
		selection: make([]int, maxChars),
	}
	t.reset()
	return t
}

func (t *Typewriter) defaultIndex() int {
	if t.autoCaps {
		return capitalDefault
	}
	return lowercaseDefault
}

func (t *Typewriter) reset() {
	t.active = false
	t.cursor = 0
	for i := range t.selection {
		t.selection[i] = lowercaseDefault
	}
}

func (t *Typewriter) Active() bool {
	return t.active
}

func (t *Typewriter) Cursor() int {
	return t.cursor
}

func (t *Typewriter) Size() int {
	return len(t.charset)
}

// Selection returns charset index at the cursor
func (t *Typewriter) Selection() int {
	return t.selection[t.cursor]
}

// Current returns character at the cursor
func (t *Typewriter) Current() Entry {
	return t.charset[t.selection[t.cursor]]
}

func (t *Typewriter) typeCurrent() error {
	return t.out.Type(t.Current())
}

// Start enters text entry and types the default first character
func (t *Typewriter) Start() error {
	t.reset()
	t.active = true
	t.selection[0] = t.defaultIndex()
	log.Info("Text entry started", zap.Int("max_chars", t.maxChars), logger.Action)
	return t.typeCurrent()
}

func mod(a, n int) int {
	return ((a % n) + n) % n
}

// Cycle replaces the character at the cursor with the one delta positions away
func (t *Typewriter) Cycle(delta int) error {
	if !t.active || delta == 0 {
		return nil
	}

	err := t.out.Backspace()
	if err != nil {
		return err
	}

	n := len(t.charset)
	sel := mod(t.selection[t.cursor]+delta, n)
	if t.cursor == 0 && t.charset[sel].IsSpace() {
		// text never starts with a space
		step := 1
		if delta < 0 {
			step = -1
		}
		sel = mod(sel+step, n)
	}
	t.selection[t.cursor] = sel

	log.Info(fmt.Sprintf("Selected %q", t.Current().Rune), zap.Int("cursor", t.cursor), logger.Action)
	return t.typeCurrent()
}

// Advance keeps the character at the cursor and starts the next one.
// Advancing from the last slot commits the text instead.
func (t *Typewriter) Advance() error {
	if !t.active {
		return nil
	}

	if t.cursor+1 > t.maxChars-1 {
		return t.Confirm()
	}

	committed := t.Current()
	t.cursor++
	if committed.IsSpace() && t.autoCaps {
		t.selection[t.cursor] = capitalDefault
	} else {
		t.selection[t.cursor] = lowercaseDefault
	}
	return t.typeCurrent()
}

// Retreat removes the character at the cursor, the previous one stays typed
func (t *Typewriter) Retreat() error {
	if !t.active {
		return nil
	}

	err := t.out.Backspace()
	if err != nil {
		return err
	}

	if t.cursor > 0 {
		t.selection[t.cursor] = lowercaseDefault
		t.cursor--
		return nil
	}

	t.selection[0] = t.defaultIndex()
	return t.typeCurrent()
}

// Cancel removes every typed character and leaves text entry
func (t *Typewriter) Cancel() error {
	if !t.active {
		return nil
	}

	for i := t.cursor; i >= 0; i-- {
		err := t.out.Backspace()
		if err != nil {
			return err
		}
	}
	t.reset()
	log.Info("Text entry cancelled", logger.Action)
	return nil
}

// Confirm commits typed text with Enter and leaves text entry
func (t *Typewriter) Confirm() error {
	if !t.active {
		return nil
	}

	t.reset()
	log.Info("Text entry confirmed", logger.Action)
	return t.out.Enter()
}

// TypeString types given text at once, characters without a key are skipped
func TypeString(out Emitter, text string) error {
	for _, r := range text {
		key, ok := keycode.FromRune(r)
		if !ok {
			log.Info(fmt.Sprintf("no key for character %q, skipping", r), logger.Warning)
			continue
		}
		err := out.Type(Entry{Rune: r, Code: key.Code, Shift: key.Shift})
		if err != nil {
			return err
		}
	}
	return nil
}
