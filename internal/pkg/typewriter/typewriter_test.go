package typewriter

import (
	"errors"
	"os"
	"testing"

	"github.com/gethiox/gptokeyb/internal/pkg/logger"
	"github.com/holoplot/go-evdev"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	logger.Discard()
	os.Exit(m.Run())
}

type fakeEmitter struct {
	typed []string
	err   error
}

func (f *fakeEmitter) Type(e Entry) error {
	if f.err != nil {
		return f.err
	}
	f.typed = append(f.typed, string(e.Rune))
	return nil
}

func (f *fakeEmitter) Backspace() error {
	if f.err != nil {
		return f.err
	}
	f.typed = append(f.typed, "<bs>")
	return nil
}

func (f *fakeEmitter) Enter() error {
	if f.err != nil {
		return f.err
	}
	f.typed = append(f.typed, "<enter>")
	return nil
}

func (f *fakeEmitter) take() []string {
	typed := f.typed
	f.typed = nil
	return typed
}

func TestCharset(t *testing.T) {
	base := Charset(false)
	extra := Charset(true)

	assert.Len(t, base, 69)
	assert.Len(t, extra, 96)
	assert.Equal(t, base, extra[:len(base)])

	for i, tc := range []struct {
		index int
		r     rune
		code  evdev.EvCode
		shift bool
	}{
		{0, 'a', evdev.KEY_A, false},
		{25, 'z', evdev.KEY_Z, false},
		{26, 'A', evdev.KEY_A, true},
		{51, 'Z', evdev.KEY_Z, true},
		{52, '0', evdev.KEY_0, false},
		{62, ' ', evdev.KEY_SPACE, false},
		{63, '.', evdev.KEY_DOT, false},
		{66, '_', evdev.KEY_MINUS, true},
		{68, '?', evdev.KEY_SLASH, true},
		{69, '@', evdev.KEY_2, true},
		{95, '\t', evdev.KEY_TAB, false},
	} {
		entry := extra[tc.index]
		assert.Equal(t, tc.r, entry.Rune, "test %d", i)
		assert.Equal(t, tc.code, entry.Code, "test %d", i)
		assert.Equal(t, tc.shift, entry.Shift, "test %d", i)
	}
}

func TestStart(t *testing.T) {
	for _, tc := range []struct {
		name     string
		autoCaps bool
		expected string
	}{
		{"capitals", true, "A"},
		{"no capitals", false, "a"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			out := &fakeEmitter{}
			tw := New(out, 20, false, tc.autoCaps)

			assert.False(t, tw.Active())
			err := tw.Start()
			assert.Equal(t, nil, err)
			assert.True(t, tw.Active())
			assert.Equal(t, 0, tw.Cursor())
			assert.Equal(t, []string{tc.expected}, out.take())
		})
	}
}

func TestCycle(t *testing.T) {
	out := &fakeEmitter{}
	tw := New(out, 20, false, true)
	_ = tw.Start()
	out.take()

	assert.Equal(t, nil, tw.Cycle(1))
	assert.Equal(t, []string{"<bs>", "B"}, out.take())

	assert.Equal(t, nil, tw.Cycle(-1))
	assert.Equal(t, nil, tw.Cycle(-1))
	assert.Equal(t, []string{"<bs>", "A", "<bs>", "z"}, out.take())

	// "X" + 13 lands on space, which cannot start the text
	assert.Equal(t, nil, tw.Cycle(49-tw.Selection()))
	out.take()
	assert.Equal(t, nil, tw.Cycle(13))
	assert.Equal(t, '.', tw.Current().Rune)

	// and backwards "." - 1 is space too
	assert.Equal(t, nil, tw.Cycle(-1))
	assert.Equal(t, '9', tw.Current().Rune)

	// past the first slot space is fine
	assert.Equal(t, nil, tw.Advance())
	assert.Equal(t, nil, tw.Cycle(62))
	assert.Equal(t, ' ', tw.Current().Rune)

	assert.Equal(t, nil, tw.Cycle(-13-62))
	assert.Equal(t, '4', tw.Current().Rune)
}

func TestCycleIsCyclic(t *testing.T) {
	for _, extra := range []bool{false, true} {
		out := &fakeEmitter{}
		tw := New(out, 20, extra, true)
		_ = tw.Start()
		n := tw.Size()

		// first slot never visits space
		start := tw.Selection()
		for i := 0; i < n-1; i++ {
			assert.Equal(t, nil, tw.Cycle(1))
			assert.False(t, tw.Current().IsSpace())
		}
		assert.Equal(t, start, tw.Selection())

		_ = tw.Advance()
		start = tw.Selection()
		for i := 0; i < n; i++ {
			assert.Equal(t, nil, tw.Cycle(1))
		}
		assert.Equal(t, start, tw.Selection())

		for i := 0; i < n; i++ {
			assert.Equal(t, nil, tw.Cycle(-13))
			assert.True(t, tw.Selection() >= 0 && tw.Selection() < n)
		}
		assert.Equal(t, start, tw.Selection())
	}
}

func TestAdvance(t *testing.T) {
	out := &fakeEmitter{}
	tw := New(out, 3, false, true)
	_ = tw.Start()

	assert.Equal(t, nil, tw.Advance())
	assert.Equal(t, 1, tw.Cursor())

	// space committed, next slot starts capital
	assert.Equal(t, nil, tw.Cycle(62))
	assert.Equal(t, nil, tw.Advance())
	assert.Equal(t, 2, tw.Cursor())
	assert.Equal(t, 'A', tw.Current().Rune)
	assert.Equal(t, []string{"A", "a", "<bs>", " ", "A"}, out.take())

	// last slot, advancing commits
	assert.Equal(t, nil, tw.Advance())
	assert.Equal(t, []string{"<enter>"}, out.take())
	assert.False(t, tw.Active())
	assert.Equal(t, 0, tw.Cursor())

	// inactive typewriter ignores input
	assert.Equal(t, nil, tw.Advance())
	assert.Equal(t, nil, tw.Cycle(1))
	assert.Len(t, out.take(), 0)
}

func TestAdvanceNoCaps(t *testing.T) {
	out := &fakeEmitter{}
	tw := New(out, 20, false, false)
	_ = tw.Start()
	_ = tw.Advance()
	_ = tw.Cycle(62)
	_ = tw.Advance()
	assert.Equal(t, []string{"a", "a", "<bs>", " ", "a"}, out.take())
}

func TestRetreat(t *testing.T) {
	out := &fakeEmitter{}
	tw := New(out, 20, false, true)
	_ = tw.Start()
	_ = tw.Cycle(2)
	_ = tw.Advance()
	out.take()

	assert.Equal(t, nil, tw.Retreat())
	assert.Equal(t, 0, tw.Cursor())
	assert.Equal(t, 'C', tw.Current().Rune)
	assert.Equal(t, []string{"<bs>"}, out.take())

	assert.Equal(t, nil, tw.Retreat())
	assert.Equal(t, 0, tw.Cursor())
	assert.Equal(t, []string{"<bs>", "A"}, out.take())
	assert.True(t, tw.Active())
}

func TestCancel(t *testing.T) {
	out := &fakeEmitter{}
	tw := New(out, 20, false, true)
	_ = tw.Start()
	_ = tw.Advance()
	_ = tw.Advance()
	out.take()

	assert.Equal(t, nil, tw.Cancel())
	assert.Equal(t, []string{"<bs>", "<bs>", "<bs>"}, out.take())
	assert.False(t, tw.Active())
	assert.Equal(t, 0, tw.Cursor())
}

func TestConfirm(t *testing.T) {
	out := &fakeEmitter{}
	tw := New(out, 20, false, true)
	_ = tw.Start()
	_ = tw.Advance()
	out.take()

	assert.Equal(t, nil, tw.Confirm())
	assert.Equal(t, []string{"<enter>"}, out.take())
	assert.False(t, tw.Active())
}

func TestEmitterError(t *testing.T) {
	expected := errors.New("device gone")
	out := &fakeEmitter{}
	tw := New(out, 20, false, true)
	_ = tw.Start()

	out.err = expected
	assert.ErrorIs(t, tw.Cycle(1), expected)
	assert.ErrorIs(t, tw.Cancel(), expected)
}

func TestTypeString(t *testing.T) {
	out := &fakeEmitter{}
	err := TypeString(out, "Hi, there!é")
	assert.Equal(t, nil, err)
	assert.Equal(t, []string{"H", "i", ",", " ", "t", "h", "e", "r", "e", "!"}, out.take())
}
