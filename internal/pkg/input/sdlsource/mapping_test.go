package sdlsource

import (
	"testing"

	"github.com/gethiox/gptokeyb/internal/pkg/input"
	"github.com/stretchr/testify/assert"
)

func TestButtonEvent(t *testing.T) {
	ev, ok := buttonEvent(3, 6, true)
	assert.True(t, ok)
	assert.Equal(t, input.Event{Type: input.ButtonDown, Device: 3, Button: input.ButtonStart}, ev)

	ev, ok = buttonEvent(3, 14, false)
	assert.True(t, ok)
	assert.Equal(t, input.Event{Type: input.ButtonUp, Device: 3, Button: input.ButtonDpadRight}, ev)

	_, ok = buttonEvent(3, 15, true) // misc1
	assert.False(t, ok)
}

func TestAxisEvent(t *testing.T) {
	ev, ok := axisEvent(1, 4, 32767)
	assert.True(t, ok)
	assert.Equal(t, input.Event{Type: input.AxisMotion, Device: 1, Axis: input.AxisTriggerLeft, Value: 32767}, ev)

	_, ok = axisEvent(1, 6, 0)
	assert.False(t, ok)
}

func TestEveryButtonMapped(t *testing.T) {
	seen := make(map[input.Button]bool)
	for _, b := range buttons {
		assert.False(t, seen[b], b.String())
		seen[b] = true
	}
	assert.Equal(t, 15, len(seen))
}
