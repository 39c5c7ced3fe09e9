package main

import (
	"testing"

	"github.com/gethiox/gptokeyb/internal/pkg/logger"
	"github.com/logrusorgru/aurora"
	"github.com/stretchr/testify/assert"
)

func TestColorForString(t *testing.T) {
	au := aurora.NewAurora(true)
	assert.Equal(t, colorForString(au, "keyboard").String(), colorForString(au, "keyboard").String())
	assert.Contains(t, colorForString(au, "keyboard").String(), "keyboard")
	assert.Equal(t, "gamepad", colorForString(aurora.NewAurora(false), "gamepad").String())
}

func TestUnpack(t *testing.T) {
	data := []byte(`{"ts":1650000000000000000,"caller":"engine/emit.go:37","msg":"key","level":4,"key":"KEY_X","pressed":true}`)
	entry, err := unpack(data)
	assert.Equal(t, nil, err)
	assert.Equal(t, "key", entry.Msg)
	assert.Equal(t, logger.KeysLvl, entry.Level)
	assert.Equal(t, "KEY_X", entry.Key)
	assert.NotNil(t, entry.Pressed)
	assert.True(t, *entry.Pressed)
	assert.Nil(t, entry.Instance)

	_, err = unpack([]byte("not a json"))
	assert.Error(t, err)
}

func TestPrepareString(t *testing.T) {
	au := aurora.NewAurora(false)
	pressed := true
	var instance int32 = 2

	for i, tc := range []struct {
		entry    Entry
		logLevel int
		expected string
	}{
		{
			entry:    Entry{Msg: "Engine started", Level: logger.InfoLvl, Mode: "keyboard"},
			logLevel: logger.InfoLvl,
			expected: "Engine started [mode=keyboard]",
		},
		{
			entry:    Entry{Msg: "key", Level: logger.KeysLvl, Key: "KEY_X", Pressed: &pressed},
			logLevel: logger.InfoLvl,
			expected: "",
		},
		{
			entry:    Entry{Msg: "key", Level: logger.KeysLvl, Key: "KEY_X", Pressed: &pressed},
			logLevel: logger.KeysLvl,
			expected: "key [KEY_X down]",
		},
		{
			entry:    Entry{Msg: "Controller connected", Level: logger.InfoLvl, Instance: &instance},
			logLevel: logger.InfoLvl,
			expected: "Controller connected [instance=2]",
		},
	} {
		s := prepareString(tc.entry, au, tc.logLevel)
		if tc.expected == "" {
			assert.Equal(t, "", s, "test %d", i)
			continue
		}
		// timestamp is local time dependent
		assert.Contains(t, s, "] "+tc.expected, "test %d", i)
	}
}
