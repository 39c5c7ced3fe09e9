//go:build !sdl

package main

import (
	"errors"

	"github.com/gethiox/gptokeyb/internal/pkg/input"
)

func newSDLSource(string) (input.Source, error) {
	return nil, errors.New("built without SDL support, rebuild with \"-tags sdl\"")
}
