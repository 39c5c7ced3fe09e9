//go:build sdl

package main

import (
	"github.com/gethiox/gptokeyb/internal/pkg/input"
	"github.com/gethiox/gptokeyb/internal/pkg/input/sdlsource"
)

func newSDLSource(mappingFile string) (input.Source, error) {
	return sdlsource.New(mappingFile), nil
}
