//go:build !windows

package main

import (
	"errors"

	"nakazima/padinput/internal/input"
)

func openPlatformSources() (input.KeySource, input.PadSource, func(), error) {
	return nil, nil, nil, errors.New("xinput needs windows; use -glfw")
}
