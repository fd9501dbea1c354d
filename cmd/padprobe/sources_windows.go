//go:build windows

package main

import "nakazima/padinput/internal/input"

func openPlatformSources() (input.KeySource, input.PadSource, func(), error) {
	pad, err := input.NewXInputSource()
	if err != nil {
		return nil, nil, nil, err
	}
	return input.AsyncKeySource{}, pad, func() {}, nil
}
