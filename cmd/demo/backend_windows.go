//go:build windows

package main

import (
	"context"

	"nakazima/padinput/internal/config"
	"nakazima/padinput/internal/input"
	"nakazima/padinput/internal/logger"
)

func openPlatformBackend(cfg *config.Config, log logger.LoggerInterface) (*backend, error) {
	pad, err := input.NewXInputSource()
	if err != nil {
		return nil, err
	}
	if cfg.Backend != config.BackendHook {
		return &backend{keys: input.AsyncKeySource{}, pad: pad, close: func() {}}, nil
	}

	hook := &input.HookKeySource{Logger: log}
	ctx, cancel := context.WithCancel(context.Background())
	ready := make(chan error, 1)
	go hook.Start(ctx, ready)
	if err := <-ready; err != nil {
		cancel()
		return nil, err
	}
	return &backend{keys: hook, pad: pad, close: cancel}, nil
}
