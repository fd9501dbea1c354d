package main

import (
	"fmt"

	"nakazima/padinput/internal/config"
	"nakazima/padinput/internal/input"
	"nakazima/padinput/internal/logger"
	"nakazima/padinput/internal/trace"
)

// backend is an opened pair of input sources.
type backend struct {
	keys     input.KeySource
	pad      input.PadSource
	finished func() bool
	close    func()
}

func openBackend(cfg *config.Config, log logger.LoggerInterface) (*backend, error) {
	switch cfg.Backend {
	case config.BackendGLFW:
		src, err := input.NewGLFWSource("padinput", int(cfg.Scene.Width), int(cfg.Scene.Height), true)
		if err != nil {
			return nil, err
		}
		return &backend{keys: src, pad: src, finished: src.Closed, close: src.Close}, nil

	case config.BackendReplay:
		player, err := trace.OpenPlayer(cfg.Trace.Replay)
		if err != nil {
			return nil, err
		}
		log.Info(fmt.Sprintf("Replaying %d frames from %s", player.Len(), cfg.Trace.Replay))
		return &backend{keys: player, pad: player, finished: player.Done, close: func() {}}, nil

	default:
		return openPlatformBackend(cfg, log)
	}
}
