//go:build !windows

package main

import (
	"fmt"
	"runtime"

	"nakazima/padinput/internal/config"
	"nakazima/padinput/internal/logger"
)

func openPlatformBackend(cfg *config.Config, _ logger.LoggerInterface) (*backend, error) {
	return nil, fmt.Errorf("backend %q needs windows (running on %s); use -backend glfw", cfg.Backend, runtime.GOOS)
}
