package demo

import (
	"fmt"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"

	"nakazima/padinput/internal/logger"
)

const statsPath = "/debug/statsview"

// LaunchStatsView serves runtime charts (heap, GC, goroutines) on addr for
// watching the frame loop's allocation behaviour. The returned function stops
// the server.
func LaunchStatsView(addr string, log logger.LoggerInterface) (stop func()) {
	viewer.SetConfiguration(viewer.WithAddr(addr))
	mgr := statsview.New()
	go func() {
		if err := mgr.Start(); err != nil {
			log.Warn(fmt.Sprintf("statsview: %v", err))
		}
	}()
	log.Info(fmt.Sprintf("statsview: available at http://%s%s", addr, statsPath))
	return mgr.Stop
}
