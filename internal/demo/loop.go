package demo

import (
	"context"
	"fmt"
	"time"

	"nakazima/padinput/internal/input"
	"nakazima/padinput/internal/logger"
)

// FrameRecorder receives the tracker sample of every frame.
type FrameRecorder interface {
	Record(frame uint64, s input.Snapshot)
}

// Loop runs the fixed-rate frame loop: poll input, step the scene, record,
// render.
type Loop struct {
	Tracker  *input.Tracker
	Scene    *Scene
	Renderer Renderer
	Recorder FrameRecorder // optional
	Logger   logger.LoggerInterface

	FPS        int
	QuitKey    input.Key
	QuitButton input.Button // 0 disables

	// Finished, when set, ends the loop after a frame for which it returns
	// true (window closed, trace exhausted).
	Finished func() bool
}

// Tick runs a single frame of dt seconds and reports whether the loop should
// stop.
func (l *Loop) Tick(dt float32) (bool, error) {
	l.Tracker.Update()
	frame := l.Tracker.Frame()

	if l.Tracker.IsKeyTrigger(l.QuitKey) || (l.QuitButton != 0 && l.Tracker.IsPadTrigger(l.QuitButton)) {
		l.Logger.Info(fmt.Sprintf("demo: quit requested at frame %d", frame))
		return true, nil
	}

	l.Scene.Step(l.Tracker, dt)

	// recorded after Step so the row carries this frame's vibration
	if l.Recorder != nil {
		l.Recorder.Record(frame, l.Tracker.Snapshot())
	}

	if err := l.Renderer.Render(frame, l.Scene, l.Tracker); err != nil {
		return true, fmt.Errorf("render frame %d: %w", frame, err)
	}
	return l.Finished != nil && l.Finished(), nil
}

// Run ticks at FPS until quit is requested, Finished reports true or ctx is
// canceled. Every frame advances the scene by exactly 1/FPS seconds so a
// replayed trace moves the circle the same way as the recorded run.
func (l *Loop) Run(ctx context.Context) error {
	if l.FPS <= 0 {
		return fmt.Errorf("demo: invalid fps %d", l.FPS)
	}
	dt := float32(1) / float32(l.FPS)

	ticker := time.NewTicker(time.Second / time.Duration(l.FPS))
	defer ticker.Stop()

	l.Logger.Info(fmt.Sprintf("demo: running at %d fps", l.FPS))
	for {
		select {
		case <-ctx.Done():
			l.Logger.Info("demo: stopping (context canceled)")
			return nil
		case <-ticker.C:
			stop, err := l.Tick(dt)
			if err != nil {
				return err
			}
			if stop {
				return nil
			}
		}
	}
}
