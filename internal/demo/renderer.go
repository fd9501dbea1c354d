package demo

import (
	"fmt"
	"math"
	"strings"
	"time"

	"nakazima/padinput/internal/input"
	"nakazima/padinput/internal/logger"
)

// Renderer draws one frame. Drawing proper is outside this module; the
// demo ships a renderer that writes the frame state to the log.
type Renderer interface {
	Render(frame uint64, s *Scene, tr *input.Tracker) error
}

// movementKeys are shown in the status line when held.
var movementKeys = []struct {
	key  input.Key
	name string
}{
	{input.KeyW, "W"},
	{input.KeyA, "A"},
	{input.KeyS, "S"},
	{input.KeyD, "D"},
}

// LogRenderer logs a status line whenever what would be on screen changes.
// The line carries the circle position, held movement keys, the controller
// buttons and triggers, the vibration command and the measured frame rate.
type LogRenderer struct {
	Logger logger.LoggerInterface
	Now    func() time.Time // defaults to time.Now

	last string

	windowStart  time.Time
	windowFrames int
	fps          int
}

func (r *LogRenderer) Render(frame uint64, s *Scene, tr *input.Tracker) error {
	r.measure()

	var held strings.Builder
	for _, m := range movementKeys {
		if tr.IsKeyPress(m.key) {
			held.WriteString(m.name)
		}
	}
	keys := held.String()
	if keys == "" {
		keys = "-"
	}

	line := fmt.Sprintf("pos=(%.1f,%.1f) keys=%s pad=%s lt=%d rt=%d vib=%d/%d fps=%d",
		s.Pos.X(), s.Pos.Y(),
		keys,
		tr.Snapshot().Pad.Buttons,
		tr.LeftTrigger(), tr.RightTrigger(),
		tr.Vibration().Left, tr.Vibration().Right,
		r.fps)
	if line == r.last {
		return nil
	}
	r.last = line
	r.Logger.Info(fmt.Sprintf("frame %d: %s", frame, line))
	return nil
}

// measure updates fps once at least a second of frames has been rendered.
func (r *LogRenderer) measure() {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	t := now()
	if r.windowStart.IsZero() {
		r.windowStart = t
		return
	}
	r.windowFrames++
	if elapsed := t.Sub(r.windowStart); elapsed >= time.Second {
		r.fps = int(math.Round(float64(r.windowFrames) / elapsed.Seconds()))
		r.windowStart = t
		r.windowFrames = 0
	}
}
