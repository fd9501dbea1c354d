package demo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nakazima/padinput/internal/input"
	"nakazima/padinput/internal/logger"
)

type scriptKeys struct {
	frames []map[input.Key]bool
	pos    int
}

func (s *scriptKeys) Poll() { s.pos++ }
func (s *scriptKeys) KeyDown(k input.Key) bool {
	if s.pos == 0 || s.pos > len(s.frames) {
		return false
	}
	return s.frames[s.pos-1][k]
}

type stubPad struct {
	state input.PadState
	sent  []input.Vibration
}

func (p *stubPad) PadState(uint32) (input.PadState, error) { return p.state, nil }
func (p *stubPad) SetVibration(_ uint32, v input.Vibration) error {
	p.sent = append(p.sent, v)
	return nil
}

type memRecorder struct {
	frames []uint64
	snaps  []input.Snapshot
}

func (m *memRecorder) Record(frame uint64, s input.Snapshot) {
	m.frames = append(m.frames, frame)
	m.snaps = append(m.snaps, s)
}

type countingRenderer struct {
	frames []uint64
	err    error
}

func (c *countingRenderer) Render(frame uint64, _ *Scene, _ *input.Tracker) error {
	c.frames = append(c.frames, frame)
	return c.err
}

func newLoop(keys input.KeySource, pad input.PadSource) (*Loop, *memRecorder, *countingRenderer) {
	rec := &memRecorder{}
	ren := &countingRenderer{}
	return &Loop{
		Tracker:    input.NewTracker(keys, pad),
		Scene:      NewScene(1000, 1000, 60),
		Renderer:   ren,
		Recorder:   rec,
		Logger:     logger.Nop{},
		FPS:        60,
		QuitKey:    input.KeyEscape,
		QuitButton: input.ButtonBack,
	}, rec, ren
}

func TestTickMovesRecordsAndRenders(t *testing.T) {
	held := map[input.Key]bool{input.KeyD: true}
	keys := &scriptKeys{frames: []map[input.Key]bool{held, held}}
	pad := &stubPad{state: input.PadState{Buttons: input.ButtonA}}
	l, rec, ren := newLoop(keys, pad)

	for i := 0; i < 2; i++ {
		stop, err := l.Tick(1)
		require.NoError(t, err)
		require.False(t, stop)
	}

	assert.InDelta(t, 320, l.Scene.Pos.X(), 1e-3)
	assert.Equal(t, []uint64{1, 2}, rec.frames)
	assert.Equal(t, []uint64{1, 2}, ren.frames)
	// the recorded sample carries the vibration issued during the frame
	assert.Equal(t, input.Vibration{Left: 65535}, rec.snaps[1].Vibration)
	assert.Len(t, pad.sent, 2)
}

func TestTickQuitKey(t *testing.T) {
	keys := &scriptKeys{frames: []map[input.Key]bool{
		{input.KeyEscape: true},
	}}
	l, rec, _ := newLoop(keys, &stubPad{})

	stop, err := l.Tick(1)
	require.NoError(t, err)
	assert.True(t, stop)
	assert.Empty(t, rec.frames)
}

func TestTickBackButtonQuits(t *testing.T) {
	l, _, _ := newLoop(&scriptKeys{}, &stubPad{state: input.PadState{Buttons: input.ButtonBack}})
	stop, err := l.Tick(1)
	require.NoError(t, err)
	assert.True(t, stop)
}

func TestTickQuitButtonDisabled(t *testing.T) {
	l, rec, _ := newLoop(&scriptKeys{}, &stubPad{state: input.PadState{Buttons: input.ButtonBack}})
	l.QuitButton = 0
	stop, err := l.Tick(1)
	require.NoError(t, err)
	assert.False(t, stop)
	assert.Len(t, rec.frames, 1)
}

func TestTickRenderError(t *testing.T) {
	l, _, ren := newLoop(&scriptKeys{}, &stubPad{})
	ren.err = errors.New("device lost")

	stop, err := l.Tick(1)
	assert.True(t, stop)
	assert.ErrorContains(t, err, "render frame 1: device lost")
}

func TestRunStopsWhenFinished(t *testing.T) {
	l, _, ren := newLoop(&scriptKeys{}, &stubPad{})
	l.FPS = 1000
	l.Finished = func() bool { return len(ren.frames) == 3 }

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, l.Run(ctx))
	assert.Len(t, ren.frames, 3)
}

func TestRunStopsOnCancel(t *testing.T) {
	l, _, _ := newLoop(&scriptKeys{}, &stubPad{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, l.Run(ctx))
}

func TestRunRejectsBadFPS(t *testing.T) {
	l, _, _ := newLoop(&scriptKeys{}, &stubPad{})
	l.FPS = 0
	assert.Error(t, l.Run(context.Background()))
}

// fakeClock advances by step on every call.
type fakeClock struct {
	now  time.Time
	step time.Duration
}

func (c *fakeClock) Now() time.Time {
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

func TestLogRenderer(t *testing.T) {
	log := &lines{}
	clock := &fakeClock{now: time.Unix(0, 0), step: time.Millisecond}
	r := &LogRenderer{Logger: log, Now: clock.Now}
	keys := &scriptKeys{frames: []map[input.Key]bool{{input.KeyW: true, input.KeyD: true}}}
	pad := &stubPad{state: input.PadState{Buttons: input.ButtonA | input.ButtonDPadUp, LeftTrigger: 7}}
	tr := input.NewTracker(keys, pad)
	tr.Update()
	s := NewScene(640, 480, 1)

	require.NoError(t, r.Render(1, s, tr))
	require.NoError(t, r.Render(2, s, tr))
	s.Pos[0] = 250
	require.NoError(t, r.Render(3, s, tr))

	tr.Update()
	require.NoError(t, r.Render(4, s, tr))

	assert.Equal(t, []string{
		"frame 1: pos=(200.0,300.0) keys=WD pad=DpadUp|A lt=7 rt=0 vib=0/0 fps=0",
		"frame 3: pos=(250.0,300.0) keys=WD pad=DpadUp|A lt=7 rt=0 vib=0/0 fps=0",
		"frame 4: pos=(250.0,300.0) keys=- pad=DpadUp|A lt=7 rt=0 vib=0/0 fps=0",
	}, log.msgs)
}

func TestLogRendererMeasuresFPS(t *testing.T) {
	log := &lines{}
	clock := &fakeClock{now: time.Unix(0, 0), step: 20 * time.Millisecond}
	r := &LogRenderer{Logger: log, Now: clock.Now}
	tr := input.NewTracker(&scriptKeys{}, &stubPad{})
	tr.Update()
	s := NewScene(640, 480, 1)

	// the first frame opens the window, 50 more frames at 20ms span one second
	for frame := uint64(1); frame <= 51; frame++ {
		require.NoError(t, r.Render(frame, s, tr))
	}

	require.Len(t, log.msgs, 2)
	assert.Equal(t, "frame 51: pos=(200.0,300.0) keys=- pad=None lt=0 rt=0 vib=0/0 fps=50", log.msgs[1])
}

type lines struct{ msgs []string }

func (l *lines) Info(msg string)  { l.msgs = append(l.msgs, msg) }
func (l *lines) Warn(msg string)  { l.msgs = append(l.msgs, msg) }
func (l *lines) Error(msg string) { l.msgs = append(l.msgs, msg) }
