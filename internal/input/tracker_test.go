package input

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeKeys map[Key]bool

func (f fakeKeys) KeyDown(k Key) bool { return f[k] }

type fakePad struct {
	state     PadState
	err       error
	sent      []Vibration
	sendErr   error
	pollCount int
}

func (f *fakePad) PadState(uint32) (PadState, error) {
	if f.err != nil {
		return PadState{}, f.err
	}
	return f.state, nil
}

func (f *fakePad) SetVibration(_ uint32, v Vibration) error {
	f.sent = append(f.sent, v)
	return f.sendErr
}

func (f *fakePad) Poll() { f.pollCount++ }

type recordingLogger struct {
	infos, warns, errs []string
}

func (l *recordingLogger) Info(msg string)  { l.infos = append(l.infos, msg) }
func (l *recordingLogger) Warn(msg string)  { l.warns = append(l.warns, msg) }
func (l *recordingLogger) Error(msg string) { l.errs = append(l.errs, msg) }

func TestNoEdgesBeforeFirstUpdate(t *testing.T) {
	tr := NewTracker(fakeKeys{KeyA: true}, &fakePad{state: PadState{Buttons: ButtonA}})

	assert.False(t, tr.IsKeyPress(KeyA))
	assert.False(t, tr.IsKeyTrigger(KeyA))
	assert.False(t, tr.IsKeyRelease(KeyA))
	assert.False(t, tr.IsPadPress(ButtonA))
	assert.False(t, tr.IsPadTrigger(ButtonA))
	assert.False(t, tr.IsPadRelease(ButtonA))
	assert.Zero(t, tr.Frame())
}

func TestUnpressedKeysNeverReport(t *testing.T) {
	keys := fakeKeys{KeyW: true}
	tr := NewTracker(keys, nil)

	for tick := 0; tick < 5; tick++ {
		keys[KeyW] = tick%2 == 0
		tr.Update()
		for k := Key(0); k < KeyCount; k++ {
			if k == KeyW {
				continue
			}
			require.False(t, tr.IsKeyPress(k), "tick %d key %v", tick, k)
			require.False(t, tr.IsKeyTrigger(k), "tick %d key %v", tick, k)
			require.False(t, tr.IsKeyRelease(k), "tick %d key %v", tick, k)
		}
	}
}

func TestKeyHeldThreeTicks(t *testing.T) {
	keys := fakeKeys{KeyA: true}
	tr := NewTracker(keys, nil)

	for tick := 1; tick <= 3; tick++ {
		tr.Update()
		assert.Equal(t, tick == 1, tr.IsKeyTrigger(KeyA), "tick %d", tick)
		assert.True(t, tr.IsKeyPress(KeyA), "tick %d", tick)
		assert.False(t, tr.IsKeyRelease(KeyA), "tick %d", tick)
	}
}

func TestKeyEdges(t *testing.T) {
	tests := []struct {
		name                    string
		samples                 []bool
		press, trigger, release bool
	}{
		{"rising edge", []bool{false, true}, true, true, false},
		{"held", []bool{false, true, true}, true, false, false},
		{"falling edge", []bool{true, false}, false, false, true},
		{"released and idle", []bool{true, false, false}, false, false, false},
		{"repress", []bool{true, false, true}, true, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keys := fakeKeys{}
			tr := NewTracker(keys, nil)
			for _, down := range tt.samples {
				keys[KeySpace] = down
				tr.Update()
			}
			assert.Equal(t, tt.press, tr.IsKeyPress(KeySpace))
			assert.Equal(t, tt.trigger, tr.IsKeyTrigger(KeySpace))
			assert.Equal(t, tt.release, tr.IsKeyRelease(KeySpace))
		})
	}
}

func TestQueriesAreIdempotentWithinTick(t *testing.T) {
	keys := fakeKeys{KeyD: true}
	tr := NewTracker(keys, nil)
	tr.Update()

	for i := 0; i < 3; i++ {
		assert.True(t, tr.IsKeyTrigger(KeyD))
		assert.True(t, tr.IsKeyPress(KeyD))
	}
}

func TestOutOfRangeKeys(t *testing.T) {
	keys := fakeKeys{}
	tr := NewTracker(keys, nil)
	tr.Update()

	for _, k := range []Key{-1, KeyCount, 1000} {
		assert.False(t, tr.IsKeyPress(k))
		assert.False(t, tr.IsKeyTrigger(k))
		assert.False(t, tr.IsKeyRelease(k))
		assert.ErrorIs(t, k.Validate(), ErrKeyOutOfRange)
	}
	assert.NoError(t, KeyA.Validate())
}

func TestPadEdges(t *testing.T) {
	pad := &fakePad{}
	tr := NewTracker(fakeKeys{}, pad)

	pad.state.Buttons = ButtonA
	tr.Update()
	assert.True(t, tr.IsPadPress(ButtonA))
	assert.True(t, tr.IsPadTrigger(ButtonA))
	assert.False(t, tr.IsPadRelease(ButtonA))
	assert.False(t, tr.IsPadPress(ButtonB))

	pad.state.Buttons = ButtonA | ButtonB
	tr.Update()
	assert.True(t, tr.IsPadPress(ButtonA))
	assert.False(t, tr.IsPadTrigger(ButtonA))
	assert.True(t, tr.IsPadTrigger(ButtonB))
	// a mask triggers only if none of its buttons were held before
	assert.False(t, tr.IsPadTrigger(ButtonA|ButtonB))

	pad.state.Buttons = 0
	tr.Update()
	assert.True(t, tr.IsPadRelease(ButtonA))
	assert.True(t, tr.IsPadRelease(ButtonB))
	assert.False(t, tr.IsPadPress(ButtonA|ButtonB))

	tr.Update()
	assert.False(t, tr.IsPadRelease(ButtonA))
}

func TestDisconnectedController(t *testing.T) {
	pad := &fakePad{state: PadState{
		Buttons:      ButtonA | ButtonDPadLeft,
		ThumbLX:      20000,
		ThumbLY:      -20000,
		LeftTrigger:  200,
		RightTrigger: 100,
	}}
	log := &recordingLogger{}
	tr := NewTracker(fakeKeys{}, pad, WithLogger(log))

	tr.Update()
	require.True(t, tr.Connected())
	require.True(t, tr.IsPadPress(ButtonA))

	pad.err = ErrNotConnected
	tr.Update()

	assert.False(t, tr.Connected())
	for _, n := range buttonNames {
		assert.False(t, tr.IsPadPress(n.button), n.name)
	}
	assert.True(t, tr.IsPadRelease(ButtonA))
	assert.Zero(t, tr.ThumbLX())
	assert.Zero(t, tr.ThumbLY())
	assert.Zero(t, tr.LeftTrigger())
	assert.Zero(t, tr.RightTrigger())

	// reconnect recovers without intervention
	pad.err = nil
	tr.Update()
	assert.True(t, tr.Connected())
	assert.True(t, tr.IsPadTrigger(ButtonA))

	assert.Equal(t, []string{
		"input: controller 0 connected",
		"input: controller 0 disconnected: controller not connected",
		"input: controller 0 connected",
	}, log.infos)
}

func TestDeadzone(t *testing.T) {
	tests := []struct {
		name  string
		x, y  int16
		wantX int16
		wantY int16
	}{
		{"both inside", 7000, -7000, 0, 0},
		{"just inside", DefaultDeadzone - 1, -(DefaultDeadzone - 1), 0, 0},
		{"x on threshold", DefaultDeadzone, 0, DefaultDeadzone, 0},
		{"only x outside", 12000, 300, 12000, 300},
		{"only y outside", -300, -12000, -300, -12000},
		{"both outside", 30000, 30000, 30000, 30000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pad := &fakePad{state: PadState{ThumbLX: tt.x, ThumbLY: tt.y}}
			tr := NewTracker(fakeKeys{}, pad)
			tr.Update()
			assert.Equal(t, tt.wantX, tr.Snapshot().Pad.ThumbLX)
			assert.Equal(t, tt.wantY, tr.Snapshot().Pad.ThumbLY)
			if tt.wantX == 0 && tt.wantY == 0 {
				assert.Equal(t, float32(0), tr.ThumbLX())
				assert.Equal(t, float32(0), tr.ThumbLY())
			}
		})
	}
}

func TestCustomDeadzone(t *testing.T) {
	pad := &fakePad{state: PadState{ThumbLX: 9000, ThumbLY: 9000}}

	tr := NewTracker(fakeKeys{}, pad, WithDeadzone(-10000))
	tr.Update()
	assert.Zero(t, tr.ThumbLX())

	tr = NewTracker(fakeKeys{}, pad, WithDeadzone(0))
	tr.Update()
	assert.InDelta(t, 9000.0/32767.0, tr.ThumbLX(), 1e-6)
}

func TestThumbNormalization(t *testing.T) {
	pad := &fakePad{state: PadState{ThumbLX: 32767, ThumbLY: -32768}}
	tr := NewTracker(fakeKeys{}, pad)
	tr.Update()

	assert.InDelta(t, 1.0, tr.ThumbLX(), 1e-6)
	// the negative extreme is not clamped
	assert.Less(t, tr.ThumbLY(), float32(-1))
	assert.InDelta(t, -32768.0/32767.0, tr.ThumbLY(), 1e-6)
}

func TestTriggersAreRaw(t *testing.T) {
	pad := &fakePad{state: PadState{LeftTrigger: 255, RightTrigger: 17}}
	tr := NewTracker(fakeKeys{}, pad)
	tr.Update()

	assert.Equal(t, uint8(255), tr.LeftTrigger())
	assert.Equal(t, uint8(17), tr.RightTrigger())
}

func TestVibrationClearedByUpdate(t *testing.T) {
	pad := &fakePad{}
	tr := NewTracker(fakeKeys{}, pad)
	tr.Update()

	tr.SetVibration(30000, 0)
	assert.Equal(t, Vibration{Left: 30000}, tr.Vibration())
	require.Len(t, pad.sent, 1)
	assert.Equal(t, Vibration{Left: 30000}, pad.sent[0])

	tr.Update()
	assert.Equal(t, Vibration{}, tr.Vibration())
	assert.Equal(t, Vibration{}, tr.Snapshot().Vibration)
	// clearing the stored command does not talk to the device
	assert.Len(t, pad.sent, 1)
}

func TestVibrationErrors(t *testing.T) {
	pad := &fakePad{sendErr: errors.New("device busy")}
	log := &recordingLogger{}
	tr := NewTracker(fakeKeys{}, pad, WithLogger(log), WithSlot(2))
	tr.Update()

	tr.SetVibration(1, 2)
	assert.Equal(t, Vibration{Left: 1, Right: 2}, tr.Vibration())
	assert.Equal(t, []string{"input: set vibration on controller 2: device busy"}, log.warns)

	// no warning spam while the controller is absent
	pad.err = ErrNotConnected
	tr.Update()
	tr.SetVibration(1, 2)
	assert.Len(t, log.warns, 1)
}

func TestNoPad(t *testing.T) {
	tr := NewTracker(fakeKeys{}, nil)
	tr.Update()
	tr.SetVibration(65535, 65535)

	assert.False(t, tr.Connected())
	assert.False(t, tr.IsPadPress(ButtonA))
	assert.Equal(t, Vibration{Left: 65535, Right: 65535}, tr.Vibration())
}

type pollingKeys struct {
	fakeKeys
	polls int
}

func (p *pollingKeys) Poll() { p.polls++ }

type keysAndPad struct {
	fakePad
	down bool
}

func (k *keysAndPad) KeyDown(Key) bool { return k.down }

func TestPollersRunOncePerUpdate(t *testing.T) {
	keys := &pollingKeys{fakeKeys: fakeKeys{}}
	pad := &fakePad{}
	tr := NewTracker(keys, pad)
	tr.Update()
	tr.Update()
	assert.Equal(t, 2, keys.polls)
	assert.Equal(t, 2, pad.pollCount)

	both := &keysAndPad{}
	tr = NewTracker(both, both)
	tr.Update()
	assert.Equal(t, 1, both.pollCount)
}

func TestSnapshotAndFrame(t *testing.T) {
	keys := fakeKeys{KeyEscape: true}
	pad := &fakePad{state: PadState{Buttons: ButtonStart, RightTrigger: 9}}
	tr := NewTracker(keys, pad)

	for i := 0; i < 4; i++ {
		tr.Update()
	}
	tr.SetVibration(5, 6)

	s := tr.Snapshot()
	assert.Equal(t, uint64(4), tr.Frame())
	assert.True(t, s.Keys[KeyEscape])
	assert.Equal(t, ButtonStart, s.Pad.Buttons)
	assert.Equal(t, uint8(9), s.Pad.RightTrigger)
	assert.Equal(t, Vibration{Left: 5, Right: 6}, s.Vibration)
	assert.True(t, s.Connected)
}

func ExampleTracker() {
	keys := fakeKeys{KeyA: true}
	tr := NewTracker(keys, nil)

	tr.Update()
	fmt.Println(tr.IsKeyTrigger(KeyA), tr.IsKeyPress(KeyA))
	tr.Update()
	fmt.Println(tr.IsKeyTrigger(KeyA), tr.IsKeyPress(KeyA))
	keys[KeyA] = false
	tr.Update()
	fmt.Println(tr.IsKeyRelease(KeyA))
	// Output:
	// true true
	// false true
	// true
}
