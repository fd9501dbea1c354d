// Package input tracks keyboard and controller state across frames.
//
// A Tracker is polled once per frame with Update. Between two Updates every
// query is a pure read of the two most recent samples: Press reports the
// current sample, Trigger a rising edge and Release a falling edge relative
// to the previous sample. Nothing older than one frame is kept, so two presses
// inside one frame collapse into a single edge.
package input

import (
	"fmt"
	"math"

	"nakazima/padinput/internal/logger"
)

// DefaultDeadzone is the XInput left thumbstick deadzone.
const DefaultDeadzone int16 = 7849

const thumbMax = 32767.0

// Snapshot is a copy of the current sample.
type Snapshot struct {
	Keys      KeyState
	Pad       PadState
	Vibration Vibration
	Connected bool
}

// Tracker owns the current and previous samples of one keyboard and one
// controller slot. It is not safe for concurrent use; call Update and the
// queries from the frame loop goroutine.
type Tracker struct {
	keys    KeySource
	pad     PadSource
	pollers []Poller

	slot     uint32
	deadzone int16
	log      logger.LoggerInterface

	keyNow  KeyState
	keyPrev KeyState
	padNow  PadState
	padPrev PadState

	vibration Vibration
	connected bool
	frame     uint64
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithDeadzone sets the per-axis thumbstick deadzone.
func WithDeadzone(d int16) Option {
	return func(t *Tracker) {
		switch {
		case d == math.MinInt16:
			d = math.MaxInt16
		case d < 0:
			d = -d
		}
		t.deadzone = d
	}
}

// WithLogger sets the logger for connection changes and vibration failures.
func WithLogger(l logger.LoggerInterface) Option {
	return func(t *Tracker) { t.log = l }
}

// WithSlot selects the controller slot to poll. The default is slot 0.
func WithSlot(slot uint32) Option {
	return func(t *Tracker) { t.slot = slot }
}

// NewTracker returns a tracker with both samples zeroed, so no edges are
// reported before the first Update. A nil pad source behaves as NoPad.
func NewTracker(keys KeySource, pad PadSource, opts ...Option) *Tracker {
	if pad == nil {
		pad = NoPad{}
	}
	t := &Tracker{
		keys:     keys,
		pad:      pad,
		deadzone: DefaultDeadzone,
		log:      logger.Nop{},
	}
	for _, opt := range opts {
		opt(t)
	}
	if p, ok := keys.(Poller); ok {
		t.pollers = append(t.pollers, p)
	}
	if p, ok := pad.(Poller); ok && (len(t.pollers) == 0 || t.pollers[0] != p) {
		t.pollers = append(t.pollers, p)
	}
	return t
}

// Update takes a fresh sample of every key and of the controller, then
// clears the vibration command. It must be called once per frame before the
// queries are used.
func (t *Tracker) Update() {
	for _, p := range t.pollers {
		p.Poll()
	}

	t.keyPrev = t.keyNow
	for k := Key(0); k < KeyCount; k++ {
		t.keyNow[k] = t.keys != nil && t.keys.KeyDown(k)
	}

	t.padPrev = t.padNow
	state, err := t.pad.PadState(t.slot)
	if err != nil {
		state = PadState{}
	}
	t.setConnected(err == nil, err)

	if inDeadzone(state.ThumbLX, t.deadzone) && inDeadzone(state.ThumbLY, t.deadzone) {
		state.ThumbLX = 0
		state.ThumbLY = 0
	}
	t.padNow = state

	t.vibration = Vibration{}
	t.frame++
}

func inDeadzone(v, dz int16) bool {
	return v < dz && v > -dz
}

func (t *Tracker) setConnected(connected bool, err error) {
	if connected == t.connected {
		return
	}
	t.connected = connected
	if connected {
		t.log.Info(fmt.Sprintf("input: controller %d connected", t.slot))
		return
	}
	t.log.Info(fmt.Sprintf("input: controller %d disconnected: %v", t.slot, err))
}

// IsKeyPress reports whether k is held in the current sample.
func (t *Tracker) IsKeyPress(k Key) bool {
	return t.keyNow.Down(k)
}

// IsKeyTrigger reports whether k went down this frame.
func (t *Tracker) IsKeyTrigger(k Key) bool {
	return t.keyNow.Down(k) && !t.keyPrev.Down(k)
}

// IsKeyRelease reports whether k went up this frame.
func (t *Tracker) IsKeyRelease(k Key) bool {
	return !t.keyNow.Down(k) && t.keyPrev.Down(k)
}

// IsPadPress reports whether any button in b is held.
func (t *Tracker) IsPadPress(b Button) bool {
	return t.padNow.Buttons&b != 0
}

// IsPadTrigger reports whether any button in b is held now and none was held
// in the previous frame.
func (t *Tracker) IsPadTrigger(b Button) bool {
	return t.padNow.Buttons&b != 0 && t.padPrev.Buttons&b == 0
}

// IsPadRelease reports whether no button in b is held now and some button in
// b was held in the previous frame.
func (t *Tracker) IsPadRelease(b Button) bool {
	return t.padNow.Buttons&b == 0 && t.padPrev.Buttons&b != 0
}

// ThumbLX is the left stick X axis scaled to about -1..1. The raw minimum
// -32768 maps slightly below -1 and is not clamped.
func (t *Tracker) ThumbLX() float32 {
	return float32(t.padNow.ThumbLX) / thumbMax
}

// ThumbLY is the left stick Y axis scaled like ThumbLX. Up is positive.
func (t *Tracker) ThumbLY() float32 {
	return float32(t.padNow.ThumbLY) / thumbMax
}

// LeftTrigger is the raw left trigger magnitude, 0-255.
func (t *Tracker) LeftTrigger() uint8 {
	return t.padNow.LeftTrigger
}

// RightTrigger is the raw right trigger magnitude, 0-255.
func (t *Tracker) RightTrigger() uint8 {
	return t.padNow.RightTrigger
}

// SetVibration stores the motor command and sends it to the controller at
// once. The command is cleared by the next Update, so sustained vibration has
// to be reissued every frame.
func (t *Tracker) SetVibration(left, right uint16) {
	t.vibration = Vibration{Left: left, Right: right}
	if err := t.pad.SetVibration(t.slot, t.vibration); err != nil && t.connected {
		t.log.Warn(fmt.Sprintf("input: set vibration on controller %d: %v", t.slot, err))
	}
}

// Vibration returns the command stored for the current frame.
func (t *Tracker) Vibration() Vibration {
	return t.vibration
}

// Connected reports whether the last Update reached the controller.
func (t *Tracker) Connected() bool {
	return t.connected
}

// Frame is the number of completed Updates.
func (t *Tracker) Frame() uint64 {
	return t.frame
}

// Snapshot copies the current sample.
func (t *Tracker) Snapshot() Snapshot {
	return Snapshot{
		Keys:      t.keyNow,
		Pad:       t.padNow,
		Vibration: t.vibration,
		Connected: t.connected,
	}
}
