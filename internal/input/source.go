package input

import "errors"

// ErrNotConnected is returned by a PadSource when no controller occupies the
// requested slot.
var ErrNotConnected = errors.New("controller not connected")

// PadState is one sample of a controller.
type PadState struct {
	Buttons      Button
	ThumbLX      int16
	ThumbLY      int16
	LeftTrigger  uint8
	RightTrigger uint8
}

// Vibration is a motor speed command, 0 (off) to 65535 (full).
type Vibration struct {
	Left  uint16
	Right uint16
}

// KeySource reports whether a virtual key is currently held.
type KeySource interface {
	KeyDown(k Key) bool
}

// PadSource queries and drives a controller slot.
type PadSource interface {
	// PadState returns the state of the controller in slot. A controller that
	// is absent yields ErrNotConnected.
	PadState(slot uint32) (PadState, error)

	SetVibration(slot uint32, v Vibration) error
}

// NoPad is a PadSource with no controller attached.
type NoPad struct{}

func (NoPad) PadState(uint32) (PadState, error)    { return PadState{}, ErrNotConnected }
func (NoPad) SetVibration(uint32, Vibration) error { return ErrNotConnected }

// Poller is implemented by sources that must pump events once per frame
// before they are sampled. Implementations must be comparable.
type Poller interface {
	Poll()
}
