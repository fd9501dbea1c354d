//go:build windows

package input

import (
	"fmt"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	xinput             = windows.NewLazySystemDLL("xinput1_4.dll")
	procXInputGetState = xinput.NewProc("XInputGetState")
	procXInputSetState = xinput.NewProc("XInputSetState")
)

// XInputMaxControllers is the number of XInput user slots.
const XInputMaxControllers = 4

type xinputState struct {
	PacketNumber uint32
	Gamepad      xinputGamepad
}

type xinputGamepad struct {
	Buttons      uint16
	LeftTrigger  byte
	RightTrigger byte
	ThumbLX      int16
	ThumbLY      int16
	ThumbRX      int16
	ThumbRY      int16
}

type xinputVibration struct {
	LeftMotorSpeed  uint16
	RightMotorSpeed uint16
}

// XInputSource reads controllers through xinput1_4.dll.
type XInputSource struct{}

// NewXInputSource fails if xinput1_4.dll cannot be loaded.
func NewXInputSource() (*XInputSource, error) {
	if err := xinput.Load(); err != nil {
		return nil, fmt.Errorf("xinput: %w", err)
	}
	return &XInputSource{}, nil
}

// PadState calls XInputGetState for slot.
func (s *XInputSource) PadState(slot uint32) (PadState, error) {
	if slot >= XInputMaxControllers {
		return PadState{}, fmt.Errorf("xinput: slot %d: %w", slot, ErrNotConnected)
	}
	var state xinputState
	r, _, _ := procXInputGetState.Call(uintptr(slot), uintptr(unsafe.Pointer(&state))) // #nosec G103
	if err := xinputErr(r); err != nil {
		return PadState{}, err
	}
	return PadState{
		Buttons:      Button(state.Gamepad.Buttons),
		ThumbLX:      state.Gamepad.ThumbLX,
		ThumbLY:      state.Gamepad.ThumbLY,
		LeftTrigger:  state.Gamepad.LeftTrigger,
		RightTrigger: state.Gamepad.RightTrigger,
	}, nil
}

// SetVibration calls XInputSetState for slot.
func (s *XInputSource) SetVibration(slot uint32, v Vibration) error {
	if slot >= XInputMaxControllers {
		return fmt.Errorf("xinput: slot %d: %w", slot, ErrNotConnected)
	}
	vib := xinputVibration{LeftMotorSpeed: v.Left, RightMotorSpeed: v.Right}
	r, _, _ := procXInputSetState.Call(uintptr(slot), uintptr(unsafe.Pointer(&vib))) // #nosec G103
	return xinputErr(r)
}

func xinputErr(r uintptr) error {
	switch errno := syscall.Errno(r); errno {
	case 0:
		return nil
	case windows.ERROR_DEVICE_NOT_CONNECTED:
		return ErrNotConnected
	default:
		return fmt.Errorf("xinput: %w", errno)
	}
}
