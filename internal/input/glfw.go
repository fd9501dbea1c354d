package input

import (
	"fmt"
	"math"

	"github.com/go-gl/glfw/v3.3/glfw"
)

var glfwKeys = map[Key]glfw.Key{
	KeyBack:    glfw.KeyBackspace,
	KeyTab:     glfw.KeyTab,
	KeyReturn:  glfw.KeyEnter,
	KeyPause:   glfw.KeyPause,
	KeyCapital: glfw.KeyCapsLock,
	KeyEscape:  glfw.KeyEscape,
	KeySpace:   glfw.KeySpace,
	KeyPrior:   glfw.KeyPageUp,
	KeyNext:    glfw.KeyPageDown,
	KeyEnd:     glfw.KeyEnd,
	KeyHome:    glfw.KeyHome,
	KeyLeft:    glfw.KeyLeft,
	KeyUp:      glfw.KeyUp,
	KeyRight:   glfw.KeyRight,
	KeyDown:    glfw.KeyDown,
	KeyInsert:  glfw.KeyInsert,
	KeyDelete:  glfw.KeyDelete,
}

// VK_SHIFT, VK_CONTROL and VK_MENU match either side.
var glfwModifierKeys = map[Key][2]glfw.Key{
	KeyShift:   {glfw.KeyLeftShift, glfw.KeyRightShift},
	KeyControl: {glfw.KeyLeftControl, glfw.KeyRightControl},
	KeyMenu:    {glfw.KeyLeftAlt, glfw.KeyRightAlt},
}

func init() {
	for i := Key(0); i < 26; i++ {
		glfwKeys[KeyA+i] = glfw.KeyA + glfw.Key(i)
	}
	for i := Key(0); i < 10; i++ {
		glfwKeys[Key0+i] = glfw.Key0 + glfw.Key(i)
	}
	for i := Key(0); i < 12; i++ {
		glfwKeys[KeyF1+i] = glfw.KeyF1 + glfw.Key(i)
	}
}

var glfwButtons = []struct {
	glfw   glfw.GamepadButton
	button Button
}{
	{glfw.ButtonA, ButtonA},
	{glfw.ButtonB, ButtonB},
	{glfw.ButtonX, ButtonX},
	{glfw.ButtonY, ButtonY},
	{glfw.ButtonLeftBumper, ButtonLeftShoulder},
	{glfw.ButtonRightBumper, ButtonRightShoulder},
	{glfw.ButtonBack, ButtonBack},
	{glfw.ButtonStart, ButtonStart},
	{glfw.ButtonLeftThumb, ButtonLeftThumb},
	{glfw.ButtonRightThumb, ButtonRightThumb},
	{glfw.ButtonDpadUp, ButtonDPadUp},
	{glfw.ButtonDpadRight, ButtonDPadRight},
	{glfw.ButtonDpadDown, ButtonDPadDown},
	{glfw.ButtonDpadLeft, ButtonDPadLeft},
}

// GLFWSource reads the keyboard through a GLFW window and controllers through
// the GLFW gamepad mappings. GLFW has no rumble API, so vibration commands are
// accepted and dropped.
//
// GLFW must be driven from the main OS thread: create the source and call
// Update on the tracker from the same locked thread.
type GLFWSource struct {
	window *glfw.Window
}

// NewGLFWSource initialises GLFW and opens a window to receive keyboard
// input. Keys are only seen while the window has focus.
func NewGLFWSource(title string, width, height int, visible bool) (*GLFWSource, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfw init: %w", err)
	}
	if !visible {
		glfw.WindowHint(glfw.Visible, glfw.False)
	}
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	window, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("glfw window: %w", err)
	}
	// a key released between two polls still reads as pressed once
	window.SetInputMode(glfw.StickyKeysMode, glfw.True)
	return &GLFWSource{window: window}, nil
}

// Poll processes pending window events.
func (s *GLFWSource) Poll() {
	glfw.PollEvents()
}

// Closed reports whether the user asked to close the window.
func (s *GLFWSource) Closed() bool {
	return s.window.ShouldClose()
}

// Close destroys the window and terminates GLFW.
func (s *GLFWSource) Close() {
	s.window.Destroy()
	glfw.Terminate()
}

func (s *GLFWSource) KeyDown(k Key) bool {
	if pair, ok := glfwModifierKeys[k]; ok {
		return s.window.GetKey(pair[0]) == glfw.Press || s.window.GetKey(pair[1]) == glfw.Press
	}
	gk, ok := glfwKeys[k]
	if !ok {
		return false
	}
	return s.window.GetKey(gk) == glfw.Press
}

func (s *GLFWSource) PadState(slot uint32) (PadState, error) {
	if slot > uint32(glfw.JoystickLast) {
		return PadState{}, fmt.Errorf("glfw: slot %d: %w", slot, ErrNotConnected)
	}
	joy := glfw.Joystick1 + glfw.Joystick(slot)
	if !joy.Present() || !joy.IsGamepad() {
		return PadState{}, ErrNotConnected
	}
	gs := joy.GetGamepadState()
	if gs == nil {
		return PadState{}, ErrNotConnected
	}

	var state PadState
	for _, b := range glfwButtons {
		if gs.Buttons[b.glfw] == glfw.Press {
			state.Buttons |= b.button
		}
	}
	state.ThumbLX = axisToThumb(gs.Axes[glfw.AxisLeftX])
	// GLFW reports down as positive
	state.ThumbLY = axisToThumb(-gs.Axes[glfw.AxisLeftY])
	state.LeftTrigger = axisToTrigger(gs.Axes[glfw.AxisLeftTrigger])
	state.RightTrigger = axisToTrigger(gs.Axes[glfw.AxisRightTrigger])
	return state, nil
}

func (s *GLFWSource) SetVibration(uint32, Vibration) error {
	return nil
}

// axisToThumb maps -1..1 onto the signed 16 bit thumbstick range.
func axisToThumb(v float32) int16 {
	switch {
	case v >= 1:
		return math.MaxInt16
	case v <= -1:
		return math.MinInt16
	}
	return int16(math.Round(float64(v) * thumbMax))
}

// axisToTrigger maps a GLFW trigger axis (-1 released, 1 fully pulled) onto
// 0..255.
func axisToTrigger(v float32) uint8 {
	switch {
	case v >= 1:
		return math.MaxUint8
	case v <= -1:
		return 0
	}
	return uint8(math.Round(float64(v+1) / 2 * math.MaxUint8))
}
