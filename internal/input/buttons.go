package input

import (
	"fmt"
	"strings"
)

// Button is a bitmask of controller buttons using the XInput bit layout.
type Button uint16

const (
	ButtonDPadUp        Button = 0x0001
	ButtonDPadDown      Button = 0x0002
	ButtonDPadLeft      Button = 0x0004
	ButtonDPadRight     Button = 0x0008
	ButtonStart         Button = 0x0010
	ButtonBack          Button = 0x0020
	ButtonLeftThumb     Button = 0x0040
	ButtonRightThumb    Button = 0x0080
	ButtonLeftShoulder  Button = 0x0100
	ButtonRightShoulder Button = 0x0200
	ButtonA             Button = 0x1000
	ButtonB             Button = 0x2000
	ButtonX             Button = 0x4000
	ButtonY             Button = 0x8000
)

// buttonNames lists every named button in bit order.
var buttonNames = []struct {
	button Button
	name   string
}{
	{ButtonDPadUp, "DpadUp"},
	{ButtonDPadDown, "DpadDown"},
	{ButtonDPadLeft, "DpadLeft"},
	{ButtonDPadRight, "DpadRight"},
	{ButtonStart, "Start"},
	{ButtonBack, "Back"},
	{ButtonLeftThumb, "LeftStick"},
	{ButtonRightThumb, "RightStick"},
	{ButtonLeftShoulder, "LeftBumper"},
	{ButtonRightShoulder, "RightBumper"},
	{ButtonA, "A"},
	{ButtonB, "B"},
	{ButtonX, "X"},
	{ButtonY, "Y"},
}

// String joins the names of all set bits with "|".
func (b Button) String() string {
	if b == 0 {
		return "None"
	}
	var parts []string
	rest := b
	for _, n := range buttonNames {
		if b&n.button != 0 {
			parts = append(parts, n.name)
			rest &^= n.button
		}
	}
	if rest != 0 {
		parts = append(parts, fmt.Sprintf("0x%04X", uint16(rest)))
	}
	return strings.Join(parts, "|")
}

// ParseButton resolves a single button name as produced by String.
func ParseButton(s string) (Button, error) {
	for _, n := range buttonNames {
		if strings.EqualFold(n.name, s) {
			return n.button, nil
		}
	}
	return 0, fmt.Errorf("input: unknown button %q", s)
}
