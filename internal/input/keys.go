package input

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// KeyCount is the size of the virtual key domain. Valid keys are 0..KeyCount-1.
const KeyCount = 256

// ErrKeyOutOfRange is returned when a key lies outside the virtual key domain.
var ErrKeyOutOfRange = errors.New("key out of range")

// Key is a Windows virtual key code.
type Key int

// Virtual key codes used by the demo and the portable backend.
const (
	KeyBack    Key = 0x08
	KeyTab     Key = 0x09
	KeyReturn  Key = 0x0D
	KeyShift   Key = 0x10
	KeyControl Key = 0x11
	KeyMenu    Key = 0x12 // Alt
	KeyPause   Key = 0x13
	KeyCapital Key = 0x14
	KeyEscape  Key = 0x1B
	KeySpace   Key = 0x20
	KeyPrior   Key = 0x21 // PageUp
	KeyNext    Key = 0x22 // PageDown
	KeyEnd     Key = 0x23
	KeyHome    Key = 0x24
	KeyLeft    Key = 0x25
	KeyUp      Key = 0x26
	KeyRight   Key = 0x27
	KeyDown    Key = 0x28
	KeyInsert  Key = 0x2D
	KeyDelete  Key = 0x2E

	Key0 Key = 0x30
	Key9 Key = 0x39

	KeyA Key = 0x41
	KeyD Key = 0x44
	KeyS Key = 0x53
	KeyW Key = 0x57
	KeyZ Key = 0x5A

	KeyF1  Key = 0x70
	KeyF12 Key = 0x7B
)

var keyNames = map[Key]string{
	KeyBack:    "VK_BACK",
	KeyTab:     "VK_TAB",
	KeyReturn:  "VK_RETURN",
	KeyShift:   "VK_SHIFT",
	KeyControl: "VK_CONTROL",
	KeyMenu:    "VK_MENU",
	KeyPause:   "VK_PAUSE",
	KeyCapital: "VK_CAPITAL",
	KeyEscape:  "VK_ESCAPE",
	KeySpace:   "VK_SPACE",
	KeyPrior:   "VK_PRIOR",
	KeyNext:    "VK_NEXT",
	KeyEnd:     "VK_END",
	KeyHome:    "VK_HOME",
	KeyLeft:    "VK_LEFT",
	KeyUp:      "VK_UP",
	KeyRight:   "VK_RIGHT",
	KeyDown:    "VK_DOWN",
	KeyInsert:  "VK_INSERT",
	KeyDelete:  "VK_DELETE",
}

// Valid reports whether k lies inside the virtual key domain.
func (k Key) Valid() bool {
	return k >= 0 && k < KeyCount
}

// Validate returns an error wrapping ErrKeyOutOfRange for keys outside the domain.
func (k Key) Validate() error {
	if !k.Valid() {
		return fmt.Errorf("input: key %d: %w", int(k), ErrKeyOutOfRange)
	}
	return nil
}

func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	switch {
	case k >= KeyA && k <= KeyZ:
		return "VK_" + string(rune(k-KeyA+'A'))
	case k >= Key0 && k <= Key9:
		return "VK_" + string(rune(k-Key0+'0'))
	case k >= KeyF1 && k <= KeyF12:
		return fmt.Sprintf("VK_F%d", k-KeyF1+1)
	}
	return fmt.Sprintf("0x%02X", int(k))
}

// ParseKey resolves a key name as written in config files. It accepts the
// VK_ names produced by Key.String, bare letters and digits ("A", "7"), and
// hex codes ("0x41").
func ParseKey(s string) (Key, error) {
	for k := Key(0); k < KeyCount; k++ {
		if k.String() == s {
			return k, nil
		}
	}
	if len(s) == 1 {
		switch c := s[0]; {
		case c >= 'A' && c <= 'Z':
			return KeyA + Key(c-'A'), nil
		case c >= 'a' && c <= 'z':
			return KeyA + Key(c-'a'), nil
		case c >= '0' && c <= '9':
			return Key0 + Key(c-'0'), nil
		}
	}
	if hex, ok := strings.CutPrefix(s, "0x"); ok {
		code, err := strconv.ParseUint(hex, 16, 16)
		if err != nil {
			return 0, fmt.Errorf("input: key %q: %w", s, err)
		}
		k := Key(code)
		if err := k.Validate(); err != nil {
			return 0, err
		}
		return k, nil
	}
	return 0, fmt.Errorf("input: unknown key %q", s)
}

// KeyState is one sample of the whole key domain.
type KeyState [KeyCount]bool

// Down reports whether k was held in this sample. Keys outside the domain are
// never held.
func (s *KeyState) Down(k Key) bool {
	if !k.Valid() {
		return false
	}
	return s[k]
}
