//go:build windows

package input

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"unsafe"

	"github.com/gonutz/w32/v3"
	"golang.org/x/sys/windows"

	"nakazima/padinput/internal/logger"
)

var (
	user32               = windows.NewLazySystemDLL("user32.dll")
	procGetAsyncKeyState = user32.NewProc("GetAsyncKeyState")
	procPostThreadMsg    = user32.NewProc("PostThreadMessageW")
)

// high-order bit of GetAsyncKeyState
const keyDownMask = 0x8000

// AsyncKeySource polls GetAsyncKeyState. It sees keys regardless of which
// window has focus.
type AsyncKeySource struct{}

func (AsyncKeySource) KeyDown(k Key) bool {
	if !k.Valid() {
		return false
	}
	state, _, _ := procGetAsyncKeyState.Call(uintptr(k))
	return state&keyDownMask != 0
}

// HookKeySource keeps a held-key table fed by a WH_KEYBOARD_LL hook. Start
// runs the hook and its message loop; KeyDown may be called from any
// goroutine.
type HookKeySource struct {
	Logger logger.LoggerInterface

	mu   sync.Mutex
	held KeyState
}

func (h *HookKeySource) KeyDown(k Key) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.held.Down(k)
}

func (h *HookKeySource) set(vk uint32, down bool) {
	k := Key(vk)
	if !k.Valid() {
		return
	}
	h.mu.Lock()
	h.held[k] = down
	h.mu.Unlock()
}

// Start installs the hook and pumps messages until ctx is canceled. ready is
// closed once the hook is installed or installation has failed.
func (h *HookKeySource) Start(ctx context.Context, ready chan<- error) {
	if h.Logger == nil {
		h.Logger = logger.Nop{}
	}
	// the hook callback is delivered to the installing thread's message loop
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	fail := func(err error) {
		h.Logger.Error(err.Error())
		if ready != nil {
			ready <- err
			close(ready)
		}
	}

	hInst, err := w32.GetModuleHandle(nil)
	if err != nil {
		fail(fmt.Errorf("keyboard hook: GetModuleHandle: %w", err))
		return
	}

	proc := w32.NewHookProcedure(func(code int32, wParam, lParam uintptr) uintptr {
		if code >= 0 { // HC_ACTION
			k := (*w32.KBDLLHOOKSTRUCT)(unsafe.Pointer(lParam)) // #nosec G103 safe Windows callback cast
			switch wParam {
			case w32.WM_KEYDOWN, w32.WM_SYSKEYDOWN:
				h.set(k.VkCode, true)
			case w32.WM_KEYUP, w32.WM_SYSKEYUP:
				h.set(k.VkCode, false)
			}
		}
		return w32.CallNextHookEx(0, code, wParam, lParam)
	})
	hook, err := w32.SetWindowsHookEx(w32.WH_KEYBOARD_LL, proc, hInst, 0)
	if err != nil {
		fail(fmt.Errorf("keyboard hook: SetWindowsHookEx: %w", err))
		return
	}
	if hook == 0 {
		fail(errors.New("keyboard hook: SetWindowsHookEx returned no handle"))
		return
	}
	defer w32.UnhookWindowsHookEx(hook)

	if ready != nil {
		close(ready)
	}
	h.Logger.Info("keyboard hook: installed")

	threadID := windows.GetCurrentThreadId()
	stop := context.AfterFunc(ctx, func() {
		// wake GetMessage on the hook thread
		procPostThreadMsg.Call(uintptr(threadID), uintptr(w32.WM_QUIT), 0, 0)
	})
	defer stop()

	var msg w32.MSG
	for {
		ret, err := w32.GetMessage(&msg, 0, 0, 0)
		if err != nil {
			h.Logger.Error(fmt.Errorf("keyboard hook: GetMessage: %w", err).Error())
			return
		}
		if !ret {
			h.Logger.Info("keyboard hook: stopped")
			return
		}
		w32.TranslateMessage(&msg)
		w32.DispatchMessage(&msg)
	}
}
