//go:build windows

package wakeup

import (
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"syscall"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"
)

// New returns the native clipboard-format listener. If any registration step
// fails the source reports a terminal error on Err() and the owner falls back
// to polling.
func New(pollInterval time.Duration) Source {
	return newListener()
}

const (
	wmClipboardUpdate = 0x031D
	wmClose           = 0x0010
	wmDestroy         = 0x0002
)

// hwndMessage is the HWND_MESSAGE pseudo-parent for message-only windows.
var hwndMessage = ^uintptr(2) // (HWND)-3

var (
	user32 = windows.NewLazySystemDLL("user32.dll")

	procRegisterClassExW              = user32.NewProc("RegisterClassExW")
	procCreateWindowExW               = user32.NewProc("CreateWindowExW")
	procDestroyWindow                 = user32.NewProc("DestroyWindow")
	procDefWindowProcW                = user32.NewProc("DefWindowProcW")
	procPostQuitMessage               = user32.NewProc("PostQuitMessage")
	procPostMessageW                  = user32.NewProc("PostMessageW")
	procGetMessageW                   = user32.NewProc("GetMessageW")
	procTranslateMessage              = user32.NewProc("TranslateMessage")
	procDispatchMessageW              = user32.NewProc("DispatchMessageW")
	procAddClipboardFormatListener    = user32.NewProc("AddClipboardFormatListener")
	procRemoveClipboardFormatListener = user32.NewProc("RemoveClipboardFormatListener")
)

type wndClassEx struct {
	Size       uint32
	Style      uint32
	WndProc    uintptr
	ClsExtra   int32
	WndExtra   int32
	Instance   windows.Handle
	Icon       windows.Handle
	Cursor     windows.Handle
	Background windows.Handle
	MenuName   *uint16
	ClassName  *uint16
	IconSm     windows.Handle
}

type winMsg struct {
	HWND    uintptr
	Message uint32
	WParam  uintptr
	LParam  uintptr
	Time    uint32
	Pt      struct{ X, Y int32 }
}

// listenerSource owns a hidden message-only window registered with
// AddClipboardFormatListener and pumps its message loop on a dedicated,
// locked OS thread. WM_CLIPBOARDUPDATE becomes a wake-up signal.
type listenerSource struct {
	wakeCh chan struct{}
	errCh  chan error
	wg     sync.WaitGroup

	mu     sync.Mutex
	hwnd   uintptr
	closed bool
}

func newListener() *listenerSource {
	s := &listenerSource{
		wakeCh: make(chan struct{}, 1),
		errCh:  make(chan error, 1),
	}
	s.wg.Add(1)
	go s.run()
	return s
}

func (s *listenerSource) Name() string { return "clipboard-format listener" }

func (s *listenerSource) run() {
	defer s.wg.Done()
	// The window and its message queue belong to this thread for the
	// lifetime of the loop.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := s.pump(); err != nil && !s.isClosed() {
		slog.Warn("clipboard listener failed", "err", err)
		s.errCh <- err
	}
}

func (s *listenerSource) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *listenerSource) pump() error {
	inst, err := windows.GetModuleHandle(nil)
	if err != nil {
		return fmt.Errorf("module handle: %w", err)
	}

	wndProc := syscall.NewCallback(func(hwnd, m, wparam, lparam uintptr) uintptr {
		switch m {
		case wmClipboardUpdate:
			signal(s.wakeCh)
			return 0
		case wmDestroy:
			procRemoveClipboardFormatListener.Call(hwnd)
			procPostQuitMessage.Call(0)
			return 0
		}
		ret, _, _ := procDefWindowProcW.Call(hwnd, m, wparam, lparam)
		return ret
	})

	className := windows.StringToUTF16Ptr("ClipboardQRWakeup")
	wc := wndClassEx{
		Size:      uint32(unsafe.Sizeof(wndClassEx{})),
		WndProc:   wndProc,
		Instance:  inst,
		ClassName: className,
	}
	if atom, _, callErr := procRegisterClassExW.Call(uintptr(unsafe.Pointer(&wc))); atom == 0 {
		return fmt.Errorf("registering window class: %w", callErr)
	}

	hwnd, _, callErr := procCreateWindowExW.Call(
		0, uintptr(unsafe.Pointer(className)), 0, 0,
		0, 0, 0, 0, hwndMessage, 0, uintptr(inst), 0)
	if hwnd == 0 {
		return fmt.Errorf("creating listener window: %w", callErr)
	}

	if ok, _, callErr := procAddClipboardFormatListener.Call(hwnd); ok == 0 {
		return fmt.Errorf("registering clipboard listener: %w", callErr)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		procRemoveClipboardFormatListener.Call(hwnd)
		procDestroyWindow.Call(hwnd)
		return nil
	}
	s.hwnd = hwnd
	s.mu.Unlock()

	slog.Debug("clipboard format listener registered")
	var m winMsg
	for {
		ret, _, _ := procGetMessageW.Call(uintptr(unsafe.Pointer(&m)), hwnd, 0, 0)
		switch int32(ret) {
		case 0: // WM_QUIT
			return nil
		case -1:
			return fmt.Errorf("message loop error")
		}
		procTranslateMessage.Call(uintptr(unsafe.Pointer(&m)))
		procDispatchMessageW.Call(uintptr(unsafe.Pointer(&m)))
	}
}

func (s *listenerSource) Wake() <-chan struct{} { return s.wakeCh }
func (s *listenerSource) Err() <-chan error     { return s.errCh }

// Close posts WM_CLOSE into the window's own message loop, the only way to
// unblock a thread sitting in GetMessage, and joins the pump thread.
func (s *listenerSource) Close() {
	s.mu.Lock()
	s.closed = true
	hwnd := s.hwnd
	s.mu.Unlock()
	if hwnd != 0 {
		procPostMessageW.Call(hwnd, wmClose, 0, 0)
	}
	s.wg.Wait()
}
