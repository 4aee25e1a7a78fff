//go:build windows

package pager

import (
	"sync"
	"unsafe"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/sys/windows"
)

type inputRecord struct {
	EventType uint16
	_         uint16
	Event     [16]byte
}

type keyEventRecord struct {
	KeyDown         int32
	RepeatCount     uint16
	VirtualKeyCode  uint16
	VirtualScanCode uint16
	UnicodeChar     uint16
	ControlKeyState uint32
}

type mouseEventRecord struct {
	X, Y            int16
	ButtonState     uint32
	ControlKeyState uint32
	EventFlags      uint32
}

var procReadConsoleInput = windows.NewLazySystemDLL("kernel32.dll").NewProc("ReadConsoleInputW")

// startKeyReader reads console input records until the returned stop
// function runs.
func (t *TTY) startKeyReader() func() {
	if t.input == nil {
		return nil
	}
	handle := windows.Handle(t.input.Fd())

	// Raw mode turns on VT input; switch back to key records and ask for
	// window and wheel events.
	var origMode uint32
	if err := windows.GetConsoleMode(handle, &origMode); err != nil {
		t.post(tcell.NewEventError(err))
		return nil
	}
	mode := origMode &^ (windows.ENABLE_VIRTUAL_TERMINAL_INPUT | windows.ENABLE_QUICK_EDIT_MODE)
	mode |= windows.ENABLE_WINDOW_INPUT | windows.ENABLE_MOUSE_INPUT | windows.ENABLE_EXTENDED_FLAGS
	if err := windows.SetConsoleMode(handle, mode); err != nil {
		t.post(tcell.NewEventError(err))
		return nil
	}

	cancel, err := windows.CreateEvent(nil, 1, 0, nil)
	if err != nil {
		_ = windows.SetConsoleMode(handle, origMode)
		t.post(tcell.NewEventError(err))
		return nil
	}
	var once sync.Once
	stop := func() {
		once.Do(func() {
			_ = windows.SetConsoleMode(handle, origMode)
			_ = windows.SetEvent(cancel)
		})
	}

	go func() {
		defer windows.CloseHandle(cancel)
		waitHandles := []windows.Handle{cancel, handle}
		var records [16]inputRecord
		var keys consoleKeys
		for {
			wait, err := windows.WaitForMultipleObjects(waitHandles, false, windows.INFINITE)
			if err != nil {
				t.post(tcell.NewEventError(err))
				return
			}
			if wait == windows.WAIT_OBJECT_0 {
				return
			}

			var read uint32
			r1, _, e1 := procReadConsoleInput.Call(
				uintptr(handle),
				uintptr(unsafe.Pointer(&records[0])),
				uintptr(len(records)),
				uintptr(unsafe.Pointer(&read)),
			)
			if r1 == 0 {
				t.post(tcell.NewEventError(e1))
				return
			}

			for i := uint32(0); i < read; i++ {
				rec := &records[i]
				switch rec.EventType {
				case consoleKeyEvent:
					kr := (*keyEventRecord)(unsafe.Pointer(&rec.Event[0]))
					if kr.KeyDown == 0 {
						continue
					}
					ev, ok := keys.key(kr.VirtualKeyCode, kr.UnicodeChar, kr.ControlKeyState)
					if !ok {
						continue
					}
					for n := max(int(kr.RepeatCount), 1); n > 0; n-- {
						if !t.post(ev) {
							return
						}
					}
				case consoleMouseEvent:
					mr := (*mouseEventRecord)(unsafe.Pointer(&rec.Event[0]))
					if ev, ok := consoleWheel(mr.EventFlags, mr.ButtonState, mr.X, mr.Y); ok && !t.post(ev) {
						return
					}
				case consoleResizeEvent:
					t.postSize()
				}
			}
		}
	}()

	return stop
}
