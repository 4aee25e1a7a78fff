//go:build !windows && !plan9 && !js && !wasip1

package pager

import (
	"os"
	"unsafe"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/sys/unix"
)

// startKeyReader decodes tty input on a goroutine until the returned stop
// function runs. A read failure is delivered as an error event.
func (t *TTY) startKeyReader() func() {
	if t.input == nil {
		return nil
	}
	cancelR, cancelW, err := os.Pipe()
	if err != nil {
		t.post(tcell.NewEventError(err))
		return nil
	}
	stop := func() {
		_, _ = cancelW.Write([]byte{1})
		_ = cancelW.Close()
	}

	go func() {
		defer func() {
			_ = cancelR.Close()
		}()
		inputFd := int(t.input.Fd())
		cancelFd := int(cancelR.Fd())
		for {
			if t.decoder.Buffered() == 0 {
				var readfds unix.FdSet
				fdSetAdd(&readfds, inputFd)
				fdSetAdd(&readfds, cancelFd)
				n, err := unix.Select(max(inputFd, cancelFd)+1, &readfds, nil, nil, nil)
				if err == unix.EINTR {
					continue
				}
				if err != nil {
					t.post(tcell.NewEventError(err))
					return
				}
				if n == 0 {
					continue
				}
				if fdSetHas(&readfds, cancelFd) {
					return
				}
				if !fdSetHas(&readfds, inputFd) {
					continue
				}
			}
			ev, err := t.decoder.ReadEvent()
			if err != nil {
				t.post(tcell.NewEventError(err))
				return
			}
			if ev != nil && !t.post(ev) {
				return
			}
		}
	}()

	return stop
}

func fdSetAdd(set *unix.FdSet, fd int) {
	if fd < 0 {
		return
	}
	bits := int(unsafe.Sizeof(set.Bits[0])) * 8
	set.Bits[fd/bits] |= 1 << (uint(fd) % uint(bits))
}

func fdSetHas(set *unix.FdSet, fd int) bool {
	if fd < 0 {
		return false
	}
	bits := int(unsafe.Sizeof(set.Bits[0])) * 8
	return set.Bits[fd/bits]&(1<<(uint(fd)%uint(bits))) != 0
}
