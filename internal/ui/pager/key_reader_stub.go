//go:build plan9 || js || wasip1

package pager

import (
	"errors"

	"github.com/gdamore/tcell/v2"
)

// startKeyReader reports that interactive input is unavailable here.
func (t *TTY) startKeyReader() func() {
	go t.post(tcell.NewEventError(errors.New("interactive input is not supported on this platform")))
	return nil
}
