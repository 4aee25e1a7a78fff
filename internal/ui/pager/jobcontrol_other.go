//go:build windows || plan9 || js || wasip1

package pager

import "os"

func resizeSignals() []os.Signal { return nil }

// Suspend is a no-op where job control signals are unavailable.
func (t *TTY) Suspend() error {
	return nil
}
