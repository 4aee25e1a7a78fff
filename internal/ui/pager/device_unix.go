//go:build !windows

package pager

import (
	"fmt"
	"os"
)

// openDevice opens the controlling terminal for both reading and drawing.
func openDevice() (in, out *os.File, err error) {
	tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("open terminal: %w", err)
	}
	return tty, tty, nil
}
