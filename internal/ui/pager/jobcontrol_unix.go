//go:build !windows && !plan9 && !js && !wasip1

package pager

import (
	"os"
	"syscall"
)

// resizeSignals are the signals that announce a new window size.
func resizeSignals() []os.Signal {
	return []os.Signal{syscall.SIGWINCH}
}

// Suspend hands the terminal back to the shell, stops the process, and
// restores pager mode once the shell resumes it.
func (t *TTY) Suspend() error {
	t.leaveModes()
	// Stop only this process; signalling the group would also stop the
	// shell wrapper that launched us.
	if err := syscall.Kill(syscall.Getpid(), syscall.SIGTSTP); err != nil {
		return err
	}
	if err := t.enterModes(); err != nil {
		return err
	}
	go t.postSize()
	return nil
}
