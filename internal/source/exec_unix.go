//go:build !windows && !plan9 && !js && !wasip1

package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"

	"github.com/creack/pty"
)

// Command runs a program on a pseudo-terminal so that it keeps colouring
// its output, and exposes that output as a reader.
type Command struct {
	cmd  *exec.Cmd
	ptmx *os.File
}

// StartCommand launches name with args on a pty of the given size.
func StartCommand(ctx context.Context, name string, args []string, columns, rows int) (*Command, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = append(os.Environ(), "TERM=xterm-256color")
	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{
		Rows: uint16(max(rows, 1)),
		Cols: uint16(max(columns, 1)),
	})
	if err != nil {
		return nil, fmt.Errorf("start %s: %w", name, err)
	}
	return &Command{cmd: cmd, ptmx: ptmx}, nil
}

// Read returns io.EOF once the program has closed its side of the pty.
func (c *Command) Read(p []byte) (int, error) {
	n, err := c.ptmx.Read(p)
	if errors.Is(err, syscall.EIO) {
		err = io.EOF
	}
	return n, err
}

// Close hangs up the pty, which ends a program still writing to it.
func (c *Command) Close() error {
	return c.ptmx.Close()
}

// Wait releases the pty and reports how the program exited.
func (c *Command) Wait() error {
	err := c.cmd.Wait()
	_ = c.ptmx.Close()
	return err
}
