//go:build windows || plan9 || js || wasip1

package source

import (
	"context"
	"errors"
)

type Command struct{}

func StartCommand(context.Context, string, []string, int, int) (*Command, error) {
	return nil, errors.ErrUnsupported
}

func (*Command) Read([]byte) (int, error) { return 0, errors.ErrUnsupported }

func (*Command) Close() error { return nil }

func (*Command) Wait() error { return errors.ErrUnsupported }
