package ntrans

import (
	"errors"
	"io"
	"syscall"
)

// isBrokenPipeErr walks err looking for the broken-pipe syscall error,
// matching spec.md §5/§7's rule: only a broken-pipe transport error flips
// a session's close-required flag, every other I/O error propagates
// unchanged.
func isBrokenPipeErr(err error) bool {
	if errors.Is(err, io.ErrClosedPipe) {
		return true
	}
	return errors.Is(err, syscall.EPIPE)
}
