//go:build !windows
// +build !windows

package terminal

import (
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// pollSlice bounds each poll(2) call so a SIGWINCH delivered to another
// thread is still noticed promptly.
const pollSlice = 20 * time.Millisecond

type unixSource struct {
	file   *os.File
	fd     int
	winch  chan os.Signal
	closed bool
}

func newSource(f *os.File) source {
	s := &unixSource{
		file:  f,
		fd:    int(f.Fd()),
		winch: make(chan os.Signal, 1),
	}
	signal.Notify(s.winch, syscall.SIGWINCH)
	return s
}

func (s *unixSource) wait(timeout time.Duration) (bool, bool, error) {
	deadline := time.Now().Add(timeout)
	for {
		select {
		case <-s.winch:
			return false, true, nil
		default:
		}

		slice := min(max(time.Until(deadline), 0), pollSlice)
		ms := int((slice + time.Millisecond - 1) / time.Millisecond)

		fds := []unix.PollFd{{Fd: int32(s.fd), Events: unix.POLLIN}}
		n, err := unix.Poll(fds, ms)
		if err != nil && !errors.Is(err, unix.EINTR) {
			return false, false, err
		}
		if n > 0 {
			return true, false, nil
		}
		if !time.Now().Before(deadline) {
			return false, false, nil
		}
	}
}

func (s *unixSource) read(p []byte) (int, error) {
	for {
		n, err := unix.Read(s.fd, p)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil {
			return 0, err
		}
		if n == 0 {
			return 0, errors.New("end of input")
		}
		return n, nil
	}
}

func (s *unixSource) close() {
	if s.closed {
		return
	}
	s.closed = true
	signal.Stop(s.winch)
}
