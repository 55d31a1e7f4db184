//go:build windows
// +build windows

package terminal

import (
	"errors"
	"os"
	"time"

	"golang.org/x/term"
)

// sizeCheckInterval is how often the console size is compared while waiting,
// since Windows has no resize signal.
const sizeCheckInterval = 100 * time.Millisecond

type chunk struct {
	data []byte
	err  error
}

type windowsSource struct {
	file   *os.File
	chunks chan chunk
	stash  []byte
	err    error
	cols   int
	rows   int
}

func newSource(f *os.File) source {
	s := &windowsSource{file: f, chunks: make(chan chunk, 16)}
	s.cols, s.rows, _ = term.GetSize(int(os.Stdout.Fd()))
	go s.readLoop()
	return s
}

func (s *windowsSource) readLoop() {
	buf := make([]byte, 256)
	for {
		n, err := s.file.Read(buf)
		data := append([]byte(nil), buf[:n]...)
		s.chunks <- chunk{data: data, err: err}
		if err != nil {
			return
		}
	}
}

func (s *windowsSource) wait(timeout time.Duration) (bool, bool, error) {
	if len(s.stash) > 0 || s.err != nil {
		return true, false, nil
	}

	deadline := time.Now().Add(timeout)
	for {
		slice := min(max(time.Until(deadline), 0), sizeCheckInterval)
		timer := time.NewTimer(slice)
		select {
		case c := <-s.chunks:
			timer.Stop()
			s.stash = append(s.stash, c.data...)
			s.err = c.err
			return true, false, nil
		case <-timer.C:
		}

		if cols, rows, err := term.GetSize(int(os.Stdout.Fd())); err == nil && (cols != s.cols || rows != s.rows) {
			s.cols, s.rows = cols, rows
			return false, true, nil
		}
		if !time.Now().Before(deadline) {
			return false, false, nil
		}
	}
}

func (s *windowsSource) read(p []byte) (int, error) {
	if len(s.stash) == 0 {
		if s.err != nil {
			return 0, s.err
		}
		return 0, errors.New("end of input")
	}
	n := copy(p, s.stash)
	s.stash = s.stash[n:]
	return n, nil
}

func (s *windowsSource) close() {}
