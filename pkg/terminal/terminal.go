// Package terminal owns the process terminal: raw mode, size queries and a
// poll-with-timeout source of key and resize events.
package terminal

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"golang.org/x/term"

	"github.com/alantheprice/exoshell/pkg/input"
	"github.com/alantheprice/exoshell/pkg/utils"
)

// EscapeTimeout is how long a lone ESC waits for the rest of a sequence
// before it is reported as the Escape key.
const EscapeTimeout = 25 * time.Millisecond

// EventKind distinguishes key events from resize events.
type EventKind int

const (
	EventKey EventKind = iota + 1
	EventResize
)

// Event is one terminal event.
type Event struct {
	Kind EventKind
	Key  input.Event
	Cols int
	Rows int
}

// KeyEvent wraps a key event.
func KeyEvent(ev input.Event) Event {
	return Event{Kind: EventKey, Key: ev}
}

// ResizeEvent reports a new terminal size.
func ResizeEvent(cols, rows int) Event {
	return Event{Kind: EventResize, Cols: cols, Rows: rows}
}

// Terminal is what the console needs from a terminal.
type Terminal interface {
	io.Writer
	// Size returns the terminal width and height in cells.
	Size() (cols, rows int, err error)
	EnableRawMode() error
	DisableRawMode() error
	// Poll waits up to timeout for one event. It returns false if none arrived.
	Poll(timeout time.Duration) (Event, bool, error)
}

// source is the platform specific part of reading input.
type source interface {
	// wait blocks until input is readable, the terminal was resized or the
	// timeout passed.
	wait(timeout time.Duration) (readable, resized bool, err error)
	read(p []byte) (int, error)
	close()
}

// TTY is the Terminal backed by the process stdin and stdout.
type TTY struct {
	mu       sync.Mutex
	in       *os.File
	out      io.Writer
	outFd    int
	oldState *term.State
	rawMode  bool

	src          source
	pending      []byte
	pendingSince time.Time
	cols         int
	buf          []byte
	now          func() time.Time
}

// New opens the process terminal.
func New() (*TTY, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, utils.NewTerminalError("open terminal", fmt.Errorf("stdin is not a terminal"))
	}
	t := &TTY{
		in:    os.Stdin,
		out:   os.Stdout,
		outFd: int(os.Stdout.Fd()),
		buf:   make([]byte, 256),
		now:   time.Now,
	}
	t.src = newSource(os.Stdin)
	if cols, _, err := t.Size(); err == nil {
		t.cols = cols
	}
	return t, nil
}

// Size returns the current terminal size
func (t *TTY) Size() (int, int, error) {
	cols, rows, err := term.GetSize(t.outFd)
	if err != nil {
		// stdout may be redirected while stdin is still the terminal
		cols, rows, err = term.GetSize(int(t.in.Fd()))
	}
	if err != nil {
		return 0, 0, utils.NewTerminalError("get terminal size", err)
	}
	return cols, rows, nil
}

// EnableRawMode saves the current terminal state and enters raw mode
func (t *TTY) EnableRawMode() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.rawMode {
		return nil // Already in requested mode
	}
	oldState, err := term.MakeRaw(int(t.in.Fd()))
	if err != nil {
		return utils.NewTerminalError("enable raw mode", err)
	}
	t.oldState = oldState
	t.rawMode = true
	return nil
}

// DisableRawMode restores the state saved by EnableRawMode
func (t *TTY) DisableRawMode() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.rawMode || t.oldState == nil {
		return nil
	}
	if err := term.Restore(int(t.in.Fd()), t.oldState); err != nil {
		return utils.NewTerminalError("disable raw mode", err)
	}
	t.oldState = nil
	t.rawMode = false
	return nil
}

// IsRawMode returns true if terminal is in raw mode
func (t *TTY) IsRawMode() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.rawMode
}

// Write writes data to the terminal
func (t *TTY) Write(p []byte) (int, error) {
	return t.out.Write(p)
}

// Close stops resize notifications.
func (t *TTY) Close() error {
	t.src.close()
	return nil
}

// Poll waits up to timeout for a key or resize event. Bytes that only form
// part of a key sequence are kept for the next call; a lone ESC becomes the
// Escape key once EscapeTimeout has passed without more input.
func (t *TTY) Poll(timeout time.Duration) (Event, bool, error) {
	if ev, ok := t.next(false); ok {
		return ev, true, nil
	}

	deadline := t.now().Add(max(timeout, 0))
	for {
		wait := max(deadline.Sub(t.now()), 0)
		if len(t.pending) > 0 {
			escape := max(EscapeTimeout-t.now().Sub(t.pendingSince), 0)
			wait = min(wait, escape)
		}

		readable, resized, err := t.src.wait(wait)
		if err != nil {
			return Event{}, false, utils.NewTerminalError("poll", err)
		}

		if resized {
			cols, rows, err := t.Size()
			if err == nil && cols != t.cols {
				t.cols = cols
				return ResizeEvent(cols, rows), true, nil
			}
		}

		if readable {
			n, err := t.src.read(t.buf)
			if err != nil {
				return Event{}, false, utils.NewTerminalError("read", err)
			}
			if len(t.pending) == 0 {
				t.pendingSince = t.now()
			}
			t.pending = append(t.pending, t.buf[:n]...)
			if ev, ok := t.next(false); ok {
				return ev, true, nil
			}
			continue
		}

		if len(t.pending) > 0 && t.now().Sub(t.pendingSince) >= EscapeTimeout {
			if ev, ok := t.next(true); ok {
				return ev, true, nil
			}
		}
		if !t.now().Before(deadline) {
			return Event{}, false, nil
		}
	}
}

// next decodes one key event from the pending bytes.
func (t *TTY) next(final bool) (Event, bool) {
	for len(t.pending) > 0 {
		ev, n := input.Decode(t.pending, final)
		if n == 0 {
			return Event{}, false
		}
		t.pending = t.pending[n:]
		if len(t.pending) > 0 {
			t.pendingSince = t.now()
		}
		if ev.Key != input.KeyNone {
			return KeyEvent(ev), true
		}
	}
	return Event{}, false
}
