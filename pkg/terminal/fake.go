package terminal

import (
	"bytes"
	"time"

	"github.com/alantheprice/exoshell/pkg/input"
)

// Fake is an in-memory Terminal for tests. Events are returned by Poll in
// the order they were queued; output collects everything written.
type Fake struct {
	Cols int
	Rows int
	Out  bytes.Buffer

	RawMode bool

	// Errors returned by the matching methods when set.
	SizeErr    error
	RawErr     error
	RestoreErr error
	PollErr    error
	WriteErr   error

	events []Event
}

// NewFake creates a fake terminal of the given size.
func NewFake(cols, rows int) *Fake {
	return &Fake{Cols: cols, Rows: rows}
}

// Push queues events for Poll.
func (f *Fake) Push(events ...Event) {
	f.events = append(f.events, events...)
}

// Type queues the key events a terminal would produce for the given bytes.
func (f *Fake) Type(data string) {
	events, _ := input.DecodeAll([]byte(data), true)
	for _, ev := range events {
		f.Push(KeyEvent(ev))
	}
}

// Resize changes the size and queues a resize event.
func (f *Fake) Resize(cols, rows int) {
	f.Cols, f.Rows = cols, rows
	f.Push(ResizeEvent(cols, rows))
}

// Pending returns the number of queued events.
func (f *Fake) Pending() int {
	return len(f.events)
}

func (f *Fake) Size() (int, int, error) {
	if f.SizeErr != nil {
		return 0, 0, f.SizeErr
	}
	return f.Cols, f.Rows, nil
}

func (f *Fake) EnableRawMode() error {
	if f.RawErr != nil {
		return f.RawErr
	}
	f.RawMode = true
	return nil
}

func (f *Fake) DisableRawMode() error {
	if f.RestoreErr != nil {
		return f.RestoreErr
	}
	f.RawMode = false
	return nil
}

func (f *Fake) Poll(time.Duration) (Event, bool, error) {
	if f.PollErr != nil {
		return Event{}, false, f.PollErr
	}
	if len(f.events) == 0 {
		return Event{}, false, nil
	}
	ev := f.events[0]
	f.events = f.events[1:]
	return ev, true, nil
}

func (f *Fake) Write(p []byte) (int, error) {
	if f.WriteErr != nil {
		return 0, f.WriteErr
	}
	return f.Out.Write(p)
}
