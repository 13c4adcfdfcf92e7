// Package input turns a raw terminal byte stream into per-tick game commands.
package input

import (
	"io"
	"time"

	"github.com/tomz197/polyroids/internal/game"
	"github.com/tomz197/polyroids/internal/timer"
)

// Frame is the input for one tick.
type Frame struct {
	game.Input
	Quit bool
}

// held tracks the last time each held key was seen. Terminals only report
// key repeats, so a key counts as down for a short window after each one.
type held struct {
	left   time.Time
	right  time.Time
	thrust time.Time
}

// Stream delivers input bytes via a channel and tracks held keys.
type Stream struct {
	ch     chan byte
	hold   time.Duration
	clock  timer.Clock
	state  held
	closed bool
}

// StartStream spawns a goroutine that reads from r and sends bytes to the
// stream. A key stays held for hold after its last byte.
func StartStream(r io.ByteReader, hold time.Duration, clock timer.Clock) *Stream {
	s := &Stream{
		ch:    make(chan byte, 128),
		hold:  hold,
		clock: clock,
	}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// Closed reports whether the underlying reader has ended.
func (s *Stream) Closed() bool {
	return s.closed
}

// Read drains all available bytes without blocking and returns this tick's
// commands.
func (s *Stream) Read() Frame {
	var buf []byte
drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	f := s.parse(buf, s.clock.Now())
	if s.closed {
		f.Quit = true
	}
	return f
}

// parse applies one batch of bytes at time now.
func (s *Stream) parse(buf []byte, now time.Time) Frame {
	var f Frame
	for i := 0; i < len(buf); i++ {
		b := buf[i]

		// CSI sequence: ESC [ <code>
		if b == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			switch buf[i+2] {
			case 'A': // Up arrow
				s.state.thrust = now
			case 'C': // Right arrow
				s.state.right = now
			case 'D': // Left arrow
				s.state.left = now
			}
			i += 2
			continue
		}

		switch b {
		case 'q', 'Q', '\x03':
			f.Quit = true
		case 'a', 'A':
			s.state.left = now
		case 'd', 'D':
			s.state.right = now
		case 'w', 'W':
			s.state.thrust = now
		case ' ':
			f.Fire = true
		case 'i', 'I':
			f.ToggleInvincible = true
		case 'p', 'P':
			f.Restart = true
		}
	}

	f.Left = now.Sub(s.state.left) < s.hold
	f.Right = now.Sub(s.state.right) < s.hold
	f.Thrust = now.Sub(s.state.thrust) < s.hold
	return f
}
