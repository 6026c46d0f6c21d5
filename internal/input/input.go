// Package input turns raw terminal bytes into per-frame key and mouse state.
package input

import (
	"io"
	"strconv"
	"time"
)

// keyHoldDuration is how long a movement key is considered "held" after its last press.
// Terminals only report presses, so holding is inferred from auto-repeat.
const keyHoldDuration = 60 * time.Millisecond

// maxPendingSequence bounds a carried-over escape sequence. Real reports are far
// shorter; anything longer is dropped as garbage.
const maxPendingSequence = 32

// Click is a mouse press in 1-based terminal coordinates.
type Click struct {
	Col int
	Row int
}

// Input represents the current frame's input state.
type Input struct {
	Quit    bool
	Up      bool
	Down    bool
	Left    bool
	Right   bool
	Pause   bool    // Pause toggle pressed this frame
	Clicks  []Click // Left-button presses this frame, in order
	Pressed []byte  // Raw bytes received this frame
}

// keyState tracks the last time each movement key was pressed.
type keyState struct {
	up    time.Time
	down  time.Time
	left  time.Time
	right time.Time
}

// Stream delivers input bytes via a channel and tracks key state for combinations.
type Stream struct {
	ch      chan byte
	state   keyState
	pending []byte // Incomplete escape sequence carried to the next frame
	escHeld bool   // pending is a lone ESC already held back for one frame
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
// The goroutine exits when r returns an error.
func StartStream(r io.ByteReader) *Stream {
	s := &Stream{
		ch: make(chan byte, 256),
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

// ReadInput drains all available bytes from the stream (non-blocking).
// Handles escape sequences for arrow keys and SGR mouse reports.
func ReadInput(s *Stream) Input {
	buf := s.pending
	s.pending = nil
	closed := false

drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	in, rest := s.parse(buf, time.Now())
	s.pending = rest
	if closed {
		// The reader is gone (e.g. SSH session closed); nothing else will arrive.
		in.Quit = true
	}
	return in
}

// parse applies buf to the key state and returns the frame input plus any
// trailing incomplete escape sequence. Movement keys stay held for
// keyHoldDuration after their last byte; pause, quit and clicks only reflect
// bytes in buf. A lone ESC ending buf is held back one frame, since the
// rest of an arrow key may still be in flight.
func (s *Stream) parse(buf []byte, now time.Time) (Input, []byte) {
	in := Input{Pressed: buf}
	var rest []byte
	escHeld := s.escHeld
	s.escHeld = false

	for i := 0; i < len(buf); i++ {
		b := buf[i]

		if b == '\x1b' && i == len(buf)-1 && (i > 0 || !escHeld) {
			rest = append(rest, b)
			s.escHeld = true
			break
		}

		if b == '\x1b' && i+1 < len(buf) && buf[i+1] == '[' {
			n, click, complete := s.parseCSI(buf[i+2:], now)
			if !complete {
				if len(buf)-i <= maxPendingSequence {
					rest = append(rest, buf[i:]...)
				}
				break
			}
			if click != nil {
				in.Clicks = append(in.Clicks, *click)
			}
			i += 1 + n
			continue
		}

		s.applyByte(&in, b, now)
	}

	in.Up = now.Sub(s.state.up) < keyHoldDuration
	in.Down = now.Sub(s.state.down) < keyHoldDuration
	in.Left = now.Sub(s.state.left) < keyHoldDuration
	in.Right = now.Sub(s.state.right) < keyHoldDuration
	return in, rest
}

// parseCSI handles the bytes after "ESC [". It returns how many bytes were
// consumed, the click for a left-button SGR mouse press, and false when the
// sequence is cut off by the end of seq.
func (s *Stream) parseCSI(seq []byte, now time.Time) (int, *Click, bool) {
	if len(seq) == 0 {
		return 0, nil, false
	}

	switch seq[0] {
	case 'A':
		s.state.up = now
		return 1, nil, true
	case 'B':
		s.state.down = now
		return 1, nil, true
	case 'C':
		s.state.right = now
		return 1, nil, true
	case 'D':
		s.state.left = now
		return 1, nil, true
	case '<':
		if n, click, ok := parseSGRMouse(seq); ok {
			return n, click, true
		}
	}

	// Anything else: skip parameter bytes up to the final byte.
	for i, c := range seq {
		if c >= 0x40 && c <= 0x7e {
			return i + 1, nil, true
		}
	}
	return 0, nil, false
}

// parseSGRMouse parses "<button;col;row" followed by 'M' (press) or 'm' (release).
// ok is false for malformed or truncated reports.
func parseSGRMouse(seq []byte) (n int, click *Click, ok bool) {
	var fields [3]int
	field := 0
	start := 1
	for i := 1; i < len(seq); i++ {
		c := seq[i]
		switch {
		case c >= '0' && c <= '9':
			continue
		case c == ';' && field < 2:
			v, err := strconv.Atoi(string(seq[start:i]))
			if err != nil {
				return 0, nil, false
			}
			fields[field] = v
			field++
			start = i + 1
		case (c == 'M' || c == 'm') && field == 2:
			v, err := strconv.Atoi(string(seq[start:i]))
			if err != nil {
				return 0, nil, false
			}
			fields[2] = v

			// Low two bits select the button; bit 5 marks motion, bit 6 the wheel.
			button := fields[0]
			if c == 'M' && button&0b11 == 0 && button&0x60 == 0 {
				return i + 1, &Click{Col: fields[1], Row: fields[2]}, true
			}
			return i + 1, nil, true
		default:
			return 0, nil, false
		}
	}
	return 0, nil, false
}

// applyByte updates the frame input and key timestamps for a single byte.
func (s *Stream) applyByte(in *Input, b byte, now time.Time) {
	switch b {
	case 'q', 'Q', '\x03':
		in.Quit = true
	case 'w', 'W', 'k', 'K':
		s.state.up = now
	case 's', 'S', 'j', 'J':
		s.state.down = now
	case 'a', 'A', 'h', 'H':
		s.state.left = now
	case 'd', 'D', 'l', 'L':
		s.state.right = now
	case '\x1b', 'p', 'P':
		in.Pause = true
	}
}
