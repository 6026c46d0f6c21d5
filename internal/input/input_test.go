package input

import (
	"bufio"
	"bytes"
	"reflect"
	"testing"
	"time"
)

func TestParseMovementKeys(t *testing.T) {
	tests := []struct {
		name                  string
		buf                   string
		up, down, left, right bool
	}{
		{"wasd up", "w", true, false, false, false},
		{"wasd down", "s", false, true, false, false},
		{"wasd left", "a", false, false, true, false},
		{"wasd right", "d", false, false, false, true},
		{"vim keys", "kjhl", true, true, true, true},
		{"upper case", "W", true, false, false, false},
		{"arrow up", "\x1b[A", true, false, false, false},
		{"arrow down", "\x1b[B", false, true, false, false},
		{"arrow right", "\x1b[C", false, false, false, true},
		{"arrow left", "\x1b[D", false, false, true, false},
		{"diagonal", "wd", true, false, false, true},
		{"nothing", "", false, false, false, false},
	}

	now := time.Now()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Stream
			in, rest := s.parse([]byte(tt.buf), now)
			if len(rest) != 0 {
				t.Fatalf("rest = %q, want empty", rest)
			}
			if in.Up != tt.up || in.Down != tt.down || in.Left != tt.left || in.Right != tt.right {
				t.Errorf("got up=%v down=%v left=%v right=%v, want %v %v %v %v",
					in.Up, in.Down, in.Left, in.Right, tt.up, tt.down, tt.left, tt.right)
			}
			if in.Pause || in.Quit {
				t.Errorf("movement should not pause or quit: %+v", in)
			}
		})
	}
}

func TestKeyHoldExpires(t *testing.T) {
	var s Stream
	start := time.Now()

	s.parse([]byte("w"), start)

	in, _ := s.parse(nil, start.Add(keyHoldDuration/2))
	if !in.Up {
		t.Error("key should still be held within the hold window")
	}

	in, _ = s.parse(nil, start.Add(keyHoldDuration))
	if in.Up {
		t.Error("key should be released after the hold window")
	}
}

func TestPauseAndQuitArePerFrame(t *testing.T) {
	tests := []struct {
		name  string
		buf   string
		pause bool
		quit  bool
	}{
		{"escape then key", "\x1bx", true, false},
		{"p", "p", true, false},
		{"q", "q", false, true},
		{"ctrl-c", "\x03", false, true},
		{"other", "x", false, false},
	}

	now := time.Now()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Stream
			in, _ := s.parse([]byte(tt.buf), now)
			if in.Pause != tt.pause || in.Quit != tt.quit {
				t.Errorf("pause=%v quit=%v, want %v %v", in.Pause, in.Quit, tt.pause, tt.quit)
			}

			// Nothing new arrived, so the toggle must not repeat.
			in, _ = s.parse(nil, now)
			if in.Pause || in.Quit {
				t.Errorf("second frame: pause=%v quit=%v, want false", in.Pause, in.Quit)
			}
		})
	}
}

func TestParseMouse(t *testing.T) {
	tests := []struct {
		name   string
		buf    string
		clicks []Click
	}{
		{"left press", "\x1b[<0;12;7M", []Click{{Col: 12, Row: 7}}},
		{"left release", "\x1b[<0;12;7m", nil},
		{"right press", "\x1b[<2;12;7M", nil},
		{"middle press", "\x1b[<1;12;7M", nil},
		{"motion with left held", "\x1b[<32;12;7M", nil},
		{"wheel", "\x1b[<64;12;7M", nil},
		{"two presses", "\x1b[<0;1;1M\x1b[<0;200;60M", []Click{{Col: 1, Row: 1}, {Col: 200, Row: 60}}},
		{"press and key", "\x1b[<0;3;4Mw", []Click{{Col: 3, Row: 4}}},
	}

	now := time.Now()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Stream
			in, rest := s.parse([]byte(tt.buf), now)
			if len(rest) != 0 {
				t.Fatalf("rest = %q, want empty", rest)
			}
			if !reflect.DeepEqual(in.Clicks, tt.clicks) {
				t.Errorf("clicks = %v, want %v", in.Clicks, tt.clicks)
			}
			if in.Pause {
				t.Error("mouse report must not be read as escape")
			}
		})
	}
}

func TestMouseReportIsNotMovement(t *testing.T) {
	var s Stream
	// Bytes inside the report are not keys.
	in, _ := s.parse([]byte("\x1b[<0;10;20M"), time.Now())
	if in.Up || in.Down || in.Left || in.Right {
		t.Errorf("mouse report produced movement: %+v", in)
	}
}

func TestIncompleteSequenceCarriesOver(t *testing.T) {
	var s Stream
	now := time.Now()

	in, rest := s.parse([]byte("w\x1b[<0;5"), now)
	if !in.Up {
		t.Error("bytes before the partial sequence should still apply")
	}
	if string(rest) != "\x1b[<0;5" {
		t.Fatalf("rest = %q", rest)
	}
	if in.Pause {
		t.Error("partial sequence must not pause")
	}

	buf := append(rest, []byte(";9M")...)
	in, rest = s.parse(buf, now)
	if len(rest) != 0 {
		t.Fatalf("rest = %q, want empty", rest)
	}
	if want := []Click{{Col: 5, Row: 9}}; !reflect.DeepEqual(in.Clicks, want) {
		t.Errorf("clicks = %v, want %v", in.Clicks, want)
	}
}

func TestLoneEscapeWaitsOneFrame(t *testing.T) {
	var s Stream
	now := time.Now()

	in, rest := s.parse([]byte("\x1b"), now)
	if in.Pause {
		t.Error("trailing escape should not pause before the next frame")
	}
	if string(rest) != "\x1b" {
		t.Fatalf("rest = %q, want the escape held back", rest)
	}

	// Nothing followed, so it was the escape key.
	in, rest = s.parse(rest, now)
	if !in.Pause {
		t.Error("held escape should pause on the next frame")
	}
	if len(rest) != 0 {
		t.Fatalf("rest = %q, want empty", rest)
	}

	in, _ = s.parse(nil, now)
	if in.Pause {
		t.Error("pause should not repeat")
	}
}

func TestEscapeSplitFromArrow(t *testing.T) {
	var s Stream
	now := time.Now()

	_, rest := s.parse([]byte("\x1b"), now)
	in, rest := s.parse(append(rest, "[A"...), now)
	if len(rest) != 0 {
		t.Fatalf("rest = %q, want empty", rest)
	}
	if !in.Up || in.Left {
		t.Errorf("up=%v left=%v, want an arrow up", in.Up, in.Left)
	}
	if in.Pause {
		t.Error("split arrow key must not pause")
	}
}

func TestOverlongSequenceIsDropped(t *testing.T) {
	var s Stream
	now := time.Now()

	buf := append([]byte("\x1b["), bytes.Repeat([]byte("1"), 1<<20)...)
	in, rest := s.parse(buf, now)
	if len(rest) != 0 {
		t.Fatalf("carried %d bytes, want none", len(rest))
	}
	if in.Pause || in.Up || in.Down || in.Left || in.Right {
		t.Errorf("dropped sequence produced input: %+v", in)
	}

	// At the limit the sequence is still carried.
	buf = append([]byte("\x1b[<"), bytes.Repeat([]byte("1"), maxPendingSequence-3)...)
	if _, rest = s.parse(buf, now); len(rest) != maxPendingSequence {
		t.Errorf("carried %d bytes, want %d", len(rest), maxPendingSequence)
	}

	in, _ = s.parse([]byte("w"), now)
	if !in.Up {
		t.Error("input after a dropped sequence should parse normally")
	}
}

func TestUnknownCSIIsSkipped(t *testing.T) {
	var s Stream
	// Focus-in report followed by a key.
	in, rest := s.parse([]byte("\x1b[Iq"), time.Now())
	if len(rest) != 0 {
		t.Fatalf("rest = %q, want empty", rest)
	}
	if !in.Quit {
		t.Error("byte after unknown sequence should be parsed")
	}
	if in.Pause {
		t.Error("unknown sequence must not pause")
	}

	// Malformed mouse report yields no click.
	in, _ = s.parse([]byte("\x1b[<0;x;1Md"), time.Now())
	if len(in.Clicks) != 0 {
		t.Errorf("malformed report produced clicks: %v", in.Clicks)
	}
}

func TestReadInputClosedStreamQuits(t *testing.T) {
	r := bufio.NewReader(bytes.NewReader([]byte("d")))
	s := StartStream(r)

	deadline := time.Now().Add(time.Second)
	var in Input
	for time.Now().Before(deadline) {
		in = ReadInput(s)
		if in.Quit {
			break
		}
		time.Sleep(time.Millisecond)
	}
	if !in.Quit {
		t.Fatal("closed stream should report quit")
	}
}
