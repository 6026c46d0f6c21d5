package loop

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/tomz197/orbshot/internal/config"
	"github.com/tomz197/orbshot/internal/game"
	"github.com/tomz197/orbshot/internal/input"
)

func fixedSize(w, h int) func() (int, int, error) {
	return func() (int, int, error) { return w, h, nil }
}

func testOptions() Options {
	return Options{
		Config:       config.Default(),
		TermSizeFunc: fixedSize(80, 24),
		Rand:         rand.New(rand.NewSource(1)),
	}
}

// idleReader never yields a byte until the test ends.
func idleReader(t *testing.T) io.ByteReader {
	pr, pw := io.Pipe()
	t.Cleanup(func() { pw.Close() })
	return bufio.NewReader(pr)
}

func TestClampTermSize(t *testing.T) {
	tests := []struct {
		name                   string
		w, h                   int
		rw, rh, offCol, offRow int
	}{
		{"fits", 80, 24, 80, 24, 0, 0},
		{"exact max", config.MaxTermWidth, config.MaxTermHeight, config.MaxTermWidth, config.MaxTermHeight, 0, 0},
		{"too wide", 250, 24, 200, 24, 25, 0},
		{"too tall", 80, 70, 80, 60, 0, 5},
		{"odd excess", 201, 61, 200, 60, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rw, rh, oc, or := clampTermSize(tt.w, tt.h)
			if rw != tt.rw || rh != tt.rh || oc != tt.offCol || or != tt.offRow {
				t.Errorf("clampTermSize(%d, %d) = %d, %d, %d, %d; want %d, %d, %d, %d",
					tt.w, tt.h, rw, rh, oc, or, tt.rw, tt.rh, tt.offCol, tt.offRow)
			}
		})
	}
}

func TestRunQuits(t *testing.T) {
	var out bytes.Buffer
	r := bufio.NewReader(strings.NewReader("q"))

	done := make(chan error, 1)
	go func() { done <- Run(context.Background(), r, &out, testOptions()) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after quit")
	}

	s := out.String()
	if !strings.HasPrefix(s, "\033[?25l\033[?1000h\033[?1006h") {
		t.Errorf("output should start by hiding the cursor and enabling the mouse, got %q", s[:min(len(s), 40)])
	}
	if !strings.HasSuffix(s, "\033[?1006l\033[?1000l\033[?25h") {
		t.Error("output should end by disabling the mouse and showing the cursor")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	done := make(chan error, 1)
	go func() { done <- Run(ctx, idleReader(t), &out, testOptions()) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRunDisconnectsIdleSession(t *testing.T) {
	opts := testOptions()
	opts.WarnAfter = time.Nanosecond
	opts.DisconnectAfter = time.Nanosecond

	var out bytes.Buffer
	c := NewClient(idleReader(t), &out, opts)

	done := make(chan error, 1)
	go func() { done <- c.Run(context.Background()) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("idle session was not dropped")
	}
	if c.Game().Done() {
		t.Error("idle disconnect should not end the game through quit")
	}
}

func TestCheckActivity(t *testing.T) {
	c := &Client{
		warnAfter:       90 * time.Second,
		disconnectAfter: 120 * time.Second,
	}
	start := time.Now()
	c.lastInput = start

	if c.checkActivity(false, start.Add(60*time.Second)) || c.isInactive {
		t.Fatal("60s idle should be fine")
	}
	if c.checkActivity(false, start.Add(91*time.Second)) {
		t.Fatal("91s idle should warn, not disconnect")
	}
	if !c.isInactive {
		t.Fatal("91s idle should show the warning")
	}
	if c.checkActivity(true, start.Add(100*time.Second)) || c.isInactive {
		t.Fatal("input should clear the warning")
	}
	if !c.checkActivity(false, start.Add(221*time.Second)) {
		t.Fatal("121s since last input should disconnect")
	}
}

func TestCheckActivityDisabled(t *testing.T) {
	c := &Client{lastInput: time.Now()}
	if c.checkActivity(false, time.Now().Add(24*time.Hour)) || c.isInactive {
		t.Error("zero limits should never warn or disconnect")
	}
}

func TestGameInputMapsClicks(t *testing.T) {
	opts := testOptions()
	opts.TermSizeFunc = fixedSize(250, 60) // 200x60 render area, 25 columns of offset
	c := NewClient(idleReader(t), io.Discard, opts)

	raw := input.Input{
		Up:    true,
		Right: true,
		Pause: true,
		Clicks: []input.Click{
			{Col: 125, Row: 30},
			{Col: 10, Row: 30}, // In the left margin
		},
	}
	in := c.gameInput(raw)

	if !in.Keys.Up || !in.Keys.Right || in.Keys.Down || in.Keys.Left {
		t.Errorf("keys = %+v", in.Keys)
	}
	if !in.Pause || in.Quit {
		t.Errorf("pause=%v quit=%v", in.Pause, in.Quit)
	}
	if len(in.Clicks) != 1 {
		t.Fatalf("got %d clicks, want 1", len(in.Clicks))
	}
	// Column 100 of the render area, row 30: cell centers in field units.
	if got := in.Clicks[0]; !near(got.X, 636.8) || !near(got.Y, 354) {
		t.Errorf("click = %v, want (636.8, 354)", got)
	}
}

func TestDrawFramePlaying(t *testing.T) {
	var out bytes.Buffer
	c := NewClient(idleReader(t), &out, testOptions())

	if err := c.drawFrame(); err != nil {
		t.Fatal(err)
	}
	s := out.String()
	if !strings.Contains(s, "Enemies Killed: 0") {
		t.Error("HUD missing")
	}
	if !strings.Contains(s, "\033[38;2;0;255;0m") {
		t.Error("player color missing")
	}
	if !strings.Contains(s, "\033[38;2;255;0;0m") {
		t.Error("enemy color missing")
	}
}

func TestDrawFramePaused(t *testing.T) {
	var out bytes.Buffer
	c := NewClient(idleReader(t), &out, testOptions())
	c.Game().Step(game.Input{Pause: true}, 0)

	if err := c.drawFrame(); err != nil {
		t.Fatal(err)
	}
	s := out.String()
	for _, want := range []string{game.PausedText, controlsHint} {
		if !strings.Contains(s, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Contains(s, "Enemies Killed") {
		t.Error("HUD should be hidden while paused")
	}
	if strings.Contains(s, "\033[38;2;0;255;0m") {
		t.Error("circles should be hidden while paused")
	}
}

func TestDrawFrameInactivityWarning(t *testing.T) {
	var out bytes.Buffer
	c := NewClient(idleReader(t), &out, testOptions())
	c.disconnectAfter = time.Minute
	c.isInactive = true

	if err := c.drawFrame(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "INACTIVITY WARNING") {
		t.Error("warning missing")
	}
}

func near(a, b float64) bool {
	d := a - b
	return d < 1e-6 && d > -1e-6
}
