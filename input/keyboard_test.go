package input

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"
	"time"
)

func TestKeyboardPressAndReleaseOnEOF(t *testing.T) {
	t.Parallel()

	s := &fakeSynth{}
	kb := NewKeyboard(NewRouter(s, 0, quiet), &fakeController{}, DefaultKeyMap(), time.Hour, quiet)

	if err := kb.Run(context.Background(), strings.NewReader("zqq")); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	got := s.Events()
	if len(got) != 4 || got[0] != "on 48" || got[1] != "on 60" {
		t.Fatalf("events = %v, want two presses then two releases", got)
	}
	releases := map[string]bool{got[2]: true, got[3]: true}
	if !releases["off 48"] || !releases["off 60"] {
		t.Fatalf("releases = %v, want off 48 and off 60", got[2:])
	}
}

func TestKeyboardGateExpires(t *testing.T) {
	t.Parallel()

	s := &fakeSynth{}
	kb := NewKeyboard(NewRouter(s, 0, quiet), &fakeController{}, DefaultKeyMap(), 10*time.Millisecond, quiet)
	kb.press('y', 69)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if ev := s.Events(); len(ev) == 2 {
			if ev[1] != "off 69" {
				t.Fatalf("events = %v", ev)
			}
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("gate never expired: %v", s.Events())
}

func TestKeyboardControls(t *testing.T) {
	t.Parallel()

	s := &fakeSynth{}
	ctl := &fakeController{}
	r := NewRouter(s, 0, quiet)
	kb := NewKeyboard(r, ctl, DefaultKeyMap(), time.Hour, quiet)

	if err := kb.Run(context.Background(), strings.NewReader("WUGKJBNMCOAZ>>< ")); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := []string{
		"waveform", "unison", "goofy", "detune +0.0001", "detune -0.0001",
		"bitcrush", "bits +0.1", "bits -0.1", "compressor", "octave",
		"volume +0.1", "volume -0.1",
	}
	if !equalEvents(ctl.calls, want) {
		t.Fatalf("calls = %v, want %v", ctl.calls, want)
	}
	if got := r.Transposition(); got != 12 {
		t.Fatalf("Transposition() = %d, want 12", got)
	}
	if ev := s.Events(); len(ev) != 1 || ev[0] != "panic" {
		t.Fatalf("events = %v, want a single panic", ev)
	}
}

func TestKeyboardQuit(t *testing.T) {
	t.Parallel()

	s := &fakeSynth{}
	kb := NewKeyboard(NewRouter(s, 0, quiet), &fakeController{}, DefaultKeyMap(), time.Hour, quiet)

	err := kb.Run(context.Background(), strings.NewReader("e\x03r"))
	if !errors.Is(err, ErrQuit) {
		t.Fatalf("Run() error = %v, want ErrQuit", err)
	}
	want := []string{"on 64", "off 64"}
	if got := s.Events(); !equalEvents(got, want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
}

func TestKeyboardReadError(t *testing.T) {
	t.Parallel()

	kb := NewKeyboard(NewRouter(&fakeSynth{}, 0, quiet), &fakeController{}, DefaultKeyMap(), time.Hour, quiet)
	boom := errors.New("boom")
	if err := kb.Run(context.Background(), iotest.ErrReader(boom)); !errors.Is(err, boom) {
		t.Fatalf("Run() error = %v, want wrapped boom", err)
	}
}

func TestKeyboardContextCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	kb := NewKeyboard(NewRouter(&fakeSynth{}, 0, quiet), &fakeController{}, DefaultKeyMap(), time.Hour, quiet)
	pr, pw := io.Pipe()
	defer pw.Close()
	if err := kb.Run(ctx, pr); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
}

func TestScanKeysStopsWhenDone(t *testing.T) {
	t.Parallel()

	keys := make(chan byte)
	errs := make(chan error, 1)
	done := make(chan struct{})
	close(done)

	stopped := make(chan struct{})
	go func() {
		scanKeys(strings.NewReader("zxc"), keys, errs, done)
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatalf("scanKeys still blocked on an unread key after done")
	}
}

func TestDefaultKeyMapDisjoint(t *testing.T) {
	t.Parallel()

	km := DefaultKeyMap()
	for b := range km.Actions {
		if _, ok := km.Notes[b]; ok {
			t.Fatalf("key %q is both a note and an action", b)
		}
	}
	if km.Notes['z'] != 48 || km.Notes['q'] != 60 || km.Notes[']'] != 79 {
		t.Fatal("piano rows moved")
	}
}
