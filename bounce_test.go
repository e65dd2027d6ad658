package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/wav"

	"git.disy.net/goetz/polysynth/synth"
)

func newBounceEngine(t *testing.T) *synth.Engine {
	t.Helper()
	e, err := synth.New(
		synth.WithSampleRate(8000),
		synth.WithChannels(2),
		synth.WithBufferFrames(64),
		synth.WithLogger(newLogger(io.Discard, false)),
	)
	if err != nil {
		t.Fatalf("error creating engine: %v", err)
	}
	return e
}

func TestBounceWritesScore(t *testing.T) {
	p := filepath.Join(t.TempDir(), "out.wav")
	score := BounceConfig{
		Seconds: 0.5,
		Notes:   []BounceNote{{Note: 69, Start: 0.01, Length: 0.2}},
	}
	if err := bounce(p, newBounceEngine(t), score); err != nil {
		t.Fatalf("error bouncing: %v", err)
	}

	f, err := os.Open(p)
	if err != nil {
		t.Fatalf("error opening: %v", err)
	}
	defer f.Close()
	d := wav.NewDecoder(f)
	if !d.IsValidFile() {
		t.Fatalf("not a valid wav file")
	}
	buf, err := d.FullPCMBuffer()
	if err != nil {
		t.Fatalf("error decoding: %v", err)
	}
	if buf.Format.SampleRate != 8000 || buf.Format.NumChannels != 2 {
		t.Fatalf("unexpected format: %+v", buf.Format)
	}
	if len(buf.Data) != 4000*2 {
		t.Fatalf("expected 8000 samples, got %d", len(buf.Data))
	}

	// the note starts at frame 80, inside the second block
	for i := 0; i < 80*2; i++ {
		if buf.Data[i] != 0 {
			t.Fatalf("sample %d before onset is %d", i, buf.Data[i])
		}
	}
	loud := 0
	for _, s := range buf.Data[80*2 : 1600*2] {
		if s != 0 {
			loud++
		}
	}
	if loud == 0 {
		t.Fatalf("expected sound while the note is held")
	}
	// released at 0.21s, release tail 0.1s
	for i := 3000 * 2; i < len(buf.Data); i++ {
		if buf.Data[i] != 0 {
			t.Fatalf("sample %d after the release tail is %d", i, buf.Data[i])
		}
	}
}

func TestBounceRejectsLength(t *testing.T) {
	p := filepath.Join(t.TempDir(), "out.wav")
	if err := bounce(p, newBounceEngine(t), BounceConfig{Seconds: 0}); err == nil {
		t.Fatalf("expected error for empty bounce")
	}
}

func TestScheduleOrdersReleasesFirst(t *testing.T) {
	score := BounceConfig{Notes: []BounceNote{
		{Note: 60, Start: 1, Length: 1},
		{Note: 60, Start: 0, Length: 1},
	}}
	got := score.schedule(10)
	want := []scoreEvent{
		{at: 10, on: true, note: 60},
		{at: 11, on: false, note: 60},
		{at: 11, on: true, note: 60},
		{at: 12, on: false, note: 60},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d events, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestFloat32ToInt16Clamps(t *testing.T) {
	for _, tc := range []struct {
		in   float32
		want int16
	}{
		{0, 0},
		{1, 32767},
		{-1, -32767},
		{2, 32767},
		{-3, -32767},
		{0.5, 16383},
	} {
		if got := float32ToInt16(tc.in); got != tc.want {
			t.Errorf("float32ToInt16(%v): expected %d, got %d", tc.in, tc.want, got)
		}
	}
}
