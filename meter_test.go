package main

import (
	"bytes"
	"strings"
	"testing"

	"git.disy.net/goetz/polysynth/synth"
)

type fakeMetrics struct {
	m       synth.RenderMetrics
	dropped uint64
}

func (f *fakeMetrics) Metrics() synth.RenderMetrics { return f.m }
func (f *fakeMetrics) Dropped() uint64              { return f.dropped }

func TestMeterWarnsOnOnset(t *testing.T) {
	var out bytes.Buffer
	src := &fakeMetrics{}
	m := newMeter(src, newLogger(&out, false))

	if m.poll() {
		t.Fatalf("unexpected warning on silence")
	}

	src.m.Clipped = true
	src.m.Peak = 1.3
	if !m.poll() {
		t.Fatalf("expected a clipping warning")
	}
	if m.poll() {
		t.Fatalf("continued clipping must not warn again")
	}

	src.m.Clipped = false
	m.poll()
	src.m.Clipped = true
	if !m.poll() {
		t.Fatalf("expected a warning for a new clipping onset")
	}

	src.dropped = 3
	if !m.poll() {
		t.Fatalf("expected a dropped events warning")
	}
	if m.poll() {
		t.Fatalf("unchanged drop count must not warn again")
	}

	if n := strings.Count(out.String(), "output clipping"); n != 2 {
		t.Fatalf("expected 2 clipping warnings, got %d:\n%s", n, out.String())
	}
}

func TestVUBar(t *testing.T) {
	for _, tc := range []struct {
		peak float64
		hash int
	}{
		{0, 0},
		{0.5, meterWidth / 2},
		{1, meterWidth},
		{4, meterWidth},
		{-1, 0},
	} {
		bar := vuBar(tc.peak)
		if len(bar) != meterWidth {
			t.Fatalf("bar for %v has length %d", tc.peak, len(bar))
		}
		if n := strings.Count(bar, "#"); n != tc.hash {
			t.Errorf("peak %v: expected %d marks, got %d", tc.peak, tc.hash, n)
		}
	}
}

func TestSoundingCountsUnfinished(t *testing.T) {
	var vs [synth.PoolSize]synth.VoiceState
	for i := range vs {
		vs[i].Finished = true
	}
	vs[3].Finished = false
	vs[7].Finished = false
	if n := sounding(vs[:]); n != 2 {
		t.Fatalf("expected 2 sounding voices, got %d", n)
	}
}
