package input

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"git.disy.net/goetz/polysynth/synth"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

type fakeSynth struct {
	mu     sync.Mutex
	events []string
	now    float64
}

func (f *fakeSynth) record(format string, args ...any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, fmt.Sprintf(format, args...))
}

func (f *fakeSynth) NoteOn(note int, t float64)  { f.record("on %d", note) }
func (f *fakeSynth) NoteOff(note int, t float64) { f.record("off %d", note) }
func (f *fakeSynth) AllNotesOff(t float64)       { f.record("panic") }

func (f *fakeSynth) Now() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeSynth) Events() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.events...)
}

type fakeController struct {
	calls []string
}

func (c *fakeController) call(name string) { c.calls = append(c.calls, name) }

func (c *fakeController) CycleWaveform() synth.Waveform { c.call("waveform"); return synth.Saw }
func (c *fakeController) ToggleUnison() bool            { c.call("unison"); return true }
func (c *fakeController) ToggleGoofyUnison() bool       { c.call("goofy"); return true }
func (c *fakeController) AdjustDetune(d float64) float64 {
	c.call(fmt.Sprintf("detune %+g", d))
	return d
}
func (c *fakeController) ToggleBitcrush() bool { c.call("bitcrush"); return true }
func (c *fakeController) AdjustCrushBits(d float64) float64 {
	c.call(fmt.Sprintf("bits %+g", d))
	return d
}
func (c *fakeController) ToggleCompressor() bool { c.call("compressor"); return true }
func (c *fakeController) AdjustVolume(d float64) float64 {
	c.call(fmt.Sprintf("volume %+g", d))
	return d
}
func (c *fakeController) CycleOctaveMode() synth.OctaveMode { c.call("octave"); return synth.Double }

func equalEvents(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
