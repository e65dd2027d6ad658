// Package input turns keyboard and MIDI activity into note events for a
// synthesizer.
package input

import (
	"log/slog"
	"sync"
)

// Synth receives timestamped note events. *synth.Engine implements it.
type Synth interface {
	NoteOn(note int, t float64)
	NoteOff(note int, t float64)
	AllNotesOff(t float64)
	Now() float64
}

// Router applies transposition and keeps presses and releases paired:
// a release always stops the note its press started, even if the
// transposition changed in between. It is safe for concurrent use by the
// keyboard and MIDI goroutines.
type Router struct {
	synth  Synth
	logger *slog.Logger

	mu        sync.Mutex
	transpose int
	sounding  map[source]int
}

// source identifies who pressed a note so that a keyboard key and a MIDI key
// on the same pitch do not release each other.
type source struct {
	origin string
	note   int
}

func NewRouter(s Synth, transpose int, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		synth:     s,
		logger:    logger,
		transpose: transpose,
		sounding:  make(map[source]int),
	}
}

// Press starts note for origin. Pressing an already sounding key is ignored.
func (r *Router) Press(origin string, note int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := source{origin, note}
	if _, ok := r.sounding[key]; ok {
		return
	}
	n := note + r.transpose
	r.sounding[key] = n
	r.synth.NoteOn(n, r.synth.Now())
	r.logger.Debug("note on", "origin", origin, "key", note, "note", n)
}

// Release stops the note started by origin's press of note.
func (r *Router) Release(origin string, note int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := source{origin, note}
	n, ok := r.sounding[key]
	if !ok {
		return
	}
	delete(r.sounding, key)
	r.synth.NoteOff(n, r.synth.Now())
	r.logger.Debug("note off", "origin", origin, "key", note, "note", n)
}

// Panic releases everything.
func (r *Router) Panic() {
	r.mu.Lock()
	defer r.mu.Unlock()

	clear(r.sounding)
	r.synth.AllNotesOff(r.synth.Now())
	r.logger.Info("all notes off")
}

// Transpose shifts subsequent presses by semitones and returns the new offset.
func (r *Router) Transpose(semitones int) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.transpose += semitones
	return r.transpose
}

func (r *Router) Transposition() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.transpose
}
