package synth

import (
	"fmt"
	"strings"
)

// PoolSize is the number of voices that can sound at once.
const PoolSize = 16

// StealPolicy picks the slot to reuse when every voice is busy.
type StealPolicy uint8

const (
	// StealFirstSlot always reuses slot 0, cutting off whatever it plays.
	StealFirstSlot StealPolicy = iota
	// StealOldest reuses the voice that was pressed earliest.
	StealOldest
)

func (p StealPolicy) String() string {
	switch p {
	case StealFirstSlot:
		return "first"
	case StealOldest:
		return "oldest"
	}
	return fmt.Sprintf("stealpolicy(%d)", uint8(p))
}

func ParseStealPolicy(s string) (StealPolicy, error) {
	switch strings.ToLower(s) {
	case "", "first":
		return StealFirstSlot, nil
	case "oldest":
		return StealOldest, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStealPolicy, s)
}

// Pool is a fixed set of voice slots that are recycled in place.
// It is not safe for concurrent use; the Engine confines it to the audio
// goroutine.
type Pool struct {
	voices [PoolSize]voice
	steal  StealPolicy
}

func NewPool(steal StealPolicy) *Pool {
	p := &Pool{steal: steal}
	for i := range p.voices {
		p.voices[i].finished = true
	}
	return p
}

// NoteOn starts note at time t. It is a no-op, returning ok == false, when
// note is already held.
func (p *Pool) NoteOn(note int, t float64) (slot int, ok bool) {
	if p.HeldCount(note) > 0 {
		return -1, false
	}
	slot = p.freeSlot()
	p.voices[slot].press(note, t)
	return slot, true
}

// NoteOff releases every held voice playing note and returns how many were
// released.
func (p *Pool) NoteOff(note int, t float64) int {
	n := 0
	for i := range p.voices {
		v := &p.voices[i]
		if v.held() && v.note == note {
			v.release(t)
			n++
		}
	}
	return n
}

// ReleaseAll releases every held voice.
func (p *Pool) ReleaseAll(t float64) int {
	n := 0
	for i := range p.voices {
		if p.voices[i].held() {
			p.voices[i].release(t)
			n++
		}
	}
	return n
}

func (p *Pool) HeldCount(note int) int {
	n := 0
	for i := range p.voices {
		if p.voices[i].held() && p.voices[i].note == note {
			n++
		}
	}
	return n
}

func (p *Pool) Voice(slot int) VoiceState {
	return p.voices[slot].state(slot)
}

func (p *Pool) freeSlot() int {
	for i := range p.voices {
		if p.voices[i].finished {
			return i
		}
	}
	if p.steal == StealOldest {
		oldest := 0
		for i := range p.voices {
			if p.voices[i].pressTime < p.voices[oldest].pressTime {
				oldest = i
			}
		}
		return oldest
	}
	return 0
}

// AdvanceAndSample renders slot at time t through unison, envelope and the
// effects chain. Finished voices are silent.
func (p *Pool) AdvanceAndSample(slot int, t float64, params *Params, fx *Chain) (l, r float64) {
	v := &p.voices[slot]
	if v.finished {
		return 0, 0
	}

	if params.Unison {
		l, r = unison(params.Waveform, t, v.freq, params.UnisonVoices, params.Detune, params.GoofyUnison)
	} else {
		l = params.Waveform.Sample(t, v.freq)
		r = l
	}

	att := v.advance(params.Envelope, t)
	return fx.Apply(l, r, att, params)
}
