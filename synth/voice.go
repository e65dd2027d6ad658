package synth

import "math"

// NoteFrequency converts a MIDI note number to Hz, equal tempered with A4 = 440.
func NoteFrequency(note int) float64 {
	return 440 * math.Pow(2, float64(note-69)/12)
}

// voice is one pool slot. gate is 1 while held and 0 once released, it only
// discriminates the envelope phase.
type voice struct {
	note        int
	freq        float64
	gate        float64
	pressTime   float64
	releaseTime float64
	finished    bool
}

func (v *voice) held() bool {
	return v.gate > 0
}

func (v *voice) press(note int, t float64) {
	v.note = note
	v.freq = NoteFrequency(note)
	v.gate = 1
	v.pressTime = t
	v.finished = false
}

func (v *voice) release(t float64) {
	v.gate = 0
	v.releaseTime = t
}

// advance returns the envelope attenuation at t and marks the voice finished
// once the release tail is over. Press and release times may lie later in
// the buffer than t, so the phase is chosen by time rather than by gate.
func (v *voice) advance(env Envelope, t float64) float64 {
	if v.held() || t < v.releaseTime {
		return env.Held(t - v.pressTime)
	}
	att := env.Released(t - v.releaseTime)
	if att == 0 || t > v.releaseTime+env.Release {
		v.finished = true
	}
	return att
}

func (v *voice) state(slot int) VoiceState {
	return VoiceState{
		Slot:        slot,
		Note:        v.note,
		Held:        v.held(),
		PressTime:   v.pressTime,
		ReleaseTime: v.releaseTime,
		Finished:    v.finished,
	}
}

// VoiceState is a read-only copy of one slot, for display.
type VoiceState struct {
	Slot        int
	Note        int
	Held        bool
	PressTime   float64
	ReleaseTime float64
	Finished    bool
}

// Attenuation is the envelope level of the voice at time at.
func (s VoiceState) Attenuation(env Envelope, at float64) float64 {
	if s.Finished {
		return 0
	}
	if s.Held || at < s.ReleaseTime {
		return env.Held(at - s.PressTime)
	}
	return env.Released(at - s.ReleaseTime)
}
