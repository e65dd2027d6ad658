package synth

// MinEnvelopeTime is the shortest accepted stage duration in seconds.
const MinEnvelopeTime = 1e-4

// Envelope is an attack/decay/sustain/release curve. Times are seconds,
// Sustain is a fraction of peak.
type Envelope struct {
	Attack  float64
	Decay   float64
	Sustain float64
	Release float64
}

func DefaultEnvelope() Envelope {
	return Envelope{
		Attack:  0.01,
		Decay:   0.65,
		Sustain: 0.8,
		Release: 0.1,
	}
}

// Held returns the attenuation of a held note, elapsed seconds after press.
// Attack ramps 0→1, then decay interpolates 1→Sustain starting at Attack.
// Once decay completes the level holds at Sustain.
func (e Envelope) Held(elapsed float64) float64 {
	decayProgress := clamp((elapsed-e.Attack)/e.Decay, 0, 1)
	decayed := lerp(1, e.Sustain, decayProgress)

	return clamp(elapsed/e.Attack, 0, 1) * decayed
}

// Released returns the attenuation of a released note, elapsed seconds
// after release. It starts at Sustain and reaches 0 after Release.
func (e Envelope) Released(elapsed float64) float64 {
	return clamp(1-elapsed/e.Release, 0, 1) * e.Sustain
}

func (e Envelope) normalize() Envelope {
	e.Attack = atLeast(e.Attack, MinEnvelopeTime)
	e.Decay = atLeast(e.Decay, MinEnvelopeTime)
	e.Release = atLeast(e.Release, MinEnvelopeTime)
	e.Sustain = clamp(e.Sustain, 0, 1)
	return e
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// atLeast also maps NaN to lo.
func atLeast(v, lo float64) float64 {
	if !(v >= lo) {
		return lo
	}
	return v
}

func lerp(from, to, amt float64) float64 {
	return from + (to-from)*amt
}
