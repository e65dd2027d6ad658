package synth

import "math"

const (
	DefaultUnisonVoices = 16
	MaxUnisonVoices     = 64
	DefaultDetune       = 0.0025
)

// detuneOffset is the relative frequency offset of sub-voice i.
// The regular curve is deliberately uneven; goofy mode spreads linearly
// around the middle sub-voice instead.
func detuneOffset(i, order int, amount float64, goofy bool) float64 {
	if goofy {
		center := order / 2
		return float64(i-center) * (amount / float64(order))
	}
	fi := float64(i)
	return fi * math.Sin(fi/float64(order)) * amount
}

// unisonPan spreads sub-voices evenly over [-1, 1). A lone sub-voice sits in
// the middle.
func unisonPan(i, order int) float64 {
	if order <= 1 {
		return 0
	}
	return float64(i)/float64(order)*2 - 1
}

func panGains(pan float64) (l, r float64) {
	l, r = 1, 1
	if pan > 0 {
		l = 1 - pan
	}
	if pan < 0 {
		r = 1 + pan
	}
	return l, r
}

// unison sums order detuned copies of w at freq into one stereo pair.
func unison(w Waveform, t, freq float64, order int, detune float64, goofy bool) (l, r float64) {
	for i := 0; i < order; i++ {
		s := w.Sample(t, freq+freq*detuneOffset(i, order, detune, goofy))
		gl, gr := panGains(unisonPan(i, order))
		l += s * gl
		r += s * gr
	}
	n := float64(order)
	return l / n, r / n
}
