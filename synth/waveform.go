package synth

import (
	"fmt"
	"math"
	"strings"
)

// Waveform selects the oscillator shape.
type Waveform uint8

const (
	Sine Waveform = iota
	Saw
	Square
	Triangle
	numWaveforms
)

var waveformNames = [numWaveforms]string{"sine", "saw", "square", "triangle"}

func (w Waveform) String() string {
	if w >= numWaveforms {
		return fmt.Sprintf("waveform(%d)", uint8(w))
	}
	return waveformNames[w]
}

// Next returns the following waveform, wrapping from Triangle back to Sine.
func (w Waveform) Next() Waveform {
	return (w + 1) % numWaveforms
}

func ParseWaveform(s string) (Waveform, error) {
	for i, name := range waveformNames {
		if strings.EqualFold(s, name) {
			return Waveform(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownWaveform, s)
}

// Sample evaluates the waveform at time t for the given frequency.
// It is stateless: no phase is carried between calls.
func (w Waveform) Sample(t, freq float64) float64 {
	switch w {
	case Saw:
		return saw(t, freq)
	case Square:
		return square(t, freq)
	case Triangle:
		return triangle(t, freq)
	default:
		return sine(t, freq)
	}
}

func sine(t, freq float64) float64 {
	return math.Sin(2 * math.Pi * t * freq)
}

func saw(t, freq float64) float64 {
	x := t * freq
	return 2*(x-math.Floor(x)) - 1
}

func square(t, freq float64) float64 {
	if sine(t, freq) > 0 {
		return 1
	}
	return -1
}

func triangle(t, freq float64) float64 {
	return 2*math.Abs(saw(t, freq)) - 1
}
