package synth

import (
	"fmt"
	"math"
	"strings"
)

const (
	DefaultVolume = 1.0
	MaxVolume     = 4.0
	MaxDetune     = 1.0
)

// OctaveMode replicates every note at whole octaves above it.
type OctaveMode uint8

const (
	Single OctaveMode = iota
	Double
	Triple
	Quadruple
	numOctaveModes
)

var octaveModeNames = [numOctaveModes]string{"single", "double", "triple", "quadruple"}

func (m OctaveMode) String() string {
	if m >= numOctaveModes {
		return fmt.Sprintf("octavemode(%d)", uint8(m))
	}
	return octaveModeNames[m]
}

func (m OctaveMode) Next() OctaveMode {
	return (m + 1) % numOctaveModes
}

// Offsets returns the semitone offsets sounded for each note, starting with 0.
func (m OctaveMode) Offsets() []int {
	if m >= numOctaveModes {
		m = Single
	}
	offsets := make([]int, m+1)
	for i := range offsets {
		offsets[i] = 12 * i
	}
	return offsets
}

func ParseOctaveMode(s string) (OctaveMode, error) {
	for i, name := range octaveModeNames {
		if strings.EqualFold(s, name) {
			return OctaveMode(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownOctaveMode, s)
}

// Params is the runtime synth configuration. The Engine publishes it as an
// immutable snapshot; change it through Engine.SetParams or
// Engine.UpdateParams.
type Params struct {
	Waveform Waveform

	Unison       bool
	UnisonVoices int
	Detune       float64
	GoofyUnison  bool

	Bitcrush  bool
	CrushBits float64

	Compressor bool

	Volume     float64
	OctaveMode OctaveMode

	Envelope Envelope
}

func DefaultParams() Params {
	return Params{
		Waveform:     Sine,
		UnisonVoices: DefaultUnisonVoices,
		Detune:       DefaultDetune,
		CrushBits:    DefaultCrushBits,
		Volume:       DefaultVolume,
		OctaveMode:   Single,
		Envelope:     DefaultEnvelope(),
	}
}

// normalize clamps every field into the range the render path relies on.
func (p Params) normalize() Params {
	if p.Waveform >= numWaveforms {
		p.Waveform = Sine
	}
	if p.UnisonVoices < 1 {
		p.UnisonVoices = 1
	}
	if p.UnisonVoices > MaxUnisonVoices {
		p.UnisonVoices = MaxUnisonVoices
	}
	p.Detune = clampFinite(p.Detune, 0, MaxDetune)
	p.CrushBits = clampFinite(p.CrushBits, MinCrushBits, MaxCrushBits)
	p.Volume = clampFinite(p.Volume, 0, MaxVolume)
	if p.OctaveMode >= numOctaveModes {
		p.OctaveMode = Single
	}
	p.Envelope = p.Envelope.normalize()
	return p
}

func clampFinite(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return clamp(v, lo, hi)
}
