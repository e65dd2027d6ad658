package synth

import "math"

const (
	MinCrushBits     = 1.0
	MaxCrushBits     = 31.0
	DefaultCrushBits = 16.0

	compressorQ = 0.05
)

// Bitcrush quantizes x in [-1, 1] to 2^bits levels. bits may be fractional
// and is clamped to [MinCrushBits, MaxCrushBits].
func Bitcrush(x, bits float64) float64 {
	levels := math.Exp2(clamp(bits, MinCrushBits, MaxCrushBits))
	q := math.Round((x + 1) * 0.5 * levels)
	return q/levels*2 - 1
}

// Compressor attenuates a signal by a smoothed estimate of its own level.
// The zero value is ready to use.
type Compressor struct {
	accum float64
}

func (c *Compressor) Process(x float64) float64 {
	c.accum = c.accum - compressorQ*(c.accum-x)
	peak := math.Abs(c.accum)
	return (1 - peak) * x
}

func (c *Compressor) Reset() {
	c.accum = 0
}

// Chain is the per-sample effects path. Its compressor state is shared by
// all voices, one compressor per channel.
type Chain struct {
	left, right Compressor
}

// Apply runs envelope attenuation, master volume, bitcrush and compressor,
// in that order.
func (c *Chain) Apply(l, r, attenuation float64, p *Params) (float64, float64) {
	l *= attenuation
	r *= attenuation

	l *= p.Volume
	r *= p.Volume

	if p.Bitcrush {
		l = Bitcrush(l, p.CrushBits)
		r = Bitcrush(r, p.CrushBits)
	}

	if p.Compressor {
		l = c.left.Process(l)
		r = c.right.Process(r)
	}
	return l, r
}

func (c *Chain) Reset() {
	c.left.Reset()
	c.right.Reset()
}
