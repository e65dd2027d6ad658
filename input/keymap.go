package input

import "git.disy.net/goetz/polysynth/synth"

// Controller exposes the synth parameter toggles bound to keys.
// *synth.Engine implements it.
type Controller interface {
	CycleWaveform() synth.Waveform
	ToggleUnison() bool
	ToggleGoofyUnison() bool
	AdjustDetune(delta float64) float64
	ToggleBitcrush() bool
	AdjustCrushBits(delta float64) float64
	ToggleCompressor() bool
	AdjustVolume(delta float64) float64
	CycleOctaveMode() synth.OctaveMode
}

// Action is a control bound to a key. Do returns the resulting value for
// logging.
type Action struct {
	Name string
	Do   func(c Controller, r *Router) any
}

// KeyMap binds terminal bytes to notes and actions.
type KeyMap struct {
	Notes   map[byte]int
	Actions map[byte]Action
}

const (
	detuneStep    = 0.0001
	crushBitsStep = 0.1
	volumeStep    = 0.1
)

// DefaultKeyMap lays two overlapping piano rows over the keyboard: the bottom
// row starts at C3 (48) and the top row at C4 (60). Controls use upper case
// letters and punctuation not taken by the rows.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Notes: map[byte]int{
			'z': 48, 's': 49, 'x': 50, 'd': 51, 'c': 52, 'v': 53, 'g': 54,
			'b': 55, 'h': 56, 'n': 57, 'j': 58, 'm': 59, ',': 60, 'l': 61,
			'.': 62, ';': 63, '/': 64,

			'q': 60, '2': 61, 'w': 62, '3': 63, 'e': 64, 'r': 65, '5': 66,
			't': 67, '6': 68, 'y': 69, '7': 70, 'u': 71, 'i': 72, '9': 73,
			'o': 74, '0': 75, 'p': 76, '[': 77, '=': 78, ']': 79,
		},
		Actions: map[byte]Action{
			'<': {"transpose", func(_ Controller, r *Router) any { return r.Transpose(-12) }},
			'>': {"transpose", func(_ Controller, r *Router) any { return r.Transpose(12) }},
			' ': {"panic", func(_ Controller, r *Router) any { r.Panic(); return true }},

			'W': {"waveform", func(c Controller, _ *Router) any { return c.CycleWaveform() }},
			'U': {"unison", func(c Controller, _ *Router) any { return c.ToggleUnison() }},
			'G': {"goofy unison", func(c Controller, _ *Router) any { return c.ToggleGoofyUnison() }},
			'K': {"detune", func(c Controller, _ *Router) any { return c.AdjustDetune(detuneStep) }},
			'J': {"detune", func(c Controller, _ *Router) any { return c.AdjustDetune(-detuneStep) }},
			'B': {"bitcrush", func(c Controller, _ *Router) any { return c.ToggleBitcrush() }},
			'N': {"crush bits", func(c Controller, _ *Router) any { return c.AdjustCrushBits(crushBitsStep) }},
			'M': {"crush bits", func(c Controller, _ *Router) any { return c.AdjustCrushBits(-crushBitsStep) }},
			'C': {"compressor", func(c Controller, _ *Router) any { return c.ToggleCompressor() }},
			'O': {"octave mode", func(c Controller, _ *Router) any { return c.CycleOctaveMode() }},
			'A': {"volume", func(c Controller, _ *Router) any { return c.AdjustVolume(volumeStep) }},
			'Z': {"volume", func(c Controller, _ *Router) any { return c.AdjustVolume(-volumeStep) }},
		},
	}
}
