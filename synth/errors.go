package synth

import "errors"

var (
	ErrInvalidSampleRate    = errors.New("sample rate must be positive")
	ErrInvalidChannels      = errors.New("channel count must be positive")
	ErrInvalidBufferFrames  = errors.New("buffer frames must be positive")
	ErrInvalidQueueCapacity = errors.New("queue capacity must be a positive power of two")
	ErrUnknownWaveform      = errors.New("unknown waveform")
	ErrUnknownOctaveMode    = errors.New("unknown octave mode")
	ErrUnknownStealPolicy   = errors.New("unknown steal policy")
)
