package synth

import (
	"fmt"
	"log/slog"
)

const (
	DefaultSampleRate     = 44100
	DefaultChannels       = 2
	DefaultBufferFrames   = 512
	DefaultSnapshotFrames = 1024
	DefaultQueueCapacity  = 1024
)

// Option configures an Engine at construction.
type Option func(*engineConfig) error

type engineConfig struct {
	sampleRate     int
	channels       int
	bufferFrames   int
	snapshotFrames int
	queueCapacity  int
	steal          StealPolicy
	params         Params
	startTime      float64
	logger         *slog.Logger
}

func defaultEngineConfig() engineConfig {
	return engineConfig{
		sampleRate:     DefaultSampleRate,
		channels:       DefaultChannels,
		bufferFrames:   DefaultBufferFrames,
		snapshotFrames: DefaultSnapshotFrames,
		queueCapacity:  DefaultQueueCapacity,
		steal:          StealFirstSlot,
		params:         DefaultParams(),
		logger:         slog.Default(),
	}
}

// WithSampleRate sets the output sample rate negotiated with the device.
func WithSampleRate(hz int) Option {
	return func(cfg *engineConfig) error {
		if hz <= 0 {
			return fmt.Errorf("%w: %d", ErrInvalidSampleRate, hz)
		}
		cfg.sampleRate = hz
		return nil
	}
}

// WithChannels sets the interleaved channel count of the output buffer.
func WithChannels(n int) Option {
	return func(cfg *engineConfig) error {
		if n <= 0 {
			return fmt.Errorf("%w: %d", ErrInvalidChannels, n)
		}
		cfg.channels = n
		return nil
	}
}

// WithBufferFrames sets the expected frames per Render call.
func WithBufferFrames(n int) Option {
	return func(cfg *engineConfig) error {
		if n <= 0 {
			return fmt.Errorf("%w: %d", ErrInvalidBufferFrames, n)
		}
		cfg.bufferFrames = n
		return nil
	}
}

// WithSnapshotFrames bounds how many frames of each buffer are kept for
// RenderMetrics.
func WithSnapshotFrames(n int) Option {
	return func(cfg *engineConfig) error {
		if n <= 0 {
			return fmt.Errorf("%w: snapshot %d", ErrInvalidBufferFrames, n)
		}
		cfg.snapshotFrames = n
		return nil
	}
}

func WithQueueCapacity(n int) Option {
	return func(cfg *engineConfig) error {
		if !isPowerOfTwo(n) {
			return fmt.Errorf("%w: %d", ErrInvalidQueueCapacity, n)
		}
		cfg.queueCapacity = n
		return nil
	}
}

func WithStealPolicy(p StealPolicy) Option {
	return func(cfg *engineConfig) error {
		if p != StealFirstSlot && p != StealOldest {
			return fmt.Errorf("%w: %d", ErrUnknownStealPolicy, p)
		}
		cfg.steal = p
		return nil
	}
}

// WithParams sets the initial synth parameters. Out of range values are
// clamped.
func WithParams(p Params) Option {
	return func(cfg *engineConfig) error {
		cfg.params = p
		return nil
	}
}

// WithStartTime offsets the render timeline.
func WithStartTime(t float64) Option {
	return func(cfg *engineConfig) error {
		cfg.startTime = t
		return nil
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(cfg *engineConfig) error {
		if l != nil {
			cfg.logger = l
		}
		return nil
	}
}
