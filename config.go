package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"git.disy.net/goetz/polysynth/synth"
)

const defaultConfig = `
{
	"sampleRate": 44100,
	"bufferFrames": 512,
	"channels": 2,
	"backend": "portaudio",
	"watchConfig": true,
	"stealPolicy": "first",
	"transpose": 0,
	"midi": { "enabled": true, "port": "" },
	"keyboard": { "enabled": true, "gateSeconds": 0.6 },
	"synth": {
		"waveform": "sine",
		"unison": false,
		"unisonVoices": 16,
		"detune": 0.0025,
		"goofyUnison": false,
		"bitcrush": false,
		"crushBits": 16,
		"compressor": false,
		"volume": 1,
		"octaveMode": "single",
		"envelope": { "attack": 0.01, "decay": 0.65, "sustain": 0.8, "release": 0.1 }
	},
	"bounce": {
		"seconds": 4,
		"notes": [
			{ "note": 48, "start": 0, "length": 3.5 },
			{ "note": 60, "start": 0, "length": 0.4 },
			{ "note": 64, "start": 0.5, "length": 0.4 },
			{ "note": 67, "start": 1, "length": 0.4 },
			{ "note": 72, "start": 1.5, "length": 1.5 }
		]
	}
}
`

type EnvelopeConfig struct {
	Attack  float64 `json:"attack"`
	Decay   float64 `json:"decay"`
	Sustain float64 `json:"sustain"`
	Release float64 `json:"release"`
}

type SynthConfig struct {
	Waveform     string         `json:"waveform"`
	Unison       bool           `json:"unison"`
	UnisonVoices int            `json:"unisonVoices"`
	Detune       float64        `json:"detune"`
	GoofyUnison  bool           `json:"goofyUnison"`
	Bitcrush     bool           `json:"bitcrush"`
	CrushBits    float64        `json:"crushBits"`
	Compressor   bool           `json:"compressor"`
	Volume       float64        `json:"volume"`
	OctaveMode   string         `json:"octaveMode"`
	Envelope     EnvelopeConfig `json:"envelope"`
}

type MIDIConfig struct {
	Enabled bool   `json:"enabled"`
	Port    string `json:"port"`
}

type KeyboardConfig struct {
	Enabled     bool    `json:"enabled"`
	GateSeconds float64 `json:"gateSeconds"`
}

type BounceNote struct {
	Note   int     `json:"note"`
	Start  float64 `json:"start"`
	Length float64 `json:"length"`
}

type BounceConfig struct {
	Seconds float64      `json:"seconds"`
	Notes   []BounceNote `json:"notes"`
}

// StaticConfig is read once at startup.
type StaticConfig struct {
	SampleRate   int            `json:"sampleRate"`
	BufferFrames int            `json:"bufferFrames"`
	Channels     int            `json:"channels"`
	Backend      string         `json:"backend"`
	WatchConfig  bool           `json:"watchConfig"`
	StealPolicy  string         `json:"stealPolicy"`
	Transpose    int            `json:"transpose"`
	MIDI         MIDIConfig     `json:"midi"`
	Keyboard     KeyboardConfig `json:"keyboard"`
	Bounce       BounceConfig   `json:"bounce"`
}

// DynamicConfig is reapplied whenever the config file changes.
type DynamicConfig struct {
	Synth SynthConfig `json:"synth"`
}

type Config struct {
	StaticConfig
	DynamicConfig
}

// Params converts the synth section. Ranges are left to the engine to clamp.
func (c SynthConfig) Params() (synth.Params, error) {
	w, err := synth.ParseWaveform(c.Waveform)
	if err != nil {
		return synth.Params{}, err
	}
	om, err := synth.ParseOctaveMode(c.OctaveMode)
	if err != nil {
		return synth.Params{}, err
	}
	return synth.Params{
		Waveform:     w,
		Unison:       c.Unison,
		UnisonVoices: c.UnisonVoices,
		Detune:       c.Detune,
		GoofyUnison:  c.GoofyUnison,
		Bitcrush:     c.Bitcrush,
		CrushBits:    c.CrushBits,
		Compressor:   c.Compressor,
		Volume:       c.Volume,
		OctaveMode:   om,
		Envelope: synth.Envelope{
			Attack:  c.Envelope.Attack,
			Decay:   c.Envelope.Decay,
			Sustain: c.Envelope.Sustain,
			Release: c.Envelope.Release,
		},
	}, nil
}

// parseConfig overlays data on the defaults, so a file only needs the keys
// it changes.
func parseConfig(data []byte) (*Config, error) {
	var c Config
	if err := json.Unmarshal([]byte(defaultConfig), &c); err != nil {
		return nil, fmt.Errorf("unmarshalling defaults: %w", err)
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("unmarshalling: %w", err)
	}
	if _, err := c.Synth.Params(); err != nil {
		return nil, fmt.Errorf("synth config: %w", err)
	}
	if _, err := synth.ParseStealPolicy(c.StealPolicy); err != nil {
		return nil, fmt.Errorf("stealPolicy: %w", err)
	}
	return &c, nil
}

func ReadConfig(p string) (*Config, error) {
	if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
		err = os.WriteFile(p, []byte(defaultConfig), 0644)
		if err != nil {
			return nil, fmt.Errorf("can't write defaultConfig: %w", err)
		}
	}
	f, err := os.Open(p)
	if err != nil {
		return nil, fmt.Errorf("can't open config: %w", err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("can't read config: %w", err)
	}
	return parseConfig(data)
}
