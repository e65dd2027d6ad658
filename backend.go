package main

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/gordonklaus/portaudio"

	"git.disy.net/goetz/polysynth/synth"
)

var ErrUnknownBackend = errors.New("unknown audio backend")

// outputBackend drives engine.Render from an audio device.
type outputBackend interface {
	Start() error
	Close() error
}

func openBackend(name string, engine *synth.Engine) (outputBackend, error) {
	switch name {
	case "", "portaudio":
		return newPortaudioBackend(engine)
	case "oto":
		return newOtoBackend(engine)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
}

type portaudioBackend struct {
	stream *portaudio.Stream
}

func newPortaudioBackend(engine *synth.Engine) (*portaudioBackend, error) {
	err := portaudio.Initialize()
	if err != nil {
		return nil, fmt.Errorf("can't init portaudio: %w", err)
	}
	stream, err := portaudio.OpenDefaultStream(0, engine.Channels(), float64(engine.SampleRate()), engine.BufferFrames(), engine.Render)
	if err != nil {
		// ignore Terminate error
		portaudio.Terminate()
		return nil, fmt.Errorf("can't open default stream: %w", err)
	}
	return &portaudioBackend{stream: stream}, nil
}

func (b *portaudioBackend) Start() error {
	if err := b.stream.Start(); err != nil {
		return fmt.Errorf("can't start stream: %w", err)
	}
	return nil
}

func (b *portaudioBackend) Close() error {
	// ignore Stop error, the stream may never have started
	b.stream.Stop()
	err := b.stream.Close()
	if terr := portaudio.Terminate(); err == nil {
		err = terr
	}
	return err
}

// otoBackend is pulled by oto's player through Read.
type otoBackend struct {
	ctx    *oto.Context
	player *oto.Player
	engine *synth.Engine

	// only touched by the player goroutine
	buf     []float32
	frame   []byte // one encoded frame, for reads shorter than a frame
	pending []byte // tail of frame not yet handed out
}

func newOtoBackend(engine *synth.Engine) (*otoBackend, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   engine.SampleRate(),
		ChannelCount: engine.Channels(),
		Format:       oto.FormatFloat32LE,
		BufferSize:   time.Duration(engine.BufferFrames()) * time.Second / time.Duration(engine.SampleRate()),
	})
	if err != nil {
		return nil, fmt.Errorf("can't create oto context: %w", err)
	}
	<-ready

	b := &otoBackend{
		ctx:    ctx,
		engine: engine,
		buf:    make([]float32, engine.BufferFrames()*engine.Channels()),
		frame:  make([]byte, 4*engine.Channels()),
	}
	b.player = ctx.NewPlayer(b)
	return b, nil
}

// Read renders whole frames into p as little-endian float32. A p shorter
// than a frame gets the first bytes of one rendered frame and later reads
// get the rest, so Read never returns 0, nil.
func (b *otoBackend) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if len(b.pending) > 0 {
		n := copy(p, b.pending)
		b.pending = b.pending[n:]
		return n, nil
	}

	frameBytes := 4 * b.engine.Channels()
	if len(p) < frameBytes {
		if len(b.frame) != frameBytes {
			b.frame = make([]byte, frameBytes)
		}
		b.render(b.frame)
		n := copy(p, b.frame)
		b.pending = b.frame[n:]
		return n, nil
	}

	n := len(p) / frameBytes * frameBytes
	b.render(p[:n])
	return n, nil
}

// render fills dst, a whole number of frames, with encoded samples.
func (b *otoBackend) render(dst []byte) {
	samples := len(dst) / 4
	if len(b.buf) < samples {
		b.buf = make([]float32, samples)
	}
	buf := b.buf[:samples]
	b.engine.Render(buf)
	for i, s := range buf {
		binary.LittleEndian.PutUint32(dst[4*i:], math.Float32bits(s))
	}
}

func (b *otoBackend) Start() error {
	b.player.Play()
	return nil
}

func (b *otoBackend) Close() error {
	return b.player.Close()
}
