package synth

import (
	"fmt"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"
)

// voiceMixGain scales every voice before summing so that several voices at
// full level stay near unity.
const voiceMixGain = 0.25

// Engine owns the voice pool, parameters and timeline of one synthesizer.
//
// Render must be called from a single goroutine, normally the audio device
// callback. Every other method may be called concurrently from any
// goroutine. Note events are queued and applied at the start of the next
// Render, so Render never waits on a lock.
type Engine struct {
	sampleRate   int
	channels     int
	bufferFrames int
	logger       *slog.Logger

	// audio goroutine only
	pool    *Pool
	fx      Chain
	timeAcc float64

	now     atomic.Uint64 // math.Float64bits of timeAcc
	params  atomic.Pointer[Params]
	queue   *commandQueue
	metrics *metricsBuffer
	dropped atomic.Uint64

	paramsMu sync.Mutex

	produceMu sync.Mutex
	pressed   map[int]OctaveMode // guarded by produceMu
}

func New(opts ...Option) (*Engine, error) {
	cfg := defaultEngineConfig()
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, fmt.Errorf("can't create engine: %w", err)
		}
	}

	e := &Engine{
		sampleRate:   cfg.sampleRate,
		channels:     cfg.channels,
		bufferFrames: cfg.bufferFrames,
		logger:       cfg.logger,
		pool:         NewPool(cfg.steal),
		timeAcc:      cfg.startTime,
		queue:        newCommandQueue(cfg.queueCapacity),
		metrics:      newMetricsBuffer(cfg.snapshotFrames),
		pressed:      make(map[int]OctaveMode),
	}
	e.now.Store(math.Float64bits(cfg.startTime))
	p := cfg.params.normalize()
	e.params.Store(&p)
	return e, nil
}

func (e *Engine) SampleRate() int   { return e.sampleRate }
func (e *Engine) Channels() int     { return e.channels }
func (e *Engine) BufferFrames() int { return e.bufferFrames }

// Now returns the timeline position of the next frame to be rendered.
func (e *Engine) Now() float64 {
	return math.Float64frombits(e.now.Load())
}

// Dropped returns how many commands were discarded because the queue was
// full.
func (e *Engine) Dropped() uint64 {
	return e.dropped.Load()
}

// NoteOn presses note at time t, along with its octave copies when octave
// doubling is active.
func (e *Engine) NoteOn(note int, t float64) {
	mode := e.params.Load().OctaveMode

	e.produceMu.Lock()
	defer e.produceMu.Unlock()

	e.pressed[note] = mode
	for _, off := range mode.Offsets() {
		e.enqueue(command{kind: cmdNoteOn, note: note + off, time: t})
	}
}

// NoteOff releases note at time t together with the octave copies that
// NoteOn started for it.
func (e *Engine) NoteOff(note int, t float64) {
	e.produceMu.Lock()
	defer e.produceMu.Unlock()

	mode, ok := e.pressed[note]
	if !ok {
		mode = e.params.Load().OctaveMode
	}
	delete(e.pressed, note)
	for _, off := range mode.Offsets() {
		e.enqueue(command{kind: cmdNoteOff, note: note + off, time: t})
	}
}

// AllNotesOff releases every held voice at time t.
func (e *Engine) AllNotesOff(t float64) {
	e.produceMu.Lock()
	defer e.produceMu.Unlock()

	clear(e.pressed)
	e.enqueue(command{kind: cmdAllNotesOff, time: t})
}

// enqueue must be called with produceMu held.
func (e *Engine) enqueue(c command) {
	if e.queue.push(c) {
		return
	}
	n := e.dropped.Add(1)
	e.logger.Warn("command queue full, dropping event", "note", c.note, "dropped", n)
}

func (e *Engine) drain() {
	for {
		c, ok := e.queue.pop()
		if !ok {
			return
		}
		switch c.kind {
		case cmdNoteOn:
			e.pool.NoteOn(c.note, c.time)
		case cmdNoteOff:
			e.pool.NoteOff(c.note, c.time)
		case cmdAllNotesOff:
			e.pool.ReleaseAll(c.time)
		}
	}
}

// Render fills out with interleaved frames. It is the audio callback.
func (e *Engine) Render(out []float32) {
	e.drain()

	p := e.params.Load()
	m := e.metrics.writable()
	m.Clipped = false
	m.Peak = 0
	m.Time = e.timeAcc
	m.Left = m.Left[:0]
	m.Right = m.Right[:0]

	ch := e.channels
	frames := len(out) / ch
	sr := float64(e.sampleRate)

	for f := 0; f < frames; f++ {
		t := float64(f)/sr + e.timeAcc

		var l, r float64
		for slot := 0; slot < PoolSize; slot++ {
			vl, vr := e.pool.AdvanceAndSample(slot, t, p, &e.fx)
			l += vl * voiceMixGain
			r += vr * voiceMixGain
		}

		ol, or := float32(l), float32(r)
		i := f * ch
		if ch == 1 {
			out[i] = (ol + or) / 2
		} else {
			out[i] = ol
			out[i+1] = or
			for c := 2; c < ch; c++ {
				out[i+c] = 0
			}
		}

		if len(m.Left) < cap(m.Left) {
			m.Left = append(m.Left, ol)
			m.Right = append(m.Right, or)
		}
		for _, s := range [2]float32{ol, or} {
			if s > 1 || s < -1 {
				m.Clipped = true
			}
			m.Peak = math.Max(m.Peak, math.Abs(float64(s)))
		}
	}
	for i := frames * ch; i < len(out); i++ {
		out[i] = 0
	}

	m.Frames = frames
	for slot := range m.Voices {
		m.Voices[slot] = e.pool.Voice(slot)
	}
	m.Params = *p
	e.metrics.publish()

	e.timeAcc += float64(frames) / sr
	e.now.Store(math.Float64bits(e.timeAcc))
}

// Metrics returns a copy of the metrics of the last rendered buffer.
func (e *Engine) Metrics() RenderMetrics {
	var m RenderMetrics
	e.metrics.read(&m)
	return m
}

// Params returns the current parameter snapshot.
func (e *Engine) Params() Params {
	return *e.params.Load()
}

// SetParams replaces all parameters. Out of range values are clamped.
func (e *Engine) SetParams(p Params) Params {
	return e.UpdateParams(func(cur *Params) { *cur = p })
}

// UpdateParams applies fn to a copy of the current parameters, clamps the
// result and publishes it. It returns the published parameters.
func (e *Engine) UpdateParams(fn func(*Params)) Params {
	e.paramsMu.Lock()
	defer e.paramsMu.Unlock()

	p := *e.params.Load()
	fn(&p)
	n := p.normalize()
	if n != p {
		e.logger.Debug("clamped synth parameters", "requested", p, "applied", n)
	}
	e.params.Store(&n)
	return n
}

func (e *Engine) CycleWaveform() Waveform {
	return e.UpdateParams(func(p *Params) { p.Waveform = p.Waveform.Next() }).Waveform
}

func (e *Engine) ToggleUnison() bool {
	return e.UpdateParams(func(p *Params) { p.Unison = !p.Unison }).Unison
}

func (e *Engine) ToggleGoofyUnison() bool {
	return e.UpdateParams(func(p *Params) { p.GoofyUnison = !p.GoofyUnison }).GoofyUnison
}

func (e *Engine) AdjustDetune(delta float64) float64 {
	return e.UpdateParams(func(p *Params) { p.Detune += delta }).Detune
}

func (e *Engine) ToggleBitcrush() bool {
	return e.UpdateParams(func(p *Params) { p.Bitcrush = !p.Bitcrush }).Bitcrush
}

func (e *Engine) AdjustCrushBits(delta float64) float64 {
	return e.UpdateParams(func(p *Params) { p.CrushBits += delta }).CrushBits
}

func (e *Engine) ToggleCompressor() bool {
	return e.UpdateParams(func(p *Params) { p.Compressor = !p.Compressor }).Compressor
}

func (e *Engine) AdjustVolume(delta float64) float64 {
	return e.UpdateParams(func(p *Params) { p.Volume += delta }).Volume
}

func (e *Engine) CycleOctaveMode() OctaveMode {
	return e.UpdateParams(func(p *Params) { p.OctaveMode = p.OctaveMode.Next() }).OctaveMode
}
