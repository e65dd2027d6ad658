package synth

import (
	"sync"
	"sync/atomic"
)

// RenderMetrics describes the most recently rendered buffer.
type RenderMetrics struct {
	// Clipped is set when any output sample left [-1, 1].
	Clipped bool
	// Peak is the largest absolute output sample.
	Peak float64
	// Frames is the number of frames in the buffer; Left and Right hold at
	// most the engine's snapshot length of them.
	Frames int
	// Time is the timeline position of the buffer's first frame.
	Time        float64
	Left, Right []float32
	Voices      [PoolSize]VoiceState
	Params      Params
}

func (m *RenderMetrics) copyTo(dst *RenderMetrics) {
	left, right := dst.Left, dst.Right
	*dst = *m
	dst.Left = append(left[:0], m.Left...)
	dst.Right = append(right[:0], m.Right...)
}

const tripleDirty = 4

// metricsBuffer is a lock-free triple buffer. The audio goroutine writes into
// back and publishes; the reader swaps the freshest buffer into front.
// Neither side blocks the other and publishing never allocates.
type metricsBuffer struct {
	bufs  [3]RenderMetrics
	state atomic.Uint32 // middle index | tripleDirty
	back  int           // writer owned

	readMu sync.Mutex
	front  int // reader owned, guarded by readMu
}

func newMetricsBuffer(snapshotFrames int) *metricsBuffer {
	b := &metricsBuffer{back: 0, front: 2}
	b.state.Store(1)
	for i := range b.bufs {
		b.bufs[i].Left = make([]float32, 0, snapshotFrames)
		b.bufs[i].Right = make([]float32, 0, snapshotFrames)
	}
	return b
}

func (b *metricsBuffer) writable() *RenderMetrics {
	return &b.bufs[b.back]
}

func (b *metricsBuffer) publish() {
	old := b.state.Swap(uint32(b.back) | tripleDirty)
	b.back = int(old &^ tripleDirty)
}

// read copies the latest published metrics into dst.
func (b *metricsBuffer) read(dst *RenderMetrics) {
	b.readMu.Lock()
	defer b.readMu.Unlock()

	if b.state.Load()&tripleDirty != 0 {
		old := b.state.Swap(uint32(b.front))
		b.front = int(old &^ tripleDirty)
	}
	b.bufs[b.front].copyTo(dst)
}
