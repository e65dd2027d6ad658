package synth

import "sync/atomic"

type commandKind uint8

const (
	cmdNoteOn commandKind = iota
	cmdNoteOff
	cmdAllNotesOff
)

type command struct {
	kind commandKind
	note int
	time float64
}

// commandQueue is a bounded single-producer single-consumer ring.
// push and pop never block; callers serialize producers themselves.
type commandQueue struct {
	buf  []command
	mask uint64
	head atomic.Uint64 // next slot to pop, written by the consumer
	tail atomic.Uint64 // next slot to push, written by the producer
}

func newCommandQueue(capacity int) *commandQueue {
	return &commandQueue{
		buf:  make([]command, capacity),
		mask: uint64(capacity - 1),
	}
}

// push reports false when the queue is full.
func (q *commandQueue) push(c command) bool {
	tail := q.tail.Load()
	if tail-q.head.Load() == uint64(len(q.buf)) {
		return false
	}
	q.buf[tail&q.mask] = c
	q.tail.Store(tail + 1)
	return true
}

func (q *commandQueue) pop() (command, bool) {
	head := q.head.Load()
	if head == q.tail.Load() {
		return command{}, false
	}
	c := q.buf[head&q.mask]
	q.head.Store(head + 1)
	return c, true
}

func (q *commandQueue) len() int {
	return int(q.tail.Load() - q.head.Load())
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}
