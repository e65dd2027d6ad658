// Package synth is a real-time polyphonic synthesis engine.
//
// An Engine owns a fixed pool of voices and renders interleaved float32
// buffers from the audio thread. Note events and parameter changes arrive
// from other goroutines through a lock-free command queue and atomically
// published parameter snapshots, so Render never blocks.
package synth
