package main

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"git.disy.net/goetz/polysynth/synth"
)

const (
	bounceBitDepth  = 16
	wavFormatPCM    = 1
	maxBounceLength = 10 * 60
)

type scoreEvent struct {
	at   float64
	on   bool
	note int
}

// schedule flattens the score into time ordered events. Releases sort
// before presses at the same instant so a repeated note retriggers.
func (c BounceConfig) schedule(base float64) []scoreEvent {
	events := make([]scoreEvent, 0, 2*len(c.Notes))
	for _, n := range c.Notes {
		events = append(events,
			scoreEvent{at: base + n.Start, on: true, note: n.Note},
			scoreEvent{at: base + n.Start + n.Length, on: false, note: n.Note},
		)
	}
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].at != events[j].at {
			return events[i].at < events[j].at
		}
		return !events[i].on && events[j].on
	})
	return events
}

func bounce(path string, engine *synth.Engine, score BounceConfig) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("can't create %s: %w", path, err)
	}
	defer f.Close()
	if err := renderWAV(f, engine, score); err != nil {
		return err
	}
	return f.Close()
}

// renderWAV plays score through engine block by block and encodes the
// output as 16-bit PCM. Events are queued with their exact times, so an
// onset inside a block starts at the right frame.
func renderWAV(w io.WriteSeeker, engine *synth.Engine, score BounceConfig) error {
	if score.Seconds <= 0 || score.Seconds > maxBounceLength {
		return fmt.Errorf("bounce length must be in (0, %d] seconds: %v", maxBounceLength, score.Seconds)
	}
	sr := engine.SampleRate()
	ch := engine.Channels()
	block := engine.BufferFrames()

	enc := wav.NewEncoder(w, sr, bounceBitDepth, ch, wavFormatPCM)
	events := score.schedule(engine.Now())

	buf := make([]float32, block*ch)
	ib := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: ch, SampleRate: sr},
		SourceBitDepth: bounceBitDepth,
		Data:           make([]int, block*ch),
	}

	frames := int(score.Seconds * float64(sr))
	for done := 0; done < frames; {
		n := min(block, frames-done)
		end := engine.Now() + float64(n)/float64(sr)
		for len(events) > 0 && events[0].at < end {
			ev := events[0]
			events = events[1:]
			if ev.on {
				engine.NoteOn(ev.note, ev.at)
			} else {
				engine.NoteOff(ev.note, ev.at)
			}
		}

		out := buf[:n*ch]
		engine.Render(out)
		ib.Data = ib.Data[:n*ch]
		for i, s := range out {
			ib.Data[i] = int(float32ToInt16(s))
		}
		if err := enc.Write(ib); err != nil {
			return fmt.Errorf("can't write wav: %w", err)
		}
		done += n
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("can't finish wav: %w", err)
	}
	return nil
}

// float32ToInt16 clamps, as the WAV has no headroom above full scale.
func float32ToInt16(x float32) int16 {
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}
	return int16(x * 32767)
}
