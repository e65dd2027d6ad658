package main

import (
	"log/slog"
	"strings"

	"git.disy.net/goetz/polysynth/synth"
)

const meterWidth = 32

type metricsSource interface {
	Metrics() synth.RenderMetrics
	Dropped() uint64
}

// meter watches the engine from outside the audio goroutine and reports
// clipping and dropped events as they start.
type meter struct {
	src    metricsSource
	logger *slog.Logger

	m       synth.RenderMetrics
	clipped bool
	dropped uint64
}

func newMeter(src metricsSource, logger *slog.Logger) *meter {
	return &meter{src: src, logger: logger}
}

// poll reads the latest metrics. It reports whether a new warning was logged.
func (m *meter) poll() bool {
	m.m = m.src.Metrics()
	warned := false

	if m.m.Clipped && !m.clipped {
		m.logger.Warn("output clipping", "peak", m.m.Peak, "volume", m.m.Params.Volume)
		warned = true
	}
	m.clipped = m.m.Clipped

	if d := m.src.Dropped(); d != m.dropped {
		m.logger.Warn("note events dropped", "total", d, "new", d-m.dropped)
		m.dropped = d
		warned = true
	}

	m.logger.Debug("level", "vu", vuBar(m.m.Peak), "voices", sounding(m.m.Voices[:]))
	return warned
}

func vuBar(peak float64) string {
	n := int(peak * meterWidth)
	n = max(0, min(n, meterWidth))
	return strings.Repeat("#", n) + strings.Repeat(".", meterWidth-n)
}

func sounding(vs []synth.VoiceState) int {
	n := 0
	for _, v := range vs {
		if !v.Finished {
			n++
		}
	}
	return n
}
