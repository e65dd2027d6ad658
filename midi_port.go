package main

import (
	"fmt"
	"log/slog"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"git.disy.net/goetz/polysynth/input"
)

// listenMIDI opens the named input port, or the first one when port is
// empty, and feeds it to h. The returned func stops listening.
func listenMIDI(port string, h *input.MIDI, logger *slog.Logger) (func(), error) {
	ports := midi.GetInPorts()
	if len(ports) == 0 {
		return nil, fmt.Errorf("no midi ports")
	}
	for i, p := range ports {
		logger.Debug("midi port", "index", i, "name", p.String())
	}

	var in drivers.In
	var err error
	if port == "" {
		in, err = midi.InPort(0)
	} else {
		in, err = midi.FindInPort(port)
	}
	if err != nil {
		return nil, fmt.Errorf("can't find midi port %q: %w", port, err)
	}

	stop, err := midi.ListenTo(in, h.Handle, midi.HandleError(func(err error) {
		logger.Warn("midi listener error", "port", in.String(), "err", err)
	}))
	if err != nil {
		return nil, fmt.Errorf("can't listen to %s: %w", in.String(), err)
	}
	logger.Info("midi input connected", "port", in.String())

	return func() {
		stop()
		midi.CloseDriver()
	}, nil
}
