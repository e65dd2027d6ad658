package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/term"

	"git.disy.net/goetz/polysynth/input"
	"git.disy.net/goetz/polysynth/synth"
)

const meterInterval = 250 * time.Millisecond

func newEngine(c *Config, logger *slog.Logger) (*synth.Engine, error) {
	p, err := c.Synth.Params()
	if err != nil {
		return nil, err
	}
	steal, err := synth.ParseStealPolicy(c.StealPolicy)
	if err != nil {
		return nil, err
	}
	return synth.New(
		synth.WithSampleRate(c.SampleRate),
		synth.WithChannels(c.Channels),
		synth.WithBufferFrames(c.BufferFrames),
		synth.WithStealPolicy(steal),
		synth.WithParams(p),
		synth.WithLogger(logger),
	)
}

func main() {
	configFile := flag.String("config", "", "Path to config, created with defaults if not found.")
	bounceFile := flag.String("bounce", "", "Render the config's bounce score to this WAV file and exit.")
	debug := flag.Bool("debug", false, "Log at debug level, including the level meter.")
	flag.Parse()
	if *configFile == "" {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		flag.PrintDefaults()
		return
	}
	if err := run(*configFile, *bounceFile, *debug); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(configFile, bounceFile string, debug bool) error {
	config, err := ReadConfig(configFile)
	if err != nil {
		return fmt.Errorf("can't read config %s: %w", configFile, err)
	}

	if bounceFile != "" {
		logger := newLogger(os.Stderr, debug)
		engine, err := newEngine(config, logger)
		if err != nil {
			return err
		}
		if err := bounce(bounceFile, engine, config.Bounce); err != nil {
			return err
		}
		logger.Info("bounced", "path", bounceFile, "seconds", config.Bounce.Seconds)
		return nil
	}

	stdin := int(os.Stdin.Fd())
	raw := config.Keyboard.Enabled && term.IsTerminal(stdin)
	var logOut io.Writer = os.Stderr
	if raw {
		logOut = crlfWriter{os.Stderr}
	}
	logger := newLogger(logOut, debug)

	engine, err := newEngine(config, logger)
	if err != nil {
		return err
	}

	out, err := openBackend(config.Backend, engine)
	if err != nil {
		return err
	}
	defer func() {
		if err := out.Close(); err != nil {
			logger.Warn("can't close audio backend", "err", err)
		}
	}()
	if err := out.Start(); err != nil {
		return err
	}
	logger.Info("audio started",
		"backend", config.Backend,
		"sampleRate", engine.SampleRate(),
		"channels", engine.Channels(),
		"bufferFrames", engine.BufferFrames())

	router := input.NewRouter(engine, config.Transpose, logger)

	if config.MIDI.Enabled {
		stop, err := listenMIDI(config.MIDI.Port, input.NewMIDI(router), logger)
		if err != nil {
			// keyboard still works without midi
			logger.Warn("midi input unavailable", "err", err)
		} else {
			defer stop()
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var keyboardDone chan error
	if config.Keyboard.Enabled {
		if raw {
			old, err := term.MakeRaw(stdin)
			if err != nil {
				return fmt.Errorf("can't set terminal raw: %w", err)
			}
			// ignore Restore error
			defer term.Restore(stdin, old)
		}
		gate := time.Duration(config.Keyboard.GateSeconds * float64(time.Second))
		kb := input.NewKeyboard(router, engine, input.DefaultKeyMap(), gate, logger)
		keyboardDone = make(chan error, 1)
		go func() {
			keyboardDone <- kb.Run(ctx, os.Stdin)
		}()
		logger.Info("keyboard ready", "raw", raw, "quit", "ctrl-c")
	}

	configs := make(chan *Config)
	errs := make(chan error)
	done := make(chan struct{})
	defer close(done)
	if config.WatchConfig {
		if err := Watch(configFile, configs, errs, done, logger); err != nil {
			return fmt.Errorf("can't start watcher: %w", err)
		}
	}

	m := newMeter(engine, logger)
	ticker := time.NewTicker(meterInterval)
	defer ticker.Stop()

	for {
		select {
		case c := <-configs:
			p, err := c.Synth.Params()
			if err != nil {
				logger.Error("ignoring config change", "err", err)
				continue
			}
			applied := engine.SetParams(p)
			logger.Info("synth parameters applied", "waveform", applied.Waveform, "octaveMode", applied.OctaveMode)
		case err := <-errs:
			logger.Error("config watcher", "err", err)
		case err := <-keyboardDone:
			keyboardDone = nil
			switch {
			case errors.Is(err, input.ErrQuit), errors.Is(err, context.Canceled):
				logger.Info("exiting")
				return nil
			case err != nil:
				return err
			}
			// stdin closed, keep playing midi until a signal arrives
			logger.Info("keyboard input ended")
		case <-ticker.C:
			m.poll()
		case <-ctx.Done():
			logger.Info("exiting")
			return nil
		}
	}
}
