package input

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"
)

const (
	keyboardOrigin = "keyboard"
	ctrlC          = 0x03
)

// ErrQuit is returned by Keyboard.Run when the user presses Ctrl-C.
var ErrQuit = errors.New("quit requested")

// Keyboard plays notes from a raw terminal. Terminals report key presses
// but not releases, so each press holds its note for gate; auto-repeat of a
// held key extends the gate without retriggering.
type Keyboard struct {
	router *Router
	ctl    Controller
	keys   KeyMap
	gate   time.Duration
	logger *slog.Logger

	mu   sync.Mutex
	held map[byte]*heldKey
}

type heldKey struct {
	note  int
	timer *time.Timer
}

func NewKeyboard(r *Router, ctl Controller, keys KeyMap, gate time.Duration, logger *slog.Logger) *Keyboard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Keyboard{
		router: r,
		ctl:    ctl,
		keys:   keys,
		gate:   gate,
		logger: logger,
		held:   make(map[byte]*heldKey),
	}
}

// scanKeys stops once done is closed. A read already blocked in r only
// returns when r does, so callers owning r should close it to unblock.
func scanKeys(r io.Reader, keys chan<- byte, errs chan<- error, done <-chan struct{}) {
	br := bufio.NewReader(r)
	for {
		b, err := br.ReadByte()
		if err != nil {
			// errs is buffered
			errs <- err
			return
		}
		select {
		case keys <- b:
		case <-done:
			return
		}
	}
}

// Run reads keys from r until ctx is done, r fails, or Ctrl-C is read.
// Notes still held are released before it returns. An exhausted reader
// returns nil.
func (k *Keyboard) Run(ctx context.Context, r io.Reader) error {
	defer k.releaseAll()

	keys := make(chan byte)
	errs := make(chan error, 1)
	done := make(chan struct{})
	defer close(done)
	go scanKeys(r, keys, errs, done)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errs:
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("can't read keyboard: %w", err)
		case b := <-keys:
			if err := k.handle(b); err != nil {
				return err
			}
		}
	}
}

func (k *Keyboard) handle(b byte) error {
	if b == ctrlC {
		return ErrQuit
	}
	if note, ok := k.keys.Notes[b]; ok {
		k.press(b, note)
		return nil
	}
	if a, ok := k.keys.Actions[b]; ok {
		v := a.Do(k.ctl, k.router)
		k.logger.Info("control", "action", a.Name, "value", v)
	}
	return nil
}

func (k *Keyboard) press(b byte, note int) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if h, ok := k.held[b]; ok {
		if h.timer.Stop() {
			h.timer.Reset(k.gate)
			return
		}
		// the gate expired concurrently: finish that note here
		delete(k.held, b)
		k.router.Release(keyboardOrigin, h.note)
	}

	h := &heldKey{note: note}
	h.timer = time.AfterFunc(k.gate, func() { k.expire(b, h) })
	k.held[b] = h
	k.router.Press(keyboardOrigin, note)
}

func (k *Keyboard) expire(b byte, h *heldKey) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.held[b] != h {
		return
	}
	delete(k.held, b)
	k.router.Release(keyboardOrigin, h.note)
}

func (k *Keyboard) releaseAll() {
	k.mu.Lock()
	defer k.mu.Unlock()

	for b, h := range k.held {
		h.timer.Stop()
		delete(k.held, b)
		k.router.Release(keyboardOrigin, h.note)
	}
}
