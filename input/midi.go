package input

import (
	"gitlab.com/gomidi/midi/v2"
)

const midiOrigin = "midi"

// MIDI forwards note messages from a MIDI port to a Router. Its Handle
// method has the signature midi.ListenTo expects.
type MIDI struct {
	router *Router
}

func NewMIDI(r *Router) *MIDI {
	return &MIDI{router: r}
}

// Handle decodes msg. Note on with velocity 0 counts as note off. Channel and
// every other message type are ignored.
func (m *MIDI) Handle(msg midi.Message, timestampms int32) {
	var ch, key, vel uint8
	switch {
	case msg.GetNoteStart(&ch, &key, &vel):
		m.router.Press(midiOrigin, int(key))
	case msg.GetNoteEnd(&ch, &key):
		m.router.Release(midiOrigin, int(key))
	}
}
