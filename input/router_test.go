package input

import "testing"

func TestRouterTransposeKeepsPairs(t *testing.T) {
	t.Parallel()

	s := &fakeSynth{}
	r := NewRouter(s, 0, quiet)

	r.Press("midi", 60)
	if got := r.Transpose(12); got != 12 {
		t.Fatalf("Transpose(12) = %d", got)
	}
	r.Press("midi", 62)
	r.Release("midi", 60)
	r.Release("midi", 62)

	want := []string{"on 60", "on 74", "off 60", "off 74"}
	if got := s.Events(); !equalEvents(got, want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	if r.Transposition() != 12 {
		t.Fatalf("Transposition() = %d", r.Transposition())
	}
}

func TestRouterIgnoresRepeatsAndStrayReleases(t *testing.T) {
	t.Parallel()

	s := &fakeSynth{}
	r := NewRouter(s, -12, quiet)

	r.Release("keyboard", 60)
	r.Press("keyboard", 60)
	r.Press("keyboard", 60)
	r.Press("midi", 60)
	r.Release("keyboard", 60)
	r.Release("keyboard", 60)

	want := []string{"on 48", "on 48", "off 48"}
	if got := s.Events(); !equalEvents(got, want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
}

func TestRouterPanic(t *testing.T) {
	t.Parallel()

	s := &fakeSynth{}
	r := NewRouter(s, 0, quiet)
	r.Press("midi", 60)
	r.Panic()
	r.Release("midi", 60)

	want := []string{"on 60", "panic"}
	if got := s.Events(); !equalEvents(got, want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
}
