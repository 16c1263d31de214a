package profile

import "testing"

func TestNew(t *testing.T) {
	c := New(WithMode("cpu"), WithPath("/tmp/prof"), WithQuiet(true))

	want := Config{Mode: "cpu", Path: "/tmp/prof", Quiet: true}
	if c != want {
		t.Errorf("expected %+v, got %+v", want, c)
	}
}

func TestStart_EmptyMode(t *testing.T) {
	s := New(WithPath(t.TempDir())).Start()

	if _, ok := s.(ignore); !ok {
		t.Errorf("expected no-op stopper, got %T", s)
	}

	s.Stop()
}
