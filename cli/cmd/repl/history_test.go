package repl

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestHistory_AddAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)
	h := NewHistory(path)

	for _, e := range []HistoryEntry{
		{"a = 0", modeEval},
		{"list", modeCtrl},
		{"a", modeEval},
		{"list", modeEval},
		{"a = 0", modeEval}, // moves the first entry to the end
	} {
		if err := h.Add(e.Line, e.Mode); err != nil {
			t.Fatalf("add %q: %v", e.Line, err)
		}
	}

	want := []HistoryEntry{
		{"list", modeCtrl},
		{"a", modeEval},
		{"list", modeEval},
		{"a = 0", modeEval},
	}

	if got := h.Entries(); !slices.Equal(got, want) {
		t.Errorf("entries = %v, want %v", got, want)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if string(data) != "C:list\nE:a\nE:list\nE:a = 0\n" {
		t.Errorf("unexpected file content %q", data)
	}

	loaded := NewHistory(path)
	if err := loaded.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}

	if got := loaded.Entries(); !slices.Equal(got, want) {
		t.Errorf("loaded = %v, want %v", got, want)
	}
}

func TestHistory_AddIgnored(t *testing.T) {
	h := NewHistory(filepath.Join(t.TempDir(), baseHistory))

	for _, line := range []string{"a", "a", "  ", "a "} {
		if err := h.Add(line, modeEval); err != nil {
			t.Fatal(err)
		}
	}

	if h.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", h.Len())
	}

	if _, err := h.At(1); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("expected ErrOutOfBounds, got %v", err)
	}

	// A tag typed by the user is part of the line.
	if err := h.Add("C:x", modeEval); err != nil {
		t.Fatal(err)
	}

	if e, err := h.At(1); err != nil || e != (HistoryEntry{"C:x", modeEval}) {
		t.Errorf("At(1) = %+v, %v", e, err)
	}
}

func TestHistory_LoadCompacts(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)

	var src strings.Builder
	src.WriteString("untagged\n\nE:a\nC:list\nE:a\n")

	for i := range historyLimit {
		fmt.Fprintf(&src, "E:n%d\n", i)
	}

	if err := os.WriteFile(path, []byte(src.String()), 0o600); err != nil {
		t.Fatal(err)
	}

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}

	if h.Len() != historyLimit {
		t.Fatalf("expected %d entries, got %d", historyLimit, h.Len())
	}

	if e, _ := h.At(0); e != (HistoryEntry{"n0", modeEval}) {
		t.Errorf("oldest kept entry = %+v", e)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if n := strings.Count(string(data), "\n"); n != historyLimit {
		t.Errorf("expected compacted file of %d lines, got %d", historyLimit, n)
	}

	// Lookups still find entries after the indexes shifted.
	if err := h.Add("n5", modeEval); err != nil {
		t.Fatal(err)
	}

	if h.Len() != historyLimit {
		t.Errorf("repeat grew the history to %d", h.Len())
	}
}

func TestHistory_AddCreatesDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache", "constl", baseHistory)
	h := NewHistory(path)

	if err := h.Add("a = 0", modeEval); err != nil {
		t.Fatalf("add: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if string(data) != "E:a = 0\n" {
		t.Errorf("unexpected file content %q", data)
	}
}

func TestHistory_LoadMissing(t *testing.T) {
	h := NewHistory(filepath.Join(t.TempDir(), "missing"))
	if err := h.Load(); err != nil {
		t.Errorf("loading a missing file should succeed: %v", err)
	}

	if h.Len() != 0 {
		t.Errorf("expected empty history, got %d", h.Len())
	}
}

func TestParseHistoryEntry(t *testing.T) {
	tests := []struct {
		input string
		want  HistoryEntry
		ok    bool
	}{
		{"E:a = 0", HistoryEntry{"a = 0", modeEval}, true},
		{"C:show a", HistoryEntry{"show a", modeCtrl}, true},
		{"plain", HistoryEntry{"plain", modeEval}, true},
		{"   ", HistoryEntry{}, false},
	}

	for _, tt := range tests {
		got, ok := parseHistoryEntry(tt.input)
		if got != tt.want || ok != tt.ok {
			t.Errorf("parseHistoryEntry(%q) = %+v, %v", tt.input, got, ok)
		}

		if ok && got.String() != strings.TrimSpace(tt.input) && tt.input != "plain" {
			t.Errorf("String() = %q, want %q", got.String(), tt.input)
		}
	}
}
