package repl

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/zeebo/xxh3"

	"github.com/ardnew/constl/pkg"
)

const (
	baseHistory = "history.utf8"

	// historyLimit bounds the entries kept in memory and on disk.
	historyLimit = 1000
)

// modeTags prefix each line in the history file with the mode it was
// entered in. Untagged lines are read as eval mode.
var modeTags = [...]string{modeEval: "E:", modeCtrl: "C:"}

// HistoryEntry is a submitted line and the mode it was entered in.
type HistoryEntry struct {
	Line string
	Mode inputMode
}

func (e HistoryEntry) String() string { return modeTags[e.Mode] + e.Line }

func parseHistoryEntry(s string) (HistoryEntry, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return HistoryEntry{}, false
	}

	for mode, tag := range modeTags {
		if line, ok := strings.CutPrefix(s, tag); ok {
			return HistoryEntry{Line: line, Mode: inputMode(mode)}, true
		}
	}

	return HistoryEntry{Line: s, Mode: modeEval}, true
}

// History is the persistent list of submitted lines, oldest first. Each
// distinct entry appears once, at the position it was last submitted.
type History struct {
	mu      sync.RWMutex
	path    string
	entries []HistoryEntry
	pos     map[uint64]int // xxh3 of HistoryEntry.String to index in entries
}

// NewHistory returns an empty History persisted at path.
func NewHistory(path string) *History {
	return &History{path: path, pos: make(map[uint64]int)}
}

// Load replaces the entries with those in the history file. A missing file
// is an empty history. The file is compacted when it holds repeated entries
// or more than historyLimit of them.
func (h *History) Load() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	file, err := os.Open(h.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	if err != nil {
		return err
	}
	defer file.Close()

	h.entries = h.entries[:0]
	clear(h.pos)

	compact := false

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if e, ok := parseHistoryEntry(scanner.Text()); ok {
			compact = h.add(e) || compact
		}
	}

	if err := scanner.Err(); err != nil {
		return err
	}

	if compact {
		return h.save()
	}

	return nil
}

// Add appends a line entered in mode. Blank lines and immediate repeats are
// ignored. An earlier copy of the entry is removed, which rewrites the file;
// otherwise the entry is appended to it.
func (h *History) Add(line string, mode inputMode) error {
	e := HistoryEntry{Line: strings.TrimSpace(line), Mode: mode}
	if e.Line == "" {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if n := len(h.entries); n > 0 && h.entries[n-1] == e {
		return nil
	}

	if h.add(e) {
		return h.save()
	}

	file, err := h.open(os.O_APPEND | os.O_CREATE | os.O_WRONLY)
	if err != nil {
		return err
	}

	_, err = file.WriteString(e.String() + "\n")

	return errors.Join(err, file.Close())
}

// add appends e and reports whether older entries were dropped to make room
// or to remove a repeat of e. Must be called with h.mu held.
func (h *History) add(e HistoryEntry) bool {
	key := xxh3.HashString(e.String())
	first := -1

	if i, ok := h.pos[key]; ok && h.entries[i] == e {
		h.entries = slices.Delete(h.entries, i, i+1)
		first = i
	}

	h.entries = append(h.entries, e)

	if over := len(h.entries) - historyLimit; over > 0 {
		h.entries = slices.Delete(h.entries, 0, over)
		clear(h.pos)
		first = 0
	}

	if first < 0 {
		h.pos[key] = len(h.entries) - 1

		return false
	}

	for i := first; i < len(h.entries); i++ {
		h.pos[xxh3.HashString(h.entries[i].String())] = i
	}

	return true
}

// open opens the history file for writing, creating its directory first.
func (h *History) open(flag int) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(h.path), pkg.DirMode); err != nil {
		return nil, err
	}

	return os.OpenFile(h.path, flag, 0o600)
}

// save rewrites the history file. Must be called with h.mu held.
func (h *History) save() error {
	file, err := h.open(os.O_WRONLY | os.O_CREATE | os.O_TRUNC)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(file)
	for _, e := range h.entries {
		if _, err := w.WriteString(e.String() + "\n"); err != nil {
			return errors.Join(err, file.Close())
		}
	}

	return errors.Join(w.Flush(), file.Close())
}

// At returns the entry at index i, where 0 is the oldest.
func (h *History) At(i int) (HistoryEntry, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if i < 0 || i >= len(h.entries) {
		return HistoryEntry{}, ErrOutOfBounds
	}

	return h.entries[i], nil
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.entries)
}

// Entries returns a copy of all entries, oldest first.
func (h *History) Entries() []HistoryEntry {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return slices.Clone(h.entries)
}
