package repl

import (
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
)

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctxFunc(), "repl keypress",
		slog.String("key", msg.String()),
	)

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.tabActive = false
		m.recallFrom = nil
		m.historyIdx = m.history.Len()
		m = m.setInput("", 0)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		m.recallFrom = nil

		if !m.tabActive || len(m.matches) == 0 {
			return m.submit()
		}

		// Lock in the current candidate without submitting.
		m.tabActive = false
		m.refreshMatches(true)

		return m, nil

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp, tea.KeyDown:
		step := 1
		if msg.Type == tea.KeyUp {
			step = -1
		}

		if msg.Alt {
			return m.recall(step, scopeCtrl), nil
		}

		return m.recall(step, scopeAll), nil

	case tea.KeyShiftUp:
		return m.recall(-1, scopeMode), nil

	case tea.KeyShiftDown:
		return m.recall(1, scopeMode), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m = m.setInput(m.preTab.text, m.preTab.cursor)

			return m, nil
		}

		m.recallFrom = nil

		return m.switchTo(m.mode.other()), nil
	}

	// Space accepts the candidate being cycled.
	autoConfirm := msg.Type == tea.KeyRunes
	if !autoConfirm || msg.String() == " " {
		m.tabActive = false
	}

	if !autoConfirm {
		m.recallFrom = nil
	}

	var cmd tea.Cmd

	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	m.refreshMatches(autoConfirm)

	return m, cmd
}

// setInput replaces the input text and cursor and recomputes completions.
func (m model) setInput(text string, cursor int) model {
	m.input.SetValue(text)
	m.input.SetCursor(cursor)
	m.refreshMatches(false)

	return m
}

// switchTo makes mode active, saving the current draft and restoring the
// draft of mode.
func (m model) switchTo(mode inputMode) model {
	m.drafts[m.mode] = draft{m.input.Value(), m.input.Position()}
	m.mode = mode
	m.input.Prompt = mode.prompt()

	return m.setInput(m.drafts[mode].text, m.drafts[mode].cursor)
}

// cycle selects the next (step 1) or previous (step -1) completion candidate
// and writes it into the input. A sole candidate is accepted at once.
func (m model) cycle(step int) model {
	n := len(m.matches)

	switch {
	case n == 0:
		return m

	case n == 1:
		m.replaceCurrentWord(m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m

	case m.tabActive:
		m.suggIdx = (m.suggIdx + step + n) % n

	default:
		m.tabActive = true
		m.preTab = draft{m.input.Value(), m.input.Position()}

		m.suggIdx = 0
		if step < 0 {
			m.suggIdx = n - 1
		}
	}

	m.replaceCurrentWord(m.matches[m.suggIdx].Str)

	return m
}

// replaceCurrentWord replaces the word under completion with replacement and
// moves the cursor after it.
func (m *model) replaceCurrentWord(replacement string) {
	input := m.input.Value()
	cursor := m.wordStart + len(replacement)

	m.input.SetValue(input[:m.wordStart] + replacement + input[m.wordEnd:])
	m.input.SetCursor(cursor)

	m.wordEnd = cursor
}

// refreshMatches recomputes completions for the current input. With
// autoConfirm, a word that already equals its sole candidate is accepted.
// Deletions and cursor movement pass false so editing never completes
// unexpectedly.
func (m *model) refreshMatches(autoConfirm bool) {
	m.matches, m.candidates, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	if candidate := m.matches[0].Str; m.input.Value()[m.wordStart:m.wordEnd] == candidate {
		m.replaceCurrentWord(candidate)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil
	}
}

// recallScope restricts which history entries [model.recall] visits.
type recallScope int

const (
	// scopeAll visits every entry, switching mode to match each one.
	scopeAll recallScope = iota
	// scopeMode visits entries of the active mode.
	scopeMode
	// scopeCtrl switches to control mode and visits its entries. Running
	// off either end restores the input from before navigation began.
	scopeCtrl
)

// recall moves step entries through history within scope.
func (m model) recall(step int, scope recallScope) model {
	var keep func(HistoryEntry) bool

	switch scope {
	case scopeAll:
		keep = func(HistoryEntry) bool { return true }

	case scopeMode:
		mode := m.mode
		keep = func(e HistoryEntry) bool { return e.Mode == mode }

	case scopeCtrl:
		if m.recallFrom == nil {
			m.recallFrom = &recallOrigin{
				mode:  m.mode,
				draft: draft{m.input.Value(), m.input.Position()},
			}
			m = m.switchTo(modeCtrl)
		}

		keep = func(e HistoryEntry) bool { return e.Mode == modeCtrl }
	}

	for i := m.historyIdx + step; i >= 0 && i < m.history.Len(); i += step {
		entry, err := m.history.At(i)
		if err != nil || !keep(entry) {
			continue
		}

		m.historyIdx = i
		if m.mode != entry.Mode {
			m = m.switchTo(entry.Mode)
		}

		return m.setInput(entry.Line, len(entry.Line))
	}

	switch {
	case scope == scopeCtrl && m.recallFrom != nil:
		origin := m.recallFrom
		m.recallFrom = nil
		m.historyIdx = m.history.Len()

		if m.mode != origin.mode {
			m = m.switchTo(origin.mode)
		}

		return m.setInput(origin.draft.text, origin.draft.cursor)

	case step > 0 && m.historyIdx < m.history.Len():
		// Past the newest entry: back to an empty line.
		m.historyIdx = m.history.Len()

		return m.setInput("", 0)
	}

	return m
}
