package repl

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/expr-lang/expr/builtin"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/constl/lang"
)

// wordBoundaries separate completable words: whitespace, member access, and
// the operators and punctuation of both the declaration syntax and expr-lang.
const wordBoundaries = " \t.()[]+-*/%<>=!&|,?:;"

func isWordBoundary(r rune) bool { return strings.ContainsRune(wordBoundaries, r) }

// wordBounds returns the word around cursor and its byte offsets in input.
// The word is empty when the cursor sits between two boundaries.
func wordBounds(input string, cursor int) (word string, start, end int) {
	start = min(cursor, len(input))
	end = start

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// parentPath returns the member-access chain that ends just before the word
// starting at wordStart, such as "server.http" for "x + server.http.ho".
// Top-level words have no parent.
func parentPath(input string, wordStart int) string {
	chain := strings.TrimRight(input[:wordStart], ".")

	i := strings.LastIndexFunc(chain, func(r rune) bool {
		return r != '.' && isWordBoundary(r)
	})

	return chain[i+1:]
}

// childCandidates returns the completions under parent: every constant and
// builtin at the top level, otherwise the keys of the dict parent names.
func childCandidates(s *Session, parent string) []string {
	if parent == "" {
		return append(s.Env().Names(), ExprLangBuiltinNames()...)
	}

	if v, ok := s.lookupPath(parent); ok {
		if d, ok := v.(lang.Dict); ok {
			return d.Keys()
		}
	}

	return nil
}

// computeMatches ranks the candidates for the word at the cursor. Nothing is
// offered for an empty top-level word, so the idle hint stays visible, while
// an empty word after a dot lists every member unranked.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	candidates []string,
	wordStart, wordEnd int,
) {
	input := m.input.Value()

	word, wordStart, wordEnd := wordBounds(input, m.input.Position())

	if m.mode == modeCtrl {
		if word == "" {
			return nil, nil, wordStart, wordEnd
		}

		candidates = commandNames()

		return fuzzy.Find(word, candidates), candidates, wordStart, wordEnd
	}

	parent := parentPath(input, wordStart)
	candidates = childCandidates(m.session, parent)

	switch {
	case len(candidates) == 0, word == "" && parent == "":
		return nil, nil, wordStart, wordEnd

	case word == "":
		matches = make(fuzzy.Matches, len(candidates))
		for i, c := range candidates {
			matches[i] = fuzzy.Match{Str: c, Index: i}
		}

		return matches, candidates, wordStart, wordEnd
	}

	return fuzzy.Find(word, candidates), candidates, wordStart, wordEnd
}

var (
	matchedStyle  = suggestionStyle.Bold(true)
	selMatchStyle = selectedStyle.Bold(true)
)

// renderCandidateBar renders matches on one line no wider than width,
// ending in an ellipsis when they do not all fit. The candidate at suggIdx
// is highlighted while tabbing.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if width <= 0 {
		return ""
	}

	const sep = "  "

	ellipsis := sep + hintStyle.Render("...")

	var b strings.Builder

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx)
		if i > 0 {
			rendered = sep + rendered
		}

		// Room for the ellipsis is reserved unless this is the last match.
		need := lipgloss.Width(rendered)
		if i < len(matches)-1 {
			need += lipgloss.Width(ellipsis)
		}

		if i > 0 && lipgloss.Width(b.String())+need > width {
			b.WriteString(ellipsis)

			break
		}

		b.WriteString(rendered)
	}

	return b.String()
}

// renderCandidate renders a candidate with its fuzzy-matched characters in
// bold. Builtin functions get a "()" suffix that is not part of the
// completion.
func renderCandidate(match fuzzy.Match, selected bool) string {
	plain, bold := suggestionStyle, matchedStyle
	if selected {
		plain, bold = selectedStyle, selMatchStyle
	}

	matched := make(map[int]bool, len(match.MatchedIndexes))
	for _, i := range match.MatchedIndexes {
		matched[i] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		style := plain
		if matched[i] {
			style = bold
		}

		b.WriteString(style.Render(string(r)))
	}

	if _, ok := builtin.Index[match.Str]; ok {
		b.WriteString(plain.Render("()"))
	}

	return b.String()
}

// formatPreview summarizes v for the list command.
func formatPreview(v lang.Value) string {
	switch v := v.(type) {
	case lang.Integer:
		text := v.String()
		if len(text) > 40 {
			text = text[:37] + "..."
		}

		return text

	case lang.List:
		return fmt.Sprintf("list( %d items )", v.Len())

	case lang.Dict:
		return fmt.Sprintf("begin %d keys end", v.Len())
	}

	return "<unknown>"
}
