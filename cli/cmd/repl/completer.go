package repl

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/tmpl/lang"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "list", "clear", "quit"}

// isWordBoundary reports whether r delimits a completion word: whitespace,
// the path separator, group delimiters, and directive punctuation.
func isWordBoundary(r rune) bool {
	switch r {
	case ' ', '\t', '.',
		'(', ')', '[', ']', '{', '}',
		'$', '@', '#', '!', ':', ',', '"', '\'':
		return true
	}

	return false
}

// wordBounds returns the word at cursor and its byte boundaries within
// input. The word is empty when the cursor sits on a boundary.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(cursor, len(input))

	for start = cursor; start > 0; {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	for end = cursor; end < len(input); {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// parentPath returns the dotted path leading up to the word starting at
// wordStart, e.g. "server.http" for "$(server.http.ho".
func parentPath(input string, wordStart int) string {
	prefix := input[:wordStart]

	if !strings.HasSuffix(prefix, ".") {
		return ""
	}

	prefix = strings.TrimRight(prefix, ".")

	pos := len(prefix)
	for pos > 0 {
		r, size := utf8.DecodeLastRuneInString(prefix[:pos])
		if r != '.' && isWordBoundary(r) {
			break
		}

		pos -= size
	}

	return prefix[pos:]
}

// childCandidates returns completions below parent: the root scope names
// for an empty parent, otherwise the keys of the map item parent resolves
// to.
func childCandidates(ev *lang.Evaluator, parent string) []string {
	if parent == "" {
		return ev.Names()
	}

	segments := strings.Split(parent, ".")

	item, ok := ev.Lookup(segments[0])

	for _, seg := range segments[1:] {
		if !ok {
			return nil
		}

		item, ok = child(item, seg)
	}

	if !ok || item.Kind() != lang.ItemMap {
		return nil
	}

	return item.Keys()
}

// child returns the element of a map or list item named by seg.
func child(item *lang.Item, seg string) (*lang.Item, bool) {
	switch item.Kind() {
	case lang.ItemMap:
		return item.Get(seg)

	case lang.ItemList:
		n := 0

		for _, r := range seg {
			if r < '0' || r > '9' {
				return nil, false
			}

			n = n*10 + int(r-'0')
		}

		if seg == "" || n >= item.Len() {
			return nil, false
		}

		return item.Elems()[n], true

	default:
		return nil, false
	}
}

// computeMatches calculates the fuzzy matches for the word at the cursor.
// An empty word matches nothing at the top level and every child after a
// dot.
func (m model) computeMatches() (matches fuzzy.Matches, wordStart, wordEnd int) {
	input := m.input.Value()

	word, wordStart, wordEnd := wordBounds(input, m.input.Position())

	var candidates []string

	if m.mode == modeCtrl {
		if word == "" {
			return nil, wordStart, wordEnd
		}

		candidates = ctrlCommands
	} else {
		parent := parentPath(input, wordStart)
		candidates = childCandidates(m.eval, parent)

		if word == "" {
			if parent == "" {
				return nil, wordStart, wordEnd
			}

			matches = make(fuzzy.Matches, len(candidates))
			for i, c := range candidates {
				matches[i] = fuzzy.Match{Str: c, Index: i}
			}

			return matches, wordStart, wordEnd
		}
	}

	return fuzzy.Find(word, candidates), wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within width.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	ellipsis := hintStyle.Render("...")

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx)

		w := lipgloss.Width(rendered)
		if i > 0 {
			w += lipgloss.Width(sep)
		}

		if i > 0 && i < len(matches)-1 && used+w+lipgloss.Width(ellipsis) > width {
			b.WriteString(sep + ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += w
	}

	return b.String()
}

// renderCandidate renders a candidate with its matched characters
// highlighted.
func renderCandidate(match fuzzy.Match, selected bool) string {
	base, highlight := suggestionStyle, suggestionStyle.Bold(true)
	if selected {
		base, highlight = selectedStyle, selectedStyle.Bold(true)
	}

	matched := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matched[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if matched[i] {
			b.WriteString(highlight.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	return b.String()
}

// previewLimit is the maximum width of an item preview in the name list.
const previewLimit = 48

// preview renders a one-line summary of item.
func preview(item *lang.Item) string {
	s := item.String()
	if item.Kind() == lang.ItemLiteral || item.Kind() == lang.ItemIdent {
		s = item.Token().Text
	}

	if utf8.RuneCountInString(s) > previewLimit {
		s = string([]rune(s)[:previewLimit-3]) + "..."
	}

	return item.Kind().String() + " " + s
}
