// Package censor masks disallowed words in chat text.
//
// A term matches only as a whole word, using regular-expression word-boundary
// semantics: the characters on either side of the match must differ in
// "wordness" from the first and last character of the match. Matching is case
// insensitive. Each match is replaced by one mask character per character of
// the matched text.
package censor

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

const maskChar = "*"

// built-in list used when no term file is configured
var DefaultTerms = []string{
	"hate", "harass", "slur", "offensive", "fuck", "shit", "ass",
	"bastard", "bitch", "cock", "dick", "whore", "sex",
}

// masks whole-word occurrences of a fixed term list. safe for concurrent use.
type Filter struct {
	terms []*regexp.Regexp
}

type span struct {
	start, end int
}

// builds a filter from terms. blank and duplicate terms are ignored; list order
// decides precedence when terms overlap.
func New(terms []string) *Filter {
	f := &Filter{terms: make([]*regexp.Regexp, 0, len(terms))}
	seen := make(map[string]struct{}, len(terms))

	for _, term := range terms {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}

		key := strings.ToLower(term)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		f.terms = append(f.terms, regexp.MustCompile(`(?i)`+regexp.QuoteMeta(term)))
	}

	return f
}

// returns a filter over DefaultTerms
func Default() *Filter {
	return New(DefaultTerms)
}

// number of active terms
func (f *Filter) Len() int {
	return len(f.terms)
}

// returns text with every whole-word term occurrence masked. all terms are
// searched in the original text, so a mask never creates or hides a match for
// another term; spans claimed by an earlier term are skipped by later ones.
func (f *Filter) Censor(text string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}

	var masked []span

	for _, re := range f.terms {
		for _, s := range wholeWordMatches(re, text) {
			if overlapsAny(masked, s) {
				continue
			}
			masked = append(masked, s)
		}
	}

	if len(masked) == 0 {
		return text
	}

	sort.Slice(masked, func(i, j int) bool { return masked[i].start < masked[j].start })

	var b strings.Builder
	b.Grow(len(text))

	prev := 0
	for _, s := range masked {
		b.WriteString(text[prev:s.start])
		b.WriteString(strings.Repeat(maskChar, utf8.RuneCountInString(text[s.start:s.end])))
		prev = s.end
	}
	b.WriteString(text[prev:])

	return b.String()
}

// reports whether Censor would change text
func (f *Filter) Matches(text string) bool {
	for _, re := range f.terms {
		if len(wholeWordMatches(re, text)) > 0 {
			return true
		}
	}
	return false
}

// finds matches bounded by word boundaries on both sides. a candidate that
// fails the boundary test only advances the search by one character, so a
// valid match overlapping a rejected one is still found.
func wholeWordMatches(re *regexp.Regexp, text string) []span {
	var spans []span

	pos := 0
	for pos <= len(text) {
		loc := re.FindStringIndex(text[pos:])
		if loc == nil {
			break
		}

		start, end := pos+loc[0], pos+loc[1]

		if end > start && isBoundary(text, start) && isBoundary(text, end) {
			spans = append(spans, span{start, end})
			pos = end
			continue
		}

		_, size := utf8.DecodeRuneInString(text[start:])
		if size == 0 {
			break
		}
		pos = start + size
	}

	return spans
}

func overlapsAny(spans []span, s span) bool {
	for _, o := range spans {
		if s.start < o.end && o.start < s.end {
			return true
		}
	}
	return false
}

// a boundary sits between a word and a non-word character (or the text edge)
func isBoundary(text string, i int) bool {
	before := false
	if i > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:i])
		before = isWordRune(r)
	}

	after := false
	if i < len(text) {
		r, _ := utf8.DecodeRuneInString(text[i:])
		after = isWordRune(r)
	}

	return before != after
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsMark(r)
}
