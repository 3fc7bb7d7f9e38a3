package suitability

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeKeyword lowercases s, drops every character outside [a-z0-9 +#.], collapses
// whitespace runs into a single space and trims the result.
func NormalizeKeyword(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	pendingSpace := false
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsSpace(r):
			pendingSpace = true
		case isKeywordRune(r):
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
		}
	}

	return b.String()
}

func isKeywordRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '+' || r == '#' || r == '.'
}

// foldDiacritics strips combining marks, so "Français" becomes "Francais".
func foldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}

// Matcher decides whether two free-text keywords refer to the same skill or language.
type Matcher struct {
	aliases AliasTable
	fold    bool
}

// MatcherOption configures a Matcher.
type MatcherOption func(*Matcher)

// WithDiacriticFolding folds accented letters to their base letter before normalizing.
func WithDiacriticFolding(enabled bool) MatcherOption {
	return func(m *Matcher) {
		m.fold = enabled
	}
}

// NewMatcher returns a Matcher that consults the given alias table.
func NewMatcher(aliases AliasTable, opts ...MatcherOption) *Matcher {
	m := &Matcher{aliases: aliases}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// DefaultMatcher returns a Matcher over DefaultAliases.
func DefaultMatcher() *Matcher {
	return NewMatcher(DefaultAliases())
}

// Aliases returns the alias table used by m.
func (m *Matcher) Aliases() AliasTable { return m.aliases }

// Normalize applies the matcher's normalization to s.
func (m *Matcher) Normalize(s string) string {
	if m.fold {
		s = foldDiacritics(s)
	}
	return NormalizeKeyword(s)
}

// Match reports whether a and b name the same skill: equal or contained in one another once
// normalized, or both related to the same alias group. Empty keywords never match.
func (m *Matcher) Match(a, b string) bool {
	na, nb := m.Normalize(a), m.Normalize(b)
	if na == "" || nb == "" {
		return false
	}

	if related(na, nb) {
		return true
	}

	for _, group := range m.aliases.groups {
		if relatedToAny(na, group) && relatedToAny(nb, group) {
			return true
		}
	}

	return false
}

// MatchLanguage reports whether two language names match. Only normalized equality and
// containment are considered; the alias table is not used.
func (m *Matcher) MatchLanguage(a, b string) bool {
	na, nb := m.Normalize(a), m.Normalize(b)
	if na == "" || nb == "" {
		return false
	}
	return related(na, nb)
}

func related(a, b string) bool {
	return a == b || strings.Contains(a, b) || strings.Contains(b, a)
}

func relatedToAny(keyword string, variants []string) bool {
	for _, v := range variants {
		if related(keyword, v) {
			return true
		}
	}
	return false
}

// containsMatch reports whether any candidate matches target.
func (m *Matcher) containsMatch(candidates []string, target string) bool {
	for _, c := range candidates {
		if m.Match(c, target) {
			return true
		}
	}
	return false
}
