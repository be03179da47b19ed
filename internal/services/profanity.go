package services

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ProfanityChecker decides whether free text may be published.
type ProfanityChecker interface {
	ContainsProfanity(text string) bool
}

var defaultBlockedWords = []string{
	"asshole", "bastard", "bitch", "bollocks", "bullshit", "crap", "cunt",
	"damn", "dickhead", "fuck", "fucker", "fucking", "motherfucker",
	"piss", "prick", "shit", "slut", "twat", "wanker", "whore",
	"idiot", "imbecile", "moron", "retard", "stupid",
	"wtf", "stfu", "f.u.c.k", "s.h.i.t",
}

// WordListFilter flags text containing a blocked word. Matching ignores
// case and diacritics.
type WordListFilter struct {
	blocked map[string]struct{}
}

// NewWordListFilter builds a filter over words, or the default list when none are given.
func NewWordListFilter(words ...string) *WordListFilter {
	if len(words) == 0 {
		words = defaultBlockedWords
	}
	f := &WordListFilter{blocked: make(map[string]struct{}, len(words))}
	for _, w := range words {
		f.blocked[fold(w)] = struct{}{}
	}
	return f
}

// ContainsProfanity reports whether any word of text, or text as a whole, is blocked.
func (f *WordListFilter) ContainsProfanity(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	folded := fold(text)
	if _, ok := f.blocked[strings.TrimSpace(folded)]; ok {
		return true
	}
	words := strings.FieldsFunc(folded, func(r rune) bool {
		return unicode.IsSpace(r) || strings.ContainsRune(",!?;:-_\"'", r)
	})
	for _, w := range words {
		if _, ok := f.blocked[w]; ok {
			return true
		}
		// "shit." and "s.h.i.t" both count.
		if _, ok := f.blocked[strings.Trim(w, ".")]; ok {
			return true
		}
	}
	return false
}

// fold lowercases s and strips combining marks, so "Ídiot" matches "idiot".
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}
