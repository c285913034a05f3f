// Package matching holds the pure decision logic of a sync pass: title
// normalization, similarity scoring, recency eligibility and the tiered
// candidate matcher. Nothing in this package performs I/O.
package matching

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	apostropheRegex = regexp.MustCompile("['`‘’ʼ]")
	nonAlnumRegex   = regexp.MustCompile(`[^a-z0-9]+`)
)

// Normalize folds a title into a comparable form: diacritics removed,
// non-Latin scripts transliterated, lower-cased, apostrophes dropped and
// every other run of punctuation or whitespace collapsed to one space.
//
// Normalize is idempotent; its output only contains [a-z0-9 ].
func Normalize(title string) string {
	s := foldDiacritics(title)
	if !isASCII(s) {
		s = unidecode.Unidecode(s)
	}
	s = strings.ToLower(s)
	s = apostropheRegex.ReplaceAllString(s, "")
	s = nonAlnumRegex.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// foldDiacritics decomposes s (NFKD) and drops combining marks.
// Transformer chains are stateful, so a new one is built per call.
func foldDiacritics(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
