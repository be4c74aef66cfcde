package normalizer

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var multiSpaceRe = regexp.MustCompile(`\s{2,}`)

// foldDiacritics strips combining marks so accented labels match their
// plain-ASCII spellings.
var foldDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// punctReplacer removes the punctuation filings sprinkle into line-item
// labels. Ampersands become "and" so "R&D" style labels keep their meaning.
var punctReplacer = strings.NewReplacer(
	",", "",
	".", "",
	"'", "",
	"’", "",
	"\"", "",
	"(", " ",
	")", " ",
	"&", " and ",
	"-", " ",
	"—", " ",
)

// CanonicalLabel standardizes a row label for matching by:
//  1. Folding diacritics and lower-casing
//  2. Dropping a trailing colon (section headings carry them)
//  3. Stripping punctuation
//  4. Collapsing whitespace
//  5. Applying the synonym table once
//
// The function is idempotent: canonical output maps to itself.
func (n *Normalizer) CanonicalLabel(raw string) string {
	label := strings.TrimSpace(raw)
	if label == "" {
		return ""
	}

	if folded, _, err := transform.String(foldDiacritics, label); err == nil {
		label = folded
	}
	label = strings.ToLower(label)
	label = strings.TrimSuffix(label, ":")
	label = punctReplacer.Replace(label)
	label = multiSpaceRe.ReplaceAllString(label, " ")
	label = strings.TrimSpace(label)

	if canonical, ok := n.synonyms[label]; ok {
		return canonical
	}
	return label
}
