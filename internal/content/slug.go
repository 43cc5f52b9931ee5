// Package content derives display data from post titles and Markdown bodies.
package content

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Slugify turns a title into a URL path segment: letters are lowercased,
// accents on Latin letters are folded, letters and digits of every script
// are kept, and every run of other characters becomes one '-'. A title with
// no letters or digits yields "".
func Slugify(title string) string {
	folded := cases.Lower(language.Und).String(foldLatin(title))

	var b strings.Builder
	dash := false
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || (unicode.IsMark(r) && b.Len() > 0 && !dash) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// foldLatin drops nonspacing marks that decorate a Latin letter. Marks on
// other scripts (kana voicing, Cyrillic breve) carry meaning and stay.
func foldLatin(s string) string {
	var b strings.Builder
	latin := false
	for _, r := range norm.NFD.String(s) {
		if unicode.Is(unicode.Mn, r) {
			if latin {
				continue
			}
		} else {
			latin = unicode.Is(unicode.Latin, r)
		}
		b.WriteRune(r)
	}
	return norm.NFC.String(b.String())
}
