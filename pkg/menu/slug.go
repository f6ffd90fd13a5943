package menu

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var slugStrip = regexp.MustCompile(`[^\pL\pN\s]+`)

// Slug derives the lookup name of an item from its identifier: accents are
// folded, hyphens become word breaks, anything that is not a letter, digit or
// space is dropped and the words are joined in lower camel case.
//
//	Slug("Main Menu")    // "mainMenu"
//	Slug("user-profile") // "userProfile"
//	Slug("Café")         // "cafe"
func Slug(identifier string) string {
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	s, _, err := transform.String(fold, identifier)
	if err != nil {
		s = identifier
	}

	s = strings.ReplaceAll(s, "-", " ")
	s = cases.Lower(language.Und).String(s)
	s = slugStrip.ReplaceAllString(s, "")

	words := strings.Fields(s)
	title := cases.Title(language.Und)
	for i := 1; i < len(words); i++ {
		words[i] = title.String(words[i])
	}
	return strings.Join(words, "")
}
