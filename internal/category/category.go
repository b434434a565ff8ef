// Package category classifies the free-text type column of a row into one
// of the known card families.
package category

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Category names a card family. Its value is also the template file stem.
type Category string

const (
	Promocao Category = "promocao"
	Cupom    Category = "cupom"
	Queda    Category = "queda"
	BC       Category = "bc"
)

// All returns the known categories in resolution priority order.
func All() []Category {
	return []Category{Promocao, Cupom, Queda, BC}
}

func (c Category) String() string {
	return string(c)
}

type rule struct {
	match    func(folded string) bool
	category Category
}

func contains(sub string) func(string) bool {
	return func(s string) bool { return strings.Contains(s, sub) }
}

func equals(want string) func(string) bool {
	return func(s string) bool { return s == want }
}

// First match wins.
var rules = []rule{
	{match: contains("PROMO"), category: Promocao},
	{match: contains("CUPOM"), category: Cupom},
	{match: contains("QUEDA"), category: Queda},
	{match: equals("BC"), category: BC},
}

// Resolve maps raw to a Category. The boolean is false when raw matches no
// rule, including when it is empty or blank.
func Resolve(raw string) (Category, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}

	folded := Normalize(raw)
	for _, r := range rules {
		if r.match(folded) {
			return r.category, true
		}
	}
	return "", false
}

// Normalize trims s, applies full Unicode uppercase mapping and removes
// combining marks, so "Promoção " becomes "PROMOCAO".
func Normalize(s string) string {
	s = cases.Upper(language.Und).String(strings.TrimSpace(s))

	// Casers and transformers hold state; build them per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
