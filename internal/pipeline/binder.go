package pipeline

import (
	"html"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/alnah/go-cardgen/internal/sheet"
)

// LogoPlaceholder is replaced by the inline logo data URI.
const LogoPlaceholder = "{{LOGO}}"

// textPlaceholders maps each text placeholder to the row field that feeds it.
var textPlaceholders = []struct {
	placeholder string
	field       string
}{
	{"{{TEXTO}}", sheet.FieldText},
	{"{{VALOR}}", sheet.FieldValue},
	{"{{CUPOM}}", sheet.FieldCoupon},
	{"{{LEGAL}}", sheet.FieldLegal},
	{"{{UF}}", sheet.FieldState},
	{"{{SEGMENTO}}", sheet.FieldSegment},
}

// Placeholders lists every placeholder a template may use.
func Placeholders() []string {
	out := make([]string, 0, len(textPlaceholders)+1)
	for _, p := range textPlaceholders {
		out = append(out, p.placeholder)
	}
	return append(out, LogoPlaceholder)
}

// Binder substitutes row values into a template.
// The zero value substitutes values byte for byte.
type Binder struct {
	// EscapeHTML escapes text values after uppercasing. The logo data URI
	// is never escaped.
	EscapeHTML bool
}

// Bind replaces every occurrence of each placeholder in template with the
// uppercased row value, or "" when the row lacks the field, and the logo
// placeholder with logo. It never fails.
func (b Binder) Bind(template string, row sheet.Row, logo string) string {
	upper := cases.Upper(language.Und)

	pairs := make([]string, 0, 2*(len(textPlaceholders)+1))
	for _, p := range textPlaceholders {
		v := upper.String(row.Get(p.field))
		if b.EscapeHTML {
			v = html.EscapeString(v)
		}
		pairs = append(pairs, p.placeholder, v)
	}
	pairs = append(pairs, LogoPlaceholder, logo)

	return strings.NewReplacer(pairs...).Replace(template)
}

// Bind is Binder{}.Bind.
func Bind(template string, row sheet.Row, logo string) string {
	return Binder{}.Bind(template, row, logo)
}
