package sheet

import (
	"strings"
	"unicode/utf8"
)

// Field names understood by the card pipeline. Header cells are matched
// case-insensitively, so "TIPO", "Tipo" and "tipo" all address FieldType.
const (
	FieldType     = "tipo"
	FieldText     = "texto"
	FieldValue    = "valor"
	FieldCoupon   = "cupom"
	FieldLegal    = "legal"
	FieldState    = "uf"
	FieldSegment  = "segmento"
	FieldLogo     = "logo"
	maxHeaderSize = 64
)

// KnownFields lists the fields the pipeline reads, in template order.
var KnownFields = []string{
	FieldType, FieldText, FieldValue, FieldCoupon,
	FieldLegal, FieldState, FieldSegment, FieldLogo,
}

// Row is one data row of the first sheet. It is immutable once decoded.
type Row struct {
	number int
	fields map[string]string
}

// NewRow builds a Row from alternating header/value pairs, in column
// order. A trailing header without a value is ignored.
func NewRow(number int, pairs ...string) Row {
	r := Row{number: number, fields: make(map[string]string, len(pairs)/2)}
	for i := 0; i+1 < len(pairs); i += 2 {
		r.set(pairs[i], pairs[i+1])
	}
	return r
}

func newRowFromCells(number int, headers, cells []string) Row {
	r := Row{number: number, fields: make(map[string]string, len(headers))}
	for i, h := range headers {
		v := ""
		if i < len(cells) {
			v = cells[i]
		}
		r.set(h, v)
	}
	return r
}

// Number is the 1-based line of the row below the header. Blank lines are
// counted, so row N sits N lines under the header in the sheet.
func (r Row) Number() int {
	return r.number
}

// Get returns the value of field, or "" when the sheet has no such column.
func (r Row) Get(field string) string {
	return r.fields[normalizeHeader(field)]
}

// Has reports whether the row carries a non-empty value for field.
func (r Row) Has(field string) bool {
	return r.Get(field) != ""
}

func (r *Row) set(header, value string) {
	key := normalizeHeader(header)
	if key == "" {
		return
	}
	// Aliased columns (TIPO and tipo in the same sheet): keep the first
	// non-empty value in column order.
	if existing, ok := r.fields[key]; ok && existing != "" {
		return
	}
	r.fields[key] = value
}

func normalizeHeader(h string) string {
	h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	if len(h) > maxHeaderSize {
		cut := maxHeaderSize
		for cut > 0 && !utf8.RuneStart(h[cut]) {
			cut--
		}
		h = h[:cut]
	}
	return strings.ToLower(h)
}
