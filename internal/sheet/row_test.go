package sheet

import (
	"strings"
	"testing"
	"unicode/utf8"
)

// ---------------------------------------------------------------------------
// TestRow_Get - Case-insensitive field lookup
// ---------------------------------------------------------------------------

func TestRow_Get(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		row   Row
		field string
		want  string
	}{
		{
			name:  "lowercase header",
			row:   NewRow(1, "tipo", "Promoção"),
			field: FieldType,
			want:  "Promoção",
		},
		{
			name:  "uppercase header",
			row:   NewRow(1, "TIPO", "cupom"),
			field: FieldType,
			want:  "cupom",
		},
		{
			name:  "padded header",
			row:   NewRow(1, "  Texto ", "arroz"),
			field: FieldText,
			want:  "arroz",
		},
		{
			name:  "header with BOM",
			row:   NewRow(1, "\ufefftipo", "bc"),
			field: FieldType,
			want:  "bc",
		},
		{
			name:  "absent field",
			row:   NewRow(1, "tipo", "bc"),
			field: FieldLogo,
			want:  "",
		},
		{
			name:  "aliased columns keep first non-empty",
			row:   NewRow(1, "TIPO", "", "tipo", "queda", "Tipo", "cupom"),
			field: FieldType,
			want:  "queda",
		},
		{
			name:  "lookup key is case-insensitive",
			row:   NewRow(1, "valor", "9,99"),
			field: "VALOR",
			want:  "9,99",
		},
		{
			name:  "dangling header ignored",
			row:   NewRow(1, "tipo", "bc", "texto"),
			field: FieldText,
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.row.Get(tt.field); got != tt.want {
				t.Errorf("Get(%q) = %q, want %q", tt.field, got, tt.want)
			}
		})
	}
}

func TestRow_Has(t *testing.T) {
	t.Parallel()

	row := NewRow(3, "logo", "", "texto", "feijão")
	if row.Has(FieldLogo) {
		t.Error("Has(logo) = true for empty value, want false")
	}
	if !row.Has(FieldText) {
		t.Error("Has(texto) = false, want true")
	}
	if row.Number() != 3 {
		t.Errorf("Number() = %d, want 3", row.Number())
	}
}

func TestNormalizeHeader_Truncates(t *testing.T) {
	t.Parallel()

	long := make([]byte, maxHeaderSize+10)
	for i := range long {
		long[i] = 'A'
	}
	got := normalizeHeader(string(long))
	if len(got) != maxHeaderSize {
		t.Errorf("len(normalizeHeader) = %d, want %d", len(got), maxHeaderSize)
	}
}

func TestNormalizeHeader_TruncatesOnRuneBoundary(t *testing.T) {
	t.Parallel()

	// 63 ASCII bytes then a two-byte "É" straddling the cap.
	long := strings.Repeat("A", maxHeaderSize-1) + "ÉÉÉ"
	got := normalizeHeader(long)
	if !utf8.ValidString(got) {
		t.Fatalf("normalizeHeader left invalid UTF-8: %q", got)
	}
	if want := strings.Repeat("a", maxHeaderSize-1); got != want {
		t.Errorf("normalizeHeader = %q, want %q", got, want)
	}
}
