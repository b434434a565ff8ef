package pipeline

import (
	"strings"
	"testing"

	"github.com/alnah/go-cardgen/internal/sheet"
)

// ---------------------------------------------------------------------------
// TestBind - Placeholder substitution
// ---------------------------------------------------------------------------

func TestBind(t *testing.T) {
	t.Parallel()

	full := sheet.NewRow(1,
		"TEXTO", "Arroz tipo 1",
		"valor", "19,90",
		"Cupom", "arroz10",
		"legal", "válido até 31/12",
		"uf", "sp",
		"segmento", "mercearia",
	)

	tests := []struct {
		name     string
		template string
		row      sheet.Row
		logo     string
		want     string
	}{
		{
			name:     "all text fields uppercased",
			template: "{{TEXTO}}|{{VALOR}}|{{CUPOM}}|{{LEGAL}}|{{UF}}|{{SEGMENTO}}",
			row:      full,
			want:     "ARROZ TIPO 1|19,90|ARROZ10|VÁLIDO ATÉ 31/12|SP|MERCEARIA",
		},
		{
			name:     "every occurrence replaced",
			template: "<h1>{{TEXTO}}</h1><p>{{TEXTO}}</p>",
			row:      sheet.NewRow(1, "texto", "leite"),
			want:     "<h1>LEITE</h1><p>LEITE</p>",
		},
		{
			name:     "missing fields become empty",
			template: "[{{VALOR}}][{{CUPOM}}]",
			row:      sheet.NewRow(1, "texto", "x"),
			want:     "[][]",
		},
		{
			name:     "logo inserted verbatim",
			template: `<img src="{{LOGO}}">`,
			row:      sheet.NewRow(1),
			logo:     "data:image/png;base64,abc",
			want:     `<img src="data:image/png;base64,abc">`,
		},
		{
			name:     "empty logo",
			template: `<img src="{{LOGO}}">`,
			row:      sheet.NewRow(1),
			want:     `<img src="">`,
		},
		{
			name:     "substituted values are not re-scanned",
			template: "{{TEXTO}}",
			row:      sheet.NewRow(1, "texto", "{{valor}}", "valor", "nope"),
			want:     "{{VALOR}}",
		},
		{
			name:     "template without placeholders untouched",
			template: "<html></html>",
			row:      full,
			want:     "<html></html>",
		},
		{
			name:     "unknown placeholders untouched",
			template: "{{PRECO}} {{texto}}",
			row:      full,
			want:     "{{PRECO}} {{texto}}",
		},
		{
			name:     "full case mapping",
			template: "{{TEXTO}}",
			row:      sheet.NewRow(1, "texto", "straße"),
			want:     "STRASSE",
		},
		{
			name:     "markup kept without escaping",
			template: "{{TEXTO}}",
			row:      sheet.NewRow(1, "texto", "<b>leve 3</b>"),
			want:     "<B>LEVE 3</B>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Bind(tt.template, tt.row, tt.logo); got != tt.want {
				t.Errorf("Bind() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBinder_EscapeHTML(t *testing.T) {
	t.Parallel()

	b := Binder{EscapeHTML: true}
	row := sheet.NewRow(1, "texto", "leve 3 & pague <2>")

	got := b.Bind(`<p>{{TEXTO}}</p><img src="{{LOGO}}">`, row, "data:image/svg+xml;base64,PHN2Zy8+")
	want := `<p>LEVE 3 &amp; PAGUE &lt;2&gt;</p><img src="data:image/svg+xml;base64,PHN2Zy8+">`
	if got != want {
		t.Errorf("Bind() = %q, want %q", got, want)
	}
}

func TestPlaceholders(t *testing.T) {
	t.Parallel()

	got := Placeholders()
	if len(got) != 7 {
		t.Fatalf("len(Placeholders()) = %d, want 7", len(got))
	}
	if got[len(got)-1] != LogoPlaceholder {
		t.Errorf("last placeholder = %q, want %q", got[len(got)-1], LogoPlaceholder)
	}
	for _, p := range got {
		if !strings.HasPrefix(p, "{{") || !strings.HasSuffix(p, "}}") {
			t.Errorf("placeholder %q not delimited by braces", p)
		}
	}
}
