package category

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// ---------------------------------------------------------------------------
// TestResolve - Rule order, folding and exact match
// ---------------------------------------------------------------------------

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		want   Category
		wantOK bool
	}{
		{name: "plain promo", input: "promo", want: Promocao, wantOK: true},
		{name: "accented", input: "Promoção", want: Promocao, wantOK: true},
		{name: "uppercase no accent", input: "PROMOCAO", want: Promocao, wantOK: true},
		{name: "trailing spaces", input: "promoção  ", want: Promocao, wantOK: true},
		{name: "promo wins over cupom", input: "cupom promo", want: Promocao, wantOK: true},
		{name: "cupom substring", input: "Cupom de desconto", want: Cupom, wantOK: true},
		{name: "cupom wins over queda", input: "queda cupom", want: Cupom, wantOK: true},
		{name: "queda substring", input: "Queda de preço", want: Queda, wantOK: true},
		{name: "bc exact", input: "BC", want: BC, wantOK: true},
		{name: "bc lowercase padded", input: " bc ", want: BC, wantOK: true},
		{name: "bc requires exact match", input: "ABC", wantOK: false},
		{name: "bc with suffix", input: "BC2", wantOK: false},
		{name: "empty", input: "", wantOK: false},
		{name: "blank", input: "   ", wantOK: false},
		{name: "unknown", input: "oferta", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := Resolve(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("Resolve(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// Every known category must be reachable from its own name.
func TestResolve_RoundTripsOwnNames(t *testing.T) {
	t.Parallel()

	for _, c := range All() {
		got, ok := Resolve(c.String())
		if !ok || got != c {
			t.Errorf("Resolve(%q) = (%q, %v), want (%q, true)", c, got, ok, c)
		}
	}
}

// ---------------------------------------------------------------------------
// TestNormalize - Case mapping and diacritic removal
// ---------------------------------------------------------------------------

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{"promoção", "PROMOCAO"},
		{"  Queda  ", "QUEDA"},
		{"Açaí", "ACAI"},
		{"straße", "STRASSE"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestAll_PriorityOrder(t *testing.T) {
	t.Parallel()

	want := []Category{Promocao, Cupom, Queda, BC}
	if diff := cmp.Diff(want, All()); diff != "" {
		t.Errorf("All() mismatch (-want +got):\n%s", diff)
	}
}
