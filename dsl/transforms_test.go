package dsl_test

import (
	"testing"

	"github.com/reoring/formflow/dsl"
)

func TestTextTransforms(t *testing.T) {
	cases := []struct {
		name string
		fn   func(string) string
		in   string
		want string
	}{
		{"title", dsl.TitleCase, "joão silva", "João Silva"},
		{"title trims", dsl.TitleCase, "  ana  ", "Ana"},
		{"title keeps rest", dsl.TitleCase, "mcDonald", "McDonald"},
		{"title hyphen is one word", dsl.TitleCase, "ana-maria souza", "Ana-maria Souza"},
		{"title digit first", dsl.TitleCase, "joão 2nd", "João 2nd"},
		{"title keeps inner spacing", dsl.TitleCase, "ana  maria", "Ana  Maria"},
		{"title accented first letter", dsl.TitleCase, "élise", "Élise"},
		{"lower", dsl.Lower, "TEST@Example.com", "test@example.com"},
		{"upper", dsl.Upper, "ação", "AÇÃO"},
		{"trim", dsl.Trim, "\t x \n", "x"},
		{"collapse", dsl.CollapseSpaces, "  a   b \t c ", "a b c"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.fn(tc.in); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestTransformsAreIdempotent(t *testing.T) {
	for _, fn := range []func(string) string{dsl.TitleCase, dsl.Lower, dsl.Upper, dsl.Trim, dsl.CollapseSpaces} {
		in := " joão  DA silva "
		once := fn(in)
		if twice := fn(once); twice != once {
			t.Fatalf("not idempotent: %q -> %q -> %q", in, once, twice)
		}
	}
	if dsl.Round(2.5) != 3 || dsl.Round(-2.5) != -3 {
		t.Fatalf("Round half away from zero")
	}
}
