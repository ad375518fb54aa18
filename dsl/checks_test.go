package dsl_test

import (
	"testing"

	ff "github.com/reoring/formflow"
	"github.com/reoring/formflow/dsl"
)

func TestStringChecks(t *testing.T) {
	cases := []struct {
		name  string
		check ff.Check[string]
		in    string
		want  bool
	}{
		{"min runes", dsl.MinLength(3, ""), "ção", true},
		{"min short", dsl.MinLength(3, ""), "ab", false},
		{"max runes", dsl.MaxLength(2, ""), "çã", true},
		{"max long", dsl.MaxLength(2, ""), "abc", false},
		{"pattern", dsl.Pattern(`^\d+$`, ""), "123", true},
		{"pattern miss", dsl.Pattern(`^\d+$`, ""), "12a", false},
		{"one of", dsl.OneOf([]string{"go", "rust"}, ""), "go", true},
		{"one of miss", dsl.OneOf([]string{"go", "rust"}, ""), "zig", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.check.Test(tc.in); got != tc.want {
				t.Fatalf("Test(%q)=%v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestNumericChecks(t *testing.T) {
	r := dsl.Range(1, 100, "")
	for in, want := range map[float64]bool{0: false, 1: true, 100: true, 100.5: false} {
		if got := r.Test(in); got != want {
			t.Fatalf("Range.Test(%v)=%v", in, got)
		}
	}
	if !dsl.Min(0, "").Test(0) || dsl.Max(10, "").Test(11) {
		t.Fatalf("Min/Max bounds are inclusive")
	}
	if !dsl.Integer("").Test(1e15) || dsl.Integer("").Test(2.5) {
		t.Fatalf("Integer")
	}
}

func TestAssetChecks(t *testing.T) {
	limit := dsl.MaxBytes(5*dsl.MiB, "Max 5MB")
	if !limit.Test(ff.Asset{Size: 5 * dsl.MiB}) || limit.Test(ff.Asset{Size: 5*dsl.MiB + 1}) {
		t.Fatalf("MaxBytes bound")
	}
	if limit.Code != ff.CodeFileTooLarge || limit.Message != "Max 5MB" {
		t.Fatalf("MaxBytes check: %+v", limit)
	}

	accept := dsl.AcceptTypes([]string{"image/*", "application/pdf"}, "")
	for ct, want := range map[string]bool{
		"image/png":            true,
		"IMAGE/JPEG":           true,
		"application/pdf; q=1": true,
		"application/json":     false,
		"imagery/png":          false,
		"":                     false,
	} {
		if got := accept.Test(ff.Asset{ContentType: ct}); got != want {
			t.Fatalf("AcceptTypes(%q)=%v, want %v", ct, got, want)
		}
	}
}

func TestListChecks(t *testing.T) {
	if dsl.MinItems(2, "").Test(1) || !dsl.MinItems(2, "").Test(2) {
		t.Fatalf("MinItems")
	}
	if dsl.MaxItems(2, "").Test(3) || !dsl.MaxItems(2, "").Test(0) {
		t.Fatalf("MaxItems")
	}
	if c := dsl.MinItems(2, ""); c.Code != ff.CodeTooFewItems || c.Params["min"] != 2 {
		t.Fatalf("MinItems check: %+v", c)
	}
}

func TestCustomAndWithMessage(t *testing.T) {
	even := dsl.Custom("must be even", func(v float64) bool { return int(v)%2 == 0 })
	if even.Code != ff.CodeCustom || even.Test(3) {
		t.Fatalf("Custom: %+v", even)
	}
	if got := even.WithMessage("odd!").Message; got != "odd!" || even.Message != "must be even" {
		t.Fatalf("WithMessage should copy: %q / %q", got, even.Message)
	}
}
