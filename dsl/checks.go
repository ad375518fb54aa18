package dsl

import (
	"math"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	ff "github.com/reoring/formflow"
)

// Byte sizes for MaxBytes.
const (
	KiB int64 = 1 << 10
	MiB int64 = 1 << 20
)

// MinLength rejects strings shorter than n runes.
func MinLength(n int, msg string) ff.Check[string] {
	return ff.Check[string]{
		Code:    ff.CodeTooShort,
		Message: msg,
		Params:  map[string]any{"min": n},
		Test:    func(s string) bool { return utf8.RuneCountInString(s) >= n },
	}
}

// MaxLength rejects strings longer than n runes.
func MaxLength(n int, msg string) ff.Check[string] {
	return ff.Check[string]{
		Code:    ff.CodeTooLong,
		Message: msg,
		Params:  map[string]any{"max": n},
		Test:    func(s string) bool { return utf8.RuneCountInString(s) <= n },
	}
}

// Pattern rejects strings that do not match re. It panics on an invalid
// expression, like regexp.MustCompile.
func Pattern(re string, msg string) ff.Check[string] {
	rx := regexp.MustCompile(re)
	return ff.Check[string]{
		Code:    ff.CodePattern,
		Message: msg,
		Params:  map[string]any{"pattern": re},
		Test:    rx.MatchString,
	}
}

// OneOf rejects strings outside values.
func OneOf(values []string, msg string) ff.Check[string] {
	vs := append([]string(nil), values...)
	return ff.Check[string]{
		Code:    ff.CodeInvalidFormat,
		Message: msg,
		Params:  map[string]any{"values": strings.Join(vs, ", ")},
		Test:    func(s string) bool { return slices.Contains(vs, s) },
	}
}

// Min rejects numbers below n.
func Min(n float64, msg string) ff.Check[float64] {
	return ff.Check[float64]{
		Code:    ff.CodeTooSmall,
		Message: msg,
		Params:  map[string]any{"min": n},
		Test:    func(v float64) bool { return v >= n },
	}
}

// Max rejects numbers above n.
func Max(n float64, msg string) ff.Check[float64] {
	return ff.Check[float64]{
		Code:    ff.CodeTooBig,
		Message: msg,
		Params:  map[string]any{"max": n},
		Test:    func(v float64) bool { return v <= n },
	}
}

// Range rejects numbers outside [lo, hi].
func Range(lo, hi float64, msg string) ff.Check[float64] {
	return ff.Check[float64]{
		Code:    ff.CodeOutOfRange,
		Message: msg,
		Params:  map[string]any{"min": lo, "max": hi},
		Test:    func(v float64) bool { return v >= lo && v <= hi },
	}
}

// Integer rejects numbers with a fractional part.
func Integer(msg string) ff.Check[float64] {
	return ff.Check[float64]{
		Code:    ff.CodeInvalidFormat,
		Message: msg,
		Params:  map[string]any{"format": "integer"},
		Test:    func(v float64) bool { return v == math.Trunc(v) },
	}
}

// MaxBytes rejects assets larger than n bytes. Only the size metadata is read.
func MaxBytes(n int64, msg string) ff.Check[ff.Asset] {
	return ff.Check[ff.Asset]{
		Code:    ff.CodeFileTooLarge,
		Message: msg,
		Params:  map[string]any{"max": n},
		Test:    func(a ff.Asset) bool { return a.Size <= n },
	}
}

// AcceptTypes rejects assets whose content type is not listed. Entries ending
// in "/*" match a whole family ("image/*").
func AcceptTypes(types []string, msg string) ff.Check[ff.Asset] {
	ts := append([]string(nil), types...)
	return ff.Check[ff.Asset]{
		Code:    ff.CodeInvalidContentType,
		Message: msg,
		Params:  map[string]any{"types": ts},
		Test: func(a ff.Asset) bool {
			ct := a.ContentType
			if i := strings.IndexByte(ct, ';'); i >= 0 {
				ct = ct[:i]
			}
			ct = strings.TrimSpace(strings.ToLower(ct))
			for _, t := range ts {
				t = strings.ToLower(t)
				if family, ok := strings.CutSuffix(t, "/*"); ok {
					if strings.HasPrefix(ct, family+"/") {
						return true
					}
					continue
				}
				if ct == t {
					return true
				}
			}
			return false
		},
	}
}

// MinItems rejects lists with fewer than n items.
func MinItems(n int, msg string) ff.Check[int] {
	return ff.Check[int]{
		Code:    ff.CodeTooFewItems,
		Message: msg,
		Params:  map[string]any{"min": n},
		Test:    func(count int) bool { return count >= n },
	}
}

// MaxItems rejects lists with more than n items.
func MaxItems(n int, msg string) ff.Check[int] {
	return ff.Check[int]{
		Code:    ff.CodeTooManyItems,
		Message: msg,
		Params:  map[string]any{"max": n},
		Test:    func(count int) bool { return count <= n },
	}
}

// Custom wraps an arbitrary predicate.
func Custom[T any](msg string, test func(T) bool) ff.Check[T] {
	return ff.Check[T]{Code: ff.CodeCustom, Message: msg, Test: test}
}
