package formflow

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// NumericField coerces raw text into a float64 before running its checks.
type NumericField struct {
	fieldBase
	coerceMsg  string
	checks     []Check[float64]
	transforms []Transform[float64]
}

var _ Field = (*NumericField)(nil)

// Numeric declares a number field.
func Numeric(name string) *NumericField { return &NumericField{fieldBase: fieldBase{name: name}} }

// Require marks the field mandatory; msg may be empty.
func (f *NumericField) Require(msg string) *NumericField {
	f.required, f.requiredMsg = true, msg
	return f
}

// Coerce sets the message reported when the raw text is not a number.
func (f *NumericField) Coerce(msg string) *NumericField {
	f.coerceMsg = msg
	return f
}

// Check appends constraints, evaluated in order.
func (f *NumericField) Check(cs ...Check[float64]) *NumericField {
	f.checks = append(f.checks, cs...)
	return f
}

// Transform appends normalizers, applied in order.
func (f *NumericField) Transform(ts ...Transform[float64]) *NumericField {
	f.transforms = append(f.transforms, ts...)
	return f
}

func (f *NumericField) Kind() Kind { return KindNumeric }

// Checks returns the declared constraints.
func (f *NumericField) Checks() []Check[float64] { return append([]Check[float64](nil), f.checks...) }

func (f *NumericField) validate(w *walker, raw any, at Path) (any, bool) {
	var n float64
	switch t := raw.(type) {
	case nil:
		f.missing(w, at)
		return nil, false
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			f.missing(w, at)
			return nil, false
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			w.fail(at, CodeInvalidNumber, f.coerceMsg, map[string]any{"input": t})
			return nil, false
		}
		n = v
	case json.Number:
		v, err := t.Float64()
		if err != nil {
			w.fail(at, CodeInvalidNumber, f.coerceMsg, map[string]any{"input": t.String()})
			return nil, false
		}
		n = v
	case float64:
		n = t
	case float32:
		n = float64(t)
	case int:
		n = float64(t)
	case int64:
		n = float64(t)
	default:
		w.fail(at, CodeInvalidType, "", map[string]any{"expected": "number"})
		return nil, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		w.fail(at, CodeInvalidNumber, f.coerceMsg, nil)
		return nil, false
	}
	if c, failed := firstFailure(n, f.checks); failed {
		w.fail(at, c.Code, c.Message, c.Params)
		return nil, false
	}
	return n, true
}

func (f *NumericField) apply(v any) any { return applyAll(v.(float64), f.transforms) }

func (f *NumericField) clone() Field {
	c := *f
	c.checks = append([]Check[float64](nil), f.checks...)
	c.transforms = append([]Transform[float64](nil), f.transforms...)
	return &c
}
