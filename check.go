package formflow

import "github.com/reoring/formflow/i18n"

// Check is a single constraint: a predicate over the coerced field value plus
// the issue it reports when the predicate fails. An empty Message falls back
// to the schema's message catalog.
type Check[T any] struct {
	Code    string
	Message string
	Params  map[string]any
	Test    func(T) bool
}

// WithMessage returns a copy of c reporting msg.
func (c Check[T]) WithMessage(msg string) Check[T] {
	c.Message = msg
	return c
}

// Transform is a pure normalizing function applied after every check passed.
type Transform[T any] func(T) T

// firstFailure returns the first check whose predicate rejects v.
func firstFailure[T any](v T, checks []Check[T]) (Check[T], bool) {
	for _, c := range checks {
		if c.Test == nil {
			continue
		}
		if !c.Test(v) {
			return c, true
		}
	}
	return Check[T]{}, false
}

func applyAll[T any](v T, ts []Transform[T]) T {
	for _, t := range ts {
		if t != nil {
			v = t(v)
		}
	}
	return v
}

func message(cat i18n.Catalog, code, declared string, params map[string]any) string {
	if declared != "" {
		return declared
	}
	if cat == nil {
		cat = i18n.English
	}
	return cat.Message(code, params)
}
