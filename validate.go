package formflow

import "github.com/reoring/formflow/i18n"

// Result is the outcome of Validate: either a transformed Record or an
// ErrorTree, never both.
type Result struct {
	record *Record
	errors *ErrorTree
}

// Valid returns the record when validation succeeded.
func (r Result) Valid() (*Record, bool) { return r.record, r.errors == nil }

// Invalid returns the error tree when validation failed.
func (r Result) Invalid() (*ErrorTree, bool) { return r.errors, r.errors != nil }

// OK reports whether validation succeeded.
func (r Result) OK() bool { return r.errors == nil }

// Err returns the error tree as an error, or nil.
func (r Result) Err() error {
	if r.errors == nil {
		return nil
	}
	return r.errors
}

// Validate runs raw against s. Fields are visited in declaration order; each
// reports at most its first failing check. Cross-field rules run only when
// every field passed, and transforms only when nothing failed at all.
//
// Validate keeps no state between calls and does not mutate raw.
func Validate(s *Schema, raw RawInput) Result {
	w := &walker{tree: newErrorTree()}
	rec, ok := w.object(s, raw, Root())
	if !ok || w.tree.Len() > 0 {
		return Result{errors: w.tree}
	}
	return Result{record: s.transform(rec)}
}

// walker carries the error tree through one validation pass.
type walker struct {
	tree     *ErrorTree
	cat      i18n.Catalog
	failures int
}

func (w *walker) fail(at Path, code, declared string, params map[string]any) {
	w.failures++
	w.tree.add(Issue{
		Path:    at.String(),
		Code:    code,
		Message: message(w.cat, code, declared, params),
		Params:  params,
	})
}

// object validates one record level. Refines of s run only when its own
// fields all passed.
func (w *walker) object(s *Schema, raw RawInput, base Path) (*Record, bool) {
	prev := w.cat
	w.cat = s.catalog
	defer func() { w.cat = prev }()

	rec := newRecord(len(s.fields))
	ok := true
	for _, f := range s.fields {
		before := w.failures
		v, passed := f.validate(w, raw[f.Name()], base.Field(f.Name()))
		if w.failures > before {
			ok = false
			continue
		}
		if passed {
			rec.set(f.Name(), f.Kind(), v)
		}
	}
	if !ok {
		return nil, false
	}
	for _, r := range s.refines {
		for _, it := range r.fn(rec) {
			if it.Code == "" {
				it.Code = CodeCustom
			}
			it.Path = rebase(base, it.Path)
			it.Message = message(w.cat, it.Code, it.Message, it.Params)
			w.tree.add(it)
			w.failures++
			ok = false
		}
	}
	if !ok {
		return nil, false
	}
	return rec, true
}

// transform applies every field's transforms in declaration order.
func (s *Schema) transform(rec *Record) *Record {
	out := newRecord(len(rec.keys))
	for _, f := range s.fields {
		v, ok := rec.values[f.Name()]
		if !ok {
			continue
		}
		out.set(f.Name(), f.Kind(), f.apply(v))
	}
	return out
}
