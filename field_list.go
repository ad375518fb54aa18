package formflow

// ListField is a repeatable sub-record field. Each item is validated against
// the item schema; list-level checks see the item count.
type ListField struct {
	fieldBase
	item   *Schema
	checks []Check[int]
}

var _ Field = (*ListField)(nil)

// List declares a repeatable sub-record field whose items follow item.
func List(name string, item *Schema) *ListField {
	return &ListField{fieldBase: fieldBase{name: name}, item: item}
}

// Require marks the field mandatory; msg may be empty. Only a missing list is
// absent: an empty list is checked against the cardinality constraints.
func (f *ListField) Require(msg string) *ListField {
	f.required, f.requiredMsg = true, msg
	return f
}

// Check appends cardinality constraints over the item count.
func (f *ListField) Check(cs ...Check[int]) *ListField {
	f.checks = append(f.checks, cs...)
	return f
}

func (f *ListField) Kind() Kind { return KindList }

// Item returns the item schema.
func (f *ListField) Item() *Schema { return f.item }

// Checks returns the declared constraints.
func (f *ListField) Checks() []Check[int] { return append([]Check[int](nil), f.checks...) }

func (f *ListField) validate(w *walker, raw any, at Path) (any, bool) {
	items, present, ok := itemsOf(raw)
	if !ok {
		w.fail(at, CodeInvalidType, "", map[string]any{"expected": "list"})
		return nil, false
	}
	if !present {
		f.missing(w, at)
		return nil, false
	}
	// The count check is independent of the items: it reports once at the
	// list path and the items are still validated.
	passed := true
	if c, failed := firstFailure(len(items), f.checks); failed {
		w.fail(at, c.Code, c.Message, c.Params)
		passed = false
	}
	out := make([]*Record, 0, len(items))
	for i, it := range items {
		ip := at.Index(i)
		m, ok := it.(RawInput)
		if !ok {
			w.fail(ip, CodeInvalidType, "", map[string]any{"expected": "object"})
			passed = false
			continue
		}
		rec, ok := w.object(f.item, m, ip)
		if !ok {
			passed = false
			continue
		}
		out = append(out, rec)
	}
	if !passed {
		return nil, false
	}
	return out, true
}

func (f *ListField) apply(v any) any {
	recs := v.([]*Record)
	out := make([]*Record, len(recs))
	for i, r := range recs {
		out[i] = f.item.transform(r)
	}
	return out
}

func (f *ListField) clone() Field {
	c := *f
	c.checks = append([]Check[int](nil), f.checks...)
	return &c
}

// itemsOf normalizes the accepted list shapes into one item slice. Items that
// are not objects are kept as-is so they can be reported at their index.
func itemsOf(raw any) (items []any, present, ok bool) {
	switch t := raw.(type) {
	case nil:
		return nil, false, true
	case ListSource:
		src := t.ListItems()
		items = make([]any, len(src))
		for i, it := range src {
			items[i] = it
		}
		return items, true, true
	case []RawInput:
		items = make([]any, len(t))
		for i, it := range t {
			items[i] = it
		}
		return items, true, true
	case []map[string]any:
		items = make([]any, len(t))
		for i, it := range t {
			items[i] = RawInput(it)
		}
		return items, true, true
	case []any:
		items = make([]any, len(t))
		for i, it := range t {
			switch m := it.(type) {
			case map[string]any:
				items[i] = RawInput(m)
			default:
				items[i] = it
			}
		}
		return items, true, true
	default:
		return nil, false, false
	}
}
