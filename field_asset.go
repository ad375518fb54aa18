package formflow

// AssetField holds an optional binary upload. Checks see only metadata.
type AssetField struct {
	fieldBase
	checks     []Check[Asset]
	transforms []Transform[Asset]
}

var _ Field = (*AssetField)(nil)

// File declares a binary asset field.
func File(name string) *AssetField { return &AssetField{fieldBase: fieldBase{name: name}} }

// Require marks the field mandatory; msg may be empty.
func (f *AssetField) Require(msg string) *AssetField {
	f.required, f.requiredMsg = true, msg
	return f
}

// Check appends constraints, evaluated in order.
func (f *AssetField) Check(cs ...Check[Asset]) *AssetField {
	f.checks = append(f.checks, cs...)
	return f
}

// Transform appends normalizers, applied in order.
func (f *AssetField) Transform(ts ...Transform[Asset]) *AssetField {
	f.transforms = append(f.transforms, ts...)
	return f
}

func (f *AssetField) Kind() Kind { return KindAsset }

// Checks returns the declared constraints.
func (f *AssetField) Checks() []Check[Asset] { return append([]Check[Asset](nil), f.checks...) }

func (f *AssetField) validate(w *walker, raw any, at Path) (any, bool) {
	a, present, ok := assetOf(raw)
	if !ok {
		w.fail(at, CodeInvalidType, "", map[string]any{"expected": "file"})
		return nil, false
	}
	if !present {
		f.missing(w, at)
		return nil, false
	}
	if c, failed := firstFailure(a, f.checks); failed {
		w.fail(at, c.Code, c.Message, c.Params)
		return nil, false
	}
	return a, true
}

func (f *AssetField) apply(v any) any { return applyAll(v.(Asset), f.transforms) }

func (f *AssetField) clone() Field {
	c := *f
	c.checks = append([]Check[Asset](nil), f.checks...)
	c.transforms = append([]Transform[Asset](nil), f.transforms...)
	return &c
}

// assetOf unwraps the accepted raw shapes. A file list contributes its first
// element; an empty list or nil pointer is absent.
func assetOf(raw any) (a Asset, present, ok bool) {
	switch t := raw.(type) {
	case nil:
		return Asset{}, false, true
	case *Asset:
		if t == nil {
			return Asset{}, false, true
		}
		return *t, true, true
	case Asset:
		return t, true, true
	case []*Asset:
		for _, it := range t {
			if it != nil {
				return *it, true, true
			}
		}
		return Asset{}, false, true
	case []Asset:
		if len(t) == 0 {
			return Asset{}, false, true
		}
		return t[0], true, true
	default:
		return Asset{}, false, false
	}
}
