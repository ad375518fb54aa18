package formflow

import "net/mail"

// TextField is a string field of kind text, email or password.
type TextField struct {
	fieldBase
	kind       Kind
	formatMsg  string
	checks     []Check[string]
	transforms []Transform[string]
}

var _ Field = (*TextField)(nil)

// Text declares a free text field.
func Text(name string) *TextField { return &TextField{fieldBase: fieldBase{name: name}, kind: KindText} }

// Email declares an email field. It always checks the address format before
// any declared check.
func Email(name string) *TextField {
	return &TextField{fieldBase: fieldBase{name: name}, kind: KindEmail}
}

// Password declares a secret text field. Its value is masked by Record.Text.
func Password(name string) *TextField {
	return &TextField{fieldBase: fieldBase{name: name}, kind: KindPassword}
}

// Require marks the field mandatory; msg may be empty.
func (f *TextField) Require(msg string) *TextField {
	f.required, f.requiredMsg = true, msg
	return f
}

// Format sets the message reported for a malformed email address.
func (f *TextField) Format(msg string) *TextField {
	f.formatMsg = msg
	return f
}

// Check appends constraints, evaluated in order.
func (f *TextField) Check(cs ...Check[string]) *TextField {
	f.checks = append(f.checks, cs...)
	return f
}

// Transform appends normalizers, applied in order.
func (f *TextField) Transform(ts ...Transform[string]) *TextField {
	f.transforms = append(f.transforms, ts...)
	return f
}

func (f *TextField) Kind() Kind { return f.kind }

// Checks returns the declared constraints.
func (f *TextField) Checks() []Check[string] { return append([]Check[string](nil), f.checks...) }

func (f *TextField) validate(w *walker, raw any, at Path) (any, bool) {
	if raw == nil {
		f.missing(w, at)
		return nil, false
	}
	s, ok := raw.(string)
	if !ok {
		w.fail(at, CodeInvalidType, "", map[string]any{"expected": "string"})
		return nil, false
	}
	if s == "" {
		f.missing(w, at)
		return nil, false
	}
	if f.kind == KindEmail && !isEmail(s) {
		w.fail(at, CodeInvalidFormat, f.formatMsg, map[string]any{"format": "email"})
		return nil, false
	}
	if c, failed := firstFailure(s, f.checks); failed {
		w.fail(at, c.Code, c.Message, c.Params)
		return nil, false
	}
	return s, true
}

func (f *TextField) apply(v any) any { return applyAll(v.(string), f.transforms) }

func (f *TextField) clone() Field {
	c := *f
	c.checks = append([]Check[string](nil), f.checks...)
	c.transforms = append([]Transform[string](nil), f.transforms...)
	return &c
}

// isEmail accepts a bare addr-spec; display names and angle brackets are
// rejected.
func isEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return false
	}
	return addr.Address == s
}
