package formflow

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reoring/formflow/i18n"
)

// Field is one declared field of a Schema. The set of implementations is
// closed: TextField, NumericField, AssetField and ListField.
type Field interface {
	Name() string
	Kind() Kind
	Required() bool

	// validate coerces and checks raw, recording issues on w. ok is false when
	// the value is absent or failed; nothing is stored for the field then.
	validate(w *walker, raw any, at Path) (v any, ok bool)
	// apply runs the field's transforms over an already validated value.
	apply(v any) any
	clone() Field
}

// RawInput is the untyped input of one submission attempt.
type RawInput map[string]any

// ListSource supplies the current items of a repeatable sub-record field.
type ListSource interface {
	ListItems() []RawInput
}

// Schema is an ordered, immutable set of fields plus cross-field rules.
type Schema struct {
	fields  []Field
	byName  map[string]int
	refines []refine
	catalog i18n.Catalog
}

type refine struct {
	name string
	fn   func(*Record) []Issue
}

// Fields returns the fields in declaration order.
func (s *Schema) Fields() []Field { return append([]Field(nil), s.fields...) }

// Field looks a field up by name.
func (s *Schema) Field(name string) (Field, bool) {
	i, ok := s.byName[name]
	if !ok {
		return nil, false
	}
	return s.fields[i], true
}

// Catalog returns the catalog used for default messages.
func (s *Schema) Catalog() i18n.Catalog { return s.catalog }

// ObjectBuilder accumulates fields; Build freezes them into a Schema.
type ObjectBuilder struct {
	fields  []Field
	refines []refine
	catalog i18n.Catalog
}

// Object starts a schema declaration.
func Object() *ObjectBuilder { return &ObjectBuilder{} }

// Field appends a field. Declaration order is validation and output order.
func (b *ObjectBuilder) Field(f Field) *ObjectBuilder {
	b.fields = append(b.fields, f)
	return b
}

// Refine registers a cross-field rule. It runs only when every field passed
// and before any transform; returned issue paths are relative to the record.
func (b *ObjectBuilder) Refine(name string, fn func(*Record) []Issue) *ObjectBuilder {
	b.refines = append(b.refines, refine{name: name, fn: fn})
	return b
}

// Messages sets the catalog for checks that declare no message.
func (b *ObjectBuilder) Messages(c i18n.Catalog) *ObjectBuilder {
	b.catalog = c
	return b
}

// Build validates the declaration and returns the schema.
func (b *ObjectBuilder) Build() (*Schema, error) {
	s := &Schema{
		fields:  make([]Field, 0, len(b.fields)),
		byName:  make(map[string]int, len(b.fields)),
		refines: append([]refine(nil), b.refines...),
		catalog: b.catalog,
	}
	if s.catalog == nil {
		s.catalog = i18n.English
	}
	var errs []error
	for i, f := range b.fields {
		if f == nil {
			errs = append(errs, fmt.Errorf("field %d is nil", i))
			continue
		}
		name := f.Name()
		switch {
		case name == "":
			errs = append(errs, fmt.Errorf("field %d has no name", i))
			continue
		case strings.ContainsAny(name, ".[]"):
			errs = append(errs, fmt.Errorf("field %q: name must not contain '.', '[' or ']'", name))
			continue
		}
		if _, dup := s.byName[name]; dup {
			errs = append(errs, fmt.Errorf("field %q declared twice", name))
			continue
		}
		if lf, ok := f.(*ListField); ok && lf.item == nil {
			errs = append(errs, fmt.Errorf("list field %q has no item schema", name))
			continue
		}
		s.byName[name] = len(s.fields)
		s.fields = append(s.fields, f.clone())
	}
	for _, r := range s.refines {
		if r.fn == nil {
			errs = append(errs, fmt.Errorf("refine %q has no function", r.name))
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("formflow: invalid schema: %w", errors.Join(errs...))
	}
	return s, nil
}

// MustBuild is Build that panics on a declaration error.
func (b *ObjectBuilder) MustBuild() *Schema {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}

// fieldBase carries what every variant shares.
type fieldBase struct {
	name        string
	required    bool
	requiredMsg string
}

func (f *fieldBase) Name() string   { return f.name }
func (f *fieldBase) Required() bool { return f.required }

// missing records the required issue when the field is mandatory.
func (f *fieldBase) missing(w *walker, at Path) {
	if f.required {
		w.fail(at, CodeRequired, f.requiredMsg, nil)
	}
}
