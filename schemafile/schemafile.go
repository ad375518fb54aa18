// Package schemafile declares formflow schemas in YAML.
//
//	messages:
//	  required: "This field is required"
//	fields:
//	  - name: name
//	    type: text
//	    required: true
//	    required_message: "Name is required"
//	    transforms: [title]
//	  - name: techs
//	    type: list
//	    checks:
//	      - {rule: min_items, value: 2, message: "Add at least 2 techs"}
//	    item:
//	      fields:
//	        - {name: title, type: text, required: true}
//
// Unknown keys, rules and transforms are rejected.
package schemafile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	ff "github.com/reoring/formflow"
	"github.com/reoring/formflow/dsl"
	"github.com/reoring/formflow/i18n"
)

// Document is the YAML shape of one schema level.
type Document struct {
	Messages map[string]string `yaml:"messages,omitempty"`
	Fields   []FieldDoc        `yaml:"fields"`
}

// FieldDoc declares one field.
type FieldDoc struct {
	Name            string     `yaml:"name"`
	Type            string     `yaml:"type"`
	Required        bool       `yaml:"required,omitempty"`
	RequiredMessage string     `yaml:"required_message,omitempty"`
	FormatMessage   string     `yaml:"format_message,omitempty"`
	CoerceMessage   string     `yaml:"coerce_message,omitempty"`
	Checks          []CheckDoc `yaml:"checks,omitempty"`
	Transforms      []string   `yaml:"transforms,omitempty"`
	Item            *Document  `yaml:"item,omitempty"`
}

// CheckDoc declares one constraint. Range rules use Min and Max; the others
// use Value.
type CheckDoc struct {
	Rule    string   `yaml:"rule"`
	Value   any      `yaml:"value,omitempty"`
	Min     *float64 `yaml:"min,omitempty"`
	Max     *float64 `yaml:"max,omitempty"`
	Message string   `yaml:"message,omitempty"`
}

// Load reads and builds the schema file at path.
func Load(path string) (*ff.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schemafile: read %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("schemafile: %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes YAML and builds the schema.
func Parse(data []byte) (*ff.Schema, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty schema document")
		}
		return nil, fmt.Errorf("decode: %w", err)
	}
	return doc.Build()
}

// Build turns the document into a schema.
func (d *Document) Build() (*ff.Schema, error) {
	return d.build("")
}

func (d *Document) build(at string) (*ff.Schema, error) {
	if len(d.Fields) == 0 {
		return nil, fmt.Errorf("%sno fields declared", prefix(strings.TrimSuffix(at, ".")))
	}
	b := ff.Object()
	if len(d.Messages) > 0 {
		b.Messages(i18n.Map(d.Messages))
	}
	for i := range d.Fields {
		f, err := d.Fields[i].field(at)
		if err != nil {
			return nil, err
		}
		b.Field(f)
	}
	return b.Build()
}

func (fd *FieldDoc) field(at string) (ff.Field, error) {
	where := prefix(at + fd.Name)
	kind, ok := ff.ParseKind(strings.ToLower(strings.TrimSpace(fd.Type)))
	if !ok {
		return nil, fmt.Errorf("%sunknown type %q", where, fd.Type)
	}
	if fd.Item != nil && kind != ff.KindList {
		return nil, fmt.Errorf("%sitem is only valid on list fields", where)
	}
	switch kind {
	case ff.KindText, ff.KindEmail, ff.KindPassword:
		return fd.text(kind, where)
	case ff.KindNumeric:
		return fd.numeric(where)
	case ff.KindAsset:
		return fd.asset(where)
	default:
		return fd.list(at, where)
	}
}

func (fd *FieldDoc) text(kind ff.Kind, where string) (ff.Field, error) {
	var f *ff.TextField
	switch kind {
	case ff.KindEmail:
		f = ff.Email(fd.Name).Format(fd.FormatMessage)
	case ff.KindPassword:
		f = ff.Password(fd.Name)
	default:
		f = ff.Text(fd.Name)
	}
	if fd.Required {
		f.Require(fd.RequiredMessage)
	}
	for _, c := range fd.Checks {
		chk, err := c.text()
		if err != nil {
			return nil, fmt.Errorf("%s%w", where, err)
		}
		f.Check(chk)
	}
	for _, name := range fd.Transforms {
		t, ok := textTransforms[strings.ToLower(name)]
		if !ok {
			return nil, fmt.Errorf("%sunknown text transform %q", where, name)
		}
		f.Transform(t)
	}
	return f, nil
}

func (fd *FieldDoc) numeric(where string) (ff.Field, error) {
	f := ff.Numeric(fd.Name).Coerce(fd.CoerceMessage)
	if fd.Required {
		f.Require(fd.RequiredMessage)
	}
	for _, c := range fd.Checks {
		chk, err := c.numeric()
		if err != nil {
			return nil, fmt.Errorf("%s%w", where, err)
		}
		f.Check(chk)
	}
	for _, name := range fd.Transforms {
		if strings.ToLower(name) != "round" {
			return nil, fmt.Errorf("%sunknown numeric transform %q", where, name)
		}
		f.Transform(dsl.Round)
	}
	return f, nil
}

func (fd *FieldDoc) asset(where string) (ff.Field, error) {
	f := ff.File(fd.Name)
	if fd.Required {
		f.Require(fd.RequiredMessage)
	}
	for _, c := range fd.Checks {
		chk, err := c.asset()
		if err != nil {
			return nil, fmt.Errorf("%s%w", where, err)
		}
		f.Check(chk)
	}
	if len(fd.Transforms) > 0 {
		return nil, fmt.Errorf("%sfile fields take no transforms", where)
	}
	return f, nil
}

func (fd *FieldDoc) list(at, where string) (ff.Field, error) {
	if fd.Item == nil {
		return nil, fmt.Errorf("%slist field needs an item declaration", where)
	}
	item, err := fd.Item.build(at + fd.Name + "[].")
	if err != nil {
		return nil, err
	}
	f := ff.List(fd.Name, item)
	if fd.Required {
		f.Require(fd.RequiredMessage)
	}
	for _, c := range fd.Checks {
		chk, err := c.list()
		if err != nil {
			return nil, fmt.Errorf("%s%w", where, err)
		}
		f.Check(chk)
	}
	if len(fd.Transforms) > 0 {
		return nil, fmt.Errorf("%slist fields take no transforms", where)
	}
	return f, nil
}

var textTransforms = map[string]ff.Transform[string]{
	"trim":            dsl.Trim,
	"lower":           dsl.Lower,
	"upper":           dsl.Upper,
	"title":           dsl.TitleCase,
	"collapse_spaces": dsl.CollapseSpaces,
}

func (c CheckDoc) text() (ff.Check[string], error) {
	switch c.Rule {
	case "min_length":
		n, err := c.intValue()
		return dsl.MinLength(n, c.Message), err
	case "max_length":
		n, err := c.intValue()
		return dsl.MaxLength(n, c.Message), err
	case "pattern":
		s, ok := c.Value.(string)
		if !ok {
			return ff.Check[string]{}, fmt.Errorf("pattern: value must be a string")
		}
		return patternCheck(s, c.Message)
	case "one_of":
		vs, err := c.stringList()
		return dsl.OneOf(vs, c.Message), err
	}
	return ff.Check[string]{}, fmt.Errorf("unknown text rule %q", c.Rule)
}

func patternCheck(re, msg string) (chk ff.Check[string], err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pattern: %v", r)
		}
	}()
	return dsl.Pattern(re, msg), nil
}

func (c CheckDoc) numeric() (ff.Check[float64], error) {
	switch c.Rule {
	case "min":
		v, err := c.floatValue()
		return dsl.Min(v, c.Message), err
	case "max":
		v, err := c.floatValue()
		return dsl.Max(v, c.Message), err
	case "range":
		if c.Min == nil || c.Max == nil {
			return ff.Check[float64]{}, errors.New("range: min and max are required")
		}
		if *c.Min > *c.Max {
			return ff.Check[float64]{}, fmt.Errorf("range: min %v exceeds max %v", *c.Min, *c.Max)
		}
		return dsl.Range(*c.Min, *c.Max, c.Message), nil
	case "integer":
		return dsl.Integer(c.Message), nil
	}
	return ff.Check[float64]{}, fmt.Errorf("unknown numeric rule %q", c.Rule)
}

func (c CheckDoc) asset() (ff.Check[ff.Asset], error) {
	switch c.Rule {
	case "max_bytes":
		n, err := c.byteSize()
		return dsl.MaxBytes(n, c.Message), err
	case "accept":
		ts, err := c.stringList()
		return dsl.AcceptTypes(ts, c.Message), err
	}
	return ff.Check[ff.Asset]{}, fmt.Errorf("unknown file rule %q", c.Rule)
}

func (c CheckDoc) list() (ff.Check[int], error) {
	switch c.Rule {
	case "min_items":
		n, err := c.intValue()
		return dsl.MinItems(n, c.Message), err
	case "max_items":
		n, err := c.intValue()
		return dsl.MaxItems(n, c.Message), err
	}
	return ff.Check[int]{}, fmt.Errorf("unknown list rule %q", c.Rule)
}

func (c CheckDoc) floatValue() (float64, error) {
	switch v := c.Value.(type) {
	case int:
		return float64(v), nil
	case float64:
		return v, nil
	}
	return 0, fmt.Errorf("%s: value must be a number", c.Rule)
}

func (c CheckDoc) intValue() (int, error) {
	v, ok := c.Value.(int)
	if !ok || v < 0 {
		return 0, fmt.Errorf("%s: value must be a non-negative integer", c.Rule)
	}
	return v, nil
}

func (c CheckDoc) stringList() ([]string, error) {
	items, ok := c.Value.([]any)
	if !ok || len(items) == 0 {
		return nil, fmt.Errorf("%s: value must be a non-empty list", c.Rule)
	}
	out := make([]string, len(items))
	for i, it := range items {
		s, ok := it.(string)
		if !ok {
			return nil, fmt.Errorf("%s: item %d is not a string", c.Rule, i)
		}
		out[i] = s
	}
	return out, nil
}

// byteSize accepts a plain byte count or a size such as "5MiB" or "512KiB".
func (c CheckDoc) byteSize() (int64, error) {
	switch v := c.Value.(type) {
	case int:
		if v >= 0 {
			return int64(v), nil
		}
	case string:
		if n, err := ParseSize(v); err == nil {
			return n, nil
		}
	}
	return 0, fmt.Errorf("%s: value must be a byte count or size like 5MiB", c.Rule)
}

// ParseSize parses "1024", "512KiB" or "5MiB".
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	unit := int64(1)
	switch {
	case strings.HasSuffix(s, "MiB"):
		unit, s = dsl.MiB, strings.TrimSuffix(s, "MiB")
	case strings.HasSuffix(s, "KiB"):
		unit, s = dsl.KiB, strings.TrimSuffix(s, "KiB")
	}
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid size %q", s)
	}
	if n > math.MaxInt64/unit {
		return 0, fmt.Errorf("size %q overflows int64", s)
	}
	return n * unit, nil
}

func prefix(at string) string {
	if at == "" {
		return ""
	}
	return at + ": "
}
