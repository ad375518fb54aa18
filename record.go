package formflow

import (
	"bytes"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Record is a validated and transformed record. Keys keep the schema's
// declaration order; absent optional fields are not present.
//
// Values are string (text, email, password), float64 (numeric), Asset and
// []*Record (lists).
type Record struct {
	keys   []string
	values map[string]any
	kinds  map[string]Kind
}

func newRecord(n int) *Record {
	return &Record{keys: make([]string, 0, n), values: make(map[string]any, n), kinds: make(map[string]Kind, n)}
}

func (r *Record) set(name string, k Kind, v any) {
	if _, ok := r.values[name]; !ok {
		r.keys = append(r.keys, name)
	}
	r.values[name] = v
	r.kinds[name] = k
}

// Keys returns the present field names in declaration order.
func (r *Record) Keys() []string { return append([]string(nil), r.keys...) }

// Len reports the number of present fields.
func (r *Record) Len() int { return len(r.keys) }

// Get returns the raw typed value of name.
func (r *Record) Get(name string) (any, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Has reports whether name is present.
func (r *Record) Has(name string) bool {
	_, ok := r.values[name]
	return ok
}

// String returns a text value, or "" when absent.
func (r *Record) String(name string) string {
	s, _ := r.values[name].(string)
	return s
}

// Number returns a numeric value, or 0 when absent.
func (r *Record) Number(name string) float64 {
	n, _ := r.values[name].(float64)
	return n
}

// Asset returns an asset value and whether it is present.
func (r *Record) Asset(name string) (Asset, bool) {
	a, ok := r.values[name].(Asset)
	return a, ok
}

// List returns the items of a list field.
func (r *Record) List(name string) []*Record {
	l, _ := r.values[name].([]*Record)
	return l
}

// Kind returns the kind of a present field.
func (r *Record) Kind(name string) (Kind, bool) {
	k, ok := r.kinds[name]
	return k, ok
}

// Raw re-encodes the record as input. Validating the result against the same
// schema reproduces the record when the schema's transforms are idempotent.
func (r *Record) Raw() RawInput {
	out := make(RawInput, len(r.keys))
	for _, k := range r.keys {
		switch v := r.values[k].(type) {
		case float64:
			out[k] = strconv.FormatFloat(v, 'f', -1, 64)
		case Asset:
			a := v
			out[k] = &a
		case []*Record:
			items := make([]RawInput, len(v))
			for i, it := range v {
				items[i] = it.Raw()
			}
			out[k] = items
		default:
			out[k] = v
		}
	}
	return out
}

const secretMask = "********"

// Text renders the record as indented YAML for display. Password values are
// masked.
func (r *Record) Text() string {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	err := enc.Encode(r.node(true))
	if cerr := enc.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		// a node tree built from strings and scalars always encodes
		return ""
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// MarshalYAML implements yaml.Marshaler. Nothing is masked.
func (r *Record) MarshalYAML() (any, error) { return r.node(false), nil }

func (r *Record) node(mask bool) *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range r.keys {
		n.Content = append(n.Content, strNode(k), valueNode(r.values[k], r.kinds[k], mask))
	}
	return n
}

func valueNode(v any, k Kind, mask bool) *yaml.Node {
	switch t := v.(type) {
	case string:
		if mask && k == KindPassword {
			return strNode(secretMask)
		}
		return strNode(t)
	case float64:
		// untagged so integral values render without an explicit !!float
		return &yaml.Node{Kind: yaml.ScalarNode, Value: strconv.FormatFloat(t, 'f', -1, 64)}
	case Asset:
		return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map", Content: []*yaml.Node{
			strNode("name"), strNode(t.Name),
			strNode("size"), {Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(t.Size, 10)},
			strNode("content_type"), strNode(t.ContentType),
		}}
	case []*Record:
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, it := range t {
			seq.Content = append(seq.Content, it.node(mask))
		}
		return seq
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
}

func strNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

type assetJSON struct {
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
}

// MarshalJSON emits an object whose keys keep declaration order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		v := r.values[k]
		if a, ok := v.(Asset); ok {
			v = assetJSON{Name: a.Name, Size: a.Size, ContentType: a.ContentType}
		}
		vb, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Equal reports whether r and o hold the same fields and values. Assets
// compare by metadata.
func (r *Record) Equal(o *Record) bool {
	if r == nil || o == nil {
		return r == o
	}
	if len(r.keys) != len(o.keys) {
		return false
	}
	for i, k := range r.keys {
		if o.keys[i] != k || r.kinds[k] != o.kinds[k] {
			return false
		}
		if !ValuesEqual(r.values[k], o.values[k]) {
			return false
		}
	}
	return true
}

// ValuesEqual compares two record values the way Equal does: assets by
// metadata, lists item by item. It never panics on uncomparable values.
func ValuesEqual(a, b any) bool {
	switch x := a.(type) {
	case Asset:
		var y Asset
		switch t := b.(type) {
		case Asset:
			y = t
		case *Asset:
			if t == nil {
				return false
			}
			y = *t
		default:
			return false
		}
		return x.Name == y.Name && x.Size == y.Size && x.ContentType == y.ContentType
	case []*Record:
		y, ok := b.([]*Record)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !x[i].Equal(y[i]) {
				return false
			}
		}
		return true
	case string, float64:
		return a == b
	default:
		return false
	}
}
