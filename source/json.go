// Package source decodes submission payloads into formflow.RawInput.
//
// JSON scalars are mapped onto the raw shapes a browser form produces:
// numbers and booleans become their literal text, null is absent. An object
// of the form {"$file": "path"} stands for an uploaded asset and is resolved
// through a Resolver.
package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	json "github.com/goccy/go-json"

	ff "github.com/reoring/formflow"
)

// FileKey marks an object as an asset reference.
const FileKey = "$file"

// Resolver turns an asset reference into an asset.
type Resolver func(ref string) (*ff.Asset, error)

// Option configures decoding.
type Option func(*decoder)

// WithBaseDir resolves relative asset references against dir.
func WithBaseDir(dir string) Option {
	return func(d *decoder) { d.baseDir = dir }
}

// AllowDuplicateKeys lets a later key silently replace an earlier one.
// By default a payload repeating a key is rejected with DuplicateKeyError.
func AllowDuplicateKeys() Option {
	return func(d *decoder) { d.allowDup = true }
}

// WithResolver replaces the file system resolver.
func WithResolver(r Resolver) Option {
	return func(d *decoder) {
		if r != nil {
			d.resolve = r
		}
	}
}

// ErrNotObject is returned when the payload is not a JSON object.
var ErrNotObject = errors.New("source: payload must be a JSON object")

type decoder struct {
	baseDir  string
	resolve  Resolver
	allowDup bool
}

func newDecoder(opts []Option) *decoder {
	d := &decoder{}
	for _, o := range opts {
		o(d)
	}
	if d.resolve == nil {
		d.resolve = d.fromDisk
	}
	return d
}

func (d *decoder) fromDisk(ref string) (*ff.Asset, error) {
	p := ref
	if !filepath.IsAbs(p) && d.baseDir != "" {
		p = filepath.Join(d.baseDir, p)
	}
	return ff.AssetFromFile(p)
}

// JSON decodes a JSON object payload.
func JSON(data []byte, opts ...Option) (ff.RawInput, error) {
	d := newDecoder(opts)
	if !d.allowDup {
		if err := detectDuplicateKeys(data); err != nil {
			return nil, err
		}
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, ErrNotObject
	}
	return d.object(obj, "")
}

// Reader reads r fully and decodes it as JSON.
func Reader(r io.Reader, opts ...Option) (ff.RawInput, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}
	return JSON(data, opts...)
}

func (d *decoder) object(m map[string]any, at string) (ff.RawInput, error) {
	out := make(ff.RawInput, len(m))
	for k, v := range m {
		cv, err := d.value(v, join(at, k))
		if err != nil {
			return nil, err
		}
		out[k] = cv
	}
	return out, nil
}

func (d *decoder) value(v any, at string) (any, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case string:
		return t, nil
	case json.Number:
		return t.String(), nil
	case bool:
		return strconv.FormatBool(t), nil
	case map[string]any:
		if ref, ok := fileRef(t); ok {
			a, err := d.resolve(ref)
			if err != nil {
				return nil, fmt.Errorf("%s: resolve %s: %w", at, ref, err)
			}
			return a, nil
		}
		return d.object(t, at)
	case []any:
		return d.array(t, at)
	default:
		return nil, fmt.Errorf("%s: unsupported value %T", at, v)
	}
}

// array keeps homogeneous object and asset lists typed; anything else stays
// []any so the list validator can report the offending index.
func (d *decoder) array(items []any, at string) (any, error) {
	vals := make([]any, len(items))
	objects, assets := len(items) > 0, len(items) > 0
	for i, it := range items {
		cv, err := d.value(it, at+"["+strconv.Itoa(i)+"]")
		if err != nil {
			return nil, err
		}
		vals[i] = cv
		_, isObj := cv.(ff.RawInput)
		_, isAsset := cv.(*ff.Asset)
		objects = objects && isObj
		assets = assets && isAsset
	}
	switch {
	case objects:
		out := make([]ff.RawInput, len(vals))
		for i, v := range vals {
			out[i] = v.(ff.RawInput)
		}
		return out, nil
	case assets:
		out := make([]*ff.Asset, len(vals))
		for i, v := range vals {
			out[i] = v.(*ff.Asset)
		}
		return out, nil
	default:
		return vals, nil
	}
}

func fileRef(m map[string]any) (string, bool) {
	if len(m) != 1 {
		return "", false
	}
	ref, ok := m[FileKey].(string)
	return ref, ok
}

func join(at, key string) string {
	if at == "" {
		return key
	}
	return at + "." + key
}
