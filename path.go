package formflow

import (
	"strconv"
	"strings"
)

// Path builds dot/bracket field paths (name, list[2].title) in a chain-safe
// way. The zero value is the record root.
type Path struct {
	parts []pathPart
}

type pathPart struct {
	name  string
	index int
	isIdx bool
}

// Root returns the empty path.
func Root() Path { return Path{} }

// At parses a dot/bracket path such as "techs[1].title". Malformed index
// segments are kept as field names.
func At(path string) Path {
	var p Path
	for _, seg := range strings.Split(path, ".") {
		if seg == "" {
			continue
		}
		name := seg
		var idx []int
		for {
			open := strings.IndexByte(name, '[')
			if open < 0 || !strings.HasSuffix(name, "]") {
				break
			}
			n, err := strconv.Atoi(name[strings.LastIndexByte(name, '[')+1 : len(name)-1])
			if err != nil {
				break
			}
			idx = append([]int{n}, idx...)
			name = name[:strings.LastIndexByte(name, '[')]
		}
		if name != "" {
			p = p.Field(name)
		}
		for _, n := range idx {
			p = p.Index(n)
		}
	}
	return p
}

// Field appends a named segment.
func (p Path) Field(name string) Path {
	if name == "" {
		return p
	}
	return Path{parts: append(append([]pathPart{}, p.parts...), pathPart{name: name})}
}

// Index appends a list index segment.
func (p Path) Index(i int) Path {
	return Path{parts: append(append([]pathPart{}, p.parts...), pathPart{index: i, isIdx: true})}
}

// Join appends every segment of child.
func (p Path) Join(child Path) Path {
	if len(child.parts) == 0 {
		return p
	}
	return Path{parts: append(append([]pathPart{}, p.parts...), child.parts...)}
}

// IsRoot reports whether p has no segments.
func (p Path) IsRoot() bool { return len(p.parts) == 0 }

// String renders the path as "list[1].field".
func (p Path) String() string {
	b := &strings.Builder{}
	for i, part := range p.parts {
		if part.isIdx {
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(part.index))
			b.WriteByte(']')
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part.name)
	}
	return b.String()
}

// Pointer renders the path as an RFC 6901 JSON Pointer ("/list/1/field").
func (p Path) Pointer() string {
	if len(p.parts) == 0 {
		return "/"
	}
	b := &strings.Builder{}
	for _, part := range p.parts {
		b.WriteByte('/')
		if part.isIdx {
			b.WriteString(strconv.Itoa(part.index))
			continue
		}
		b.WriteString(strings.ReplaceAll(strings.ReplaceAll(part.name, "~", "~0"), "/", "~1"))
	}
	return b.String()
}

// Issue creates an Issue at p. kv are alternating param keys and values.
func (p Path) Issue(code, msg string, kv ...any) Issue {
	var params map[string]any
	if len(kv) > 1 {
		params = make(map[string]any, len(kv)/2)
		for i := 0; i+1 < len(kv); i += 2 {
			if k, ok := kv[i].(string); ok {
				params[k] = kv[i+1]
			}
		}
	}
	return Issue{Path: p.String(), Code: code, Message: msg, Params: params}
}

// rebase prefixes a relative issue path with base.
func rebase(base Path, rel string) string {
	if rel == "" {
		return base.String()
	}
	return base.Join(At(rel)).String()
}
