package formflow

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeRequired      = "required"
	CodeInvalidType   = "invalid_type"
	CodeInvalidNumber = "invalid_number"
	// Constraint failures
	CodeTooShort           = "too_short"
	CodeTooLong            = "too_long"
	CodeTooSmall           = "too_small"
	CodeTooBig             = "too_big"
	CodeOutOfRange         = "out_of_range"
	CodePattern            = "pattern"
	CodeInvalidFormat      = "invalid_format"
	CodeFileTooLarge       = "file_too_large"
	CodeInvalidContentType = "invalid_content_type"
	CodeCustom             = "custom"
	// Cardinality (attached to the list's own path)
	CodeTooFewItems  = "too_few_items"
	CodeTooManyItems = "too_many_items"
)

// Category groups issue codes into the error taxonomy used by callers that
// only care about the failure class.
type Category int

const (
	CategoryConstraint Category = iota
	CategoryRequired
	CategoryCardinality
	CategoryCoercion
)

func (c Category) String() string {
	switch c {
	case CategoryRequired:
		return "required"
	case CategoryCardinality:
		return "cardinality"
	case CategoryCoercion:
		return "coercion"
	default:
		return "constraint"
	}
}

// CategoryOf classifies an issue code.
func CategoryOf(code string) Category {
	switch code {
	case CodeRequired:
		return CategoryRequired
	case CodeTooFewItems, CodeTooManyItems:
		return CategoryCardinality
	case CodeInvalidNumber, CodeInvalidType:
		return CategoryCoercion
	default:
		return CategoryConstraint
	}
}

// Issue represents a single validation entry.
type Issue struct {
	Path    string // Dot/bracket field path (for example: techs[1].title).
	Code    string // One of the codes listed above.
	Message string
	// Params carries structured parameters (e.g., {"min":1, "max":10}) for
	// message formatting and JSON Schema projection.
	Params map[string]any
}

// Category reports the failure class of the issue.
func (it Issue) Category() Category { return CategoryOf(it.Code) }

// Issues is a collection of validation errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := min(n, maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	var tree *ErrorTree
	if errors.As(err, &tree) {
		return tree.Issues(), true
	}
	return nil, false
}

// ErrorTree maps field paths to a single message each. It mirrors the shape
// of the schema it was produced from: item errors live under
// "list[i].field" and cardinality errors under the list's own path.
//
// The first issue recorded for a path wins; later ones are dropped.
type ErrorTree struct {
	issues Issues
	index  map[string]int
}

func newErrorTree() *ErrorTree {
	return &ErrorTree{index: map[string]int{}}
}

func (t *ErrorTree) add(it Issue) {
	if _, dup := t.index[it.Path]; dup {
		return
	}
	t.index[it.Path] = len(t.issues)
	t.issues = append(t.issues, it)
}

// Message returns the message bound to exactly path.
func (t *ErrorTree) Message(path string) (string, bool) {
	it, ok := t.Issue(path)
	if !ok {
		return "", false
	}
	return it.Message, true
}

// Issue returns the issue bound to exactly path.
func (t *ErrorTree) Issue(path string) (Issue, bool) {
	if t == nil {
		return Issue{}, false
	}
	i, ok := t.index[path]
	if !ok {
		return Issue{}, false
	}
	return t.issues[i], true
}

// Paths lists the addressed paths in the order they were reported.
func (t *ErrorTree) Paths() []string {
	if t == nil {
		return nil
	}
	out := make([]string, len(t.issues))
	for i, it := range t.issues {
		out[i] = it.Path
	}
	return out
}

// Issues returns a copy of the underlying issues.
func (t *ErrorTree) Issues() Issues {
	if t == nil {
		return nil
	}
	return append(Issues(nil), t.issues...)
}

// Messages flattens the tree into a path -> message map.
func (t *ErrorTree) Messages() map[string]string {
	if t == nil {
		return nil
	}
	out := make(map[string]string, len(t.issues))
	for _, it := range t.issues {
		out[it.Path] = it.Message
	}
	return out
}

// Len reports the number of addressed paths.
func (t *ErrorTree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.issues)
}

// Error implements error so a tree can travel through error returns.
func (t *ErrorTree) Error() string {
	if t == nil {
		return ""
	}
	return t.issues.Error()
}

// Project returns the message bound to exactly path, or false when the path
// carries no error. A nil tree projects nothing.
func Project(tree *ErrorTree, path string) (string, bool) {
	return tree.Message(path)
}
