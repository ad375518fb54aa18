package formflow_test

import (
	"strings"
	"testing"

	ff "github.com/reoring/formflow"
)

func TestCategoryOf(t *testing.T) {
	cases := map[string]ff.Category{
		ff.CodeRequired:      ff.CategoryRequired,
		ff.CodeTooFewItems:   ff.CategoryCardinality,
		ff.CodeTooManyItems:  ff.CategoryCardinality,
		ff.CodeInvalidNumber: ff.CategoryCoercion,
		ff.CodeFileTooLarge:  ff.CategoryConstraint,
		ff.CodeCustom:        ff.CategoryConstraint,
	}
	for code, want := range cases {
		if got := ff.CategoryOf(code); got != want {
			t.Fatalf("CategoryOf(%s)=%s, want %s", code, got, want)
		}
	}
}

func TestIssues_ErrorSummarizes(t *testing.T) {
	iss := ff.Issues{
		{Path: "a", Code: ff.CodeRequired},
		{Path: "b", Code: ff.CodeRequired},
		{Path: "c", Code: ff.CodeRequired},
		{Path: "d", Code: ff.CodeRequired},
	}
	msg := iss.Error()
	if !strings.HasPrefix(msg, "required at a; required at b") || !strings.HasSuffix(msg, "(total 4)") {
		t.Fatalf("Error()=%q", msg)
	}
}

func TestProject_NilTree(t *testing.T) {
	if _, ok := ff.Project(nil, "name"); ok {
		t.Fatalf("nil tree should project nothing")
	}
	var tree *ff.ErrorTree
	if tree.Len() != 0 || tree.Paths() != nil {
		t.Fatalf("nil tree accessors")
	}
	if tree.Error() != "" {
		t.Fatalf("nil tree Error: %q", tree.Error())
	}
}

func TestErrorTree_OnePathOneMessage(t *testing.T) {
	s := ff.Object().
		Field(ff.Text("a").Require("A is required")).
		Refine("never", func(*ff.Record) []ff.Issue { return nil }).
		MustBuild()
	tree, _ := ff.Validate(s, ff.RawInput{}).Invalid()
	if tree.Len() != 1 {
		t.Fatalf("Len()=%d", tree.Len())
	}
	if _, ok := ff.Project(tree, "b"); ok {
		t.Fatalf("unknown path should project nothing")
	}
}

func TestErrorTree_RefineDoesNotOverrideFirstIssue(t *testing.T) {
	s := ff.Object().
		Field(ff.Text("a")).
		Refine("twice", func(*ff.Record) []ff.Issue {
			return []ff.Issue{
				{Path: "a", Message: "first"},
				{Path: "a", Message: "second"},
			}
		}).
		MustBuild()
	tree, _ := ff.Validate(s, ff.RawInput{"a": "x"}).Invalid()
	if msg, _ := ff.Project(tree, "a"); msg != "first" || tree.Len() != 1 {
		t.Fatalf("message=%q len=%d", msg, tree.Len())
	}
}
