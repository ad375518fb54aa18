package rules_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	ff "github.com/reoring/formflow"
	"github.com/reoring/formflow/rules"
)

func TestMatches_PasswordConfirmation(t *testing.T) {
	s := ff.Object().
		Field(ff.Password("password").Require("")).
		Field(ff.Password("confirm").Require("")).
		Refine("confirm", rules.Matches("confirm", "password", "Passwords do not match")).
		MustBuild()

	tree, ok := ff.Validate(s, ff.RawInput{"password": "secret1", "confirm": "secret2"}).Invalid()
	if !ok {
		t.Fatalf("expected mismatch")
	}
	if msg, _ := ff.Project(tree, "confirm"); msg != "Passwords do not match" {
		t.Fatalf("confirm: %q", msg)
	}
	if _, ok := ff.Validate(s, ff.RawInput{"password": "secret1", "confirm": "secret1"}).Valid(); !ok {
		t.Fatalf("equal passwords should pass")
	}
}

func TestIfThen_ConditionalRequirement(t *testing.T) {
	s := ff.Object().
		Field(ff.Numeric("age")).
		Field(ff.Text("guardian")).
		Refine("guardian", rules.If("age", rules.Lt, 18).Then(rules.Present("guardian", "Guardian is required for minors"))).
		MustBuild()

	tree, ok := ff.Validate(s, ff.RawInput{"age": "15"}).Invalid()
	if !ok {
		t.Fatalf("minor without guardian should fail")
	}
	if it, _ := tree.Issue("guardian"); it.Code != ff.CodeRequired {
		t.Fatalf("issue: %+v", it)
	}
	for _, raw := range []ff.RawInput{{"age": "30"}, {"age": "15", "guardian": "Ana"}, {}} {
		if _, ok := ff.Validate(s, raw).Valid(); !ok {
			t.Fatalf("%v should pass", raw)
		}
	}
}

func TestUniqueBy_ReportsRepeats(t *testing.T) {
	item := ff.Object().Field(ff.Text("title").Require("")).MustBuild()
	s := ff.Object().
		Field(ff.List("techs", item)).
		Refine("unique titles", rules.UniqueBy("techs", "title", "Already listed")).
		MustBuild()

	tree, ok := ff.Validate(s, ff.RawInput{"techs": []ff.RawInput{{"title": "Go"}, {"title": "Rust"}, {"title": "Go"}}}).Invalid()
	if !ok {
		t.Fatalf("duplicate titles should fail")
	}
	if diff := cmp.Diff(map[string]string{"techs[2].title": "Already listed"}, tree.Messages()); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestConditionalComposition(t *testing.T) {
	s := ff.Object().
		Field(ff.Text("plan")).
		Field(ff.Numeric("seats")).
		Field(ff.Text("company")).
		Refine("company", rules.If("plan", rules.Eq, "team").And(rules.If("seats", rules.Ge, 5)).
			Then(rules.Present("company", "Company is required"))).
		MustBuild()

	if _, ok := ff.Validate(s, ff.RawInput{"plan": "team", "seats": "3"}).Valid(); !ok {
		t.Fatalf("small team should pass")
	}
	if _, ok := ff.Validate(s, ff.RawInput{"plan": "team", "seats": "5"}).Invalid(); !ok {
		t.Fatalf("large team without company should fail")
	}
	if _, ok := ff.Validate(s, ff.RawInput{"plan": "solo", "seats": "9"}).Valid(); !ok {
		t.Fatalf("solo plan should pass")
	}
}

func TestOr_ReturnsSmallestBranch(t *testing.T) {
	fail := func(n int) rules.Rule {
		return func(*ff.Record) []ff.Issue { return make([]ff.Issue, n) }
	}
	pass := func(*ff.Record) []ff.Issue { return nil }
	rec, _ := ff.Validate(ff.Object().Field(ff.Text("a")).MustBuild(), ff.RawInput{}).Valid()

	if got := rules.Or(fail(3), fail(1))(rec); len(got) != 1 {
		t.Fatalf("Or: got %d issues", len(got))
	}
	if got := rules.Or(fail(2), pass)(rec); got != nil {
		t.Fatalf("Or with a passing branch: %v", got)
	}
	if got := rules.And(fail(2), nil, fail(1))(rec); len(got) != 3 {
		t.Fatalf("And: got %d issues", len(got))
	}
}

func TestMatches_ListAndAssetFields(t *testing.T) {
	item := ff.Object().Field(ff.Text("tag").Require("")).MustBuild()
	s := ff.Object().
		Field(ff.List("a", item)).
		Field(ff.List("b", item)).
		Field(ff.File("avatar")).
		Refine("b", rules.Matches("b", "a", "Lists differ")).
		Refine("avatar", rules.If("avatar", rules.Eq, ff.AssetFromBytes("x.png", []byte("x"))).
			Then(rules.Present("a", "Tags are required with the default avatar"))).
		MustBuild()

	same := ff.RawInput{
		"a": []ff.RawInput{{"tag": "go"}},
		"b": []ff.RawInput{{"tag": "go"}},
	}
	if _, ok := ff.Validate(s, same).Valid(); !ok {
		t.Fatalf("equal lists should pass")
	}

	diff := ff.RawInput{
		"a":      []ff.RawInput{{"tag": "go"}},
		"b":      []ff.RawInput{{"tag": "rust"}},
		"avatar": ff.AssetFromBytes("x.png", []byte("x")),
	}
	tree, ok := ff.Validate(s, diff).Invalid()
	if !ok {
		t.Fatalf("different lists should fail")
	}
	if msg, _ := ff.Project(tree, "b"); msg != "Lists differ" {
		t.Fatalf("b: %q", msg)
	}

	noTags := ff.RawInput{"avatar": ff.AssetFromBytes("x.png", []byte("x"))}
	tree, ok = ff.Validate(s, noTags).Invalid()
	if !ok {
		t.Fatalf("matching avatar without tags should fail")
	}
	if msg, _ := ff.Project(tree, "a"); msg != "Tags are required with the default avatar" {
		t.Fatalf("a: %q", msg)
	}
}
