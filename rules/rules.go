// Package rules builds cross-field rules for ObjectBuilder.Refine.
//
// Rules read the validated, not yet transformed record. Issue paths are
// relative to the record the rule is attached to.
package rules

import (
	"fmt"

	ff "github.com/reoring/formflow"
)

// Rule is the signature accepted by ObjectBuilder.Refine.
type Rule = func(*ff.Record) []ff.Issue

// Op defines simple comparison operators for If(...).Then(...)
type Op int

const (
	Eq Op = iota
	Ne
	Lt
	Le
	Gt
	Ge
)

// Conditional composes conditional execution of rules.
type Conditional struct {
	field string
	op    Op
	want  any
	all   []Conditional // composite AND
	any   []Conditional // composite OR
}

// If builds a conditional comparing a top-level field of the record against
// want. An absent field never satisfies the condition.
func If(field string, op Op, want any) Conditional {
	return Conditional{field: field, op: op, want: want}
}

// IfAll builds a conditional that requires all conditions to hold.
func IfAll(conds ...Conditional) Conditional { return Conditional{all: conds} }

// IfAny builds a conditional that requires any condition to hold.
func IfAny(conds ...Conditional) Conditional { return Conditional{any: conds} }

// And combines the receiver with additional conditions using logical AND.
func (c Conditional) And(others ...Conditional) Conditional {
	return IfAll(append([]Conditional{c}, others...)...)
}

// Or combines the receiver with additional conditions using logical OR.
func (c Conditional) Or(others ...Conditional) Conditional {
	return IfAny(append([]Conditional{c}, others...)...)
}

// Then attaches rules to run when the condition is satisfied.
func (c Conditional) Then(rules ...Rule) Rule {
	inner := And(rules...)
	return func(r *ff.Record) []ff.Issue {
		if !c.eval(r) {
			return nil
		}
		return inner(r)
	}
}

func (c Conditional) eval(r *ff.Record) bool {
	if len(c.all) > 0 {
		for _, it := range c.all {
			if !it.eval(r) {
				return false
			}
		}
		return true
	}
	if len(c.any) > 0 {
		for _, it := range c.any {
			if it.eval(r) {
				return true
			}
		}
		return false
	}
	cur, ok := r.Get(c.field)
	if !ok {
		return false
	}
	return compare(cur, c.op, c.want)
}

// Present reports a required issue at field when it is absent. Combined with
// If it expresses conditional requirements.
func Present(field, msg string) Rule {
	return func(r *ff.Record) []ff.Issue {
		if r.Has(field) {
			return nil
		}
		return []ff.Issue{ff.At(field).Issue(ff.CodeRequired, msg)}
	}
}

// Matches requires field to equal other, reporting at field. Nothing is
// reported while either side is absent.
func Matches(field, other, msg string) Rule {
	return func(r *ff.Record) []ff.Issue {
		a, okA := r.Get(field)
		b, okB := r.Get(other)
		if !okA || !okB || compare(a, Eq, b) {
			return nil
		}
		return []ff.Issue{ff.At(field).Issue(ff.CodeCustom, msg, "other", other)}
	}
}

// UniqueBy requires the items of list to carry distinct values for key. Each
// repeat is reported at list[i].key.
func UniqueBy(list, key, msg string) Rule {
	return func(r *ff.Record) []ff.Issue {
		seen := map[string]int{}
		var out []ff.Issue
		for i, it := range r.List(list) {
			v, ok := it.Get(key)
			if !ok {
				continue
			}
			k := fmt.Sprint(v)
			if j, dup := seen[k]; dup {
				out = append(out, ff.At(list).Index(i).Field(key).Issue(ff.CodeCustom, msg, "first", j, "dup", i))
				continue
			}
			seen[k] = i
		}
		return out
	}
}

// And executes all rules and concatenates their issues.
func And(rules ...Rule) Rule {
	return func(r *ff.Record) []ff.Issue {
		var out []ff.Issue
		for _, rule := range rules {
			if rule == nil {
				continue
			}
			out = append(out, rule(r)...)
		}
		return out
	}
}

// Or succeeds if any rule returns no issues. When all fail the branch with
// the fewest issues is returned.
func Or(rules ...Rule) Rule {
	return func(r *ff.Record) []ff.Issue {
		var best []ff.Issue
		bestSet := false
		for _, rule := range rules {
			if rule == nil {
				continue
			}
			iss := rule(r)
			if len(iss) == 0 {
				return nil
			}
			if !bestSet || len(iss) < len(best) {
				best = iss
				bestSet = true
			}
		}
		return best
	}
}

// compare orders strings and numbers. Integer operands are widened so
// If("age", Ge, 18) works. Assets and lists only support Eq and Ne.
func compare(cur any, op Op, want any) bool {
	if a, ok := toFloat(cur); ok {
		b, ok := toFloat(want)
		if !ok {
			return op == Ne
		}
		return ordered(a, b, op)
	}
	if a, ok := cur.(string); ok {
		b, ok := want.(string)
		if !ok {
			return op == Ne
		}
		return ordered(a, b, op)
	}
	switch op {
	case Eq:
		return ff.ValuesEqual(cur, want)
	case Ne:
		return !ff.ValuesEqual(cur, want)
	default:
		return false
	}
}

func ordered[T float64 | string](a, b T, op Op) bool {
	switch op {
	case Eq:
		return a == b
	case Ne:
		return a != b
	case Lt:
		return a < b
	case Le:
		return a <= b
	case Gt:
		return a > b
	case Ge:
		return a >= b
	default:
		return false
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
