package ski

import (
	"github.com/pkg/errors"
)

// A Rule rewrites terms matching Pattern into an instance of Template.
// Template leaves whose labels are capture names of Pattern are
// substitution points; all other leaves are literals.
type Rule struct {
	Name     string
	Pattern  *Pattern
	Template *Tree
}

// NewRule validates pattern and parses template into a rule.
func NewRule(name string, pattern *Pattern, template string) (*Rule, error) {
	if err := pattern.Validate(); err != nil {
		return nil, errors.Wrapf(err, "rule %s", name)
	}
	tmpl, err := Parse(template)
	if err != nil {
		return nil, errors.Wrapf(err, "rule %s template", name)
	}
	return &Rule{Name: name, Pattern: pattern, Template: tmpl}, nil
}

func mustRule(name string, pattern *Pattern, template string) *Rule {
	r, err := NewRule(name, pattern, template)
	if err != nil {
		panic(err)
	}
	return r
}

// A RuleSet is an ordered list of rules; the first matching rule wins.
type RuleSet []*Rule

// The SKI rules:
//
//	S x y z → x z (y z)
//	K x y   → x
//	I x     → x
var (
	SRule = mustRule("S",
		PairOf(PairOf(PairOf(Exact("S", "S"), Any("x")), Any("y")), Any("z")),
		"((xz)(yz))")
	KRule = mustRule("K",
		PairOf(PairOf(Exact("K", "K"), Any("x")), Any("y")),
		"x")
	IRule = mustRule("I",
		PairOf(Exact("I", "I"), Any("x")),
		"x")
)

// DefaultRules returns the S, K and I rules in that order.
func DefaultRules() RuleSet {
	return RuleSet{SRule, KRule, IRule}
}

// Lookup returns the rule named name.
func (rs RuleSet) Lookup(name string) (*Rule, bool) {
	for _, r := range rs {
		if r.Name == name {
			return r, true
		}
	}
	return nil, false
}
