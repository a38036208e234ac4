package ski

import (
	"context"
	"fmt"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// ErrStepLimit is returned by Normalize when a term has not reached normal
// form within the step budget.
var ErrStepLimit = errors.New("step limit reached")

// A Strategy decides which redex a step rewrites.
type Strategy int

const (
	// Outermost checks a node before its children and the left subtree
	// before the right one.
	Outermost Strategy = iota
	// Innermost rewrites the deepest leftmost redex first.
	Innermost
)

func (s Strategy) String() string {
	switch s {
	case Outermost:
		return "outermost"
	case Innermost:
		return "innermost"
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// ParseStrategy parses "outermost" or "innermost".
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(s) {
	case "", "outermost":
		return Outermost, nil
	case "innermost":
		return Innermost, nil
	}
	return 0, errors.Errorf("unknown strategy %q", s)
}

// A StepEvent describes one rewrite.
type StepEvent struct {
	Step int
	Rule string
	Node NodeID
	// Before and After are the expressions of the whole tree around the rewrite.
	Before string
	After  string
}

// A Reducer applies a rule set one rewrite at a time.
type Reducer struct {
	Rules    RuleSet
	Strategy Strategy
	// Trace, if set, is called after every rewrite done by Normalize.
	Trace func(StepEvent)
}

// NewReducer returns an outermost reducer over the SKI rules.
func NewReducer() *Reducer {
	return &Reducer{Rules: DefaultRules(), Strategy: Outermost}
}

// TryReduce rewrites the node at id with the first matching rule and
// reports which rule fired. The tree is untouched when nothing matches.
func (r *Reducer) TryReduce(t *Tree, id NodeID) (string, bool) {
	rule, m, ok := r.matchNode(t, id)
	if !ok {
		return "", false
	}
	r.rewrite(t, rule, id, m)
	return rule.Name, true
}

// matchNode returns the first rule matching at id.
func (r *Reducer) matchNode(t *Tree, id NodeID) (*Rule, Match, bool) {
	for _, rule := range r.Rules {
		if m := MatchPattern(rule.Pattern, t, id); m.Matched {
			return rule, m, true
		}
	}
	return nil, Match{}, false
}

func (r *Reducer) rewrite(t *Tree, rule *Rule, id NodeID, m Match) {
	replacement := Instantiate(t, rule.Template, rule.Template.Root, m.Bindings)
	if err := t.ReplaceInPlace(id, replacement); err != nil {
		// The replacement is freshly allocated, so it can neither be stale nor contain id.
		panic(errors.Wrapf(err, "applying rule %s", rule.Name))
	}
	freed := t.Collect()
	glog.V(7).Infof("rule %s fired at %v, %d nodes freed", rule.Name, id, freed)
}

// A redex is a node some rule matches.
type redex struct {
	rule  *Rule
	at    NodeID
	match Match
}

// Find returns the node the next step would rewrite and the rule it would
// use, without changing t.
func (r *Reducer) Find(t *Tree) (NodeID, string, bool) {
	x, ok := r.find(t)
	if !ok {
		return Nil, "", false
	}
	return x.at, x.rule.Name, true
}

func (r *Reducer) find(t *Tree) (redex, bool) {
	if t.Root.IsNil() {
		return redex{}, false
	}
	if r.Strategy == Innermost {
		return r.innermost(t, t.Root)
	}
	return r.outermost(t, t.Root)
}

func (r *Reducer) outermost(t *Tree, id NodeID) (redex, bool) {
	if rule, m, ok := r.matchNode(t, id); ok {
		return redex{rule: rule, at: id, match: m}, true
	}
	if t.IsLeaf(id) {
		return redex{}, false
	}
	if x, ok := r.outermost(t, t.Left(id)); ok {
		return x, true
	}
	return r.outermost(t, t.Right(id))
}

func (r *Reducer) innermost(t *Tree, id NodeID) (redex, bool) {
	if !t.IsLeaf(id) {
		if x, ok := r.innermost(t, t.Left(id)); ok {
			return x, true
		}
		if x, ok := r.innermost(t, t.Right(id)); ok {
			return x, true
		}
	}
	if rule, m, ok := r.matchNode(t, id); ok {
		return redex{rule: rule, at: id, match: m}, true
	}
	return redex{}, false
}

// Step performs a single rewrite on t, searching from t.Root according to
// the strategy. It returns false when t is in normal form.
func (r *Reducer) Step(t *Tree) bool {
	x, ok := r.find(t)
	if !ok {
		return false
	}
	r.rewrite(t, x.rule, x.at, x.match)
	return true
}

// Normalize steps t until it reaches normal form and returns the number of
// rewrites performed. Terms may diverge, so at most maxSteps rewrites are
// done (no limit when maxSteps <= 0) before ErrStepLimit is returned.
func (r *Reducer) Normalize(ctx context.Context, t *Tree, maxSteps int) (int, error) {
	steps := 0
	for {
		if err := ctx.Err(); err != nil {
			return steps, err
		}
		x, ok := r.find(t)
		if !ok {
			glog.V(5).Infof("normal form after %d steps: %s", steps, t)
			return steps, nil
		}
		if maxSteps > 0 && steps >= maxSteps {
			return steps, errors.Wrapf(ErrStepLimit, "after %d steps", steps)
		}

		var before string
		if r.Trace != nil {
			before = t.String()
		}
		r.rewrite(t, x.rule, x.at, x.match)
		steps++
		glog.V(5).Infof("step %d: %s at %v", steps, x.rule.Name, x.at)
		if r.Trace != nil {
			r.Trace(StepEvent{Step: steps, Rule: x.rule.Name, Node: x.at, Before: before, After: t.String()})
		}
	}
}
