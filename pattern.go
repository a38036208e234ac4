package ski

import (
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// ErrDuplicateCapture is returned for patterns that bind the same name twice.
var ErrDuplicateCapture = errors.New("duplicate capture name")

type PatternKind int

const (
	// WildcardKind captures whatever subtree occupies its position.
	WildcardKind PatternKind = iota
	// ExactKind matches a leaf with a fixed label and captures it.
	ExactKind
	// PairKind matches an internal node child by child.
	PairKind
)

func (k PatternKind) String() string {
	switch k {
	case WildcardKind:
		return "wildcard"
	case ExactKind:
		return "exact"
	case PairKind:
		return "pair"
	}
	return fmt.Sprintf("PatternKind(%d)", int(k))
}

// A Pattern mirrors the shape of the terms it is matched against.
// Name is the capture name of wildcard and exact patterns, Label the literal
// an exact pattern expects, Left and Right the sub-patterns of a pair.
type Pattern struct {
	Kind  PatternKind
	Name  string
	Label string
	Left  *Pattern
	Right *Pattern
}

// Any returns a wildcard capturing name.
func Any(name string) *Pattern {
	return &Pattern{Kind: WildcardKind, Name: name}
}

// Exact returns a pattern matching a leaf labelled label, captured as name.
func Exact(label, name string) *Pattern {
	return &Pattern{Kind: ExactKind, Label: label, Name: name}
}

// PairOf returns a pattern matching an internal node.
func PairOf(left, right *Pattern) *Pattern {
	return &Pattern{Kind: PairKind, Left: left, Right: right}
}

func (p *Pattern) String() string {
	switch p.Kind {
	case WildcardKind:
		return p.Name
	case ExactKind:
		if p.Name == p.Label {
			return p.Label
		}
		return p.Label + "@" + p.Name
	case PairKind:
		return "(" + p.Left.String() + " " + p.Right.String() + ")"
	}
	return "?"
}

// Captures returns the capture names of p in pre-order, duplicates included.
func (p *Pattern) Captures() []string {
	var names []string
	var walk func(*Pattern)
	walk = func(p *Pattern) {
		switch p.Kind {
		case WildcardKind, ExactKind:
			names = append(names, p.Name)
		case PairKind:
			walk(p.Left)
			walk(p.Right)
		}
	}
	walk(p)
	return names
}

// Validate checks that p is well formed and that every capture name is
// used once.
func (p *Pattern) Validate() error {
	var result error
	seen := mapset.NewThreadUnsafeSet[string]()
	reported := mapset.NewThreadUnsafeSet[string]()
	var walk func(*Pattern)
	walk = func(p *Pattern) {
		if p == nil {
			result = multierror.Append(result, errors.New("nil sub-pattern"))
			return
		}
		switch p.Kind {
		case WildcardKind, ExactKind:
			if p.Name == "" {
				result = multierror.Append(result, errors.Errorf("%v pattern without a capture name", p.Kind))
				return
			}
			if !seen.Add(p.Name) && reported.Add(p.Name) {
				result = multierror.Append(result, errors.Wrapf(ErrDuplicateCapture, "%q", p.Name))
			}
		case PairKind:
			walk(p.Left)
			walk(p.Right)
		default:
			result = multierror.Append(result, errors.Errorf("unknown pattern kind %v", p.Kind))
		}
	}
	walk(p)
	return result
}

// A Match is the outcome of matching a pattern. Bindings are only
// meaningful when Matched is true.
type Match struct {
	Matched  bool
	Bindings map[string]NodeID
}

func noMatch() Match {
	return Match{Matched: false, Bindings: map[string]NodeID{}}
}

// Merge ANDs the two outcomes and unions their bindings.
func (m Match) Merge(other Match) Match {
	bindings := make(map[string]NodeID, len(m.Bindings)+len(other.Bindings))
	for k, v := range m.Bindings {
		bindings[k] = v
	}
	for k, v := range other.Bindings {
		bindings[k] = v
	}
	return Match{Matched: m.Matched && other.Matched, Bindings: bindings}
}

// MatchPattern matches p against the subtree of t at id. id may be Nil, in
// which case only a wildcard succeeds.
func MatchPattern(p *Pattern, t *Tree, id NodeID) Match {
	switch p.Kind {
	case WildcardKind:
		return Match{Matched: true, Bindings: map[string]NodeID{p.Name: id}}
	case ExactKind:
		if !id.IsNil() && t.IsLeaf(id) && t.Label(id) == p.Label {
			return Match{Matched: true, Bindings: map[string]NodeID{p.Name: id}}
		}
		return noMatch()
	case PairKind:
		if id.IsNil() {
			return noMatch()
		}
		left := MatchPattern(p.Left, t, t.Left(id))
		right := MatchPattern(p.Right, t, t.Right(id))
		return left.Merge(right)
	}
	panic(errors.Errorf("unknown pattern kind %v", p.Kind))
}
