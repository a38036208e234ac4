package ski

import (
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/pkg/errors"
)

var (
	// ErrStaleNode is returned when a handle refers to a slot that has been freed.
	ErrStaleNode = errors.New("stale node handle")
	// ErrNotLeaf is returned by edits that only apply to leaves.
	ErrNotLeaf = errors.New("node is not a leaf")
	// ErrNotInternal is returned by edits that only apply to internal nodes.
	ErrNotInternal = errors.New("node is not an internal node")
	// ErrCycle is returned when a replacement would make a node its own descendant.
	ErrCycle = errors.New("replacement contains the target node")
)

// A NodeID is a stable handle to a node in a Tree. Handles survive
// ReplaceInPlace, so a renderer or a selection can hold on to one while
// the node's content changes underneath it.
type NodeID struct {
	slot int32
	gen  uint32
}

// Nil is the absent node.
var Nil NodeID

// IsNil reports whether id is the absent node.
func (id NodeID) IsNil() bool { return id.gen == 0 }

type slot struct {
	label string
	left  NodeID
	right NodeID
	gen   uint32
	live  bool
}

// A Tree is an arena of binary nodes with a designated root.
//
// A node is a leaf iff both of its children are Nil. Internal nodes own
// their children exclusively: no node is shared and there are no cycles.
type Tree struct {
	Root  NodeID
	slots []slot
	free  []int32
}

// NewTree returns an empty arena.
func NewTree() *Tree {
	return &Tree{}
}

// NewLeafTree returns a tree consisting of a single leaf.
func NewLeafTree(label string) *Tree {
	t := NewTree()
	t.Root = t.Leaf(label)
	return t
}

func (t *Tree) alloc(label string, left, right NodeID) NodeID {
	var idx int32
	if n := len(t.free); n > 0 {
		idx = t.free[n-1]
		t.free = t.free[:n-1]
	} else {
		t.slots = append(t.slots, slot{})
		idx = int32(len(t.slots) - 1)
	}
	s := &t.slots[idx]
	s.gen++
	s.live = true
	s.label = label
	s.left = left
	s.right = right
	return NodeID{slot: idx, gen: s.gen}
}

func (t *Tree) retire(id NodeID) {
	s := &t.slots[id.slot]
	s.live = false
	s.label = ""
	s.left = Nil
	s.right = Nil
	t.free = append(t.free, id.slot)
}

// Leaf allocates a fresh leaf.
func (t *Tree) Leaf(label string) NodeID {
	return t.alloc(label, Nil, Nil)
}

// Pair allocates a fresh internal node owning left and right.
func (t *Tree) Pair(left, right NodeID) NodeID {
	if left.IsNil() || right.IsNil() {
		panic(errors.New("pair requires two children"))
	}
	return t.alloc("", left, right)
}

// Valid reports whether id refers to a live node of this tree.
func (t *Tree) Valid(id NodeID) bool {
	if id.IsNil() || id.slot < 0 || int(id.slot) >= len(t.slots) {
		return false
	}
	s := &t.slots[id.slot]
	return s.live && s.gen == id.gen
}

func (t *Tree) get(id NodeID) *slot {
	if !t.Valid(id) {
		panic(errors.Wrapf(ErrStaleNode, "node %v", id))
	}
	return &t.slots[id.slot]
}

// IsLeaf reports whether id has no children.
func (t *Tree) IsLeaf(id NodeID) bool {
	s := t.get(id)
	return s.left.IsNil() && s.right.IsNil()
}

// Label returns the node's label. Labels of internal nodes carry no meaning.
func (t *Tree) Label(id NodeID) string {
	return t.get(id).label
}

// Children returns the node's children, both Nil for a leaf.
func (t *Tree) Children(id NodeID) (NodeID, NodeID) {
	s := t.get(id)
	return s.left, s.right
}

// Left returns the left child, or Nil. Absent nodes have absent children.
func (t *Tree) Left(id NodeID) NodeID {
	if id.IsNil() {
		return Nil
	}
	return t.get(id).left
}

// Right returns the right child, or Nil.
func (t *Tree) Right(id NodeID) NodeID {
	if id.IsNil() {
		return Nil
	}
	return t.get(id).right
}

// Clone deep-copies the subtree at id, producing fresh identities.
func (t *Tree) Clone(id NodeID) NodeID {
	return t.Graft(t, id)
}

// Graft deep-copies the subtree at id of src into t.
func (t *Tree) Graft(src *Tree, id NodeID) NodeID {
	s := src.get(id)
	if s.left.IsNil() {
		return t.Leaf(s.label)
	}
	left, right := s.left, s.right
	label := s.label
	l := t.Graft(src, left)
	r := t.Graft(src, right)
	return t.alloc(label, l, r)
}

// ReplaceInPlace overwrites the label and children of id with those of
// other. The children are moved, not copied, and other's slot is retired,
// so id is the only owner afterwards. Whatever id owned before is left
// unreachable until the next Collect.
func (t *Tree) ReplaceInPlace(id, other NodeID) error {
	if !t.Valid(id) || !t.Valid(other) {
		return errors.Wrapf(ErrStaleNode, "replace %v with %v", id, other)
	}
	if id == other {
		return nil
	}
	if t.contains(other, id) {
		return errors.Wrapf(ErrCycle, "replace %v with %v", id, other)
	}
	src := t.slots[other.slot]
	dst := &t.slots[id.slot]
	dst.label = src.label
	dst.left = src.left
	dst.right = src.right
	t.retire(other)
	return nil
}

func (t *Tree) contains(root, id NodeID) bool {
	found := false
	t.Walk(root, func(n NodeID) bool {
		if n == id {
			found = true
		}
		return !found
	})
	return found
}

// Walk visits the subtree at id in pre-order. Returning false from fn stops
// the descent below that node.
func (t *Tree) Walk(id NodeID, fn func(NodeID) bool) {
	if id.IsNil() || !fn(id) {
		return
	}
	s := t.get(id)
	left, right := s.left, s.right
	t.Walk(left, fn)
	t.Walk(right, fn)
}

// Size returns the number of nodes in the subtree at id.
func (t *Tree) Size(id NodeID) int {
	n := 0
	t.Walk(id, func(NodeID) bool {
		n++
		return true
	})
	return n
}

// Live returns the number of allocated slots, reachable or not.
func (t *Tree) Live() int {
	return len(t.slots) - len(t.free)
}

// Collect retires every node not reachable from Root and returns how many
// were freed. Handles to freed nodes become stale.
func (t *Tree) Collect() int {
	reachable := mapset.NewThreadUnsafeSet[int32]()
	t.Walk(t.Root, func(n NodeID) bool {
		reachable.Add(n.slot)
		return true
	})
	freed := 0
	for i := range t.slots {
		s := &t.slots[i]
		if !s.live || reachable.Contains(int32(i)) {
			continue
		}
		t.retire(NodeID{slot: int32(i), gen: s.gen})
		freed++
	}
	return freed
}

// Expression returns the bracketed form of the subtree at id: a leaf is its
// label, a pair is "(" + left + right + ")".
func (t *Tree) Expression(id NodeID) string {
	var sb strings.Builder
	t.writeExpression(&sb, id)
	return sb.String()
}

func (t *Tree) writeExpression(sb *strings.Builder, id NodeID) {
	s := t.get(id)
	if s.left.IsNil() {
		sb.WriteString(s.label)
		return
	}
	left, right := s.left, s.right
	sb.WriteByte('(')
	t.writeExpression(sb, left)
	t.writeExpression(sb, right)
	sb.WriteByte(')')
}

// String returns the expression of the whole tree.
func (t *Tree) String() string {
	if t.Root.IsNil() {
		return ""
	}
	return t.Expression(t.Root)
}

// Equal reports whether two subtrees have the same shape and leaf labels.
func Equal(a *Tree, ida NodeID, b *Tree, idb NodeID) bool {
	if ida.IsNil() || idb.IsNil() {
		return ida.IsNil() && idb.IsNil()
	}
	sa, sb := a.get(ida), b.get(idb)
	if sa.left.IsNil() != sb.left.IsNil() {
		return false
	}
	if sa.left.IsNil() {
		return sa.label == sb.label
	}
	return Equal(a, sa.left, b, sb.left) && Equal(a, sa.right, b, sb.right)
}

// Split turns a leaf into a pair of two fresh "x" leaves.
func (t *Tree) Split(id NodeID) error {
	if !t.Valid(id) {
		return errors.Wrapf(ErrStaleNode, "split %v", id)
	}
	if !t.IsLeaf(id) {
		return errors.Wrapf(ErrNotLeaf, "split %v", id)
	}
	left := t.Leaf("x")
	right := t.Leaf("x")
	s := &t.slots[id.slot]
	s.label = ""
	s.left = left
	s.right = right
	return nil
}

// Collapse turns an internal node into an unlabelled leaf.
func (t *Tree) Collapse(id NodeID) error {
	if !t.Valid(id) {
		return errors.Wrapf(ErrStaleNode, "collapse %v", id)
	}
	if t.IsLeaf(id) {
		return errors.Wrapf(ErrNotInternal, "collapse %v", id)
	}
	s := &t.slots[id.slot]
	s.label = ""
	s.left = Nil
	s.right = Nil
	return nil
}

// Rename relabels a leaf.
func (t *Tree) Rename(id NodeID, label string) error {
	if !t.Valid(id) {
		return errors.Wrapf(ErrStaleNode, "rename %v", id)
	}
	if !t.IsLeaf(id) {
		return errors.Wrapf(ErrNotLeaf, "rename %v", id)
	}
	t.slots[id.slot].label = label
	return nil
}
