package ski

import (
	"math"

	"github.com/golang/glog"
)

// A Placement is the position of a node and the extent of its subtree
// relative to that position. Y decreases towards the leaves.
type Placement struct {
	X, Y        float64
	LeftExtent  float64
	RightExtent float64
	Height      float64
}

// Placements holds the result of a layout pass. It is not kept in sync
// with the tree; lay the tree out again after every edit.
type Placements struct {
	byNode map[NodeID]*Placement
	root   NodeID
}

// At returns the placement of id.
func (p *Placements) At(id NodeID) (Placement, bool) {
	pl, ok := p.byNode[id]
	if !ok {
		return Placement{}, false
	}
	return *pl, true
}

// Len returns the number of placed nodes.
func (p *Placements) Len() int {
	return len(p.byNode)
}

// Root returns the placement of the root the layout started from.
func (p *Placements) Root() Placement {
	pl, _ := p.At(p.root)
	return pl
}

// Bounds returns the bounding box of all placed nodes.
func (p *Placements) Bounds() (minX, minY, maxX, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, pl := range p.byNode {
		minX = math.Min(minX, pl.X)
		maxX = math.Max(maxX, pl.X)
		minY = math.Min(minY, pl.Y)
		maxY = math.Max(maxY, pl.Y)
	}
	if len(p.byNode) == 0 {
		return 0, 0, 0, 0
	}
	return minX, minY, maxX, maxY
}

// Layout places every node of t below t.Root. Children sit levelHeight
// above their parent, and sibling subtrees are pushed apart until their
// facing extents are spacing apart.
func Layout(t *Tree, levelHeight, spacing float64) *Placements {
	return LayoutAt(t, t.Root, levelHeight, spacing)
}

// LayoutAt is like Layout for the subtree at id.
func LayoutAt(t *Tree, id NodeID, levelHeight, spacing float64) *Placements {
	p := &Placements{byNode: map[NodeID]*Placement{}, root: id}
	if id.IsNil() {
		return p
	}
	p.position(t, id, levelHeight, spacing)
	glog.V(7).Infof("laid out %d nodes", len(p.byNode))
	return p
}

func (p *Placements) position(t *Tree, id NodeID, levelHeight, spacing float64) *Placement {
	pl := &Placement{}
	p.byNode[id] = pl
	if t.IsLeaf(id) {
		return pl
	}

	leftID, rightID := t.Children(id)
	left := p.position(t, leftID, levelHeight, spacing)
	right := p.position(t, rightID, levelHeight, spacing)

	gap := left.RightExtent + right.LeftExtent + spacing
	p.translate(t, leftID, -gap/2, -levelHeight)
	p.translate(t, rightID, gap/2, -levelHeight)

	pl.LeftExtent = left.LeftExtent + gap/2
	pl.RightExtent = right.RightExtent + gap/2
	pl.Height = levelHeight + math.Max(left.Height, right.Height)
	return pl
}

func (p *Placements) translate(t *Tree, id NodeID, dx, dy float64) {
	t.Walk(id, func(n NodeID) bool {
		pl := p.byNode[n]
		pl.X += dx
		pl.Y += dy
		return true
	})
}
