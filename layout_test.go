package ski

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func placement(t *testing.T, p *Placements, id NodeID) Placement {
	pl, ok := p.At(id)
	require.True(t, ok, "node %v not placed", id)
	return pl
}

func TestLayoutLeaf(t *testing.T) {
	t.Parallel()

	tr := MustParse("S")
	p := Layout(tr, 100, 100)
	assert.Equal(t, Placement{}, placement(t, p, tr.Root))
	assert.Equal(t, 1, p.Len())
}

func TestLayoutPair(t *testing.T) {
	t.Parallel()

	tr := MustParse("(ab)")
	a, b := tr.Children(tr.Root)
	p := Layout(tr, 100, 100)

	assert.Equal(t, Placement{X: 0, Y: 0, LeftExtent: 50, RightExtent: 50, Height: 100}, placement(t, p, tr.Root))
	assert.Equal(t, Placement{X: -50, Y: -100}, placement(t, p, a))
	assert.Equal(t, Placement{X: 50, Y: -100}, placement(t, p, b))
}

func TestLayoutUnbalanced(t *testing.T) {
	t.Parallel()

	tr := MustParse("((ab)c)")
	ab, c := tr.Children(tr.Root)
	a, b := tr.Children(ab)
	p := Layout(tr, 100, 100)

	assert.Equal(t, Placement{X: 0, Y: 0, LeftExtent: 125, RightExtent: 75, Height: 200}, placement(t, p, tr.Root))
	assert.Equal(t, Placement{X: -75, Y: -100, LeftExtent: 50, RightExtent: 50, Height: 100}, placement(t, p, ab))
	assert.Equal(t, Placement{X: -125, Y: -200}, placement(t, p, a))
	assert.Equal(t, Placement{X: -25, Y: -200}, placement(t, p, b))
	assert.Equal(t, Placement{X: 75, Y: -100}, placement(t, p, c))

	minX, minY, maxX, maxY := p.Bounds()
	assert.Equal(t, []float64{-125, -200, 75, 0}, []float64{minX, minY, maxX, maxY})
	assert.Equal(t, placement(t, p, tr.Root), p.Root())
}

func TestLayoutEmpty(t *testing.T) {
	t.Parallel()

	p := Layout(NewTree(), 100, 100)
	assert.Equal(t, 0, p.Len())
	minX, minY, maxX, maxY := p.Bounds()
	assert.Equal(t, []float64{0, 0, 0, 0}, []float64{minX, minY, maxX, maxY})
}

func TestLayoutSubtree(t *testing.T) {
	t.Parallel()

	tr := MustParse("((ab)c)")
	ab := tr.Left(tr.Root)
	p := LayoutAt(tr, ab, 10, 4)
	assert.Equal(t, 3, p.Len())
	assert.Equal(t, Placement{LeftExtent: 2, RightExtent: 2, Height: 10}, p.Root())
	_, ok := p.At(tr.Root)
	assert.False(t, ok)
}

func TestLayoutIsDeterministic(t *testing.T) {
	t.Parallel()

	a := MustParse("((S(KK))(I(ab)))")
	b := MustParse("((S(KK))(I(ab)))")
	pa := Layout(a, 60, 30)
	pb := Layout(b, 60, 30)

	var xa, xb []Placement
	a.Walk(a.Root, func(id NodeID) bool {
		xa = append(xa, placement(t, pa, id))
		return true
	})
	b.Walk(b.Root, func(id NodeID) bool {
		xb = append(xb, placement(t, pb, id))
		return true
	})
	assert.Equal(t, xa, xb)
}

func TestLayoutGapIsExact(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		tr := MustParse(genExpr(6).Draw(rt, "expr"))
		h := float64(rapid.IntRange(1, 200).Draw(rt, "levelHeight"))
		s := float64(rapid.IntRange(1, 200).Draw(rt, "spacing"))
		p := Layout(tr, h, s)

		require.Equal(rt, tr.Size(tr.Root), p.Len())
		tr.Walk(tr.Root, func(id NodeID) bool {
			if tr.IsLeaf(id) {
				return true
			}
			l, r := tr.Children(id)
			parent, _ := p.At(id)
			left, _ := p.At(l)
			right, _ := p.At(r)

			require.Equal(rt, left.RightExtent+right.LeftExtent+s, right.X-left.X)
			require.Equal(rt, parent.Y-h, left.Y)
			require.Equal(rt, parent.Y-h, right.Y)
			require.Equal(rt, parent.X, (left.X+right.X)/2)
			return true
		})
	})
}
