package ski

import (
	"encoding/xml"
	"io"
	"math"
	"strconv"

	"github.com/pkg/errors"
)

const svgNS = "http://www.w3.org/2000/svg"

// RenderOptions controls the look of RenderSVG.
type RenderOptions struct {
	// FlowerRadius is the petal radius of a leaf.
	FlowerRadius float64
	// NodeRadius is the radius of an internal node.
	NodeRadius float64
	// Margin pads the view box.
	Margin float64
	// StubLength is the length of the stem drawn below the root.
	StubLength float64
}

// DefaultRenderOptions matches the sizes the layout defaults were tuned for.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{FlowerRadius: 15, NodeRadius: 10, Margin: 50, StubLength: 100}
}

var labelColors = map[string]string{
	"S": "#e36e14",
	"K": "#c71494",
}

const (
	defaultLeafColor = "#1066c2"
	stemColor        = "#21cc1f"
	petals           = 5
)

// LeafColor returns the fill used for a leaf labelled label.
func LeafColor(label string) string {
	if c, ok := labelColors[label]; ok {
		return c
	}
	return defaultLeafColor
}

type svgWriter struct {
	enc  *xml.Encoder
	tree *Tree
	pl   *Placements
	opts RenderOptions
	err  error
}

// RenderSVG writes t as an SVG document using the placements p computed by
// Layout. Leaves are drawn as flowers and internal nodes as dots.
func RenderSVG(w io.Writer, t *Tree, p *Placements, opts RenderOptions) error {
	if t.Root.IsNil() {
		return errors.New("cannot render an empty tree")
	}
	sw := &svgWriter{enc: xml.NewEncoder(w), tree: t, pl: p, opts: opts}
	root := p.Root()

	x := -root.LeftExtent - opts.Margin
	y := -root.Height - 2*opts.Margin
	width := root.LeftExtent + root.RightExtent + 2*opts.Margin
	height := root.Height + opts.StubLength + 4*opts.Margin

	sw.start("svg",
		"xmlns", svgNS,
		"width", "100%",
		"height", "100%",
		"viewBox", num(x)+" "+num(y)+" "+num(width)+" "+num(height))
	sw.edge(root.X, root.Y+opts.StubLength, root.X, root.Y)
	sw.dot(root.X, root.Y+opts.StubLength)
	sw.subtree(t.Root)
	sw.end("svg")

	if sw.err != nil {
		return sw.err
	}
	return errors.Wrap(sw.enc.Flush(), "writing svg")
}

func (sw *svgWriter) subtree(id NodeID) {
	pl, ok := sw.pl.At(id)
	if !ok {
		sw.fail(errors.Errorf("node %v has not been laid out", id))
		return
	}
	sw.start("g")
	if !sw.tree.IsLeaf(id) {
		left, right := sw.tree.Children(id)
		for _, c := range []NodeID{left, right} {
			cp, ok := sw.pl.At(c)
			if !ok {
				sw.fail(errors.Errorf("node %v has not been laid out", c))
				return
			}
			sw.edge(pl.X, pl.Y, cp.X, cp.Y)
		}
		sw.subtree(left)
		sw.subtree(right)
		sw.dot(pl.X, pl.Y)
	} else {
		sw.flower(pl.X, pl.Y, LeafColor(sw.tree.Label(id)))
	}
	if label := sw.tree.Label(id); label != "" {
		sw.start("text",
			"x", num(pl.X),
			"y", num(pl.Y),
			"text-anchor", "middle",
			"dominant-baseline", "middle")
		sw.text(label)
		sw.end("text")
	}
	sw.end("g")
}

func (sw *svgWriter) flower(x, y float64, fill string) {
	r := sw.opts.FlowerRadius
	sw.start("g", "class", "node", "transform", "translate("+num(x)+", "+num(y)+")")
	for i := 0; i < petals; i++ {
		a := float64(i) * 2 * math.Pi / petals
		sw.start("circle", "cx", num(r*math.Cos(a)), "cy", num(r*math.Sin(a)), "r", num(r), "fill", fill)
		sw.end("circle")
	}
	sw.start("circle", "cx", "0", "cy", "0", "r", num(r), "fill", "#fff")
	sw.end("circle")
	sw.end("g")
}

func (sw *svgWriter) dot(x, y float64) {
	sw.start("circle", "class", "node", "cx", num(x), "cy", num(y), "r", num(sw.opts.NodeRadius), "fill", stemColor)
	sw.end("circle")
}

func (sw *svgWriter) edge(x1, y1, x2, y2 float64) {
	sw.start("line",
		"x1", num(x1), "y1", num(y1),
		"x2", num(x2), "y2", num(y2),
		"stroke", stemColor, "stroke-width", "2")
	sw.end("line")
}

func (sw *svgWriter) start(name string, attrs ...string) {
	el := xml.StartElement{Name: xml.Name{Local: name}}
	for i := 0; i+1 < len(attrs); i += 2 {
		el.Attr = append(el.Attr, xml.Attr{Name: xml.Name{Local: attrs[i]}, Value: attrs[i+1]})
	}
	sw.token(el)
}

func (sw *svgWriter) end(name string) {
	sw.token(xml.EndElement{Name: xml.Name{Local: name}})
}

func (sw *svgWriter) text(s string) {
	sw.token(xml.CharData(s))
}

func (sw *svgWriter) token(tok xml.Token) {
	if sw.err != nil {
		return
	}
	if err := sw.enc.EncodeToken(tok); err != nil {
		sw.fail(errors.Wrap(err, "writing svg"))
	}
}

func (sw *svgWriter) fail(err error) {
	if sw.err == nil {
		sw.err = err
	}
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
