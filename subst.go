package ski

// Instantiate builds a copy of the template subtree tmpl/id inside dst,
// replacing every leaf whose label is bound with a fresh clone of the bound
// subtree of dst. Unbound leaves are copied as literals. Neither the template
// nor the bound subtrees are modified, and the result shares no node with
// either.
func Instantiate(dst *Tree, tmpl *Tree, id NodeID, bindings map[string]NodeID) NodeID {
	if tmpl.IsLeaf(id) {
		label := tmpl.Label(id)
		if bound, ok := bindings[label]; ok {
			return dst.Clone(bound)
		}
		return dst.Leaf(label)
	}
	left, right := tmpl.Children(id)
	l := Instantiate(dst, tmpl, left, bindings)
	r := Instantiate(dst, tmpl, right, bindings)
	return dst.Pair(l, r)
}
