package ski

import (
	"pgregory.net/rapid"
)

var testLabels = []string{"S", "K", "I", "a", "b", "x", "λ"}

// genExpr draws canonical expressions of trees at most depth levels deep.
func genExpr(depth int) *rapid.Generator[string] {
	return rapid.Custom(func(t *rapid.T) string {
		if depth == 0 || rapid.Bool().Draw(t, "leaf") {
			return rapid.SampledFrom(testLabels).Draw(t, "label")
		}
		left := genExpr(depth-1).Draw(t, "left")
		right := genExpr(depth-1).Draw(t, "right")
		return "(" + left + right + ")"
	})
}
