package filter

import (
	"strconv"

	"github.com/anirudhsk/meshtrace/sim/graph"
)

// Reduction parameterizes the scalar computation a filter runs over the
// trace graph on every outgoing response: leaf for nodes with no children,
// mid for interior nodes given their children's previously computed
// values.
type Reduction struct {
	Leaf func(self *graph.Node) string
	Mid  func(self *graph.Node, childValues []string) string
}

// HeightReduction computes the longest-path-to-leaf "height" of the trace
// tree: 0 at a leaf, 1 + max(children) at an interior node. Non-numeric
// child values are treated as 0, matching the reference filter's fallback.
var HeightReduction = Reduction{
	Leaf: func(self *graph.Node) string { return "0" },
	Mid: func(self *graph.Node, childValues []string) string {
		max := 0
		for _, v := range childValues {
			n, err := strconv.Atoi(v)
			if err != nil {
				continue
			}
			if n > max {
				max = n
			}
		}
		return strconv.Itoa(max + 1)
	},
}
