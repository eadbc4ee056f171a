// Package match implements the subtree isomorphism matcher: deciding
// whether a trace graph contains a pattern graph and, if so, returning a
// concrete mapping from pattern nodes to trace nodes.
//
// The algorithm is the bottom-up, witness-table style described by Shamir
// and Tsur for unordered labeled tree inclusion: a trace node v satisfies a
// pattern node u if their labels and attributes are compatible and every
// child of u can be matched to a distinct child of v, decided by maximum
// bipartite matching. A pattern node is allowed one more child than the
// trace node it's tested against (m <= k+1): one leaf child may be absorbed
// directly onto v instead of claiming one of v's own children. Matching
// ties are broken by insertion order on both sides, which keeps the
// returned mapping reproducible across runs.
package match

import "github.com/anirudhsk/meshtrace/sim/graph"

// Mapping is the result of a successful match: a total function from every
// pattern node to the trace node it was matched against.
type Mapping struct {
	PatternToTrace map[graph.NodeID]graph.NodeID
	pattern        *graph.Graph
	trace          *graph.Graph
}

type pairKey struct {
	trace, pattern graph.NodeID
}

// Match decides whether trace contains pattern and, if so, returns the
// mapping. A nil, nil result means no mapping was found; it is not an
// error. ErrMalformedPattern/ErrMalformedTrace indicate a structurally
// invalid input graph.
func Match(trace, pattern *graph.Graph) (*Mapping, error) {
	patternRoot, ok := pattern.Root()
	if !ok {
		return nil, ErrMalformedPattern
	}
	if trace.Len() == 0 {
		return nil, nil
	}
	traceRoot, ok := trace.Root()
	if !ok {
		return nil, ErrMalformedTrace
	}

	embeds := make(map[pairKey]bool)
	witness := make(map[pairKey]matchResult)

	traceOrder := trace.PostOrder(traceRoot)
	patternOrder := pattern.PostOrder(patternRoot)

	for _, v := range traceOrder {
		vChildren := trace.Children(v)
		vNode, _ := trace.Node(v)
		for _, u := range patternOrder {
			uNode, _ := pattern.Node(u)
			if !compatible(vNode, uNode) {
				continue
			}
			uChildren := pattern.Children(u)
			key := pairKey{trace: v, pattern: u}
			if len(uChildren) == 0 {
				embeds[key] = true
				continue
			}
			m, k := len(uChildren), len(vChildren)
			// Degree filter: m <= k+1. The +1 is the one child u is
			// allowed to absorb directly onto v instead of matching a
			// distinct child of v (see tryAbsorb below); beyond that
			// slack, u needs more matched children than v could ever
			// supply.
			if m > k+1 {
				continue
			}
			if m <= k {
				bg := newBipartiteGraph(m)
				for xi, x := range uChildren {
					for cj, c := range vChildren {
						if embeds[pairKey{trace: c, pattern: x}] {
							bg.addEdge(xi, cj)
						}
					}
				}
				matching, size := bg.maximumMatching()
				if size == m {
					embeds[key] = true
					witness[key] = matchResult{matched: matching}
				}
				continue
			}
			// m == k+1: u has one more child than v, so at most one of
			// them can fail to land on a distinct child of v. Try
			// absorbing exactly one child x_i directly onto v itself —
			// only sound when x_i is a leaf, so nothing further needs
			// to be found underneath it — while the remaining m-1
			// children still need a perfect matching among v's k
			// children.
			if res, ok := tryAbsorb(embeds, pattern, v, vChildren, uChildren); ok {
				embeds[key] = true
				witness[key] = res
			}
		}
	}

	if !embeds[pairKey{trace: traceRoot, pattern: patternRoot}] {
		return nil, nil
	}

	mapping := &Mapping{
		PatternToTrace: make(map[graph.NodeID]graph.NodeID),
		pattern:        pattern,
		trace:          trace,
	}
	var assign func(v, u graph.NodeID)
	assign = func(v, u graph.NodeID) {
		mapping.PatternToTrace[u] = v
		res, ok := witness[pairKey{trace: v, pattern: u}]
		if !ok {
			return
		}
		vChildren := trace.Children(v)
		uChildren := pattern.Children(u)
		for xi, cj := range res.matched {
			assign(vChildren[cj], uChildren[xi])
		}
		if res.hasAbsorbed {
			assign(v, res.absorbed)
		}
	}
	assign(traceRoot, patternRoot)
	return mapping, nil
}

// matchResult records how a pattern node u's children were placed under a
// trace node v: matched holds the distinct-child assignment (pattern-child
// index -> trace-child index) and, when hasAbsorbed is set, absorbed is the
// one pattern child mapped directly onto v itself rather than one of v's
// children.
type matchResult struct {
	matched     map[int]int
	absorbed    graph.NodeID
	hasAbsorbed bool
}

// tryAbsorb is the m == k+1 case: try u's leaf children that already embed
// directly at v in insertion order, dropping each from consideration in
// turn, and accept the first whose remaining m-1 siblings have a perfect
// matching among v's children. Grounded on spec.md's witness-table recurrence ("for
// i = 1..m, compute the maximum bipartite matching in B with x_i removed;
// if its size equals m-1..."); restricting the dropped child to a leaf
// keeps the recurrence well-founded — a non-leaf child would need its own
// descendants placed somewhere, and v has none left to offer once the
// other m-1 children have claimed theirs.
func tryAbsorb(embeds map[pairKey]bool, pattern *graph.Graph, v graph.NodeID, vChildren, uChildren []graph.NodeID) (matchResult, bool) {
	for xi, x := range uChildren {
		if len(pattern.Children(x)) != 0 {
			continue
		}
		if !embeds[pairKey{trace: v, pattern: x}] {
			continue
		}

		bg := newBipartiteGraph(len(uChildren) - 1)
		others := make([]int, 0, len(uChildren)-1) // reduced row index -> original pattern-child index
		for oi, y := range uChildren {
			if oi == xi {
				continue
			}
			ri := len(others)
			others = append(others, oi)
			for cj, c := range vChildren {
				if embeds[pairKey{trace: c, pattern: y}] {
					bg.addEdge(ri, cj)
				}
			}
		}
		matching, size := bg.maximumMatching()
		if size != len(others) {
			continue
		}
		matched := make(map[int]int, len(others))
		for ri, cj := range matching {
			matched[others[ri]] = cj
		}
		return matchResult{matched: matched, absorbed: x, hasAbsorbed: true}, true
	}
	return matchResult{}, false
}

// compatible reports whether a trace node can stand in for a pattern node:
// the label must match (or the pattern label is a wildcard), and every
// pattern attribute must be present on the trace node with an equal value.
//
// Besides the literal "*", a single lowercase letter (a, b, c, ...) is also
// a wildcard: pattern authors use these as structural variable names, not
// literal service names, reserving actual service-name constraints for
// attributes (e.g. a pattern node matches only reviews-v1 by carrying
// {service_name: reviews-v1} as an attribute, not by its label).
// DesignatedReturnLabel ("a") is drawn from the same convention — it is
// both the wildcard variable name and the value extractor's marker for
// "the node whose result this match reports".
func compatible(trace, pattern *graph.Node) bool {
	if !isWildcardLabel(pattern.Label) && pattern.Label != trace.Label {
		return false
	}
	return trace.Attributes.Contains(pattern.Attributes)
}

func isWildcardLabel(label string) bool {
	if label == "*" {
		return true
	}
	return len(label) == 1 && label[0] >= 'a' && label[0] <= 'z'
}
