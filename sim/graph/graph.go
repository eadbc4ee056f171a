// Package graph implements the attributed directed graph shared by the
// trace graph (accumulated at runtime, one root, acyclic) and the pattern
// graph (user-supplied, describes what the matcher looks for).
//
// Node identity is the insertion index; label is the externally meaningful
// name and need not be unique across the whole graph in general, though the
// trace graph's assembly invariant keeps it unique there. Adjacency is kept
// as an ordinary ordered adjacency list — the canonical source of truth for
// traversal and matching, which must be reproducible byte-for-byte across
// runs. A gonum mirror is maintained alongside it purely to get a
// well-tested topological sort for the acyclicity assertion; gonum's
// internal map iteration order never leaks into anything this package
// returns.
package graph

import (
	"fmt"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/anirudhsk/meshtrace/sim/orderedmap"
)

// NodeID is the insertion index of a node within its Graph.
type NodeID int64

// Node is a labeled graph vertex with an ordered attribute map.
type Node struct {
	ID         NodeID
	Label      string
	Attributes *orderedmap.Map
}

// Graph is a directed graph of attributed, labeled nodes. The zero value is
// not usable; construct with New.
type Graph struct {
	nodes    []*Node
	children map[NodeID][]NodeID // insertion-ordered outgoing adjacency
	parents  map[NodeID][]NodeID // insertion-ordered incoming adjacency
	mirror   *simple.DirectedGraph
}

// New returns an empty Graph.
func New() *Graph {
	return &Graph{
		children: make(map[NodeID][]NodeID),
		parents:  make(map[NodeID][]NodeID),
		mirror:   simple.NewDirectedGraph(),
	}
}

// AddNode appends a new node with the given label and returns its id.
func (g *Graph) AddNode(label string) NodeID {
	id := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, &Node{ID: id, Label: label, Attributes: orderedmap.New()})
	g.mirror.AddNode(simple.Node(id))
	return id
}

// AddEdge adds a directed edge from -> to. Duplicate edges are ignored
// (resolves the "do trace merges dedup identical edges" ambiguity by always
// deduping: an edge is identified solely by its endpoint pair).
func (g *Graph) AddEdge(from, to NodeID) error {
	if _, ok := g.node(from); !ok {
		return fmt.Errorf("meshtrace/graph: unknown node id %d", from)
	}
	if _, ok := g.node(to); !ok {
		return fmt.Errorf("meshtrace/graph: unknown node id %d", to)
	}
	for _, existing := range g.children[from] {
		if existing == to {
			return nil
		}
	}
	g.children[from] = append(g.children[from], to)
	g.parents[to] = append(g.parents[to], from)
	g.mirror.SetEdge(g.mirror.NewEdge(simple.Node(from), simple.Node(to)))

	if _, err := topo.Sort(g.mirror); err != nil {
		// Roll back: the caller handed us an edge that closes a cycle,
		// which violates the trace graph invariant. This is a simulator
		// bug (a filter merged something it should not have), not a
		// recoverable input error.
		g.removeEdge(from, to)
		panic(fmt.Sprintf("meshtrace/graph: adding edge %d->%d introduces a cycle", from, to))
	}
	return nil
}

func (g *Graph) removeEdge(from, to NodeID) {
	g.children[from] = removeID(g.children[from], to)
	g.parents[to] = removeID(g.parents[to], from)
	g.mirror.RemoveEdge(int64(from), int64(to))
}

func removeID(xs []NodeID, target NodeID) []NodeID {
	out := xs[:0]
	for _, x := range xs {
		if x != target {
			out = append(out, x)
		}
	}
	return out
}

func (g *Graph) node(id NodeID) (*Node, bool) {
	if id < 0 || int(id) >= len(g.nodes) {
		return nil, false
	}
	return g.nodes[id], true
}

// Node returns the node with the given id.
func (g *Graph) Node(id NodeID) (*Node, bool) { return g.node(id) }

// NodeByLabel returns the first node (in insertion order) carrying the
// given label.
func (g *Graph) NodeByLabel(label string) (*Node, bool) {
	for _, n := range g.nodes {
		if n.Label == label {
			return n, true
		}
	}
	return nil, false
}

// Nodes returns every node in insertion order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Len reports the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// Children returns id's outgoing neighbors in insertion order.
func (g *Graph) Children(id NodeID) []NodeID {
	out := make([]NodeID, len(g.children[id]))
	copy(out, g.children[id])
	return out
}

// Parents returns id's incoming neighbors in insertion order.
func (g *Graph) Parents(id NodeID) []NodeID {
	out := make([]NodeID, len(g.parents[id]))
	copy(out, g.parents[id])
	return out
}

// Root returns the unique node with in-degree zero. Returns false if there
// is none or more than one (a malformed trace graph).
func (g *Graph) Root() (NodeID, bool) {
	var root NodeID = -1
	found := 0
	for _, n := range g.nodes {
		if len(g.parents[n.ID]) == 0 {
			root = n.ID
			found++
		}
	}
	if found != 1 {
		return -1, false
	}
	return root, true
}

// Leaves returns every node with out-degree zero, in insertion order.
func (g *Graph) Leaves() []NodeID {
	var out []NodeID
	for _, n := range g.nodes {
		if len(g.children[n.ID]) == 0 {
			out = append(out, n.ID)
		}
	}
	return out
}

// PostOrder performs a deterministic depth-first postorder traversal from
// root, visiting children in insertion order.
func (g *Graph) PostOrder(root NodeID) []NodeID {
	var out []NodeID
	visited := make(map[NodeID]bool)
	var visit func(NodeID)
	visit = func(id NodeID) {
		if visited[id] {
			return
		}
		visited[id] = true
		for _, c := range g.children[id] {
			visit(c)
		}
		out = append(out, id)
	}
	visit(root)
	return out
}

// Clone returns a deep copy.
func (g *Graph) Clone() *Graph {
	out := New()
	for _, n := range g.nodes {
		id := out.AddNode(n.Label)
		out.nodes[id].Attributes = n.Attributes.Clone()
	}
	for _, n := range g.nodes {
		for _, c := range g.children[n.ID] {
			_ = out.AddEdge(n.ID, c)
		}
	}
	return out
}

// Merge folds other into g: every node in other not already present (by
// label) is appended, and every edge is added (AddEdge dedups). Returns a
// mapping from other's node ids to g's node ids, so callers can translate
// attribute assignments that arrive keyed against the other graph.
func (g *Graph) Merge(other *Graph) map[NodeID]NodeID {
	translated := make(map[NodeID]NodeID, other.Len())
	for _, n := range other.Nodes() {
		if existing, ok := g.NodeByLabel(n.Label); ok {
			translated[n.ID] = existing.ID
			for _, k := range n.Attributes.Keys() {
				v, _ := n.Attributes.Get(k)
				existing.Attributes.Set(k, v)
			}
			continue
		}
		newID := g.AddNode(n.Label)
		g.nodes[newID].Attributes = n.Attributes.Clone()
		translated[n.ID] = newID
	}
	for _, n := range other.Nodes() {
		for _, c := range other.Children(n.ID) {
			_ = g.AddEdge(translated[n.ID], translated[c])
		}
	}
	return translated
}
