// Package height is a bundled example filter plugin: it reduces the trace
// graph to the height of its call tree and matches against the three-node
// chain pattern a -> b -> c, the same scenario described for a
// productpage -> reviews -> ratings call chain.
//
// It is built as a Go plugin (a separate package main wrapping this one
// would set GOPATH/whatever and `go build -buildmode=plugin`) or linked
// statically by registering it with a filter.Registry — see Register.
package height

import (
	"github.com/anirudhsk/meshtrace/sim/filter"
	"github.com/anirudhsk/meshtrace/sim/graph"
)

// Name is the identifier this plugin registers itself under.
const Name = "height"

// RootServiceProperty is the ambient property naming which workload is the
// trace's root service — only that node's filter ever runs the matcher.
const RootServiceProperty = "node.metadata.ROOT_SERVICE"

// TargetGraph builds the pattern this example matches against: a linear
// chain of three nodes labeled a, b, c with no attribute constraints.
func TargetGraph() *graph.Graph {
	g := graph.New()
	a := g.AddNode("a")
	b := g.AddNode("b")
	c := g.AddNode("c")
	_ = g.AddEdge(a, b)
	_ = g.AddEdge(b, c)
	return g
}

// NewWithEnvoyProperties is the plugin constructor entry point, callable
// either through filter.Registry or a dynamically loaded .so exposing this
// exact symbol name and signature.
func NewWithEnvoyProperties(properties map[string]string, uidFactory func() uint64) (filter.Executor, error) {
	rootService := properties[RootServiceProperty]
	return filter.New(properties, nil, TargetGraph(), filter.HeightReduction, rootService, uidFactory)
}

// Register installs this plugin into a static registry under Name.
func Register(r *filter.Registry) {
	r.Register(Name, NewWithEnvoyProperties)
}
