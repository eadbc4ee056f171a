// Package ferry implements the FerriedData header codec: serializing the
// pair (trace graph, unassigned property buffer) into a single self
// describing document carried in a message header, and decoding it back.
package ferry

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/anirudhsk/meshtrace/sim/graph"
)

// Property is a single ⟨node-label, key, value⟩ observation that could not
// yet be attached to a graph node because that node had not appeared yet.
type Property struct {
	Label string
	Key   string
	Value string
}

// FerriedData is the pair carried on the wire: the trace graph assembled so
// far, plus a buffer of attribute observations not yet attachable to it.
type FerriedData struct {
	Graph      *graph.Graph
	Unassigned []Property
}

// New returns an empty FerriedData.
func New() *FerriedData {
	return &FerriedData{Graph: graph.New()}
}

// AssignProperties drains Unassigned: every triple whose label now names a
// graph node has its attribute installed and is removed from the buffer.
// Calling this twice in a row is a no-op the second time (idempotent) since
// nothing remains to drain after the first pass installs everything
// installable.
func (fd *FerriedData) AssignProperties() {
	var remaining []Property
	for _, p := range fd.Unassigned {
		n, ok := fd.Graph.NodeByLabel(p.Label)
		if !ok {
			remaining = append(remaining, p)
			continue
		}
		n.Attributes.Set(p.Key, p.Value)
	}
	fd.Unassigned = remaining
}

// AddUnassigned appends a property observation and re-runs AssignProperties
// so the post-condition (no triple names a present node) holds immediately.
func (fd *FerriedData) AddUnassigned(label, key, value string) {
	fd.Unassigned = append(fd.Unassigned, Property{Label: label, Key: key, Value: value})
	fd.AssignProperties()
}

// wire document shapes. Node indices in the wire format are local to the
// encoding; decode reconstructs identity by label, merging duplicates.
type wireNode struct {
	Label      string            `yaml:"label"`
	Attributes map[string]string `yaml:"attributes,omitempty"`
	// AttributeOrder preserves insertion order since plain YAML maps do not.
	AttributeOrder []string `yaml:"attribute_order,omitempty"`
}

type wireEdge struct {
	From int `yaml:"from"`
	To   int `yaml:"to"`
}

type wireProperty struct {
	Label string `yaml:"label"`
	Key   string `yaml:"key"`
	Value string `yaml:"value"`
}

type wireDocument struct {
	TraceGraph struct {
		Nodes []wireNode `yaml:"nodes"`
		Edges []wireEdge `yaml:"edges"`
	} `yaml:"trace_graph"`
	UnassignedProperties []wireProperty `yaml:"unassigned_properties"`
}

// Encode serializes fd into a single string suitable for a header value.
func (fd *FerriedData) Encode() (string, error) {
	var doc wireDocument
	indexByID := make(map[graph.NodeID]int, fd.Graph.Len())
	for i, n := range fd.Graph.Nodes() {
		indexByID[n.ID] = i
		wn := wireNode{Label: n.Label, Attributes: make(map[string]string)}
		for _, k := range n.Attributes.Keys() {
			v, _ := n.Attributes.Get(k)
			wn.Attributes[k] = v
			wn.AttributeOrder = append(wn.AttributeOrder, k)
		}
		doc.TraceGraph.Nodes = append(doc.TraceGraph.Nodes, wn)
	}
	for _, n := range fd.Graph.Nodes() {
		for _, c := range fd.Graph.Children(n.ID) {
			doc.TraceGraph.Edges = append(doc.TraceGraph.Edges, wireEdge{From: indexByID[n.ID], To: indexByID[c]})
		}
	}
	for _, p := range fd.Unassigned {
		doc.UnassignedProperties = append(doc.UnassignedProperties, wireProperty{Label: p.Label, Key: p.Key, Value: p.Value})
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("meshtrace/ferry: encode: %w", err)
	}
	return string(out), nil
}

// Decode parses a header value produced by Encode. Node identity is
// reconstructed by label: duplicate labels in the wire node list are
// merged, last attribute value wins.
func Decode(s string) (*FerriedData, error) {
	if s == "" {
		return New(), nil
	}
	var doc wireDocument
	if err := yaml.Unmarshal([]byte(s), &doc); err != nil {
		return nil, fmt.Errorf("meshtrace/ferry: decode: %w", err)
	}

	g := graph.New()
	wireToLocal := make(map[int]graph.NodeID, len(doc.TraceGraph.Nodes))
	for i, wn := range doc.TraceGraph.Nodes {
		id, ok := localByLabel(g, wn.Label)
		if !ok {
			id = g.AddNode(wn.Label)
		}
		n, _ := g.Node(id)
		order := wn.AttributeOrder
		if len(order) == 0 {
			for k := range wn.Attributes {
				order = append(order, k)
			}
		}
		for _, k := range order {
			n.Attributes.Set(k, wn.Attributes[k])
		}
		wireToLocal[i] = id
	}
	for _, we := range doc.TraceGraph.Edges {
		from, okFrom := wireToLocal[we.From]
		to, okTo := wireToLocal[we.To]
		if !okFrom || !okTo {
			continue
		}
		if err := g.AddEdge(from, to); err != nil {
			return nil, fmt.Errorf("meshtrace/ferry: decode: %w", err)
		}
	}

	fd := &FerriedData{Graph: g}
	for _, wp := range doc.UnassignedProperties {
		fd.Unassigned = append(fd.Unassigned, Property{Label: wp.Label, Key: wp.Key, Value: wp.Value})
	}
	return fd, nil
}

func localByLabel(g *graph.Graph, label string) (graph.NodeID, bool) {
	n, ok := g.NodeByLabel(label)
	if !ok {
		return -1, false
	}
	return n.ID, true
}

// Merge unions fd with other into a new FerriedData: node sets unioned by
// label, edge sets unioned (graph.AddEdge already dedups), unassigned
// property lists concatenated and deduplicated.
func Merge(fd, other *FerriedData) *FerriedData {
	out := &FerriedData{Graph: fd.Graph.Clone()}
	out.Graph.Merge(other.Graph)

	seen := make(map[Property]bool)
	for _, p := range fd.Unassigned {
		if !seen[p] {
			seen[p] = true
			out.Unassigned = append(out.Unassigned, p)
		}
	}
	for _, p := range other.Unassigned {
		if !seen[p] {
			seen[p] = true
			out.Unassigned = append(out.Unassigned, p)
		}
	}
	out.AssignProperties()
	return out
}
