// Package topology loads a simulation's nodes, edges, and filter bindings
// from a YAML document and wires them into a runnable sim.Simulator,
// mirroring how the teacher's sim/workload package turns a WorkloadSpec
// file into runnable simulation state.
package topology

// Spec is the top-level YAML document describing a topology.
type Spec struct {
	Seed    int64           `yaml:"seed"`
	Ticks   int64           `yaml:"ticks"`
	Nodes   []NodeSpec      `yaml:"nodes"`
	Edges   []EdgeSpec      `yaml:"edges"`
	Plugins []PluginBinding `yaml:"plugins,omitempty"`
}

// NodeSpec configures one bounded-queue Node.
type NodeSpec struct {
	ID             string `yaml:"id"`
	Capacity       int    `yaml:"capacity"`
	EgressRate     int    `yaml:"egress_rate"`
	GenerationRate int    `yaml:"generation_rate,omitempty"`
}

// EdgeSpec configures one fixed-latency link between two nodes.
type EdgeSpec struct {
	ID             string `yaml:"id"`
	EndpointA      string `yaml:"endpoint_a"`
	EndpointB      string `yaml:"endpoint_b"`
	Latency        int    `yaml:"latency"`
	Unidirectional bool   `yaml:"unidirectional,omitempty"`
}

// PluginBinding attaches a filter to a node. Name selects a statically
// registered filter (sim/filter.Registry); Path, when set, loads a
// dynamic .so instead and Name is ignored. Properties is handed to the
// filter's constructor verbatim, except WorkloadNameProperty, which the
// loader always stamps with Node regardless of what is configured here.
type PluginBinding struct {
	Node       string            `yaml:"node"`
	Name       string            `yaml:"name,omitempty"`
	Path       string            `yaml:"path,omitempty"`
	Properties map[string]string `yaml:"properties,omitempty"`
}
