package topology

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads and strictly parses a topology YAML file: unrecognized keys
// (typos) are rejected, exactly as the teacher's workload spec loader does.
func Load(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("meshtrace/topology: reading %s: %w", path, err)
	}
	var spec Spec
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&spec); err != nil {
		return nil, fmt.Errorf("meshtrace/topology: parsing %s: %w", path, err)
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("meshtrace/topology: %s: %w", path, err)
	}
	return &spec, nil
}

// Validate checks structural consistency that YAML decoding alone can't
// catch: duplicate ids, edges naming nodes that don't exist, plugin
// bindings naming nodes that don't exist.
func (s *Spec) Validate() error {
	seen := make(map[string]bool, len(s.Nodes))
	for _, n := range s.Nodes {
		if n.ID == "" {
			return fmt.Errorf("node with empty id")
		}
		if seen[n.ID] {
			return fmt.Errorf("duplicate node id %q", n.ID)
		}
		seen[n.ID] = true
	}
	for _, e := range s.Edges {
		if e.ID == "" {
			return fmt.Errorf("edge with empty id")
		}
		if !seen[e.EndpointA] {
			return fmt.Errorf("edge %q: unknown endpoint_a %q", e.ID, e.EndpointA)
		}
		if !seen[e.EndpointB] {
			return fmt.Errorf("edge %q: unknown endpoint_b %q", e.ID, e.EndpointB)
		}
	}
	for _, p := range s.Plugins {
		if !seen[p.Node] {
			return fmt.Errorf("plugin binding: unknown node %q", p.Node)
		}
		if p.Name == "" && p.Path == "" {
			return fmt.Errorf("plugin binding for node %q: name or path required", p.Node)
		}
	}
	return nil
}
