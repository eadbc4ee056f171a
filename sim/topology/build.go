package topology

import (
	"fmt"
	"strings"

	"github.com/anirudhsk/meshtrace/sim"
	"github.com/anirudhsk/meshtrace/sim/filter"
	"github.com/anirudhsk/meshtrace/sim/storage"
)

// ApplyPluginOverrides parses CLI-supplied "node=path" bindings and merges
// them into spec.Plugins, overriding any binding already present for that
// node. A path ending in ".so" is loaded dynamically; anything else is
// looked up by name in the static registry at Build time.
func ApplyPluginOverrides(spec *Spec, overrides []string) error {
	for _, raw := range overrides {
		node, path, ok := strings.Cut(raw, "=")
		if !ok || node == "" || path == "" {
			return fmt.Errorf("meshtrace/topology: malformed --plugin binding %q, want node=path", raw)
		}
		binding := PluginBinding{Node: node}
		if strings.HasSuffix(path, ".so") {
			binding.Path = path
		} else {
			binding.Name = path
		}
		replaced := false
		for i := range spec.Plugins {
			if spec.Plugins[i].Node == node {
				spec.Plugins[i] = binding
				replaced = true
				break
			}
		}
		if !replaced {
			spec.Plugins = append(spec.Plugins, binding)
		}
	}
	return nil
}

// Build wires spec into a runnable Simulator: every node, every edge, a
// storage sink registered under sim.DestStorage, and a filter.PluginWrapper
// for every plugin binding (resolved via registry or, for a ".so" path,
// filter.LoadDynamic). rng seeds every node's routing stream.
func Build(spec *Spec, registry *filter.Registry, rng *sim.PartitionedRNG) (*sim.Simulator, *storage.Sink, error) {
	bindings := make(map[string]PluginBinding, len(spec.Plugins))
	for _, b := range spec.Plugins {
		bindings[b.Node] = b
	}

	simulator := sim.NewSimulator()

	for _, ns := range spec.Nodes {
		node := sim.NewNode(ns.ID, ns.Capacity, ns.EgressRate, ns.GenerationRate, nil, rng)
		if b, ok := bindings[ns.ID]; ok {
			executor, err := buildExecutor(ns.ID, b, registry, node.NewUID)
			if err != nil {
				return nil, nil, fmt.Errorf("meshtrace/topology: node %q: %w", ns.ID, err)
			}
			node.AttachPlugin(filter.NewPluginWrapper(ns.ID, executor))
		}
		if err := simulator.AddNode(node); err != nil {
			return nil, nil, fmt.Errorf("meshtrace/topology: node %q: %w", ns.ID, err)
		}
	}

	for _, es := range spec.Edges {
		edge := sim.NewEdge(es.ID, es.Latency, es.EndpointA, es.EndpointB, es.Unidirectional)
		if err := simulator.AddEdge(edge); err != nil {
			return nil, nil, fmt.Errorf("meshtrace/topology: edge %q: %w", es.ID, err)
		}
	}

	sink := storage.New()
	if err := simulator.AddElement(sink); err != nil {
		return nil, nil, fmt.Errorf("meshtrace/topology: registering storage sink: %w", err)
	}

	return simulator, sink, nil
}

func buildExecutor(nodeID string, b PluginBinding, registry *filter.Registry, uidFactory func() uint64) (filter.Executor, error) {
	properties := make(map[string]string, len(b.Properties)+1)
	for k, v := range b.Properties {
		properties[k] = v
	}
	properties[filter.WorkloadNameProperty] = nodeID

	if b.Path != "" {
		return filter.LoadDynamic(b.Path, properties, uidFactory)
	}
	if registry == nil {
		return nil, fmt.Errorf("plugin %q requested but no registry configured", b.Name)
	}
	return registry.Build(b.Name, properties, uidFactory)
}
