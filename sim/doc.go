// Package sim provides the core discrete-event simulation engine for
// meshtrace.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - message.go: the wire-level record flowing between elements
//   - element.go: the Element interface every simulated thing implements
//   - node.go, edge.go: the two concrete Element kinds
//   - simulator.go: the tick loop, collect-then-deliver routing
//
// # Architecture
//
// The sim package defines the simulation kernel; the trace-graph machinery
// lives in sub-packages:
//   - sim/graph/: attributed directed graphs (the trace and pattern graphs)
//   - sim/ferry/: FerriedData header codec
//   - sim/match/: the subtree isomorphism matcher
//   - sim/filter/: the per-node propagate/reduce/match state machine and
//     its plugin loading mechanisms
//   - sim/storage/: the aggregate-result sink
//   - sim/topology/: YAML topology loading
//
// # Determinism
//
// Every source of randomness in a simulation run is drawn from a
// PartitionedRNG seeded once at startup; rerunning with the same seed and
// topology reproduces identical routing decisions and identical match
// results.
package sim
