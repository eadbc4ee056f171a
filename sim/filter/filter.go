// Package filter implements the per-node propagation state machine: it
// merges partial trace graphs carried in message headers, runs a
// user-defined scalar reduction over the accumulated graph, and, at the
// designated root service, checks the result against a target pattern
// graph and emits an aggregate to the storage sink.
//
// The package is deliberately ignorant of the simulation kernel: it
// operates on sim/wire.Message and is driven by a PluginWrapper, so it can
// be loaded statically (Registry) or from a Go plugin (.so) without the
// kernel ever depending on it.
package filter

import (
	"github.com/sirupsen/logrus"

	"github.com/anirudhsk/meshtrace/sim/ferry"
	"github.com/anirudhsk/meshtrace/sim/graph"
	"github.com/anirudhsk/meshtrace/sim/match"
	"github.com/anirudhsk/meshtrace/sim/wire"
)

const workloadNameKey = "node.metadata.WORKLOAD_NAME"

// WorkloadNameProperty is the ambient property key every filter's
// properties map must carry; topology loaders use it to stamp each node's
// own id in without the caller needing to know the filter package's
// internal constant name.
const WorkloadNameProperty = workloadNameKey

// AttrKey is the graph node attribute the reduction writes its result
// under and the value extractor reads from.
const AttrKey = "height"

// Filter is the per-node state machine. One instance lives for the whole
// simulation, created once per node that has a filter attached.
type Filter struct {
	whoami              string
	targetGraph         *graph.Graph
	reduction           Reduction
	rootService         string
	filterState         map[string]string
	collectedProperties []string
	uidFactory          func() uint64

	envoyShared map[uint64]*ferry.FerriedData
}

// New constructs a Filter. properties must contain
// node.metadata.WORKLOAD_NAME. targetGraph and rootService may be zero
// values (nil, "") for a node that only propagates and reduces without
// ever matching — the matcher runs only at whoami == rootService.
// collectedProperties names, in a fixed deterministic order, additional
// filterState keys to ferry as unassigned properties on every incoming
// request (service_name is always included regardless).
func New(properties map[string]string, collectedProperties []string, targetGraph *graph.Graph, reduction Reduction, rootService string, uidFactory func() uint64) (*Filter, error) {
	whoami, ok := properties[workloadNameKey]
	if !ok || whoami == "" {
		return nil, ErrMissingWorkloadName
	}
	return &Filter{
		whoami:              whoami,
		targetGraph:         targetGraph,
		reduction:           reduction,
		rootService:         rootService,
		filterState:         properties,
		collectedProperties: collectedProperties,
		uidFactory:          uidFactory,
		envoyShared:         make(map[uint64]*ferry.FerriedData),
	}, nil
}

// Whoami returns the workload name this filter was constructed with.
func (f *Filter) Whoami() string { return f.whoami }

// Execute dispatches msg to the hook selected by its (direction, location)
// pair and returns the messages it produces.
func (f *Filter) Execute(msg *wire.Message) []*wire.Message {
	switch {
	case msg.Direction() == wire.DirectionRequest && msg.Location() == wire.LocationIngress:
		return f.onIncomingRequest(msg)
	case msg.Direction() == wire.DirectionRequest && msg.Location() == wire.LocationEgress:
		return f.onOutgoingRequest(msg)
	case msg.Direction() == wire.DirectionResponse && msg.Location() == wire.LocationIngress:
		return f.onIncomingResponse(msg)
	case msg.Direction() == wire.DirectionResponse && msg.Location() == wire.LocationEgress:
		return f.onOutgoingResponse(msg)
	default:
		panic("meshtrace/filter: node " + f.whoami + ": message missing a valid direction/location pair (direction=" +
			string(msg.Direction()) + ", location=" + string(msg.Location()) + ")")
	}
}

func (f *Filter) readFerried(msg *wire.Message) *ferry.FerriedData {
	raw, ok := msg.ReadFerriedRaw()
	if !ok {
		return ferry.New()
	}
	fd, err := ferry.Decode(raw)
	if err != nil {
		logrus.WithError(err).WithField("node", f.whoami).Warn("meshtrace/filter: ferried_data decode failed, treating as empty")
		return ferry.New()
	}
	return fd
}

func (f *Filter) writeFerried(fd *ferry.FerriedData, msg *wire.Message) {
	encoded, err := fd.Encode()
	if err != nil {
		logrus.WithError(err).WithField("node", f.whoami).Error("meshtrace/filter: ferried_data encode failed")
		return
	}
	msg.WriteFerriedRaw(encoded)
}

// store merges the FerriedData currently on msg's headers into the
// per-uid accumulator, deterministically (ferry.Merge's union semantics),
// so that storing the same message twice leaves the accumulator unchanged.
func (f *Filter) store(uid uint64, msg *wire.Message) {
	incoming := f.readFerried(msg)
	existing, ok := f.envoyShared[uid]
	if !ok {
		f.envoyShared[uid] = incoming
		return
	}
	f.envoyShared[uid] = ferry.Merge(existing, incoming)
}

// merge loads the per-uid accumulator, seeding it with a lone node for this
// hop only if nothing has been stored for uid yet (a filter acting on a uid
// it never saw on ingress). On a response, this hop always contributes a
// fresh node set as the new root over whatever roots the accumulated graph
// currently has; on a request, no node is added — this hop's vertex is
// created once, when it turns its request around into a response. It
// returns the accumulator and the id of the node that now represents "this
// hop" in the graph (zero-valued on a request call, since none is minted).
func (f *Filter) merge(uid uint64, msg *wire.Message) (*ferry.FerriedData, graph.NodeID) {
	fd, ok := f.envoyShared[uid]
	if !ok {
		fd = ferry.New()
		fd.Graph.AddNode(f.whoami)
		f.envoyShared[uid] = fd
	}

	var selfID graph.NodeID
	if msg.Direction() == wire.DirectionResponse {
		roots := currentRoots(fd.Graph)
		selfID = fd.Graph.AddNode(f.whoami)
		for _, r := range roots {
			_ = fd.Graph.AddEdge(selfID, r)
		}
	}

	fd.AssignProperties()
	f.writeFerried(fd, msg)
	return fd, selfID
}

func currentRoots(g *graph.Graph) []graph.NodeID {
	var roots []graph.NodeID
	for _, n := range g.Nodes() {
		if len(g.Parents(n.ID)) == 0 {
			roots = append(roots, n.ID)
		}
	}
	return roots
}
