package filter

import (
	"github.com/anirudhsk/meshtrace/sim/graph"
	"github.com/anirudhsk/meshtrace/sim/match"
	"github.com/anirudhsk/meshtrace/sim/wire"
)

// onIncomingRequest: read_ferried, contribute this node's ambient
// attributes to the unassigned buffer, write_ferried, store, emit.
func (f *Filter) onIncomingRequest(msg *wire.Message) []*wire.Message {
	fd := f.readFerried(msg)
	fd.AddUnassigned(f.whoami, "service_name", f.whoami)
	for _, key := range f.collectedProperties {
		if v, ok := f.filterState[key]; ok {
			fd.AddUnassigned(f.whoami, key, v)
		}
	}
	f.writeFerried(fd, msg)
	f.store(msg.UID, msg)
	return []*wire.Message{msg}
}

// onOutgoingRequest: merge, emit.
func (f *Filter) onOutgoingRequest(msg *wire.Message) []*wire.Message {
	f.merge(msg.UID, msg)
	return []*wire.Message{msg}
}

// onIncomingResponse: store, emit.
func (f *Filter) onIncomingResponse(msg *wire.Message) []*wire.Message {
	f.store(msg.UID, msg)
	return []*wire.Message{msg}
}

// onOutgoingResponse: merge, reduce over the merged graph, write_ferried,
// and — at the root
// service — match against the target graph and emit a storage message
// alongside the original when a value is extracted.
func (f *Filter) onOutgoingResponse(msg *wire.Message) []*wire.Message {
	fd, selfID := f.merge(msg.UID, msg)
	f.reduce(fd.Graph, selfID)
	f.writeFerried(fd, msg)

	out := []*wire.Message{msg}
	if f.whoami != f.rootService || f.targetGraph == nil {
		return out
	}

	mapping, err := match.Match(fd.Graph, f.targetGraph)
	if err != nil || mapping == nil {
		return out
	}
	value, ok := match.ExtractValue(mapping, AttrKey)
	if !ok {
		return out
	}

	storageMsg := wire.NewMessage(value, f.uidFactory())
	storageMsg.SetSrc(f.whoami)
	storageMsg.SetDest(wire.DestStorage)
	storageMsg.SetDirection(wire.DirectionRequest)
	return append(out, storageMsg)
}

// reduce applies the filter's reduction to the node at selfID: leaf() if
// it has no children in fd's graph, else mid() over the children's
// previously computed attribute values. A rewrite is skipped if the
// existing value already matches, for stability.
func (f *Filter) reduce(g *graph.Graph, selfID graph.NodeID) {
	self, ok := g.Node(selfID)
	if !ok {
		return
	}
	children := g.Children(selfID)
	var result string
	if len(children) == 0 {
		result = f.reduction.Leaf(self)
	} else {
		childValues := make([]string, 0, len(children))
		for _, c := range children {
			cn, ok := g.Node(c)
			if !ok {
				continue
			}
			v, _ := cn.Attributes.Get(AttrKey)
			childValues = append(childValues, v)
		}
		result = f.reduction.Mid(self, childValues)
	}
	if existing, ok := self.Attributes.Get(AttrKey); ok && existing == result {
		return
	}
	self.Attributes.Set(AttrKey, result)
}
