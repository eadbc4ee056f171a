// sim/node.go
package sim

import (
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/anirudhsk/meshtrace/sim/filter"
)

// queuedMessage pairs a buffered message with the destination it was routed
// to on arrival.
type queuedMessage struct {
	msg  *Message
	dest string
}

// Node is a bounded-queue service element. Arrivals beyond capacity are
// dropped silently; up to egress_rate queued messages leave per tick; a
// node with generation_rate > 0 synthesizes fresh request traffic whenever
// its queue runs dry.
type Node struct {
	id             string
	capacity       int
	egressRate     int
	generationRate int
	neighbors      []string
	queue          []queuedMessage
	plugin         *filter.PluginWrapper
	rng            *PartitionedRNG
	nextUID        uint64
}

// NewNode constructs a Node. plugin may be nil for a plain pass-through
// element.
func NewNode(id string, capacity, egressRate, generationRate int, plugin *filter.PluginWrapper, rng *PartitionedRNG) *Node {
	return &Node{
		id:             id,
		capacity:       capacity,
		egressRate:     egressRate,
		generationRate: generationRate,
		plugin:         plugin,
		rng:            rng,
	}
}

// NewUID returns the next uid in this node's monotonic sequence. It backs
// both spontaneous message generation and the factory handed to this
// node's filter for minting storage messages, so that no message id is
// ever drawn from process-global state.
func (n *Node) NewUID() uint64 {
	n.nextUID++
	return n.nextUID
}

// AttachPlugin wires a filter built from this node's own NewUID (so its
// storage messages draw from the same counter as this node's generated
// traffic) after construction — a topology loader needs the Node to exist
// before it can hand the filter constructor a uid factory.
func (n *Node) AttachPlugin(p *filter.PluginWrapper) { n.plugin = p }

func (n *Node) Whoami() string { return n.id }

func (n *Node) Neighbors() []string {
	out := make([]string, len(n.neighbors))
	copy(out, n.neighbors)
	return out
}

func (n *Node) AddConnection(id string) {
	for _, existing := range n.neighbors {
		if existing == id {
			return
		}
	}
	n.neighbors = append(n.neighbors, id)
}

// route picks the destination for msg: the dest header if it names a
// neighbor, else a uniformly random neighbor (writing the choice back into
// the header), else drop (returns false).
func (n *Node) route(msg *Message) (string, bool) {
	if dest, ok := msg.Dest(); ok && n.hasNeighbor(dest) {
		return dest, true
	}
	if len(n.neighbors) == 0 {
		return "", false
	}
	idx := n.rng.ForNode(n.id).Intn(len(n.neighbors))
	dest := n.neighbors[idx]
	msg.SetDest(dest)
	return dest, true
}

func (n *Node) hasNeighbor(id string) bool {
	for _, existing := range n.neighbors {
		if existing == id {
			return true
		}
	}
	return false
}

// Recv implements Element. If the queue is full the message is dropped; if
// a filter is attached it runs the ingress hook before routing/enqueueing.
func (n *Node) Recv(msg *Message, t int64, sender string) {
	if len(n.queue) >= n.capacity {
		logrus.WithFields(logrus.Fields{"node": n.id, "uid": msg.UID}).Debug("queue full, dropping arrival")
		return
	}
	msg.SetSrc(sender)
	results := []*Message{msg}
	if n.plugin != nil {
		location := LocationIngress
		msg.SetLocation(location)
		n.plugin.Recv(msg, t, n.id)
		results = n.plugin.Tick(t)
	}
	for _, out := range results {
		dest, ok := n.route(out)
		if !ok {
			continue
		}
		n.queue = append(n.queue, queuedMessage{msg: out, dest: dest})
		if len(n.queue) > n.capacity {
			n.queue = n.queue[:n.capacity]
			break
		}
	}
}

// Tick implements Element: it dequeues up to egress_rate items (or
// synthesizes generation_rate fresh ones if idle), runs the egress filter
// hook, and emits the resulting transfers.
func (n *Node) Tick(t int64) []Transfer {
	if len(n.queue) == 0 && n.generationRate > 0 {
		return n.generate(t)
	}
	return n.drain(t)
}

func (n *Node) generate(t int64) []Transfer {
	var out []Transfer
	for i := 0; i < n.generationRate; i++ {
		msg := NewMessage(strconv.FormatInt(t, 10), n.NewUID())
		msg.SetDirection(DirectionRequest)
		dest, ok := n.route(msg)
		if !ok {
			continue
		}
		emitted := n.runEgress(msg, t)
		for _, e := range emitted {
			d := dest
			if hdr, ok := e.Dest(); ok {
				d = hdr
			}
			out = append(out, Transfer{Message: e, Dest: d})
		}
	}
	return out
}

func (n *Node) drain(t int64) []Transfer {
	count := n.egressRate
	if count > len(n.queue) {
		count = len(n.queue)
	}
	batch := n.queue[:count]
	n.queue = n.queue[count:]

	var out []Transfer
	for _, qm := range batch {
		emitted := n.runEgress(qm.msg, t)
		for _, e := range emitted {
			d := qm.dest
			if hdr, ok := e.Dest(); ok {
				d = hdr
			}
			out = append(out, Transfer{Message: e, Dest: d})
		}
	}
	return out
}

func (n *Node) runEgress(msg *Message, t int64) []*Message {
	if n.plugin == nil {
		return []*Message{msg}
	}
	msg.SetLocation(LocationEgress)
	n.plugin.Recv(msg, t, n.id)
	return n.plugin.Tick(t)
}
