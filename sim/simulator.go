// sim/simulator.go
package sim

import (
	"github.com/sirupsen/logrus"
)

// Simulator owns every node and edge, advances them in lock-step ticks, and
// routes the transfers each element produces.
type Simulator struct {
	Clock int64

	elements []Element          // insertion order; collection order for tick
	byID     map[string]Element // lookup for delivery

	Metrics *Metrics
}

// NewSimulator constructs an empty Simulator.
func NewSimulator() *Simulator {
	return &Simulator{
		byID:    make(map[string]Element),
		Metrics: NewMetrics(),
	}
}

// AddNode registers a new Node element; id must be unique.
func (s *Simulator) AddNode(n *Node) error {
	return s.register(n)
}

// AddElement registers any Element under its own Whoami() id; id must be
// unique. Node and Edge have their own typed AddNode/AddEdge methods — this is
// the general entry point for standalone elements like the storage sink
// that are neither.
func (s *Simulator) AddElement(el Element) error {
	return s.register(el)
}

// AddEdge registers a new Edge element and rewires both endpoints'
// neighbor lists; both endpoints must already be registered.
func (s *Simulator) AddEdge(e *Edge) error {
	if _, ok := s.byID[e.endpointA]; !ok {
		return ErrUnknownEndpoint
	}
	if _, ok := s.byID[e.endpointB]; !ok {
		return ErrUnknownEndpoint
	}
	if err := s.register(e); err != nil {
		return err
	}
	s.byID[e.endpointA].AddConnection(e.Whoami())
	s.byID[e.endpointB].AddConnection(e.Whoami())
	return nil
}

func (s *Simulator) register(el Element) error {
	if _, exists := s.byID[el.Whoami()]; exists {
		return ErrDuplicateID
	}
	s.elements = append(s.elements, el)
	s.byID[el.Whoami()] = el
	return nil
}

// Tick advances every element by one step using the two-phase
// collect-then-deliver algorithm: every element's Tick is invoked (in
// registration order) before any resulting message is delivered, so no
// element observes a peer's within-tick side effects.
func (s *Simulator) Tick(t int64) {
	type delivery struct {
		transfer Transfer
		sender   string
	}

	var buffer []delivery
	for _, el := range s.elements {
		for _, tr := range el.Tick(t) {
			buffer = append(buffer, delivery{transfer: tr, sender: el.Whoami()})
		}
	}

	for _, d := range buffer {
		dest, ok := s.byID[d.transfer.Dest]
		if !ok {
			logrus.WithFields(logrus.Fields{
				"dest": d.transfer.Dest,
				"from": d.sender,
				"tick": t,
			}).Warn("dropping transfer to unknown destination")
			s.Metrics.Dropped++
			continue
		}
		dest.Recv(d.transfer.Message, t, d.sender)
		s.Metrics.Delivered++
	}

	s.Clock = t
}

// Run advances the simulation for the given number of ticks, starting at 0.
func (s *Simulator) Run(ticks int64) {
	for t := int64(0); t < ticks; t++ {
		s.Tick(t)
	}
}
