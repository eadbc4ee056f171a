// Package storage implements the simulation's storage sink: the terminal
// Element that messages addressed to the reserved "storage" destination are
// routed to, and the in-memory record of everything it received.
//
// Real persistence is explicitly out of scope (spec Non-goals); this is an
// in-memory accumulator a caller inspects after a run, or reads live via
// Records while the simulation is still ticking.
package storage

import (
	"sync"

	"github.com/anirudhsk/meshtrace/sim"
)

// ID is the reserved element id a topology must register this sink under so
// that dest: "storage" on the wire resolves to it.
const ID = sim.DestStorage

// Record is one message the sink has ever received.
type Record struct {
	Tick    int64
	Sender  string
	UID     uint64
	Payload string
}

// Sink is a passive Element: it accepts any message addressed to it,
// appends a Record, and never produces output of its own.
type Sink struct {
	mu      sync.Mutex
	records []Record
}

// New returns an empty Sink.
func New() *Sink {
	return &Sink{}
}

// Whoami returns the reserved storage element id.
func (s *Sink) Whoami() string { return ID }

// Neighbors is always empty: nothing ever routes outward from storage.
func (s *Sink) Neighbors() []string { return nil }

// AddConnection is a no-op; storage accepts deliveries by dest-address
// routing, not by topology adjacency, so it tracks no neighbor list.
func (s *Sink) AddConnection(string) {}

// Tick produces no output.
func (s *Sink) Tick(int64) []sim.Transfer { return nil }

// Recv records the delivery.
func (s *Sink) Recv(msg *sim.Message, t int64, sender string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, Record{
		Tick:    t,
		Sender:  sender,
		UID:     msg.UID,
		Payload: msg.Payload,
	})
}

// Records returns a snapshot of every message received so far, in arrival
// order.
func (s *Sink) Records() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// Len returns the number of records stored so far.
func (s *Sink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}
