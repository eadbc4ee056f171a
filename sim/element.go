// sim/element.go
package sim

// Transfer pairs a message with the id of the element it should be
// delivered to in the same tick's delivery phase.
type Transfer struct {
	Message *Message
	Dest    string
}

// Element is the capability set shared by nodes, edges, and plugin
// wrappers: the Simulator holds a single ordered collection of these and
// never needs to know which concrete kind it is driving.
type Element interface {
	// Tick advances the element by one simulation step and returns every
	// message it wants to hand off, paired with its destination id.
	Tick(t int64) []Transfer

	// Recv delivers a message that arrived this tick from sender.
	Recv(msg *Message, t int64, sender string)

	// AddConnection registers a neighbor id.
	AddConnection(id string)

	// Whoami returns this element's id.
	Whoami() string

	// Neighbors returns the ids this element can route to.
	Neighbors() []string
}
