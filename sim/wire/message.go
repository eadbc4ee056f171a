// Package wire holds the message type shared by the simulation kernel
// (package sim) and the filter state machine (package sim/filter). It has
// no dependency on either, which is what lets a node hold a filter and a
// filter operate on messages without the two packages importing each
// other.
package wire

import "github.com/anirudhsk/meshtrace/sim/orderedmap"

// Direction distinguishes a request traveling toward a service from a
// response traveling back.
type Direction string

const (
	DirectionRequest  Direction = "request"
	DirectionResponse Direction = "response"
)

// Location distinguishes a message observed arriving at a node from one
// observed leaving it.
type Location string

const (
	LocationIngress Location = "ingress"
	LocationEgress  Location = "egress"
)

// Reserved header keys on the wire.
const (
	HeaderSrc         = "src"
	HeaderDest        = "dest"
	HeaderDirection   = "direction"
	HeaderLocation    = "location"
	HeaderFerriedData = "ferried_data"
)

// DestStorage is the reserved dest value designating the storage sink.
const DestStorage = "storage"

// Message is an immutable-by-convention record carrying a payload, a
// monotonically increasing trace id assigned at creation, and an ordered
// header map.
type Message struct {
	Payload string
	UID     uint64
	Headers *orderedmap.Map
}

// NewMessage creates a message with the given payload and uid, and an empty
// header map.
func NewMessage(payload string, uid uint64) *Message {
	return &Message{Payload: payload, UID: uid, Headers: orderedmap.New()}
}

// Clone returns a deep copy so that a message can be forked without aliasing
// the original's header map.
func (m *Message) Clone() *Message {
	if m == nil {
		return nil
	}
	return &Message{
		Payload: m.Payload,
		UID:     m.UID,
		Headers: m.Headers.Clone(),
	}
}

// Direction reads the reserved "direction" header.
func (m *Message) Direction() Direction {
	v, _ := m.Headers.Get(HeaderDirection)
	return Direction(v)
}

// SetDirection writes the reserved "direction" header.
func (m *Message) SetDirection(d Direction) {
	m.Headers.Set(HeaderDirection, string(d))
}

// Location reads the reserved "location" header.
func (m *Message) Location() Location {
	v, _ := m.Headers.Get(HeaderLocation)
	return Location(v)
}

// SetLocation writes the reserved "location" header.
func (m *Message) SetLocation(l Location) {
	m.Headers.Set(HeaderLocation, string(l))
}

// Dest reads the reserved "dest" header.
func (m *Message) Dest() (string, bool) {
	return m.Headers.Get(HeaderDest)
}

// SetDest writes the reserved "dest" header.
func (m *Message) SetDest(dest string) {
	m.Headers.Set(HeaderDest, dest)
}

// Src reads the reserved "src" header.
func (m *Message) Src() (string, bool) {
	return m.Headers.Get(HeaderSrc)
}

// SetSrc writes the reserved "src" header.
func (m *Message) SetSrc(src string) {
	m.Headers.Set(HeaderSrc, src)
}

// ReadFerriedRaw returns the still-encoded ferried_data header value,
// returning ("", false) if absent.
func (m *Message) ReadFerriedRaw() (string, bool) {
	return m.Headers.Get(HeaderFerriedData)
}

// WriteFerriedRaw writes the encoded ferried_data header, overwriting.
func (m *Message) WriteFerriedRaw(encoded string) {
	m.Headers.Set(HeaderFerriedData, encoded)
}
