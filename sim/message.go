// sim/message.go
package sim

import "github.com/anirudhsk/meshtrace/sim/wire"

// Message and friends are aliases onto sim/wire so that sim and sim/filter
// can both operate on the same message type without importing each other.
type (
	Message   = wire.Message
	Direction = wire.Direction
	Location  = wire.Location
)

const (
	DirectionRequest  = wire.DirectionRequest
	DirectionResponse = wire.DirectionResponse

	LocationIngress = wire.LocationIngress
	LocationEgress  = wire.LocationEgress

	HeaderSrc         = wire.HeaderSrc
	HeaderDest        = wire.HeaderDest
	HeaderDirection   = wire.HeaderDirection
	HeaderLocation    = wire.HeaderLocation
	HeaderFerriedData = wire.HeaderFerriedData

	DestStorage = wire.DestStorage
)

// NewMessage creates a message with the given payload and uid.
func NewMessage(payload string, uid uint64) *Message {
	return wire.NewMessage(payload, uid)
}
