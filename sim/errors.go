// sim/errors.go
package sim

import "errors"

// Configuration errors: raised by Simulator setup calls, fatal to the caller.
var (
	// ErrDuplicateID is returned by AddNode/AddEdge when an id is reused.
	ErrDuplicateID = errors.New("meshtrace: duplicate id")
	// ErrUnknownEndpoint is returned by AddEdge when an endpoint id does not
	// name a registered element.
	ErrUnknownEndpoint = errors.New("meshtrace: unknown endpoint")
)
