package filter

import "errors"

// ErrMissingWorkloadName is returned by New when the ambient properties
// lack node.metadata.WORKLOAD_NAME, without which the filter cannot name
// itself in the trace graph.
var ErrMissingWorkloadName = errors.New("meshtrace/filter: missing node.metadata.WORKLOAD_NAME")

// ErrOverwrite indicates a plugin wrapper received a second message before
// an intervening tick drained the first. This is a simulator bug, not a
// recoverable condition.
var ErrOverwrite = errors.New("meshtrace/filter: plugin wrapper overwritten before tick")
