package match

import "errors"

// ErrMalformedPattern is returned when the pattern graph has no single
// in-degree-zero node.
var ErrMalformedPattern = errors.New("meshtrace/match: pattern graph is not rooted")

// ErrMalformedTrace is returned when the trace graph has no single
// in-degree-zero node, despite being non-empty. The trace graph's assembly
// invariant should prevent this; surfacing it rather than panicking keeps
// matcher failures recoverable at the filter boundary.
var ErrMalformedTrace = errors.New("meshtrace/match: trace graph is not rooted")
