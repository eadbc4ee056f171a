package match

// DesignatedReturnLabel is the pattern node label whose mapped trace node
// supplies the value extracted after a successful match.
const DesignatedReturnLabel = "a"

// ExtractValue reads the attr attribute off the trace node that the
// designated return pattern node (label "a") mapped to. Returns false if
// the pattern has no such node, it was not part of the mapping, or the
// trace node lacks the attribute.
func ExtractValue(m *Mapping, attr string) (string, bool) {
	returnNode, ok := m.pattern.NodeByLabel(DesignatedReturnLabel)
	if !ok {
		return "", false
	}
	traceID, ok := m.PatternToTrace[returnNode.ID]
	if !ok {
		return "", false
	}
	traceNode, ok := m.trace.Node(traceID)
	if !ok {
		return "", false
	}
	return traceNode.Attributes.Get(attr)
}
