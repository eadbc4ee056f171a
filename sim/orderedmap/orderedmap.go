// Package orderedmap provides an insertion-ordered, unique-key string→string
// mapping. Message headers and graph node attributes both need this shape
// (ordered, deduplicated, serializable) so it is implemented once here.
package orderedmap

// Map is an insertion-ordered mapping from string keys to string values.
// The zero value is ready to use.
type Map struct {
	keys   []string
	values map[string]string
}

// New returns an empty Map.
func New() *Map {
	return &Map{values: make(map[string]string)}
}

// Set inserts or updates the value for key, preserving first-insertion order.
func (m *Map) Set(key, value string) {
	if m.values == nil {
		m.values = make(map[string]string)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value for key and whether it was present.
func (m *Map) Get(key string) (string, bool) {
	if m == nil || m.values == nil {
		return "", false
	}
	v, ok := m.values[key]
	return v, ok
}

// Has reports whether key is present.
func (m *Map) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Delete removes key, if present.
func (m *Map) Delete(key string) {
	if m == nil || m.values == nil {
		return
	}
	if _, ok := m.values[key]; !ok {
		return
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order. The returned slice must not be
// mutated by the caller.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	return m.keys
}

// Len returns the number of entries.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Clone returns a deep copy.
func (m *Map) Clone() *Map {
	out := New()
	if m == nil {
		return out
	}
	for _, k := range m.keys {
		out.Set(k, m.values[k])
	}
	return out
}

// Contains reports whether m contains every key/value pair in sub (value-
// equal subsumption, used by pattern-attribute matching). Extra keys in m
// are ignored.
func (m *Map) Contains(sub *Map) bool {
	if sub == nil {
		return true
	}
	for _, k := range sub.Keys() {
		v, _ := sub.Get(k)
		mv, ok := m.Get(k)
		if !ok || mv != v {
			return false
		}
	}
	return true
}

// Equal reports whether m and other have identical key/value pairs in the
// same order.
func (m *Map) Equal(other *Map) bool {
	mk, otherKeys := m.Keys(), other.Keys()
	if len(mk) != len(otherKeys) {
		return false
	}
	for i, k := range mk {
		if otherKeys[i] != k {
			return false
		}
		v1, _ := m.Get(k)
		v2, _ := other.Get(k)
		if v1 != v2 {
			return false
		}
	}
	return true
}
