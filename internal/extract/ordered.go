package extract

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Ordered is a string-keyed map that remembers insertion order. Setting a key
// that already exists replaces its value without moving it. The zero value is
// ready to use.
type Ordered[V any] struct {
	keys []string
	vals map[string]V
}

// Series maps column labels (years, quarters) to cell text in page order.
type Series = Ordered[string]

// RatioMap maps metric names to their raw text values.
type RatioMap = Ordered[string]

// NewSeries builds a Series from alternating key/value arguments.
func NewSeries(kv ...string) *Series {
	s := &Series{}
	for i := 0; i+1 < len(kv); i += 2 {
		s.Set(kv[i], kv[i+1])
	}
	return s
}

// Set stores v under k.
func (m *Ordered[V]) Set(k string, v V) {
	if m.vals == nil {
		m.vals = make(map[string]V)
	}
	if _, ok := m.vals[k]; !ok {
		m.keys = append(m.keys, k)
	}
	m.vals[k] = v
}

// Get returns the value stored under k.
func (m *Ordered[V]) Get(k string) (V, bool) {
	var zero V
	if m == nil || m.vals == nil {
		return zero, false
	}
	v, ok := m.vals[k]
	return v, ok
}

// Has reports whether k is present.
func (m *Ordered[V]) Has(k string) bool {
	_, ok := m.Get(k)
	return ok
}

// Len returns the number of entries.
func (m *Ordered[V]) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the keys in insertion order.
func (m *Ordered[V]) Keys() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.keys...)
}

// Each calls fn for every entry in insertion order.
func (m *Ordered[V]) Each(fn func(k string, v V)) {
	if m == nil {
		return
	}
	for _, k := range m.keys {
		fn(k, m.vals[k])
	}
}

// KeyContaining returns the first key that contains any of subs.
func (m *Ordered[V]) KeyContaining(subs ...string) (string, bool) {
	if m == nil {
		return "", false
	}
	for _, k := range m.keys {
		if containsAny(k, subs) {
			return k, true
		}
	}
	return "", false
}

// Last returns the most recently inserted entry.
func (m *Ordered[V]) Last() (string, V, bool) {
	var zero V
	if m.Len() == 0 {
		return "", zero, false
	}
	k := m.keys[len(m.keys)-1]
	return k, m.vals[k], true
}

// Map returns an unordered copy of the entries.
func (m *Ordered[V]) Map() map[string]V {
	out := make(map[string]V, m.Len())
	m.Each(func(k string, v V) { out[k] = v })
	return out
}

// MarshalJSON encodes the map as a JSON object whose members keep insertion
// order.
func (m *Ordered[V]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(m.vals[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
