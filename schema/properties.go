package schema

import (
	"bytes"
	"sort"

	json "github.com/goccy/go-json"
)

// Properties is an ordered property bag. Keys keep their first-insertion
// position; re-setting an existing key updates the value in place.
type Properties struct {
	keys   []string
	values map[string]Value
}

// NewProperties creates an empty ordered property bag.
func NewProperties() *Properties {
	return &Properties{
		values: make(map[string]Value),
	}
}

// Set stores a value under key, preserving the original slot when the key
// already exists.
func (p *Properties) Set(key string, value Value) {
	if _, exists := p.values[key]; !exists {
		p.keys = append(p.keys, key)
	}
	p.values[key] = value
}

// Get retrieves a value by key.
func (p *Properties) Get(key string) (Value, bool) {
	v, ok := p.values[key]
	return v, ok
}

// Delete removes a key. Returns true if the key existed.
func (p *Properties) Delete(key string) bool {
	if _, exists := p.values[key]; !exists {
		return false
	}
	delete(p.values, key)
	for i, k := range p.keys {
		if k == key {
			p.keys = append(p.keys[:i], p.keys[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of stored properties.
func (p *Properties) Len() int {
	return len(p.keys)
}

// Keys returns the property names in insertion order.
func (p *Properties) Keys() []string {
	out := make([]string, len(p.keys))
	copy(out, p.keys)
	return out
}

// Interface renders the bag as map[string]any for consumers that work on
// plain decoded data. Ordering is lost at this boundary; serialization that
// must preserve order goes through MarshalJSON.
func (p *Properties) Interface() map[string]any {
	out := make(map[string]any, len(p.keys))
	for _, key := range p.keys {
		out[key] = p.values[key].Interface()
	}
	return out
}

// MarshalJSON emits the properties in insertion order.
func (p *Properties) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range p.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyJSON, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(keyJSON)
		buf.WriteByte(':')
		valueJSON, err := p.values[key].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(valueJSON)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// sortedKeys returns map keys in lexical order for deterministic conversion
// of untyped maps.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
