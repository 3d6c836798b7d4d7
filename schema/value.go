package schema

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// Kind identifies the variant held by a Value.
type Kind int

const (
	// KindString holds a string scalar.
	KindString Kind = iota
	// KindNumber holds a float64 scalar.
	KindNumber
	// KindInteger holds an int64 scalar.
	KindInteger
	// KindBool holds a boolean scalar.
	KindBool
	// KindSequence holds an ordered list of values.
	KindSequence
	// KindMapping holds an ordered property bag.
	KindMapping
	// KindReference holds a pointer to another piece by id,
	// serialized as {"@id": "<target>"}.
	KindReference
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindInteger:
		return "integer"
	case KindBool:
		return "boolean"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	case KindReference:
		return "reference"
	default:
		return "unknown"
	}
}

// Value is a closed tagged union over the shapes a schema property may take.
// Exactly one variant is populated, selected by Kind. The closed set lets
// validation and serialization pattern-match exhaustively instead of probing
// runtime types.
type Value struct {
	kind Kind

	str  string
	num  float64
	i    int64
	b    bool
	seq  []Value
	m    *Properties
	ref  string
}

// String creates a string value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Number creates a floating point value.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Integer creates an integer value.
func Integer(i int64) Value { return Value{kind: KindInteger, i: i} }

// Bool creates a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Sequence creates an ordered list value.
func Sequence(items ...Value) Value {
	return Value{kind: KindSequence, seq: items}
}

// Mapping creates a nested property-bag value.
func Mapping(props *Properties) Value {
	if props == nil {
		props = NewProperties()
	}
	return Value{kind: KindMapping, m: props}
}

// Reference creates a reference value pointing at another piece id.
func Reference(targetID string) Value { return Value{kind: KindReference, ref: targetID} }

// Kind returns which variant the value holds.
func (v Value) Kind() Kind { return v.kind }

// StringValue returns the string variant. Valid only when Kind is KindString.
func (v Value) StringValue() string { return v.str }

// NumberValue returns the float variant. Valid only when Kind is KindNumber.
func (v Value) NumberValue() float64 { return v.num }

// IntegerValue returns the integer variant. Valid only when Kind is KindInteger.
func (v Value) IntegerValue() int64 { return v.i }

// BoolValue returns the boolean variant. Valid only when Kind is KindBool.
func (v Value) BoolValue() bool { return v.b }

// SequenceValue returns the list variant. Valid only when Kind is KindSequence.
func (v Value) SequenceValue() []Value { return v.seq }

// MappingValue returns the nested bag variant. Valid only when Kind is KindMapping.
func (v Value) MappingValue() *Properties { return v.m }

// ReferenceID returns the target id. Valid only when Kind is KindReference.
func (v Value) ReferenceID() string { return v.ref }

// IsEmpty reports whether the value counts as empty for required-property
// checks. Zero numbers and false booleans are present values, not empty ones.
func (v Value) IsEmpty() bool {
	switch v.kind {
	case KindString:
		return v.str == ""
	case KindSequence:
		return len(v.seq) == 0
	case KindMapping:
		return v.m == nil || v.m.Len() == 0
	case KindReference:
		return v.ref == ""
	default:
		return false
	}
}

// Interface renders the value as plain Go data suitable for JSON encoding:
// scalars as themselves, sequences as []any, mappings as ordered maps, and
// references as {"@id": target}.
func (v Value) Interface() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return v.num
	case KindInteger:
		return v.i
	case KindBool:
		return v.b
	case KindSequence:
		out := make([]any, len(v.seq))
		for i, item := range v.seq {
			out[i] = item.Interface()
		}
		return out
	case KindMapping:
		return v.m.Interface()
	case KindReference:
		return map[string]any{"@id": v.ref}
	default:
		return nil
	}
}

// MarshalJSON implements json.Marshaler with an exhaustive match over the
// variant set.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindNumber:
		return json.Marshal(v.num)
	case KindInteger:
		return json.Marshal(v.i)
	case KindBool:
		return json.Marshal(v.b)
	case KindSequence:
		if v.seq == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.seq)
	case KindMapping:
		return v.m.MarshalJSON()
	case KindReference:
		return json.Marshal(map[string]string{"@id": v.ref})
	default:
		return nil, fmt.Errorf("cannot marshal value of kind %d", v.kind)
	}
}

// FromInterface converts plain Go data into a Value. Unknown types are
// stringified via fmt. Map iteration order for untyped maps is not stable;
// producers that care about ordering should build Properties directly.
func FromInterface(data any) Value {
	switch d := data.(type) {
	case nil:
		return String("")
	case string:
		return String(d)
	case bool:
		return Bool(d)
	case int:
		return Integer(int64(d))
	case int32:
		return Integer(int64(d))
	case int64:
		return Integer(d)
	case float32:
		return Number(float64(d))
	case float64:
		return Number(d)
	case Value:
		return d
	case []any:
		items := make([]Value, len(d))
		for i, item := range d {
			items[i] = FromInterface(item)
		}
		return Sequence(items...)
	case map[string]any:
		if id, ok := referenceOnly(d); ok {
			return Reference(id)
		}
		props := NewProperties()
		for _, key := range sortedKeys(d) {
			props.Set(key, FromInterface(d[key]))
		}
		return Mapping(props)
	default:
		return String(fmt.Sprintf("%v", d))
	}
}

// referenceOnly reports whether m is exactly {"@id": "<string>"}.
func referenceOnly(m map[string]any) (string, bool) {
	if len(m) != 1 {
		return "", false
	}
	id, ok := m["@id"].(string)
	return id, ok
}
