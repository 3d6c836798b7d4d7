package schema

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_IsEmpty(t *testing.T) {
	tests := []struct {
		name     string
		value    Value
		expected bool
	}{
		{"empty string", String(""), true},
		{"non-empty string", String("x"), false},
		{"zero number is present", Number(0), false},
		{"zero integer is present", Integer(0), false},
		{"false boolean is present", Bool(false), false},
		{"empty sequence", Sequence(), true},
		{"non-empty sequence", Sequence(String("a")), false},
		{"empty mapping", Mapping(NewProperties()), true},
		{"empty reference", Reference(""), true},
		{"reference", Reference("#org"), false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, test.value.IsEmpty())
		})
	}
}

func TestValue_MarshalJSON(t *testing.T) {
	nested := NewProperties()
	nested.Set("@type", String("ImageObject"))
	nested.Set("url", String("https://example.com/a.png"))

	tests := []struct {
		name     string
		value    Value
		expected string
	}{
		{"string", String("hello"), `"hello"`},
		{"number", Number(1.5), `1.5`},
		{"integer", Integer(42), `42`},
		{"bool", Bool(true), `true`},
		{"sequence", Sequence(String("a"), Integer(1)), `["a",1]`},
		{"reference", Reference("#org"), `{"@id":"#org"}`},
		{"mapping", Mapping(nested), `{"@type":"ImageObject","url":"https://example.com/a.png"}`},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			data, err := json.Marshal(test.value)
			require.NoError(t, err)
			assert.Equal(t, test.expected, string(data))
		})
	}
}

func TestFromInterface(t *testing.T) {
	value := FromInterface(map[string]any{
		"@id": "#organization",
	})
	assert.Equal(t, KindReference, value.Kind())
	assert.Equal(t, "#organization", value.ReferenceID())

	value = FromInterface([]any{"a", 1, true})
	require.Equal(t, KindSequence, value.Kind())
	items := value.SequenceValue()
	require.Len(t, items, 3)
	assert.Equal(t, KindString, items[0].Kind())
	assert.Equal(t, KindInteger, items[1].Kind())
	assert.Equal(t, KindBool, items[2].Kind())

	value = FromInterface(map[string]any{"name": "x", "count": 3})
	require.Equal(t, KindMapping, value.Kind())
	name, ok := value.MappingValue().Get("name")
	require.True(t, ok)
	assert.Equal(t, "x", name.StringValue())
}

func TestValue_InterfaceRoundShape(t *testing.T) {
	seq := Sequence(Reference("#a"), String("b"))
	out := seq.Interface()
	require.IsType(t, []any{}, out)
	items := out.([]any)
	assert.Equal(t, map[string]any{"@id": "#a"}, items[0])
	assert.Equal(t, "b", items[1])
}
