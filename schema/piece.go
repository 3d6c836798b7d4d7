// Package schema provides the atomic structured-data fragment (Piece) and the
// tagged property value union used throughout the graph assembly pipeline.
package schema

// Context is the JSON-LD context injected into every serialized piece.
const Context = "https://schema.org"

// Reserved JSON-LD property names.
const (
	PropContext = "@context"
	PropType    = "@type"
	PropID      = "@id"
)

// Piece is an atomic, mutable structured-data fragment with identity, a
// schema.org type, an ordered property bag, and the list of outgoing
// references derived from reference-typed properties.
//
// A piece is created by a provider during one generation pass, mutated via
// Set/AddReference during that pass, and discarded once the graph is
// serialized.
type Piece struct {
	id         string
	schemaType string
	props      *Properties
	references []string
}

// NewPiece creates a piece with the given id and schema.org type. The id must
// be globally unique within a graph and stable across regenerations of the
// same logical entity (e.g. "#organization").
func NewPiece(id, schemaType string) *Piece {
	return &Piece{
		id:         id,
		schemaType: schemaType,
		props:      NewProperties(),
	}
}

// ID returns the piece identifier.
func (p *Piece) ID() string { return p.id }

// Type returns the schema.org type name.
func (p *Piece) Type() string { return p.schemaType }

// Set stores a property value. No validation happens at this layer:
// validation is applied to the flattened schema, not to individual pieces.
func (p *Piece) Set(property string, value Value) {
	p.props.Set(property, value)
}

// SetString stores a string property.
func (p *Piece) SetString(property, value string) {
	p.props.Set(property, String(value))
}

// AddReference stores {"@id": targetID} under property and records targetID
// in the reference list. Duplicate targets are kept in order, not
// deduplicated.
func (p *Piece) AddReference(property, targetID string) {
	p.props.Set(property, Reference(targetID))
	p.references = append(p.references, targetID)
}

// AppendReference appends {"@id": targetID} to a multi-valued reference
// property, creating the sequence on first use. Each call records targetID
// in the reference list.
func (p *Piece) AppendReference(property, targetID string) {
	existing, ok := p.props.Get(property)
	if ok && existing.Kind() == KindSequence {
		p.props.Set(property, Sequence(append(existing.SequenceValue(), Reference(targetID))...))
	} else if ok && existing.Kind() == KindReference {
		p.props.Set(property, Sequence(existing, Reference(targetID)))
	} else {
		p.props.Set(property, Sequence(Reference(targetID)))
	}
	p.references = append(p.references, targetID)
}

// Get retrieves a property value.
func (p *Piece) Get(property string) (Value, bool) {
	return p.props.Get(property)
}

// References returns the ids this piece points to, in the order the
// reference properties were set.
func (p *Piece) References() []string {
	out := make([]string, len(p.references))
	copy(out, p.references)
	return out
}

// Properties returns the ordered bag, including @type/@id at the front.
func (p *Piece) Properties() *Properties {
	full := NewProperties()
	full.Set(PropType, String(p.schemaType))
	full.Set(PropID, String(p.id))
	for _, key := range p.props.Keys() {
		if key == PropType || key == PropID {
			continue
		}
		v, _ := p.props.Get(key)
		full.Set(key, v)
	}
	return full
}

// MarshalJSON emits the piece as an ordered object with @type and @id
// first. No @context is included; the enclosing document decides where
// the context lives.
func (p *Piece) MarshalJSON() ([]byte, error) {
	return p.Properties().MarshalJSON()
}

// ToMap returns the full property bag as plain decoded data, including
// @type and @id. Reference values render as {"@id": target}.
func (p *Piece) ToMap() map[string]any {
	out := make(map[string]any, p.props.Len()+2)
	out[PropType] = p.schemaType
	out[PropID] = p.id
	for _, key := range p.props.Keys() {
		if key == PropType || key == PropID {
			continue
		}
		v, _ := p.props.Get(key)
		out[key] = v.Interface()
	}
	return out
}

// FromMap builds a piece from plain decoded data. The @id and @type entries
// override the given defaults when present. Values of shape {"@id": x}
// register as references.
func FromMap(id, schemaType string, data map[string]any) *Piece {
	if v, ok := data[PropID].(string); ok && v != "" {
		id = v
	}
	if v, ok := data[PropType].(string); ok && v != "" {
		schemaType = v
	}
	piece := NewPiece(id, schemaType)
	for _, key := range sortedKeys(data) {
		if key == PropID || key == PropType || key == PropContext {
			continue
		}
		value := FromInterface(data[key])
		if value.Kind() == KindReference {
			piece.AddReference(key, value.ReferenceID())
			continue
		}
		piece.Set(key, value)
	}
	return piece
}
