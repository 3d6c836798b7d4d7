package validate

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/builtnorth/schemagraph/schema"
	"github.com/builtnorth/schemagraph/schematype"
)

// propertyKind is the expected runtime shape of a schema property value.
type propertyKind string

const (
	kindString  propertyKind = "string"
	kindNumber  propertyKind = "number"
	kindInteger propertyKind = "integer"
	kindBoolean propertyKind = "boolean"
	kindArray   propertyKind = "array"
	kindObject  propertyKind = "object"
	kindURL     propertyKind = "url"
	kindDate    propertyKind = "date"
	kindMixed   propertyKind = "mixed"
)

// subtypes is the fixed inheritance table consulted when a schema's
// declared type does not equal the expected type exactly.
var subtypes = map[string][]string{
	"LocalBusiness": {"Organization"},
	"Article":       {"CreativeWork"},
	"BlogPosting":   {"Article", "CreativeWork"},
	"NewsArticle":   {"Article", "CreativeWork"},
	"WebPage":       {"CreativeWork"},
	"AboutPage":     {"WebPage", "CreativeWork"},
	"ContactPage":   {"WebPage", "CreativeWork"},
}

// typeProperties maps schema types to their property shape tables.
// Consulted before the wildcard table.
var typeProperties = map[string]map[string]propertyKind{
	"Organization": {
		"logo":   kindMixed,
		"sameAs": kindMixed,
	},
	"WebSite": {
		"potentialAction": kindObject,
		"publisher":       kindObject,
	},
	"ImageObject": {
		"url":    kindURL,
		"width":  kindInteger,
		"height": kindInteger,
	},
	"BreadcrumbList": {
		"itemListElement": kindArray,
	},
	"FAQPage": {
		"mainEntity": kindArray,
	},
	"ListItem": {
		"position": kindInteger,
	},
	"Offer": {
		"price": kindNumber,
	},
}

// wildcardProperties applies to every type when the per-type table has no
// entry. Anything absent here defaults to mixed.
var wildcardProperties = map[string]propertyKind{
	"name":                kindString,
	"headline":            kindString,
	"description":         kindString,
	"url":                 kindURL,
	"email":               kindString,
	"telephone":           kindString,
	"datePublished":       kindDate,
	"dateModified":        kindDate,
	"dateCreated":         kindDate,
	"startDate":           kindDate,
	"endDate":             kindDate,
	"author":              kindObject,
	"publisher":           kindObject,
	"position":            kindInteger,
	"isAccessibleForFree": kindBoolean,
	"itemListElement":     kindArray,
}

// urlProperties are scalar string properties checked for URL syntax.
var urlProperties = map[string]bool{
	"url":              true,
	"sameAs":           true,
	"image":            true,
	"logo":             true,
	"mainEntityOfPage": true,
}

// dateProperties are scalar string properties checked for ISO-8601 form.
var dateProperties = map[string]bool{
	"datePublished": true,
	"dateModified":  true,
	"dateCreated":   true,
	"startDate":     true,
	"endDate":       true,
}

// enumProperties map property names to their schema.org canonical URI
// sets. Membership mismatches are warnings only.
var enumProperties = map[string]map[string]bool{
	"availability": {
		"https://schema.org/InStock":             true,
		"https://schema.org/OutOfStock":          true,
		"https://schema.org/PreOrder":            true,
		"https://schema.org/PreSale":             true,
		"https://schema.org/BackOrder":           true,
		"https://schema.org/Discontinued":        true,
		"https://schema.org/SoldOut":             true,
		"https://schema.org/InStoreOnly":         true,
		"https://schema.org/OnlineOnly":          true,
		"https://schema.org/LimitedAvailability": true,
	},
	"condition": {
		"https://schema.org/NewCondition":         true,
		"https://schema.org/UsedCondition":        true,
		"https://schema.org/RefurbishedCondition": true,
		"https://schema.org/DamagedCondition":     true,
	},
}

var (
	iso8601Pattern  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}([T ]\d{2}:\d{2}(:\d{2}(\.\d+)?)?(Z|[+-]\d{2}:?\d{2})?)?$`)
	emailPattern    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	anyDigitPattern = regexp.MustCompile(`\d`)
)

// Validator checks schema objects against the constraints registered in
// a schema type registry plus the built-in shape and format tables.
type Validator struct {
	registry *schematype.Registry
}

// New creates a validator over the given registry. A nil registry
// disables the required/allowed/custom stages; structure, shape, and
// format checks still run.
func New(registry *schematype.Registry) *Validator {
	return &Validator{registry: registry}
}

// Validate runs all stages in order against the schema object.
// Structural and type failures short-circuit; later stages accumulate.
// An internal panic is converted into a single error on the result.
func (v *Validator) Validate(schemaMap map[string]any, expectedType string) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			result = Result{}
			result.AddError(fmt.Sprintf("validation failed internally: %v", r))
		}
	}()

	if schemaMap == nil {
		result.AddError("schema is empty")
		return result
	}

	// Stage 1: structure.
	if ctx, ok := schemaMap[schema.PropContext].(string); !ok || ctx != schema.Context {
		result.AddError(fmt.Sprintf("@context must be %q", schema.Context))
		return result
	}
	actualType, ok := schemaMap[schema.PropType].(string)
	if !ok || actualType == "" {
		result.AddError("@type must be present and a string")
		return result
	}

	// Stage 2: declared type against the expected type.
	if !typeSatisfies(actualType, expectedType) {
		result.AddError(fmt.Sprintf("type %q does not satisfy expected type %q", actualType, expectedType))
		return result
	}

	// Stage 3: required properties present and non-empty.
	if v.registry != nil {
		for _, prop := range v.registry.RequiredProperties(expectedType) {
			value, present := schemaMap[prop]
			if !present || isEmptyValue(value) {
				result.AddError(fmt.Sprintf("required property %q is missing or empty", prop))
			}
		}
	}

	// Stage 4: property shapes.
	for prop, value := range schemaMap {
		if prop == schema.PropContext || prop == schema.PropType || prop == schema.PropID {
			continue
		}
		kind := propertyKindFor(actualType, prop)
		if kind == kindMixed {
			continue
		}
		if !matchesKind(value, kind) {
			result.AddError(fmt.Sprintf("property %q should be %s", prop, kind))
		}
	}

	// Stage 5: scalar value formats.
	for prop, value := range schemaMap {
		str, isString := value.(string)
		if !isString {
			continue
		}
		switch {
		case urlProperties[prop]:
			if !isValidURL(str) {
				result.AddError(fmt.Sprintf("property %q is not a valid URL: %q", prop, str))
			}
		case prop == "email":
			if !emailPattern.MatchString(str) {
				result.AddError(fmt.Sprintf("property %q is not a valid email: %q", prop, str))
			}
		case prop == "telephone":
			if !anyDigitPattern.MatchString(str) {
				result.AddWarning(fmt.Sprintf("property %q contains no digits: %q", prop, str))
			}
		case dateProperties[prop]:
			if !iso8601Pattern.MatchString(str) {
				result.AddError(fmt.Sprintf("property %q is not an ISO-8601 date: %q", prop, str))
			}
		default:
			if enum, known := enumProperties[prop]; known && !enum[str] {
				result.AddWarning(fmt.Sprintf("property %q has unrecognized value %q", prop, str))
			}
		}
	}

	// Allowed-property set: extras are advisory.
	if v.registry != nil {
		if allowed := v.registry.AllowedProperties(expectedType); allowed != nil {
			allowedSet := make(map[string]bool, len(allowed))
			for _, prop := range allowed {
				allowedSet[prop] = true
			}
			for prop := range schemaMap {
				if prop == schema.PropContext || prop == schema.PropType || prop == schema.PropID {
					continue
				}
				if !allowedSet[prop] {
					result.AddWarning(fmt.Sprintf("property %q is not in the allowed set for %s", prop, expectedType))
				}
			}
		}
	}

	// Stage 6: custom validator.
	if v.registry != nil {
		if custom := v.registry.Validator(expectedType); custom != nil {
			errs, warnings := custom(schemaMap)
			for _, msg := range errs {
				result.AddError(msg)
			}
			for _, msg := range warnings {
				result.AddWarning(msg)
			}
		}
	}

	return result
}

// typeSatisfies reports whether actual equals expected or is a known
// subtype of it.
func typeSatisfies(actual, expected string) bool {
	if actual == expected {
		return true
	}
	for _, parent := range subtypes[actual] {
		if parent == expected {
			return true
		}
	}
	return false
}

// propertyKindFor resolves a property's expected kind: the per-type
// table first, then the wildcard table, then mixed.
func propertyKindFor(schemaType, prop string) propertyKind {
	if table, ok := typeProperties[schemaType]; ok {
		if kind, ok := table[prop]; ok {
			return kind
		}
	}
	if kind, ok := wildcardProperties[prop]; ok {
		return kind
	}
	return kindMixed
}

// matchesKind compares a runtime value against an expected kind. Object
// values must carry @type, except reference markers which carry only
// @id and resolve when the graph is assembled.
func matchesKind(value any, kind propertyKind) bool {
	switch kind {
	case kindString:
		_, ok := value.(string)
		return ok
	case kindNumber:
		return isNumeric(value)
	case kindInteger:
		return isIntegral(value)
	case kindBoolean:
		_, ok := value.(bool)
		return ok
	case kindArray:
		_, ok := value.([]any)
		return ok
	case kindObject:
		m, ok := value.(map[string]any)
		if !ok {
			return false
		}
		if _, hasType := m[schema.PropType]; hasType {
			return true
		}
		_, hasID := m[schema.PropID]
		return hasID && len(m) == 1
	case kindURL:
		str, ok := value.(string)
		return ok && isValidURL(str)
	case kindDate:
		str, ok := value.(string)
		return ok && iso8601Pattern.MatchString(str)
	case kindMixed:
		return true
	default:
		return false
	}
}

func isNumeric(value any) bool {
	switch value.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return true
	default:
		return false
	}
}

func isIntegral(value any) bool {
	switch v := value.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	case float64:
		return v == float64(int64(v))
	case float32:
		return v == float32(int32(v))
	default:
		return false
	}
}

// isEmptyValue mirrors required-property emptiness: nil, empty string,
// empty slice or map. Zero and false are present values.
func isEmptyValue(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []any:
		return len(v) == 0
	case map[string]any:
		return len(v) == 0
	default:
		return false
	}
}

func isValidURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
