package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/builtnorth/schemagraph/content"
	"github.com/builtnorth/schemagraph/schematype"
)

func validOrganization() map[string]any {
	return map[string]any{
		"@context": "https://schema.org",
		"@type":    "Organization",
		"@id":      "#organization",
		"name":     "Acme",
		"url":      "https://acme.example",
	}
}

func orgRegistry(t *testing.T, options ...schematype.Option) *schematype.Registry {
	t.Helper()
	r := schematype.NewRegistry()
	gen := schematype.GeneratorFunc(func(data map[string]any, _ content.Options) (map[string]any, error) {
		return data, nil
	})
	opts := append([]schematype.Option{schematype.WithRequiredProperties("name")}, options...)
	require.True(t, r.Register("Organization", gen, opts...))
	return r
}

func TestValidateStructural(t *testing.T) {
	v := New(nil)

	t.Run("wrong context short-circuits", func(t *testing.T) {
		s := validOrganization()
		s["@context"] = "https://example.com"
		result := v.Validate(s, "Organization")
		assert.False(t, result.Valid())
		require.Len(t, result.Errors, 1)
		assert.Contains(t, result.Errors[0], "@context")
	})

	t.Run("missing type short-circuits", func(t *testing.T) {
		s := validOrganization()
		delete(s, "@type")
		result := v.Validate(s, "Organization")
		assert.False(t, result.Valid())
		require.Len(t, result.Errors, 1)
		assert.Contains(t, result.Errors[0], "@type")
	})

	t.Run("non-string type short-circuits", func(t *testing.T) {
		s := validOrganization()
		s["@type"] = 42
		result := v.Validate(s, "Organization")
		assert.False(t, result.Valid())
	})

	t.Run("nil schema", func(t *testing.T) {
		result := v.Validate(nil, "Organization")
		assert.False(t, result.Valid())
	})
}

func TestValidateTypeCheck(t *testing.T) {
	v := New(nil)

	t.Run("exact match passes", func(t *testing.T) {
		result := v.Validate(validOrganization(), "Organization")
		assert.True(t, result.Valid())
	})

	t.Run("mismatch fails", func(t *testing.T) {
		result := v.Validate(validOrganization(), "Person")
		assert.False(t, result.Valid())
	})

	t.Run("subtype accepted", func(t *testing.T) {
		tests := []struct {
			actual   string
			expected string
		}{
			{"LocalBusiness", "Organization"},
			{"BlogPosting", "Article"},
			{"BlogPosting", "CreativeWork"},
			{"NewsArticle", "Article"},
			{"AboutPage", "WebPage"},
			{"AboutPage", "CreativeWork"},
		}
		for _, tt := range tests {
			s := map[string]any{
				"@context": "https://schema.org",
				"@type":    tt.actual,
			}
			result := v.Validate(s, tt.expected)
			assert.True(t, result.Valid(), "%s should satisfy %s", tt.actual, tt.expected)
		}
	})

	t.Run("subtype not transitive to siblings", func(t *testing.T) {
		s := map[string]any{
			"@context": "https://schema.org",
			"@type":    "Article",
		}
		result := v.Validate(s, "BlogPosting")
		assert.False(t, result.Valid(), "parent does not satisfy child")
	})
}

func TestValidateRequiredProperties(t *testing.T) {
	v := New(orgRegistry(t))

	t.Run("missing required is an error", func(t *testing.T) {
		s := validOrganization()
		delete(s, "name")
		result := v.Validate(s, "Organization")
		assert.False(t, result.Valid())
		require.Len(t, result.Errors, 1)
		assert.Contains(t, result.Errors[0], `"name"`)
	})

	t.Run("empty string counts as missing", func(t *testing.T) {
		s := validOrganization()
		s["name"] = ""
		result := v.Validate(s, "Organization")
		assert.False(t, result.Valid())
	})

	t.Run("zero and false are present values", func(t *testing.T) {
		r := schematype.NewRegistry()
		gen := schematype.GeneratorFunc(func(data map[string]any, _ content.Options) (map[string]any, error) {
			return data, nil
		})
		r.Register("Offer", gen, schematype.WithRequiredProperties("price", "isAccessibleForFree"))

		s := map[string]any{
			"@context":            "https://schema.org",
			"@type":               "Offer",
			"price":               0,
			"isAccessibleForFree": false,
		}
		result := New(r).Validate(s, "Offer")
		assert.True(t, result.Valid(), "0 and false must not be treated as empty: %v", result.Errors)
	})
}

func TestValidatePropertyShapes(t *testing.T) {
	v := New(nil)

	t.Run("wildcard table catches wrong shapes", func(t *testing.T) {
		s := validOrganization()
		s["name"] = 42
		result := v.Validate(s, "Organization")
		assert.False(t, result.Valid())
	})

	t.Run("per-type table wins over wildcard", func(t *testing.T) {
		s := map[string]any{
			"@context": "https://schema.org",
			"@type":    "ImageObject",
			"width":    "wide",
		}
		result := v.Validate(s, "ImageObject")
		assert.False(t, result.Valid())

		s["width"] = 1200
		result = v.Validate(s, "ImageObject")
		assert.True(t, result.Valid())
	})

	t.Run("object property accepts nested typed object", func(t *testing.T) {
		s := map[string]any{
			"@context": "https://schema.org",
			"@type":    "Article",
			"author":   map[string]any{"@type": "Person", "name": "Jo"},
		}
		result := v.Validate(s, "Article")
		assert.True(t, result.Valid())
	})

	t.Run("object property accepts reference marker", func(t *testing.T) {
		s := map[string]any{
			"@context":  "https://schema.org",
			"@type":     "WebSite",
			"publisher": map[string]any{"@id": "#organization"},
		}
		result := v.Validate(s, "WebSite")
		assert.True(t, result.Valid())
	})

	t.Run("object property rejects untyped object", func(t *testing.T) {
		s := map[string]any{
			"@context": "https://schema.org",
			"@type":    "Article",
			"author":   map[string]any{"name": "Jo"},
		}
		result := v.Validate(s, "Article")
		assert.False(t, result.Valid())
	})

	t.Run("unknown property defaults to mixed", func(t *testing.T) {
		s := validOrganization()
		s["customField"] = []int{1, 2, 3}
		result := v.Validate(s, "Organization")
		assert.True(t, result.Valid())
	})
}

func TestValidateFormats(t *testing.T) {
	v := New(nil)

	t.Run("bad url is an error", func(t *testing.T) {
		s := validOrganization()
		s["sameAs"] = "not a url"
		result := v.Validate(s, "Organization")
		assert.False(t, result.Valid())
	})

	t.Run("bad email is an error", func(t *testing.T) {
		s := validOrganization()
		s["email"] = "not-an-email"
		result := v.Validate(s, "Organization")
		assert.False(t, result.Valid())
	})

	t.Run("digitless telephone is a warning only", func(t *testing.T) {
		s := validOrganization()
		s["telephone"] = "call us"
		result := v.Validate(s, "Organization")
		assert.True(t, result.Valid())
		assert.NotEmpty(t, result.Warnings)
	})

	t.Run("dates accept ISO-8601 variants", func(t *testing.T) {
		valid := []string{
			"2026-09-01",
			"2026-09-01T10:30",
			"2026-09-01T10:30:00",
			"2026-09-01T10:30:00Z",
			"2026-09-01T10:30:00+02:00",
		}
		for _, date := range valid {
			s := map[string]any{
				"@context":      "https://schema.org",
				"@type":         "Article",
				"datePublished": date,
			}
			result := v.Validate(s, "Article")
			assert.True(t, result.Valid(), "date %q should be valid: %v", date, result.Errors)
		}

		s := map[string]any{
			"@context":      "https://schema.org",
			"@type":         "Article",
			"datePublished": "September 1st",
		}
		result := v.Validate(s, "Article")
		assert.False(t, result.Valid())
	})

	t.Run("enum mismatch is a warning", func(t *testing.T) {
		s := map[string]any{
			"@context":     "https://schema.org",
			"@type":        "Offer",
			"availability": "https://schema.org/Maybe",
		}
		result := v.Validate(s, "Offer")
		assert.True(t, result.Valid())
		assert.NotEmpty(t, result.Warnings)

		s["availability"] = "https://schema.org/InStock"
		result = v.Validate(s, "Offer")
		assert.Empty(t, result.Warnings)
	})
}

func TestValidateAllowedProperties(t *testing.T) {
	v := New(orgRegistry(t, schematype.WithAllowedProperties("url")))

	s := validOrganization()
	s["unexpected"] = "extra"
	result := v.Validate(s, "Organization")

	assert.True(t, result.Valid(), "extras are warnings, not errors")
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], `"unexpected"`)
}

func TestValidateCustomValidator(t *testing.T) {
	custom := func(schema map[string]any) ([]string, []string) {
		if schema["name"] == "Evil Corp" {
			return []string{"name rejected"}, nil
		}
		return nil, []string{"reviewed"}
	}
	v := New(orgRegistry(t, schematype.WithValidator(custom)))

	s := validOrganization()
	s["name"] = "Evil Corp"
	result := v.Validate(s, "Organization")
	assert.False(t, result.Valid())
	assert.Contains(t, result.Errors, "name rejected")

	result = v.Validate(validOrganization(), "Organization")
	assert.True(t, result.Valid())
	assert.Contains(t, result.Warnings, "reviewed")
}

func TestValidatePanicRecovery(t *testing.T) {
	custom := func(map[string]any) ([]string, []string) {
		panic("boom")
	}
	v := New(orgRegistry(t, schematype.WithValidator(custom)))

	result := v.Validate(validOrganization(), "Organization")
	assert.False(t, result.Valid())
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "validation failed internally")
}
