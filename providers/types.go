package providers

import (
	"github.com/builtnorth/schemagraph/content"
	"github.com/builtnorth/schemagraph/schematype"
)

// passThrough completes a schema object from raw data: the @context is
// injected when absent and the data carried through untouched.
func passThrough(schemaType string) schematype.GeneratorFunc {
	return func(data map[string]any, _ content.Options) (map[string]any, error) {
		out := make(map[string]any, len(data)+2)
		out["@context"] = "https://schema.org"
		out["@type"] = schemaType
		for k, v := range data {
			if k == "@context" || k == "@type" {
				continue
			}
			out[k] = v
		}
		return out, nil
	}
}

// RegisterTypes adds the schema.org types emitted by the built-in
// providers, with the property constraints the validator enforces.
func RegisterTypes(types *schematype.Registry) {
	types.Register("Organization", passThrough("Organization"),
		schematype.WithRequiredProperties("name", "url"))
	types.Register("WebSite", passThrough("WebSite"),
		schematype.WithRequiredProperties("name", "url"))
	types.Register("BlogPosting", passThrough("BlogPosting"),
		schematype.WithRequiredProperties("headline"))
	types.Register("FAQPage", passThrough("FAQPage"),
		schematype.WithRequiredProperties("mainEntity"))
	types.Register("BreadcrumbList", passThrough("BreadcrumbList"),
		schematype.WithRequiredProperties("itemListElement"))
}
