package providers

import (
	"context"

	"github.com/builtnorth/schemagraph/content"
	"github.com/builtnorth/schemagraph/schema"
)

// FAQEntriesKey is the context value under which the integration layer
// supplies FAQ entries for the current page.
const FAQEntriesKey = "faq_entries"

// FAQEntry is one question/answer pair.
type FAQEntry struct {
	Question string
	Answer   string
}

// FAQ emits an FAQPage piece when the context carries FAQ entries. The
// provider is opt-in: no entries, no piece.
type FAQ struct{}

// NewFAQ creates the FAQ provider.
func NewFAQ() *FAQ {
	return &FAQ{}
}

// ID implements provider.Provider.
func (f *FAQ) ID() string { return "faq" }

// Priority runs after the singular content piece.
func (f *FAQ) Priority() int { return 15 }

// Types implements provider.Provider.
func (f *FAQ) Types() []string { return []string{"FAQPage"} }

// CanProvide applies when the context carries at least one entry.
func (f *FAQ) CanProvide(c *content.Context, _ content.Options) bool {
	return len(f.entries(c)) > 0
}

// Provide builds the #faq piece with one Question per entry.
func (f *FAQ) Provide(_ context.Context, c *content.Context, _ content.Options) ([]*schema.Piece, error) {
	entries := f.entries(c)
	if len(entries) == 0 {
		return nil, nil
	}

	questions := make([]schema.Value, 0, len(entries))
	for _, entry := range entries {
		answer := schema.NewProperties()
		answer.Set(schema.PropType, schema.String("Answer"))
		answer.Set("text", schema.String(entry.Answer))

		question := schema.NewProperties()
		question.Set(schema.PropType, schema.String("Question"))
		question.Set("name", schema.String(entry.Question))
		question.Set("acceptedAnswer", schema.Mapping(answer))

		questions = append(questions, schema.Mapping(question))
	}

	piece := schema.NewPiece(FAQID, "FAQPage")
	piece.Set("mainEntity", schema.Sequence(questions...))

	return []*schema.Piece{piece}, nil
}

func (f *FAQ) entries(c *content.Context) []FAQEntry {
	value, ok := c.Value(FAQEntriesKey)
	if !ok {
		return nil
	}
	entries, ok := value.([]FAQEntry)
	if !ok {
		return nil
	}
	return entries
}
