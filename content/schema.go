package content

import (
	"fmt"
	"strings"
)

// Field describes one field the model is asked to produce. Hint is rendered
// into the prompt as the field's placeholder value, so the prompt and the
// extractor's validation always describe the same shape.
type Field struct {
	Name      string
	Hint      string
	List      bool
	Mandatory bool
}

// Schema is the declared shape of one record kind. It drives both prompt
// construction and post-extraction validation.
type Schema struct {
	Kind   string
	Fields []Field
}

// Mandatory returns the names of all mandatory fields, in declaration order.
func (s Schema) Mandatory() []string {
	var names []string
	for _, f := range s.Fields {
		if f.Mandatory {
			names = append(names, f.Name)
		}
	}
	return names
}

// PromptShape renders the schema as the JSON example embedded in prompts.
func (s Schema) PromptShape() string {
	var b strings.Builder
	b.WriteString("{\n")
	for i, f := range s.Fields {
		if f.List {
			fmt.Fprintf(&b, "  %q: [%q]", f.Name, f.Hint)
		} else {
			fmt.Fprintf(&b, "  %q: %q", f.Name, f.Hint)
		}
		if i < len(s.Fields)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString("}")
	return b.String()
}

// BlogPost is the schema for site blog articles.
var BlogPost = Schema{
	Kind: "blog_post",
	Fields: []Field{
		{Name: "title", Hint: "An SEO-friendly title", Mandatory: true},
		{Name: "slug", Hint: "url-friendly-version-of-title", Mandatory: true},
		{Name: "summary", Hint: "A brief 2-3 sentence summary", Mandatory: true},
		{Name: "content", Hint: "The full blog post content in markdown", Mandatory: true},
		{Name: "tags", Hint: "5-7 relevant tags", List: true, Mandatory: true},
		{Name: "imageAlt", Hint: "Descriptive alt text for the featured image"},
		{Name: "metaDescription", Hint: "SEO-friendly meta description"},
		{Name: "readingTime", Hint: "Estimated reading time in minutes"},
	},
}

// FactList is the schema for the one-shot dog facts listing.
var FactList = Schema{
	Kind: "fact_list",
	Fields: []Field{
		{Name: "facts", Hint: "Fact 1", List: true, Mandatory: true},
	},
}

// FactDetails is the schema for the per-fact detail pages.
var FactDetails = Schema{
	Kind: "fact_details",
	Fields: []Field{
		{Name: "title", Hint: "A catchy title for this fact", Mandatory: true},
		{Name: "explanation", Hint: "Detailed scientific explanation", Mandatory: true},
		{Name: "additionalInfo", Hint: "3-5 related interesting points", List: true, Mandatory: true},
		{Name: "sources", Hint: "2-3 scientific sources or studies", List: true},
		{Name: "relatedFacts", Hint: "3 related dog facts", List: true, Mandatory: true},
	},
}

// BreedInfo is the schema for per-breed encyclopedia entries.
var BreedInfo = Schema{
	Kind: "breed_info",
	Fields: []Field{
		{Name: "description", Hint: "A comprehensive description of the breed", Mandatory: true},
		{Name: "characteristics", Hint: "List of 5 physical characteristics", List: true, Mandatory: true},
		{Name: "temperament", Hint: "List of 5 temperament traits", List: true, Mandatory: true},
		{Name: "care", Hint: "List of 5 care requirements", List: true, Mandatory: true},
		{Name: "history", Hint: "Brief history of the breed", Mandatory: true},
		{Name: "suitability", Hint: "List of 3-5 ideal living situations", List: true},
		{Name: "health", Hint: "List of 3-5 common health considerations", List: true},
	},
}
