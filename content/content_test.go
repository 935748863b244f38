package content

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugifyDeterministic(t *testing.T) {
	topic := "How to Train Your Puppy: A Beginner's Guide"
	first := Slugify(topic)
	second := Slugify(topic)

	assert.Equal(t, first, second)
	assert.Equal(t, "how-to-train-your-puppy-a-beginners-guide", first)
}

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Top 10 Most Popular Dog Breeds in 2025", "top-10-most-popular-dog-breeds-in-2025"},
		{"Dog Harnesses vs Collars: Which is Better?", "dog-harnesses-vs-collars-which-is-better"},
		{"  leading and trailing   ", "leading-and-trailing"},
		{"multiple --- hyphens", "multiple-hyphens"},
		{"", ""},
		{"!!!", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Slugify(tc.in), "input %q", tc.in)
	}
}

func TestSchemaPromptShapeIsValidJSONShape(t *testing.T) {
	for _, schema := range []Schema{BlogPost, FactList, FactDetails, BreedInfo} {
		t.Run(schema.Kind, func(t *testing.T) {
			shape := schema.PromptShape()

			// The example embedded in the prompt must itself parse, so the
			// model sees exactly the shape the extractor validates.
			var obj map[string]any
			require.NoError(t, json.Unmarshal([]byte(shape), &obj), "shape:\n%s", shape)

			for _, f := range schema.Fields {
				assert.Contains(t, obj, f.Name)
				if f.List {
					assert.IsType(t, []any{}, obj[f.Name])
				}
			}
		})
	}
}

func TestSchemaMandatory(t *testing.T) {
	assert.Equal(t,
		[]string{"title", "slug", "summary", "content", "tags"},
		BlogPost.Mandatory())
	assert.Equal(t, []string{"facts"}, FactList.Mandatory())
}

func TestPromptsEmbedSchemaShape(t *testing.T) {
	prompts := map[string]string{
		"blog":   BlogPostPrompt("Dog Training Tips"),
		"facts":  FactListPrompt(50),
		"detail": FactDetailsPrompt("Dogs have wet noses."),
		"breed":  BreedInfoPrompt("retriever", "golden"),
	}
	for name, prompt := range prompts {
		assert.Contains(t, prompt, "valid JSON object", "prompt %s", name)
		assert.Contains(t, prompt, "{", "prompt %s", name)
	}

	assert.Contains(t, prompts["blog"], "Dog Training Tips")
	assert.Contains(t, prompts["facts"], "50 dog facts")
	assert.Contains(t, prompts["detail"], "Dogs have wet noses.")
	assert.Contains(t, prompts["breed"], "golden retriever")
}

func TestRecordJSONShape(t *testing.T) {
	rec := Record{
		ID:          "some-topic",
		Title:       "Some Topic",
		Slug:        "some-topic",
		Tags:        []string{"a"},
		Image:       "https://images.dog.ceo/x.jpg",
		ImageSource: MediaEnriched,
		CreatedAt:   1700000000000,
	}
	raw, err := json.Marshal(rec)
	require.NoError(t, err)

	// The front end reads these exact keys.
	for _, key := range []string{`"id"`, `"title"`, `"slug"`, `"tags"`, `"image"`, `"timestamp"`} {
		assert.True(t, strings.Contains(string(raw), key), "missing %s in %s", key, raw)
	}
}
