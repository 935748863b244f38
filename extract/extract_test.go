package extract

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pawpedia/content"
)

func TestRecordProseWrapped(t *testing.T) {
	raw := `Here is your JSON: {"title":"X","content":"Y","tags":["a"],"summary":"Z","slug":"x"} Hope that helps!`

	obj, err := Record(raw, content.BlogPost)
	require.NoError(t, err)

	assert.Equal(t, "X", obj["title"])
	assert.Equal(t, "Y", obj["content"])
	assert.Equal(t, "Z", obj["summary"])
	assert.Equal(t, "x", obj["slug"])
	assert.Equal(t, []any{"a"}, obj["tags"])
}

func TestObjectNoBraces(t *testing.T) {
	_, err := Object("I could not produce the article you asked for, sorry.")
	require.ErrorIs(t, err, ErrNoJSON)
}

func TestObjectMarkdownFenced(t *testing.T) {
	raw := "```json\n{\"title\": \"Fenced\", \"n\": 1}\n```"

	obj, err := Object(raw)
	require.NoError(t, err)
	assert.Equal(t, "Fenced", obj["title"])
}

func TestObjectTrailingCommas(t *testing.T) {
	raw := `{"title": "T", "tags": ["a", "b",], "extra": {"k": "v",},}`

	obj, err := Object(raw)
	require.NoError(t, err)
	assert.Equal(t, "T", obj["title"])
	assert.Equal(t, []any{"a", "b"}, obj["tags"])
}

func TestObjectMultilineStrings(t *testing.T) {
	raw := "{\"title\": \"T\",\n  \"content\": \"line one\nline two\"}"

	obj, err := Object(raw)
	require.NoError(t, err)
	assert.Equal(t, "line one line two", obj["content"])
}

func TestObjectSecondPassSmartQuotes(t *testing.T) {
	raw := "{\"title\": \u201cCurly\u201d}"

	obj, err := Object(raw)
	require.NoError(t, err)
	assert.Equal(t, "Curly", obj["title"])
}

func TestObjectSecondPassStrayBackslash(t *testing.T) {
	raw := `{"path": "C:\dogs\photos"}`

	obj, err := Object(raw)
	require.NoError(t, err)
	assert.Equal(t, `C:\dogs\photos`, obj["path"])
}

func TestObjectUnrepairable(t *testing.T) {
	raw := `some prose { "title": } more prose`

	_, err := Object(raw)
	var malformed *MalformedPayloadError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, raw, malformed.Raw)
}

func TestRecordMissingField(t *testing.T) {
	raw := `{"title":"X","content":"Y","tags":["a"],"slug":"x"}`

	_, err := Record(raw, content.BlogPost)
	var missing *MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "summary", missing.Field)
	assert.Equal(t, "blog_post", missing.Kind)
}

func TestRecordEmptyValuesCountAsMissing(t *testing.T) {
	cases := map[string]string{
		"empty string": `{"title":"","content":"Y","tags":["a"],"summary":"Z","slug":"x"}`,
		"empty array":  `{"title":"X","content":"Y","tags":[],"summary":"Z","slug":"x"}`,
		"null value":   `{"title":"X","content":null,"tags":["a"],"summary":"Z","slug":"x"}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Record(raw, content.BlogPost)
			var missing *MissingFieldError
			require.ErrorAs(t, err, &missing)
		})
	}
}

func TestRecordListRenderedAsStringNotCoerced(t *testing.T) {
	// A list field the model flattened into a string still validates as
	// present; downstream consumers decide what to do with the shape.
	raw := `{"title":"X","content":"Y","tags":"a, b, c","summary":"Z","slug":"x"}`

	obj, err := Record(raw, content.BlogPost)
	require.NoError(t, err)
	assert.Equal(t, "a, b, c", obj["tags"])
}

func TestObjectNeverReturnsPartial(t *testing.T) {
	inputs := []string{
		"",
		"{",
		"}",
		"}{",
		"{{{",
		`{"a": [1, 2}`,
	}
	for _, raw := range inputs {
		obj, err := Object(raw)
		if err == nil {
			t.Fatalf("expected error for %q", raw)
		}
		assert.Nil(t, obj, "input %q", raw)
	}
}

func TestErrorsAreDistinguishable(t *testing.T) {
	_, errNoJSON := Object("nothing here")
	_, errMalformed := Object(`{"broken": }`)

	assert.True(t, errors.Is(errNoJSON, ErrNoJSON))
	var malformed *MalformedPayloadError
	assert.True(t, errors.As(errMalformed, &malformed))
	assert.False(t, errors.Is(errMalformed, ErrNoJSON))
}
