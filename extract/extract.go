// Package extract turns untrusted generative-model output into validated
// record objects. The model is asked for bare JSON but tends to wrap it in
// prose or markdown fences, so extraction slices out the object and repairs
// the most common damage before a strict parse. The result is all-or-nothing:
// a fully validated object or a typed failure, never a partial record.
package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"pawpedia/content"
)

// ErrNoJSON is returned when the raw text contains no brace-delimited object.
var ErrNoJSON = errors.New("no JSON object found in response")

// MalformedPayloadError is returned when the sliced object still fails to
// parse after all repair passes. Raw carries the original model output for
// diagnostics.
type MalformedPayloadError struct {
	Raw string
	Err error
}

func (e *MalformedPayloadError) Error() string {
	return fmt.Sprintf("malformed payload: %v", e.Err)
}

func (e *MalformedPayloadError) Unwrap() error { return e.Err }

// MissingFieldError is returned when a parsed object lacks a mandatory field.
type MissingFieldError struct {
	Field string
	Kind  string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s record missing mandatory field %q", e.Kind, e.Field)
}

// pass is one named normalization step. Each pass is a pure string transform
// so it can be tested in isolation.
type pass struct {
	name  string
	apply func(string) string
}

var (
	newlineRunRe      = regexp.MustCompile(`\n\s*`)
	controlRe         = regexp.MustCompile("[\x00-\x08\x0b\x0c\x0e-\x1f]")
	trailingCommaRe   = regexp.MustCompile(`,\s*([\]}])`)
	strayBackslashRe  = regexp.MustCompile(`\\([^"\\/bfnrtu])`)
	fencedArtifactRe  = regexp.MustCompile("`{3,}(?:json)?")
	smartQuoteReplace = strings.NewReplacer("“", `"`, "”", `"`, "‘", "'", "’", "'")
)

// firstPass runs on every extraction before the initial parse attempt.
var firstPass = []pass{
	{"strip_fences", func(s string) string {
		return fencedArtifactRe.ReplaceAllString(s, "")
	}},
	{"collapse_whitespace", func(s string) string {
		s = controlRe.ReplaceAllString(s, " ")
		return newlineRunRe.ReplaceAllString(s, " ")
	}},
	{"strip_trailing_commas", func(s string) string {
		return trailingCommaRe.ReplaceAllString(s, "$1")
	}},
}

// secondPass runs exactly once more if the first parse fails. These repairs
// are more aggressive and can themselves corrupt valid JSON, which is why
// they only apply after a failed strict parse.
var secondPass = []pass{
	{"normalize_quotes", smartQuoteReplace.Replace},
	{"escape_stray_backslashes", func(s string) string {
		return strayBackslashRe.ReplaceAllString(s, `\\$1`)
	}},
}

// sliceBraces cuts the substring from the first '{' to the last '}'.
func sliceBraces(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return s[start : end+1], true
}

func runPasses(s string, passes []pass) string {
	for _, p := range passes {
		s = p.apply(s)
	}
	return strings.TrimSpace(s)
}

// Object extracts a JSON object from raw model output. It never returns a
// partially decoded value: on any failure the returned map is nil and the
// error identifies what went wrong.
func Object(raw string) (map[string]any, error) {
	sliced, ok := sliceBraces(raw)
	if !ok {
		return nil, ErrNoJSON
	}

	cleaned := runPasses(sliced, firstPass)
	var obj map[string]any
	err := json.Unmarshal([]byte(cleaned), &obj)
	if err == nil {
		return obj, nil
	}

	repaired := runPasses(cleaned, secondPass)
	obj = nil
	if err2 := json.Unmarshal([]byte(repaired), &obj); err2 == nil {
		return obj, nil
	}
	return nil, &MalformedPayloadError{Raw: raw, Err: err}
}

// Record extracts an object and validates it against the schema's mandatory
// fields. Arrays the model rendered as plain strings are not coerced; a
// mandatory list field that parsed as anything empty fails validation.
func Record(raw string, schema content.Schema) (map[string]any, error) {
	obj, err := Object(raw)
	if err != nil {
		return nil, err
	}
	for _, name := range schema.Mandatory() {
		if !present(obj[name]) {
			return nil, &MissingFieldError{Field: name, Kind: schema.Kind}
		}
	}
	return obj, nil
}

func present(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(t) != ""
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	default:
		return true
	}
}
