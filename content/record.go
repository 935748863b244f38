package content

import (
	"regexp"
	"strings"
)

// MediaSource records where a record's image came from.
type MediaSource string

const (
	// MediaEnriched means the image was fetched from the dog image API.
	MediaEnriched MediaSource = "enriched"
	// MediaFallback means the image fetch failed and the default placeholder was used.
	MediaFallback MediaSource = "fallback"
)

// DefaultImageURL is used when image enrichment fails. The front end ships
// this placeholder as a static asset.
const DefaultImageURL = "/images/dog-placeholder.jpg"

// Record is the canonical structured output of one successful generation.
// The id is assigned before persistence and never changes.
type Record struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Slug        string         `json:"slug"`
	Summary     string         `json:"summary,omitempty"`
	Body        string         `json:"content,omitempty"`
	Tags        []string       `json:"tags,omitempty"`
	Image       string         `json:"image,omitempty"`
	ImageSource MediaSource    `json:"imageSource,omitempty"`
	CreatedAt   int64          `json:"timestamp"`
	Extra       map[string]any `json:"extra,omitempty"`
}

var (
	nonWordRe       = regexp.MustCompile(`[^\w\s-]`)
	whitespaceRe    = regexp.MustCompile(`\s+`)
	multiHyphenRe   = regexp.MustCompile(`-+`)
	edgeHyphenTrims = "-"
)

// Slugify converts a topic or title into a URL-friendly id. It is pure and
// deterministic: the same input always yields the same slug.
func Slugify(title string) string {
	s := strings.ToLower(title)
	s = nonWordRe.ReplaceAllString(s, "")
	s = whitespaceRe.ReplaceAllString(strings.TrimSpace(s), "-")
	s = multiHyphenRe.ReplaceAllString(s, "-")
	return strings.Trim(s, edgeHyphenTrims)
}
