package genai

import (
	"context"
	"fmt"
	"strings"
)

// Mock is a placeholder Completer for local runs without an API key. It
// answers with a blog-shaped JSON object wrapped in a little prose, which
// conveniently exercises the extractor the same way the real model does.
type Mock struct{}

func (Mock) Complete(_ context.Context, prompt string, _ Options) (string, error) {
	topic := "dogs"
	if i := strings.Index(prompt, "about "); i >= 0 {
		rest := prompt[i+len("about "):]
		if j := strings.Index(rest, " with this structure"); j > 0 {
			topic = rest[:j]
		}
	}
	return fmt.Sprintf(`Sure, here is your JSON:
{
  "title": "A Sample Article About %[1]s",
  "slug": "a-sample-article-about-%[2]s",
  "summary": "A generated placeholder summary about %[1]s.",
  "content": "## Overview\n\nPlaceholder body text about %[1]s.",
  "tags": ["dogs", "placeholder"],
  "facts": ["Dogs have wet noses.", "Dogs dream like people do."],
  "explanation": "Placeholder explanation.",
  "additionalInfo": ["Placeholder point."],
  "relatedFacts": ["Placeholder related fact."],
  "description": "Placeholder breed description.",
  "characteristics": ["friendly"],
  "temperament": ["calm"],
  "care": ["daily walks"],
  "history": "Placeholder history."
}
Hope that helps!`, topic, strings.ReplaceAll(strings.ToLower(topic), " ", "-")), nil
}
