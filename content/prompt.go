package content

import (
	"fmt"
	"strings"
)

// Prompts instruct the model to answer with bare JSON matching the schema
// shape. The model routinely ignores the "no additional text" part, which is
// why the extractor exists.

// BlogPostPrompt builds the prompt for one blog article.
func BlogPostPrompt(topic string) string {
	return fmt.Sprintf(
		"Generate a valid JSON object for a blog post about %s with this structure (no additional text or formatting):\n%s",
		topic, BlogPost.PromptShape())
}

// FactListPrompt builds the prompt for the one-shot facts listing.
func FactListPrompt(count int) string {
	return fmt.Sprintf(
		"Generate a valid JSON object with %d dog facts with this structure (no additional text or formatting):\n%s",
		count, FactList.PromptShape())
}

// FactDetailsPrompt builds the prompt elaborating on a single fact.
func FactDetailsPrompt(fact string) string {
	return fmt.Sprintf(
		"Generate a valid JSON object about this dog fact: %q with this structure (no additional text or formatting):\n%s",
		fact, FactDetails.PromptShape())
}

// BreedInfoPrompt builds the prompt for one breed entry. subBreed may be empty.
func BreedInfoPrompt(breed, subBreed string) string {
	name := breed
	if subBreed != "" {
		name = strings.TrimSpace(subBreed + " " + breed)
	}
	return fmt.Sprintf(
		"Generate a valid JSON object about the %s dog breed with this structure (no additional text or formatting):\n%s",
		name, BreedInfo.PromptShape())
}
