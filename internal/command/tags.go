package command

import "github.com/xcenweb/delin-ocr/internal/tagging"

// Tagger exposes document tag suggestion.
type Tagger struct{}

// NewTagger returns the tags command handler.
func NewTagger() *Tagger {
	return &Tagger{}
}

// SuggestTags classifies recognized text. Falls back to "other".
func (t *Tagger) SuggestTags(text string) []string {
	return tagging.GenerateTags(text, nil)
}

// AllTags lists every known tag id.
func (t *Tagger) AllTags() []string {
	return tagging.AllTags()
}
