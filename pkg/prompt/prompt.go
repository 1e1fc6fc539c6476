// Package prompt expands a day's idea into an image-generation prompt.
package prompt

import (
	"fmt"
	"strings"

	"tableflip.dev/propertease/pkg/record"
)

// DefaultStylePack is used when no style pack is configured.
const DefaultStylePack = "Clean Editorial"

// fallbackCategory fills the category line when none is given.
const fallbackCategory = "Education"

// Request carries everything Compose reads.
type Request struct {
	Idea         string
	Category     record.Category
	StylePack    string
	AllowProject bool
}

// StylePacks lists the style packs offered to users. Compose treats the
// value as opaque text, so unknown packs are passed through.
func StylePacks() []string {
	return []string{
		DefaultStylePack,
		"Luxury Minimal",
		"Bold Infographic",
		"Warm Lifestyle",
		"Dark Premium",
	}
}

// Compose builds the prompt text. Equal requests always produce identical
// output; the trailing "Content idea" line is present only when the trimmed
// idea is non-empty.
func Compose(r Request) string {
	category := strings.TrimSpace(string(r.Category))
	if category == "" {
		category = fallbackCategory
	}

	project := "Do not mention projects unless explicitly required."
	if r.AllowProject {
		project = "Project mention allowed if it strengthens the lesson."
	}

	lines := []string{
		"Create a premium social media visual for a real estate educational post.",
		"Tone: authoritative, clear, modern, non-salesy.",
		fmt.Sprintf("Category: %s.", category),
		fmt.Sprintf("Style pack: %s.", r.StylePack),
		project,
		"Composition: modern editorial layout, strong hierarchy, clean spacing, readable typography.",
		"Include: headline, 3 to 5 concise bullets, small footer for branding.",
		"Format: 4:5 ratio, high resolution.",
		"Negative: clutter, dated templates, cheesy gradients, low contrast, generic stock look.",
	}
	if idea := strings.TrimSpace(r.Idea); idea != "" {
		lines = append(lines, "Content idea: "+idea)
	}
	return strings.Join(lines, "\n")
}
