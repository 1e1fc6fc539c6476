package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"tableflip.dev/propertease/pkg/record"
)

func TestComposeIsDeterministic(t *testing.T) {
	req := Request{
		Idea:         "How to read a reservation agreement",
		Category:     record.BuyerTips,
		StylePack:    "Luxury Minimal",
		AllowProject: true,
	}
	assert.Equal(t, Compose(req), Compose(req))
}

func TestComposeLines(t *testing.T) {
	out := Compose(Request{
		Idea:      "  Closing costs explained \n",
		Category:  record.LoanAndFinancing,
		StylePack: DefaultStylePack,
	})
	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 10)
	assert.Equal(t, "Category: Loan and Financing.", lines[2])
	assert.Equal(t, "Style pack: Clean Editorial.", lines[3])
	assert.Equal(t, "Do not mention projects unless explicitly required.", lines[4])
	assert.Equal(t, "Content idea: Closing costs explained", lines[9])
}

func TestComposeOmitsIdeaLineWhenBlank(t *testing.T) {
	for _, idea := range []string{"", "   ", "\n\t"} {
		out := Compose(Request{Idea: idea, Category: record.FAQs, StylePack: "x"})
		assert.NotContains(t, out, "Content idea:")
		assert.Len(t, strings.Split(out, "\n"), 9)
	}
}

func TestComposeDefaultsCategory(t *testing.T) {
	out := Compose(Request{StylePack: "x", AllowProject: true})
	assert.Contains(t, out, "Category: Education.")
	assert.Contains(t, out, "Project mention allowed if it strengthens the lesson.")
}
