// Package topic picks a default category and topic for a day so an idea can
// be drafted without user input.
package topic

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"tableflip.dev/propertease/pkg/calendar"
	"tableflip.dev/propertease/pkg/record"
)

// ErrNoTopics is returned when a category has no topics to rotate through.
var ErrNoTopics = errors.New("topic: no topics for category")

// Scheduler holds the weekday table, the topic rotation per category and the
// thumbnail per category.
type Scheduler struct {
	Weekdays [7]record.Category
	Topics   map[record.Category][]string
	Thumbs   map[record.Category]string
}

// Default returns the built-in tables.
func Default() *Scheduler {
	topics := make(map[record.Category][]string, len(defaultTopics))
	for c, list := range defaultTopics {
		topics[c] = append([]string(nil), list...)
	}
	return &Scheduler{
		Weekdays: defaultWeekdays,
		Topics:   topics,
		Thumbs:   map[record.Category]string{},
	}
}

// CategoryFor returns the default category for the weekday.
func (s *Scheduler) CategoryFor(day time.Weekday) record.Category {
	return s.Weekdays[int(day)%7]
}

// PickTopic rotates through the category's topics by day of month: day 1
// takes the first topic, and the rotation wraps after the last one.
func (s *Scheduler) PickTopic(category record.Category, dayOfMonth int) (string, error) {
	topics := s.Topics[category]
	if len(topics) == 0 {
		return "", fmt.Errorf("%w %q", ErrNoTopics, category)
	}
	n := len(topics)
	i := ((dayOfMonth-1)%n + n) % n
	return topics[i], nil
}

// SynthesizeIdea drafts a multi-line idea stub for the day: the picked topic
// followed by a fixed bullet skeleton.
func (s *Scheduler) SynthesizeIdea(category record.Category, day calendar.DayKey) (string, error) {
	t, err := s.PickTopic(category, day.Day())
	if err != nil {
		return "", err
	}
	lines := []string{
		t,
		"- Hook: name the problem the reader has right now",
		"- Point 1: ",
		"- Point 2: ",
		"- Point 3: ",
		"- Takeaway: one action the reader can take today",
		fmt.Sprintf("(%s · %s)", category, day.Time().Format("Mon, Jan 2")),
	}
	return strings.Join(lines, "\n"), nil
}

// ThumbnailFor returns the representative image reference for a category.
func (s *Scheduler) ThumbnailFor(category record.Category) string {
	if thumb, ok := s.Thumbs[category]; ok && thumb != "" {
		return thumb
	}
	return "thumbs/" + category.Slug() + ".png"
}

// Sunday first. FAQs is left for manual selection.
var defaultWeekdays = [7]record.Category{
	time.Sunday:    record.OFWGuide,
	time.Monday:    record.BuyerTips,
	time.Tuesday:   record.LoanAndFinancing,
	time.Wednesday: record.MarketInsight,
	time.Thursday:  record.ScamsToAvoid,
	time.Friday:    record.CondoLiving,
	time.Saturday:  record.InvestingBasics,
}

var defaultTopics = map[record.Category][]string{
	record.BuyerTips: {
		"5 questions to ask before paying a reservation fee",
		"Pre-selling vs ready-for-occupancy: which fits you",
		"How to read a computation sheet line by line",
		"What to check during a unit turnover inspection",
		"Hidden costs first-time buyers forget to budget",
		"How to compare two developers side by side",
	},
	record.LoanAndFinancing: {
		"Bank loan vs Pag-IBIG vs in-house financing",
		"How your debt-to-income ratio affects approval",
		"Fixed vs variable rates explained simply",
		"Documents to prepare before a housing loan",
		"What happens when you pay down principal early",
	},
	record.MarketInsight: {
		"Where prices are moving this quarter",
		"Why rental yields differ between cities",
		"Reading supply pipelines before you buy",
		"How interest rate changes reach property prices",
		"Infrastructure projects that shift demand",
		"Office vacancy and what it means for condos",
		"Resale vs new inventory: where the deals are",
	},
	record.ScamsToAvoid: {
		"Red flags in too-good-to-be-true listings",
		"Fake titles and how to verify with the Registry of Deeds",
		"Agents asking for payment to personal accounts",
		"Double-sale schemes and how to protect yourself",
	},
	record.CondoLiving: {
		"What association dues actually pay for",
		"House rules worth reading before you move in",
		"Making a small unit feel bigger",
		"Parking slots: buy, rent or skip",
		"Noise, pets and neighbors: living well in a tower",
		"Preparing your unit for typhoon season",
	},
	record.OFWGuide: {
		"Buying property while working abroad",
		"Special power of attorney: what it covers",
		"Remittance planning for monthly amortization",
		"Checking construction progress from overseas",
		"Renting out your unit while you are away",
	},
	record.InvestingBasics: {
		"Cash flow vs appreciation: know your goal",
		"Computing gross and net rental yield",
		"When a second property makes sense",
		"Vacancy, repairs and the true cost of ownership",
		"Diversifying across locations and unit types",
		"Exit strategies before you buy",
	},
	record.FAQs: {
		"Can I back out after signing a reservation?",
		"What is the difference between a title and a deed?",
		"Who pays transfer fees and taxes?",
		"How long does turnover usually take?",
		"Can foreigners own a condominium unit?",
	},
}
