// Package record defines the per-day planning record and its enumerations.
package record

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownCategory is returned by ParseCategory for unknown names.
	ErrUnknownCategory = errors.New("record: unknown category")
	// ErrUnknownStatus is returned by ParseStatus for unknown names.
	ErrUnknownStatus = errors.New("record: unknown status")
)

// Category is the marketing content category assigned to a day.
type Category string

const (
	BuyerTips        Category = "Buyer Tips"
	LoanAndFinancing Category = "Loan and Financing"
	MarketInsight    Category = "Market Insight"
	ScamsToAvoid     Category = "Scams to Avoid"
	CondoLiving      Category = "Condo Living"
	OFWGuide         Category = "OFW Guide"
	InvestingBasics  Category = "Investing Basics"
	FAQs             Category = "FAQs"
)

// DefaultCategory is the category selected when nothing else is configured.
const DefaultCategory = BuyerTips

// AllCategories returns the categories in display order.
func AllCategories() []Category {
	return []Category{
		BuyerTips,
		LoanAndFinancing,
		MarketInsight,
		ScamsToAvoid,
		CondoLiving,
		OFWGuide,
		InvestingBasics,
		FAQs,
	}
}

// ParseCategory matches raw against the known categories, ignoring case and
// surrounding space. Slugs such as "buyer-tips" are accepted too.
func ParseCategory(raw string) (Category, error) {
	needle := strings.TrimSpace(raw)
	for _, c := range AllCategories() {
		if strings.EqualFold(string(c), needle) || c.Slug() == strings.ToLower(needle) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w %q", ErrUnknownCategory, raw)
}

// Slug returns a lower-case, dash separated form used in file names.
func (c Category) Slug() string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(string(c))), " ", "-")
}

func (c Category) String() string { return string(c) }

// Status tracks the publishing state of a day.
type Status string

const (
	StatusDraft  Status = "draft"
	StatusReady  Status = "ready"
	StatusPosted Status = "posted"
)

// AllStatuses returns the statuses in workflow order.
func AllStatuses() []Status {
	return []Status{StatusDraft, StatusReady, StatusPosted}
}

// ParseStatus converts a string to a Status.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	for _, candidate := range AllStatuses() {
		if candidate == s {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w %q", ErrUnknownStatus, raw)
}

func (s Status) String() string { return string(s) }
