package printers

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/propertease/pkg/app"
	"tableflip.dev/propertease/pkg/calendar"
	"tableflip.dev/propertease/pkg/record"
	"tableflip.dev/propertease/pkg/topic"
)

// PrettyPrint writes human readable views of months and days.
type PrettyPrint struct {
	Out io.Writer
}

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out == nil {
		return color.Output
	}
	return pp.Out
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " - %d", count)
	switch count {
	case 1:
		_, _ = c.Fprintln(pp.out(), " day")
	default:
		_, _ = c.Fprintln(pp.out(), " days")
	}
}

var statusColors = map[record.Status]*color.Color{
	record.StatusDraft:  color.New(color.Faint),
	record.StatusReady:  color.New(color.FgYellow, color.Bold),
	record.StatusPosted: color.New(color.FgGreen),
}

func statusText(s record.Status) string {
	if s == "" {
		s = record.StatusDraft
	}
	c, ok := statusColors[s]
	if !ok {
		return string(s)
	}
	return c.Sprint(string(s))
}

// Days lists the materialized days of a month, one row each.
func (pp *PrettyPrint) Days(month calendar.MonthKey, set record.MonthSet) {
	pp.TitleWithCount(month.Label(), len(set))
	if len(set) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Fprint(pp.out(), " none\n\n")
		return
	}

	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 60
	tbl.AddRow(bold.Sprint("Day"), bold.Sprint(""), bold.Sprint("Category"), bold.Sprint("Status"), bold.Sprint("Title"))
	for _, k := range set.Keys() {
		r := set[k]
		tbl.AddRow(k.Day(), k.Weekday().String()[:3], string(r.Category), statusText(r.Status), r.DisplayTitle())
	}
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(pp.out(), tbl)
	_, _ = fmt.Fprintln(pp.out())
}

// Day prints every field of a record. A nil record prints as not planned.
func (pp *PrettyPrint) Day(day calendar.DayKey, r *record.DayRecord) {
	pp.Title(fmt.Sprintf("%s · %s", day, day.Time().Format("Monday")))
	if r == nil {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Fprint(pp.out(), " not planned\n")
		return
	}

	label := color.New(color.Faint)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.Wrap = true
	tbl.MaxColWidth = 80
	tbl.AddRow(label.Sprint("Title"), r.DisplayTitle())
	tbl.AddRow(label.Sprint("Category"), string(r.Category))
	tbl.AddRow(label.Sprint("Status"), statusText(r.Status))
	if r.Thumb != "" {
		tbl.AddRow(label.Sprint("Thumb"), r.Thumb)
	}
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(pp.out(), tbl)

	pp.block("Idea", r.Idea)
	pp.block("Prompt", r.Prompt)
}

func (pp *PrettyPrint) block(name, body string) {
	h := color.New(color.Bold)
	_, _ = h.Fprintf(pp.out(), "\n%s\n", name)
	if strings.TrimSpace(body) == "" {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Fprintln(pp.out(), " empty")
		return
	}
	_, _ = fmt.Fprintln(pp.out(), body)
}

// Prompt prints the prompt text alone, suitable for piping.
func (pp *PrettyPrint) Prompt(text string) {
	_, _ = fmt.Fprintln(pp.out(), text)
}

// AutoScheduleReport summarizes a batch run.
func (pp *PrettyPrint) AutoScheduleReport(r app.Report) {
	if r.Aborted {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Fprintln(pp.out(), "auto-schedule cancelled, nothing changed")
		return
	}
	mode := "fill empty days"
	if r.Overwrite {
		mode = "overwrite"
	}
	pp.Title("Auto-schedule (" + mode + ")")

	bold := color.New(color.Bold)
	red := color.New(color.FgRed)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Month"), bold.Sprint("Filled"), bold.Sprint("Skipped"), bold.Sprint("Failed"), bold.Sprint(""))
	for _, m := range r.Months {
		errText := ""
		if m.Err != nil {
			errText = red.Sprint(m.Err.Error())
		}
		tbl.AddRow(m.Month.Label(), m.Filled, m.Skipped, m.Failed, errText)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
}

// Legend prints the categories with their grid badges and the weekdays they
// are scheduled on, followed by the statuses.
func (pp *PrettyPrint) Legend(s *topic.Scheduler) {
	bold := color.New(color.Bold)
	pp.Title("Categories")
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Badge"), bold.Sprint("Category"), bold.Sprint("Weekday"), bold.Sprint("Topics"))
	for _, c := range record.AllCategories() {
		var days []string
		for wd, wc := range s.Weekdays {
			if wc == c {
				days = append(days, weekdayShort[wd])
			}
		}
		tbl.AddRow(Badge(c), string(c), strings.Join(days, ","), len(s.Topics[c]))
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)

	_, _ = fmt.Fprintln(pp.out())
	pp.Title("Statuses")
	tbl = uitable.New()
	tbl.Separator = "  "
	for _, st := range record.AllStatuses() {
		tbl.AddRow(statusMarks[st], statusText(st))
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
}

var weekdayShort = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

var badges = map[record.Category]string{
	record.BuyerTips:        "BT",
	record.LoanAndFinancing: "LF",
	record.MarketInsight:    "MI",
	record.ScamsToAvoid:     "SA",
	record.CondoLiving:      "CL",
	record.OFWGuide:         "OG",
	record.InvestingBasics:  "IB",
	record.FAQs:             "FQ",
}

// Badge is the two letter code drawn in calendar cells.
func Badge(c record.Category) string {
	if b, ok := badges[c]; ok {
		return b
	}
	if c == "" {
		return "  "
	}
	return "??"
}

var statusMarks = map[record.Status]string{
	record.StatusDraft:  "·",
	record.StatusReady:  "○",
	record.StatusPosted: "●",
}
