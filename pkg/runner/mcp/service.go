// Package mcp provides the Model Context Protocol server integration for
// propertease.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"tableflip.dev/propertease/pkg/app"
	"tableflip.dev/propertease/pkg/calendar"
	"tableflip.dev/propertease/pkg/record"
)

// Service adapts app.Service to transport-friendly DTOs. Mutating calls are
// serialized so that two agents never interleave writes to the same month.
type Service struct {
	App *app.Service

	mu sync.Mutex
}

// NewService wraps the application service.
func NewService(a *app.Service) *Service {
	return &Service{App: a}
}

// DayDTO is a transport-friendly projection of a day record.
type DayDTO struct {
	Date     string `json:"date"`
	Weekday  string `json:"weekday"`
	Planned  bool   `json:"planned"`
	Idea     string `json:"idea,omitempty"`
	Prompt   string `json:"prompt,omitempty"`
	Category string `json:"category,omitempty"`
	Status   string `json:"status,omitempty"`
	Title    string `json:"title,omitempty"`
	Thumb    string `json:"thumb,omitempty"`
}

// CellDTO is one square of the month grid.
type CellDTO struct {
	Date     string `json:"date"`
	Day      int    `json:"day"`
	Dim      bool   `json:"dim,omitempty"`
	Today    bool   `json:"today,omitempty"`
	Category string `json:"category,omitempty"`
	Status   string `json:"status,omitempty"`
	Title    string `json:"title,omitempty"`
}

// MonthDTO holds a month's planned days.
type MonthDTO struct {
	Month string   `json:"month"`
	Label string   `json:"label"`
	Count int      `json:"count"`
	Days  []DayDTO `json:"days"`
}

// MonthSummary describes a stored month with status counts.
type MonthSummary struct {
	Month  string `json:"month"`
	Label  string `json:"label"`
	Days   int    `json:"days"`
	Draft  int    `json:"draft"`
	Ready  int    `json:"ready"`
	Posted int    `json:"posted"`
}

// UpdateDayOptions carries the raw tool arguments of update_day. Nil fields
// are left unchanged.
type UpdateDayOptions struct {
	Date     string
	Idea     *string
	Prompt   *string
	Title    *string
	Category *string
	Status   *string
	Generate bool
}

func toDayDTO(day calendar.DayKey, r *record.DayRecord) DayDTO {
	dto := DayDTO{
		Date:    string(day),
		Weekday: day.Weekday().String(),
	}
	if r == nil {
		return dto
	}
	dto.Planned = true
	dto.Idea = r.Idea
	dto.Prompt = r.Prompt
	dto.Category = string(r.Category)
	dto.Status = string(r.Status)
	dto.Title = r.DisplayTitle()
	dto.Thumb = r.Thumb
	return dto
}

func (s *Service) backend() (*app.Service, error) {
	if s.App == nil || s.App.Persistence == nil {
		return nil, errors.New("persistence is not configured")
	}
	return s.App, nil
}

// resolveMonth parses raw, or returns the last month when raw is empty.
func (s *Service) resolveMonth(ctx context.Context, raw string) (calendar.MonthKey, error) {
	a, err := s.backend()
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(raw) == "" {
		return a.LastMonth(ctx)
	}
	return calendar.ParseMonthKey(strings.TrimSpace(raw))
}

// LastMonth returns the month the user last worked on.
func (s *Service) LastMonth(ctx context.Context) (string, error) {
	mk, err := s.resolveMonth(ctx, "")
	return string(mk), err
}

// ListMonths summarizes every stored month.
func (s *Service) ListMonths(ctx context.Context) ([]MonthSummary, error) {
	a, err := s.backend()
	if err != nil {
		return nil, err
	}
	months, err := a.Months(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]MonthSummary, 0, len(months))
	for _, mk := range months {
		set, err := a.Month(ctx, mk)
		if err != nil {
			return nil, err
		}
		sum := MonthSummary{Month: string(mk), Label: mk.Label(), Days: len(set)}
		for _, r := range set {
			switch r.Status {
			case record.StatusReady:
				sum.Ready++
			case record.StatusPosted:
				sum.Posted++
			default:
				sum.Draft++
			}
		}
		out = append(out, sum)
	}
	return out, nil
}

// LoadMonth returns the planned days of a month in order.
func (s *Service) LoadMonth(ctx context.Context, month string) (MonthDTO, error) {
	mk, err := s.resolveMonth(ctx, month)
	if err != nil {
		return MonthDTO{}, err
	}
	set, err := s.App.Month(ctx, mk)
	if err != nil {
		return MonthDTO{}, err
	}
	days := make([]DayDTO, 0, len(set))
	for _, k := range set.Keys() {
		days = append(days, toDayDTO(k, set[k]))
	}
	return MonthDTO{Month: string(mk), Label: mk.Label(), Count: len(days), Days: days}, nil
}

// MonthGrid returns the 42 decorated cells of a month.
func (s *Service) MonthGrid(ctx context.Context, month string) (string, []CellDTO, error) {
	mk, err := s.resolveMonth(ctx, month)
	if err != nil {
		return "", nil, err
	}
	cells, err := s.App.MonthGrid(ctx, mk)
	if err != nil {
		return "", nil, err
	}
	out := make([]CellDTO, 0, len(cells))
	for _, c := range cells {
		dto := CellDTO{Date: string(c.Key), Day: c.Day, Dim: c.Dim, Today: c.Today}
		if c.Record != nil {
			dto.Category = string(c.Record.Category)
			dto.Status = string(c.Record.Status)
			dto.Title = c.Record.DisplayTitle()
		}
		out = append(out, dto)
	}
	return string(mk), out, nil
}

// GetDay returns a single day; unplanned days report Planned=false.
func (s *Service) GetDay(ctx context.Context, date string) (DayDTO, error) {
	a, err := s.backend()
	if err != nil {
		return DayDTO{}, err
	}
	day, err := calendar.ParseDayKey(strings.TrimSpace(date))
	if err != nil {
		return DayDTO{}, err
	}
	r, err := a.Day(ctx, day)
	if err != nil {
		return DayDTO{}, err
	}
	return toDayDTO(day, r), nil
}

// UpdateDay applies opts to a day, creating it when needed.
func (s *Service) UpdateDay(ctx context.Context, opts UpdateDayOptions) (DayDTO, error) {
	a, err := s.backend()
	if err != nil {
		return DayDTO{}, err
	}
	day, err := calendar.ParseDayKey(strings.TrimSpace(opts.Date))
	if err != nil {
		return DayDTO{}, err
	}
	u := app.DayUpdate{
		Idea:     opts.Idea,
		Prompt:   opts.Prompt,
		Title:    opts.Title,
		Generate: opts.Generate,
	}
	if opts.Category != nil {
		c, err := record.ParseCategory(*opts.Category)
		if err != nil {
			return DayDTO{}, err
		}
		u.Category = &c
	}
	if opts.Status != nil {
		st, err := record.ParseStatus(*opts.Status)
		if err != nil {
			return DayDTO{}, err
		}
		u.Status = &st
	}
	if u.Empty() {
		return DayDTO{}, errors.New("nothing to update")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	r, err := a.UpdateDay(ctx, day, u)
	if err != nil {
		return DayDTO{}, err
	}
	return toDayDTO(day, r), nil
}

// GeneratePrompt recomposes and stores the prompt of a day from its idea.
func (s *Service) GeneratePrompt(ctx context.Context, date string) (DayDTO, error) {
	return s.UpdateDay(ctx, UpdateDayOptions{Date: date, Generate: true})
}

// ComposePrompt renders a prompt without storing anything.
func (s *Service) ComposePrompt(idea, category string) (string, error) {
	a, err := s.backend()
	if err != nil {
		return "", err
	}
	var c record.Category
	if strings.TrimSpace(category) != "" {
		if c, err = record.ParseCategory(category); err != nil {
			return "", err
		}
	}
	return a.ComposePrompt(idea, c), nil
}

// AutoScheduleResult is the transport form of app.Report.
type AutoScheduleResult struct {
	Overwrite bool                `json:"overwrite"`
	Months    []AutoScheduleMonth `json:"months"`
}

// AutoScheduleMonth reports one target month.
type AutoScheduleMonth struct {
	app.MonthReport
	Error string `json:"error,omitempty"`
}

// AutoSchedule runs the batch for month and the month after it. The tool
// call itself is the confirmation.
func (s *Service) AutoSchedule(ctx context.Context, month string, overwrite bool) (AutoScheduleResult, error) {
	mk, err := s.resolveMonth(ctx, month)
	if err != nil {
		return AutoScheduleResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	report, runErr := s.App.AutoSchedule(ctx, mk, true, overwrite)
	out := AutoScheduleResult{Overwrite: overwrite}
	for _, m := range report.Months {
		am := AutoScheduleMonth{MonthReport: m}
		if m.Err != nil {
			am.Error = m.Err.Error()
		}
		out.Months = append(out.Months, am)
	}
	if runErr != nil && len(out.Months) == 0 {
		return out, fmt.Errorf("auto-schedule %s: %w", mk, runErr)
	}
	return out, nil
}
