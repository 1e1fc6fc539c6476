package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"tableflip.dev/propertease/pkg/calendar"
	"tableflip.dev/propertease/pkg/prompt"
	"tableflip.dev/propertease/pkg/record"
)

var (
	// ErrBusy is returned when a command starts while another one is running.
	ErrBusy = errors.New("app: session busy")
	// ErrNoSelection is returned by day commands when no day is selected.
	ErrNoSelection = errors.New("app: no day selected")
	// ErrNotOpen is returned before Open succeeded.
	ErrNotOpen = errors.New("app: session not open")
)

// Session owns the active month and the editor buffers of the selected day.
// Edits to the buffers reach the month only through Sync, which Save and
// every navigation call first.
type Session struct {
	svc *Service

	mu       sync.Mutex
	open     bool
	month    calendar.MonthKey
	data     record.MonthSet
	selected calendar.DayKey
	category record.Category
	idea     string
	prompt   string
}

// NewSession creates a session over svc. Call Open before anything else.
func NewSession(svc *Service) *Session {
	return &Session{
		svc:      svc,
		category: svc.Settings.withDefaults().Category,
	}
}

func (s *Session) acquire() error {
	if !s.mu.TryLock() {
		return ErrBusy
	}
	return nil
}

func (s *Session) acquireOpen() error {
	if err := s.acquire(); err != nil {
		return err
	}
	if !s.open {
		s.mu.Unlock()
		return ErrNotOpen
	}
	return nil
}

// Open loads month, or the last saved month when month is empty.
func (s *Session) Open(ctx context.Context, month calendar.MonthKey) error {
	if err := s.acquire(); err != nil {
		return err
	}
	defer s.mu.Unlock()
	if s.svc.Persistence == nil {
		return errNoPersistence
	}
	if month == "" {
		month = s.svc.Persistence.LastMonthOrNow(ctx, s.svc.now())
	}
	if err := s.load(ctx, month); err != nil {
		return err
	}
	s.open = true
	return nil
}

func (s *Session) load(ctx context.Context, month calendar.MonthKey) error {
	if err := month.Validate(); err != nil {
		return err
	}
	data, err := s.svc.Persistence.LoadMonth(ctx, month)
	if err != nil {
		return err
	}
	s.month = month
	s.data = data
	s.clearSelection()
	return nil
}

func (s *Session) clearSelection() {
	s.selected = ""
	s.idea = ""
	s.prompt = ""
}

// Month returns the active month.
func (s *Session) Month() calendar.MonthKey {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.month
}

// Selected returns the selected day, or "" when none is selected.
func (s *Session) Selected() calendar.DayKey {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// Category returns the currently selected category.
func (s *Session) Category() record.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.category
}

// Records returns a copy of the active month's records.
func (s *Session) Records() record.MonthSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Clone()
}

// Editor returns the idea and prompt buffers of the selected day.
func (s *Session) Editor() (idea, prompt string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.idea, s.prompt
}

// DayCell is a grid cell decorated with its record and view state.
type DayCell struct {
	calendar.Cell
	Record   *record.DayRecord `json:"record,omitempty"`
	Today    bool              `json:"today,omitempty"`
	Selected bool              `json:"selected,omitempty"`
}

// Grid returns the 42 cells of the active month. Records are attached for
// days of the active month only.
func (s *Session) Grid() []DayCell {
	s.mu.Lock()
	defer s.mu.Unlock()
	return decorate(s.month, s.data, s.selected, calendar.DayKeyOf(s.svc.now()))
}

func decorate(month calendar.MonthKey, data record.MonthSet, selected, today calendar.DayKey) []DayCell {
	cells := month.Grid()
	out := make([]DayCell, len(cells))
	for i, c := range cells {
		dc := DayCell{Cell: c, Today: c.Key == today, Selected: c.Key == selected}
		if !c.Dim {
			if r := data[c.Key]; r != nil {
				dc.Record = r.Clone()
			}
		}
		out[i] = dc
	}
	return out
}

// MonthGrid decorates month with its stored records without a session.
func (s *Service) MonthGrid(ctx context.Context, month calendar.MonthKey) ([]DayCell, error) {
	data, err := s.Month(ctx, month)
	if err != nil {
		return nil, err
	}
	return decorate(month, data, "", calendar.DayKeyOf(s.now())), nil
}

// SelectDay syncs the current editor, then selects day, materializing its
// record and loading it into the editor buffers. The day must belong to the
// active month.
func (s *Session) SelectDay(day calendar.DayKey) (*record.DayRecord, error) {
	if err := s.acquireOpen(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()
	return s.selectDay(day)
}

func (s *Session) selectDay(day calendar.DayKey) (*record.DayRecord, error) {
	if err := day.Validate(); err != nil {
		return nil, err
	}
	if day.Month() != s.month {
		return nil, fmt.Errorf("%w: %s is not in %s", calendar.ErrInvalidDayKey, day, s.month)
	}
	s.sync()
	r := s.data.Materialize(day, s.category)
	s.selected = day
	s.idea = r.Idea
	s.prompt = r.Prompt
	return r.Clone(), nil
}

// EditIdea replaces the idea buffer.
func (s *Session) EditIdea(text string) error {
	if err := s.acquireOpen(); err != nil {
		return err
	}
	defer s.mu.Unlock()
	if s.selected == "" {
		return ErrNoSelection
	}
	s.idea = text
	return nil
}

// EditPrompt replaces the prompt buffer.
func (s *Session) EditPrompt(text string) error {
	if err := s.acquireOpen(); err != nil {
		return err
	}
	defer s.mu.Unlock()
	if s.selected == "" {
		return ErrNoSelection
	}
	s.prompt = text
	return nil
}

// SetCategory changes the selected category and applies it to the selected
// day when there is one.
func (s *Session) SetCategory(c record.Category) error {
	if err := s.acquire(); err != nil {
		return err
	}
	defer s.mu.Unlock()
	c, err := record.ParseCategory(string(c))
	if err != nil {
		return err
	}
	s.category = c
	if r := s.data[s.selected]; s.selected != "" && r != nil {
		r.Category = c
	}
	return nil
}

// SetStatus sets the status of the selected day.
func (s *Session) SetStatus(st record.Status) error {
	return s.withSelected(func(r *record.DayRecord) error {
		parsed, err := record.ParseStatus(string(st))
		if err != nil {
			return err
		}
		r.Status = parsed
		return nil
	})
}

// SetTitle sets an explicit title on the selected day. An empty title falls
// back to the derived one.
func (s *Session) SetTitle(title string) error {
	return s.withSelected(func(r *record.DayRecord) error {
		r.Title = title
		return nil
	})
}

func (s *Session) withSelected(fn func(*record.DayRecord) error) error {
	if err := s.acquireOpen(); err != nil {
		return err
	}
	defer s.mu.Unlock()
	if s.selected == "" {
		return ErrNoSelection
	}
	return fn(s.data.Materialize(s.selected, s.category))
}

// Generate composes a prompt for the selected day from the idea buffer and
// stores both on the record.
func (s *Session) Generate() (string, error) {
	if err := s.acquireOpen(); err != nil {
		return "", err
	}
	defer s.mu.Unlock()
	if s.selected == "" {
		return "", ErrNoSelection
	}
	r := s.data.Materialize(s.selected, s.category)
	r.Idea = s.idea
	category := r.Category
	if category == "" {
		category = s.category
	}
	settings := s.svc.Settings.withDefaults()
	out := prompt.Compose(settings.Request(s.idea, category))
	r.Prompt = out
	s.prompt = out
	return out, nil
}

// Sync copies the editor buffers into the selected day's record.
func (s *Session) Sync() error {
	if err := s.acquireOpen(); err != nil {
		return err
	}
	defer s.mu.Unlock()
	s.sync()
	return nil
}

func (s *Session) sync() {
	if s.selected == "" {
		return
	}
	r := s.data.Materialize(s.selected, s.category)
	r.Idea = s.idea
	r.Prompt = s.prompt
	r.Category = s.category
}

// Save syncs the editor and persists the active month.
func (s *Session) Save(ctx context.Context) error {
	if err := s.acquireOpen(); err != nil {
		return err
	}
	defer s.mu.Unlock()
	return s.save(ctx)
}

func (s *Session) save(ctx context.Context) error {
	s.sync()
	if err := s.svc.Persistence.SaveMonth(ctx, s.month, s.data); err != nil {
		return err
	}
	s.svc.log().Debug("month saved", zap.String("month", string(s.month)), zap.Int("days", len(s.data)))
	return nil
}

// navigate saves the departing month and loads target.
func (s *Session) navigate(ctx context.Context, target calendar.MonthKey) error {
	if err := target.Validate(); err != nil {
		return err
	}
	if err := s.save(ctx); err != nil {
		return err
	}
	return s.load(ctx, target)
}

// ShiftMonth saves and moves delta months away.
func (s *Session) ShiftMonth(ctx context.Context, delta int) error {
	if err := s.acquireOpen(); err != nil {
		return err
	}
	defer s.mu.Unlock()
	return s.navigate(ctx, s.month.Shift(delta))
}

// PickMonth saves and switches to month.
func (s *Session) PickMonth(ctx context.Context, month calendar.MonthKey) error {
	if err := s.acquireOpen(); err != nil {
		return err
	}
	defer s.mu.Unlock()
	return s.navigate(ctx, month)
}

// JumpToday switches to the current month when needed and selects today.
func (s *Session) JumpToday(ctx context.Context) (*record.DayRecord, error) {
	if err := s.acquireOpen(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()
	now := s.svc.now()
	if month := calendar.MonthKeyOf(now); month != s.month {
		if err := s.navigate(ctx, month); err != nil {
			return nil, err
		}
	}
	return s.selectDay(calendar.DayKeyOf(now))
}

// RunAutoSchedule saves the active month, runs the batch over it and the
// next month, then reloads the active month.
func (s *Session) RunAutoSchedule(ctx context.Context, confirmed, overwrite bool) (Report, error) {
	if err := s.acquireOpen(); err != nil {
		return Report{}, err
	}
	defer s.mu.Unlock()
	if !confirmed {
		return Report{Aborted: true}, nil
	}
	if err := s.save(ctx); err != nil {
		return Report{}, err
	}
	report, runErr := s.svc.AutoSchedule(ctx, s.month, true, overwrite)

	selected := s.selected
	if err := s.load(ctx, s.month); err != nil {
		return report, errors.Join(runErr, err)
	}
	if selected != "" {
		if _, err := s.selectDay(selected); err != nil {
			return report, errors.Join(runErr, err)
		}
	}
	return report, runErr
}

// ConfirmFunc asks the user a yes/no question.
type ConfirmFunc func(question string) (bool, error)

// AlwaysYes confirms everything.
func AlwaysYes(string) (bool, error) { return true, nil }

// ConfirmAutoSchedule walks the two gates of an auto-schedule run: whether to
// run at all and whether to overwrite days that already have content.
func ConfirmAutoSchedule(confirm ConfirmFunc, month calendar.MonthKey) (confirmed, overwrite bool, err error) {
	next := month.Shift(1)
	confirmed, err = confirm(fmt.Sprintf("Auto-schedule %s and %s", month.Label(), next.Label()))
	if err != nil || !confirmed {
		return false, false, err
	}
	overwrite, err = confirm("Overwrite days that already have content")
	if err != nil {
		return false, false, err
	}
	return true, overwrite, nil
}
