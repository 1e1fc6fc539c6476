package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"tableflip.dev/propertease/pkg/calendar"
	"tableflip.dev/propertease/pkg/prompt"
	"tableflip.dev/propertease/pkg/record"
	"tableflip.dev/propertease/pkg/store"
	"tableflip.dev/propertease/pkg/topic"
)

var errNoPersistence = errors.New("app: no persistence configured")

// Settings are the user preferences that shape new records and prompts.
type Settings struct {
	// Category is assigned to days materialized by an edit.
	Category     record.Category
	StylePack    string
	AllowProject bool
}

// DefaultSettings mirrors a fresh install.
func DefaultSettings() Settings {
	return Settings{
		Category:  record.DefaultCategory,
		StylePack: prompt.DefaultStylePack,
	}
}

func (s Settings) withDefaults() Settings {
	if s.Category == "" {
		s.Category = record.DefaultCategory
	}
	if s.StylePack == "" {
		s.StylePack = prompt.DefaultStylePack
	}
	return s
}

// Request builds the prompt request for an idea in the given category.
func (s Settings) Request(idea string, category record.Category) prompt.Request {
	return prompt.Request{
		Idea:         idea,
		Category:     category,
		StylePack:    s.StylePack,
		AllowProject: s.AllowProject,
	}
}

// Service provides stateless month and day operations over persistence. The
// CLI and the MCP server share it; Session layers editor state on top.
type Service struct {
	Persistence store.Persistence
	Scheduler   *topic.Scheduler
	Settings    Settings
	Logger      *zap.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) log() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

func (s *Service) scheduler() *topic.Scheduler {
	if s.Scheduler == nil {
		return topic.Default()
	}
	return s.Scheduler
}

// LastMonth returns the month the user last saved, or the current month.
func (s *Service) LastMonth(ctx context.Context) (calendar.MonthKey, error) {
	if s.Persistence == nil {
		return "", errNoPersistence
	}
	return s.Persistence.LastMonthOrNow(ctx, s.now()), nil
}

// Months lists stored months in order.
func (s *Service) Months(ctx context.Context) ([]calendar.MonthKey, error) {
	if s.Persistence == nil {
		return nil, errNoPersistence
	}
	return s.Persistence.Months(ctx), nil
}

// Month loads a month's records.
func (s *Service) Month(ctx context.Context, month calendar.MonthKey) (record.MonthSet, error) {
	if s.Persistence == nil {
		return nil, errNoPersistence
	}
	return s.Persistence.LoadMonth(ctx, month)
}

// Day returns the stored record for day, or nil when the day was never
// materialized.
func (s *Service) Day(ctx context.Context, day calendar.DayKey) (*record.DayRecord, error) {
	if err := day.Validate(); err != nil {
		return nil, err
	}
	set, err := s.Month(ctx, day.Month())
	if err != nil {
		return nil, err
	}
	return set[day], nil
}

// DayUpdate lists the fields to change on a day. Nil fields are left alone.
type DayUpdate struct {
	Idea     *string
	Prompt   *string
	Title    *string
	Thumb    *string
	Category *record.Category
	Status   *record.Status
	// Generate recomposes the prompt from the resulting idea and category.
	Generate bool
}

// Empty reports whether the update changes nothing.
func (u DayUpdate) Empty() bool {
	return u.Idea == nil && u.Prompt == nil && u.Title == nil && u.Thumb == nil &&
		u.Category == nil && u.Status == nil && !u.Generate
}

// UpdateDay materializes day if needed, applies u and saves the month.
func (s *Service) UpdateDay(ctx context.Context, day calendar.DayKey, u DayUpdate) (*record.DayRecord, error) {
	if err := day.Validate(); err != nil {
		return nil, err
	}
	if s.Persistence == nil {
		return nil, errNoPersistence
	}
	month := day.Month()
	set, err := s.Persistence.LoadMonth(ctx, month)
	if err != nil {
		return nil, err
	}
	settings := s.Settings.withDefaults()
	r := set.Materialize(day, settings.Category)
	applyUpdate(r, u, settings)
	if err := s.Persistence.SaveMonth(ctx, month, set); err != nil {
		return nil, err
	}
	s.log().Debug("day updated", zap.String("day", string(day)))
	return r.Clone(), nil
}

func applyUpdate(r *record.DayRecord, u DayUpdate, settings Settings) {
	if u.Idea != nil {
		r.Idea = *u.Idea
	}
	if u.Prompt != nil {
		r.Prompt = *u.Prompt
	}
	if u.Title != nil {
		r.Title = strings.TrimSpace(*u.Title)
	}
	if u.Thumb != nil {
		r.Thumb = *u.Thumb
	}
	if u.Category != nil {
		r.Category = *u.Category
	}
	if u.Status != nil {
		r.Status = *u.Status
	}
	if u.Generate {
		r.Prompt = prompt.Compose(settings.Request(r.Idea, r.Category))
	}
}

// ComposePrompt renders a prompt without touching storage. An empty category
// falls back to the configured one.
func (s *Service) ComposePrompt(idea string, category record.Category) string {
	settings := s.Settings.withDefaults()
	if category == "" {
		category = settings.Category
	}
	return prompt.Compose(settings.Request(idea, category))
}

// AutoSchedule runs the batch generator for active and the following month.
func (s *Service) AutoSchedule(ctx context.Context, active calendar.MonthKey, confirmed, overwrite bool) (Report, error) {
	if s.Persistence == nil {
		return Report{}, errNoPersistence
	}
	b := &AutoSchedule{
		Persistence: s.Persistence,
		Scheduler:   s.scheduler(),
		Settings:    s.Settings,
		Logger:      s.Logger,
	}
	return b.Run(ctx, active, confirmed, overwrite)
}

// Watch subscribes to persistence change events.
func (s *Service) Watch(ctx context.Context) (<-chan store.Event, error) {
	if s.Persistence == nil {
		return nil, errNoPersistence
	}
	return s.Persistence.Watch(ctx)
}

// ParseDay accepts "YYYY-MM-DD" or a bare day number relative to month.
func ParseDay(raw string, month calendar.MonthKey) (calendar.DayKey, error) {
	raw = strings.TrimSpace(raw)
	if d, err := strconv.Atoi(raw); err == nil {
		if d < 1 || d > month.DaysIn() {
			return "", fmt.Errorf("%w: day %d not in %s", calendar.ErrInvalidDayKey, d, month)
		}
		return month.Day(d), nil
	}
	return calendar.ParseDayKey(raw)
}
