package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"tableflip.dev/propertease/pkg/calendar"
	"tableflip.dev/propertease/pkg/prompt"
	"tableflip.dev/propertease/pkg/record"
	"tableflip.dev/propertease/pkg/store"
	"tableflip.dev/propertease/pkg/topic"
)

// AutoSchedule fills the active month and the one after it with synthesized
// ideas and prompts.
type AutoSchedule struct {
	Persistence store.Persistence
	Scheduler   *topic.Scheduler
	Settings    Settings
	Logger      *zap.Logger
}

// MonthReport is the outcome for one target month.
type MonthReport struct {
	Month   calendar.MonthKey `json:"month"`
	Filled  int               `json:"filled"`
	Skipped int               `json:"skipped"`
	Failed  int               `json:"failed"`
	Err     error             `json:"-"`
}

// Report summarizes a batch run.
type Report struct {
	Aborted   bool          `json:"aborted"`
	Overwrite bool          `json:"overwrite"`
	Months    []MonthReport `json:"months"`
}

// Filled is the number of days written across all months.
func (r Report) Filled() int {
	n := 0
	for _, m := range r.Months {
		n += m.Filled
	}
	return n
}

// Run executes the batch. Without confirmation nothing is read or written.
// A month that fails to load or persist does not stop the other month; the
// returned error joins every month failure.
func (b *AutoSchedule) Run(ctx context.Context, active calendar.MonthKey, confirmed, overwrite bool) (Report, error) {
	if !confirmed {
		return Report{Aborted: true}, nil
	}
	if err := active.Validate(); err != nil {
		return Report{}, err
	}
	if b.Persistence == nil {
		return Report{}, errNoPersistence
	}
	// Once the first month starts the batch runs to completion.
	if err := ctx.Err(); err != nil {
		return Report{Aborted: true}, err
	}
	ctx = context.WithoutCancel(ctx)

	log := b.Logger
	if log == nil {
		log = zap.NewNop()
	}
	sched := b.Scheduler
	if sched == nil {
		sched = topic.Default()
	}
	settings := b.Settings.withDefaults()

	report := Report{Overwrite: overwrite}
	var errs []error
	for i, month := range []calendar.MonthKey{active, active.Shift(1)} {
		mr := b.fillMonth(ctx, log, sched, settings, month, overwrite, i == 0)
		if mr.Err != nil {
			errs = append(errs, mr.Err)
			log.Error("auto-schedule month failed", zap.String("month", string(month)), zap.Error(mr.Err))
		} else {
			log.Info("auto-schedule month done",
				zap.String("month", string(month)),
				zap.Int("filled", mr.Filled),
				zap.Int("skipped", mr.Skipped),
				zap.Int("failed", mr.Failed))
		}
		report.Months = append(report.Months, mr)
	}
	return report, errors.Join(errs...)
}

func (b *AutoSchedule) fillMonth(ctx context.Context, log *zap.Logger, sched *topic.Scheduler, settings Settings, month calendar.MonthKey, overwrite, isActive bool) MonthReport {
	mr := MonthReport{Month: month}

	set, err := b.Persistence.LoadMonth(ctx, month)
	if err != nil {
		mr.Err = fmt.Errorf("load %s: %w", month, err)
		return mr
	}

	for d := 1; d <= month.DaysIn(); d++ {
		day := month.Day(d)
		existing := set[day]
		if !overwrite && !existing.IsEmpty() {
			mr.Skipped++
			continue
		}
		if err := fillDay(set, day, sched, settings); err != nil {
			mr.Failed++
			log.Warn("auto-schedule day failed", zap.String("day", string(day)), zap.Error(err))
			continue
		}
		mr.Filled++
	}

	// Only the month the user is looking at moves the last-month pointer.
	if isActive {
		err = b.Persistence.SaveMonth(ctx, month, set)
	} else {
		err = b.Persistence.StoreMonth(ctx, month, set)
	}
	if err != nil {
		mr.Err = fmt.Errorf("save %s: %w", month, err)
	}
	return mr
}

// fillDay overwrites the generated fields of day and keeps everything else.
func fillDay(set record.MonthSet, day calendar.DayKey, sched *topic.Scheduler, settings Settings) error {
	category := sched.CategoryFor(day.Weekday())
	idea, err := sched.SynthesizeIdea(category, day)
	if err != nil {
		return err
	}
	r := set[day]
	if r == nil {
		r = record.New(category)
		set[day] = r
	}
	r.Idea = idea
	r.Title = record.DeriveTitle(idea)
	r.Thumb = sched.ThumbnailFor(category)
	r.Category = category
	if r.Status == "" {
		r.Status = record.StatusDraft
	}
	r.Prompt = prompt.Compose(settings.Request(idea, category))
	return nil
}
