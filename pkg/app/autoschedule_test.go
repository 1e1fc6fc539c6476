package app

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/propertease/pkg/calendar"
	"tableflip.dev/propertease/pkg/prompt"
	"tableflip.dev/propertease/pkg/record"
	"tableflip.dev/propertease/pkg/store"
	"tableflip.dev/propertease/pkg/topic"
)

func seededStore(t *testing.T) *store.Memory {
	t.Helper()
	mem := store.NewMemory()
	set := record.MonthSet{}
	r := set.Materialize("2026-01-05", record.BuyerTips)
	r.Idea = "x"
	r.Status = record.StatusPosted
	r.Extra = map[string]json.RawMessage{"pinned": json.RawMessage("true")}
	require.NoError(t, mem.SaveMonth(context.Background(), "2026-01", set))
	return mem
}

func TestAutoScheduleUnconfirmedIsNoop(t *testing.T) {
	ctx := context.Background()
	mem := seededStore(t)
	b := &AutoSchedule{Persistence: mem}

	report, err := b.Run(ctx, "2026-01", false, true)
	require.NoError(t, err)
	assert.True(t, report.Aborted)
	assert.Empty(t, report.Months)

	set, err := mem.LoadMonth(ctx, "2026-01")
	require.NoError(t, err)
	assert.Len(t, set, 1)
	assert.Equal(t, "x", set["2026-01-05"].Idea)
	assert.Equal(t, []calendar.MonthKey{"2026-01"}, mem.Months(ctx))
}

func TestAutoScheduleFillOnlyEmpty(t *testing.T) {
	ctx := context.Background()
	mem := seededStore(t)
	b := &AutoSchedule{Persistence: mem, Scheduler: topic.Default(), Settings: DefaultSettings()}

	report, err := b.Run(ctx, "2026-01", true, false)
	require.NoError(t, err)
	require.Len(t, report.Months, 2)
	assert.Equal(t, MonthReport{Month: "2026-01", Filled: 30, Skipped: 1}, report.Months[0])
	assert.Equal(t, MonthReport{Month: "2026-02", Filled: 28}, report.Months[1])
	assert.Equal(t, 58, report.Filled())

	jan, err := mem.LoadMonth(ctx, "2026-01")
	require.NoError(t, err)
	assert.Len(t, jan, 31)
	assert.Equal(t, "x", jan["2026-01-05"].Idea)
	assert.Equal(t, record.StatusPosted, jan["2026-01-05"].Status)

	feb, err := mem.LoadMonth(ctx, "2026-02")
	require.NoError(t, err)
	assert.Len(t, feb, 28)
}

func TestAutoScheduleOverwrite(t *testing.T) {
	ctx := context.Background()
	mem := seededStore(t)
	sched := topic.Default()
	b := &AutoSchedule{Persistence: mem, Scheduler: sched, Settings: DefaultSettings()}

	_, err := b.Run(ctx, "2026-01", true, true)
	require.NoError(t, err)

	jan, err := mem.LoadMonth(ctx, "2026-01")
	require.NoError(t, err)
	r := jan["2026-01-05"]
	require.NotNil(t, r)

	// 2026-01-05 is a Monday.
	category := sched.CategoryFor(time.Monday)
	idea, err := sched.SynthesizeIdea(category, "2026-01-05")
	require.NoError(t, err)

	assert.Equal(t, idea, r.Idea)
	assert.Equal(t, record.DeriveTitle(idea), r.Title)
	assert.Equal(t, sched.ThumbnailFor(category), r.Thumb)
	assert.Equal(t, category, r.Category)
	assert.Equal(t, record.StatusPosted, r.Status, "status is preserved")
	assert.Equal(t, prompt.Compose(DefaultSettings().Request(idea, category)), r.Prompt)
	assert.JSONEq(t, "true", string(r.Extra["pinned"]), "unrelated fields are preserved")

	fresh := jan["2026-01-06"]
	require.NotNil(t, fresh)
	assert.Equal(t, record.StatusDraft, fresh.Status)
}

func TestAutoScheduleCrossesYear(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	require.NoError(t, mem.SaveMonth(ctx, "2025-12", record.MonthSet{}))
	b := &AutoSchedule{Persistence: mem}

	report, err := b.Run(ctx, "2025-12", true, false)
	require.NoError(t, err)
	require.Len(t, report.Months, 2)
	assert.Equal(t, calendar.MonthKey("2025-12"), report.Months[0].Month)
	assert.Equal(t, calendar.MonthKey("2026-01"), report.Months[1].Month)

	assert.Equal(t, []calendar.MonthKey{"2025-12", "2026-01"}, mem.Months(ctx))
	assert.Equal(t, calendar.MonthKey("2025-12"), mem.LastMonthOrNow(ctx, time.Now()),
		"writing the next month leaves the last-month pointer alone")
}

func TestAutoScheduleMonthFailureIsIsolated(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	fp := &failingPersistence{
		Persistence: mem,
		failSave:    map[calendar.MonthKey]bool{"2026-01": true},
	}
	b := &AutoSchedule{Persistence: fp}

	report, err := b.Run(ctx, "2026-01", true, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, errDiskFull)
	require.Len(t, report.Months, 2)
	assert.Error(t, report.Months[0].Err)
	assert.NoError(t, report.Months[1].Err)

	feb, err := mem.LoadMonth(ctx, "2026-02")
	require.NoError(t, err)
	assert.Len(t, feb, 28)
}

func TestAutoScheduleDayFailureIsCounted(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	sched := topic.Default()
	sched.Topics[sched.CategoryFor(time.Sunday)] = nil
	b := &AutoSchedule{Persistence: mem, Scheduler: sched}

	report, err := b.Run(ctx, "2026-02", true, false)
	require.NoError(t, err)
	// February 2026 has four Sundays.
	assert.Equal(t, 4, report.Months[0].Failed)
	assert.Equal(t, 24, report.Months[0].Filled)

	feb, err := mem.LoadMonth(ctx, "2026-02")
	require.NoError(t, err)
	assert.NotContains(t, feb, calendar.DayKey("2026-02-01"))
}

func TestAutoScheduleTreatsCategoryOnlyDayAsContent(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	set := record.MonthSet{}
	set.Materialize("2026-03-03", record.FAQs)
	require.NoError(t, mem.SaveMonth(ctx, "2026-03", set))

	report, err := (&AutoSchedule{Persistence: mem}).Run(ctx, "2026-03", true, false)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Months[0].Skipped)

	got, err := mem.LoadMonth(ctx, "2026-03")
	require.NoError(t, err)
	assert.Empty(t, got["2026-03-03"].Idea)
}

func TestAutoScheduleCancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	mem := store.NewMemory()
	report, err := (&AutoSchedule{Persistence: mem}).Run(ctx, "2026-03", true, false)
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, report.Aborted)
	assert.Empty(t, mem.Months(context.Background()))
}

func TestAutoScheduleOverNullMonths(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	mem.PutRaw("2026-01", []byte("null"))
	mem.PutRaw("2026-02", []byte("[]"))
	b := &AutoSchedule{Persistence: mem, Settings: DefaultSettings()}

	report, err := b.Run(ctx, "2026-01", true, false)
	require.NoError(t, err)
	require.Len(t, report.Months, 2)
	assert.Equal(t, 31, report.Months[0].Filled)
	assert.Equal(t, 28, report.Months[1].Filled)

	jan, err := mem.LoadMonth(ctx, "2026-01")
	require.NoError(t, err)
	assert.Len(t, jan, 31)
}

func TestAutoScheduleKeepsWhitespaceIdea(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	set := record.MonthSet{"2026-01-07": &record.DayRecord{Idea: "  "}}
	require.NoError(t, mem.SaveMonth(ctx, "2026-01", set))

	report, err := (&AutoSchedule{Persistence: mem}).Run(ctx, "2026-01", true, false)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Months[0].Skipped)

	jan, err := mem.LoadMonth(ctx, "2026-01")
	require.NoError(t, err)
	assert.Equal(t, "  ", jan["2026-01-07"].Idea)
}
