package mcp

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/propertease/pkg/app"
	"tableflip.dev/propertease/pkg/calendar"
	"tableflip.dev/propertease/pkg/record"
	"tableflip.dev/propertease/pkg/store"
)

func newTestService(t *testing.T) (*Service, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	return NewService(&app.Service{
		Persistence: mem,
		Settings:    app.DefaultSettings(),
		Now:         func() time.Time { return time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC) },
	}), mem
}

func strp(s string) *string { return &s }

func TestServiceUpdateAndGetDay(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	dto, err := svc.UpdateDay(ctx, UpdateDayOptions{
		Date:     "2026-03-12",
		Idea:     strp("Avoid fake title sellers"),
		Category: strp("scams-to-avoid"),
		Status:   strp("ready"),
		Generate: true,
	})
	require.NoError(t, err)
	assert.True(t, dto.Planned)
	assert.Equal(t, "Thursday", dto.Weekday)
	assert.Equal(t, string(record.ScamsToAvoid), dto.Category)
	assert.Equal(t, "ready", dto.Status)
	assert.Contains(t, dto.Prompt, "Category: Scams to Avoid.")
	assert.True(t, strings.HasSuffix(dto.Prompt, "Content idea: Avoid fake title sellers"))

	got, err := svc.GetDay(ctx, "2026-03-12")
	require.NoError(t, err)
	assert.Equal(t, dto, got)

	empty, err := svc.GetDay(ctx, "2026-03-13")
	require.NoError(t, err)
	assert.False(t, empty.Planned)
}

func TestServiceUpdateDayRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	svc, mem := newTestService(t)

	_, err := svc.UpdateDay(ctx, UpdateDayOptions{Date: "2026-03-12"})
	assert.Error(t, err)

	_, err = svc.UpdateDay(ctx, UpdateDayOptions{Date: "2026-03-12", Status: strp("archived")})
	assert.ErrorIs(t, err, record.ErrUnknownStatus)

	_, err = svc.UpdateDay(ctx, UpdateDayOptions{Date: "12/03/2026", Idea: strp("x")})
	assert.ErrorIs(t, err, calendar.ErrInvalidDayKey)

	assert.Empty(t, mem.Months(ctx))
}

func TestServiceMonthGridDefaultsToLastMonth(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	month, cells, err := svc.MonthGrid(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "2026-03", month)
	require.Len(t, cells, calendar.GridCells)

	_, err = svc.UpdateDay(ctx, UpdateDayOptions{Date: "2026-04-01", Idea: strp("Q2")})
	require.NoError(t, err)
	month, cells, err = svc.MonthGrid(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "2026-04", month)
	// April 2026 starts on a Wednesday.
	assert.Equal(t, "2026-04-01", cells[3].Date)
	assert.Equal(t, "Q2", cells[3].Title)
	assert.True(t, cells[0].Dim)
}

func TestServiceAutoScheduleAndListMonths(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.UpdateDay(ctx, UpdateDayOptions{Date: "2026-12-25", Idea: strp("Holiday"), Status: strp("posted")})
	require.NoError(t, err)

	result, err := svc.AutoSchedule(ctx, "2026-12", false)
	require.NoError(t, err)
	require.Len(t, result.Months, 2)
	assert.Equal(t, calendar.MonthKey("2027-01"), result.Months[1].Month)
	assert.Equal(t, 30, result.Months[0].Filled)
	assert.Equal(t, 1, result.Months[0].Skipped)

	months, err := svc.ListMonths(ctx)
	require.NoError(t, err)
	require.Len(t, months, 2)
	assert.Equal(t, MonthSummary{Month: "2026-12", Label: "December 2026", Days: 31, Draft: 30, Posted: 1}, months[0])

	last, err := svc.LastMonth(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2026-12", last)

	dto, err := svc.LoadMonth(ctx, "2027-01")
	require.NoError(t, err)
	assert.Equal(t, 31, dto.Count)
	assert.Equal(t, "2027-01-01", dto.Days[0].Date)
}

func TestServiceComposePrompt(t *testing.T) {
	svc, mem := newTestService(t)

	text, err := svc.ComposePrompt("", "")
	require.NoError(t, err)
	assert.Contains(t, text, "Category: Buyer Tips.")
	assert.NotContains(t, text, "Content idea")

	_, err = svc.ComposePrompt("x", "Gossip")
	assert.ErrorIs(t, err, record.ErrUnknownCategory)
	assert.Empty(t, mem.Months(context.Background()))
}

func TestTemplateArg(t *testing.T) {
	assert.Equal(t, "2026-01", templateArg("2026-01"))
	assert.Equal(t, "2026-01", templateArg([]string{"2026-01"}))
	assert.Equal(t, "", templateArg(nil))
}
