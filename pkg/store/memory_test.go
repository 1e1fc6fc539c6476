package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/propertease/pkg/calendar"
	"tableflip.dev/propertease/pkg/record"
)

func TestMemoryBehavesLikeDisk(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	set := record.MonthSet{}
	set.Materialize("2026-01-05", record.BuyerTips).Idea = "x"
	require.NoError(t, m.StoreMonth(ctx, "2026-01", set))

	now := time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, calendar.MonthKey("2025-11"), m.LastMonthOrNow(ctx, now))

	require.NoError(t, m.SaveMonth(ctx, "2026-01", set))
	assert.Equal(t, calendar.MonthKey("2026-01"), m.LastMonthOrNow(ctx, now))

	// Loads are copies.
	got, err := m.LoadMonth(ctx, "2026-01")
	require.NoError(t, err)
	got["2026-01-05"].Idea = "changed"
	again, err := m.LoadMonth(ctx, "2026-01")
	require.NoError(t, err)
	assert.Equal(t, "x", again["2026-01-05"].Idea)

	for _, raw := range []string{"nope", "null", "[]", `"x"`} {
		m.PutRaw("2026-02", []byte(raw))
		bad, err := m.LoadMonth(ctx, "2026-02")
		require.NoError(t, err, raw)
		require.NotNil(t, bad, raw)
		assert.Empty(t, bad, raw)
		bad.Materialize("2026-02-01", record.FAQs)
	}
}

func TestMemoryWatch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	m := NewMemory()
	ch, err := m.Watch(ctx)
	require.NoError(t, err)

	require.NoError(t, m.StoreMonth(ctx, "2026-05", record.MonthSet{}))
	assert.Equal(t, Event{Type: EventMonthChanged, Month: "2026-05"}, <-ch)

	cancel()
	for range ch {
	}
}

func TestCopyFrom(t *testing.T) {
	ctx := context.Background()
	src := NewMemory()
	set := record.MonthSet{}
	set.Materialize("2026-01-02", record.FAQs)
	require.NoError(t, src.SaveMonth(ctx, "2026-01", set))

	dst, err := CopyFrom(ctx, src, "2026-01", "2026-02")
	require.NoError(t, err)
	got, err := dst.LoadMonth(ctx, "2026-01")
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, calendar.MonthKey("2026-01"), dst.LastMonthOrNow(ctx, time.Now()))

	require.NoError(t, dst.SaveMonth(ctx, "2026-01", record.MonthSet{}))
	orig, err := src.LoadMonth(ctx, "2026-01")
	require.NoError(t, err)
	assert.Len(t, orig, 1)
}
