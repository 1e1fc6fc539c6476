package app

import (
	"context"
	"errors"
	"strings"
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

var errDiskFull = errors.New("disk full")

// failingPersistence fails writes for the listed months.
type failingPersistence struct {
	store.Persistence
	failSave map[calendar.MonthKey]bool
	failLoad map[calendar.MonthKey]bool
}

func (f *failingPersistence) LoadMonth(ctx context.Context, key calendar.MonthKey) (record.MonthSet, error) {
	if f.failLoad[key] {
		return nil, errDiskFull
	}
	return f.Persistence.LoadMonth(ctx, key)
}

func (f *failingPersistence) SaveMonth(ctx context.Context, key calendar.MonthKey, data record.MonthSet) error {
	if f.failSave[key] {
		return errDiskFull
	}
	return f.Persistence.SaveMonth(ctx, key, data)
}

func (f *failingPersistence) StoreMonth(ctx context.Context, key calendar.MonthKey, data record.MonthSet) error {
	if f.failSave[key] {
		return errDiskFull
	}
	return f.Persistence.StoreMonth(ctx, key, data)
}

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newService(p store.Persistence) *Service {
	return &Service{
		Persistence: p,
		Scheduler:   topic.Default(),
		Settings:    DefaultSettings(),
		Now:         fixedNow(time.Date(2026, 1, 14, 9, 0, 0, 0, time.UTC)),
	}
}

func TestUpdateDayMaterializesAndSaves(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	svc := newService(mem)

	idea := "Open house weekend\nbring snacks"
	status := record.StatusReady
	r, err := svc.UpdateDay(ctx, "2026-02-07", DayUpdate{Idea: &idea, Status: &status, Generate: true})
	require.NoError(t, err)
	assert.Equal(t, record.DefaultCategory, r.Category)
	assert.Equal(t, record.StatusReady, r.Status)
	assert.True(t, strings.HasSuffix(r.Prompt, "Content idea: Open house weekend\nbring snacks"))

	got, err := svc.Day(ctx, "2026-02-07")
	require.NoError(t, err)
	assert.Equal(t, idea, got.Idea)
	assert.Equal(t, "Open house weekend", got.DisplayTitle())

	last, err := svc.LastMonth(ctx)
	require.NoError(t, err)
	assert.Equal(t, calendar.MonthKey("2026-02"), last)
}

func TestDayMissingIsNil(t *testing.T) {
	svc := newService(store.NewMemory())
	got, err := svc.Day(context.Background(), "2026-02-07")
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = svc.Day(context.Background(), "2026-2-7")
	assert.ErrorIs(t, err, calendar.ErrInvalidDayKey)
}

func TestComposePromptDefaultsCategory(t *testing.T) {
	svc := newService(store.NewMemory())
	got := svc.ComposePrompt("", "")
	assert.Equal(t, prompt.Compose(prompt.Request{
		Category:  record.DefaultCategory,
		StylePack: prompt.DefaultStylePack,
	}), got)
}

func TestSettingsRequestCarriesCategory(t *testing.T) {
	s := Settings{StylePack: "Bold Minimal", AllowProject: true}
	req := s.Request("Condo dues", record.CondoLiving)
	assert.Equal(t, prompt.Request{
		Idea:         "Condo dues",
		Category:     record.CondoLiving,
		StylePack:    "Bold Minimal",
		AllowProject: true,
	}, req)
	assert.Contains(t, prompt.Compose(req), "Category: Condo Living.")
}

func TestParseDay(t *testing.T) {
	d, err := ParseDay("5", "2026-02")
	require.NoError(t, err)
	assert.Equal(t, calendar.DayKey("2026-02-05"), d)

	_, err = ParseDay("30", "2026-02")
	assert.ErrorIs(t, err, calendar.ErrInvalidDayKey)

	d, err = ParseDay("2026-03-01", "2026-02")
	require.NoError(t, err)
	assert.Equal(t, calendar.DayKey("2026-03-01"), d)
}

func TestMonthGridDecoratesOwnMonthOnly(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	svc := newService(mem)

	set := record.MonthSet{}
	set.Materialize("2026-01-14", record.FAQs).Idea = "q and a"
	require.NoError(t, mem.StoreMonth(ctx, "2026-01", set))
	other := record.MonthSet{}
	other.Materialize("2026-02-01", record.FAQs)
	require.NoError(t, mem.StoreMonth(ctx, "2026-02", other))

	cells, err := svc.MonthGrid(ctx, "2026-01")
	require.NoError(t, err)
	require.Len(t, cells, calendar.GridCells)

	var withRecord, today int
	for _, c := range cells {
		if c.Record != nil {
			withRecord++
			assert.Equal(t, calendar.DayKey("2026-01-14"), c.Key)
		}
		if c.Today {
			today++
			assert.Equal(t, calendar.DayKey("2026-01-14"), c.Key)
		}
	}
	assert.Equal(t, 1, withRecord)
	assert.Equal(t, 1, today)
}
