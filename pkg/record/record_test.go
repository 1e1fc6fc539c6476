package record

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/propertease/pkg/calendar"
)

func TestMaterializeCreatesOnce(t *testing.T) {
	set := MonthSet{}
	key := calendar.DayKey("2026-01-05")

	r := set.Materialize(key, MarketInsight)
	require.NotNil(t, r)
	assert.Equal(t, MarketInsight, r.Category)
	assert.Equal(t, StatusDraft, r.Status)
	assert.Empty(t, r.Idea)
	assert.Empty(t, r.Prompt)

	r.Idea = "x"
	again := set.Materialize(key, FAQs)
	assert.Same(t, r, again)
	assert.Equal(t, MarketInsight, again.Category)
	assert.Len(t, set, 1)
}

func TestIsEmpty(t *testing.T) {
	var missing *DayRecord
	assert.True(t, missing.IsEmpty())
	assert.True(t, (&DayRecord{Status: StatusReady, Prompt: "p"}).IsEmpty())
	assert.False(t, (&DayRecord{Idea: "  \n"}).IsEmpty())
	assert.False(t, (&DayRecord{Title: " "}).IsEmpty())
	assert.False(t, (&DayRecord{Idea: "x"}).IsEmpty())
	assert.False(t, (&DayRecord{Title: "x"}).IsEmpty())
	assert.False(t, New(BuyerTips).IsEmpty())
}

func TestDeriveTitle(t *testing.T) {
	assert.Equal(t, "", DeriveTitle(""))
	assert.Equal(t, "First line", DeriveTitle("\n  First line  \nsecond"))

	long := strings.Repeat("a", 60)
	got := DeriveTitle(long)
	assert.Equal(t, TitleMaxRunes, len([]rune(got)))
	assert.True(t, strings.HasSuffix(got, "…"))

	r := &DayRecord{Idea: "Idea line"}
	assert.Equal(t, "Idea line", r.DisplayTitle())
	r.Title = "Explicit"
	assert.Equal(t, "Explicit", r.DisplayTitle())
}

func TestDayRecordKeepsUnknownFields(t *testing.T) {
	in := `{"idea":"x","prompt":"","category":"FAQs","status":"ready","pinned":true,"color":"#fff"}`

	var r DayRecord
	require.NoError(t, json.Unmarshal([]byte(in), &r))
	assert.Equal(t, "x", r.Idea)
	assert.Equal(t, FAQs, r.Category)
	assert.Equal(t, StatusReady, r.Status)
	require.Len(t, r.Extra, 2)

	r.Idea = "y"
	out, err := json.Marshal(r)
	require.NoError(t, err)

	var generic map[string]any
	require.NoError(t, json.Unmarshal(out, &generic))
	assert.Equal(t, "y", generic["idea"])
	assert.Equal(t, true, generic["pinned"])
	assert.Equal(t, "#fff", generic["color"])
}

func TestDayRecordWithoutExtraHasNilExtra(t *testing.T) {
	var r DayRecord
	require.NoError(t, json.Unmarshal([]byte(`{"idea":"a","prompt":"b"}`), &r))
	assert.Nil(t, r.Extra)
}

func TestMonthSetCloneIsDeep(t *testing.T) {
	set := MonthSet{"2026-01-05": {Idea: "x", Extra: map[string]json.RawMessage{"k": json.RawMessage(`1`)}}}
	cp := set.Clone()
	cp["2026-01-05"].Idea = "changed"
	cp["2026-01-05"].Extra["k"] = json.RawMessage(`2`)
	assert.Equal(t, "x", set["2026-01-05"].Idea)
	assert.Equal(t, json.RawMessage(`1`), set["2026-01-05"].Extra["k"])
}

func TestParseCategoryAndStatus(t *testing.T) {
	c, err := ParseCategory("ofw guide")
	require.NoError(t, err)
	assert.Equal(t, OFWGuide, c)

	c, err = ParseCategory("loan-and-financing")
	require.NoError(t, err)
	assert.Equal(t, LoanAndFinancing, c)

	_, err = ParseCategory("gardening")
	assert.ErrorIs(t, err, ErrUnknownCategory)

	s, err := ParseStatus(" Posted ")
	require.NoError(t, err)
	assert.Equal(t, StatusPosted, s)

	_, err = ParseStatus("archived")
	assert.ErrorIs(t, err, ErrUnknownStatus)
}
