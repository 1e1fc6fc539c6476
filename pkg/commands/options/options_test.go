package options

import (
	"bytes"
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/propertease/pkg/record"
)

func TestHandleError(t *testing.T) {
	var buf bytes.Buffer
	boom := errors.New("boom")

	o := &OutputOptions{Out: &buf}
	assert.Equal(t, boom, o.HandleError(boom))
	assert.Empty(t, buf.String())

	o.JSON = true
	assert.NoError(t, o.HandleError(boom))
	assert.JSONEq(t, `{"error":"boom"}`, buf.String())
	assert.NoError(t, o.HandleError(nil))
}

func TestFormat(t *testing.T) {
	for raw, want := range map[string]Format{"": FormatJSON, "json": FormatJSON, "yaml": FormatYAML, "yml": FormatYAML} {
		got, err := ParseFormat(raw)
		require.NoError(t, err)
		assert.Equal(t, want, got, raw)
	}
	_, err := ParseFormat("csv")
	assert.Error(t, err)

	var buf bytes.Buffer
	require.NoError(t, FormatYAML.Encode(&buf, map[string]int{"days": 3}))
	assert.Equal(t, "days: 3\n", buf.String())
}

func TestDayOptionsUpdate(t *testing.T) {
	newCmd := func(args ...string) (*cobra.Command, *DayOptions) {
		o := &DayOptions{}
		cmd := &cobra.Command{Use: "set"}
		AddDayArgs(cmd, o)
		require.NoError(t, cmd.ParseFlags(args))
		return cmd, o
	}

	cmd, o := newCmd()
	u, err := o.Update(cmd)
	require.NoError(t, err)
	assert.True(t, u.Empty())

	cmd, o = newCmd("--idea", "", "--category", "condo-living", "-s", "posted")
	u, err = o.Update(cmd)
	require.NoError(t, err)
	require.NotNil(t, u.Idea)
	assert.Equal(t, "", *u.Idea)
	assert.Nil(t, u.Prompt)
	assert.Equal(t, record.CondoLiving, *u.Category)
	assert.Equal(t, record.StatusPosted, *u.Status)

	cmd, o = newCmd("--category", "gossip")
	_, err = o.Update(cmd)
	assert.ErrorIs(t, err, record.ErrUnknownCategory)
}
