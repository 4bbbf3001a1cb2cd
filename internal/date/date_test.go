package date

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"
)

func TestWeekStart(t *testing.T) {
	tests := []struct {
		day  Date
		want Date
	}{
		{New(2026, time.October, 19), New(2026, time.October, 19)}, // Monday
		{New(2026, time.October, 21), New(2026, time.October, 19)}, // Wednesday
		{New(2026, time.October, 25), New(2026, time.October, 19)}, // Sunday
		{New(2026, time.November, 1), New(2026, time.October, 26)}, // Sunday across month
	}
	for _, tt := range tests {
		t.Run(tt.day.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.day.WeekStart())
		})
	}
}

func TestWithinAndSameMonth(t *testing.T) {
	d := New(2026, time.October, 20)
	assert.True(t, d.Within(New(2026, time.October, 20), New(2026, time.October, 20)))
	assert.True(t, d.Within(New(2026, time.October, 19), New(2026, time.October, 25)))
	assert.False(t, d.Within(New(2026, time.October, 21), New(2026, time.October, 25)))
	assert.True(t, d.SameMonth(New(2026, time.October, 1)))
	assert.False(t, d.SameMonth(New(2025, time.October, 20)))
}

func TestFromTimeIgnoresClock(t *testing.T) {
	late := time.Date(2026, time.October, 19, 23, 59, 59, 0, time.Local)
	early := time.Date(2026, time.October, 19, 0, 0, 1, 0, time.Local)
	assert.Equal(t, FromTime(late), FromTime(early))
}

func TestParseInstant(t *testing.T) {
	tests := []struct {
		in    string
		valid bool
		out   string
	}{
		{"2026-10-19", true, "2026-10-19"},
		{"2026-10-19T09:30", true, ""},
		{"2026-10-19T09:30:00Z", true, "2026-10-19T09:30:00Z"},
		{"2026-02-30", false, "2026-02-30"},
		{"next tuesday", false, "next tuesday"},
		{"", false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseInstant(tt.in)
			assert.Equal(t, tt.valid, got.Valid())
			if tt.out != "" {
				assert.Equal(t, tt.out, got.String())
			}
		})
	}
}

func TestParseInstantBlank(t *testing.T) {
	for _, s := range []string{"", "   ", "\t"} {
		assert.True(t, ParseInstant(s).Blank(), "%q", s)
	}
	assert.False(t, ParseInstant("soon").Blank())
	assert.False(t, ParseInstant("2026-10-19").Blank())
}

func TestDateOnlyDayIgnoresLocation(t *testing.T) {
	orig := time.Local
	time.Local = time.FixedZone("JST", 9*60*60)
	t.Cleanup(func() { time.Local = orig })

	in := ParseInstant("2026-10-21")
	assert.Equal(t, OnDay(New(2026, time.October, 21)), in)
	for _, loc := range []*time.Location{time.UTC, time.Local, time.FixedZone("PDT", -7*60*60)} {
		assert.Equal(t, New(2026, time.October, 21), in.Day(loc), loc.String())
	}

	timed := ParseInstant("2026-10-21T08:00")
	assert.Equal(t, New(2026, time.October, 20), timed.Day(time.UTC))
	assert.Equal(t, New(2026, time.October, 21), timed.Day(time.Local))
}

func TestParseStrictRejectsMalformed(t *testing.T) {
	_, err := ParseStrict("19/10/2026")
	require.Error(t, err)

	in, err := ParseStrict("2026-10-19")
	require.NoError(t, err)
	assert.Equal(t, New(2026, time.October, 19), in.Day(time.Local))
}

func TestInstantYAMLKeepsMalformedText(t *testing.T) {
	var doc struct {
		Due  *Instant `yaml:"due"`
		Live *Instant `yaml:"live"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("due: not-a-date\nlive: 2026-10-19\n"), &doc))
	require.NotNil(t, doc.Due)
	assert.False(t, doc.Due.Valid())
	require.NotNil(t, doc.Live)
	assert.True(t, doc.Live.Valid())

	out, err := yaml.Marshal(doc)
	require.NoError(t, err)
	assert.Contains(t, string(out), "due: not-a-date")
	assert.Contains(t, string(out), "2026-10-19")
}

func TestInstantJSON(t *testing.T) {
	in := OnDay(New(2026, time.October, 19))
	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `"2026-10-19"`, string(data))

	var back Instant
	require.NoError(t, json.Unmarshal([]byte(`"garbage"`), &back))
	assert.False(t, back.Valid())
}
