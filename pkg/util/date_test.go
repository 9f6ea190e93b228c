package util

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTime(t *testing.T) {
	ts := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC)

	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-10-10T10:10:10Z", ts},
		{strconv.FormatInt(ts.Unix(), 10), ts},
		{"2024-10-10", time.Date(2024, 10, 10, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, ok := ParseTime(tt.in)
		require.True(t, ok, tt.in)
		assert.True(t, tt.want.Equal(got), "%s: got %v", tt.in, got)
	}

	_, ok := ParseTime("15/05/1990")
	assert.False(t, ok)
}

func TestParseTimeDefault(t *testing.T) {
	def := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC)
	assert.True(t, def.Equal(ParseTimeDefault("", def)))
}

func TestYearsBetween(t *testing.T) {
	a := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.InDelta(t, 1.0, YearsBetween(a, a.Add(365*24*time.Hour+6*time.Hour)), 1e-12)
}

func TestStrings(t *testing.T) {
	assert.Equal(t, 7, ParseIntDefault("x", 7))
	assert.Equal(t, 3, ParseIntDefault("3", 7))
	assert.Equal(t, []string{"a:9092", "b:9092"}, SplitList(" a:9092, ,b:9092 "))
	assert.Nil(t, SplitList(""))
}
