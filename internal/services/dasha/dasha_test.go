package dasha

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Kundali/internal/domain/models"
)

var birth = time.Date(1990, 5, 15, 9, 0, 0, 0, time.UTC)

func yearsAfter(t time.Time, y float64) time.Time {
	return t.Add(time.Duration(y * 365.25 * 24 * float64(time.Hour)))
}

func TestOrderSumsToCycle(t *testing.T) {
	var total int64
	for _, p := range Order() {
		total += Years(p)
	}
	assert.Equal(t, int64(CycleYears), total)
	assert.Equal(t, models.Ketu, Lord(0))
	assert.Equal(t, models.Sun, Lord(20))
	assert.Equal(t, models.Mercury, Lord(26))
}

func TestGenerateBalance(t *testing.T) {
	tl, err := NewEngine(0).Generate(20, 0.25, birth, birth)
	require.NoError(t, err)

	assert.Equal(t, models.Sun, tl.StartPlanet)
	assert.InDelta(t, 4.5, tl.BalanceYears, 1e-12)
	require.NotEmpty(t, tl.Periods)
	assert.True(t, tl.Periods[0].Start.Equal(birth))
	assert.InDelta(t, 4.5, tl.Periods[0].Years, 1e-12)

	want := []models.Planet{models.Sun, models.Moon, models.Mars, models.Rahu, models.Jupiter}
	for i, p := range want {
		assert.Equal(t, p, tl.Periods[i].Planet)
	}
	last := tl.Periods[len(tl.Periods)-1]
	assert.False(t, last.End.Before(yearsAfter(birth, 120)))
}

func TestAntarSumsMatchMaha(t *testing.T) {
	for nak := 0; nak < 27; nak++ {
		for _, frac := range []float64{0, 0.123456789, 0.5, 0.999} {
			tl, err := NewEngine(150).Generate(nak, frac, birth, birth)
			require.NoError(t, err)

			for i, maha := range tl.Periods {
				require.Len(t, maha.Antar, 9)
				assert.Equal(t, maha.Planet, maha.Antar[0].Planet)

				var sum float64
				for j, a := range maha.Antar {
					sum += a.Years
					assert.Equal(t, models.DashaAntar, a.Level)
					if j > 0 {
						assert.True(t, maha.Antar[j-1].End.Equal(a.Start))
					}
				}
				assert.InDelta(t, maha.Years, sum, 1e-9)
				assert.True(t, maha.Antar[0].Start.Equal(maha.Start))
				assert.True(t, maha.Antar[8].End.Equal(maha.End))
				if i > 0 {
					assert.True(t, tl.Periods[i-1].End.Equal(maha.Start))
				}
			}
		}
	}
}

func TestFullCycleIs120Years(t *testing.T) {
	tl, err := NewEngine(250).Generate(4, 0.37, birth, birth)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(tl.Periods), 11)

	var years float64
	for _, p := range tl.Periods[1:10] {
		years += p.Years
	}
	assert.InDelta(t, 120.0, years, 1e-12)

	span := tl.Periods[10].Start.Sub(tl.Periods[1].Start)
	assert.Equal(t, time.Duration(120*365.25*24)*time.Hour, span)
}

func TestCurrent(t *testing.T) {
	e := NewEngine(0)
	tl, err := e.Generate(20, 0.25, birth, yearsAfter(birth, 1))
	require.NoError(t, err)
	require.NotNil(t, tl.CurrentMaha)
	require.NotNil(t, tl.CurrentAntar)
	assert.Equal(t, models.Sun, tl.CurrentMaha.Planet)
	assert.True(t, tl.CurrentAntar.Contains(tl.ReferenceDate))

	tl, err = e.Generate(20, 0.25, birth, yearsAfter(birth, 6))
	require.NoError(t, err)
	require.NotNil(t, tl.CurrentMaha)
	assert.Equal(t, models.Moon, tl.CurrentMaha.Planet)
	assert.InDelta(t, 8.5, RemainingYears(tl.CurrentMaha, tl.ReferenceDate), 1e-6)

	tl, err = e.Generate(20, 0.25, birth, birth.AddDate(-1, 0, 0))
	require.NoError(t, err)
	assert.Nil(t, tl.CurrentMaha)
	assert.Nil(t, tl.CurrentAntar)
	assert.Zero(t, RemainingYears(tl.CurrentMaha, tl.ReferenceDate))
}

func TestGenerateInvalidMoon(t *testing.T) {
	e := NewEngine(0)
	for _, tc := range []struct {
		nak  int
		frac float64
	}{{-1, 0}, {27, 0}, {3, 1}, {3, -0.1}, {3, math.NaN()}} {
		_, err := e.Generate(tc.nak, tc.frac, birth, birth)
		assert.ErrorIs(t, err, models.ErrInvalidMoonPosition)
	}
	_, err := e.FromMoon(math.Inf(1), birth, birth)
	assert.ErrorIs(t, err, models.ErrInvalidMoonPosition)
}

func TestFromMoonDeterministic(t *testing.T) {
	e := NewEngine(0)
	a, err := e.FromMoon(271.893, birth, birth)
	require.NoError(t, err)
	b, err := e.FromMoon(271.893, birth, birth)
	require.NoError(t, err)

	assert.Equal(t, 20, a.MoonNakshatra)
	assert.Equal(t, models.Sun, a.StartPlanet)
	assert.InDelta(t, 0.392, a.NakshatraFraction, 1e-3)
	assert.Equal(t, a.Periods, b.Periods)
}
