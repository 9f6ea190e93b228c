package strength

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Kundali/internal/domain/models"
	"Kundali/internal/services/astro"
)

var delhiLocal = time.Date(1990, 5, 15, 14, 30, 0, 0, time.FixedZone("IST", 19800))

func buildChart(t *testing.T, lons, speeds [models.PlanetCount]float64, asc float64, local time.Time) *models.Chart {
	t.Helper()
	c := &models.Chart{Planets: make([]models.PlanetPosition, models.PlanetCount)}
	for i, p := range models.AllPlanets {
		pos, err := astro.NewPlanetPosition(p, lons[i], speeds[i])
		require.NoError(t, err)
		c.Planets[i] = pos
	}
	a, err := astro.NewAscendant(asc)
	require.NoError(t, err)
	c.Ascendant = a
	c.Houses = astro.AssignHouses(a.Sign, c.Planets)
	c.Moment.Local = local
	return c
}

func delhiChart(t *testing.T) *models.Chart {
	return buildChart(t,
		[models.PlanetCount]float64{30.561, 271.893, 324.52, 14.312, 75.844, 348.964, 271.465, 287.624, 107.624},
		[models.PlanetCount]float64{0.964, 12.328, 0.7425, -0.1295, 0.1889, 1.1403, -0.0169, -0.053, -0.053},
		151.909, delhiLocal)
}

func TestComputeBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	calc := NewCalculator(false)
	for n := 0; n < 200; n++ {
		var lons, speeds [models.PlanetCount]float64
		for i := range lons {
			lons[i] = rng.Float64() * 360
			speeds[i] = (rng.Float64()*2 - 0.5) * astro.MeanMotion(models.Planet(i))
		}
		local := delhiLocal.Add(time.Duration(rng.Intn(48*60)) * time.Minute)
		c := buildChart(t, lons, speeds, rng.Float64()*360, local)

		out, err := calc.Compute(context.Background(), c)
		require.NoError(t, err)
		require.Len(t, out, 7)
		for _, b := range out {
			for _, v := range []float64{b.Sthana, b.Dig, b.Kala, b.Chesta, b.Naisargika, b.Drishti} {
				assert.GreaterOrEqual(t, v, 0.0)
				assert.LessOrEqual(t, v, MaxComponent)
			}
			assert.InDelta(t, b.Sthana+b.Dig+b.Kala+b.Chesta+b.Naisargika+b.Drishti, b.Total, 1e-12)
			assert.Equal(t, b.Total/60*100, b.Percentage)
			assert.Equal(t, models.StatusFor(b.Percentage), b.Status)
		}
	}
}

func TestParallelMatchesSequential(t *testing.T) {
	c := delhiChart(t)
	seq, err := NewCalculator(false).Compute(context.Background(), c)
	require.NoError(t, err)
	par, err := NewCalculator(true).Compute(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, seq, par)
}

func TestComputeCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewCalculator(false).Compute(ctx, delhiChart(t))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSthana(t *testing.T) {
	exalted, _ := astro.NewPlanetPosition(models.Sun, 10, 1)
	assert.InDelta(t, 15.0, Sthana(models.Sun, exalted), 1e-9)

	debilitated, _ := astro.NewPlanetPosition(models.Sun, 190, 1)
	assert.InDelta(t, 0.0, Sthana(models.Sun, debilitated), 1e-9)

	own, _ := astro.NewPlanetPosition(models.Saturn, 280, 0.03)
	assert.Greater(t, Sthana(models.Saturn, own), 5.0)
}

func TestDig(t *testing.T) {
	at, _ := astro.NewPlanetPosition(models.Mercury, 151.909, 1)
	assert.InDelta(t, 15.0, Dig(models.Mercury, at, 151.909), 1e-9)

	opposite, _ := astro.NewPlanetPosition(models.Mercury, 331.909, 1)
	assert.InDelta(t, 0.0, Dig(models.Mercury, opposite, 151.909), 1e-9)

	tenth, _ := astro.NewPlanetPosition(models.Sun, 61.909, 1)
	assert.InDelta(t, 15.0, Dig(models.Sun, tenth, 151.909), 1e-9)
}

func TestTemporal(t *testing.T) {
	tm := NewTemporal(delhiLocal, 30, 210)
	assert.True(t, tm.Day)
	assert.Equal(t, models.Mars, tm.VaraLord)
	assert.Equal(t, models.Sun, tm.HoraLord)
	assert.InDelta(t, 1.0, tm.Paksha, 1e-12)

	early := time.Date(1990, 5, 16, 5, 0, 0, 0, time.UTC)
	tm = NewTemporal(early, 30, 30)
	assert.False(t, tm.Day)
	assert.Equal(t, models.Mars, tm.VaraLord)
	assert.Equal(t, models.Venus, tm.HoraLord) // last hora of Tuesday
	assert.InDelta(t, 0.0, tm.Paksha, 1e-12)
}

func TestKala(t *testing.T) {
	tm := Temporal{Day: true, Paksha: 1, VaraLord: models.Sun, HoraLord: models.Sun}
	assert.InDelta(t, 7.5+0+2.25+1.5, Kala(models.Sun, tm), 1e-12)
	assert.InDelta(t, 7.5+3.75, Kala(models.Jupiter, tm), 1e-12)
	assert.InDelta(t, 3.75, Kala(models.Moon, tm), 1e-12)
	assert.InDelta(t, 7.5+3.75, Kala(models.Mercury, tm), 1e-12)
}

func TestChesta(t *testing.T) {
	c := delhiChart(t)
	assert.Equal(t, 15.0, Chesta(models.Mercury, c.Planets[models.Mercury]))
	assert.Equal(t, 15.0, Chesta(models.Saturn, c.Planets[models.Saturn]))
	assert.Equal(t, 11.25, Chesta(models.Mars, c.Planets[models.Mars]))
	assert.Equal(t, 7.5, Chesta(models.Moon, c.Planets[models.Moon]))
}

func TestDrishtiNoAspects(t *testing.T) {
	var lons [models.PlanetCount]float64
	for i := range lons {
		lons[i] = 5
	}
	lons[models.Jupiter] = 35
	c := buildChart(t, lons, [models.PlanetCount]float64{1, 13, 0.5, 1, 0.08, 1, 0.03, -0.05, -0.05}, 0, delhiLocal)
	// Jupiter in Taurus receives no aspect from a stellium in Aries.
	assert.InDelta(t, 7.5, Drishti(models.Jupiter, c.Planets), 1e-12)
}

func TestHouseLords(t *testing.T) {
	c := delhiChart(t)
	out, err := NewCalculator(true).Compute(context.Background(), c)
	require.NoError(t, err)

	lords := HouseLords(c, out)
	require.Len(t, lords, 12)
	pct := Percentages(out)
	for i, hl := range lords {
		assert.Equal(t, i+1, hl.House)
		assert.Equal(t, astro.SignLord(hl.Sign), hl.Lord)
		assert.Equal(t, pct[hl.Lord], hl.Percentage)
	}
	assert.Equal(t, models.Mercury, lords[0].Lord)
}
