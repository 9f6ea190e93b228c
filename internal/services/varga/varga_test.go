package varga

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Kundali/internal/domain/models"
	"Kundali/internal/services/astro"
)

func mustLookup(t *testing.T, id string) Division {
	t.Helper()
	d, ok := Lookup(id)
	require.True(t, ok, id)
	return d
}

func TestNavamshaMatchesContinuousCount(t *testing.T) {
	d9 := mustLookup(t, "D9")
	d27 := mustLookup(t, "D27")
	d1 := mustLookup(t, "D1")
	for lon := 0.0; lon < 360; lon += 0.173 {
		assert.Equal(t, int(math.Floor(lon/(30.0/9)))%12, d9.Sign(lon), "D9 %v", lon)
		assert.Equal(t, int(math.Floor(lon/(30.0/27)))%12, d27.Sign(lon), "D27 %v", lon)
		assert.Equal(t, int(lon/30), d1.Sign(lon))
	}
}

func TestDivisionSigns(t *testing.T) {
	tests := []struct {
		id   string
		lon  float64
		want int
	}{
		{"D2", 5, 4},
		{"D2", 20, 3},
		{"D2", 35, 3},
		{"D2", 50, 4},
		{"D3", 15, 4},
		{"D3", 25, 8},
		{"D4", 38, 4},
		{"D7", 2, 0},
		{"D7", 32, 7},
		{"D10", 30, 9},
		{"D12", 29.9, 11},
		{"D16", 30, 4},
		{"D20", 60, 4},
		{"D24", 30, 3},
		{"D30", 3, 0},
		{"D30", 7, 10},
		{"D30", 12, 8},
		{"D30", 20, 2},
		{"D30", 27, 6},
		{"D30", 33, 1},
		{"D30", 57, 7},
		{"D40", 30, 6},
		{"D45", 120, 4},
		{"D60", 29.99, 11},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, mustLookup(t, tt.id).Sign(tt.lon), "%s at %v", tt.id, tt.lon)
	}
}

func TestSignsAlwaysInRange(t *testing.T) {
	for _, d := range Divisions() {
		for lon := -30.0; lon < 390; lon += 0.41 {
			s := d.Sign(lon)
			assert.GreaterOrEqual(t, s, 0)
			assert.Less(t, s, 12)
		}
	}
}

func testChart(t *testing.T) *models.Chart {
	t.Helper()
	lons := []float64{30.561, 271.893, 324.52, 14.312, 75.844, 348.964, 271.465, 287.624, 107.624}
	c := &models.Chart{Planets: make([]models.PlanetPosition, models.PlanetCount)}
	for i, p := range models.AllPlanets {
		pos, err := astro.NewPlanetPosition(p, lons[i], 0.5)
		require.NoError(t, err)
		c.Planets[i] = pos
	}
	asc, err := astro.NewAscendant(151.909)
	require.NoError(t, err)
	c.Ascendant = asc
	return c
}

func TestGenerate(t *testing.T) {
	c := testChart(t)

	all, err := Generate(c)
	require.NoError(t, err)
	assert.Len(t, all, 16)
	for _, v := range all {
		assert.Len(t, v.Positions, models.PlanetCount)
	}
	assert.Equal(t, "D1", all[0].ID)
	assert.Equal(t, 5, all[0].AscendantSign)
	assert.Equal(t, c.Planets[models.Sun].Sign, all[0].SignOf(models.Sun))

	some, err := Generate(c, "D9", "D10")
	require.NoError(t, err)
	require.Len(t, some, 2)
	assert.Equal(t, 9, some[0].Division)
	// Virgo 1.909° is the first navamsa of an earth sign, which starts at Capricorn.
	assert.Equal(t, 9, some[0].AscendantSign)

	_, err = Generate(c, "D99")
	assert.Error(t, err)
}

func TestVargottama(t *testing.T) {
	c := testChart(t)
	pos, err := astro.NewPlanetPosition(models.Mars, 1.0, 0.5)
	require.NoError(t, err)
	c.Planets[models.Mars] = pos

	v := Vargottama(c)
	assert.Contains(t, v, models.Mars)
	for _, p := range v {
		assert.Equal(t, c.Planets[p].Sign, mustLookup(t, "D9").Sign(c.Planets[p].Longitude))
	}
}
