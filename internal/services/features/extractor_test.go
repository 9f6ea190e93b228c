package features

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Kundali/internal/domain/models"
	"Kundali/internal/services/astro"
	"Kundali/internal/services/dasha"
)

func fixture(t *testing.T) *models.Kundali {
	t.Helper()
	lons := []float64{30.561, 271.893, 324.52, 14.312, 75.844, 348.964, 271.465, 287.624, 107.624}
	speeds := []float64{0.964, 12.328, 0.7425, -0.1295, 0.1889, 1.1403, -0.0169, -0.053, -0.053}
	k := &models.Kundali{}
	k.Planets = make([]models.PlanetPosition, models.PlanetCount)
	for i, p := range models.AllPlanets {
		pos, err := astro.NewPlanetPosition(p, lons[i], speeds[i])
		require.NoError(t, err)
		k.Planets[i] = pos
	}
	asc, err := astro.NewAscendant(151.909)
	require.NoError(t, err)
	k.Ascendant = asc
	k.Houses = astro.AssignHouses(asc.Sign, k.Planets)

	for i, p := range models.ClassicalPlanets {
		k.Strengths = append(k.Strengths, models.StrengthBreakdown{Planet: p, Percentage: float64(40 + i)})
	}
	for _, h := range k.Houses {
		k.HouseLords = append(k.HouseLords, models.HouseLordStrength{House: h.Number, Lord: h.Lord, Percentage: float64(h.Number)})
	}

	birth := time.Date(1990, 5, 15, 9, 0, 0, 0, time.UTC)
	tl, err := dasha.NewEngine(0).FromMoon(lons[1], birth, birth.AddDate(1, 0, 0))
	require.NoError(t, err)
	k.Dasha = tl

	k.Yogas = []models.YogaRecord{
		{ID: "a", Nature: models.NatureBenefic, Strength: 80},
		{ID: "b", Nature: models.NatureMalefic, Strength: 40},
	}
	k.YogaSummary = models.Summarize(k.Yogas)
	return k
}

func TestNamesContract(t *testing.T) {
	seen := map[string]bool{}
	for i, n := range Names {
		require.NotEmpty(t, n, "index %d", i)
		assert.False(t, seen[n], n)
		seen[n] = true
	}
	assert.Len(t, seen, models.FeatureCount)
}

func TestExtract(t *testing.T) {
	k := fixture(t)
	fv, err := Extract(k)
	require.NoError(t, err)

	require.Len(t, fv.Values, models.FeatureCount)
	assert.Equal(t, Version, fv.Version)
	assert.Len(t, fv.Names, models.FeatureCount)

	idx := func(name string) int {
		for i, n := range Names {
			if n == name {
				return i
			}
		}
		t.Fatalf("no feature %s", name)
		return -1
	}

	assert.InDelta(t, 30.561, fv.Values[idx("sun_longitude")], 1e-9)
	assert.Equal(t, 1.0, fv.Values[idx("sun_sign")])
	assert.Equal(t, 9.0, fv.Values[idx("sun_house")])
	assert.Equal(t, 40.0, fv.Values[idx("sun_strength")])
	assert.Equal(t, 46.0, fv.Values[idx("saturn_strength")])
	assert.Equal(t, 5.0, fv.Values[idx("ascendant_sign")])
	assert.Equal(t, 20.0, fv.Values[idx("moon_nakshatra")])
	assert.Equal(t, float64(models.Sun), fv.Values[idx("maha_dasha_lord")])
	assert.Greater(t, fv.Values[idx("maha_dasha_remaining_years")], 0.0)
	assert.Equal(t, 2.0, fv.Values[idx("yoga_count")])
	assert.Equal(t, 60.0, fv.Values[idx("yoga_mean_strength")])
	assert.Equal(t, 2.0, fv.Values[idx("retrograde_count")])
	assert.Equal(t, (1.0+4+7+10)/4, fv.Values[idx("kendra_lord_strength")])
	assert.Equal(t, (1.0+5+9)/3, fv.Values[idx("trikona_lord_strength")])
	assert.Equal(t, 0.0, fv.Values[idx("approximate")])
}

func TestExtractWithoutCurrentDasha(t *testing.T) {
	k := fixture(t)
	k.Dasha.CurrentMaha, k.Dasha.CurrentAntar = nil, nil
	k.Approximate = true

	fv, err := Extract(k)
	require.NoError(t, err)
	assert.Equal(t, -1.0, fv.Values[38])
	assert.Equal(t, -1.0, fv.Values[39])
	assert.Equal(t, 0.0, fv.Values[40])
	assert.Equal(t, 1.0, fv.Values[52])
}

func TestCheckLength(t *testing.T) {
	assert.NoError(t, CheckLength(make([]float64, models.FeatureCount)))
	assert.ErrorIs(t, CheckLength(make([]float64, 52)), models.ErrFeatureCountMismatch)
	assert.ErrorIs(t, CheckLength(make([]float64, 54)), models.ErrFeatureCountMismatch)

	k := fixture(t)
	k.Planets = k.Planets[:8]
	_, err := Extract(k)
	assert.ErrorIs(t, err, models.ErrFeatureCountMismatch)
}
