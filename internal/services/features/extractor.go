package features

import (
	"fmt"

	"Kundali/internal/domain/models"
	"Kundali/internal/services/dasha"
	"Kundali/internal/services/varga"
)

// Version identifies the index order below. Bump it whenever Names changes.
const Version = "v1"

// Names is the documented index order of the model input.
var Names = [models.FeatureCount]string{
	// 0-8 sidereal longitudes
	"sun_longitude", "moon_longitude", "mars_longitude", "mercury_longitude", "jupiter_longitude",
	"venus_longitude", "saturn_longitude", "rahu_longitude", "ketu_longitude",
	// 9-17 signs
	"sun_sign", "moon_sign", "mars_sign", "mercury_sign", "jupiter_sign",
	"venus_sign", "saturn_sign", "rahu_sign", "ketu_sign",
	// 18-26 houses
	"sun_house", "moon_house", "mars_house", "mercury_house", "jupiter_house",
	"venus_house", "saturn_house", "rahu_house", "ketu_house",
	// 27-33 shad bala percentages
	"sun_strength", "moon_strength", "mars_strength", "mercury_strength", "jupiter_strength",
	"venus_strength", "saturn_strength",
	// 34-37 ascendant and moon
	"ascendant_longitude", "ascendant_sign", "moon_nakshatra", "moon_pada",
	// 38-41 dasha
	"maha_dasha_lord", "antar_dasha_lord", "maha_dasha_remaining_years", "antar_dasha_remaining_years",
	// 42-46 yogas
	"yoga_count", "benefic_yoga_count", "malefic_yoga_count", "neutral_yoga_count", "yoga_mean_strength",
	// 47-52 misc
	"retrograde_count", "navamsha_ascendant_sign", "navamsha_moon_sign",
	"kendra_lord_strength", "trikona_lord_strength", "approximate",
}

// CheckLength enforces the fixed model input width.
func CheckLength(values []float64) error {
	if len(values) != models.FeatureCount {
		return models.NewChartError(models.CodeFeatureCountMismatch, "features",
			fmt.Sprintf("feature vector has %d values, want %d", len(values), models.FeatureCount))
	}
	return nil
}

// Extract flattens a generated chart into the model input vector.
func Extract(k *models.Kundali) (models.FeatureVector, error) {
	if len(k.Planets) != models.PlanetCount {
		return models.FeatureVector{}, models.NewChartError(models.CodeFeatureCountMismatch, "planets",
			fmt.Sprintf("chart has %d planets, want %d", len(k.Planets), models.PlanetCount))
	}

	v := make([]float64, 0, models.FeatureCount)
	for _, p := range k.Planets {
		v = append(v, p.Longitude)
	}
	for _, p := range k.Planets {
		v = append(v, float64(p.Sign))
	}
	for _, p := range k.Planets {
		v = append(v, float64(p.House))
	}

	pct := make(map[models.Planet]float64, len(k.Strengths))
	for _, s := range k.Strengths {
		pct[s.Planet] = s.Percentage
	}
	for _, p := range models.ClassicalPlanets {
		v = append(v, pct[p])
	}

	moon := k.Planets[models.Moon]
	v = append(v,
		k.Ascendant.Longitude,
		float64(k.Ascendant.Sign),
		float64(moon.Nakshatra),
		float64(moon.Pada),
	)

	ref := k.Dasha.ReferenceDate
	v = append(v,
		lordIndex(k.Dasha.CurrentMaha),
		lordIndex(k.Dasha.CurrentAntar),
		dasha.RemainingYears(k.Dasha.CurrentMaha, ref),
		dasha.RemainingYears(k.Dasha.CurrentAntar, ref),
	)

	ys := k.YogaSummary
	v = append(v,
		float64(ys.Total),
		float64(ys.Benefic),
		float64(ys.Malefic),
		float64(ys.Neutral),
		ys.MeanStrength,
	)

	d9, _ := varga.Lookup("D9")
	v = append(v,
		float64(retrogrades(k.Planets)),
		float64(d9.Sign(k.Ascendant.Longitude)),
		float64(d9.Sign(moon.Longitude)),
		lordMean(k.HouseLords, 1, 4, 7, 10),
		lordMean(k.HouseLords, 1, 5, 9),
		boolFloat(k.Approximate),
	)

	if err := CheckLength(v); err != nil {
		return models.FeatureVector{}, err
	}
	return models.FeatureVector{Version: Version, Names: Names[:], Values: v}, nil
}

// lordIndex encodes a dasha lord as its planet index, -1 when there is none.
func lordIndex(p *models.DashaPeriod) float64 {
	if p == nil {
		return -1
	}
	return float64(p.Planet)
}

func retrogrades(planets []models.PlanetPosition) int {
	n := 0
	for _, p := range planets {
		if !p.Planet.IsNode() && p.Motion == models.MotionRetrograde {
			n++
		}
	}
	return n
}

func lordMean(lords []models.HouseLordStrength, houses ...int) float64 {
	var sum float64
	var n int
	for _, hl := range lords {
		for _, h := range houses {
			if hl.House == h {
				sum += hl.Percentage
				n++
			}
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func boolFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
