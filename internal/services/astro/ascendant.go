package astro

import (
	"fmt"
	"math"

	"Kundali/internal/domain/models"
)

// polarEpsilon is how close to a pole the horizon-ecliptic mapping is treated as undefined.
const polarEpsilon = 1e-6

const deg = math.Pi / 180

// Obliquity returns the mean obliquity of the ecliptic in degrees.
func Obliquity(jd float64) float64 {
	t := JulianCenturies(jd)
	return 23.439291 - 0.0130042*t - 1.64e-7*t*t + 5.04e-7*t*t*t
}

// TropicalAscendant computes the ecliptic longitude rising on the eastern horizon
// from local sidereal time (degrees) and geographic latitude.
func TropicalAscendant(lst, latitude, jd float64) (float64, error) {
	if math.IsNaN(latitude) || math.Abs(latitude) > 90 {
		return 0, models.NewChartError(models.CodeInvalidCoordinates, "latitude",
			fmt.Sprintf("latitude %v outside [-90,90]", latitude))
	}
	if 90-math.Abs(latitude) < polarEpsilon {
		return 0, models.NewChartError(models.CodeAscendantComputation, "latitude",
			fmt.Sprintf("ascendant undefined at latitude %v", latitude))
	}

	eps := Obliquity(jd) * deg
	ramc := lst * deg
	phi := latitude * deg

	y := math.Cos(ramc)
	x := -(math.Sin(ramc)*math.Cos(eps) + math.Tan(phi)*math.Sin(eps))
	if math.Hypot(x, y) < 1e-12 {
		return 0, models.NewChartError(models.CodeAscendantComputation, "latitude",
			"ascendant degenerate for this sidereal time and latitude")
	}

	asc := math.Atan2(y, x) / deg
	if math.IsNaN(asc) || math.IsInf(asc, 0) {
		return 0, models.NewChartError(models.CodeAscendantComputation, "latitude",
			"ascendant computation produced a non-finite value")
	}
	return Normalize(asc), nil
}
